package iso8583

import (
	"bytes"
	"testing"
)

func TestPackBitmapPrimaryOnly(t *testing.T) {
	bitmap := packBitmap([]int{2})
	want := []byte{0x40, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(bitmap, want) {
		t.Errorf("bitmap = % x, want % x", bitmap, want)
	}
}

func TestPackBitmapSecondary(t *testing.T) {
	bitmap := packBitmap([]int{2, 70})
	if len(bitmap) != 16 {
		t.Fatalf("bitmap length = %d, want 16", len(bitmap))
	}
	// bit 1 (secondary present) and bit 2 set
	if bitmap[0] != 0xc0 {
		t.Errorf("byte 0 = %02x, want c0", bitmap[0])
	}
	// field 70 = bit 6 of the secondary bitmap
	if bitmap[8] != 0x04 {
		t.Errorf("byte 8 = %02x, want 04", bitmap[8])
	}
}

func TestPackBitmapEmpty(t *testing.T) {
	bitmap := packBitmap(nil)
	if !bytes.Equal(bitmap, make([]byte, 8)) {
		t.Errorf("empty bitmap = % x, want all zeros", bitmap)
	}
}

func TestUnpackBitmap(t *testing.T) {
	present, consumed, err := unpackBitmap([]byte{0x40, 0, 0, 0, 0, 0, 0, 0, 0xff})
	if err != nil {
		t.Fatalf("unpackBitmap: %v", err)
	}
	if consumed != 8 {
		t.Errorf("consumed = %d, want 8", consumed)
	}
	if len(present) != 1 || present[0] != 2 {
		t.Errorf("present = %v, want [2]", present)
	}
}

func TestUnpackBitmapSecondary(t *testing.T) {
	data := make([]byte, 16)
	data[0] = 0xc0
	data[8] = 0x04
	present, consumed, err := unpackBitmap(data)
	if err != nil {
		t.Fatalf("unpackBitmap: %v", err)
	}
	if consumed != 16 {
		t.Errorf("consumed = %d, want 16", consumed)
	}
	if len(present) != 2 || present[0] != 2 || present[1] != 70 {
		t.Errorf("present = %v, want [2 70]", present)
	}
}

func TestUnpackBitmapRoundTrip(t *testing.T) {
	fields := []int{2, 3, 24, 64, 65, 128}
	present, _, err := unpackBitmap(packBitmap(fields))
	if err != nil {
		t.Fatalf("unpackBitmap: %v", err)
	}
	if len(present) != len(fields) {
		t.Fatalf("present = %v, want %v", present, fields)
	}
	for i := range fields {
		if present[i] != fields[i] {
			t.Errorf("present[%d] = %d, want %d", i, present[i], fields[i])
		}
	}
}

func TestUnpackBitmapTruncated(t *testing.T) {
	if _, _, err := unpackBitmap([]byte{0x40, 0}); err == nil {
		t.Error("expected error for truncated primary bitmap")
	}
	// secondary indicated but missing
	if _, _, err := unpackBitmap([]byte{0x80, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Error("expected error for truncated secondary bitmap")
	}
}
