package iso8583

import (
	"bytes"
	"strings"
	"testing"

	"ipm_parser/internal/config"
)

func TestDumpsMinimalMessage(t *testing.T) {
	rec := Record{"MTI": Text("1144"), "DE2": Text("4444555566667777")}
	message, err := Dumps(rec, nil)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}

	want := append([]byte("1144"), 0x40, 0, 0, 0, 0, 0, 0, 0)
	want = append(want, []byte("164444555566667777")...)
	if !bytes.Equal(message, want) {
		t.Errorf("message = % x, want % x", message, want)
	}
}

func TestLoadsMinimalMessage(t *testing.T) {
	message := append([]byte("1144"), 0x40, 0, 0, 0, 0, 0, 0, 0)
	message = append(message, []byte("164444555566667777")...)

	rec, err := Loads(message, nil)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if rec["MTI"].String() != "1144" {
		t.Errorf("MTI = %q, want 1144", rec["MTI"].String())
	}
	if rec["DE2"].String() != "4444555566667777" {
		t.Errorf("DE2 = %q, want 4444555566667777", rec["DE2"].String())
	}
}

func TestRoundTripSecondaryBitmap(t *testing.T) {
	cfg, err := config.New(map[string]*config.Field{
		"2":  {Name: "PAN", Type: config.TypeLLVar, DataType: config.DataN},
		"70": {Name: "Network management code", Type: config.TypeFixed, Length: 3, DataType: config.DataN},
	})
	if err != nil {
		t.Fatal(err)
	}
	opts := &Options{Config: cfg}

	rec := Record{"MTI": Text("1804"), "DE2": Text("4444555566667777"), "DE70": Text("301")}
	message, err := Dumps(rec, opts)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	if message[4] != 0xc0 {
		t.Errorf("bitmap byte 0 = %02x, want c0", message[4])
	}
	// 4 MTI + 16 bitmap
	if len(message) != 4+16+2+16+3 {
		t.Errorf("message length = %d", len(message))
	}

	decoded, err := Loads(message, opts)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["DE2"].String() != "4444555566667777" || decoded["DE70"].String() != "301" {
		t.Errorf("decoded = %v", decoded)
	}
}

func TestDumpsEmptyMessage(t *testing.T) {
	message, err := Dumps(Record{"MTI": Text("1644")}, nil)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	want := append([]byte("1644"), make([]byte, 8)...)
	if !bytes.Equal(message, want) {
		t.Errorf("message = % x, want % x", message, want)
	}
}

func TestDumpsIgnoresDE1AndUnknownKeys(t *testing.T) {
	rec := Record{
		"MTI":       Text("1144"),
		"DE1":       Text("ffffffffffffffff"),
		"DE2":       Text("4444555566667777"),
		"DE43_NAME": Text("SOME MERCHANT"),
		"ICC_DATA":  Text("9F2608AABBCCDD"),
		"DE999":     Text("nonsense"),
	}
	message, err := Dumps(rec, nil)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	// identical to the minimal message: nothing but MTI and DE2 encoded
	want := append([]byte("1144"), 0x40, 0, 0, 0, 0, 0, 0, 0)
	want = append(want, []byte("164444555566667777")...)
	if !bytes.Equal(message, want) {
		t.Errorf("message = % x, want % x", message, want)
	}
}

func TestPdsRoundTrip(t *testing.T) {
	rec := Record{
		"MTI":     Text("1144"),
		"PDS0148": Text("XYZ"),
		"PDS0023": Text("ABC"),
	}
	message, err := Dumps(rec, nil)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	// tags in ascending order inside the DE48 container
	if !bytes.Contains(message, []byte("0023003ABC0148003XYZ")) {
		t.Errorf("message does not contain ordered PDS payload: % x", message)
	}

	decoded, err := Loads(message, nil)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["PDS0023"].String() != "ABC" {
		t.Errorf("PDS0023 = %q, want ABC", decoded["PDS0023"].String())
	}
	if decoded["PDS0148"].String() != "XYZ" {
		t.Errorf("PDS0148 = %q, want XYZ", decoded["PDS0148"].String())
	}
	// the raw container key is retained on decode
	if decoded["DE48"].String() != "0023003ABC0148003XYZ" {
		t.Errorf("DE48 = %q", decoded["DE48"].String())
	}
}

func TestPdsOverwritesSuppliedContainer(t *testing.T) {
	rec := Record{
		"MTI":     Text("1144"),
		"DE48":    Text("9999003OLD"),
		"PDS0023": Text("ABC"),
	}
	message, err := Dumps(rec, nil)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	if bytes.Contains(message, []byte("OLD")) {
		t.Error("caller-supplied container value should be overwritten")
	}
	decoded, err := Loads(message, nil)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["DE48"].String() != "0023003ABC" {
		t.Errorf("DE48 = %q, want 0023003ABC", decoded["DE48"].String())
	}
}

func TestPdsChunkingAcrossContainers(t *testing.T) {
	// two values of 600 characters cannot share one 999 character
	// container, so the second spills into DE62
	rec := Record{
		"MTI":     Text("1144"),
		"PDS0001": Text(strings.Repeat("A", 600)),
		"PDS0002": Text(strings.Repeat("B", 600)),
	}
	message, err := Dumps(rec, nil)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	decoded, err := Loads(message, nil)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["PDS0001"].String() != strings.Repeat("A", 600) {
		t.Error("PDS0001 lost in chunking")
	}
	if decoded["PDS0002"].String() != strings.Repeat("B", 600) {
		t.Error("PDS0002 lost in chunking")
	}
	if decoded["DE48"].IsZero() || decoded["DE62"].IsZero() {
		t.Error("expected PDS data across DE48 and DE62")
	}
}

func TestHexBitmapRoundTrip(t *testing.T) {
	opts := &Options{HexBitmap: true}
	rec := Record{"MTI": Text("1144"), "DE2": Text("4444555566667777")}
	message, err := Dumps(rec, opts)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	want := []byte("11444000000000000000164444555566667777")
	if !bytes.Equal(message, want) {
		t.Errorf("message = %q, want %q", message, want)
	}
	decoded, err := Loads(message, opts)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["DE2"].String() != "4444555566667777" {
		t.Errorf("DE2 = %q", decoded["DE2"].String())
	}
}

func TestCp500RoundTrip(t *testing.T) {
	opts := &Options{Encoding: "cp500"}
	rec := Record{"MTI": Text("1144"), "DE2": Text("4444555566667777"), "DE38": Text("APP 01")}
	message, err := Dumps(rec, opts)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	// MTI is EBCDIC digits, not ascii
	if !bytes.Equal(message[:4], []byte{0xf1, 0xf1, 0xf4, 0xf4}) {
		t.Errorf("MTI bytes = % x", message[:4])
	}
	decoded, err := Loads(message, opts)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["DE2"].String() != "4444555566667777" {
		t.Errorf("DE2 = %q", decoded["DE2"].String())
	}
	if decoded["DE38"].String() != "APP 01" {
		t.Errorf("DE38 = %q", decoded["DE38"].String())
	}
}

func TestDateFieldProjection(t *testing.T) {
	rec := Record{"MTI": Text("1144"), "DE12": Text("2024-11-05T14:30:00")}
	message, err := Dumps(rec, nil)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	if !bytes.Contains(message, []byte("241105143000")) {
		t.Errorf("wire form should carry the strftime pattern: % x", message)
	}
	decoded, err := Loads(message, nil)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["DE12"].String() != "2024-11-05T14:30:00" {
		t.Errorf("DE12 = %q, want ISO form", decoded["DE12"].String())
	}
}

func TestBcdField(t *testing.T) {
	cfg, err := config.New(map[string]*config.Field{
		"3": {Name: "Processing code", Type: config.TypeFixed, Length: 6, DataType: config.DataNS},
		"5": {Name: "Amount", Type: config.TypeLLVar, Length: 12, DataType: config.DataNS},
	})
	if err != nil {
		t.Fatal(err)
	}
	opts := &Options{Config: cfg}

	rec := Record{"MTI": Text("1144"), "DE3": Text("280050"), "DE5": Text("12345")}
	message, err := Dumps(rec, opts)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	// DE3: 6 digits packed into 3 bytes; DE5: prefix "05" then 3 bytes
	// with a zero pad nibble
	want := append([]byte("1144"), 0x28, 0, 0, 0, 0, 0, 0, 0)
	want = append(want, 0x28, 0x00, 0x50)
	want = append(want, []byte("05")...)
	want = append(want, 0x01, 0x23, 0x45)
	if !bytes.Equal(message, want) {
		t.Errorf("message = % x, want % x", message, want)
	}

	decoded, err := Loads(message, opts)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["DE3"].String() != "280050" {
		t.Errorf("DE3 = %q, want 280050", decoded["DE3"].String())
	}
	if decoded["DE5"].String() != "12345" {
		t.Errorf("DE5 = %q, want 12345", decoded["DE5"].String())
	}
}

func TestFixedNumericZeroValue(t *testing.T) {
	cfg, err := config.New(map[string]*config.Field{
		"3": {Name: "Code", Type: config.TypeFixed, Length: 3, DataType: config.DataN},
	})
	if err != nil {
		t.Fatal(err)
	}

	// zero is a value, not an absent field
	rec := Record{"MTI": Text("1144"), "DE3": Text("0")}
	message, err := Dumps(rec, &Options{Config: cfg})
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	if !bytes.HasSuffix(message, []byte("000")) {
		t.Errorf("fixed numeric zero should left pad: % x", message)
	}
}

func TestFixedFieldPadding(t *testing.T) {
	cfg, err := config.New(map[string]*config.Field{
		"41": {Name: "Terminal", Type: config.TypeFixed, Length: 8},
		"71": {Name: "Message number", Type: config.TypeFixed, Length: 8, DataType: config.DataN},
	})
	if err != nil {
		t.Fatal(err)
	}
	opts := &Options{Config: cfg}

	rec := Record{"MTI": Text("1144"), "DE41": Text("TERM1"), "DE71": Text("42")}
	message, err := Dumps(rec, opts)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	if !bytes.Contains(message, []byte("TERM1   ")) {
		t.Error("alphanumeric fixed field should right pad with spaces")
	}
	if !bytes.Contains(message, []byte("00000042")) {
		t.Error("numeric fixed field should left pad with zeros")
	}

	decoded, err := Loads(message, opts)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["DE41"].String() != "TERM1   " {
		t.Errorf("DE41 = %q", decoded["DE41"].String())
	}
}

func TestFixedNumericOverflow(t *testing.T) {
	cfg, err := config.New(map[string]*config.Field{
		"71": {Name: "Message number", Type: config.TypeFixed, Length: 3, DataType: config.DataN},
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := Record{"MTI": Text("1144"), "DE71": Text("1234")}
	if _, err := Dumps(rec, &Options{Config: cfg}); err == nil {
		t.Error("expected overflow error for fixed numeric field")
	}
}

func TestVarLengthExceedsMaximum(t *testing.T) {
	cfg, err := config.New(map[string]*config.Field{
		"95": {Name: "Reference", Type: config.TypeLLVar, Length: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	rec := Record{"MTI": Text("1144"), "DE95": Text("ABCDEFGHIJK")}
	if _, err := Dumps(rec, &Options{Config: cfg}); err == nil {
		t.Error("expected error when value exceeds declared maximum")
	}
}

func TestLoadsLeftoverData(t *testing.T) {
	message := append([]byte("1144"), 0x40, 0, 0, 0, 0, 0, 0, 0)
	message = append(message, []byte("164444555566667777EXTRA")...)
	if _, err := Loads(message, nil); err == nil {
		t.Error("expected error for unconsumed message data")
	}
}

func TestLoadsBadLengthPrefix(t *testing.T) {
	message := append([]byte("1144"), 0x40, 0, 0, 0, 0, 0, 0, 0)
	message = append(message, []byte("XX4444")...)
	_, err := Loads(message, nil)
	if err == nil {
		t.Fatal("expected error for non-numeric length prefix")
	}
	if _, ok := err.(*FieldError); !ok {
		t.Errorf("expected *FieldError, got %T", err)
	}
}

func TestLoadsBadMTI(t *testing.T) {
	message := append([]byte("XXXX"), make([]byte, 8)...)
	if _, err := Loads(message, nil); err == nil {
		t.Error("expected error for non-numeric MTI")
	}
}

func TestLoadsUnconfiguredField(t *testing.T) {
	// bit 99 has no entry in the default field table
	message := append([]byte("1144"), packBitmap([]int{99})...)
	if _, err := Loads(message, nil); err == nil {
		t.Error("expected error for unconfigured field")
	}
}

func TestHexBinOption(t *testing.T) {
	cfg, err := config.New(map[string]*config.Field{
		"55": {Name: "ICC data", Type: config.TypeLLLVar, Length: 255, DataType: config.DataB},
	})
	if err != nil {
		t.Fatal(err)
	}

	rec := Record{"MTI": Text("1144"), "DE55": Binary([]byte{0x9f, 0x26, 0x02, 0xaa, 0xbb})}
	message, err := Dumps(rec, &Options{Config: cfg})
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}

	decoded, err := Loads(message, &Options{Config: cfg, HexBin: true})
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	if decoded["DE55"].String() != "9F2602AABB" {
		t.Errorf("DE55 = %q, want 9F2602AABB", decoded["DE55"].String())
	}

	// hex text round trips back into raw bytes
	again, err := Dumps(decoded, &Options{Config: cfg})
	if err != nil {
		t.Fatalf("Dumps hex text: %v", err)
	}
	if !bytes.Equal(again, message) {
		t.Errorf("hex round trip = % x, want % x", again, message)
	}

	opaque, err := Loads(message, &Options{Config: cfg})
	if err != nil {
		t.Fatalf("Loads opaque: %v", err)
	}
	if !opaque["DE55"].IsBinary() {
		t.Error("without HexBin, binary fields stay opaque bytes")
	}
}

func TestRoundTripPreservesEncodableKeys(t *testing.T) {
	rec := Record{
		"MTI":     Text("1244"),
		"DE2":     Text("5544332211669900"),
		"DE3":     Text("000000"),
		"DE24":    Text("200"),
		"DE38":    Text("AB1234"),
		"PDS0165": Text("SETTLE01"),
	}
	message, err := Dumps(rec, nil)
	if err != nil {
		t.Fatalf("Dumps: %v", err)
	}
	decoded, err := Loads(message, nil)
	if err != nil {
		t.Fatalf("Loads: %v", err)
	}
	for key, v := range rec {
		if decoded[key].String() != v.String() {
			t.Errorf("%s = %q, want %q", key, decoded[key].String(), v.String())
		}
	}
}
