package iso8583

import (
	"testing"

	"ipm_parser/internal/config"
)

func TestPdsProcessorMalformed(t *testing.T) {
	f := &config.Field{Type: config.TypeLLLVar, Processor: config.ProcPDS}
	tests := []struct {
		name    string
		payload string
	}{
		{"partial tag", "00"},
		{"partial length", "001401"},
		{"length overrun", "0014005AB"},
		{"bad length digits", "0014xxxAB"},
	}
	for _, tt := range tests {
		rec := Record{}
		err := (pdsProcessor{}).Project(48, f, Text(tt.payload), rec)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if _, ok := err.(*PdsError); !ok {
			t.Errorf("%s: expected *PdsError, got %T", tt.name, err)
		}
	}
}

func TestPdsProcessorDuplicateTagsKeepLast(t *testing.T) {
	f := &config.Field{Type: config.TypeLLLVar, Processor: config.ProcPDS}
	rec := Record{}
	if err := (pdsProcessor{}).Project(48, f, Text("0023003AAA0023003BBB"), rec); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if rec["PDS0023"].String() != "BBB" {
		t.Errorf("PDS0023 = %q, want BBB (last value wins)", rec["PDS0023"].String())
	}
}

func TestIccProcessor(t *testing.T) {
	f := &config.Field{Type: config.TypeLLLVar, DataType: config.DataB, Processor: config.ProcICC}
	// 9F26 (2 byte tag) length 4, then 84 (1 byte tag) length 2
	data := []byte{0x9f, 0x26, 0x04, 0xde, 0xad, 0xbe, 0xef, 0x84, 0x02, 0xa0, 0x00}
	rec := Record{}
	if err := (iccProcessor{}).Project(55, f, Binary(data), rec); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if rec["TAG9F26"].String() != "DEADBEEF" {
		t.Errorf("TAG9F26 = %q, want DEADBEEF", rec["TAG9F26"].String())
	}
	if rec["TAG84"].String() != "A000" {
		t.Errorf("TAG84 = %q, want A000", rec["TAG84"].String())
	}
	if rec["ICC_DATA"].String() != "9F2604DEADBEEF8402A000" {
		t.Errorf("ICC_DATA = %q", rec["ICC_DATA"].String())
	}
}

func TestIccProcessorStopsAtFiller(t *testing.T) {
	f := &config.Field{Type: config.TypeLLLVar, DataType: config.DataB, Processor: config.ProcICC}
	data := []byte{0x84, 0x01, 0xff, 0x00, 0x00, 0x00}
	rec := Record{}
	if err := (iccProcessor{}).Project(55, f, Binary(data), rec); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if rec["TAG84"].String() != "FF" {
		t.Errorf("TAG84 = %q, want FF", rec["TAG84"].String())
	}
	if _, ok := rec["TAG00"]; ok {
		t.Error("filler tag should stop processing")
	}
}

func TestDe43Processor(t *testing.T) {
	cfg := config.Default()
	f := cfg.Field(43)
	value := `QUICKFOOD STORE 1\HIGH ST 21\FOODVILLE    \4101      QLDAUS`
	rec := Record{}
	if err := (de43Processor{}).Project(43, f, Text(value), rec); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if rec["DE43_NAME"].String() != "QUICKFOOD STORE 1" {
		t.Errorf("DE43_NAME = %q", rec["DE43_NAME"].String())
	}
	if rec["DE43_SUBURB"].String() != "FOODVILLE" {
		t.Errorf("DE43_SUBURB = %q", rec["DE43_SUBURB"].String())
	}
	if rec["DE43_POSTCODE"].String() != "4101" {
		t.Errorf("DE43_POSTCODE = %q (should be right trimmed)", rec["DE43_POSTCODE"].String())
	}
	if rec["DE43_COUNTRY"].String() != "AUS" {
		t.Errorf("DE43_COUNTRY = %q", rec["DE43_COUNTRY"].String())
	}
}

func TestDe43ProcessorNoMatch(t *testing.T) {
	cfg := config.Default()
	f := cfg.Field(43)
	rec := Record{}
	if err := (de43Processor{}).Project(43, f, Text("no separators here"), rec); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(rec) != 0 {
		t.Errorf("no-match should project nothing, got %v", rec)
	}
}

func TestPanProcessor(t *testing.T) {
	f := &config.Field{Type: config.TypeLLVar, Processor: config.ProcPAN}
	rec := Record{"DE2": Text("4444555566667777")}
	if err := (panProcessor{}).Project(2, f, rec["DE2"], rec); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if rec["DE2"].String() != "444455******7777" {
		t.Errorf("masked PAN = %q, want 444455******7777", rec["DE2"].String())
	}
}

func TestPanPrefixProcessor(t *testing.T) {
	f := &config.Field{Type: config.TypeLLVar, Processor: config.ProcPANPrefix}
	rec := Record{"DE2": Text("4444555566667777")}
	if err := (panPrefixProcessor{}).Project(2, f, rec["DE2"], rec); err != nil {
		t.Fatalf("Project: %v", err)
	}
	if rec["DE2"].String() != "444455556" {
		t.Errorf("PAN prefix = %q, want 444455556", rec["DE2"].String())
	}
}

func TestEncodePDSOrdering(t *testing.T) {
	rec := Record{
		"PDS1000": Text("LAST"),
		"PDS0023": Text("ABC"),
		"PDS0148": Text("XYZ"),
	}
	chunks, err := encodePDS(rec)
	if err != nil {
		t.Fatalf("encodePDS: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("chunks = %d, want 1", len(chunks))
	}
	want := "0023003ABC0148003XYZ1000004LAST"
	if chunks[0] != want {
		t.Errorf("chunk = %q, want %q", chunks[0], want)
	}
}

func TestEncodePDSBadKey(t *testing.T) {
	if _, err := encodePDS(Record{"PDSXXXX": Text("A")}); err == nil {
		t.Error("expected error for non-numeric PDS key")
	}
}
