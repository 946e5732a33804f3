package mciipm

import (
	"bytes"
	"io"
)

// RecordsToBytes frames a list of record payloads as a complete VBS
// byte string, optionally 1014 blocked.
func RecordsToBytes(records [][]byte, blocked bool) ([]byte, error) {
	var buf bytes.Buffer
	w := NewVbsWriter(&buf, blocked)
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BytesToRecords unframes a complete VBS byte string into its record
// payloads.
func BytesToRecords(data []byte, blocked bool) ([][]byte, error) {
	r := NewVbsReader(bytes.NewReader(data), blocked)
	var records [][]byte
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
