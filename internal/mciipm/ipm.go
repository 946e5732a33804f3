package mciipm

import (
	"fmt"
	"io"

	"ipm_parser/internal/config"
	"ipm_parser/internal/iso8583"
)

// ReaderOptions configure an IpmReader.
type ReaderOptions struct {
	// Encoding names the file's text encoding (default latin-1).
	Encoding string

	// Blocked selects 1014 blocked input instead of plain VBS.
	Blocked bool

	// Config supplies the field table. Nil selects config.Default().
	Config *config.Config

	// HexBin renders binary field values as uppercase hex text.
	HexBin bool
}

// IpmReader iterates the ISO8583 records of an IPM file as flat
// records.
type IpmReader struct {
	vbs  *VbsReader
	opts iso8583.Options
}

// NewIpmReader creates a reader over an IPM file.
func NewIpmReader(r io.Reader, opts ReaderOptions) *IpmReader {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	vbs := NewVbsReader(r, opts.Blocked)
	if cfg.MaxVBSRecordLength > 0 {
		vbs.MaxRecordLength = cfg.MaxVBSRecordLength
	}
	return &IpmReader{
		vbs: vbs,
		opts: iso8583.Options{
			Encoding: opts.Encoding,
			Config:   cfg,
			HexBin:   opts.HexBin,
		},
	}
}

// Next returns the next decoded record, or io.EOF at the end of the
// file.
func (r *IpmReader) Next() (iso8583.Record, error) {
	raw, err := r.vbs.Next()
	if err != nil {
		return nil, err
	}
	rec, err := iso8583.Loads(raw, &r.opts)
	if err != nil {
		return nil, &DataError{
			RecordNumber: r.vbs.RecordNumber(),
			Msg:          "processing ISO8583 record",
			Err:          err,
		}
	}
	return rec, nil
}

// WriterOptions configure an IpmWriter.
type WriterOptions struct {
	// Encoding names the output text encoding (default latin-1).
	Encoding string

	// Blocked selects 1014 blocked output instead of plain VBS.
	Blocked bool

	// Config supplies the field table. Nil selects config.Default().
	Config *config.Config
}

// IpmWriter writes flat records to an IPM file. Close is mandatory.
type IpmWriter struct {
	vbs  *VbsWriter
	opts iso8583.Options
}

// NewIpmWriter creates a writer producing an IPM file.
func NewIpmWriter(w io.Writer, opts WriterOptions) *IpmWriter {
	return &IpmWriter{
		vbs: NewVbsWriter(w, opts.Blocked),
		opts: iso8583.Options{
			Encoding: opts.Encoding,
			Config:   opts.Config,
		},
	}
}

// Write encodes one record and appends it to the file.
func (w *IpmWriter) Write(rec iso8583.Record) error {
	raw, err := iso8583.Dumps(rec, &w.opts)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return w.vbs.Write(raw)
}

// Close finalises the file.
func (w *IpmWriter) Close() error {
	return w.vbs.Close()
}

// Finalised reports whether Close has completed.
func (w *IpmWriter) Finalised() bool {
	return w.vbs.Finalised()
}
