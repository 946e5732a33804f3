// Package mciipm reads and writes the scheme's clearing file formats:
// VBS (variable blocked sequential) record framing, the 1014 physical
// block envelope, IPM files of ISO8583 records, and IPM parameter
// extract tables.
package mciipm

import (
	"encoding/binary"
	"fmt"
	"io"
)

// defaultMaxRecordLength bounds VBS record lengths; a larger value read
// from the length prefix indicates corrupt input.
const defaultMaxRecordLength = 6000

// VbsReader iterates the records of a VBS stream. Readers are single
// pass: a finished or failed reader cannot be restarted.
type VbsReader struct {
	// MaxRecordLength bounds the accepted record length. Set before the
	// first Next call.
	MaxRecordLength int

	r            io.Reader
	recordNumber int
	done         bool
}

// NewVbsReader creates a reader over a VBS stream. With blocked set the
// input is expected in 1014 blocked form and unblocked on the fly;
// incomplete blocks and missing fill trailers are errors. Use
// NewTolerantVbsReader for inputs with sloppy final blocks.
func NewVbsReader(r io.Reader, blocked bool) *VbsReader {
	if blocked {
		r = newUnblockReader(r, true)
	}
	return &VbsReader{MaxRecordLength: defaultMaxRecordLength, r: r}
}

// NewTolerantVbsReader is NewVbsReader with relaxed 1014 handling: a
// short final block is passed through rather than rejected.
func NewTolerantVbsReader(r io.Reader, blocked bool) *VbsReader {
	if blocked {
		r = newUnblockReader(r, false)
	}
	return &VbsReader{MaxRecordLength: defaultMaxRecordLength, r: r}
}

// Next returns the next record payload. It returns io.EOF once the
// zero-length terminator record has been read.
func (v *VbsReader) Next() ([]byte, error) {
	if v.done {
		return nil, io.EOF
	}
	v.recordNumber++

	lengthRaw := make([]byte, 4)
	if _, err := io.ReadFull(v.r, lengthRaw); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, &TruncatedError{RecordNumber: v.recordNumber, Msg: "end of data before terminator record"}
		}
		if be, ok := err.(*BlockError); ok {
			return nil, be
		}
		return nil, fmt.Errorf("reading record length: %w", err)
	}
	length := int(binary.BigEndian.Uint32(lengthRaw))
	if length > v.MaxRecordLength {
		return nil, &DataError{
			RecordNumber: v.recordNumber,
			Msg:          fmt.Sprintf("record length %d exceeds maximum %d", length, v.MaxRecordLength),
		}
	}
	if length == 0 {
		v.done = true
		return nil, io.EOF
	}

	record := make([]byte, length)
	if n, err := io.ReadFull(v.r, record); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, &TruncatedError{
				RecordNumber: v.recordNumber,
				Msg:          fmt.Sprintf("record length %d, only %d bytes available", length, n),
			}
		}
		if be, ok := err.(*BlockError); ok {
			return nil, be
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}
	return record, nil
}

// RecordNumber returns the 1-based number of the most recently read
// record.
func (v *VbsReader) RecordNumber() int {
	return v.recordNumber
}

// VbsWriter writes records in VBS framing. Close is mandatory: it
// writes the zero-length terminator (and completes the final 1014
// block when blocking is enabled); without it the output is not a valid
// file.
type VbsWriter struct {
	w         io.Writer
	block     *blockWriter
	finalised bool
}

// NewVbsWriter creates a writer emitting VBS framing, optionally inside
// 1014 blocking.
func NewVbsWriter(w io.Writer, blocked bool) *VbsWriter {
	vw := &VbsWriter{w: w}
	if blocked {
		vw.block = newBlockWriter(w)
		vw.w = vw.block
	}
	return vw
}

// Write appends one record.
func (v *VbsWriter) Write(record []byte) error {
	if v.finalised {
		return fmt.Errorf("write on finalised VBS writer")
	}
	lengthRaw := make([]byte, 4)
	binary.BigEndian.PutUint32(lengthRaw, uint32(len(record)))
	if _, err := v.w.Write(lengthRaw); err != nil {
		return fmt.Errorf("writing record length: %w", err)
	}
	if _, err := v.w.Write(record); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Close finalises the stream with the terminator record and any block
// padding.
func (v *VbsWriter) Close() error {
	if v.finalised {
		return nil
	}
	if _, err := v.w.Write([]byte{0, 0, 0, 0}); err != nil {
		return fmt.Errorf("writing terminator record: %w", err)
	}
	if v.block != nil {
		if err := v.block.Close(); err != nil {
			return err
		}
	}
	v.finalised = true
	return nil
}

// Finalised reports whether Close has completed. An unfinalised writer
// has produced an invalid file.
func (v *VbsWriter) Finalised() bool {
	return v.finalised
}
