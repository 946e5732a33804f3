// Package outputter projects decoded records to CSV.
package outputter

import (
	"encoding/csv"
	"io"

	"ipm_parser/internal/iso8583"
)

// RecordSource yields flat records until io.EOF.
type RecordSource interface {
	Next() (iso8583.Record, error)
}

// RowSource yields plain string rows until io.EOF.
type RowSource interface {
	Next() (map[string]string, error)
}

// WriteCSV writes one CSV row per record, with one column per requested
// field. Fields missing from a record become empty columns; record keys
// not in the field list are dropped.
func WriteCSV(w io.Writer, src RecordSource, fields []string) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false
	if err := cw.Write(fields); err != nil {
		return err
	}
	for {
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		row := make([]string, len(fields))
		for i, field := range fields {
			row[i] = rec[field].String()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRowsCSV is WriteCSV for plain string rows, such as parameter
// table extracts.
func WriteRowsCSV(w io.Writer, src RowSource, fields []string) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = false
	if err := cw.Write(fields); err != nil {
		return err
	}
	for {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		out := make([]string, len(fields))
		for i, field := range fields {
			out[i] = row[field]
		}
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
