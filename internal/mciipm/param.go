package mciipm

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"ipm_parser/internal/config"
	"ipm_parser/internal/encoding"
)

// Parameter file row layout. Compressed files identify the table by a
// three character sub id resolved through the IP0000T1 index; expanded
// files carry the full table id on every row.
const (
	compressedTimestampEnd = 7
	compressedSubIDStart   = 8
	compressedSubIDEnd     = 11
	compressedOffset       = -8

	expandedTimestampEnd = 10
	expandedTableIDStart = 11
	expandedTableIDEnd   = 19

	indexKeyStart   = 11
	indexKeyEnd     = 19
	indexTableStart = 19
	indexTableEnd   = 27
	indexSubIDStart = 243
	indexSubIDEnd   = 246

	trailerPrefix = "TRAILER RECORD IP0000T1"
	indexTableID  = "IP0000T1"
)

// ParamReaderOptions configure an IpmParamReader.
type ParamReaderOptions struct {
	// Encoding names the file's text encoding (default latin-1).
	Encoding string

	// Blocked selects 1014 blocked input instead of plain VBS.
	Blocked bool

	// Expanded selects the expanded file layout; compressed otherwise.
	Expanded bool

	// Config supplies the parameter table layouts. Nil selects
	// config.Default().
	Config *config.Config
}

// IpmParamReader extracts rows of a single parameter table from an IPM
// parameter file.
type IpmParamReader struct {
	vbs        *VbsReader
	codec      *encoding.Codec
	layout     map[string]config.ParamColumn
	tableID    string
	expanded   bool
	tableIndex map[string]string
}

// NewIpmParamReader creates a reader for one parameter table. The
// constructor scans the file's IP0000T1 table index up to its trailer
// record; a file without the trailer is rejected.
func NewIpmParamReader(r io.Reader, tableID string, opts ParamReaderOptions) (*IpmParamReader, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	layout, ok := cfg.ParameterTables[tableID]
	if !ok {
		return nil, &config.ConfigError{Msg: fmt.Sprintf("parameter config not available for table %s", tableID)}
	}
	codec, err := encoding.Lookup(opts.Encoding)
	if err != nil {
		return nil, err
	}
	pr := &IpmParamReader{
		vbs:        NewVbsReader(r, opts.Blocked),
		codec:      codec,
		layout:     layout,
		tableID:    tableID,
		expanded:   opts.Expanded,
		tableIndex: map[string]string{},
	}
	if cfg.MaxVBSRecordLength > 0 {
		pr.vbs.MaxRecordLength = cfg.MaxVBSRecordLength
	}

	// load the IP0000T1 table index
	trailerFound := false
	for {
		raw, err := pr.vbs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		record, err := codec.Decode(raw)
		if err != nil {
			return nil, err
		}
		if slice(record, indexKeyStart, indexKeyEnd) == indexTableID {
			pr.tableIndex[slice(record, indexSubIDStart, indexSubIDEnd)] = slice(record, indexTableStart, indexTableEnd)
		}
		if len(record) >= len(trailerPrefix) && record[:len(trailerPrefix)] == trailerPrefix {
			trailerFound = true
			break
		}
	}
	if !trailerFound {
		return nil, &DataError{Msg: "parameter file missing IP0000T1 trailer record"}
	}
	return pr, nil
}

// Columns returns the row keys in emission order: the automatic columns
// first, then the layout columns sorted by position.
func (r *IpmParamReader) Columns() []string {
	names := make([]string, 0, len(r.layout))
	for name := range r.layout {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if r.layout[names[i]].Start != r.layout[names[j]].Start {
			return r.layout[names[i]].Start < r.layout[names[j]].Start
		}
		return names[i] < names[j]
	})
	return append([]string{"table_id", "effective_timestamp", "active_inactive_code"}, names...)
}

// Next returns the next row of the selected table, or io.EOF.
func (r *IpmParamReader) Next() (map[string]string, error) {
	for {
		raw, err := r.vbs.Next()
		if err != nil {
			return nil, err
		}
		record, err := r.codec.Decode(raw)
		if err != nil {
			return nil, err
		}

		var tableID, timestamp, activeCode string
		offset := 0
		if r.expanded {
			tableID = slice(record, expandedTableIDStart, expandedTableIDEnd)
			timestamp = slice(record, 0, expandedTimestampEnd)
			activeCode = slice(record, expandedTimestampEnd, expandedTimestampEnd+1)
		} else {
			tableID = r.tableIndex[slice(record, compressedSubIDStart, compressedSubIDEnd)]
			timestamp = slice(record, 0, compressedTimestampEnd)
			activeCode = slice(record, compressedTimestampEnd, compressedTimestampEnd+1)
			offset = compressedOffset
		}
		if tableID != r.tableID {
			continue
		}

		row := map[string]string{
			"table_id":             tableID,
			"effective_timestamp":  timestamp,
			"active_inactive_code": activeCode,
		}
		for name, col := range r.layout {
			value := slice(record, col.Start+offset, col.End+offset)
			if col.Type == "datetime" {
				value = paramDate(value, col.Pivot)
			}
			row[name] = value
		}
		return row, nil
	}
}

// paramDate converts a YYMMDD column to ISO 8601 using the declared
// century pivot. Values that are not six digit dates pass through
// unchanged.
func paramDate(value string, pivot int) string {
	if len(value) != 6 {
		return value
	}
	yy, err := strconv.Atoi(value[:2])
	if err != nil {
		return value
	}
	if pivot <= 0 {
		pivot = 50
	}
	century := 2000
	if yy >= pivot {
		century = 1900
	}
	t, err := time.Parse("20060102", fmt.Sprintf("%04d%s", century+yy, value[2:]))
	if err != nil {
		return value
	}
	return t.Format("2006-01-02")
}

// slice takes the half-open character range [start,end) of record,
// clamped to the record's length.
func slice(record string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if start > len(record) {
		start = len(record)
	}
	if end > len(record) {
		end = len(record)
	}
	if end < start {
		end = start
	}
	return record[start:end]
}
