package iso8583

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ipm_parser/internal/config"
	"ipm_parser/internal/encoding"
)

// prefixSize returns the number of length digits for a field type: 0
// for fixed fields, 2 for LLVAR, 3 for LLLVAR.
func prefixSize(f *config.Field) int {
	switch f.Type {
	case config.TypeLLVar:
		return 2
	case config.TypeLLLVar:
		return 3
	}
	return 0
}

// wireBytes converts a unit count to on-wire bytes: one byte per
// character or binary byte, half a byte (rounded up) per BCD digit.
func wireBytes(f *config.Field, units int) int {
	if f.DataType == config.DataNS {
		return (units + 1) / 2
	}
	return units
}

// decodeField reads one field from the start of data, returning the
// decoded value and the number of bytes consumed.
func decodeField(bit int, f *config.Field, data []byte, codec *encoding.Codec) (Value, int, error) {
	units := f.Length
	offset := prefixSize(f)
	if offset > 0 {
		if len(data) < offset {
			return Value{}, 0, &FieldError{Field: bit, Msg: "truncated length prefix"}
		}
		prefix, err := codec.Decode(data[:offset])
		if err != nil {
			return Value{}, 0, &FieldError{Field: bit, Msg: "undecodable length prefix", Err: err}
		}
		units, err = strconv.Atoi(prefix)
		if err != nil || units < 0 {
			return Value{}, 0, &FieldError{Field: bit, Msg: fmt.Sprintf("invalid length prefix %q", prefix)}
		}
		if f.Length > 0 && units > f.Length {
			return Value{}, 0, &FieldError{
				Field: bit,
				Msg:   fmt.Sprintf("length %d exceeds declared maximum %d", units, f.Length),
			}
		}
	}

	size := wireBytes(f, units)
	if len(data) < offset+size {
		return Value{}, 0, &FieldError{
			Field: bit,
			Msg:   fmt.Sprintf("field extends past end of message (need %d bytes, have %d)", size, len(data)-offset),
		}
	}
	raw := data[offset : offset+size]

	switch f.DataType {
	case config.DataB:
		value := make([]byte, size)
		copy(value, raw)
		return Binary(value), offset + size, nil
	case config.DataNS:
		digits, err := bcdDecode(raw, units)
		if err != nil {
			return Value{}, 0, &FieldError{Field: bit, Msg: "bad BCD value", Err: err}
		}
		return Text(digits), offset + size, nil
	default:
		text, err := codec.Decode(raw)
		if err != nil {
			return Value{}, 0, &FieldError{Field: bit, Msg: "undecodable field value", Err: encoding.FieldError(err, bit)}
		}
		return Text(text), offset + size, nil
	}
}

// encodeField renders one field to its wire form, including the length
// prefix for variable fields.
func encodeField(bit int, f *config.Field, v Value, codec *encoding.Codec) ([]byte, error) {
	var payload []byte
	var units int

	switch f.DataType {
	case config.DataB:
		raw := v.Bytes()
		if !v.IsBinary() {
			// text supplied for a binary field is its hex representation
			decoded, err := hex.DecodeString(strings.TrimSpace(v.String()))
			if err != nil {
				return nil, &FieldError{Field: bit, Msg: "malformed hex for binary field", Err: err}
			}
			raw = decoded
		}
		if f.Type == config.TypeFixed && len(raw) != f.Length {
			return nil, &FieldError{
				Field: bit,
				Msg:   fmt.Sprintf("binary value is %d bytes, field is %d", len(raw), f.Length),
			}
		}
		payload = raw
		units = len(raw)

	case config.DataNS:
		digits := v.String()
		if f.Type == config.TypeFixed {
			if len(digits) > f.Length {
				return nil, &FieldError{
					Field: bit,
					Msg:   fmt.Sprintf("value %q overflows fixed width %d", digits, f.Length),
				}
			}
			digits = strings.Repeat("0", f.Length-len(digits)) + digits
		}
		packed, err := bcdEncode(digits)
		if err != nil {
			return nil, &FieldError{Field: bit, Msg: "bad BCD value", Err: err}
		}
		payload = packed
		units = len(digits)

	default:
		text := v.String()
		if f.DateLayout != "" {
			text = dateToWire(text, f.DateLayout)
		}
		if f.Type == config.TypeFixed {
			switch {
			case len(text) > f.Length && f.DataType == config.DataN:
				return nil, &FieldError{
					Field: bit,
					Msg:   fmt.Sprintf("value %q overflows fixed width %d", text, f.Length),
				}
			case len(text) > f.Length:
				text = text[:f.Length]
			case f.DataType == config.DataN:
				text = strings.Repeat("0", f.Length-len(text)) + text
			default:
				text = text + strings.Repeat(" ", f.Length-len(text))
			}
		}
		encoded, err := codec.Encode(text)
		if err != nil {
			return nil, &FieldError{Field: bit, Msg: "unencodable field value", Err: encoding.FieldError(err, bit)}
		}
		payload = encoded
		units = len(encoded)
	}

	size := prefixSize(f)
	if size == 0 {
		return payload, nil
	}
	if f.Length > 0 && units > f.Length {
		return nil, &FieldError{
			Field: bit,
			Msg:   fmt.Sprintf("length %d exceeds declared maximum %d", units, f.Length),
		}
	}
	max := 99
	if size == 3 {
		max = 999
	}
	if units > max {
		return nil, &FieldError{Field: bit, Msg: fmt.Sprintf("length %d does not fit %d length digits", units, size)}
	}
	prefix, err := codec.Encode(fmt.Sprintf("%0*d", size, units))
	if err != nil {
		return nil, &FieldError{Field: bit, Msg: "unencodable length prefix", Err: err}
	}
	return append(prefix, payload...), nil
}

// isoLayouts are the date forms accepted on encode for date-formatted
// fields. Decode always emits the first matching form.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// dateToWire converts an ISO 8601 date string back to the field's wire
// pattern. Values that are not ISO 8601 pass through unchanged, which
// lets already-wire-form values round trip.
func dateToWire(text, layout string) string {
	for _, iso := range isoLayouts {
		if t, err := time.Parse(iso, text); err == nil {
			return t.Format(layout)
		}
	}
	return text
}

// dateFromWire projects a decoded wire value into ISO 8601 under the
// same key.
func dateFromWire(bit int, text, layout string) (string, error) {
	t, err := time.Parse(layout, text)
	if err != nil {
		return "", &FieldError{Field: bit, Msg: fmt.Sprintf("value %q does not match date format", text), Err: err}
	}
	if strings.Contains(layout, "15") || strings.Contains(layout, "04") || strings.Contains(layout, "05") {
		return t.Format("2006-01-02T15:04:05"), nil
	}
	return t.Format("2006-01-02"), nil
}
