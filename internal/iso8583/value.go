package iso8583

import (
	"encoding/hex"
	"encoding/json"
)

// Value is a single flat-record value: either text or opaque bytes.
// Binary values come from binary-typed fields; everything else is text.
type Value struct {
	text   string
	raw    []byte
	binary bool
}

// Text wraps a text value.
func Text(s string) Value {
	return Value{text: s}
}

// Binary wraps an opaque byte value.
func Binary(b []byte) Value {
	return Value{raw: b, binary: true}
}

// IsBinary reports whether the value holds opaque bytes.
func (v Value) IsBinary() bool {
	return v.binary
}

// IsZero reports whether the value is empty.
func (v Value) IsZero() bool {
	if v.binary {
		return len(v.raw) == 0
	}
	return v.text == ""
}

// String returns the text form: the text itself, or uppercase hex for a
// binary value.
func (v Value) String() string {
	if v.binary {
		return v.Hex()
	}
	return v.text
}

// Bytes returns the raw bytes of a binary value, or the UTF-8 bytes of
// a text value.
func (v Value) Bytes() []byte {
	if v.binary {
		return v.raw
	}
	return []byte(v.text)
}

// Hex returns the uppercase hex representation of a binary value.
func (v Value) Hex() string {
	return strToUpperHex(v.raw)
}

func strToUpperHex(b []byte) string {
	s := hex.EncodeToString(b)
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'f' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

// MarshalJSON renders text values as strings and binary values as
// uppercase hex strings.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// Record is a flat mapping of message keys (MTI, DEn, PDSnnnn and
// projected keys) to values.
type Record map[string]Value
