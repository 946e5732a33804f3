// Package encoding translates between the character encodings used on
// clearing files and UTF-8 text. Clearing files produced on mainframe
// systems are EBCDIC (cp500 or cp037); files produced elsewhere are
// typically latin-1 or plain ASCII.
package encoding

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// EncodingError reports a byte sequence or character that cannot be
// represented in the selected encoding. Field is the ISO8583 field being
// processed when the error was raised, or 0 if not field related.
type EncodingError struct {
	Encoding string
	Field    int
	Err      error
}

func (e *EncodingError) Error() string {
	if e.Field > 0 {
		return fmt.Sprintf("encoding %s: field %d: %v", e.Encoding, e.Field, e.Err)
	}
	return fmt.Sprintf("encoding %s: %v", e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Codec performs bidirectional translation for a single named encoding.
// The zero value is not usable; construct with Lookup.
type Codec struct {
	name    string
	charmap *charmap.Charmap // nil for the ascii codec
}

// DefaultName is the encoding assumed when none is supplied.
const DefaultName = "latin-1"

// Lookup resolves an encoding name to a Codec. Supported names cover the
// encodings seen on real clearing files: cp500 and cp037 (EBCDIC),
// latin-1 and ascii. An empty name selects DefaultName.
func Lookup(name string) (*Codec, error) {
	if name == "" {
		name = DefaultName
	}
	normalised := strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(name, "-", ""), "_", ""))
	switch normalised {
	case "cp500", "ibm500", "ebcdic500":
		return &Codec{name: name, charmap: charmap.CodePage500}, nil
	case "cp037", "ibm037", "ebcdic":
		return &Codec{name: name, charmap: charmap.CodePage037}, nil
	case "latin1", "iso88591", "l1":
		return &Codec{name: name, charmap: charmap.ISO8859_1}, nil
	case "ascii", "usascii":
		return &Codec{name: name}, nil
	}
	return nil, &EncodingError{Encoding: name, Err: fmt.Errorf("unknown encoding")}
}

// MustLookup is Lookup for known-good names, such as package defaults.
func MustLookup(name string) *Codec {
	c, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the encoding name the codec was constructed with.
func (c *Codec) Name() string {
	return c.name
}

// Decode converts encoded bytes to text. Bytes with no assigned
// character in the encoding are an error.
func (c *Codec) Decode(b []byte) (string, error) {
	if c.charmap == nil {
		// ascii passes 7-bit bytes through unchanged
		for i, by := range b {
			if by > 0x7f {
				return "", &EncodingError{
					Encoding: c.name,
					Err:      fmt.Errorf("byte 0x%02x at offset %d is not ascii", by, i),
				}
			}
		}
		return string(b), nil
	}
	out, err := c.charmap.NewDecoder().Bytes(b)
	if err != nil {
		return "", &EncodingError{Encoding: c.name, Err: err}
	}
	s := string(out)
	if strings.ContainsRune(s, '�') {
		return "", &EncodingError{Encoding: c.name, Err: fmt.Errorf("undefined byte in input")}
	}
	return s, nil
}

// Encode converts text to encoded bytes. Characters outside the
// encoding's repertoire are an error.
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.charmap == nil {
		for i, r := range s {
			if r > 0x7f {
				return nil, &EncodingError{
					Encoding: c.name,
					Err:      fmt.Errorf("character %q at offset %d is not ascii", r, i),
				}
			}
		}
		return []byte(s), nil
	}
	out, err := c.charmap.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, &EncodingError{Encoding: c.name, Err: err}
	}
	return out, nil
}

// FieldError attaches a field number to an EncodingError so callers can
// report which message field failed translation.
func FieldError(err error, field int) error {
	if ee, ok := err.(*EncodingError); ok {
		return &EncodingError{Encoding: ee.Encoding, Field: field, Err: ee.Err}
	}
	return err
}
