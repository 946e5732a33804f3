// Package iso8583 encodes and decodes the ISO8583 message variant used
// on clearing files: a 4 character MTI, a primary and optional
// secondary bitmap, then data elements in ascending index order. Decoded
// messages are flat records keyed MTI, DEn and PDSnnnn, plus projected
// keys added by field processors.
package iso8583

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ipm_parser/internal/config"
	"ipm_parser/internal/encoding"
)

// Options control message encoding and decoding. The zero value selects
// the default text encoding, the compiled-in field table, a binary
// bitmap and opaque-bytes binary values.
type Options struct {
	// Encoding names the message text encoding (cp500, latin-1, ...).
	Encoding string

	// Config supplies the field table. Nil selects config.Default().
	Config *config.Config

	// HexBitmap selects the 16/32 hex character bitmap form instead of
	// 8/16 raw bytes.
	HexBitmap bool

	// HexBin renders binary field values as uppercase hex text in the
	// decoded record instead of opaque bytes.
	HexBin bool
}

type codecState struct {
	codec *encoding.Codec
	cfg   *config.Config
	opts  Options
}

func newCodecState(opts *Options) (*codecState, error) {
	if opts == nil {
		opts = &Options{}
	}
	codec, err := encoding.Lookup(opts.Encoding)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return &codecState{codec: codec, cfg: cfg, opts: *opts}, nil
}

// Loads decodes a single ISO8583 message into a flat record.
func Loads(message []byte, opts *Options) (Record, error) {
	st, err := newCodecState(opts)
	if err != nil {
		return nil, err
	}

	if len(message) < 4 {
		return nil, &FieldError{Msg: "message too short for MTI"}
	}
	mti, err := st.codec.Decode(message[:4])
	if err != nil {
		return nil, &FieldError{Msg: "undecodable MTI", Err: err}
	}
	if _, err := strconv.Atoi(mti); err != nil {
		return nil, &FieldError{Msg: fmt.Sprintf("MTI %q is not numeric", mti)}
	}
	rec := Record{"MTI": Text(mti)}

	body := message[4:]
	var present []int
	var bitmapLen int
	if st.opts.HexBitmap {
		present, bitmapLen, err = unpackHexBitmap(body, st.codec)
	} else {
		present, bitmapLen, err = unpackBitmap(body)
	}
	if err != nil {
		return nil, err
	}
	data := body[bitmapLen:]

	p := 0
	for _, bit := range present {
		f := st.cfg.Field(bit)
		if f == nil {
			return nil, &FieldError{Field: bit, Msg: "no field configuration"}
		}
		value, consumed, err := decodeField(bit, f, data[p:], st.codec)
		if err != nil {
			return nil, err
		}
		p += consumed

		if f.DateLayout != "" && !value.IsBinary() {
			iso, err := dateFromWire(bit, value.String(), f.DateLayout)
			if err != nil {
				return nil, err
			}
			value = Text(iso)
		}
		rec["DE"+strconv.Itoa(bit)] = value

		if f.Processor != "" {
			if proc, ok := processors[f.Processor]; ok {
				if err := proc.Project(bit, f, value, rec); err != nil {
					return nil, err
				}
			}
		}
	}
	if p != len(data) {
		return nil, &FieldError{
			Msg: fmt.Sprintf("message data not fully consumed: fields end at %d, message data is %d bytes", p, len(data)),
		}
	}

	if st.opts.HexBin {
		for key, v := range rec {
			if v.IsBinary() {
				rec[key] = Text(v.Hex())
			}
		}
	}
	return rec, nil
}

// Dumps encodes a flat record into a single ISO8583 message. PDSnnnn
// keys are gathered into the configured container fields, replacing any
// caller-supplied container value. Keys that are not MTI, a configured
// DEn or PDSnnnn are ignored, so projected keys round trip harmlessly;
// the exception is a key that starts with PDS but is not PDSnnnn, which
// is an error.
func Dumps(rec Record, opts *Options) ([]byte, error) {
	st, err := newCodecState(opts)
	if err != nil {
		return nil, err
	}

	// Work on a copy: the caller's record is read-only and the PDS
	// assembly rewrites container fields.
	work := make(Record, len(rec))
	for key, v := range rec {
		work[key] = v
	}

	chunks, err := encodePDS(work)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 {
		containers := st.cfg.PDSContainers()
		if len(chunks) > len(containers) {
			return nil, &PdsError{Msg: fmt.Sprintf("PDS data needs %d container fields, %d configured", len(chunks), len(containers))}
		}
		for i, chunk := range chunks {
			work["DE"+strconv.Itoa(containers[i])] = Text(chunk)
		}
		// A stale caller-supplied container with no chunk assigned would
		// duplicate PDS data; clear the leftovers.
		for _, bit := range containers[len(chunks):] {
			delete(work, "DE"+strconv.Itoa(bit))
		}
	}

	var present []int
	for key, v := range work {
		if !strings.HasPrefix(key, "DE") {
			continue
		}
		bit, err := strconv.Atoi(key[2:])
		if err != nil || bit < 2 || bit > 128 {
			continue
		}
		if v.IsZero() || st.cfg.Field(bit) == nil {
			continue
		}
		present = append(present, bit)
	}
	sort.Ints(present)

	var fieldData []byte
	for _, bit := range present {
		f := st.cfg.Field(bit)
		encoded, err := encodeField(bit, f, work["DE"+strconv.Itoa(bit)], st.codec)
		if err != nil {
			return nil, err
		}
		fieldData = append(fieldData, encoded...)
	}

	var out []byte
	if mti, ok := work["MTI"]; ok {
		encoded, err := st.codec.Encode(mti.String())
		if err != nil {
			return nil, &FieldError{Msg: "unencodable MTI", Err: err}
		}
		out = append(out, encoded...)
	}
	bitmap := packBitmap(present)
	if st.opts.HexBitmap {
		encoded, err := st.codec.Encode(hex.EncodeToString(bitmap))
		if err != nil {
			return nil, &BitmapError{Msg: "unencodable hex bitmap"}
		}
		out = append(out, encoded...)
	} else {
		out = append(out, bitmap...)
	}
	return append(out, fieldData...), nil
}

// unpackHexBitmap reads the hex form of the bitmap: 16 characters for
// the primary, 16 more when the secondary indicator is set.
func unpackHexBitmap(data []byte, codec *encoding.Codec) ([]int, int, error) {
	const hexSize = 2 * bitmapSize
	raw, size, err := decodeHexBitmapBytes(data, hexSize, codec)
	if err != nil {
		return nil, 0, err
	}
	if raw[0]&0x80 != 0 {
		more, moreSize, err := decodeHexBitmapBytes(data[size:], hexSize, codec)
		if err != nil {
			return nil, 0, err
		}
		raw = append(raw, more...)
		size += moreSize
	}
	present, _, err := unpackBitmap(raw)
	return present, size, err
}

func decodeHexBitmapBytes(data []byte, n int, codec *encoding.Codec) ([]byte, int, error) {
	if len(data) < n {
		return nil, 0, &BitmapError{Msg: "truncated hex bitmap"}
	}
	text, err := codec.Decode(data[:n])
	if err != nil {
		return nil, 0, &BitmapError{Msg: "undecodable hex bitmap"}
	}
	raw, err := hex.DecodeString(text)
	if err != nil {
		return nil, 0, &BitmapError{Msg: "invalid hex bitmap"}
	}
	return raw, n, nil
}
