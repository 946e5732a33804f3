package iso8583

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ipm_parser/internal/config"
)

// A processor projects a decoded field value into additional flat-record
// keys, or rewrites the field value in place. Processors are selected by
// the field_processor name in the field table.
type processor interface {
	// Name returns the processor's field_processor identifier.
	Name() string

	// Project applies the processor to the decoded value for bit,
	// updating rec as required.
	Project(bit int, f *config.Field, v Value, rec Record) error
}

// registry of processors keyed by field_processor name.
var processors = map[string]processor{}

func registerProcessor(p processor) {
	processors[p.Name()] = p
}

func init() {
	registerProcessor(pdsProcessor{})
	registerProcessor(iccProcessor{})
	registerProcessor(de43Processor{})
	registerProcessor(panProcessor{})
	registerProcessor(panPrefixProcessor{})
}

// pdsProcessor parses a PDS container payload into PDSnnnn keys. Layout
// per sub-element: 4 digit tag, 3 digit length, then that many
// characters. Duplicate tags keep the last value decoded.
type pdsProcessor struct{}

func (pdsProcessor) Name() string { return config.ProcPDS }

func (pdsProcessor) Project(bit int, f *config.Field, v Value, rec Record) error {
	payload := v.String()
	for p := 0; p < len(payload); {
		if len(payload)-p < 7 {
			return &PdsError{Field: bit, Msg: fmt.Sprintf("partial tag/length at offset %d", p)}
		}
		tag := payload[p : p+4]
		length, err := strconv.Atoi(payload[p+4 : p+7])
		if err != nil {
			return &PdsError{Field: bit, Msg: fmt.Sprintf("bad length for tag %s", tag)}
		}
		if p+7+length > len(payload) {
			return &PdsError{Field: bit, Msg: fmt.Sprintf("tag %s length %d overruns container", tag, length)}
		}
		rec["PDS"+tag] = Text(payload[p+7 : p+7+length])
		p += 7 + length
	}
	return nil
}

// encodePDS gathers the PDSnnnn keys from rec and builds the container
// payloads: tags in ascending numeric order, each rendered as
// tttt lll value, split into chunks no longer than maxPDSChunk.
const maxPDSChunk = 999

func encodePDS(rec Record) ([]string, error) {
	var tags []int
	byTag := map[int]string{}
	for key, v := range rec {
		if !strings.HasPrefix(key, "PDS") {
			continue
		}
		tag, err := strconv.Atoi(key[3:])
		if err != nil || len(key) != 7 {
			return nil, &PdsError{Msg: fmt.Sprintf("invalid PDS key %q", key)}
		}
		tags = append(tags, tag)
		byTag[tag] = v.String()
	}
	if len(tags) == 0 {
		return nil, nil
	}
	sort.Ints(tags)
	var chunks []string
	var chunk strings.Builder
	for _, tag := range tags {
		value := byTag[tag]
		if len(value) > maxPDSChunk {
			return nil, &PdsError{Msg: fmt.Sprintf("PDS%04d value longer than %d", tag, maxPDSChunk)}
		}
		element := fmt.Sprintf("%04d%03d%s", tag, len(value), value)
		if chunk.Len()+len(element) > maxPDSChunk {
			chunks = append(chunks, chunk.String())
			chunk.Reset()
		}
		chunk.WriteString(element)
	}
	if chunk.Len() > 0 {
		chunks = append(chunks, chunk.String())
	}
	return chunks, nil
}

// iccProcessor projects an EMV TLV bundle (wire field 55) into TAGxxxx
// keys plus the full bundle as hex under ICC_DATA. Tags are one byte,
// or two bytes for the 9F/5F prefixes; a 0x00 tag ends the data.
type iccProcessor struct{}

func (iccProcessor) Name() string { return config.ProcICC }

func (iccProcessor) Project(bit int, f *config.Field, v Value, rec Record) error {
	data := v.Bytes()
	rec["ICC_DATA"] = Text(strToUpperHex(data))
	for p := 0; p < len(data); {
		tag := data[p : p+1]
		p++
		if tag[0] == 0x00 {
			break
		}
		if tag[0] == 0x9f || tag[0] == 0x5f {
			if p >= len(data) {
				break
			}
			tag = append(tag, data[p])
			p++
		}
		if p >= len(data) {
			break
		}
		length := int(data[p])
		p++
		if p+length > len(data) {
			break
		}
		rec["TAG"+strToUpperHex(tag)] = Text(strToUpperHex(data[p : p+length]))
		p += length
	}
	return nil
}

// de43Processor splits the card acceptor name/location field into its
// component parts using the configured regexp's named groups.
type de43Processor struct{}

func (de43Processor) Name() string { return config.ProcDE43 }

func (de43Processor) Project(bit int, f *config.Field, v Value, rec Record) error {
	re := f.ProcessorRegexp
	if re == nil {
		return nil
	}
	match := re.FindStringSubmatch(v.String())
	if match == nil {
		return nil
	}
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		value := match[i]
		if name == "DE43_POSTCODE" {
			value = strings.TrimRight(value, " ")
		}
		rec[name] = Text(value)
	}
	return nil
}

// panProcessor masks a card number, keeping the first 6 and last 4
// digits.
type panProcessor struct{}

func (panProcessor) Name() string { return config.ProcPAN }

func (panProcessor) Project(bit int, f *config.Field, v Value, rec Record) error {
	pan := v.String()
	if len(pan) > 10 {
		rec["DE"+strconv.Itoa(bit)] = Text(pan[:6] + strings.Repeat("*", len(pan)-10) + pan[len(pan)-4:])
	}
	return nil
}

// panPrefixProcessor keeps only the first 9 digits of a card number.
type panPrefixProcessor struct{}

func (panPrefixProcessor) Name() string { return config.ProcPANPrefix }

func (panPrefixProcessor) Project(bit int, f *config.Field, v Value, rec Record) error {
	pan := v.String()
	if len(pan) > 9 {
		rec["DE"+strconv.Itoa(bit)] = Text(pan[:9])
	}
	return nil
}
