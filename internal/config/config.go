// Package config holds the field table and related configuration that
// drives ISO8583 message processing. A compiled-in default describes the
// scheme's clearing message layout; a JSON document with the same shape
// can replace it per run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ncruces/go-strftime"
)

// ConfigError reports malformed or missing configuration.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config: %s: %v", e.Msg, e.Err)
	}
	return "config: " + e.Msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Field types.
const (
	TypeFixed  = "FIXED"
	TypeLLVar  = "LLVAR"
	TypeLLLVar = "LLLVAR"
)

// Field data types.
const (
	DataAN = "AN" // alphanumeric text
	DataN  = "N"  // numeric text
	DataB  = "B"  // binary
	DataNS = "NS" // packed BCD numeric
)

// Field processors.
const (
	ProcPDS       = "PDS"
	ProcICC       = "ICC"
	ProcDE43      = "DE43"
	ProcPAN       = "PAN"
	ProcPANPrefix = "PAN-PREFIX"
)

// Field describes the layout of a single ISO8583 data element.
type Field struct {
	Name            string `json:"field_name"`
	Type            string `json:"field_type"`
	Length          int    `json:"field_length"`
	DataType        string `json:"field_data_type,omitempty"`
	Processor       string `json:"field_processor,omitempty"`
	ProcessorConfig string `json:"field_processor_config,omitempty"`
	DateFormat      string `json:"field_date_format,omitempty"`

	// Resolved during load; not part of the JSON document.
	DateLayout      string         `json:"-"`
	ProcessorRegexp *regexp.Regexp `json:"-"`
}

// ParamColumn is a half-open [Start,End) character range within an IPM
// parameter table row.
type ParamColumn struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type,omitempty"`  // "datetime" columns are parsed as dates
	Pivot int    `json:"pivot,omitempty"` // century pivot for 2-digit years, default 50
}

// Config is the full configuration document.
type Config struct {
	MaxVBSRecordLength int                               `json:"max_vbs_record_length,omitempty"`
	BitConfig          map[string]*Field                 `json:"bit_config"`
	OutputDataElements []string                          `json:"output_data_elements"`
	ParameterTables    map[string]map[string]ParamColumn `json:"mci_parameter_tables"`

	fields        map[int]*Field
	pdsContainers []int
}

// EnvVar names the environment variable holding the directory searched
// for the default configuration file.
const (
	EnvVar      = "CARDUTIL_CONFIG"
	FileName    = "cardutil.json"
	defaultMax  = 6000
	defaultDate = "%y%m%d"
)

// Field returns the descriptor for a field index, or nil when the field
// is not configured.
func (c *Config) Field(bit int) *Field {
	return c.fields[bit]
}

// PDSContainers returns the configured PDS container field indices in
// ascending order.
func (c *Config) PDSContainers() []int {
	return c.pdsContainers
}

// finalise validates the document and resolves derived values: integer
// field keys, date layouts and processor regexps.
func (c *Config) finalise() error {
	if c.MaxVBSRecordLength == 0 {
		c.MaxVBSRecordLength = defaultMax
	}
	c.fields = make(map[int]*Field, len(c.BitConfig))
	c.pdsContainers = nil
	for key, f := range c.BitConfig {
		bit, err := strconv.Atoi(key)
		if err != nil || bit < 1 || bit > 128 {
			return &ConfigError{Msg: fmt.Sprintf("invalid bit_config key %q", key), Err: err}
		}
		switch f.Type {
		case TypeFixed, TypeLLVar, TypeLLLVar:
		default:
			return &ConfigError{Msg: fmt.Sprintf("field %d: unknown field_type %q", bit, f.Type)}
		}
		if f.DataType == "" {
			f.DataType = DataAN
		}
		switch f.DataType {
		case DataAN, DataN, DataB, DataNS:
		default:
			return &ConfigError{Msg: fmt.Sprintf("field %d: unknown field_data_type %q", bit, f.DataType)}
		}
		switch f.Processor {
		case "", ProcPDS, ProcICC, ProcDE43, ProcPAN, ProcPANPrefix:
		default:
			return &ConfigError{Msg: fmt.Sprintf("field %d: unknown field_processor %q", bit, f.Processor)}
		}
		if f.Processor == ProcDE43 && f.ProcessorConfig != "" {
			re, err := regexp.Compile(f.ProcessorConfig)
			if err != nil {
				return &ConfigError{Msg: fmt.Sprintf("field %d: bad field_processor_config", bit), Err: err}
			}
			f.ProcessorRegexp = re
		}
		if f.DateFormat != "" {
			// only %y %Y %m %d %H %M %S are honoured
			for i := 0; i < len(f.DateFormat); i++ {
				if f.DateFormat[i] != '%' {
					continue
				}
				i++
				if i == len(f.DateFormat) || !strings.ContainsRune("yYmdHMS", rune(f.DateFormat[i])) {
					return &ConfigError{Msg: fmt.Sprintf("field %d: unsupported field_date_format %q", bit, f.DateFormat)}
				}
			}
			layout, err := strftime.Layout(f.DateFormat)
			if err != nil {
				return &ConfigError{Msg: fmt.Sprintf("field %d: bad field_date_format %q", bit, f.DateFormat), Err: err}
			}
			f.DateLayout = layout
		}
		if f.Processor == ProcPDS {
			c.pdsContainers = append(c.pdsContainers, bit)
		}
		c.fields[bit] = f
	}
	sort.Ints(c.pdsContainers)
	for table, columns := range c.ParameterTables {
		for name, col := range columns {
			if col.Start < 0 || col.End <= col.Start {
				return &ConfigError{Msg: fmt.Sprintf("table %s: column %s: bad range [%d,%d)", table, name, col.Start, col.End)}
			}
		}
	}
	return nil
}

// New builds a configuration from an in-code bit configuration, for
// callers that assemble field tables programmatically.
func New(bits map[string]*Field) (*Config, error) {
	cfg := &Config{BitConfig: bits}
	if err := cfg.finalise(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a configuration document from a JSON file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Msg: "reading " + path, Err: err}
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Msg: "parsing " + path, Err: err}
	}
	if err := cfg.finalise(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve locates the configuration for a CLI run. Order: the explicit
// path if given, then $CARDUTIL_CONFIG/cardutil.json, then the
// compiled-in default.
func Resolve(cliPath string) (*Config, error) {
	if cliPath != "" {
		return Load(cliPath)
	}
	if dir := os.Getenv(EnvVar); dir != "" {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}
