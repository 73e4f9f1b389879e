// Package config holds the settings of a merge run.
//
// Settings start from Default, are optionally overlaid by a YAML file and are
// validated before use.
package config

import (
	"fmt"
	"os"

	"github.com/cutr-usf/stopmerge/constants"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Delimiter string

const (
	Comma Delimiter = "comma"
	Tab   Delimiter = "tab"
)

// Rune returns the delimiter character. Unknown values fall back to a comma.
func (d Delimiter) Rune() rune {
	if d == Tab {
		return constants.Tab
	}
	return constants.Comma
}

// Input describes one of the stop tables read by the merge.
type Input struct {
	Path      string    `yaml:"path" validate:"required"`
	Delimiter Delimiter `yaml:"delimiter" validate:"oneof=comma tab"`
}

// Output describes the merged stop table.
type Output struct {
	Path       string    `yaml:"path" validate:"required"`
	Delimiter  Delimiter `yaml:"delimiter" validate:"oneof=comma tab"`
	LineEnding string    `yaml:"lineEnding" validate:"oneof=lf crlf"`
}

func (o Output) UseCRLF() bool {
	return o.LineEnding == "crlf"
}

// Config is the root configuration structure
type Config struct {
	Primary    Input  `yaml:"primary" validate:"required"`
	Secondary  Input  `yaml:"secondary" validate:"required"`
	Output     Output `yaml:"output" validate:"required"`
	Key        string `yaml:"key" validate:"required"`
	Field      string `yaml:"field" validate:"required,nefield=Key"`
	Duplicates string `yaml:"duplicates" validate:"oneof=last first"`
	// Strict turns unmatched stops into a failed run once the output is written.
	Strict bool `yaml:"strict"`
	// ReportPath, if set, receives a CSV listing of the unmatched stops.
	ReportPath string `yaml:"report"`
}

// Default returns the fixed file layout of the stops merge.
func Default() Config {
	return Config{
		Primary: Input{
			Path:      string(constants.PrimaryStopsFile),
			Delimiter: Comma,
		},
		Secondary: Input{
			Path:      string(constants.SecondaryStopsFile),
			Delimiter: Tab,
		},
		Output: Output{
			Path:       string(constants.MergedStopsFile),
			Delimiter:  Comma,
			LineEnding: "lf",
		},
		Key:        string(constants.StopID),
		Field:      string(constants.StopName),
		Duplicates: "last",
	}
}

// Load overlays the YAML file at path on the defaults and validates the result.
// An empty path returns the validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
