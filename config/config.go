// Package config loads the INI configuration that names the survey CSV files
// and their identifier columns.
//
// The file has a required [data] section and an optional [log] section.
// Every key can be overridden from the environment with the VAXSET_ prefix
// (VAXSET_DATASET_PATH, VAXSET_LOG_LEVEL, ...).
package config

import (
	"io/fs"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/go-ini/ini"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"

	"github.com/YuminosukeSato/vaxset/pkg/errors"
)

const (
	// SectionData is the section holding file paths and column names.
	SectionData = "data"
	// SectionLog is the optional logging section.
	SectionLog = "log"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "VAXSET"
)

// Default column names of the H1N1/seasonal flu vaccine survey.
const (
	TargetH1N1          = "h1n1_vaccine"
	TargetSeasonal      = "seasonal_vaccine"
	DefaultRespondentID = "respondent_id"
)

// Config is the complete configuration passed to dataset.New.
type Config struct {
	Data DataConfig
	Log  LogConfig
}

// DataConfig names the CSV files and identifier columns.
type DataConfig struct {
	DatasetPath            string `ini:"dataset_path" split_words:"true" validate:"required"`
	DatasetTestPath        string `ini:"dataset_test_path" split_words:"true" validate:"required"`
	DatasetIndex           string `ini:"dataset_index" split_words:"true" validate:"required"`
	DatasetAllPath         string `ini:"dataset_all_path" split_words:"true" validate:"required"`
	DatasetTestAllPath     string `ini:"dataset_test_all_path" split_words:"true" validate:"required"`
	DatasetNoOutliersPath  string `ini:"dataset_no_outliers_path" split_words:"true" validate:"required"`
	DatasetNoNullsPath     string `ini:"dataset_no_nulls_path" split_words:"true" validate:"required"`
	DatasetTestNoNullsPath string `ini:"dataset_test_no_nulls_path" split_words:"true" validate:"required"`

	// Targets lists the label columns, in the order they appear in y.
	Targets []string `ini:"targets" delim:"," split_words:"true" validate:"len=2,unique,dive,required"`

	// AlternateIndex is the identifier column of the pre-prepared variant files.
	AlternateIndex string `ini:"alternate_index" split_words:"true" validate:"required"`
}

// LogConfig selects the logger backend.
type LogConfig struct {
	Level  string `ini:"level" split_words:"true" validate:"omitempty,oneof=debug info warn error"`
	Format string `ini:"format" split_words:"true" validate:"omitempty,oneof=json console slog"`
}

// Default returns a Config with the optional keys filled in and every
// required key empty.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Targets:        []string{TargetH1N1, TargetSeasonal},
			AlternateIndex: DefaultRespondentID,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the configuration file at path, applies environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(path, err)
		}
		return nil, errors.Wrapf(err, "config: stat %s", path)
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, errors.NewConfigError(SectionData, "unreadable file: "+err.Error())
	}
	return fromFile(f)
}

// Parse is Load for an in-memory INI document.
func Parse(data []byte) (*Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, errors.NewConfigError(SectionData, "malformed ini: "+err.Error())
	}
	return fromFile(f)
}

func fromFile(f *ini.File) (*Config, error) {
	cfg := Default()

	data, err := f.GetSection(SectionData)
	if err != nil {
		return nil, errors.NewConfigError(SectionData, "section not found")
	}
	if err := data.MapTo(&cfg.Data); err != nil {
		return nil, errors.NewConfigError(SectionData, "cannot map section: "+err.Error())
	}
	if logSec, err := f.GetSection(SectionLog); err == nil {
		if err := logSec.MapTo(&cfg.Log); err != nil {
			return nil, errors.NewConfigError(SectionLog, "cannot map section: "+err.Error())
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from VAXSET_* environment variables. Unset
// variables leave the field untouched.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, &c.Data); err != nil {
		return errors.NewConfigError(SectionData, "environment override: "+err.Error())
	}
	if err := envconfig.Process(EnvPrefix+"_LOG", &c.Log); err != nil {
		return errors.NewConfigError(SectionLog, "environment override: "+err.Error())
	}
	return nil
}

// Validate reports every missing or malformed key of both sections as a
// ConfigError whose Keys are the INI key names.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError(SectionData, "configuration is nil")
	}
	if keys := invalidKeys(c.Data); len(keys) > 0 {
		return errors.NewConfigError(SectionData, "missing or invalid keys", keys...)
	}
	if keys := invalidKeys(c.Log); len(keys) > 0 {
		return errors.NewConfigError(SectionLog, "invalid keys", keys...)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report INI key names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("ini"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func invalidKeys(section interface{}) []string {
	err := validate.Struct(section)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	seen := make(map[string]bool)
	var keys []string
	for _, fe := range verrs {
		// dive errors are reported as targets[0]; collapse to the key.
		key := strings.SplitN(fe.Field(), "[", 2)[0]
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
