package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v10"
)

// EnvPrefix is the prefix shared by every runtime setting environment variable.
const EnvPrefix = "VCFFILTER_"

// DefaultPassTag is the status tag applied to accepted records.
const DefaultPassTag = "PASS"

// Settings holds the runtime settings of a filtering run.
// Values come from the environment; command-line flags override them.
type Settings struct {
	// Logging configuration
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"human"`
	LogFile   string `env:"LOG_FILE"`

	// PassTag replaces the status tags of accepted records
	PassTag string `env:"PASS_TAG" envDefault:"PASS"`

	// WarnMissing lists the fields whose absence is reported; "*" reports every field
	WarnMissing []string `env:"WARN_MISSING" envDefault:"TLOD,DP" envSeparator:","`
}

// LoadSettings loads settings from the process environment.
func LoadSettings() (*Settings, error) {
	return loadSettings(env.Options{Prefix: EnvPrefix})
}

// LoadSettingsFrom loads settings from the given environment map instead of
// the process environment. Keys carry the VCFFILTER_ prefix.
func LoadSettingsFrom(environ map[string]string) (*Settings, error) {
	return loadSettings(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func loadSettings(opts env.Options) (*Settings, error) {
	cfg := &Settings{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	cfg.WarnMissing = cleanFieldList(cfg.WarnMissing)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return cfg, nil
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%sLOG_LEVEL must be one of debug, info, warn, error (got %q)", EnvPrefix, s.LogLevel)
	}

	switch strings.ToLower(s.LogFormat) {
	case "json", "human", "text":
	default:
		return fmt.Errorf("%sLOG_FORMAT must be json or human (got %q)", EnvPrefix, s.LogFormat)
	}

	tag := strings.TrimSpace(s.PassTag)
	if tag == "" {
		return fmt.Errorf("%sPASS_TAG is required", EnvPrefix)
	}
	if tag == "." || strings.ContainsAny(tag, "; \t\n") {
		return fmt.Errorf("%sPASS_TAG %q is not a valid status tag", EnvPrefix, s.PassTag)
	}

	return nil
}

// cleanFieldList trims entries and drops empty ones.
func cleanFieldList(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ParseFieldList splits a comma-separated list of field names.
func ParseFieldList(s string) []string {
	return cleanFieldList(strings.Split(s, ","))
}
