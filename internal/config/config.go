// Package config loads the interpreter's optional YAML run configuration
// (.loxrc.yaml), parsed with goccy/go-yaml. Nothing in this package is
// required for a script to run — every field has a documented default —
// it only lets a caller tune the two interpreter-level knobs the
// specification allows to be externally configured.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// ClockPrecision selects the unit newClock uses for its return value.
type ClockPrecision string

const (
	ClockSeconds      ClockPrecision = "seconds"
	ClockMilliseconds ClockPrecision = "milliseconds"
)

// BreakPolicy controls what happens to a `break` statement the resolver
// finds outside any enclosing loop. The distilled specification leaves
// this as an open question (§4.5 of SPEC_FULL.md); both behaviors are
// implemented, and this flag only selects which one a given run uses.
type BreakPolicy string

const (
	// BreakDeferred lets an out-of-loop break through the resolver and
	// surfaces it as a runtime error only if it is actually executed.
	BreakDeferred BreakPolicy = "deferred"
	// BreakStrict rejects an out-of-loop break at resolve time, before
	// the program ever runs.
	BreakStrict BreakPolicy = "strict"
)

// Config is the shape of .loxrc.yaml.
type Config struct {
	Clock struct {
		Precision ClockPrecision `yaml:"precision"`
	} `yaml:"clock"`
	Break struct {
		Policy BreakPolicy `yaml:"policy"`
	} `yaml:"break"`
}

// Default returns the configuration used when no config file is found:
// clock in seconds, break validated only at runtime — matching the
// unconfigured behavior the rest of the interpreter has always had.
func Default() *Config {
	cfg := &Config{}
	cfg.Clock.Precision = ClockSeconds
	cfg.Break.Policy = BreakDeferred
	return cfg
}

// Load reads and parses the YAML config at path. A missing file is not an
// error — it returns Default() — since the config is wholly optional;
// any other read or parse failure is returned as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Clock.Precision == "" {
		cfg.Clock.Precision = ClockSeconds
	}
	if cfg.Break.Policy == "" {
		cfg.Break.Policy = BreakDeferred
	}
	return cfg, nil
}
