// Package config loads the CLI's ambient configuration: the grammar
// document to compile, where to write the generated report, and how
// verbosely to log. The core table-construction pipeline never reads a
// config file itself — this is purely a cmd/lalrgen concern, kept in its
// own package so it can be unit-tested without a CLI harness.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level shape of a lalrgen.toml file.
type Config struct {
	Grammar Grammar `toml:"grammar"`
	Report  Report  `toml:"report"`
	Log     Log     `toml:"log"`
}

// Grammar names the input document and whether UNUSED_SYMBOL warnings
// should be treated as fatal, for grammars where leaving an unreferenced
// terminal in place would be a regression rather than a future hook.
type Grammar struct {
	Path               string `toml:"path"`
	FailOnUnusedSymbol bool   `toml:"fail-on-unused-symbol"`
}

// Report controls where the generated report (§6) is written. Format is
// decoded and defaulted but `lalrgen compile` does not read it: the
// report is always written as JSON.
type Report struct {
	Path   string `toml:"path"`
	Format string `toml:"format"` // "json" or "text"
}

// Log is the structured-logging section, consumed by cmd/lalrgen to
// build its zap.Logger.
type Log struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Default returns the configuration the CLI falls back to when no
// config file is given: report format "text", no report path (so
// compile writes to stdout), and info verbosity.
func Default() *Config {
	return &Config{
		Report: Report{
			Format: "text",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads and decodes a TOML config file at path, filling in any
// field left zero by the decode with Default's value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "text"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return cfg, nil
}

// LoadIfExists behaves like Load, except a missing file is not an
// error: it returns Default() instead, since a config file is always
// optional for this CLI.
func LoadIfExists(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
