package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lalrgen.toml")
	const src = `
[grammar]
path = "expr.gram.yaml"
fail-on-unused-symbol = true

[report]
path = "expr.report.json"
format = "json"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Grammar.Path != "expr.gram.yaml" {
		t.Errorf("Grammar.Path = %q", cfg.Grammar.Path)
	}
	if !cfg.Grammar.FailOnUnusedSymbol {
		t.Error("Grammar.FailOnUnusedSymbol = false, want true")
	}
	if cfg.Report.Format != "json" {
		t.Errorf("Report.Format = %q", cfg.Report.Format)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
}

func TestLoadIfExists_missingFile(t *testing.T) {
	cfg, err := LoadIfExists(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Report.Format != "text" {
		t.Errorf("Report.Format = %q, want default %q", cfg.Report.Format, "text")
	}
}

func TestLoadIfExists_emptyPath(t *testing.T) {
	cfg, err := LoadIfExists("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, "info")
	}
}
