package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputFormat != "table" || c.Precision != -1 || c.HeadRows != 10 || c.LogLevel != "warn" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.PipelinesDir != filepath.Join(home, ".tabloom", "pipelines") {
		t.Fatalf("pipelines_dir = %s", c.PipelinesDir)
	}
	if r, _ := c.DelimiterRune(); r != 0 {
		t.Fatalf("default delimiter = %q, want unset", r)
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")

	c := &Global{Delimiter: ";", OutputFormat: "json", Precision: 2, HeadRows: 5, LogLevel: "debug", LogFormat: "json"}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.OutputFormat != "json" || got.Precision != 2 || got.HeadRows != 5 || got.LogFormat != "json" {
		t.Fatalf("reloaded = %+v", got)
	}
	if r, _ := got.DelimiterRune(); r != ';' {
		t.Fatalf("delimiter = %q", r)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("output_format: csv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TABLOOM_OUTPUT_FORMAT", "markdown")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputFormat != "markdown" {
		t.Fatalf("output_format = %s, want env override", c.OutputFormat)
	}
}

func TestParseDelimiter(t *testing.T) {
	for in, want := range map[string]rune{"": 0, ",": ',', "tab": '\t', `\t`: '\t', "semicolon": ';', "|": '|', "§": '§'} {
		got, err := ParseDelimiter(in)
		if err != nil || got != want {
			t.Errorf("ParseDelimiter(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDelimiter(",,"); err == nil {
		t.Fatal("expected error for multi-character delimiter")
	}
}
