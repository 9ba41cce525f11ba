package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Delimiter for text sources; "\t" or "tab" selects tabs.
	Delimiter    string `mapstructure:"delimiter" yaml:"delimiter"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	// Precision rounds floating point cells for display; -1 keeps the shortest form.
	Precision int `mapstructure:"precision" yaml:"precision"`
	HeadRows  int `mapstructure:"head_rows" yaml:"head_rows"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	PipelinesDir string `mapstructure:"pipelines_dir" yaml:"pipelines_dir"`
}

// Defaults returns the built-in settings. PipelinesDir is left empty and
// resolved by Load.
func Defaults() *Global {
	return &Global{
		OutputFormat: "table",
		Precision:    -1,
		HeadRows:     10,
		LogLevel:     "warn",
		LogFormat:    "text",
	}
}

// DelimiterRune returns the configured delimiter as a rune, or 0 when unset
// so callers fall back to guessing from the file name.
func (c *Global) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// ParseDelimiter accepts a single character or the names "tab", "comma",
// "semicolon" and "pipe".
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// Dir returns ~/.tabloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLOOM")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("precision", d.Precision)
	v.SetDefault("head_rows", d.HeadRows)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("pipelines_dir", d.PipelinesDir)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.PipelinesDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.PipelinesDir = filepath.Join(dir, "pipelines")
	}
	if _, err := c.DelimiterRune(); err != nil {
		return nil, err
	}
	return &c, nil
}
