// Package config holds the settings of the pdfconv command: defaults, a
// YAML file format, and the bridge to viper for flags and environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdfconv/extract"
	"github.com/tsawler/pdfconv/format"
	"github.com/tsawler/pdfconv/ocr"
)

// Config is the complete set of settings.
type Config struct {
	OutputDir string  `yaml:"output_dir" json:"output_dir" mapstructure:"output_dir"`
	Target    string  `yaml:"target" json:"target" mapstructure:"target"`
	OCR       OCR     `yaml:"ocr" json:"ocr" mapstructure:"ocr"`
	History   History `yaml:"history" json:"history" mapstructure:"history"`
	Log       Log     `yaml:"log" json:"log" mapstructure:"log"`
	Layout    Layout  `yaml:"layout" json:"layout" mapstructure:"layout"`
}

// OCR configures recognition of image-only pages.
type OCR struct {
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	// Language is a Tesseract language list such as "eng+deu".
	Language string `yaml:"language" json:"language" mapstructure:"language"`
}

// History configures the conversion record.
type History struct {
	Enabled bool   `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" json:"path" mapstructure:"path"`
}

// Log configures the command's logger.
type Log struct {
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}

// Layout places extracted text lines.
type Layout struct {
	LeftMargin  float64 `yaml:"left_margin" json:"left_margin" mapstructure:"left_margin"`
	Top         float64 `yaml:"top" json:"top" mapstructure:"top"`
	LineAdvance float64 `yaml:"line_advance" json:"line_advance" mapstructure:"line_advance"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		OutputDir: ".",
		Target:    format.Text.String(),
		OCR:       OCR{Language: ocr.DefaultLanguage},
		History:   History{Path: "pdfconv.db"},
		Log:       Log{Level: "info"},
		Layout: Layout{
			LeftMargin:  extract.DefaultLayout.Left,
			Top:         extract.DefaultLayout.Top,
			LineAdvance: extract.DefaultLayout.Advance,
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Save writes cfg as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.TargetFormat(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Layout.LineAdvance <= 0 {
		errs = append(errs, fmt.Errorf("layout.line_advance must be positive, got %v", c.Layout.LineAdvance))
	}
	if c.OCR.Enabled && strings.TrimSpace(c.OCR.Language) == "" {
		errs = append(errs, errors.New("ocr.language is required when OCR is enabled"))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path is required when history is enabled"))
	}
	return errors.Join(errs...)
}

// TargetFormat parses the configured target.
func (c Config) TargetFormat() (format.Target, error) {
	return format.ParseTarget(c.Target)
}

// LogLevel parses the configured level: debug, info, warn or error.
func (c Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// ExtractLayout returns the layout settings in the form the extractor
// takes.
func (c Config) ExtractLayout() extract.Layout {
	return extract.Layout{
		Left:    c.Layout.LeftMargin,
		Top:     c.Layout.Top,
		Advance: c.Layout.LineAdvance,
	}
}

// SetDefaults registers every default with v so that flags, environment
// variables and config files only override what they name.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("target", d.Target)
	v.SetDefault("ocr.enabled", d.OCR.Enabled)
	v.SetDefault("ocr.language", d.OCR.Language)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("layout.left_margin", d.Layout.LeftMargin)
	v.SetDefault("layout.top", d.Layout.Top)
	v.SetDefault("layout.line_advance", d.Layout.LineAdvance)
}

// EnvPrefix prefixes the environment variables read by BindEnv.
const EnvPrefix = "PDFCONV"

// BindEnv makes v read PDFCONV_* environment variables. Nested keys use
// underscores, so ocr.enabled is PDFCONV_OCR_ENABLED.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}
