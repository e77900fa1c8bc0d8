package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfconv/extract"
	"github.com/tsawler/pdfconv/format"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	target, err := cfg.TargetFormat()
	require.NoError(t, err)
	assert.Equal(t, format.Text, target)
	assert.Equal(t, extract.DefaultLayout, cfg.ExtractLayout())
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.False(t, cfg.History.Enabled)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg Config)
		errMsg  string
	}{
		{
			name:    "partial file keeps defaults",
			content: "target: docx\nocr:\n  enabled: true\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "docx", cfg.Target)
				assert.True(t, cfg.OCR.Enabled)
				assert.Equal(t, "eng", cfg.OCR.Language)
				assert.Equal(t, 18.0, cfg.Layout.LineAdvance)
			},
		},
		{
			name:    "layout and history",
			content: "layout:\n  left_margin: 72\n  top: 720\n  line_advance: 14\nhistory:\n  enabled: true\n  path: /tmp/h.db\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, extract.Layout{Left: 72, Top: 720, Advance: 14}, cfg.ExtractLayout())
				assert.Equal(t, "/tmp/h.db", cfg.History.Path)
			},
		},
		{
			name:    "unknown target",
			content: "target: pdf\n",
			errMsg:  "invalid target",
		},
		{
			name:    "bad level",
			content: "log:\n  level: loud\n",
			errMsg:  "log.level",
		},
		{
			name:    "zero advance",
			content: "layout:\n  line_advance: 0\n",
			errMsg:  "line_advance",
		},
		{
			name:    "malformed yaml",
			content: "target: [docx\n",
			errMsg:  "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "pdfconv.yaml", tt.content)
			cfg, err := Load(path)
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveLoad(t *testing.T) {
	cfg := Default()
	cfg.Target = "html"
	cfg.OutputDir = "out"
	cfg.Log.Level = "debug"

	path := filepath.Join(t.TempDir(), "pdfconv.yaml")
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Target = "bogus"
	cfg.OCR.Enabled = true
	cfg.OCR.Language = " "
	cfg.History.Enabled = true
	cfg.History.Path = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, format.ErrInvalidTarget)
	assert.ErrorContains(t, err, "ocr.language")
	assert.ErrorContains(t, err, "history.path")
}

func TestLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		cfg := Default()
		cfg.Log.Level = in
		got, err := cfg.LogLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("target", "rtf")
	v.Set("layout.top", 700.0)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "rtf", cfg.Target)
	assert.Equal(t, 700.0, cfg.Layout.Top)
	assert.Equal(t, 40.0, cfg.Layout.LeftMargin)
	assert.Equal(t, ".", cfg.OutputDir)
}

func TestFromViperConfigFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pdfconv.yaml", "output_dir: converted\nhistory:\n  enabled: true\n")

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "converted", cfg.OutputDir)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "pdfconv.db", cfg.History.Path)
}

func TestFromViperEnvironment(t *testing.T) {
	t.Setenv("PDFCONV_TARGET", "html")
	t.Setenv("PDFCONV_OCR_ENABLED", "true")
	t.Setenv("PDFCONV_OCR_LANGUAGE", "deu")
	t.Setenv("PDFCONV_HISTORY_PATH", "/tmp/conversions.db")
	t.Setenv("PDFCONV_LAYOUT_LINE_ADVANCE", "12")

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "html", cfg.Target)
	assert.True(t, cfg.OCR.Enabled)
	assert.Equal(t, "deu", cfg.OCR.Language)
	assert.Equal(t, "/tmp/conversions.db", cfg.History.Path)
	assert.Equal(t, 12.0, cfg.Layout.LineAdvance)
	assert.Equal(t, 800.0, cfg.Layout.Top)
}
