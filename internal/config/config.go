// Package config loads the reader service configuration from defaults, an
// optional YAML file and environment variables, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dgallion1/docreader/internal/converter"
	"github.com/dgallion1/docreader/internal/selection"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "docreader.yaml"

type Config struct {
	App      AppConfig      `yaml:"app"`
	Auth     AuthConfig     `yaml:"auth"`
	Reader   ReaderConfig   `yaml:"reader"`
	Upload   UploadConfig   `yaml:"upload"`
	Session  SessionConfig  `yaml:"session"`
	Markdown MarkdownConfig `yaml:"markdown"`
	PDF      PDFConfig      `yaml:"pdf"`
}

type AppConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the listen address.
func (c HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// AuthConfig enables Bearer authentication when APIKey is set.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// Enabled reports whether requests must carry the API key.
func (c AuthConfig) Enabled() bool {
	return c.APIKey != ""
}

// ReaderConfig places the highlight action menu.
type ReaderConfig struct {
	MenuOffset float64 `yaml:"menu_offset"`
	MenuWidth  float64 `yaml:"menu_width"`
}

// Tracker returns the menu tracker for these settings.
func (c ReaderConfig) Tracker() selection.Tracker {
	return selection.Tracker{Offset: c.MenuOffset, MenuWidth: c.MenuWidth}
}

type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
	MaxFiles int   `yaml:"max_files"`
}

// SessionConfig controls how long an idle reader session is kept.
type SessionConfig struct {
	TTL     time.Duration `yaml:"ttl"`
	Cleanup time.Duration `yaml:"cleanup"`
}

type MarkdownConfig struct {
	HighlightCode bool `yaml:"highlight_code"`
}

type PDFConfig struct {
	FallbackPdftotext bool `yaml:"fallback_pdftotext"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		App: AppConfig{
			LogLevel: slog.LevelInfo,
			HTTP:     HTTPConfig{Port: 8090},
		},
		Reader: ReaderConfig{
			MenuOffset: selection.DefaultOffset,
			MenuWidth:  selection.DefaultMenuWidth,
		},
		Upload: UploadConfig{
			MaxBytes: 52428800, // 50MB
			MaxFiles: 20,
		},
		Session: SessionConfig{
			TTL:     2 * time.Hour,
			Cleanup: 10 * time.Minute,
		},
		Markdown: MarkdownConfig{HighlightCode: true},
		PDF:      PDFConfig{FallbackPdftotext: true},
	}
}

// Load builds the configuration. When path is empty DefaultFile is used if it
// exists. Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" && fileExists(DefaultFile) {
		path = DefaultFile
	}
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.App.HTTP.Port = envInt("PORT", c.App.HTTP.Port)
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			c.App.LogLevel = lvl
		}
	}

	c.Auth.APIKey = envOr("DOCREADER_API_KEY", c.Auth.APIKey)

	c.Upload.MaxBytes = envInt64("MAX_UPLOAD_BYTES", c.Upload.MaxBytes)
	c.Upload.MaxFiles = envInt("MAX_UPLOAD_FILES", c.Upload.MaxFiles)

	c.Session.TTL = envDuration("SESSION_TTL", c.Session.TTL)
	c.Session.Cleanup = envDuration("SESSION_CLEANUP", c.Session.Cleanup)

	c.Markdown.HighlightCode = envBool("HIGHLIGHT_CODE", c.Markdown.HighlightCode)
	c.PDF.FallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", c.PDF.FallbackPdftotext)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.App.HTTP,
		validation.Field(&c.App.HTTP.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	); err != nil {
		return fmt.Errorf("app.http: %w", err)
	}
	if err := validation.ValidateStruct(&c.Reader,
		validation.Field(&c.Reader.MenuOffset, validation.Min(0.0)),
		validation.Field(&c.Reader.MenuWidth, validation.Min(0.0)),
	); err != nil {
		return fmt.Errorf("reader: %w", err)
	}
	if err := validation.ValidateStruct(&c.Upload,
		validation.Field(&c.Upload.MaxBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.Upload.MaxFiles, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if err := validation.ValidateStruct(&c.Session,
		validation.Field(&c.Session.TTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Session.Cleanup, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

// ConverterOptions returns the options passed to every file converter.
func (c Config) ConverterOptions() converter.Options {
	return converter.Options{
		HighlightCode:        c.Markdown.HighlightCode,
		PDFFallbackPdftotext: c.PDF.FallbackPdftotext,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
