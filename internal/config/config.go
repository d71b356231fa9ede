package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment variable, e.g. OMC_KPI_DIR
	EnvPrefix = "OMC_KPI"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultWorkers     = 1
	DefaultOutput      = "OMCs_Quarterly_Data.xlsx"

	// MaxWorkers bounds parallel document processing
	MaxWorkers = 64
)

// Flag and configuration keys
const (
	KeyConfig        = "config"
	KeyDir           = "dir"
	KeyLogLevel      = "loglevel"
	KeyMaxFileSize   = "maxfilesize"
	KeyWorkers       = "workers"
	KeySchema        = "schema"
	KeyLegacyHeaders = "legacy-headers"
	KeyKeepEmpty     = "keep-empty"
	KeyOutput        = "output"
)

// Config holds the settings shared by the CLI and the MCP server
type Config struct {
	// Input configuration
	PDFDirectory string
	MaxFileSize  int64 // Maximum PDF file size in bytes
	SchemaFile   string

	// Processing
	Workers int

	// Output
	OutputPath    string
	LegacyHeaders bool
	KeepEmpty     bool

	// Application configuration
	ConfigFile string
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		PDFDirectory: currentDir,
		MaxFileSize:  DefaultMaxFileSize,
		Workers:      DefaultWorkers,
		OutputPath:   DefaultOutput,
		Version:      "1.0.0",
		ServerName:   "omc-kpi-extractor",
		LogLevel:     DefaultLogLevel,
	}
}

// DefineFlags registers the configuration flags on fs with defaults from cfg
func DefineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String(KeyConfig, cfg.ConfigFile, "Configuration file (yaml, json or toml)")
	fs.String(KeyDir, cfg.PDFDirectory, "Directory PDF paths are confined to")
	fs.String(KeyLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.Int64(KeyMaxFileSize, cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.Int(KeyWorkers, cfg.Workers, "Documents processed in parallel per issuer")
	fs.String(KeySchema, cfg.SchemaFile, "YAML file with additional or replacement issuer schemas")
	fs.Bool(KeyLegacyHeaders, cfg.LegacyHeaders, "Use the historical column headers in the workbook")
	fs.Bool(KeyKeepEmpty, cfg.KeepEmpty, "Write a header-only sheet for issuers without documents")
	fs.StringP(KeyOutput, "o", cfg.OutputPath, "Path of the workbook to write")
}

// Load builds a configuration from defaults, an optional config file,
// environment variables and the flags in fs, in increasing precedence. fs
// may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	populateConfigFromViper(v, cfg)

	// Expand paths if needed
	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newViper returns a viper instance with defaults and environment binding
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, cfg.ConfigFile)
	v.SetDefault(KeyDir, cfg.PDFDirectory)
	v.SetDefault(KeyLogLevel, cfg.LogLevel)
	v.SetDefault(KeyMaxFileSize, cfg.MaxFileSize)
	v.SetDefault(KeyWorkers, cfg.Workers)
	v.SetDefault(KeySchema, cfg.SchemaFile)
	v.SetDefault(KeyLegacyHeaders, cfg.LegacyHeaders)
	v.SetDefault(KeyKeepEmpty, cfg.KeepEmpty)
	v.SetDefault(KeyOutput, cfg.OutputPath)
	return v
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.ConfigFile = v.GetString(KeyConfig)
	cfg.PDFDirectory = v.GetString(KeyDir)
	cfg.LogLevel = v.GetString(KeyLogLevel)
	cfg.MaxFileSize = v.GetInt64(KeyMaxFileSize)
	cfg.Workers = v.GetInt(KeyWorkers)
	cfg.SchemaFile = v.GetString(KeySchema)
	cfg.LegacyHeaders = v.GetBool(KeyLegacyHeaders)
	cfg.KeepEmpty = v.GetBool(KeyKeepEmpty)
	cfg.OutputPath = v.GetString(KeyOutput)
}

// Validate checks if the configuration is valid. A PDF directory that does
// not exist yet is accepted.
func (c *Config) Validate() error {
	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}
	if info, err := os.Stat(c.PDFDirectory); err == nil && !info.IsDir() {
		return fmt.Errorf("PDF directory %s is not a directory", c.PDFDirectory)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("workers must be between 1 and %d", MaxWorkers)
	}

	if c.SchemaFile != "" {
		if _, err := os.Stat(c.SchemaFile); err != nil {
			return fmt.Errorf("cannot access schema file %s: %w", c.SchemaFile, err)
		}
	}

	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}
	if !strings.EqualFold(filepath.Ext(c.OutputPath), ".xlsx") {
		return fmt.Errorf("output path must end in .xlsx: %s", c.OutputPath)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// Level maps LogLevel to a slog level, defaulting to info
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w at the configured level
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{PDFDirectory: %s, LogLevel: %s, MaxFileSize: %d, Workers: %d, Schema: %s, Output: %s, LegacyHeaders: %t}",
		c.PDFDirectory, c.LogLevel, c.MaxFileSize, c.Workers, c.SchemaFile, c.OutputPath, c.LegacyHeaders)
}
