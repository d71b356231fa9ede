package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0.0" {
		t.Errorf("Expected default version to be '1.0.0', got '%s'", cfg.Version)
	}

	if cfg.ServerName != "omc-kpi-extractor" {
		t.Errorf("Expected default server name to be 'omc-kpi-extractor', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.Workers != 1 {
		t.Errorf("Expected default workers to be 1, got %d", cfg.Workers)
	}

	if cfg.OutputPath != "OMCs_Quarterly_Data.xlsx" {
		t.Errorf("Expected default output to be 'OMCs_Quarterly_Data.xlsx', got '%s'", cfg.OutputPath)
	}

	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()
	schemaFile := filepath.Join(tempDir, "schemas.yaml")
	if err := os.WriteFile(schemaFile, []byte("schemas: []\n"), 0o644); err != nil {
		t.Fatalf("failed to write schema file: %v", err)
	}
	plainFile := filepath.Join(tempDir, "file.txt")
	if err := os.WriteFile(plainFile, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.PDFDirectory = tempDir
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "schema file exists", modify: func(c *Config) { c.SchemaFile = schemaFile }},
		{name: "missing directory is accepted", modify: func(c *Config) { c.PDFDirectory = filepath.Join(tempDir, "later") }},
		{name: "upper-case extension", modify: func(c *Config) { c.OutputPath = "out/KPIS.XLSX" }},
		{name: "empty directory", modify: func(c *Config) { c.PDFDirectory = "" }, wantErr: "PDF directory cannot be empty"},
		{name: "directory is a file", modify: func(c *Config) { c.PDFDirectory = plainFile }, wantErr: "is not a directory"},
		{name: "zero file size", modify: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "maximum file size must be positive"},
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }, wantErr: "workers must be between"},
		{name: "too many workers", modify: func(c *Config) { c.Workers = MaxWorkers + 1 }, wantErr: "workers must be between"},
		{name: "missing schema file", modify: func(c *Config) { c.SchemaFile = filepath.Join(tempDir, "nope.yaml") }, wantErr: "cannot access schema file"},
		{name: "empty output", modify: func(c *Config) { c.OutputPath = "" }, wantErr: "output path cannot be empty"},
		{name: "csv output", modify: func(c *Config) { c.OutputPath = "out.csv" }, wantErr: "must end in .xlsx"},
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "trace" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Config.Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Config.Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Config.Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateDoesNotCreateDirectory(t *testing.T) {
	nonExistentDir := filepath.Join(t.TempDir(), "non-existent", "pdfs")

	cfg := DefaultConfig()
	cfg.PDFDirectory = nonExistentDir

	if err := cfg.Validate(); err != nil {
		t.Errorf("Config.Validate() should not fail for non-existent directory, got error: %v", err)
	}
	if _, err := os.Stat(nonExistentDir); !os.IsNotExist(err) {
		t.Errorf("Directory should NOT have been created: %s", nonExistentDir)
	}
}

func TestConfigLevels(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for level, want := range tests {
		cfg := &Config{LogLevel: level}
		if got := cfg.Level(); got != want {
			t.Errorf("Level(%q) = %v, want %v", level, got, want)
		}
		if cfg.IsDebug() != (level == "debug") {
			t.Errorf("IsDebug(%q) = %v", level, cfg.IsDebug())
		}
	}
}

func TestConfigNewLogger(t *testing.T) {
	var buf strings.Builder
	logger := (&Config{LogLevel: "warn"}).NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "issuer", "HPCL")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "issuer=HPCL") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.String()
	for _, want := range []string{"LogLevel: info", "Workers: 1", "Output: OMCs_Quarterly_Data.xlsx"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %s, missing %q", s, want)
		}
	}
}
