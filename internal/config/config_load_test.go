package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("omc-kpi", pflag.ContinueOnError)
	DefineFlags(fs, DefaultConfig())
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newFlagSet(t))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Load() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("Load() MaxFileSize = %v, want %v", cfg.MaxFileSize, DefaultMaxFileSize)
	}
	if cfg.Workers != 1 {
		t.Errorf("Load() Workers = %v, want 1", cfg.Workers)
	}
	if cfg.OutputPath != DefaultOutput {
		t.Errorf("Load() OutputPath = %v, want %v", cfg.OutputPath, DefaultOutput)
	}
	if !filepath.IsAbs(cfg.PDFDirectory) {
		t.Errorf("Load() PDFDirectory should be absolute, got %s", cfg.PDFDirectory)
	}
}

func TestLoad_NilFlagSet(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil) unexpected error: %v", err)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Load(nil) Workers = %v, want %v", cfg.Workers, DefaultWorkers)
	}
}

func TestLoad_Flags(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := Load(newFlagSet(t,
		"--dir="+tempDir,
		"--loglevel=debug",
		"--maxfilesize=50000000",
		"--workers=4",
		"--legacy-headers",
		"--keep-empty",
		"-o", "kpis.xlsx",
	))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.PDFDirectory != tempDir {
		t.Errorf("Load() PDFDirectory = %v, want %v", cfg.PDFDirectory, tempDir)
	}
	if !cfg.IsDebug() {
		t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.MaxFileSize != 50000000 {
		t.Errorf("Load() MaxFileSize = %v, want %v", cfg.MaxFileSize, 50000000)
	}
	if cfg.Workers != 4 {
		t.Errorf("Load() Workers = %v, want 4", cfg.Workers)
	}
	if !cfg.LegacyHeaders || !cfg.KeepEmpty {
		t.Errorf("Load() LegacyHeaders = %v, KeepEmpty = %v, want both true", cfg.LegacyHeaders, cfg.KeepEmpty)
	}
	if cfg.OutputPath != "kpis.xlsx" {
		t.Errorf("Load() OutputPath = %v, want kpis.xlsx", cfg.OutputPath)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	tempDir := t.TempDir()

	t.Setenv("OMC_KPI_DIR", tempDir)
	t.Setenv("OMC_KPI_LOGLEVEL", "warn")
	t.Setenv("OMC_KPI_MAXFILESIZE", "200000000")
	t.Setenv("OMC_KPI_WORKERS", "8")
	t.Setenv("OMC_KPI_LEGACY_HEADERS", "true")
	t.Setenv("OMC_KPI_OUTPUT", "env.xlsx")

	cfg, err := Load(newFlagSet(t))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.PDFDirectory != tempDir {
		t.Errorf("Load() PDFDirectory = %v, want %v", cfg.PDFDirectory, tempDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Load() LogLevel = %v, want warn", cfg.LogLevel)
	}
	if cfg.MaxFileSize != 200000000 {
		t.Errorf("Load() MaxFileSize = %v, want %v", cfg.MaxFileSize, 200000000)
	}
	if cfg.Workers != 8 {
		t.Errorf("Load() Workers = %v, want 8", cfg.Workers)
	}
	if !cfg.LegacyHeaders {
		t.Error("Load() LegacyHeaders = false, want true")
	}
	if cfg.OutputPath != "env.xlsx" {
		t.Errorf("Load() OutputPath = %v, want env.xlsx", cfg.OutputPath)
	}
}

func TestLoad_FlagOverridesEnvironment(t *testing.T) {
	t.Setenv("OMC_KPI_WORKERS", "8")
	t.Setenv("OMC_KPI_LOGLEVEL", "error")

	cfg, err := Load(newFlagSet(t, "--workers=2", "--loglevel=info"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Workers != 2 {
		t.Errorf("Load() Workers = %v, want 2 (should override env)", cfg.Workers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Load() LogLevel = %v, want info (should override env)", cfg.LogLevel)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "omc-kpi.yaml")
	content := "workers: 3\nlegacy-headers: true\noutput: from-file.xlsx\nloglevel: warn\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(newFlagSet(t, "--config="+path, "--loglevel=debug"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if cfg.Workers != 3 {
		t.Errorf("Load() Workers = %v, want 3", cfg.Workers)
	}
	if !cfg.LegacyHeaders {
		t.Error("Load() LegacyHeaders = false, want true")
	}
	if cfg.OutputPath != "from-file.xlsx" {
		t.Errorf("Load() OutputPath = %v, want from-file.xlsx", cfg.OutputPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Load() LogLevel = %v, want debug (flag beats file)", cfg.LogLevel)
	}
	if cfg.ConfigFile != path {
		t.Errorf("Load() ConfigFile = %v, want %v", cfg.ConfigFile, path)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid workers", args: []string{"--workers=0"}},
		{name: "invalid log level", args: []string{"--loglevel=trace"}},
		{name: "missing config file", args: []string{"--config=/non/existent/omc-kpi.yaml"}},
		{name: "missing schema file", args: []string{"--schema=/non/existent/schemas.yaml"}},
		{name: "bad output extension", args: []string{"--output=out.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(newFlagSet(t, tt.args...)); err == nil {
				t.Errorf("Load(%v) expected error", tt.args)
			}
		})
	}
}
