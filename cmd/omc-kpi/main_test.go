package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/omc-kpi-extractor/internal/pdf/pdftest"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeReport(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pdftest.Build(pdftest.Lines(lines...)), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	oldVersion, oldCommit := version, gitCommit
	version, gitCommit = "1.2.3", "abc123"
	defer func() { version, gitCommit = oldVersion, oldCommit }()

	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.2.3")
	assert.Contains(t, stdout, "abc123")
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	q1 := writeReport(t, dir, "hpcl_q1.pdf", "Fiscal Year : 2023-2024", "Quarter : Q1")
	q2 := writeReport(t, dir, "hpcl_q2.pdf", "Fiscal Year : 2023-2024", "Quarter : Q2")
	broken := filepath.Join(dir, "ril.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("not a pdf"), 0o644))
	output := filepath.Join(dir, "out", "kpis.xlsx")

	stdout, _, err := execute(t, "extract",
		"--dir", dir,
		"--loglevel", "error",
		"--hpcl", q1+","+q2,
		"--issuer", "ril="+broken,
		"-o", output,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "HPCL: 2 document(s), 0 failed to open")
	assert.Contains(t, stdout, "RIL: 1 document(s), 1 failed to open")
	assert.Contains(t, stdout, "Wrote 3 record(s) to "+output)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"HPCL", "RIL", "Errors"}, f.GetSheetList())

	rows, err := f.GetRows("HPCL")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "HPCL", "2023-2024", "Q1"}, rows[1][:4])
	assert.Equal(t, []string{"2", "HPCL", "2023-2024", "Q2"}, rows[2][:4])
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no documents", args: []string{"extract", "--dir", dir}, want: "no documents given"},
		{name: "unknown issuer", args: []string{"extract", "--dir", dir, "--issuer", "ONGC=a.pdf"}, want: "unknown issuer"},
		{name: "malformed issuer", args: []string{"extract", "--dir", dir, "--issuer", "a.pdf"}, want: "ISSUER=path"},
		{name: "bad output", args: []string{"extract", "--dir", dir, "-o", "kpis.csv", "--hpcl", "a.pdf"}, want: "must end in .xlsx"},
		{name: "bad workers", args: []string{"extract", "--dir", dir, "--workers", "0", "--hpcl", "a.pdf"}, want: "workers must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSchema(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := execute(t, "schema", "--dir", dir)
	require.NoError(t, err)
	for _, issuer := range []string{"HPCL", "BPCL", "IOCL", "RIL"} {
		assert.Contains(t, stdout, issuer+" (")
	}

	stdout, _, err = execute(t, "schema", "iocl", "--dir", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "IOCL ("), stdout)

	_, _, err = execute(t, "schema", "ongc", "--dir", dir)
	assert.Error(t, err)
}

func TestSchema_WithSchemaFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.yaml")
	content := `schemas:
  - issuer: MRPL
    fields:
      - name: Crude Throughput (MMT)
        text:
          pattern: 'Crude Throughput.*?([\d\.]+)'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	stdout, _, err := execute(t, "schema", "mrpl", "--dir", dir, "--schema", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "MRPL (1 fields)")
	assert.Contains(t, stdout, "Crude Throughput (MMT)")
}
