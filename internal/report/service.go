// Package report ties the pipeline together for the CLI and the MCP server:
// load uploaded files, run every issuer batch and write the workbook.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a3tai/omc-kpi-extractor/internal/batch"
	"github.com/a3tai/omc-kpi-extractor/internal/export"
	"github.com/a3tai/omc-kpi-extractor/internal/pdf"
	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

const outputDirPerm = 0o750

// Upload is the list of files submitted for one issuer, in upload order
type Upload struct {
	Issuer schema.Issuer
	Paths  []string
}

// Summary counts what happened to one issuer's uploads
type Summary struct {
	Issuer    schema.Issuer
	Documents int
	Failed    int
	Skipped   []string
}

// Result holds the batches of one run and a summary per issuer
type Result struct {
	Batches   []*batch.RecordBatch
	Summaries []Summary
}

// Records returns the total number of records across batches
func (r *Result) Records() int {
	n := 0
	for _, b := range r.Batches {
		n += b.Len()
	}
	return n
}

// Failed returns the total number of documents that could not be opened
func (r *Result) Failed() int {
	n := 0
	for _, s := range r.Summaries {
		n += s.Failed
	}
	return n
}

// String renders one line per issuer
func (r *Result) String() string {
	var b strings.Builder
	for _, s := range r.Summaries {
		fmt.Fprintf(&b, "%s: %d document(s), %d failed to open", s.Issuer, s.Documents, s.Failed)
		if len(s.Skipped) > 0 {
			fmt.Fprintf(&b, ", %d skipped (not PDF): %s", len(s.Skipped), strings.Join(s.Skipped, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Options configures a Service
type Options struct {
	Workers int
	Export  export.Options
}

// Service runs extraction requests end to end
type Service struct {
	registry *schema.Registry
	reader   *pdf.Reader
	driver   *batch.Driver
	opts     Options
	logger   *slog.Logger
}

// NewService creates a service. A nil logger uses slog.Default().
func NewService(registry *schema.Registry, reader *pdf.Reader, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		reader:   reader,
		driver:   batch.NewDriver(registry, reader, batch.WithWorkers(opts.Workers), batch.WithLogger(logger)),
		opts:     opts,
		logger:   logger,
	}
}

// Registry returns the schema registry the service extracts with
func (s *Service) Registry() *schema.Registry {
	return s.registry
}

// Extract loads every upload and runs one batch per issuer. Files without a
// .pdf extension are skipped. Files that cannot be read still produce a
// failed record.
func (s *Service) Extract(ctx context.Context, uploads []Upload) (*Result, error) {
	start := time.Now()

	reqs := make([]batch.Request, 0, len(uploads))
	skipped := make(map[schema.Issuer][]string, len(uploads))
	for _, u := range uploads {
		if _, err := s.registry.Lookup(u.Issuer); err != nil {
			return nil, err
		}
		docs, skip := s.load(u)
		reqs = append(reqs, batch.Request{Issuer: u.Issuer, Documents: docs})
		skipped[u.Issuer] = skip
	}

	batches, err := s.driver.RunAll(ctx, reqs)
	if err != nil {
		return nil, err
	}

	res := &Result{Batches: batches}
	for _, b := range batches {
		res.Summaries = append(res.Summaries, Summary{
			Issuer:    b.Issuer,
			Documents: b.Len(),
			Failed:    b.Failed(),
			Skipped:   skipped[b.Issuer],
		})
	}

	s.logger.Info("extraction finished",
		"issuers", len(batches),
		"records", res.Records(),
		"failed", res.Failed(),
		"elapsed_ms", time.Since(start).Milliseconds())
	return res, nil
}

// Save writes the result as a workbook at path, creating its directory
func (s *Service) Save(res *Result, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, outputDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", dir, err)
		}
	}

	w, err := s.workbook(res)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Save(path)
}

// Encode returns the result as XLSX bytes
func (s *Service) Encode(res *Result) ([]byte, error) {
	w, err := s.workbook(res)
	if err != nil {
		return nil, err
	}
	defer w.Close()
	return w.Bytes()
}

func (s *Service) workbook(res *Result) (*export.Workbook, error) {
	w, err := export.New(s.opts.Export, s.logger)
	if err != nil {
		return nil, err
	}
	if err := w.WriteAll(res.Batches); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// load reads an upload's files in order
func (s *Service) load(u Upload) ([]pdf.Document, []string) {
	var (
		docs    []pdf.Document
		skipped []string
	)
	for _, path := range u.Paths {
		if !pdf.HasPDFExtension(path) {
			s.logger.Warn("skipping non-PDF upload", "issuer", u.Issuer, "path", path)
			skipped = append(skipped, path)
			continue
		}

		doc, err := s.reader.Validator().LoadFile(path)
		if err != nil {
			s.logger.Warn("upload could not be read", "issuer", u.Issuer, "path", path, "error", err)
			doc.Err = err
		}
		docs = append(docs, doc)
	}
	return docs, skipped
}
