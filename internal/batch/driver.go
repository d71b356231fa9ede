// Package batch runs an issuer's schema over a list of uploaded documents and
// numbers the resulting records.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/omc-kpi-extractor/internal/extract"
	"github.com/a3tai/omc-kpi-extractor/internal/pdf"
	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

// Request is one issuer's documents in upload order
type Request struct {
	Issuer    schema.Issuer
	Documents []pdf.Document
}

// RecordBatch is the ordered result for one issuer. Records[i].SlNo is i+1.
type RecordBatch struct {
	Issuer  schema.Issuer
	Schema  *schema.Schema
	Records []extract.Record
}

// Failed counts records whose document could not be opened
func (b *RecordBatch) Failed() int {
	n := 0
	for _, r := range b.Records {
		if r.Failed() {
			n++
		}
	}
	return n
}

// Len returns the number of records
func (b *RecordBatch) Len() int {
	return len(b.Records)
}

// Driver evaluates requests against a schema registry using a document source
type Driver struct {
	registry  *schema.Registry
	source    pdf.Source
	extractor *extract.Extractor
	workers   int
	logger    *slog.Logger
}

// Option customises a Driver
type Option func(*Driver)

// WithWorkers sets how many documents are processed at once. Values below 2
// keep processing sequential.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDriver creates a batch driver
func NewDriver(registry *schema.Registry, source pdf.Source, opts ...Option) *Driver {
	d := &Driver{
		registry: registry,
		source:   source,
		workers:  1,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.extractor = extract.NewExtractor(d.logger)
	return d
}

// Run extracts one record per document. A document that cannot be opened
// still yields a record, all fields absent and Err set. Only an unknown
// issuer or a cancelled context fails the whole batch.
func (d *Driver) Run(ctx context.Context, req Request) (*RecordBatch, error) {
	s, err := d.registry.Lookup(req.Issuer)
	if err != nil {
		return nil, err
	}

	logger := d.logger.With("run_id", uuid.NewString(), "issuer", s.Issuer)
	logger.Info("batch started", "documents", len(req.Documents), "workers", d.workers)

	records := make([]extract.Record, len(req.Documents))

	if d.workers <= 1 {
		for i, doc := range req.Documents {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records[i] = d.process(s, doc, logger)
		}
	} else {
		eg, gctx := errgroup.WithContext(ctx)
		eg.SetLimit(d.workers)

		for i, doc := range req.Documents {
			eg.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				records[i] = d.process(s, doc, logger)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	for i := range records {
		records[i].SlNo = i + 1
	}

	b := &RecordBatch{Issuer: s.Issuer, Schema: s, Records: records}
	logger.Info("batch finished", "records", b.Len(), "failed", b.Failed())
	return b, nil
}

// RunAll runs each request in order. Requests with no documents yield empty
// batches. Each issuer may appear only once.
func (d *Driver) RunAll(ctx context.Context, reqs []Request) ([]*RecordBatch, error) {
	seen := make(map[schema.Issuer]bool, len(reqs))
	for _, req := range reqs {
		if seen[req.Issuer] {
			return nil, fmt.Errorf("issuer %s requested more than once", req.Issuer)
		}
		seen[req.Issuer] = true
	}

	batches := make([]*RecordBatch, 0, len(reqs))
	for _, req := range reqs {
		b, err := d.Run(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("issuer %s: %w", req.Issuer, err)
		}
		batches = append(batches, b)
	}
	return batches, nil
}

// process extracts one document. Errors never escape: they end up on the
// record or in the log.
func (d *Driver) process(s *schema.Schema, doc pdf.Document, logger *slog.Logger) extract.Record {
	pages, tables, err := d.content(doc)
	if err != nil {
		return failure(s, doc, err, logger)
	}

	record, err := d.extractor.Extract(s, pages, tables)
	if err != nil {
		return failure(s, doc, err, logger)
	}
	record.Document = doc.Name
	return record
}

// content reads a document's text and tables, in one open when the source
// supports it
func (d *Driver) content(doc pdf.Document) ([]string, []pdf.PageTables, error) {
	if cs, ok := d.source.(pdf.ContentSource); ok {
		return cs.ExtractContent(doc)
	}

	pages, err := d.source.ExtractText(doc)
	if err != nil {
		return nil, nil, err
	}
	tables, err := d.source.ExtractTables(doc)
	if err != nil {
		return nil, nil, err
	}
	return pages, tables, nil
}

func failure(s *schema.Schema, doc pdf.Document, err error, logger *slog.Logger) extract.Record {
	record := extract.Empty(s)
	record.Document = doc.Name

	var openErr *pdf.OpenError
	if errors.As(err, &openErr) {
		record.Err = err
		logger.Warn("document could not be opened", "document", doc.Name, "error", err)
		return record
	}

	logger.Warn("document content unreadable, fields left empty", "document", doc.Name, "error", err)
	return record
}
