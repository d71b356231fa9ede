package extract

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/a3tai/omc-kpi-extractor/internal/pdf"
	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

// ErrSchemaNotCompiled is returned for a schema whose patterns were never
// compiled. Registry schemas are always compiled.
var ErrSchemaNotCompiled = errors.New("schema is not compiled")

// Extractor evaluates schemas against document content
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor. A nil logger uses slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract runs every rule of a compiled schema over one document. Text rules
// see the pages joined into one string. Table rules see every compacted row
// of every grid; when several rows match a field the last one wins.
func (e *Extractor) Extract(s *schema.Schema, pages []string, tables []pdf.PageTables) (Record, error) {
	if s == nil || !s.Compiled() {
		issuer := schema.Issuer("")
		if s != nil {
			issuer = s.Issuer
		}
		return Record{}, fmt.Errorf("issuer %q: %w", issuer, ErrSchemaNotCompiled)
	}

	text := pdf.JoinPages(pages)

	textValues := make(map[string]Value)
	for _, f := range s.Fields {
		if f.Text == nil {
			continue
		}
		textValues[f.Name] = MatchText(text, f.Text.Regexp())
	}

	tableValues := make(map[string]Value)
	for _, pt := range tables {
		for _, grid := range pt.Grids {
			for _, row := range grid {
				compact := CompactRow(row)
				if len(compact) == 0 {
					continue
				}
				for _, f := range s.Fields {
					if f.Table == nil {
						continue
					}
					if v := MatchRow(compact, f.Table); v.IsPresent() {
						tableValues[f.Name] = v
					}
				}
			}
		}
	}

	record := Assemble(s, textValues, tableValues)
	e.logger.Debug("document evaluated",
		"issuer", s.Issuer,
		"fields", len(s.Fields),
		"present", record.Present(),
		"table_values", len(tableValues))
	return record, nil
}
