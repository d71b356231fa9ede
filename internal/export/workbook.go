// Package export renders record batches into an XLSX workbook, one sheet per
// issuer.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/omc-kpi-extractor/internal/batch"
	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

const (
	// DefaultFilename is the name the combined workbook is offered under
	DefaultFilename = "OMCs_Quarterly_Data.xlsx"
	// ErrorsSheet lists every document that could not be opened
	ErrorsSheet = "Errors"

	defaultSheet = "Sheet1"
)

// ErrNoRecords is returned when a workbook would contain no sheets
var ErrNoRecords = errors.New("no records to export")

// ExportError reports a failure in the export step
type ExportError struct {
	Op  string
	Err error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Op, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// Options controls workbook layout
type Options struct {
	// LegacyHeaders uses the historical column headers, some of which are
	// the regular expressions earlier exports were keyed by.
	LegacyHeaders bool
	// SkipEmpty omits sheets for batches without records
	SkipEmpty bool
}

// DefaultOptions returns clean headers and skips empty batches
func DefaultOptions() Options {
	return Options{SkipEmpty: true}
}

type failure struct {
	issuer   schema.Issuer
	slNo     int
	document string
	err      error
}

// Workbook accumulates issuer sheets. It is not safe for concurrent use.
type Workbook struct {
	file      *excelize.File
	opts      Options
	logger    *slog.Logger
	written   map[string]bool
	order     []string
	failures  []failure
	header    int
	failed    int
	finalized bool
}

// New creates an empty workbook. A nil logger uses slog.Default().
func New(opts Options, logger *slog.Logger) (*Workbook, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f := excelize.NewFile()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, &ExportError{Op: "style", Err: err}
	}
	failed, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
		Font: &excelize.Font{Color: "9C0006"},
	})
	if err != nil {
		return nil, &ExportError{Op: "style", Err: err}
	}

	return &Workbook{
		file:    f,
		opts:    opts,
		logger:  logger,
		written: make(map[string]bool),
		header:  header,
		failed:  failed,
	}, nil
}

// Write adds one sheet for the batch: a header row of Sl.No, Company and the
// schema fields, then one row per record. Absent values are left empty and
// rows of documents that failed to open are filled red.
func (w *Workbook) Write(sheet string, b *batch.RecordBatch) error {
	if w.finalized {
		return &ExportError{Op: "write", Err: errors.New("workbook already finalized")}
	}
	if b == nil || b.Schema == nil {
		return &ExportError{Op: "write", Err: errors.New("batch has no schema")}
	}
	if strings.EqualFold(sheet, ErrorsSheet) {
		return &ExportError{Op: "write", Err: fmt.Errorf("sheet name %q is reserved", sheet)}
	}
	key := strings.ToLower(sheet)
	if w.written[key] {
		return &ExportError{Op: "write", Err: fmt.Errorf("sheet %s already written", sheet)}
	}
	if b.Len() == 0 && w.opts.SkipEmpty {
		w.logger.Debug("empty batch skipped", "sheet", sheet)
		return nil
	}

	if index, _ := w.file.GetSheetIndex(sheet); index == -1 {
		if _, err := w.file.NewSheet(sheet); err != nil {
			return &ExportError{Op: "write", Err: fmt.Errorf("sheet %s: %w", sheet, err)}
		}
	}
	w.written[key] = true
	w.order = append(w.order, sheet)

	columns := b.Schema.Columns(w.opts.LegacyHeaders)
	if err := w.writeRow(sheet, 1, toCells(columns)); err != nil {
		return err
	}
	if err := w.styleRow(sheet, 1, len(columns), w.header); err != nil {
		return err
	}

	fields := b.Schema.FieldNames()
	for i, r := range b.Records {
		row := i + 2

		cells := make([]any, 0, len(columns))
		cells = append(cells, r.SlNo, string(r.Issuer))
		for _, name := range fields {
			if v, ok := r.Get(name).Get(); ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, nil)
			}
		}
		if err := w.writeRow(sheet, row, cells); err != nil {
			return err
		}

		if r.Failed() {
			if err := w.styleRow(sheet, row, len(columns), w.failed); err != nil {
				return err
			}
			w.failures = append(w.failures, failure{
				issuer:   r.Issuer,
				slNo:     r.SlNo,
				document: r.Document,
				err:      r.Err,
			})
		}
	}

	_ = w.file.SetColWidth(sheet, "A", "A", 8)
	if last, err := excelize.ColumnNumberToName(len(columns)); err == nil && len(columns) > 1 {
		_ = w.file.SetColWidth(sheet, "B", last, 20)
	}
	_ = w.file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	w.logger.Info("sheet written", "sheet", sheet, "rows", b.Len(), "columns", len(columns))
	return nil
}

// WriteAll writes each batch to a sheet named after its issuer
func (w *Workbook) WriteAll(batches []*batch.RecordBatch) error {
	for _, b := range batches {
		if err := w.Write(string(b.Issuer), b); err != nil {
			return err
		}
	}
	return nil
}

// Sheets returns the names of the sheets written so far, in order
func (w *Workbook) Sheets() []string {
	return append([]string(nil), w.order...)
}

// Bytes finalizes the workbook and returns its XLSX encoding
func (w *Workbook) Bytes() ([]byte, error) {
	if err := w.finalize(); err != nil {
		return nil, err
	}
	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, &ExportError{Op: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

// Save finalizes the workbook and writes it to path
func (w *Workbook) Save(path string) error {
	if err := w.finalize(); err != nil {
		return err
	}
	if err := w.file.SaveAs(path); err != nil {
		return &ExportError{Op: "save", Err: err}
	}
	w.logger.Info("workbook saved", "path", path, "sheets", len(w.order), "failures", len(w.failures))
	return nil
}

// Close releases the underlying file
func (w *Workbook) Close() error {
	return w.file.Close()
}

// finalize adds the Errors sheet, drops the placeholder sheet and activates
// the first issuer sheet. It runs once.
func (w *Workbook) finalize() error {
	if w.finalized {
		return nil
	}
	if len(w.order) == 0 {
		return &ExportError{Op: "finalize", Err: ErrNoRecords}
	}

	if len(w.failures) > 0 {
		if err := w.writeFailures(); err != nil {
			return err
		}
	}

	if !w.written[strings.ToLower(defaultSheet)] {
		if err := w.file.DeleteSheet(defaultSheet); err != nil {
			return &ExportError{Op: "finalize", Err: err}
		}
	}
	if index, err := w.file.GetSheetIndex(w.order[0]); err == nil && index >= 0 {
		w.file.SetActiveSheet(index)
	}

	w.finalized = true
	return nil
}

func (w *Workbook) writeFailures() error {
	if _, err := w.file.NewSheet(ErrorsSheet); err != nil {
		return &ExportError{Op: "finalize", Err: err}
	}

	header := []any{schema.ColumnCompany, schema.ColumnSlNo, "Document", "Error"}
	if err := w.writeRow(ErrorsSheet, 1, header); err != nil {
		return err
	}
	if err := w.styleRow(ErrorsSheet, 1, len(header), w.header); err != nil {
		return err
	}

	for i, f := range w.failures {
		if err := w.writeRow(ErrorsSheet, i+2, []any{string(f.issuer), f.slNo, f.document, f.err.Error()}); err != nil {
			return err
		}
	}

	_ = w.file.SetColWidth(ErrorsSheet, "C", "C", 32)
	_ = w.file.SetColWidth(ErrorsSheet, "D", "D", 80)
	return nil
}

func (w *Workbook) writeRow(sheet string, row int, cells []any) error {
	for i, v := range cells {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return &ExportError{Op: "write", Err: err}
		}
		if err := w.file.SetCellValue(sheet, cell, v); err != nil {
			return &ExportError{Op: "write", Err: fmt.Errorf("%s!%s: %w", sheet, cell, err)}
		}
	}
	return nil
}

func (w *Workbook) styleRow(sheet string, row, columns, style int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return &ExportError{Op: "style", Err: err}
	}
	if err := w.file.SetCellStyle(sheet, first, last, style); err != nil {
		return &ExportError{Op: "style", Err: err}
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
