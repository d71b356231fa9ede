package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const (
	defaultMaxTextSize  = 10 * 1024 * 1024 // 10MB text limit
	defaultRowTolerance = 2.0
	defaultCellGap      = 10.0
)

// Reader is the Source backed by ledongthuc/pdf for content and pdfcpu for
// the open check.
type Reader struct {
	validator    *Validator
	maxTextSize  int
	rowTolerance float64
	cellGap      float64
	logger       *slog.Logger
}

var _ ContentSource = (*Reader)(nil)

// ReaderOption customises a Reader
type ReaderOption func(*Reader)

// WithLogger sets the logger used for per-page warnings
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCellGap sets the horizontal gap, in points, that separates two table
// cells on the same line.
func WithCellGap(points float64) ReaderOption {
	return func(r *Reader) {
		if points > 0 {
			r.cellGap = points
		}
	}
}

// WithRowTolerance sets how far apart, in points, two glyph baselines may be
// and still belong to the same row.
func WithRowTolerance(points float64) ReaderOption {
	return func(r *Reader) {
		if points >= 0 {
			r.rowTolerance = points
		}
	}
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64, opts ...ReaderOption) *Reader {
	r := &Reader{
		validator:    NewValidator(maxFileSize),
		maxTextSize:  defaultMaxTextSize,
		rowTolerance: defaultRowTolerance,
		cellGap:      defaultCellGap,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validator returns the validator used for the open check
func (r *Reader) Validator() *Validator {
	return r.validator
}

// open validates the document and returns a ledongthuc reader over it
func (r *Reader) open(doc Document) (pdfReader *pdf.Reader, err error) {
	if _, err := r.validator.Validate(doc); err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			pdfReader = nil
			err = &OpenError{Document: doc.Name, Err: fmt.Errorf("malformed PDF: %v", rec)}
		}
	}()

	pdfReader, err = pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return nil, &OpenError{Document: doc.Name, Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	return pdfReader, nil
}

// ExtractText returns the plain text of every page in order. Pages that fail
// to decode contribute an empty string.
func (r *Reader) ExtractText(doc Document) ([]string, error) {
	pdfReader, err := r.open(doc)
	if err != nil {
		return nil, err
	}
	return r.pageTexts(pdfReader, doc), nil
}

// ExtractTables rebuilds table rows from glyph positions on every page. Each
// page yields at most one grid holding every line that splits into two or
// more cells.
func (r *Reader) ExtractTables(doc Document) ([]PageTables, error) {
	pdfReader, err := r.open(doc)
	if err != nil {
		return nil, err
	}
	return r.pageTables(pdfReader, doc), nil
}

// ExtractContent returns what ExtractText and ExtractTables return, opening
// the document once.
func (r *Reader) ExtractContent(doc Document) ([]string, []PageTables, error) {
	pdfReader, err := r.open(doc)
	if err != nil {
		return nil, nil, err
	}
	return r.pageTexts(pdfReader, doc), r.pageTables(pdfReader, doc), nil
}

func (r *Reader) pageTexts(pdfReader *pdf.Reader, doc Document) []string {
	numPages := pdfReader.NumPage()
	pages := make([]string, 0, numPages)
	totalLength := 0

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := plainText(page)
		if err != nil {
			// Continue with other pages even if one fails
			r.logger.Warn("page text extraction failed",
				"document", doc.Name, "page", pageNum, "error", err)
			pages = append(pages, "")
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			if head := truncate(content, r.maxTextSize-totalLength); head != "" {
				pages = append(pages, head)
			}
			r.logger.Warn("text limit reached, remaining pages skipped",
				"document", doc.Name, "page", pageNum, "limit", r.maxTextSize)
			break
		}

		pages = append(pages, content)
		totalLength += len(content)
	}

	return pages
}

func (r *Reader) pageTables(pdfReader *pdf.Reader, doc Document) []PageTables {
	var tables []PageTables
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		glyphs, err := pageGlyphs(page)
		if err != nil {
			r.logger.Warn("page table extraction failed",
				"document", doc.Name, "page", pageNum, "error", err)
			continue
		}

		grid := buildGrid(glyphs, r.rowTolerance, r.cellGap)
		if len(grid) == 0 {
			continue
		}
		tables = append(tables, PageTables{Page: pageNum, Grids: []Grid{grid}})
	}
	return tables
}

// truncate returns at most n bytes of s without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// plainText wraps GetPlainText, converting decoder panics into errors
func plainText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("panic during text decoding: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// pageGlyphs returns the positioned glyphs of a page, converting decoder
// panics on malformed content streams into errors.
func pageGlyphs(page pdf.Page) (glyphs []glyph, err error) {
	defer func() {
		if r := recover(); r != nil {
			glyphs = nil
			err = fmt.Errorf("panic during content decoding: %v", r)
		}
	}()

	content := page.Content()
	glyphs = make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{
			text:     t.S,
			x:        t.X,
			y:        t.Y,
			width:    t.W,
			fontSize: t.FontSize,
		})
	}
	return glyphs, nil
}
