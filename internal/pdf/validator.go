package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator decides whether an in-memory document can be opened
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// Validate checks size and header, then parses the cross-reference table with
// pdfcpu in relaxed mode. It returns the page count.
func (v *Validator) Validate(doc Document) (pages int, err error) {
	if doc.Err != nil {
		return 0, &OpenError{Document: doc.Name, Err: doc.Err}
	}

	if len(doc.Data) == 0 {
		return 0, &OpenError{Document: doc.Name, Err: fmt.Errorf("document is empty")}
	}

	if int64(len(doc.Data)) > v.maxFileSize {
		return 0, &OpenError{
			Document: doc.Name,
			Err:      fmt.Errorf("document too large: %d bytes (max: %d bytes)", len(doc.Data), v.maxFileSize),
		}
	}

	if !bytes.HasPrefix(bytes.TrimLeft(doc.Data[:min(len(doc.Data), 1024)], "\x00\t\r\n "), []byte("%PDF-")) {
		return 0, &OpenError{Document: doc.Name, Err: fmt.Errorf("missing %%PDF header")}
	}

	// pdfcpu panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages = 0
			err = &OpenError{Document: doc.Name, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(doc.Data), conf)
	if err != nil {
		return 0, &OpenError{Document: doc.Name, Err: fmt.Errorf("failed to read PDF context: %w", err)}
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, &OpenError{Document: doc.Name, Err: fmt.Errorf("failed to ensure page count: %w", err)}
	}

	return ctx.PageCount, nil
}

// LoadFile reads a PDF from disk into a Document. Only the extension and the
// size are checked here; content problems surface later as *OpenError so the
// document still gets its row.
func (v *Validator) LoadFile(path string) (Document, error) {
	doc := Document{Name: filepath.Base(path)}

	if !HasPDFExtension(path) {
		return doc, fmt.Errorf("file is not a PDF: %s", path)
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return doc, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return doc, fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return doc, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if fileInfo.Size() > v.maxFileSize {
		return doc, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("failed to read file: %w", err)
	}
	doc.Data = data
	return doc, nil
}

// HasPDFExtension reports whether a file name ends in .pdf
func HasPDFExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
