package pdf

import (
	"fmt"
	"strings"
)

// Document is one uploaded PDF held in memory. Name is used only for
// reporting. Err records why the upload could not be read; such a document
// fails to open.
type Document struct {
	Name string
	Data []byte
	Err  error
}

// Row is one table row as a sequence of cell values. An empty string is an
// absent cell.
type Row []string

// Grid is one table: rows top to bottom
type Grid []Row

// PageTables holds the table grids found on one page (1-based)
type PageTables struct {
	Page  int
	Grids []Grid
}

// Source is the capability the extraction core consumes: page text and table
// grids for a document. Implementations return *OpenError when the document
// cannot be opened at all; any other error means it opened but content could
// not be read.
type Source interface {
	ExtractText(doc Document) ([]string, error)
	ExtractTables(doc Document) ([]PageTables, error)
}

// ContentSource is a Source that can read text and tables with a single open
// of the document.
type ContentSource interface {
	Source
	ExtractContent(doc Document) ([]string, []PageTables, error)
}

// OpenError reports a document that is not a readable PDF
type OpenError struct {
	Document string
	Err      error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open document %s: %v", e.Document, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// JoinPages concatenates page texts into one document text, each page
// followed by a newline.
func JoinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String()
}
