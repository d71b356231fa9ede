// Package pdftest builds small, valid single-font PDFs in memory for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Courier advance width in glyph space units, the same for every character
const courierWidth = 600

// Text is one string drawn at a position in points from the bottom-left
// corner of the page. Size defaults to 12.
type Text struct {
	X, Y float64
	S    string
	Size float64
}

// Page is the text drawn on one page, in drawing order
type Page []Text

// Line returns a Text at the left margin
func Line(y float64, s string) Text {
	return Text{X: 72, Y: y, S: s}
}

// Lines lays out one Text per string down the page, 20 points apart
func Lines(lines ...string) Page {
	page := make(Page, len(lines))
	for i, s := range lines {
		page[i] = Line(740-float64(i)*20, s)
	}
	return page
}

// CharWidth returns the advance of one character at the given font size
func CharWidth(size float64) float64 {
	if size == 0 {
		size = 12
	}
	return courierWidth * size / 1000
}

// Build returns the bytes of a PDF with one page per argument. Every text is
// drawn in Courier with WinAnsi encoding. A line break follows each text
// whose successor sits on a different baseline, so plain-text extraction
// sees one line per row.
func Build(pages ...Page) []byte {
	var objects []string

	objects = append(objects, "<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObject(i))
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages)))

	widths := strings.TrimSpace(strings.Repeat(fmt.Sprintf("%d ", courierWidth), 126-32+1))
	objects = append(objects, fmt.Sprintf(
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		widths))

	for i, page := range pages {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			pageObject(i)+1))

		stream := contentStream(page)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func pageObject(i int) int {
	return 4 + 2*i
}

func contentStream(page Page) string {
	var b strings.Builder
	for i, t := range page {
		size := t.Size
		if size == 0 {
			size = 12
		}
		fmt.Fprintf(&b, "BT /F1 %g Tf %g %g Td (%s) Tj", size, t.X, t.Y, escape(t.S))
		if i == len(page)-1 || page[i+1].Y != t.Y {
			b.WriteString(" T*")
		}
		b.WriteString(" ET\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
