// Package schema holds the per-issuer field rule tables that drive KPI
// extraction. Adding an issuer or a field is a data change here, not a code
// change in the extractor.
package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Fixed columns present on every record, always first and second.
const (
	ColumnSlNo    = "Sl.No"
	ColumnCompany = "Company"
)

// Issuer identifies an oil-marketing company covered by a schema
type Issuer string

// Built-in issuers
const (
	HPCL Issuer = "HPCL"
	BPCL Issuer = "BPCL"
	IOCL Issuer = "IOCL"
	RIL  Issuer = "RIL"
)

// ErrUnknownIssuer is returned when no schema is registered for an issuer
var ErrUnknownIssuer = errors.New("unknown issuer")

// TextRule extracts a field by scanning the whole document text with a
// regular expression that has exactly one capture group.
type TextRule struct {
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

// Regexp returns the compiled pattern. It is nil until the owning schema has
// been compiled.
func (r *TextRule) Regexp() *regexp.Regexp {
	return r.re
}

// TableRule extracts a field from a table row whose joined, lower-cased
// content starts with one of Labels. The value is the cell at Column in the
// compacted row.
type TableRule struct {
	Labels []string `yaml:"labels"`
	Column int      `yaml:"column"`
}

// Field is one named KPI. At least one of Text or Table is set; when both
// produce a value for the same document the table value wins.
type Field struct {
	Name string `yaml:"name"`
	// Legacy is the historical column header used by earlier exports, some of
	// which are literal regular expressions. Empty means same as Name.
	Legacy string     `yaml:"legacy,omitempty"`
	Text   *TextRule  `yaml:"text,omitempty"`
	Table  *TableRule `yaml:"table,omitempty"`
}

// Header returns the column header for the field
func (f Field) Header(legacy bool) string {
	if legacy && f.Legacy != "" {
		return f.Legacy
	}
	return f.Name
}

// Schema is the ordered rule set for one issuer. Field order is output
// column order.
type Schema struct {
	Issuer Issuer  `yaml:"issuer"`
	Fields []Field `yaml:"fields"`

	compiled bool
}

// ValidationError describes a malformed schema
type ValidationError struct {
	Issuer Issuer
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema %s: %s", e.Issuer, e.Reason)
	}
	return fmt.Sprintf("schema %s: field %q: %s", e.Issuer, e.Field, e.Reason)
}

// Compile validates the schema and compiles its text patterns. Patterns are
// compiled with the s flag so a lazy "Label.*?(value)" can reach a value on a
// later line or page.
func (s *Schema) Compile() error {
	if s.Issuer == "" {
		return &ValidationError{Reason: "issuer is empty"}
	}
	if len(s.Fields) == 0 {
		return &ValidationError{Issuer: s.Issuer, Reason: "no fields"}
	}

	seen := make(map[string]bool, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if strings.TrimSpace(f.Name) == "" {
			return &ValidationError{Issuer: s.Issuer, Reason: fmt.Sprintf("field %d has no name", i+1)}
		}
		if f.Name == ColumnSlNo || f.Name == ColumnCompany {
			return &ValidationError{Issuer: s.Issuer, Field: f.Name, Reason: "name is reserved"}
		}
		if seen[f.Name] {
			return &ValidationError{Issuer: s.Issuer, Field: f.Name, Reason: "duplicate field name"}
		}
		seen[f.Name] = true

		if f.Text == nil && f.Table == nil {
			return &ValidationError{Issuer: s.Issuer, Field: f.Name, Reason: "no text or table rule"}
		}
		if f.Text != nil {
			re, err := regexp.Compile("(?s)" + f.Text.Pattern)
			if err != nil {
				return &ValidationError{Issuer: s.Issuer, Field: f.Name, Reason: fmt.Sprintf("bad pattern: %v", err)}
			}
			if re.NumSubexp() != 1 {
				return &ValidationError{
					Issuer: s.Issuer,
					Field:  f.Name,
					Reason: fmt.Sprintf("pattern must have exactly one capture group, has %d", re.NumSubexp()),
				}
			}
			f.Text.re = re
		}
		if f.Table != nil {
			if len(f.Table.Labels) == 0 {
				return &ValidationError{Issuer: s.Issuer, Field: f.Name, Reason: "table rule has no labels"}
			}
			if f.Table.Column < 1 {
				return &ValidationError{Issuer: s.Issuer, Field: f.Name, Reason: "table column must be >= 1"}
			}
		}
	}

	s.compiled = true
	return nil
}

// Compiled reports whether Compile succeeded on this schema
func (s *Schema) Compiled() bool {
	return s.compiled
}

// Columns returns the output headers: Sl.No, Company, then the fields
func (s *Schema) Columns(legacy bool) []string {
	cols := make([]string, 0, len(s.Fields)+2)
	cols = append(cols, ColumnSlNo, ColumnCompany)
	for _, f := range s.Fields {
		cols = append(cols, f.Header(legacy))
	}
	return cols
}

// FieldNames returns the canonical field names in schema order
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
