package extract

import (
	"strconv"

	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

// Record is one document's extracted row. SlNo is 0 until the batch driver
// numbers it. Err is set only when the document could not be opened.
type Record struct {
	Issuer   schema.Issuer
	SlNo     int
	Document string
	Fields   map[string]Value
	Err      error
}

// Get returns the value of an output column, including the fixed Sl.No and
// Company columns.
func (r Record) Get(column string) Value {
	switch column {
	case schema.ColumnSlNo:
		if r.SlNo <= 0 {
			return Absent()
		}
		return Some(strconv.Itoa(r.SlNo))
	case schema.ColumnCompany:
		return Some(string(r.Issuer))
	}
	return r.Fields[column]
}

// Failed reports whether the document behind the record could not be opened
func (r Record) Failed() bool {
	return r.Err != nil
}

// Present counts the schema fields that were found
func (r Record) Present() int {
	n := 0
	for _, v := range r.Fields {
		if v.IsPresent() {
			n++
		}
	}
	return n
}

// Assemble builds the record for one document from the text-derived and
// table-derived values. For every schema field a present table value wins,
// otherwise the text value is used. Fields missing from both maps are absent.
func Assemble(s *schema.Schema, text, table map[string]Value) Record {
	fields := make(map[string]Value, len(s.Fields))
	for _, f := range s.Fields {
		if v := table[f.Name]; v.IsPresent() {
			fields[f.Name] = v
			continue
		}
		fields[f.Name] = text[f.Name]
	}

	return Record{
		Issuer: s.Issuer,
		Fields: fields,
	}
}

// Empty returns a record with every schema field absent
func Empty(s *schema.Schema) Record {
	return Assemble(s, nil, nil)
}
