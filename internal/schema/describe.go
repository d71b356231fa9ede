package schema

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Describe writes a table of the schema's output columns and the rules that
// feed them.
func Describe(w io.Writer, s *Schema, legacy bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "%s (%d fields)\n", s.Issuer, len(s.Fields))
	fmt.Fprintln(tw, "#\tCOLUMN\tTEXT PATTERN\tTABLE LABELS\tCOL")
	fmt.Fprintf(tw, "1\t%s\t-\t-\t-\n", ColumnSlNo)
	fmt.Fprintf(tw, "2\t%s\t-\t-\t-\n", ColumnCompany)

	for i, f := range s.Fields {
		pattern, labels, column := "-", "-", "-"
		if f.Text != nil {
			pattern = f.Text.Pattern
		}
		if f.Table != nil {
			labels = strings.Join(f.Table.Labels, " | ")
			column = fmt.Sprint(f.Table.Column)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+3, f.Header(legacy), pattern, labels, column)
	}

	return tw.Flush()
}
