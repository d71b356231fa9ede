// Package extract evaluates an issuer schema against one document's text and
// tables and assembles the resulting record.
package extract

import (
	"regexp"
	"strings"

	"github.com/a3tai/omc-kpi-extractor/internal/schema"
)

// MatchText returns capture group 1 of the leftmost match of re in text. It
// is absent when re does not match or its group did not take part in the
// match.
func MatchText(text string, re *regexp.Regexp) Value {
	if re == nil {
		return Absent()
	}

	loc := re.FindStringSubmatchIndex(text)
	if len(loc) < 4 || loc[2] < 0 {
		return Absent()
	}
	return Some(text[loc[2]:loc[3]])
}

// CompactRow trims every cell and drops the empty ones
func CompactRow(row []string) []string {
	compact := make([]string, 0, len(row))
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			compact = append(compact, cell)
		}
	}
	return compact
}

// MatchRow tests the lower-cased, space-joined row against each label of the
// rule in order. The first label that prefixes the row decides the result:
// the cell at rule.Column, or absent when the row is too short. No matching
// label is also absent.
func MatchRow(row []string, rule *schema.TableRule) Value {
	if rule == nil || len(row) == 0 {
		return Absent()
	}

	joined := strings.ToLower(strings.Join(row, " "))
	for _, label := range rule.Labels {
		if !strings.HasPrefix(joined, strings.ToLower(label)) {
			continue
		}
		if rule.Column >= 0 && len(row) > rule.Column {
			return Some(row[rule.Column])
		}
		return Absent()
	}
	return Absent()
}
