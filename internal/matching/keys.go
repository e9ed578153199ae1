// Package matching reconciles packed and shipped lines against ordered lines.
//
// A run aggregates packed and shipped quantities, joins them to orders on an
// exact composite key, fuzzy-matches the leftovers by PO within each customer,
// flags data quality per (PO, style, color) and rolls results up per customer.
package matching

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const keySep = "|"

func newUpper() cases.Caser {
	return cases.Upper(language.Und)
}

// ExactKey builds the composite customer|po|style|color|size key.
// Parts are trimmed and uppercased; empty parts are skipped.
func ExactKey(customer, po, style, color, size string) string {
	return joinKey(newUpper(), customer, po, style, color, size)
}

// FuzzyKey is ExactKey without the size.
func FuzzyKey(customer, po, style, color string) string {
	return joinKey(newUpper(), customer, po, style, color)
}

func joinKey(upper cases.Caser, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, upper.String(p))
	}
	return strings.Join(out, keySep)
}

func normalize(upper cases.Caser, s string) string {
	return upper.String(strings.TrimSpace(s))
}
