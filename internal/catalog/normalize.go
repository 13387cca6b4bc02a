package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName is the catalog identity of a product name: trimmed, NFC
// composed and lower-cased with Hungarian rules. The database enforces the
// same identity with a unique index on lower(btrim(name)).
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(norm.NFC.String(name))
	return cases.Lower(language.Hungarian).String(trimmed)
}
