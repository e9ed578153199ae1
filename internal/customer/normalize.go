package customer

import (
	"regexp"
	"strings"
)

// legalSuffixes lists legal entity suffixes stripped during normalization.
// Compound suffixes come before their tails since only the first match is
// removed.
var legalSuffixes = []string{
	" PTY LTD", " PTY LTD.", " PTY LIMITED",
	" LLC", " L.L.C.", " L.L.C",
	" INC", " INC.", " INCORPORATED",
	" CORP", " CORP.", " CORPORATION",
	" LTD", " LTD.", " LIMITED",
	" PTY",
	" LP", " L.P.", " L.P",
	" LLP", " L.L.P.", " L.L.P",
	" CO", " CO.",
	" PLC", " GMBH",
}

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

var punctuation = strings.NewReplacer(
	",", "",
	".", "",
	"'", "",
	"\"", "",
	"&", " AND ",
	"-", " ",
	"_", " ",
)

// NormalizeName reduces a customer name to the form used for alias lookup:
// trimmed, uppercased, one legal suffix removed, punctuation stripped and
// runs of spaces collapsed.
func NormalizeName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}

	name = punctuation.Replace(name)
	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
