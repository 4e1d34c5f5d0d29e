// Package doi handles canonicalization of Digital Object Identifiers.
//
// DOIs arrive in many equivalent spellings (URL forms, doi: scheme, mixed
// case). Every join across data sources goes through Canonical so that the
// same work resolves to the same key everywhere.
package doi

import "strings"

// prefixes are the URL/scheme forms stripped during canonicalization,
// matched case-insensitively.
var prefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// Canonical normalizes a raw DOI string to its canonical form: trimmed,
// prefix-stripped, lowercased. It returns "" for empty input or for strings
// that do not look like a DOI after stripping (no '/' separator). The empty
// result is the absence value and must never be used as a join key.
//
// Canonical is idempotent: Canonical(Canonical(x)) == Canonical(x).
func Canonical(raw string) string {
	d := strings.TrimSpace(raw)
	if d == "" {
		return ""
	}

	lower := strings.ToLower(d)
	for _, prefix := range prefixes {
		if strings.HasPrefix(lower, prefix) {
			d = d[len(prefix):]
			break
		}
	}

	if !strings.Contains(d, "/") {
		return ""
	}
	return strings.ToLower(d)
}

// IsValid reports whether raw canonicalizes to a usable DOI.
func IsValid(raw string) bool {
	return Canonical(raw) != ""
}

// Filename converts a canonical DOI into a filesystem-safe cache filename
// (without extension). The mapping is deterministic so that rerunning the
// pipeline finds previously cached documents.
func Filename(canonical string) string {
	r := strings.NewReplacer("/", "_", ":", "_")
	return r.Replace(canonical)
}
