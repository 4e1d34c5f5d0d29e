// Package pdfscan harvests DOIs from a directory of PDF files, as an
// alternative collection source to a reference-manager export.
package pdfscan

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"github.com/matsen/citegraph/internal/doi"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// doiSearchPages bounds the scan; DOIs live on the first page in practice.
const doiSearchPages = 3

// ScanStats summarizes a directory scan.
type ScanStats struct {
	Files      int
	WithDOI    int
	WithoutDOI int
	Errors     int
}

// ScanFile extracts the first DOI found in the opening pages of a PDF.
// Returns the canonical form, or "" when no DOI is present.
func ScanFile(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	maxPages := doiSearchPages
	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if d := findDOI(text); d != "" {
			return d, nil
		}
	}

	return "", nil // No DOI found (not an error)
}

// ScanDir extracts DOIs from every PDF under dir (non-recursive),
// returning the sorted, deduplicated canonical list. Unreadable files
// are logged and skipped.
func ScanDir(dir string) ([]string, ScanStats, error) {
	var stats ScanStats

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, stats, fmt.Errorf("reading %s: %w", dir, err)
	}

	seen := mapset.NewSet[string]()
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		stats.Files++

		path := filepath.Join(dir, entry.Name())
		d, err := ScanFile(path)
		if err != nil {
			logrus.WithError(err).WithField("file", entry.Name()).Warn("skipping unreadable PDF")
			stats.Errors++
			continue
		}
		if d == "" {
			logrus.WithField("file", entry.Name()).Info("no DOI found")
			stats.WithoutDOI++
			continue
		}
		stats.WithDOI++
		seen.Add(d)
	}

	dois := seen.ToSlice()
	sort.Strings(dois)
	return dois, stats, nil
}

// findDOI finds the first valid canonical DOI in text.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		// Remove trailing punctuation picked up by the pattern.
		match = strings.TrimRight(match, ".,;:)")
		if canonical := doi.Canonical(match); canonical != "" {
			return canonical
		}
	}
	return ""
}
