// Package openalex reads OpenAlex work metadata: fetching per-DOI work
// documents, caching them on disk, and turning a directory of cached
// documents into the pipeline's paper and citation-edge tables.
package openalex

import (
	"sort"
	"strconv"
	"strings"
)

// Work is the subset of an OpenAlex work document this pipeline consumes.
type Work struct {
	// ID is the OpenAlex work identifier, e.g. "https://openalex.org/W123".
	ID    string `json:"id"`
	DOI   string `json:"doi"`
	Title string `json:"title"`

	PublicationYear int    `json:"publication_year"`
	PublicationDate string `json:"publication_date"`

	// AbstractInvertedIndex maps each word to its positions in the abstract.
	// OpenAlex delivers abstracts in this form instead of linear text.
	AbstractInvertedIndex map[string][]int `json:"abstract_inverted_index"`

	// Abstract is the plain-text abstract some works carry instead of the
	// inverted index.
	Abstract string `json:"abstract"`

	ReferencedWorks []string `json:"referenced_works"`
}

// Year returns the publication year, deriving it from the leading four
// characters of the publication date when the year field is missing.
// Returns 0 when neither source yields a year.
func (w *Work) Year() int {
	if w.PublicationYear != 0 {
		return w.PublicationYear
	}
	if len(w.PublicationDate) >= 4 {
		if y, err := strconv.Atoi(w.PublicationDate[:4]); err == nil {
			return y
		}
	}
	return 0
}

// AbstractText returns the work's abstract as linear text, reconstructing it
// from the inverted index when present.
func (w *Work) AbstractText() string {
	if len(w.AbstractInvertedIndex) > 0 {
		return ReconstructAbstract(w.AbstractInvertedIndex)
	}
	return w.Abstract
}

// ReconstructAbstract rebuilds linear abstract text from an inverted index.
// Each word is placed at its earliest listed position, words are ordered by
// position, and joined with single spaces. Words sharing a position are
// ordered lexically so the output is deterministic.
func ReconstructAbstract(inv map[string][]int) string {
	type placed struct {
		pos  int
		word string
	}

	var words []placed
	for word, positions := range inv {
		if len(positions) == 0 {
			continue
		}
		first := positions[0]
		for _, p := range positions[1:] {
			if p < first {
				first = p
			}
		}
		words = append(words, placed{pos: first, word: word})
	}

	sort.Slice(words, func(i, j int) bool {
		if words[i].pos != words[j].pos {
			return words[i].pos < words[j].pos
		}
		return words[i].word < words[j].word
	})

	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.word
	}
	return strings.Join(parts, " ")
}
