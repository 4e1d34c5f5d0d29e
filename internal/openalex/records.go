package openalex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	log "github.com/sirupsen/logrus"

	"github.com/matsen/citegraph/internal/doi"
	"github.com/matsen/citegraph/internal/paper"
)

// TableStats reports what BuildTables saw and produced.
type TableStats struct {
	Files      int `json:"files"`
	Parsed     int `json:"parsed"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	Papers     int `json:"papers"`
	RawEdges   int `json:"raw_edges"`
}

// BuildTables reads every cached work document in dir and produces the paper
// set and the raw citation-edge universe in one pass.
//
// Documents are visited in sorted-filename order and the first document seen
// for a work ID wins; later duplicates are dropped with a warning. Documents
// that fail to parse or lack a work ID are skipped with a warning, never
// aborting the batch. Every paper is marked in-collection: this store only
// ever processes documents fetched for collection DOIs.
func BuildTables(dir string) ([]paper.Paper, []paper.Edge, TableStats, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, nil, TableStats{}, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(entries)

	stats := TableStats{Files: len(entries)}
	seenWorks := mapset.NewSet[string]()
	seenEdges := mapset.NewSet[paper.Edge]()

	var papers []paper.Paper
	var edges []paper.Edge

	for _, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			log.WithField("file", path).WithError(err).Warn("unreadable work document, skipping")
			stats.Skipped++
			continue
		}

		var w Work
		if err := json.Unmarshal(data, &w); err != nil {
			log.WithField("file", path).WithError(err).Warn("malformed work document, skipping")
			stats.Skipped++
			continue
		}

		if w.ID == "" {
			log.WithField("file", path).Warn("work document without id, skipping")
			stats.Skipped++
			continue
		}
		stats.Parsed++

		if !seenWorks.Add(w.ID) {
			log.WithFields(log.Fields{"file": path, "id": w.ID}).Warn("duplicate work document, keeping first")
			stats.Duplicates++
			continue
		}

		papers = append(papers, paper.Paper{
			OpenAlexID:   w.ID,
			DOI:          doi.Canonical(w.DOI),
			Title:        w.Title,
			Year:         w.Year(),
			InCollection: true,
		})

		for _, ref := range w.ReferencedWorks {
			if ref == "" {
				continue
			}
			e := paper.Edge{CitingID: w.ID, CitedID: ref}
			if seenEdges.Add(e) {
				edges = append(edges, e)
			}
		}
	}

	stats.Papers = len(papers)
	stats.RawEdges = len(edges)

	log.WithFields(log.Fields{
		"files":    stats.Files,
		"parsed":   stats.Parsed,
		"skipped":  stats.Skipped,
		"papers":   stats.Papers,
		"rawEdges": stats.RawEdges,
	}).Info("built paper and edge tables")

	return papers, edges, stats, nil
}

// LoadAbstracts scans the cached work documents in dir and builds a lookup
// from work ID to linear abstract text. Malformed documents are skipped.
func LoadAbstracts(dir string) (map[string]string, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(entries)

	abstracts := make(map[string]string)
	for _, path := range entries {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var w Work
		if err := json.Unmarshal(data, &w); err != nil {
			log.WithField("file", path).Warn("malformed work document, no abstract loaded")
			continue
		}
		if w.ID == "" {
			continue
		}
		if _, ok := abstracts[w.ID]; ok {
			continue
		}
		abstracts[w.ID] = w.AbstractText()
	}

	return abstracts, nil
}
