// Package config handles workspace layout and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// File and directory names inside a citegraph workspace.
const (
	DOIListFile     = "doi_list.txt"
	OpenAlexRawDir  = "openalex_raw"
	SciteDir        = "scite"
	TalliesJSONFile = "tallies.json"
	ProcessedDir    = "processed"

	PapersFile         = "papers.csv"
	RawEdgesFile       = "citation_edges_raw.csv"
	ScopedEdgesFile    = "citation_edges_collection.csv"
	TallyTableFile     = "scite_tallies.csv"
	EnrichedPapersFile = "papers_with_scite.csv"
	AnnotationsFile    = "edge_roles_llm.csv"

	GraphMLFile = "citation_graph.graphml"
	HTMLFile    = "citation_graph_edge_roles.html"
	DBFile      = "citegraph.db"
)

// Layout resolves artifact paths inside a single workspace directory.
// Every pipeline stage reads and writes through it, so the on-disk
// arrangement is defined in exactly one place.
type Layout struct {
	Root string
}

// NewLayout returns a Layout rooted at dir.
func NewLayout(dir string) Layout {
	return Layout{Root: dir}
}

// EnsureDirs creates the workspace directory tree.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.Root, l.OpenAlexRaw(), l.SciteDirPath(), l.Processed()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating workspace directory: %w", err)
		}
	}
	return nil
}

// DOIList returns the path to the extracted DOI list.
func (l Layout) DOIList() string { return filepath.Join(l.Root, DOIListFile) }

// OpenAlexRaw returns the directory holding per-DOI OpenAlex responses.
func (l Layout) OpenAlexRaw() string { return filepath.Join(l.Root, OpenAlexRawDir) }

// SciteDirPath returns the directory holding scite artifacts.
func (l Layout) SciteDirPath() string { return filepath.Join(l.Root, SciteDir) }

// TalliesJSON returns the path to the raw scite tallies artifact.
func (l Layout) TalliesJSON() string { return filepath.Join(l.Root, SciteDir, TalliesJSONFile) }

// Processed returns the directory holding derived record tables.
func (l Layout) Processed() string { return filepath.Join(l.Root, ProcessedDir) }

// Papers returns the path to the paper table.
func (l Layout) Papers() string { return filepath.Join(l.Processed(), PapersFile) }

// RawEdges returns the path to the unfiltered edge table.
func (l Layout) RawEdges() string { return filepath.Join(l.Processed(), RawEdgesFile) }

// ScopedEdges returns the path to the collection-scoped edge table.
func (l Layout) ScopedEdges() string { return filepath.Join(l.Processed(), ScopedEdgesFile) }

// TallyTable returns the path to the flattened scite tally table.
func (l Layout) TallyTable() string { return filepath.Join(l.Processed(), TallyTableFile) }

// EnrichedPapers returns the path to the paper table with tallies merged in.
func (l Layout) EnrichedPapers() string { return filepath.Join(l.Processed(), EnrichedPapersFile) }

// Annotations returns the path to the edge-role annotation table.
func (l Layout) Annotations() string { return filepath.Join(l.Processed(), AnnotationsFile) }

// GraphML returns the path to the GraphML export.
func (l Layout) GraphML() string { return filepath.Join(l.Root, GraphMLFile) }

// HTML returns the path to the interactive HTML visualization.
func (l Layout) HTML() string { return filepath.Join(l.Root, HTMLFile) }

// DB returns the path to the SQLite query cache.
func (l Layout) DB() string { return filepath.Join(l.Root, DBFile) }

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
