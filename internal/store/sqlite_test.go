package store

import (
	"path/filepath"
	"testing"

	"github.com/matsen/citegraph/internal/paper"
	"github.com/matsen/citegraph/internal/roles"
)

func writeFixtureTables(t *testing.T, dir string) (papersPath, edgesPath, annsPath string) {
	t.Helper()

	papersPath = filepath.Join(dir, "papers_with_scite.csv")
	edgesPath = filepath.Join(dir, "edges.csv")
	annsPath = filepath.Join(dir, "edge_roles.csv")

	papers := []paper.Paper{
		{OpenAlexID: "W1", DOI: "10.1/a", Title: "A", Year: 2020, InCollection: true,
			Tally: paper.Tally{Supporting: 2, Total: 2, CitingPublications: 2}},
		{OpenAlexID: "W2", DOI: "10.1/b", Title: "B", Year: 2021, InCollection: true},
		{OpenAlexID: "W3", Title: "C", InCollection: true},
	}
	if err := WriteEnrichedPapers(papersPath, papers); err != nil {
		t.Fatal(err)
	}

	edges := []paper.Edge{
		{CitingID: "W1", CitedID: "W2"},
		{CitingID: "W1", CitedID: "W3"},
		{CitingID: "W2", CitedID: "W3"},
	}
	if err := WriteEdges(edgesPath, edges); err != nil {
		t.Fatal(err)
	}

	anns := []roles.Annotation{
		{CitingID: "W1", CitedID: "W2", Role: roles.RoleSupport, Confidence: 0.9, Reason: "replicates"},
		{CitingID: "W1", CitedID: "W3", Role: roles.RoleBackground, Confidence: 0.3, Reason: "fallback"},
	}
	if err := WriteAnnotations(annsPath, anns); err != nil {
		t.Fatal(err)
	}
	return papersPath, edgesPath, annsPath
}

func TestRebuildAndStats(t *testing.T) {
	dir := t.TempDir()
	papersPath, edgesPath, annsPath := writeFixtureTables(t, dir)

	db, err := OpenDB(filepath.Join(dir, "citegraph.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	counts, err := db.RebuildFromTables(papersPath, edgesPath, annsPath)
	if err != nil {
		t.Fatalf("RebuildFromTables: %v", err)
	}
	if counts.Papers != 3 || counts.Edges != 3 || counts.Annotations != 2 {
		t.Errorf("got counts %+v, want 3 papers, 3 edges, 2 annotations", counts)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Papers != 3 || stats.Edges != 3 || stats.Annotations != 2 {
		t.Errorf("got stats %+v", stats)
	}
	if stats.RenderableEdges != 2 {
		t.Errorf("got %d renderable edges, want 2 (only annotated pairs render)", stats.RenderableEdges)
	}
	if stats.RoleCounts["SUPPORT"] != 1 || stats.RoleCounts["BACKGROUND"] != 1 {
		t.Errorf("got role counts %v", stats.RoleCounts)
	}
}

func TestRebuildWithoutAnnotations(t *testing.T) {
	dir := t.TempDir()
	papersPath, edgesPath, _ := writeFixtureTables(t, dir)

	db, err := OpenDB(filepath.Join(dir, "citegraph.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	counts, err := db.RebuildFromTables(papersPath, edgesPath, filepath.Join(dir, "absent.csv"))
	if err != nil {
		t.Fatalf("RebuildFromTables without annotations: %v", err)
	}
	if counts.Annotations != 0 {
		t.Errorf("got %d annotations, want 0", counts.Annotations)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.RenderableEdges != 0 {
		t.Errorf("unannotated graph should have no renderable edges, got %d", stats.RenderableEdges)
	}
}

func TestRebuildIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	papersPath, edgesPath, annsPath := writeFixtureTables(t, dir)

	db, err := OpenDB(filepath.Join(dir, "citegraph.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if _, err := db.RebuildFromTables(papersPath, edgesPath, annsPath); err != nil {
			t.Fatalf("rebuild %d: %v", i+1, err)
		}
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Papers != 3 || stats.Edges != 3 {
		t.Errorf("rebuild should replace, not accumulate: %+v", stats)
	}
}
