package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// IsMissingArtifact reports whether err stems from a missing stage artifact.
func IsMissingArtifact(err error) bool {
	return errors.Is(err, ErrMissingArtifact)
}

// DB wraps the SQLite query cache. The CSV tables stay canonical; the
// database is ephemeral and rebuilt from them on demand.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the SQLite cache at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			openalex_id TEXT PRIMARY KEY,
			doi TEXT,
			title TEXT,
			year INTEGER,
			in_collection INTEGER NOT NULL,
			scite_supporting INTEGER NOT NULL DEFAULT 0,
			scite_contradicting INTEGER NOT NULL DEFAULT 0,
			scite_mentioning INTEGER NOT NULL DEFAULT 0,
			scite_unclassified INTEGER NOT NULL DEFAULT 0,
			scite_total INTEGER NOT NULL DEFAULT 0,
			scite_citing_publications INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi) WHERE doi IS NOT NULL AND doi != '';

		CREATE TABLE IF NOT EXISTS edges (
			citing_id TEXT NOT NULL,
			cited_id TEXT NOT NULL,
			PRIMARY KEY (citing_id, cited_id)
		);

		CREATE TABLE IF NOT EXISTS annotations (
			citing_id TEXT NOT NULL,
			cited_id TEXT NOT NULL,
			role TEXT NOT NULL,
			confidence REAL NOT NULL,
			reason TEXT,
			PRIMARY KEY (citing_id, cited_id)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildCounts reports what a rebuild loaded.
type RebuildCounts struct {
	Papers      int `json:"papers"`
	Edges       int `json:"edges"`
	Annotations int `json:"annotations"`
}

// RebuildFromTables clears the database and reloads it from the enriched
// paper table, the collection edge table, and the annotation table. The
// annotation table is optional: a graph may not have been classified yet.
func (d *DB) RebuildFromTables(papersPath, edgesPath, annotationsPath string) (RebuildCounts, error) {
	var counts RebuildCounts

	papers, err := ReadEnrichedPapers(papersPath)
	if err != nil {
		return counts, err
	}
	edges, err := ReadEdges(edgesPath)
	if err != nil {
		return counts, err
	}

	anns, err := ReadAnnotations(annotationsPath)
	if err != nil && !IsMissingArtifact(err) {
		return counts, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return counts, fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"papers", "edges", "annotations"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return counts, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	paperStmt, err := tx.Prepare(`
		INSERT INTO papers (
			openalex_id, doi, title, year, in_collection,
			scite_supporting, scite_contradicting, scite_mentioning,
			scite_unclassified, scite_total, scite_citing_publications
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return counts, fmt.Errorf("preparing paper insert: %w", err)
	}
	defer paperStmt.Close()

	for _, p := range papers {
		var year any
		if p.Year != 0 {
			year = p.Year
		}
		if _, err := paperStmt.Exec(
			p.OpenAlexID, p.DOI, p.Title, year, p.InCollection,
			p.Tally.Supporting, p.Tally.Contradicting, p.Tally.Mentioning,
			p.Tally.Unclassified, p.Tally.Total, p.Tally.CitingPublications,
		); err != nil {
			return counts, fmt.Errorf("inserting paper %s: %w", p.OpenAlexID, err)
		}
		counts.Papers++
	}

	edgeStmt, err := tx.Prepare("INSERT OR IGNORE INTO edges (citing_id, cited_id) VALUES (?, ?)")
	if err != nil {
		return counts, fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range edges {
		if _, err := edgeStmt.Exec(e.CitingID, e.CitedID); err != nil {
			return counts, fmt.Errorf("inserting edge %s -> %s: %w", e.CitingID, e.CitedID, err)
		}
		counts.Edges++
	}

	annStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO annotations (citing_id, cited_id, role, confidence, reason)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return counts, fmt.Errorf("preparing annotation insert: %w", err)
	}
	defer annStmt.Close()

	for _, a := range anns {
		if _, err := annStmt.Exec(a.CitingID, a.CitedID, string(a.Role), a.Confidence, a.Reason); err != nil {
			return counts, fmt.Errorf("inserting annotation %s -> %s: %w", a.CitingID, a.CitedID, err)
		}
		counts.Annotations++
	}

	if err := tx.Commit(); err != nil {
		return counts, fmt.Errorf("committing rebuild: %w", err)
	}
	return counts, nil
}

// Stats summarizes the cached graph.
type Stats struct {
	Papers          int            `json:"papers"`
	Edges           int            `json:"edges"`
	Annotations     int            `json:"annotations"`
	RenderableEdges int            `json:"renderable_edges"`
	RoleCounts      map[string]int `json:"role_counts"`
}

// Stats queries summary counts, including how many structural edges are
// actually renderable (those with an annotation for their ordered pair).
func (d *DB) Stats() (Stats, error) {
	stats := Stats{RoleCounts: make(map[string]int)}

	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM papers", &stats.Papers},
		{"SELECT COUNT(*) FROM edges", &stats.Edges},
		{"SELECT COUNT(*) FROM annotations", &stats.Annotations},
		{`SELECT COUNT(*) FROM edges e
			JOIN annotations a ON a.citing_id = e.citing_id AND a.cited_id = e.cited_id`, &stats.RenderableEdges},
	}
	for _, c := range counts {
		if err := d.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return stats, fmt.Errorf("querying stats: %w", err)
		}
	}

	rows, err := d.db.Query("SELECT role, COUNT(*) FROM annotations GROUP BY role")
	if err != nil {
		return stats, fmt.Errorf("querying role counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return stats, fmt.Errorf("scanning role counts: %w", err)
		}
		stats.RoleCounts[role] = n
	}
	return stats, rows.Err()
}
