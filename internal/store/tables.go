// Package store persists pipeline state as flat record tables with stable
// column sets, so each stage can run independently against the previous
// stage's output. CSV files are the canonical artifacts; a SQLite database
// rebuilt from them serves ad-hoc queries.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/matsen/citegraph/internal/paper"
	"github.com/matsen/citegraph/internal/roles"
	"github.com/matsen/citegraph/internal/scite"
)

// ErrMissingArtifact marks a required intermediate artifact that an earlier
// stage has not produced yet. The wrapped message names the expected path.
var ErrMissingArtifact = errors.New("missing pipeline artifact")

// Stable column sets for the stage tables.
var (
	paperColumns    = []string{"openalex_id", "doi", "title", "year", "in_collection"}
	enrichedColumns = append(paperColumns[:len(paperColumns):len(paperColumns)],
		"scite_supporting", "scite_contradicting", "scite_mentioning",
		"scite_unclassified", "scite_total", "scite_citingPublications")
	edgeColumns       = []string{"citing_openalex_id", "cited_openalex_id"}
	tallyColumns      = []string{"doi", "supporting", "contradicting", "mentioning", "unclassified", "total", "citingPublications"}
	annotationColumns = []string{"citing_id", "cited_id", "role", "confidence", "reason"}
)

// openTable opens a stage table, mapping absence to ErrMissingArtifact.
func openTable(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, nil
}

// writeTable writes a CSV file with the given header and rows.
func writeTable(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// readTable reads a CSV file and validates its header.
func readTable(path string, header []string) ([][]string, error) {
	f, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parsing %s: missing header", path)
	}
	if len(records[0]) != len(header) {
		return nil, fmt.Errorf("parsing %s: expected %d columns, found %d", path, len(header), len(records[0]))
	}
	for i, col := range header {
		if records[0][i] != col {
			return nil, fmt.Errorf("parsing %s: expected column %q, found %q", path, col, records[0][i])
		}
	}
	return records[1:], nil
}

// formatYear renders a year column value; 0 (unknown) becomes the empty
// string, never a NaN-like sentinel.
func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func paperRow(p paper.Paper) []string {
	return []string{p.OpenAlexID, p.DOI, p.Title, formatYear(p.Year), strconv.FormatBool(p.InCollection)}
}

func parsePaperRow(row []string) (paper.Paper, error) {
	year, err := parseYear(row[3])
	if err != nil {
		return paper.Paper{}, fmt.Errorf("invalid year %q: %w", row[3], err)
	}
	inColl, err := strconv.ParseBool(row[4])
	if err != nil {
		return paper.Paper{}, fmt.Errorf("invalid in_collection %q: %w", row[4], err)
	}
	return paper.Paper{
		OpenAlexID:   row[0],
		DOI:          row[1],
		Title:        row[2],
		Year:         year,
		InCollection: inColl,
	}, nil
}

// WritePapers writes the paper table (without tally columns).
func WritePapers(path string, papers []paper.Paper) error {
	rows := make([][]string, len(papers))
	for i, p := range papers {
		rows[i] = paperRow(p)
	}
	return writeTable(path, paperColumns, rows)
}

// ReadPapers reads the paper table written by WritePapers.
func ReadPapers(path string) ([]paper.Paper, error) {
	rows, err := readTable(path, paperColumns)
	if err != nil {
		return nil, err
	}

	papers := make([]paper.Paper, 0, len(rows))
	for i, row := range rows {
		p, err := parsePaperRow(row)
		if err != nil {
			return nil, fmt.Errorf("parsing %s row %d: %w", path, i+2, err)
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// WriteEnrichedPapers writes the paper table with tally columns attached.
func WriteEnrichedPapers(path string, papers []paper.Paper) error {
	rows := make([][]string, len(papers))
	for i, p := range papers {
		rows[i] = append(paperRow(p),
			strconv.Itoa(p.Tally.Supporting),
			strconv.Itoa(p.Tally.Contradicting),
			strconv.Itoa(p.Tally.Mentioning),
			strconv.Itoa(p.Tally.Unclassified),
			strconv.Itoa(p.Tally.Total),
			strconv.Itoa(p.Tally.CitingPublications),
		)
	}
	return writeTable(path, enrichedColumns, rows)
}

// ReadEnrichedPapers reads the enriched paper table.
func ReadEnrichedPapers(path string) ([]paper.Paper, error) {
	rows, err := readTable(path, enrichedColumns)
	if err != nil {
		return nil, err
	}

	papers := make([]paper.Paper, 0, len(rows))
	for i, row := range rows {
		p, err := parsePaperRow(row[:5])
		if err != nil {
			return nil, fmt.Errorf("parsing %s row %d: %w", path, i+2, err)
		}

		counters := make([]int, 6)
		for j := 0; j < 6; j++ {
			n, err := strconv.Atoi(row[5+j])
			if err != nil {
				return nil, fmt.Errorf("parsing %s row %d: invalid tally %q", path, i+2, row[5+j])
			}
			counters[j] = n
		}
		p.Tally = paper.Tally{
			Supporting:         counters[0],
			Contradicting:      counters[1],
			Mentioning:         counters[2],
			Unclassified:       counters[3],
			Total:              counters[4],
			CitingPublications: counters[5],
		}
		papers = append(papers, p)
	}
	return papers, nil
}

// WriteEdges writes an edge table (raw or collection-scoped).
func WriteEdges(path string, edges []paper.Edge) error {
	rows := make([][]string, len(edges))
	for i, e := range edges {
		rows[i] = []string{e.CitingID, e.CitedID}
	}
	return writeTable(path, edgeColumns, rows)
}

// ReadEdges reads an edge table.
func ReadEdges(path string) ([]paper.Edge, error) {
	rows, err := readTable(path, edgeColumns)
	if err != nil {
		return nil, err
	}

	edges := make([]paper.Edge, len(rows))
	for i, row := range rows {
		edges[i] = paper.Edge{CitingID: row[0], CitedID: row[1]}
	}
	return edges, nil
}

// WriteTallyTable writes the scite tallies table.
func WriteTallyTable(path string, records []scite.Record) error {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{
			rec.DOI,
			strconv.Itoa(rec.Tally.Supporting),
			strconv.Itoa(rec.Tally.Contradicting),
			strconv.Itoa(rec.Tally.Mentioning),
			strconv.Itoa(rec.Tally.Unclassified),
			strconv.Itoa(rec.Tally.Total),
			strconv.Itoa(rec.Tally.CitingPublications),
		}
	}
	return writeTable(path, tallyColumns, rows)
}

// ReadTallyTable reads the scite tallies table.
func ReadTallyTable(path string) ([]scite.Record, error) {
	rows, err := readTable(path, tallyColumns)
	if err != nil {
		return nil, err
	}

	records := make([]scite.Record, 0, len(rows))
	for i, row := range rows {
		counters := make([]int, 6)
		for j := 0; j < 6; j++ {
			n, err := strconv.Atoi(row[1+j])
			if err != nil {
				return nil, fmt.Errorf("parsing %s row %d: invalid tally %q", path, i+2, row[1+j])
			}
			counters[j] = n
		}
		records = append(records, scite.Record{
			DOI: row[0],
			Tally: paper.Tally{
				Supporting:         counters[0],
				Contradicting:      counters[1],
				Mentioning:         counters[2],
				Unclassified:       counters[3],
				Total:              counters[4],
				CitingPublications: counters[5],
			},
		})
	}
	return records, nil
}

// WriteAnnotations writes the edge-role annotation table.
func WriteAnnotations(path string, anns []roles.Annotation) error {
	rows := make([][]string, len(anns))
	for i, a := range anns {
		rows[i] = []string{
			a.CitingID,
			a.CitedID,
			string(a.Role),
			strconv.FormatFloat(a.Confidence, 'g', -1, 64),
			a.Reason,
		}
	}
	return writeTable(path, annotationColumns, rows)
}

// ReadAnnotations reads the edge-role annotation table.
func ReadAnnotations(path string) ([]roles.Annotation, error) {
	rows, err := readTable(path, annotationColumns)
	if err != nil {
		return nil, err
	}

	anns := make([]roles.Annotation, 0, len(rows))
	for i, row := range rows {
		confidence, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s row %d: invalid confidence %q", path, i+2, row[3])
		}
		anns = append(anns, roles.Annotation{
			CitingID:   row[0],
			CitedID:    row[1],
			Role:       roles.Role(row[2]),
			Confidence: confidence,
			Reason:     row[4],
		})
	}
	return anns, nil
}
