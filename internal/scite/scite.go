// Package scite fetches and merges scite.ai citation tallies.
//
// Tallies are keyed by DOI, not by work ID, so the merge onto the paper set
// happens through canonical DOIs on both sides.
package scite

import "github.com/matsen/citegraph/internal/paper"

// Tallies is one scite.ai tallies response for a DOI.
type Tallies struct {
	DOI                string `json:"doi"`
	Supporting         int    `json:"supporting"`
	Contradicting      int    `json:"contradicting"`
	Mentioning         int    `json:"mentioning"`
	Unclassified       int    `json:"unclassified"`
	Total              int    `json:"total"`
	CitingPublications int    `json:"citingPublications"`
}

// Record is one row of the tallies table: the DOI the tallies were requested
// for, plus the six counters. A DOI scite has no data for still gets a row,
// with all counters zero.
type Record struct {
	DOI   string      `json:"doi"`
	Tally paper.Tally `json:"tally"`
}

// Table converts a fetch result (DOI to tallies, nil for explicit no-data)
// into the flat record table, preserving the requested DOIs in sorted order.
func Table(tallies map[string]*Tallies) []Record {
	records := make([]Record, 0, len(tallies))
	for _, d := range sortedKeys(tallies) {
		rec := Record{DOI: d}
		if t := tallies[d]; t != nil {
			rec.Tally = paper.Tally{
				Supporting:         t.Supporting,
				Contradicting:      t.Contradicting,
				Mentioning:         t.Mentioning,
				Unclassified:       t.Unclassified,
				Total:              t.Total,
				CitingPublications: t.CitingPublications,
			}
		}
		records = append(records, rec)
	}
	return records
}
