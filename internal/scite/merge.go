package scite

import (
	log "github.com/sirupsen/logrus"

	"github.com/matsen/citegraph/internal/doi"
	"github.com/matsen/citegraph/internal/paper"
)

// MergeStats reports the outcome of a tally merge.
type MergeStats struct {
	Papers     int `json:"papers"`
	Matched    int `json:"matched"`
	ZeroFilled int `json:"zero_filled"`
	Collisions int `json:"collisions"`
}

// Merge left-joins tally records onto the paper set via canonical DOI,
// mutating each paper's Tally in place.
//
// This is a total function over the paper set: a paper with no DOI, or whose
// DOI matches no record, gets explicit all-zero tallies. Record DOIs are
// canonicalized here; pre-normalized input is not assumed. When several
// records collapse onto one canonical DOI the first one seen wins and the
// collision is logged.
func Merge(papers []paper.Paper, records []Record) MergeStats {
	byDOI := make(map[string]paper.Tally, len(records))
	stats := MergeStats{Papers: len(papers)}

	for _, rec := range records {
		key := doi.Canonical(rec.DOI)
		if key == "" {
			continue
		}
		if _, ok := byDOI[key]; ok {
			log.WithField("doi", key).Warn("multiple tally records for one DOI, keeping first")
			stats.Collisions++
			continue
		}
		byDOI[key] = rec.Tally
	}

	for i := range papers {
		if t, ok := byDOI[papers[i].DOI]; ok && papers[i].DOI != "" {
			papers[i].Tally = t
			stats.Matched++
		} else {
			papers[i].Tally = paper.Tally{}
			stats.ZeroFilled++
		}
	}

	log.WithFields(log.Fields{
		"papers":      stats.Papers,
		"matched":     stats.Matched,
		"zero_filled": stats.ZeroFilled,
		"collisions":  stats.Collisions,
	}).Info("merged tallies into papers")

	return stats
}
