package scite

import (
	"reflect"
	"testing"

	"github.com/matsen/citegraph/internal/paper"
)

func TestTable(t *testing.T) {
	tallies := map[string]*Tallies{
		"10.1/b": {DOI: "10.1/b", Supporting: 3, Total: 7, CitingPublications: 5},
		"10.1/a": nil, // explicit no-data
	}

	records := Table(tallies)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Sorted by DOI; the no-data DOI still materializes an all-zero row.
	if records[0].DOI != "10.1/a" {
		t.Errorf("first record DOI = %q, want 10.1/a", records[0].DOI)
	}
	if records[0].Tally != (paper.Tally{}) {
		t.Errorf("no-data record tally = %+v, want all zeros", records[0].Tally)
	}
	want := paper.Tally{Supporting: 3, Total: 7, CitingPublications: 5}
	if records[1].Tally != want {
		t.Errorf("record tally = %+v, want %+v", records[1].Tally, want)
	}
}

func TestMerge(t *testing.T) {
	papers := []paper.Paper{
		{OpenAlexID: "W1", DOI: "10.1/a"},
		{OpenAlexID: "W2", DOI: "10.1/unmatched"},
		{OpenAlexID: "W3", DOI: ""},
		{OpenAlexID: "W4", DOI: "10.1/b"},
	}
	records := []Record{
		// Un-normalized record DOI must still join.
		{DOI: "https://doi.org/10.1/A", Tally: paper.Tally{Supporting: 2, Total: 4}},
		{DOI: "10.1/b", Tally: paper.Tally{Mentioning: 1, Total: 1}},
		// Collision with the first record: first seen wins.
		{DOI: "doi:10.1/a", Tally: paper.Tally{Supporting: 99}},
	}

	stats := Merge(papers, records)

	if papers[0].Tally != (paper.Tally{Supporting: 2, Total: 4}) {
		t.Errorf("W1 tally = %+v, want first-seen record", papers[0].Tally)
	}
	if papers[1].Tally != (paper.Tally{}) {
		t.Errorf("unmatched paper tally = %+v, want zeros", papers[1].Tally)
	}
	if papers[2].Tally != (paper.Tally{}) {
		t.Errorf("DOI-less paper tally = %+v, want zeros", papers[2].Tally)
	}
	if papers[3].Tally != (paper.Tally{Mentioning: 1, Total: 1}) {
		t.Errorf("W4 tally = %+v", papers[3].Tally)
	}

	want := MergeStats{Papers: 4, Matched: 2, ZeroFilled: 2, Collisions: 1}
	if !reflect.DeepEqual(stats, want) {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestMergeIsTotal(t *testing.T) {
	// Every paper gets a tally value even with no records at all.
	papers := []paper.Paper{
		{OpenAlexID: "W1", DOI: "10.1/abc", Tally: paper.Tally{Supporting: 5}},
	}
	Merge(papers, nil)
	if papers[0].Tally != (paper.Tally{}) {
		t.Errorf("tally = %+v, want reset to zeros", papers[0].Tally)
	}
}
