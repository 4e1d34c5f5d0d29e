// Package graph builds the collection-scoped citation graph.
//
// Filtering happens in two deliberate stages: ScopeEdges keeps edges whose
// citing side is a fetched paper without touching the cited side, and
// Assemble drops any edge whose endpoints are not both nodes. Scoping
// decisions and node-existence decisions stay separate.
package graph

import (
	mapset "github.com/deckarep/golang-set/v2"
	log "github.com/sirupsen/logrus"

	"github.com/matsen/citegraph/internal/paper"
)

// Graph is the assembled directed citation graph. Nodes are enriched papers;
// edges connect node IDs.
type Graph struct {
	Nodes []paper.Paper `json:"nodes"`
	Edges []paper.Edge  `json:"edges"`
}

// AssembleStats reports the outcome of graph assembly. AddedEdges may be
// strictly less than ScopedEdges when cited works were never fetched; both
// counts are kept so the loss is observable.
type AssembleStats struct {
	Nodes       int `json:"nodes"`
	ScopedEdges int `json:"scoped_edges"`
	AddedEdges  int `json:"added_edges"`
}

// ScopeEdges returns the raw edges whose citing work is in the paper set.
// Cited IDs pointing outside the corpus are intentionally left in place;
// those edges fail the node-existence check at assembly instead.
func ScopeEdges(papers []paper.Paper, raw []paper.Edge) []paper.Edge {
	ids := mapset.NewSet[string]()
	for _, p := range papers {
		ids.Add(p.OpenAlexID)
	}

	var scoped []paper.Edge
	for _, e := range raw {
		if ids.Contains(e.CitingID) {
			scoped = append(scoped, e)
		}
	}

	log.WithFields(log.Fields{
		"raw":    len(raw),
		"scoped": len(scoped),
		"papers": len(papers),
	}).Info("scoped edges to collection")

	return scoped
}

// Assemble builds the directed graph from enriched papers and scoped edges.
// Every paper becomes a node; an edge is added only when both endpoints are
// nodes. No deduplication and no other filtering happens here: inputs are
// already deduplicated upstream, and self-loops pass through untouched.
func Assemble(papers []paper.Paper, scoped []paper.Edge) (*Graph, AssembleStats) {
	ids := mapset.NewSet[string]()
	for _, p := range papers {
		ids.Add(p.OpenAlexID)
	}

	g := &Graph{Nodes: papers}
	for _, e := range scoped {
		if ids.Contains(e.CitingID) && ids.Contains(e.CitedID) {
			g.Edges = append(g.Edges, e)
		}
	}

	stats := AssembleStats{
		Nodes:       len(g.Nodes),
		ScopedEdges: len(scoped),
		AddedEdges:  len(g.Edges),
	}

	log.WithFields(log.Fields{
		"nodes":        stats.Nodes,
		"scoped_edges": stats.ScopedEdges,
		"added_edges":  stats.AddedEdges,
	}).Info("assembled citation graph")

	return g, stats
}

// Titles returns a lookup from node ID to title.
func (g *Graph) Titles() map[string]string {
	titles := make(map[string]string, len(g.Nodes))
	for _, p := range g.Nodes {
		titles[p.OpenAlexID] = p.Title
	}
	return titles
}
