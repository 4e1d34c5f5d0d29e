package viz

import (
	"github.com/matsen/citegraph/internal/graph"
	"github.com/matsen/citegraph/internal/paper"
	"github.com/matsen/citegraph/internal/roles"
)

// maxLabelLength bounds node labels; full titles live in tooltips.
const maxLabelLength = 40

// BuildGraphData constructs the renderable view of an assembled graph.
// The annotation table is the sole edge filter: a structural edge with no
// annotation for its ordered pair is not drawn.
func BuildGraphData(g *graph.Graph, anns []roles.Annotation) *GraphData {
	byPair := roles.ByPair(anns)

	var edges []Edge
	degree := make(map[string]int)
	for _, e := range g.Edges {
		ann, ok := byPair[e]
		if !ok {
			continue
		}
		degree[e.CitingID]++
		degree[e.CitedID]++
		edges = append(edges, Edge{
			Source:     e.CitingID,
			Target:     e.CitedID,
			Role:       string(ann.Role),
			Confidence: ann.Confidence,
			Reason:     ann.Reason,
		})
	}

	nodes := make([]Node, 0, len(g.Nodes))
	for _, p := range g.Nodes {
		nodes = append(nodes, newPaperNode(p, degree[p.OpenAlexID]))
	}

	return &GraphData{Nodes: nodes, Edges: edges}
}

// newPaperNode creates a visualization node from a paper.
func newPaperNode(p paper.Paper, degree int) Node {
	return Node{
		ID:            p.OpenAlexID,
		Label:         nodeLabel(p),
		Title:         p.Title,
		DOI:           p.DOI,
		Year:          p.Year,
		InCollection:  p.InCollection,
		Supporting:    p.Tally.Supporting,
		Contradicting: p.Tally.Contradicting,
		Mentioning:    p.Tally.Mentioning,
		Degree:        degree,
	}
}

// nodeLabel picks a short display label: a truncated title, falling back
// to the identifier for title-less records.
func nodeLabel(p paper.Paper) string {
	if p.Title == "" {
		return p.OpenAlexID
	}
	runes := []rune(p.Title)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength-1]) + "…"
	}
	return p.Title
}
