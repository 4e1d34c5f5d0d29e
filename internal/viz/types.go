// Package viz renders the annotated citation graph as interactive HTML.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a paper in the graph.
type Node struct {
	ID string `json:"id"`

	// Display
	Label string `json:"label"`

	// Tooltip fields
	Title        string `json:"title,omitempty"`
	DOI          string `json:"doi,omitempty"`
	Year         int    `json:"year,omitempty"`
	InCollection bool   `json:"inCollection"`

	// scite tallies (for tooltips)
	Supporting    int `json:"supporting"`
	Contradicting int `json:"contradicting"`
	Mentioning    int `json:"mentioning"`

	// Sizing
	Degree int `json:"degree"`
}

// Edge represents an annotated citation. Only edges with an annotation
// are rendered, so every Edge carries a role.
type Edge struct {
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Role       string  `json:"role"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
