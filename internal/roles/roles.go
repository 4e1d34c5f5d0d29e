// Package roles classifies the rhetorical role of citation edges and owns the
// resulting annotation table.
//
// The annotation table, not the graph, decides which edges a renderer may
// draw: a graph edge with no annotation is never rendered.
package roles

import "github.com/matsen/citegraph/internal/paper"

// Role is the rhetorical role of a citation.
type Role string

// The four allowed roles.
const (
	RoleSupport    Role = "SUPPORT"
	RoleDispute    Role = "DISPUTE"
	RoleBackground Role = "BACKGROUND"
	RoleMethod     Role = "METHOD"
)

// ValidRole reports whether r is one of the four allowed roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSupport, RoleDispute, RoleBackground, RoleMethod:
		return true
	}
	return false
}

// Annotation records the classified role of one directed citation edge.
// At most one annotation exists per ordered (citing, cited) pair.
type Annotation struct {
	CitingID   string  `json:"citing_id"`
	CitedID    string  `json:"cited_id"`
	Role       Role    `json:"role"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// ByPair indexes annotations by their ordered edge pair.
func ByPair(anns []Annotation) map[paper.Edge]Annotation {
	m := make(map[paper.Edge]Annotation, len(anns))
	for _, a := range anns {
		m[paper.Edge{CitingID: a.CitingID, CitedID: a.CitedID}] = a
	}
	return m
}

// RenderableEdges returns the edges a renderer is permitted to draw: exactly
// those with an annotation for their ordered pair.
func RenderableEdges(edges []paper.Edge, anns []Annotation) []paper.Edge {
	byPair := ByPair(anns)
	var renderable []paper.Edge
	for _, e := range edges {
		if _, ok := byPair[e]; ok {
			renderable = append(renderable, e)
		}
	}
	return renderable
}
