package roles

import (
	"context"
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	log "github.com/sirupsen/logrus"

	"github.com/matsen/citegraph/internal/graph"
	"github.com/matsen/citegraph/internal/paper"
)

// FallbackConfidence is the confidence attached to fallback annotations
// produced for malformed classifier responses.
const FallbackConfidence = 0.3

// ClassifyStats reports the outcome of an edge classification batch.
type ClassifyStats struct {
	Edges      int `json:"edges"`
	Skipped    int `json:"skipped"`
	Classified int `json:"classified"`
	Fallbacks  int `json:"fallbacks"`
	Failures   int `json:"failures"`
}

// ClassifyEdges classifies every eligible edge of the graph and returns the
// annotation table.
//
// An edge is eligible when both endpoints have a non-empty title; ineligible
// edges are skipped and therefore never rendered. A malformed classifier
// response produces a BACKGROUND fallback annotation whose reason cites the
// parse failure. A transport failure skips that one edge with a warning. The
// batch never aborts for a single edge; only context cancellation stops it.
func ClassifyEdges(ctx context.Context, g *graph.Graph, abstracts map[string]string, c Classifier) ([]Annotation, ClassifyStats, error) {
	titles := g.Titles()
	stats := ClassifyStats{Edges: len(g.Edges)}
	seen := mapset.NewSet[paper.Edge]()

	var anns []Annotation
	for i, e := range g.Edges {
		if !seen.Add(e) {
			continue
		}

		citingTitle := titles[e.CitingID]
		citedTitle := titles[e.CitedID]
		if citingTitle == "" || citedTitle == "" {
			stats.Skipped++
			continue
		}

		log.WithFields(log.Fields{
			"edge":   fmt.Sprintf("%d/%d", i+1, len(g.Edges)),
			"citing": e.CitingID,
			"cited":  e.CitedID,
		}).Info("classifying edge")

		cls, err := c.Classify(ctx, Request{
			CitingTitle:    citingTitle,
			CitingAbstract: abstracts[e.CitingID],
			CitedTitle:     citedTitle,
			CitedAbstract:  abstracts[e.CitedID],
		})

		switch {
		case err == nil:
			anns = append(anns, Annotation{
				CitingID:   e.CitingID,
				CitedID:    e.CitedID,
				Role:       cls.Role,
				Confidence: cls.Confidence,
				Reason:     cls.Reason,
			})
			stats.Classified++

		case errors.Is(err, ErrMalformedResponse):
			anns = append(anns, Annotation{
				CitingID:   e.CitingID,
				CitedID:    e.CitedID,
				Role:       RoleBackground,
				Confidence: FallbackConfidence,
				Reason:     fmt.Sprintf("could not parse classifier response: %v", err),
			})
			stats.Fallbacks++

		case ctx.Err() != nil:
			return anns, stats, ctx.Err()

		default:
			log.WithFields(log.Fields{"citing": e.CitingID, "cited": e.CitedID}).
				WithError(err).Warn("classification failed, skipping edge")
			stats.Failures++
		}
	}

	log.WithFields(log.Fields{
		"edges":      stats.Edges,
		"skipped":    stats.Skipped,
		"classified": stats.Classified,
		"fallbacks":  stats.Fallbacks,
		"failures":   stats.Failures,
	}).Info("edge classification complete")

	return anns, stats, nil
}
