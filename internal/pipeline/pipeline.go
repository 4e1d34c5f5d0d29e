// Package pipeline orchestrates the citation-graph stages. Each stage
// reads the previous stage's artifacts through the workspace layout and
// writes its own, so stages can be run one at a time or end to end.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/matsen/citegraph/internal/config"
	"github.com/matsen/citegraph/internal/graph"
	"github.com/matsen/citegraph/internal/openalex"
	"github.com/matsen/citegraph/internal/roles"
	"github.com/matsen/citegraph/internal/scite"
	"github.com/matsen/citegraph/internal/store"
	"github.com/matsen/citegraph/internal/viz"
	"github.com/matsen/citegraph/internal/zotero"
)

// Pipeline wires the stage implementations to a workspace. Clients are
// injected so tests can point them at fakes.
type Pipeline struct {
	Layout     config.Layout
	OpenAlex   *openalex.Client
	Scite      *scite.Client
	Classifier roles.Classifier
}

// New returns a Pipeline over the workspace at dir using the given clients.
func New(dir string, oa *openalex.Client, sc *scite.Client, cl roles.Classifier) *Pipeline {
	return &Pipeline{
		Layout:     config.NewLayout(dir),
		OpenAlex:   oa,
		Scite:      sc,
		Classifier: cl,
	}
}

// Extract reads a reference-manager export and writes the canonical DOI list.
func (p *Pipeline) Extract(exportPath string) (int, error) {
	if err := p.Layout.EnsureDirs(); err != nil {
		return 0, err
	}

	dois, err := zotero.ExtractFile(exportPath)
	if err != nil {
		return 0, err
	}
	if err := store.WriteDOIList(p.Layout.DOIList(), dois); err != nil {
		return 0, err
	}

	logrus.WithField("dois", len(dois)).Info("extracted collection DOIs")
	return len(dois), nil
}

// Fetch downloads OpenAlex work documents for the DOI list, skipping
// DOIs already cached in the workspace.
func (p *Pipeline) Fetch(ctx context.Context) (openalex.FetchStats, error) {
	var stats openalex.FetchStats

	dois, err := store.ReadDOIList(p.Layout.DOIList())
	if err != nil {
		return stats, err
	}
	if err := p.Layout.EnsureDirs(); err != nil {
		return stats, err
	}

	stats, err = p.OpenAlex.FetchWorks(ctx, dois, p.Layout.OpenAlexRaw())
	if err != nil {
		return stats, err
	}

	logrus.WithFields(logrus.Fields{
		"requested": stats.Requested,
		"fetched":   stats.Fetched,
		"cached":    stats.Cached,
		"not_found": stats.NotFound,
		"errors":    stats.Errors,
	}).Info("fetched OpenAlex works")
	return stats, nil
}

// Tables derives the paper table and the raw edge table from the cached
// OpenAlex responses.
func (p *Pipeline) Tables() (openalex.TableStats, error) {
	papers, edges, stats, err := openalex.BuildTables(p.Layout.OpenAlexRaw())
	if err != nil {
		return stats, err
	}

	if err := store.WritePapers(p.Layout.Papers(), papers); err != nil {
		return stats, err
	}
	if err := store.WriteEdges(p.Layout.RawEdges(), edges); err != nil {
		return stats, err
	}

	logrus.WithFields(logrus.Fields{
		"papers":    stats.Papers,
		"raw_edges": stats.RawEdges,
	}).Info("built stage tables")
	return stats, nil
}

// Scope filters the raw edges to those whose citing work is in the
// collection and writes the scoped edge table.
func (p *Pipeline) Scope() (int, error) {
	papers, err := store.ReadPapers(p.Layout.Papers())
	if err != nil {
		return 0, err
	}
	raw, err := store.ReadEdges(p.Layout.RawEdges())
	if err != nil {
		return 0, err
	}

	scoped := graph.ScopeEdges(papers, raw)
	if err := store.WriteEdges(p.Layout.ScopedEdges(), scoped); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"raw":    len(raw),
		"scoped": len(scoped),
	}).Info("scoped citation edges")
	return len(scoped), nil
}

// Tallies fetches scite tallies for the DOI list and writes both the raw
// JSON artifact and the flattened tally table.
func (p *Pipeline) Tallies(ctx context.Context) (int, error) {
	dois, err := store.ReadDOIList(p.Layout.DOIList())
	if err != nil {
		return 0, err
	}
	if err := p.Layout.EnsureDirs(); err != nil {
		return 0, err
	}

	tallies, err := p.Scite.FetchAll(ctx, dois, p.Layout.TalliesJSON())
	if err != nil {
		return 0, err
	}

	records := scite.Table(tallies)
	if err := store.WriteTallyTable(p.Layout.TallyTable(), records); err != nil {
		return 0, err
	}

	logrus.WithField("tallies", len(records)).Info("wrote scite tally table")
	return len(records), nil
}

// MergeTallies left-joins the tally table onto the paper table and
// writes the enriched paper table. Papers without a tally get zeros.
func (p *Pipeline) MergeTallies() (scite.MergeStats, error) {
	var stats scite.MergeStats

	papers, err := store.ReadPapers(p.Layout.Papers())
	if err != nil {
		return stats, err
	}
	records, err := store.ReadTallyTable(p.Layout.TallyTable())
	if err != nil {
		return stats, err
	}

	stats = scite.Merge(papers, records)
	if err := store.WriteEnrichedPapers(p.Layout.EnrichedPapers(), papers); err != nil {
		return stats, err
	}

	logrus.WithFields(logrus.Fields{
		"papers":      stats.Papers,
		"matched":     stats.Matched,
		"zero_filled": stats.ZeroFilled,
	}).Info("merged scite tallies")
	return stats, nil
}

// assemble loads the enriched papers and scoped edges and builds the graph.
func (p *Pipeline) assemble() (*graph.Graph, graph.AssembleStats, error) {
	papers, err := store.ReadEnrichedPapers(p.Layout.EnrichedPapers())
	if err != nil {
		return nil, graph.AssembleStats{}, err
	}
	scoped, err := store.ReadEdges(p.Layout.ScopedEdges())
	if err != nil {
		return nil, graph.AssembleStats{}, err
	}

	g, stats := graph.Assemble(papers, scoped)
	return g, stats, nil
}

// Graph assembles the citation graph and writes the GraphML export.
func (p *Pipeline) Graph() (graph.AssembleStats, error) {
	g, stats, err := p.assemble()
	if err != nil {
		return stats, err
	}

	if err := graph.WriteGraphMLFile(p.Layout.GraphML(), g); err != nil {
		return stats, err
	}

	logrus.WithFields(logrus.Fields{
		"nodes": stats.Nodes,
		"edges": stats.AddedEdges,
	}).Info("wrote GraphML export")
	return stats, nil
}

// Classify annotates every eligible graph edge with a citation role and
// writes the annotation table.
func (p *Pipeline) Classify(ctx context.Context) (roles.ClassifyStats, error) {
	var stats roles.ClassifyStats

	g, _, err := p.assemble()
	if err != nil {
		return stats, err
	}
	abstracts, err := openalex.LoadAbstracts(p.Layout.OpenAlexRaw())
	if err != nil {
		return stats, err
	}

	anns, stats, err := roles.ClassifyEdges(ctx, g, abstracts, p.Classifier)
	if err != nil {
		return stats, err
	}
	if err := store.WriteAnnotations(p.Layout.Annotations(), anns); err != nil {
		return stats, err
	}

	logrus.WithFields(logrus.Fields{
		"edges":      stats.Edges,
		"classified": stats.Classified,
		"fallbacks":  stats.Fallbacks,
		"skipped":    stats.Skipped,
	}).Info("classified edge roles")
	return stats, nil
}

// Render writes the interactive HTML visualization. Only edges present
// in the annotation table are drawn.
func (p *Pipeline) Render(opts viz.HTMLOptions) (int, error) {
	g, _, err := p.assemble()
	if err != nil {
		return 0, err
	}
	anns, err := store.ReadAnnotations(p.Layout.Annotations())
	if err != nil {
		return 0, err
	}

	data := viz.BuildGraphData(g, anns)
	html, err := viz.GenerateHTML(data, opts)
	if err != nil {
		return 0, err
	}
	if err := writeFile(p.Layout.HTML(), html); err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"nodes": len(data.Nodes),
		"edges": len(data.Edges),
	}).Info("rendered visualization")
	return len(data.Edges), nil
}

// Rebuild recreates the SQLite query cache from the stage tables.
func (p *Pipeline) Rebuild() (store.RebuildCounts, error) {
	var counts store.RebuildCounts

	db, err := store.OpenDB(p.Layout.DB())
	if err != nil {
		return counts, err
	}
	defer db.Close()

	counts, err = db.RebuildFromTables(p.Layout.EnrichedPapers(), p.Layout.ScopedEdges(), p.Layout.Annotations())
	if err != nil {
		return counts, err
	}

	logrus.WithFields(logrus.Fields{
		"papers":      counts.Papers,
		"edges":       counts.Edges,
		"annotations": counts.Annotations,
	}).Info("rebuilt query cache")
	return counts, nil
}

// Stats rebuilds the query cache and reports summary counts.
func (p *Pipeline) Stats() (store.Stats, error) {
	var stats store.Stats

	db, err := store.OpenDB(p.Layout.DB())
	if err != nil {
		return stats, err
	}
	defer db.Close()

	if _, err := db.RebuildFromTables(p.Layout.EnrichedPapers(), p.Layout.ScopedEdges(), p.Layout.Annotations()); err != nil {
		return stats, err
	}
	return db.Stats()
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Run executes every stage in order, from export to rendered HTML.
func (p *Pipeline) Run(ctx context.Context, exportPath string) error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"extract", func() error { _, err := p.Extract(exportPath); return err }},
		{"fetch", func() error { _, err := p.Fetch(ctx); return err }},
		{"tables", func() error { _, err := p.Tables(); return err }},
		{"scope", func() error { _, err := p.Scope(); return err }},
		{"tallies", func() error { _, err := p.Tallies(ctx); return err }},
		{"merge", func() error { _, err := p.MergeTallies(); return err }},
		{"graph", func() error { _, err := p.Graph(); return err }},
		{"classify", func() error { _, err := p.Classify(ctx); return err }},
		{"render", func() error { _, err := p.Render(viz.DefaultOptions()); return err }},
	}

	for _, step := range steps {
		logrus.WithField("step", step.name).Info("running pipeline step")
		if err := step.fn(); err != nil {
			return fmt.Errorf("step %s: %w", step.name, err)
		}
	}
	return nil
}
