package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/store"
	"github.com/matsen/citegraph/internal/viz"
)

var renderLayout string

func init() {
	renderCmd.Flags().StringVar(&renderLayout, "layout", "force", "Graph layout: force, circle, or grid")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the annotated graph as interactive HTML",
	Long: `Write citation_graph_edge_roles.html, an interactive view of the
annotated citation graph.

Edges are colored by citation role. The annotation table is the sole
edge filter: structural edges without an annotation are not drawn.`,
	RunE: runRender,
}

// RenderResult is the response for the render command.
type RenderResult struct {
	Status string `json:"status"`
	Edges  int    `json:"edges"`
	Path   string `json:"path"`
}

func runRender(cmd *cobra.Command, args []string) error {
	p := localPipeline()

	edges, err := p.Render(viz.HTMLOptions{Layout: renderLayout})
	if err != nil {
		if store.IsMissingArtifact(err) {
			exitWithError(ExitDataError, "%v\n\nRun 'cg classify' first.", err)
		}
		exitWithError(ExitDataError, "rendering graph: %v", err)
	}

	if humanOutput {
		outputHuman("Rendered %d annotated edges -> %s\n", edges, p.Layout.HTML())
		return nil
	}
	return outputJSON(RenderResult{Status: "rendered", Edges: edges, Path: p.Layout.HTML()})
}
