package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/store"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the assembled citation graph",
	Long: `Rebuild the query database and report paper, edge, and annotation
counts, including how many edges are renderable and the role breakdown.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	p := localPipeline()

	stats, err := p.Stats()
	if err != nil {
		if store.IsMissingArtifact(err) {
			exitWithError(ExitDataError, "%v\n\nRun 'cg merge' and 'cg scope' first.", err)
		}
		exitWithError(ExitDataError, "computing stats: %v", err)
	}

	if humanOutput {
		outputHuman("Papers: %d\nEdges: %d\nAnnotations: %d\nRenderable edges: %d\n",
			stats.Papers, stats.Edges, stats.Annotations, stats.RenderableEdges)
		for role, n := range stats.RoleCounts {
			outputHuman("  %s: %d\n", role, n)
		}
		return nil
	}
	return outputJSON(stats)
}
