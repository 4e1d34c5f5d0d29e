package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/store"
)

func init() {
	rootCmd.AddCommand(scopeCmd)
}

var scopeCmd = &cobra.Command{
	Use:   "scope",
	Short: "Filter raw edges to those cited by the collection",
	Long: `Write citation_edges_collection.csv, keeping only raw edges whose
citing work belongs to the collection.

Only the citing side is checked here; edges pointing at works outside
the corpus are dropped later, at graph assembly.`,
	RunE: runScope,
}

// ScopeResult is the response for the scope command.
type ScopeResult struct {
	Status string `json:"status"`
	Edges  int    `json:"edges"`
}

func runScope(cmd *cobra.Command, args []string) error {
	p := localPipeline()

	count, err := p.Scope()
	if err != nil {
		if store.IsMissingArtifact(err) {
			exitWithError(ExitDataError, "%v\n\nRun 'cg tables' first.", err)
		}
		exitWithError(ExitDataError, "scoping edges: %v", err)
	}

	if humanOutput {
		outputHuman("Scoped to %d collection edges\n", count)
		return nil
	}
	return outputJSON(ScopeResult{Status: "scoped", Edges: count})
}
