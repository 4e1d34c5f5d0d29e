package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/roles"
	"github.com/matsen/citegraph/internal/store"
)

func init() {
	rootCmd.AddCommand(classifyCmd)
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Annotate graph edges with citation roles via LLM",
	Long: `Classify the rhetorical role of every graph edge and write
edge_roles_llm.csv.

Each ordered citing/cited pair is classified once. Edges missing a
title on either side are skipped. A response the model returns in an
unparseable shape falls back to BACKGROUND with low confidence, so the
table still covers the edge.`,
	RunE: runClassify,
}

// ClassifyResult is the response for the classify command.
type ClassifyResult struct {
	Status string              `json:"status"`
	Stats  roles.ClassifyStats `json:"stats"`
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg := mustLoadSettings()
	p := newPipeline(cfg, mustNewClassifier(cfg))

	stats, err := p.Classify(cmd.Context())
	if err != nil {
		if store.IsMissingArtifact(err) {
			exitWithError(ExitDataError, "%v\n\nRun 'cg graph' first.", err)
		}
		exitWithError(ExitError, "classifying edges: %v", err)
	}

	if humanOutput {
		outputHuman("Classified %d of %d edges (%d fallbacks, %d skipped)\n",
			stats.Classified, stats.Edges, stats.Fallbacks, stats.Skipped)
		return nil
	}
	return outputJSON(ClassifyResult{Status: "classified", Stats: stats})
}
