package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/scite"
	"github.com/matsen/citegraph/internal/store"
)

func init() {
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Join scite tallies onto the paper table",
	Long: `Write papers_with_scite.csv by left-joining the tally table onto
the paper table via canonical DOI.

Every paper gets a row: papers without a matching tally (or without a
DOI at all) carry zeros in every scite column.`,
	RunE: runMerge,
}

// MergeResult is the response for the merge command.
type MergeResult struct {
	Status string           `json:"status"`
	Stats  scite.MergeStats `json:"stats"`
}

func runMerge(cmd *cobra.Command, args []string) error {
	p := localPipeline()

	stats, err := p.MergeTallies()
	if err != nil {
		if store.IsMissingArtifact(err) {
			exitWithError(ExitDataError, "%v\n\nRun 'cg tables' and 'cg tallies' first.", err)
		}
		exitWithError(ExitDataError, "merging tallies: %v", err)
	}

	if humanOutput {
		outputHuman("Merged tallies: %d papers, %d matched, %d zero-filled\n",
			stats.Papers, stats.Matched, stats.ZeroFilled)
		return nil
	}
	return outputJSON(MergeResult{Status: "merged", Stats: stats})
}
