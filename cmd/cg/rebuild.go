package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/store"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from the stage tables",
	Long: `Rebuild the SQLite query database from the CSV stage tables.

The CSV files are canonical; the database is ephemeral. Use this after
editing tables by hand or if the database becomes corrupted.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status      string `json:"status"`
	Papers      int    `json:"papers"`
	Edges       int    `json:"edges"`
	Annotations int    `json:"annotations"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	p := localPipeline()

	counts, err := p.Rebuild()
	if err != nil {
		if store.IsMissingArtifact(err) {
			exitWithError(ExitDataError, "%v\n\nRun 'cg merge' and 'cg scope' first.", err)
		}
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		outputHuman("Rebuilt query database with %d papers, %d edges, and %d annotations\n",
			counts.Papers, counts.Edges, counts.Annotations)
		return nil
	}
	return outputJSON(RebuildResult{
		Status:      "rebuilt",
		Papers:      counts.Papers,
		Edges:       counts.Edges,
		Annotations: counts.Annotations,
	})
}
