package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run <export.json>",
	Short: "Run the full pipeline from export to rendered HTML",
	Long: `Run every stage in order: extract, fetch, tables, scope, tallies,
merge, graph, classify, render.

Stages reuse cached artifacts where they can, so rerunning after a
partial failure only repeats the missing work.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := mustLoadSettings()
	p := newPipeline(cfg, mustNewClassifier(cfg))

	if err := p.Run(cmd.Context(), args[0]); err != nil {
		exitWithError(ExitError, "running pipeline: %v", err)
	}

	if humanOutput {
		outputHuman("Pipeline complete: %s\n", p.Layout.HTML())
		return nil
	}
	return outputJSON(StatusResponse{Status: "complete", Path: p.Layout.HTML()})
}
