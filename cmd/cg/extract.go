package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <export.json>",
	Short: "Extract collection DOIs from a reference-manager export",
	Long: `Extract DOIs from a Zotero JSON export into the workspace DOI list.

DOIs are canonicalized (lowercased, resolver prefixes stripped),
deduplicated, and written sorted, one per line. Items without a usable
DOI are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// ExtractResult is the response for the extract command.
type ExtractResult struct {
	Status string `json:"status"`
	DOIs   int    `json:"dois"`
	Path   string `json:"path"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	p := localPipeline()

	count, err := p.Extract(args[0])
	if err != nil {
		exitWithError(ExitDataError, "extracting DOIs: %v", err)
	}

	if humanOutput {
		outputHuman("Extracted %d DOIs to %s\n", count, p.Layout.DOIList())
		return nil
	}
	return outputJSON(ExtractResult{Status: "extracted", DOIs: count, Path: p.Layout.DOIList()})
}
