package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/openalex"
	"github.com/matsen/citegraph/internal/store"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch OpenAlex work metadata for the DOI list",
	Long: `Fetch one OpenAlex work document per collection DOI.

Documents are cached under openalex_raw/ in the workspace; DOIs already
cached are skipped, so reruns only fetch what is missing. A DOI OpenAlex
has no work for is counted and skipped, never fatal.`,
	RunE: runFetch,
}

// FetchResult is the response for the fetch command.
type FetchResult struct {
	Status string              `json:"status"`
	Stats  openalex.FetchStats `json:"stats"`
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadSettings()
	p := newPipeline(cfg, nil)

	stats, err := p.Fetch(cmd.Context())
	if err != nil {
		if store.IsMissingArtifact(err) {
			exitWithError(ExitDataError, "%v\n\nRun 'cg extract' first.", err)
		}
		exitWithError(ExitError, "fetching works: %v", err)
	}

	if humanOutput {
		outputHuman("Fetched %d works (%d cached, %d not found, %d errors)\n",
			stats.Fetched, stats.Cached, stats.NotFound, stats.Errors)
		return nil
	}
	return outputJSON(FetchResult{Status: "fetched", Stats: stats})
}
