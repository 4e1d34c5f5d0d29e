package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/pdfscan"
	"github.com/matsen/citegraph/internal/store"
)

func init() {
	rootCmd.AddCommand(pdfscanCmd)
}

var pdfscanCmd = &cobra.Command{
	Use:   "pdfscan <pdf-directory>",
	Short: "Extract collection DOIs from a directory of PDFs",
	Long: `Scan every PDF in a directory for a DOI and write the workspace
DOI list, as an alternative to 'cg extract' when no reference-manager
export is available.

The opening pages of each file are searched. PDFs without a detectable
DOI are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runPdfscan,
}

// PdfscanResult is the response for the pdfscan command.
type PdfscanResult struct {
	Status     string `json:"status"`
	Files      int    `json:"files"`
	DOIs       int    `json:"dois"`
	WithoutDOI int    `json:"without_doi"`
	Errors     int    `json:"errors"`
	Path       string `json:"path"`
}

func runPdfscan(cmd *cobra.Command, args []string) error {
	p := localPipeline()
	if err := p.Layout.EnsureDirs(); err != nil {
		exitWithError(ExitError, "preparing workspace: %v", err)
	}

	dois, stats, err := pdfscan.ScanDir(args[0])
	if err != nil {
		exitWithError(ExitDataError, "scanning PDFs: %v", err)
	}
	if err := store.WriteDOIList(p.Layout.DOIList(), dois); err != nil {
		exitWithError(ExitError, "writing DOI list: %v", err)
	}

	if humanOutput {
		outputHuman("Scanned %d PDFs: %d DOIs (%d without, %d unreadable)\n",
			stats.Files, len(dois), stats.WithoutDOI, stats.Errors)
		return nil
	}
	return outputJSON(PdfscanResult{
		Status:     "scanned",
		Files:      stats.Files,
		DOIs:       len(dois),
		WithoutDOI: stats.WithoutDOI,
		Errors:     stats.Errors,
		Path:       p.Layout.DOIList(),
	})
}
