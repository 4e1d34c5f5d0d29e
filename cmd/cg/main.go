// Package main provides the cg CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matsen/citegraph/internal/config"
	"github.com/matsen/citegraph/internal/openalex"
	"github.com/matsen/citegraph/internal/pipeline"
	"github.com/matsen/citegraph/internal/roles"
	"github.com/matsen/citegraph/internal/scite"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// workDir is the workspace directory holding all pipeline artifacts
var workDir string

// verbose raises the log level to debug
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cg",
	Short: "Citation graph pipeline CLI",
	Long: `cg builds an annotated citation graph for a paper collection.

The pipeline runs in stages, each reading the previous stage's artifacts
from the workspace directory:

  extract   DOIs from a reference-manager export (or: pdfscan)
  fetch     OpenAlex work metadata per DOI
  tables    paper and raw citation-edge tables
  scope     edges restricted to collection citers
  tallies   scite.ai citation tallies per DOI
  merge     tallies joined onto the paper table
  graph     GraphML export of the assembled graph
  classify  LLM edge-role annotation (SUPPORT/DISPUTE/BACKGROUND/METHOD)
  render    interactive HTML of the annotated graph

Flat CSV files are the canonical artifacts, with an ephemeral SQLite
database for queries. All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&workDir, "dir", "out", "Workspace directory for pipeline artifacts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// mustLoadSettings loads global settings, exits on error.
func mustLoadSettings() *config.Settings {
	cfg, err := config.LoadSettings()
	if err != nil {
		exitWithError(ExitConfigError, "loading settings: %v", err)
	}
	return cfg
}

// newOpenAlexClient builds the OpenAlex client from settings.
func newOpenAlexClient(cfg *config.Settings) *openalex.Client {
	var opts []openalex.ClientOption
	if cfg.OpenAlexMailto != "" {
		opts = append(opts, openalex.WithMailto(cfg.OpenAlexMailto))
	}
	return openalex.NewClient(opts...)
}

// newSciteClient builds the scite client from settings.
func newSciteClient(cfg *config.Settings) *scite.Client {
	var opts []scite.ClientOption
	if cfg.SciteAPIKey != "" {
		opts = append(opts, scite.WithAPIKey(cfg.SciteAPIKey))
	}
	return scite.NewClient(opts...)
}

// mustNewClassifier builds the edge-role classifier, exits when no
// credential is available.
func mustNewClassifier(cfg *config.Settings) roles.Classifier {
	if cfg.OpenAIAPIKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage("openai_api_key", "OPENAI_API_KEY"))
		os.Exit(ExitConfigError)
	}

	var opts []roles.OpenAIOption
	if cfg.OpenAIAPIKey != "" {
		opts = append(opts, roles.WithAPIKey(cfg.OpenAIAPIKey))
	}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, roles.WithBaseURL(cfg.OpenAIBaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, roles.WithModel(cfg.Model))
	}
	return roles.NewOpenAIClassifier(opts...)
}

// newPipeline wires a pipeline over the workspace with all clients.
// Stages that never touch a remote service ignore the ones they don't use.
func newPipeline(cfg *config.Settings, classifier roles.Classifier) *pipeline.Pipeline {
	return pipeline.New(workDir, newOpenAlexClient(cfg), newSciteClient(cfg), classifier)
}

// localPipeline wires a pipeline for stages that only read and write
// workspace artifacts.
func localPipeline() *pipeline.Pipeline {
	return pipeline.New(workDir, nil, nil, nil)
}
