// Package cmd contains the CLI commands of search-orchestrator
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"search-orchestrator/bootstrap"
)

// rootCmd runs the API server when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "search-orchestrator",
	Short: "Faceted search over movies, books and imported web pages",
	Long: `search-orchestrator serves faceted search over the movies, books and web
indexes of a Meilisearch instance, and imports web pages from SearXNG on demand.

Example usage:
  search-orchestrator                          # Start the API server
  search-orchestrator seed --movies m.json     # Bulk-load seed documents
  search-orchestrator import "quantum computing"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()
	return bootstrap.Run(ctx)
}
