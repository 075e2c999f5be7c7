package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"search-orchestrator/bootstrap"
)

var importCmd = &cobra.Command{
	Use:   "import <query>",
	Short: "Import web results for a query",
	Long: `Fetch results for query from SearXNG, index them into the web index and
print the imported result page as JSON.

Examples:
  search-orchestrator import "quantum computing"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()
	return bootstrap.RunImport(ctx, strings.Join(args, " "), cmd.OutOrStdout())
}
