package cmd

import (
	"github.com/spf13/cobra"

	"search-orchestrator/bootstrap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bulk-load movie and book documents",
	Long: `Load JSON arrays of movies and books into their indexes, then apply the
index attribute settings and register Japanese genre synonyms.

Examples:
  search-orchestrator seed --movies data/movies.json --books data/books.json
  SEED_MOVIES_FILE=data/movies.json search-orchestrator seed`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().String("movies", "", "movies JSON file (default $SEED_MOVIES_FILE)")
	seedCmd.Flags().String("books", "", "books JSON file (default $SEED_BOOKS_FILE)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	movies, _ := cmd.Flags().GetString("movies")
	books, _ := cmd.Flags().GetString("books")

	ctx, stop := signalContext(cmd.Context())
	defer stop()
	return bootstrap.RunSeed(ctx, movies, books)
}
