package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookdb",
		Short: "Personal book catalog with metadata reconciliation",
		Long: `Bookdb keeps a personal Library and Wishlist in a Google Sheets
spreadsheet (or local CSV files), filling in book metadata from the
Google Books and Open Library APIs.

Adding a book by ISBN fetches metadata from both providers, merges it
into one canonical record and appends it unless the book already exists
in either table. The audit command cross-checks stored rows against
freshly derived metadata and can repair accepted discrepancies in place.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newLookupCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAuditCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newRecommendCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}
