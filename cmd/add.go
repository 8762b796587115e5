package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/misiddons/bookdb/internal/isbn"
	"github.com/misiddons/bookdb/internal/library"
)

func newAddCmd() *cobra.Command {
	var (
		tableName string
		title     string
		author    string
		dateRead  string
	)

	cmd := &cobra.Command{
		Use:   "add <isbn>...",
		Short: "Look up one or more ISBNs and add them to a table",
		Long: `Fetches metadata for each ISBN from Google Books and Open Library,
merges it into one canonical record and appends it to the chosen table
unless the book already exists in the Library or the Wishlist.

When neither provider knows the ISBN, --title and --author provide a
manual fallback record (single ISBN only).`,
		Example: `  # Add a book to the library
  bookdb add 9780441172719

  # Add to the wishlist, hyphens and quotes are fine
  bookdb add --table Wishlist 978-0-441-17271-9

  # Record when you read it
  bookdb add 9780441172719 --date-read 2026/08/30

  # Manual entry for a book no provider knows
  bookdb add 9999999999999 --title "Obscure Zine" --author "A. Nobody"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx)
			if err != nil {
				return err
			}
			table, err := app.tableByName(tableName)
			if err != nil {
				return err
			}
			if len(args) > 1 && (title != "" || author != "") {
				return fmt.Errorf("--title/--author apply to a single ISBN, got %d", len(args))
			}

			for _, rawISBN := range args {
				key := isbn.Normalize(rawISBN)
				if key == "" {
					return fmt.Errorf("no digits in ISBN %q", rawISBN)
				}
				if !isbn.Valid(key) {
					slog.Warn("ISBN check digit does not validate, continuing anyway", "isbn", key)
				}

				record := app.catalog.Lookup(ctx, key)
				if record.IsEmpty() {
					record.Title = title
					record.Author = author
					if record.IsEmpty() {
						return fmt.Errorf("no metadata found for %s; retry with --title and --author for manual entry", key)
					}
				}
				if dateRead != "" {
					record.DateRead = dateRead
				}

				outcome, err := library.AppendIfNew(ctx, table, record, app.sibling(table))
				if err != nil {
					return err
				}
				fmt.Printf("%s  %s by %s: %s\n", key, record.Title, record.Author, outcome)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tableName, "table", "t", "Library", "Target table (Library or Wishlist)")
	cmd.Flags().StringVar(&title, "title", "", "Manual title when no provider knows the ISBN")
	cmd.Flags().StringVar(&author, "author", "", "Manual author when no provider knows the ISBN")
	cmd.Flags().StringVar(&dateRead, "date-read", "", "Date read as YYYY/MM/DD (Library only)")

	return cmd
}
