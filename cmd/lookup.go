package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misiddons/bookdb/internal/library"
	"github.com/misiddons/bookdb/internal/models"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <isbn>",
		Short: "Preview merged metadata for an ISBN without storing it",
		Example: `  bookdb lookup 9780441172719
  bookdb lookup 978-0-441-17271-9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No table access needed; talk to the providers directly.
			catalog := library.NewCatalog()

			record := catalog.Lookup(cmd.Context(), args[0])
			if record.IsEmpty() {
				return fmt.Errorf("no metadata found for %q", args[0])
			}

			rows := make([][]string, 0, len(models.Columns))
			for _, col := range models.Columns {
				if value := record.Field(col); value != "" {
					rows = append(rows, []string{col, value})
				}
			}
			fmt.Println(renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
	return cmd
}

func newListCmd() *cobra.Command {
	var tableName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the rows of a table",
		Example: `  bookdb list
  bookdb list --table Wishlist`,
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

			stored, err := table.ReadAll(ctx)
			if err != nil {
				return err
			}
			if len(stored) == 0 {
				fmt.Printf("%s is empty\n", table.Name())
				return nil
			}

			rows := make([][]string, 0, len(stored))
			for i, row := range stored {
				rows = append(rows, []string{
					fmt.Sprint(i + 1),
					row["ISBN"],
					row["Title"],
					row["Author"],
					row["Rating"],
				})
			}
			fmt.Println(renderTable(
				[]string{"Row", "ISBN", "Title", "Author", "Rating"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tableName, "table", "t", "Library", "Table to list (Library or Wishlist)")
	return cmd
}
