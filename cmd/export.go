package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/misiddons/bookdb/internal/export"
)

func newExportCmd() *cobra.Command {
	var (
		tableName  string
		format     string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Snapshot a table to a Parquet or JSONL file",
		Example: `  # Library to Parquet
  bookdb export --format parquet

  # Wishlist to JSONL at an explicit path
  bookdb export --table Wishlist --format jsonl --output wishlist.jsonl`,
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

			format = strings.ToLower(format)
			switch format {
			case "parquet", "jsonl":
			default:
				return fmt.Errorf("unknown format %q (expected parquet or jsonl)", format)
			}

			path := outputPath
			if path == "" {
				path = strings.ToLower(table.Name()) + "." + format
			}
			if !strings.HasSuffix(strings.ToLower(path), "."+format) {
				return fmt.Errorf("output path %s does not match format %s", path, format)
			}

			if err := export.Write(ctx, table, path); err != nil {
				return err
			}
			fmt.Printf("Exported %s to %s\n", table.Name(), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tableName, "table", "t", "Library", "Table to export (Library or Wishlist)")
	cmd.Flags().StringVarP(&format, "format", "f", "parquet", "Output format (parquet or jsonl)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default <table>.<format>)")

	return cmd
}
