package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/misiddons/bookdb/internal/library"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics across both tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx)
			if err != nil {
				return err
			}

			stats, err := library.ComputeStats(ctx, app.library, app.wishlist)
			if err != nil {
				return err
			}

			fmt.Println(renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Library", strconv.Itoa(stats.LibraryCount)},
					{"Wishlist", strconv.Itoa(stats.WishlistCount)},
					{"Unique authors", strconv.Itoa(stats.UniqueAuthors)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))

			if len(stats.TopAuthors) > 0 {
				rows := make([][]string, 0, len(stats.TopAuthors))
				for _, a := range stats.TopAuthors {
					rows = append(rows, []string{a.Author, strconv.Itoa(a.Count)})
				}
				fmt.Println(renderTable(
					[]string{"Top authors", "Books"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
			}

			return nil
		},
	}
	return cmd
}
