package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/misiddons/bookdb/internal/library"
	"github.com/misiddons/bookdb/internal/providers"
)

func newRecommendCmd() *cobra.Command {
	var (
		author   string
		surprise bool
		count    int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest unowned books from authors you read",
		Long: `Searches Google Books for more work by an author and filters out
everything already in the Library or Wishlist. With --surprise the
authors are drawn at random from the Library instead.`,
		Example: `  # More by one author
  bookdb recommend --author "Frank Herbert"

  # One pick each from three random authors in the library
  bookdb recommend --surprise -n 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if surprise == (author != "") {
				return fmt.Errorf("exactly one of --author or --surprise is required")
			}

			ctx := cmd.Context()
			app, err := newApp(ctx)
			if err != nil {
				return err
			}

			owned, err := library.BuildOwnedIndex(ctx, app.library, app.wishlist)
			if err != nil {
				return err
			}

			recommender := library.NewRecommender(app.catalog, time.Now().UnixNano())
			var picks []providers.SearchResult
			if surprise {
				picks, err = recommender.Surprise(ctx, count, app.library, owned)
			} else {
				picks, err = recommender.ByAuthor(ctx, author, count, owned)
			}
			if err != nil {
				return err
			}

			if len(picks) == 0 {
				fmt.Println("No new books found")
				return nil
			}

			rows := make([][]string, 0, len(picks))
			for _, pick := range picks {
				rows = append(rows, []string{pick.Title, pick.Authors, pick.ISBN, pick.PublishedDate})
			}
			fmt.Println(renderTable([]string{"Title", "Author", "ISBN", "Published"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVarP(&author, "author", "a", "", "Recommend more books by this author")
	cmd.Flags().BoolVarP(&surprise, "surprise", "s", false, "Pick random authors from the library")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of recommendations")

	return cmd
}
