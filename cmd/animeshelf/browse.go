package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joestump/animeshelf/internal/catalog"
	"github.com/joestump/animeshelf/internal/favourites"
)

func newBrowseCmd() *cobra.Command {
	var (
		pages int
		query string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Fetch catalog pages and print the merged list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}
			ctx := cmd.Context()
			a, _, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a)

			if err := a.Feed.Refresh(ctx); err != nil {
				return err
			}
			for i := 1; i < pages; i++ {
				if err := a.Feed.LoadMore(ctx); err != nil {
					return err
				}
			}

			items := a.Feed.Search(query)
			printItems(cmd.OutOrStdout(), items, a.Favourites)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d items, page %d\n", len(items), len(a.Feed.Items()), a.Feed.State().CurrentPage)
			return nil
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of pages to load")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive title filter")
	return cmd
}

func printItems(out io.Writer, items []catalog.Item, favs *favourites.Store) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAV\tID\tTITLE")
	for _, it := range items {
		mark := ""
		if favs.IsFavourite(it.ID) {
			mark = "*"
		}
		title := it.Title
		if it.TitleEnglish != "" && it.TitleEnglish != it.Title {
			title = fmt.Sprintf("%s (%s)", it.Title, it.TitleEnglish)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", mark, it.ID, title)
	}
	tw.Flush()
}
