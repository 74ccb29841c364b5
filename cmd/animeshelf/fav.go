package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joestump/animeshelf/internal/app"
	"github.com/joestump/animeshelf/internal/catalog"
)

func newFavCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "List or toggle favourites",
	}
	cmd.AddCommand(newFavListCmd())
	cmd.AddCommand(newFavToggleCmd())
	return cmd
}

func newFavListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print favourites in the order they were added",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			printItems(cmd.OutOrStdout(), a.Favourites.List(), a.Favourites)
			return nil
		},
	}
}

func newFavToggleCmd() *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add or remove a favourite by catalog id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			a, _, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeApp(a)

			item, err := findItem(cmd, a, id, pages)
			if err != nil {
				return err
			}

			a.Favourites.Toggle(item)
			state := "removed from"
			if a.Favourites.IsFavourite(id) {
				state = "added to"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s favourites (%d total)\n", item.Title, state, a.Favourites.Len())
			return nil
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 3, "catalog pages to search for the id")
	return cmd
}

// findItem looks in the favourites first, then pages through the catalog.
func findItem(cmd *cobra.Command, a *app.App, id, pages int) (catalog.Item, error) {
	for _, it := range a.Favourites.List() {
		if it.ID == id {
			return it, nil
		}
	}

	ctx := cmd.Context()
	if err := a.Feed.Refresh(ctx); err != nil {
		return catalog.Item{}, err
	}
	for i := 1; ; i++ {
		if it, ok := a.Feed.Item(id); ok {
			return it, nil
		}
		if i >= pages {
			break
		}
		if err := a.Feed.LoadMore(ctx); err != nil {
			return catalog.Item{}, err
		}
	}
	return catalog.Item{}, fmt.Errorf("id %d not found in the first %d catalog pages", id, pages)
}
