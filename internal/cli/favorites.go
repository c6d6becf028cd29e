package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/model"
)

func newFavCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Favorites commands (lists favorites without a subcommand)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFavorites(cmd, app)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List favorites in bar order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFavorites(cmd, app)
		},
	})
	cmd.AddCommand(newFavToggleCmd(app))
	cmd.AddCommand(newFavMoveCmd(app))
	return cmd
}

func listFavorites(cmd *cobra.Command, app *App) error {
	e, err := openEnv(app, envParams{})
	if err != nil {
		return err
	}
	defer e.close()

	favorites := e.session.Snapshot().FavoriteItems()
	if len(favorites) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No favorites")
		return nil
	}
	for i, item := range favorites {
		fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s  [%s]\n", i+1, item.Title, item.URL, shortID(item.ID))
	}
	return nil
}

func newFavToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a bookmark to favorites or remove it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			item, err := resolveItem(e.session.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := e.session.ToggleFavorite(item.ID); err != nil {
				return err
			}
			if item.IsFavorite {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from favorites\n", item.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to favorites\n", item.Title)
			}
			return nil
		},
	}
}

func newFavMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <position>",
		Short: "Move a favorite to a 1-based position in the bar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 {
				return fmt.Errorf("invalid position %q", args[1])
			}

			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			store := e.session.Snapshot()
			item, err := resolveItem(store, args[0])
			if err != nil {
				return err
			}
			from := slices.Index(store.FavoritesOrder, item.ID)
			if from < 0 {
				return fmt.Errorf("%w: %s is not a favorite", model.ErrInvariantViolation, item.Title)
			}

			order := slices.Delete(slices.Clone(store.FavoritesOrder), from, from+1)
			order = slices.Insert(order, min(pos-1, len(order)), item.ID)
			if err := e.session.ReorderFavorites(order); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to favorite %d\n", item.Title, min(pos, len(order)))
			return nil
		},
	}
}
