package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/icon"
	"github.com/nikbrunner/shelf/internal/model"
)

// indexFlag maps the --index flag to an insert position: negative appends.
func indexFlag(index int) int {
	if index < 0 {
		return math.MaxInt
	}
	return index
}

func newAddCmd(app *App) *cobra.Command {
	var (
		to, title, url, iconName string
		index                    int
		favorite                 bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a bookmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, url = strings.TrimSpace(title), strings.TrimSpace(url)
			if title == "" || url == "" {
				return fmt.Errorf("--title and --url must not be empty")
			}

			e, err := openEnv(app, envParams{icons: iconName == ""})
			if err != nil {
				return err
			}

			dest, err := resolveContainer(e.session.Snapshot(), to)
			if err != nil {
				_ = e.close()
				return err
			}
			item, err := e.session.AddBookmark(dest, indexFlag(index), model.NewBookmarkParams{
				Title:      title,
				URL:        url,
				Icon:       iconName,
				IsFavorite: favorite,
			})
			if err != nil {
				_ = e.close()
				return err
			}
			if err := e.finish(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", item.Title, shortID(item.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Column number, column ID or folder ID (default: first column)")
	cmd.Flags().IntVar(&index, "index", -1, "Position in the destination (default: append)")
	cmd.Flags().StringVar(&title, "title", "", "Bookmark title")
	cmd.Flags().StringVar(&url, "url", "", "Bookmark URL")
	cmd.Flags().StringVar(&iconName, "icon", "", "Icon class, e.g. \"fab fa-github\" (default: looked up from the URL)")
	cmd.Flags().BoolVar(&favorite, "fav", false, "Add to favorites")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newFolderCmd(app *App) *cobra.Command {
	var (
		to, title, color string
		index            int
	)

	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Add a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title, color = strings.TrimSpace(title), strings.TrimSpace(color)
			if title == "" {
				return fmt.Errorf("--title must not be empty")
			}
			if color != "" && !model.IsHexColor(color) {
				return fmt.Errorf("invalid color %q: want #rrggbb", color)
			}

			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			dest, err := resolveContainer(e.session.Snapshot(), to)
			if err != nil {
				return err
			}
			item, err := e.session.AddFolder(dest, indexFlag(index), model.NewFolderParams{Title: title, Color: color})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added folder %s (%s)\n", item.Title, shortID(item.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Column number, column ID or folder ID (default: first column)")
	cmd.Flags().IntVar(&index, "index", -1, "Position in the destination (default: append)")
	cmd.Flags().StringVar(&title, "title", "", "Folder name")
	cmd.Flags().StringVar(&color, "color", "", "Folder color as #rrggbb (default "+model.DefaultFolderColor+")")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	var (
		title, url, iconName, color string
		favorite, collapsed         bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a bookmark or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch model.ItemPatch
			if flags.Changed("title") {
				t := strings.TrimSpace(title)
				if t == "" {
					return fmt.Errorf("--title must not be empty")
				}
				patch.Title = &t
			}
			if flags.Changed("url") {
				patch.URL = &url
			}
			if flags.Changed("icon") {
				patch.Icon = &iconName
			}
			if flags.Changed("fav") {
				patch.IsFavorite = &favorite
			}
			if flags.Changed("color") {
				if !model.IsHexColor(color) {
					return fmt.Errorf("invalid color %q: want #rrggbb", color)
				}
				patch.Color = &color
			}
			if flags.Changed("collapsed") {
				patch.Collapsed = &collapsed
			}
			if patch == (model.ItemPatch{}) {
				return fmt.Errorf("nothing to change")
			}

			e, err := openEnv(app, envParams{icons: patch.URL != nil && patch.Icon == nil})
			if err != nil {
				return err
			}

			item, err := resolveItem(e.session.Snapshot(), args[0])
			if err != nil {
				_ = e.close()
				return err
			}
			if err := e.session.Update(item.ID, patch); err != nil {
				_ = e.close()
				return err
			}
			if err := e.finish(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", itemTitle(item, patch))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&url, "url", "", "New URL (bookmarks)")
	cmd.Flags().StringVar(&iconName, "icon", "", "New icon class (bookmarks)")
	cmd.Flags().BoolVar(&favorite, "fav", false, "Favorite flag (bookmarks)")
	cmd.Flags().StringVar(&color, "color", "", "New color as #rrggbb (folders)")
	cmd.Flags().BoolVar(&collapsed, "collapsed", false, "Collapsed flag (folders)")
	return cmd
}

func itemTitle(item *model.Item, patch model.ItemPatch) string {
	if patch.Title != nil {
		return *patch.Title
	}
	return item.Title
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete bookmarks or folders with everything in them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			for _, ref := range args {
				item, err := resolveItem(e.session.Snapshot(), ref)
				if err != nil {
					return err
				}
				if item.IsFolder() && len(item.Children) > 0 && !yes {
					return fmt.Errorf("folder %q is not empty; pass --yes to delete it with its contents", item.Title)
				}
				if _, err := e.session.Delete(item.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", item.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete non-empty folders without refusing")
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var (
		to, before, after string
		index             int
	)

	cmd := &cobra.Command{
		Use:   "mv <id>",
		Short: "Move a bookmark or folder with its contents",
		Long: strings.TrimSpace(`
Move an item into a column or folder (--to, optionally at --index), or next
to another item (--before / --after).`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var res model.MoveResult
			switch {
			case to != "":
				dest, err := resolveContainer(store, to)
				if err != nil {
					return err
				}
				res, err = e.session.Move(model.MoveRequest{ItemID: item.ID, DestinationID: dest, Index: indexFlag(index)})
				if err != nil {
					return err
				}
			default:
				anchorRef, offset := before, 0
				if after != "" {
					anchorRef, offset = after, 1
				}
				anchor, err := resolveItem(store, anchorRef)
				if err != nil {
					return err
				}
				loc, _ := store.Locate(anchor.ID)
				res, err = e.session.MoveToSlot(model.MoveRequest{ItemID: item.ID, DestinationID: loc.ContainerID, Index: loc.Index + offset})
				if err != nil {
					return err
				}
			}

			if !res.Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already there\n", item.Title)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s at %d\n", item.Title, containerLabel(e.session.Snapshot(), res.To.ContainerID), res.To.Index)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination column number, column ID or folder ID")
	cmd.Flags().IntVar(&index, "index", -1, "Final position in the destination (default: append)")
	cmd.Flags().StringVar(&before, "before", "", "Place the item right before this item")
	cmd.Flags().StringVar(&after, "after", "", "Place the item right after this item")
	cmd.MarkFlagsMutuallyExclusive("to", "before", "after")
	cmd.MarkFlagsOneRequired("to", "before", "after")
	return cmd
}

// containerLabel names a column by display position and a folder by title.
func containerLabel(store *model.Store, id string) string {
	for i, c := range store.OrderedColumns() {
		if c.ID == id {
			return fmt.Sprintf("column %d", i+1)
		}
	}
	if item, ok := store.FindByID(id); ok {
		return fmt.Sprintf("folder %q", item.Title)
	}
	return id
}

func newListCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "ls [column|folder]",
		Aliases: []string{"list"},
		Short:   "Print the bookmark tree",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			store := e.session.Snapshot()
			out := cmd.OutOrStdout()

			if asJSON {
				data, err := model.Encode(store)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			if len(args) == 1 {
				id, err := resolveContainer(store, args[0])
				if err != nil {
					return err
				}
				items, err := store.Children(id)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, containerLabel(store, id))
				printItems(out, items, 1)
				return nil
			}

			for i, c := range store.OrderedColumns() {
				fmt.Fprintf(out, "%d  %s  %s\n", i+1, shortID(c.ID), c.Width)
				printItems(out, c.Items, 1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the whole document as JSON")
	return cmd
}

func printItems(out io.Writer, items []model.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for k := range items {
		item := &items[k]
		if item.IsFolder() {
			marker := "▾"
			if item.Collapsed {
				marker = "▸"
			}
			fmt.Fprintf(out, "%s%s %s  [%s]\n", indent, marker, item.Title, shortID(item.ID))
			printItems(out, item.Children, depth+1)
			continue
		}

		star := ""
		if item.IsFavorite {
			star = " ★"
		}
		fmt.Fprintf(out, "%s· %s%s  %s  <%s>  [%s]\n", indent, item.Title, star, item.URL, iconLabel(item.Icon), shortID(item.ID))
	}
}

func iconLabel(value string) string {
	if icon.IsFavicon(value) {
		return "favicon"
	}
	return icon.Name(value)
}
