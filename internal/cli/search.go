package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/model"
	"github.com/nikbrunner/shelf/internal/picker"
	"github.com/nikbrunner/shelf/internal/search"
	"github.com/nikbrunner/shelf/internal/tui"
)

func newSearchCmd(app *App) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Fuzzy search bookmarks and open the chosen one",
		Long: strings.TrimSpace(`
Search bookmark titles and URLs. A single match opens right away; several
matches open a picker to refine the query. "shelf <query>" is a shortcut.`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			store := e.session.Snapshot()
			if err := e.close(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			results := search.Bookmarks(store, query)
			if len(results) == 0 {
				fmt.Fprintf(out, "No bookmarks found for '%s'\n", query)
				return nil
			}

			if list {
				for _, r := range results {
					fmt.Fprintf(out, "%s  %s  [%s]\n", r.Item.Title, r.Item.URL, shortID(r.Item.ID))
				}
				return nil
			}

			var selected *model.Item
			if len(results) == 1 {
				selected = results[0].Item
			} else {
				final, err := tea.NewProgram(picker.New(store, query)).Run()
				if err != nil {
					return fmt.Errorf("running picker: %w", err)
				}
				p := final.(picker.Picker)
				if p.Cancelled() {
					return nil
				}
				selected = p.Selected()
			}
			if selected == nil {
				return nil
			}

			fmt.Fprintf(out, "Opening: %s\n", selected.Title)
			open := app.openURL
			if open == nil {
				open = tui.OpenURL
			}
			return open(selected.URL)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "Print every match instead of opening one")
	return cmd
}

// valueFlags are the persistent flags that take a separate value.
var valueFlags = map[string]bool{
	"--config": true,
}

// RewriteQuickSearch turns "shelf <query>" into "shelf search <query>" when
// the first positional argument is not a command name. args excludes the
// program name.
func RewriteQuickSearch(root *cobra.Command, args []string) []string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return args
		}
		if strings.HasPrefix(a, "-") {
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isCommandName(root, a) {
			return args
		}
		out := make([]string, 0, len(args)+1)
		out = append(out, args[:i]...)
		out = append(out, "search")
		return append(out, args[i:]...)
	}
	return args
}

func isCommandName(root *cobra.Command, name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}
