package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/exporter"
	"github.com/nikbrunner/shelf/internal/model"
)

// formatFor picks the format from an explicit flag value, else from the file
// extension, else fallback.
func formatFor(flag, path string, fallback exporter.Format) (exporter.Format, error) {
	switch strings.ToLower(flag) {
	case "":
	case string(exporter.FormatJSON):
		return exporter.FormatJSON, nil
	case string(exporter.FormatHTML), "htm":
		return exporter.FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or html)", flag)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return exporter.FormatJSON, nil
	case ".html", ".htm":
		return exporter.FormatHTML, nil
	}
	return fallback, nil
}

func countItems(items []model.Item) (bookmarks, folders int) {
	for k := range items {
		if items[k].IsFolder() {
			folders++
			b, f := countItems(items[k].Children)
			bookmarks += b
			folders += f
		} else {
			bookmarks++
		}
	}
	return bookmarks, folders
}

func newImportCmd(app *App) *cobra.Command {
	var (
		format string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import browser bookmark HTML as a new column, or restore a JSON export",
		Long: strings.TrimSpace(`
HTML files (Netscape bookmark format, as exported by browsers) are added as a
new column. JSON files are documents written by "shelf export" and replace
all current bookmarks, so they need --yes.`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := formatFor(format, path, exporter.FormatHTML)
			if err != nil {
				return err
			}
			if f == exporter.FormatJSON && !yes {
				return fmt.Errorf("importing %s replaces all bookmarks; pass --yes to continue", filepath.Base(path))
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()

			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			out := cmd.OutOrStdout()
			if f == exporter.FormatJSON {
				if err := e.session.ImportJSON(file); err != nil {
					return err
				}
				store := e.session.Snapshot()
				b, fo := store.Count()
				fmt.Fprintf(out, "Replaced bookmarks: %d bookmarks, %d folders in %d columns\n", b, fo, len(store.ColumnOrder))
				return nil
			}

			col, err := e.session.ImportHTML(file)
			if err != nil {
				return err
			}
			b, fo := countItems(col.Items)
			fmt.Fprintf(out, "Imported %d bookmarks, %d folders into column %d\n", b, fo, len(e.session.Snapshot().ColumnOrder))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "html or json (default: from the file extension, else html)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Allow a JSON import to replace all bookmarks")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks as JSON or browser bookmark HTML",
		Long: strings.TrimSpace(`
Write all bookmarks to path. Without a path the file goes to
~/Downloads/bookmarks_YYYY-MM-DD.<format>.`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			f, err := formatFor(format, path, exporter.FormatJSON)
			if err != nil {
				return err
			}
			if path == "" {
				if path, err = exporter.DefaultExportPath(f); err != nil {
					return fmt.Errorf("default export path: %w", err)
				}
			}

			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			store := e.session.Snapshot()
			if err := e.close(); err != nil {
				return err
			}

			if err := exporter.WriteFile(path, store, f); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			b, fo := store.Count()
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks, %d folders to %s\n", b, fo, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or html (default: from the file extension, else json)")
	return cmd
}
