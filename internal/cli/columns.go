package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/model"
)

func newColumnCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "column",
		Aliases: []string{"col"},
		Short:   "Column commands",
	}
	cmd.AddCommand(newColumnListCmd(app))
	cmd.AddCommand(newColumnAddCmd(app))
	cmd.AddCommand(newColumnRemoveCmd(app))
	cmd.AddCommand(newColumnResizeCmd(app))
	cmd.AddCommand(newColumnMoveCmd(app))
	return cmd
}

// parseWidth accepts "350" or "350px".
func parseWidth(s string) (model.Width, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if err != nil {
		return 0, fmt.Errorf("invalid width %q", s)
	}
	return model.Width(n), nil
}

func newColumnListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List columns in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			for i, c := range e.session.Snapshot().OrderedColumns() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s  %d items\n", i+1, shortID(c.ID), c.Width, len(c.Items))
			}
			return nil
		},
	}
}

func newColumnAddCmd(app *App) *cobra.Command {
	var width string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append an empty column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWidth(width)
			if err != nil {
				return err
			}

			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			id, err := e.session.AddColumn(w.Clamp())
			if err != nil {
				return err
			}
			n := len(e.session.Snapshot().ColumnOrder)
			fmt.Fprintf(cmd.OutOrStdout(), "Added column %d (%s)\n", n, shortID(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&width, "width", model.DefaultColumnWidth.String(), "Column width in pixels")
	return cmd
}

func newColumnRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <column>",
		Short: "Delete a column with everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			c, index, err := resolveColumn(e.session.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if len(c.Items) > 0 && !yes {
				return fmt.Errorf("column %d holds %d items; pass --yes to delete it with its contents", index+1, len(c.Items))
			}
			if _, err := e.session.DeleteColumn(c.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted column %d\n", index+1)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete non-empty columns without refusing")
	return cmd
}

func newColumnResizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resize <column> <width>",
		Short: fmt.Sprintf("Set a column width (%s to %s)", model.MinColumnWidth, model.MaxColumnWidth),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWidth(args[1])
			if err != nil {
				return err
			}

			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			c, index, err := resolveColumn(e.session.Snapshot(), args[0])
			if err != nil {
				return err
			}
			got, err := e.session.ResizeColumn(c.ID, w)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Column %d is now %s\n", index+1, got)
			return nil
		},
	}
}

func newColumnMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <column> <position>",
		Short: "Move a column to a 1-based display position",
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

			c, _, err := resolveColumn(e.session.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := e.session.MoveColumn(c.ID, pos-1); err != nil {
				return err
			}
			for i, id := range e.session.Snapshot().ColumnOrder {
				if id == c.ID {
					fmt.Fprintf(cmd.OutOrStdout(), "Column %s is now at %d\n", shortID(c.ID), i+1)
				}
			}
			return nil
		},
	}
}
