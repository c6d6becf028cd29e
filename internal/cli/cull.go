package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/shelf/internal/culler"
)

func newCullCmd(app *App) *cobra.Command {
	var (
		concurrency int
		timeout     time.Duration
		remove      bool
		quiet       bool
	)

	cmd := &cobra.Command{
		Use:   "cull",
		Short: "Check every bookmark URL and report dead links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(app, envParams{})
			if err != nil {
				return err
			}
			defer e.close()

			items := e.session.Snapshot().Bookmarks()
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks to check")
				return nil
			}

			params := culler.Params{
				Concurrency:    concurrency,
				Timeout:        timeout,
				ExcludeDomains: e.cfg.CullExcludeDomains,
			}
			if !quiet {
				progress := cmd.ErrOrStderr()
				params.OnProgress = func(completed, total int) {
					fmt.Fprintf(progress, "\rChecked %d/%d", completed, total)
					if completed == total {
						fmt.Fprintln(progress)
					}
				}
			}

			e.logger.Info("cull started", "bookmarks", len(items))
			results := culler.Check(cmd.Context(), items, params)

			out := cmd.OutOrStdout()
			dead := culler.Filter(results, culler.Dead)
			unreachable := culler.Filter(results, culler.Unreachable)
			for _, r := range dead {
				fmt.Fprintf(out, "dead         %s  %s  (%d)  [%s]\n", r.Item.Title, r.Item.URL, r.StatusCode, shortID(r.Item.ID))
			}
			for _, r := range unreachable {
				fmt.Fprintf(out, "unreachable  %s  %s  (%s)  [%s]\n", r.Item.Title, r.Item.URL, r.Error, shortID(r.Item.ID))
			}
			healthy := len(results) - len(dead) - len(unreachable)
			fmt.Fprintf(out, "%d healthy, %d dead, %d unreachable\n", healthy, len(dead), len(unreachable))

			if !remove || len(dead) == 0 {
				return nil
			}
			for _, r := range dead {
				if _, err := e.session.Delete(r.Item.ID); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "Deleted %d dead bookmarks\n", len(dead))
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", culler.DefaultConcurrency, "Parallel requests")
	cmd.Flags().DurationVar(&timeout, "timeout", culler.DefaultTimeout, "Timeout per URL")
	cmd.Flags().BoolVar(&remove, "delete", false, "Delete dead bookmarks (unreachable ones are kept)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print progress")
	return cmd
}
