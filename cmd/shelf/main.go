package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/nikbrunner/shelf/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCmd()
	cmd.SetArgs(cli.RewriteQuickSearch(cmd, os.Args[1:]))
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
