// Command quest issues a single HTTP request and prints the response.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/advdv/quest/internal/questcli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := questcli.NewCommand(questcli.Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "quest:", err)
		stop()
		os.Exit(questcli.ExitCode(err))
	}
}
