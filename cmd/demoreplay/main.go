// demoreplay replays prboom-plus demos headlessly and checks their analysis.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/demoreplay/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
