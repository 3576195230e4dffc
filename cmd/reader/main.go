// Command reader is the command line front end of the token pipeline.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/heartmarshall/myenglish-reader/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx)
	stop()

	os.Exit(code)
}
