// Command riskrag generates project risk reports from PDF documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/riskrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/riskrag/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	home, err := cli.HomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cli.SetVersion(version)
	cli.EnableBootstrap(home)

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
