package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/trebuchet-org/scgen/internal/cli"
	"github.com/trebuchet-org/scgen/internal/config"
)

// Set through -ldflags "-X main.version=..." by release builds
var (
	version string
	commit  string
	date    string
)

func main() {
	config.SetBuildFlags(version, commit, date)

	// Interrupts cancel the running operation, which kills its toolchain process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
