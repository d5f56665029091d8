package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/stayer/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to ~/.config/stayer/config.toml)")
	envFile := flag.String("env", "", "dotenv file with STAYER_* overrides (optional, defaults to .env)")
	poll := flag.Duration("poll", 0, "offer refresh interval, e.g. 30s (optional, overrides config)")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		EnvFile:    *envFile,
		PollEvery:  *poll,
		Verbose:    *verbose,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "stayer: %v\n", err)
		return 1
	}
	return 0
}
