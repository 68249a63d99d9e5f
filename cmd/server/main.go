// Package main implements the entry point for the scry-fsrs server, which
// schedules vocabulary reviews with the FSRS algorithm and serves them over
// HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-fsrs/internal/config"
	"github.com/phrazzld/scry-fsrs/internal/platform/logger"
	"github.com/spf13/pflag"
)

// options are the command-line flags of the server binary.
type options struct {
	configFile string
	migrate    string
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options

	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configFile, "config", "", "path to a config file (default: ./config.yaml if present)")
	fs.StringVar(&opts.migrate, "migrate", "", "run a migration command (up, down, status) and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.migrate {
	case "", "up", "down", "status":
	default:
		return options{}, fmt.Errorf("unknown migrate command %q", opts.migrate)
	}

	return opts, nil
}

// run loads configuration, sets up logging and the database, and then
// either runs a migration command or serves HTTP until ctx is canceled.
func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"request_retention", cfg.Scheduler.RequestRetention,
		"maximum_interval", cfg.Scheduler.MaximumInterval)

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	if opts.migrate != "" {
		defer func() { _ = db.Close() }()
		return handleMigrations(ctx, db, opts.migrate, l)
	}

	if err := applyMigrations(ctx, db, l); err != nil {
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
