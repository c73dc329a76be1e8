// Package main implements the entry point for the Lexi API server, which
// schedules vocabulary reviews, generates and grades exercises, and tracks
// learner progress.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/lexi-api/internal/config"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// options holds the flags shared by the subcommands.
type options struct {
	configFile string
	envFile    string
	memory     bool
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "lexi-api",
		Short:         "Vocabulary learning progress API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnvFile(opts.envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "path to a YAML config file (default ./config.yaml)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before configuration, if present")
	root.Flags().BoolVar(&opts.memory, "memory", false, "keep all data in memory instead of PostgreSQL")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serve.Flags().BoolVar(&opts.memory, "memory", false, "keep all data in memory instead of PostgreSQL")

	root.AddCommand(serve, newMigrateCmd(opts))
	return root
}

// loadEnvFile populates the environment from path. A missing file is not an
// error; variables already set are not overridden.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadConfig loads configuration and installs the configured logger as the
// slog default.
func loadConfig(opts *options) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(opts.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	l.Debug("optional integrations",
		"gemini_configured", cfg.LLM.GeminiAPIKey != "",
		"token_issuer", cfg.Auth.Issuer)

	return cfg, l, nil
}

// runServe wires the application and serves HTTP until ctx is canceled.
func runServe(ctx context.Context, opts *options) error {
	cfg, log, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var st stores
	if opts.memory {
		log.Warn("using in-memory storage; data is lost on exit")
		st = memoryStores()
	} else {
		db, err := openDatabase(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("error closing database connection", "error", err)
			}
		}()
		st = postgresStores(db, log)
	}

	app, err := newApplication(ctx, cfg, log, st)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
