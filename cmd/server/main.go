package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/dmchat/internal/app"
	"github.com/vovakirdan/dmchat/internal/config"
	"github.com/vovakirdan/dmchat/internal/log"
	"github.com/vovakirdan/dmchat/internal/store/sqlite"
)

type rootFlags struct {
	configPath string
	overrides  config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "dmchat",
		Short:         "Direct messaging server over HTTP and WebSocket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to config file (default ./config.yaml)")
	pf.StringVar(&flags.overrides.Addr, "addr", "", "HTTP listen address")
	pf.StringVar(&flags.overrides.DatabasePath, "db", "", "SQLite database path")
	pf.StringVar(&flags.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newMigrateCmd(flags))
	return cmd
}

func newMigrateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(flags)
			if err != nil {
				return err
			}

			st, err := sqlite.New(cfg.DatabasePath)
			if err != nil {
				logger.Error().Err(err).Str("db_path", cfg.DatabasePath).Msg("migration failed")
				return err
			}
			logger.Info().Str("db_path", cfg.DatabasePath).Msg("schema applied")
			return st.Close()
		},
	}
}

// loadConfig resolves configuration with CLI flags taking precedence.
func loadConfig(flags *rootFlags) (config.Config, *zerolog.Logger, error) {
	bootstrap := log.New("info", "console")

	cfg, path, err := config.Load(bootstrap, flags.configPath)
	if err != nil {
		bootstrap.Error().Err(err).Str("path", path).Msg("failed to load config")
		return cfg, nil, err
	}
	cfg.UpdateFrom(flags.overrides)
	if err := cfg.Validate(); err != nil {
		bootstrap.Error().Err(err).Msg("invalid flags")
		return cfg, nil, err
	}

	logger := log.New(cfg.LogLevel, cfg.LogFormat)
	logger.Debug().Str("config_path", path).Msg("config loaded")
	return cfg, logger, nil
}

func serve(parent context.Context, cfg config.Config, logger *zerolog.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to init app")
		return err
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting dmchat server")
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return fmt.Errorf("run: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
