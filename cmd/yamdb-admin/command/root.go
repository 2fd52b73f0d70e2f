package command

// root.go defines the root command and the environment every subcommand shares.

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"yamdb/database"
	"yamdb/internal/config"
	applog "yamdb/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "yamdb-admin",
	Short: "yamdb-admin - yamdb operator tooling",
	Long: `yamdb-admin runs maintenance tasks against the yamdb database:
- apply schema migrations
- import the CSV fixtures (categories, genres, titles, users, reviews, comments)
- create staff accounts

Configuration is read from the same environment (and .env file) as the API server.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what a subcommand needs to reach the database.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	return &env{cfg: cfg, logger: applog.New(cfg.LogLevel, cfg.LogFormat)}, nil
}

// connect migrates the schema first so imports never race an old schema.
func (e *env) connect(ctx context.Context) (*gorm.DB, error) {
	if err := database.Migrate(e.cfg, e.logger); err != nil {
		return nil, err
	}
	return database.Connect(ctx, e.cfg, e.logger)
}
