package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/kidspeak/internal/config"
	"github.com/example/kidspeak/internal/database"
	"github.com/example/kidspeak/internal/logger"
	"github.com/example/kidspeak/internal/metrics"
	"github.com/example/kidspeak/internal/progression"
)

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "kidspeak",
		Short: "Spoken-English practice for children",
		Long: `kidspeak runs the learner bot and the tools educators use to manage
learners, spelling words and class boards.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the .env file")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newImportWordsCommand())
	rootCmd.AddCommand(newExportBoardCommand())
	rootCmd.AddCommand(newAddEducatorCommand())
	rootCmd.AddCommand(newAddLearnerCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app holds what every command needs
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sqlx.DB
}

func setup() (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	log := logger.Setup(cfg.LogLevel)

	db, err := database.Connect(database.Config{
		Type: cfg.Database.Type,
		Path: cfg.Database.Path,
		URL:  cfg.Database.URL,
	})
	if err != nil {
		return nil, err
	}
	log.Info("database ready", "type", cfg.Database.Type)

	return &app{cfg: cfg, logger: log, db: db}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", "error", err)
	}
}

// loadEngine creates the progression engine and reads all learners
func (a *app) loadEngine(ctx context.Context, m *metrics.Metrics) (*progression.Engine, error) {
	engine := progression.NewEngine(database.NewLearnerRepository(a.db),
		progression.WithLogger(a.logger),
		progression.WithMetrics(m),
	)
	if err := engine.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load learners: %w", err)
	}
	return engine, nil
}
