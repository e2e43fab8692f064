package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/kidspeak/internal/ai"
	"github.com/example/kidspeak/internal/bot"
	"github.com/example/kidspeak/internal/coach"
	"github.com/example/kidspeak/internal/contextstore"
	"github.com/example/kidspeak/internal/database"
	"github.com/example/kidspeak/internal/evaluator"
	"github.com/example/kidspeak/internal/metrics"
	"github.com/example/kidspeak/internal/practice"
	"github.com/example/kidspeak/internal/scheduler"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the learner bot, context sweeper and metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	var m *metrics.Metrics
	if a.cfg.MetricsAddr != "" {
		m = metrics.NewMetrics()
	}

	engine, err := a.loadEngine(ctx, m)
	if err != nil {
		return err
	}

	words := practice.NewWordBank()
	stored, err := database.NewWordRepository(a.db).GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load spelling words: %w", err)
	}
	a.logger.Info("spelling words loaded", "imported", words.Add(stored), "total", words.Len())

	client, err := ai.New(a.cfg.LLM.APIKey, a.cfg.LLM.Model,
		ai.WithBaseURL(a.cfg.LLM.BaseURL),
		ai.WithTimeout(30*time.Second),
	)
	if err != nil {
		return err
	}

	contexts := contextstore.NewStore()
	sweeper := scheduler.New(contexts, a.cfg.IdleTTL, a.cfg.Sweep, m, a.logger)

	b, err := bot.New(a.cfg.Telegram.Token, bot.DefaultConfig(), bot.Deps{
		Learners:     engine,
		Grader:       evaluator.NewEvaluator(engine, m, a.logger),
		Conversation: coach.New(client, contexts, m, a.logger),
		Content:      client,
		Words:        words,
		Metrics:      m,
		Logger:       a.logger,
	})
	if err != nil {
		return err
	}

	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Start(gctx)
	})

	if a.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{
			Addr:              a.cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			a.logger.Info("metrics endpoint listening", "addr", a.cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	a.logger.Info("shutting down", "learners", len(engine.Learners()))
	return err
}
