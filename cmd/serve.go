package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"veille-strategique/collector"
	"veille-strategique/handlers"
	"veille-strategique/middleware"
	"veille-strategique/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the in-process scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// Настройка Gin
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))

	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	h := handlers.New(log, a.store, a.enrich, a.spdi, a.collector, a.ping)
	h.Register(r, limiter.Middleware())

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting veille server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(log, jobs(a)...)
		g.Go(func() error { return sched.Start(gCtx) })
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	log.Info("server exited properly")
	return nil
}

// jobs lists the periodic pipeline runs.
func jobs(a *app) []scheduler.Job {
	collect := func(kind string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			_, err := a.collector.Collect(ctx, collector.Request{Type: kind, Recency: collector.RecencyDay})
			return err
		}
	}
	return []scheduler.Job{
		{Name: "collecte_critique", Interval: cfg.Scheduler.CriticalCollection, Run: collect(collector.TypeCritical)},
		{Name: "collecte_quotidienne", Interval: cfg.Scheduler.DailyCollection, Run: collect(collector.TypeDaily)},
		{
			Name:     "sentiment_batch",
			Interval: cfg.Scheduler.SentimentSweep,
			Run: func(ctx context.Context) error {
				_, err := a.enrich.ScoreSentiments(ctx, 0)
				return err
			},
		},
		{
			Name:     "spdi_batch",
			Interval: cfg.Scheduler.SpdiBatch,
			Run: func(ctx context.Context) error {
				_, err := a.spdi.ComputeAll(ctx)
				return err
			},
		},
	}
}
