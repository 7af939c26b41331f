package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/napolitain/nation-builder/internal/api"
	"github.com/napolitain/nation-builder/internal/engine"
)

func newServeCmd() *cobra.Command {
	var (
		addr  string
		speed float64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation in real time behind the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				settings.HTTPAddr = addr
			}
			return runServe(speed)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default $NATION_HTTP_ADDR or :8080)")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Simulation speed multiplier, 0 pauses")
	return cmd
}

func runServe(speed float64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := openSession(ctx, true, settings.SaveInterval.Seconds())
	if err != nil {
		return err
	}
	defer sess.Close()

	logger := slog.Default()
	g := sess.game

	hub := api.NewHub(g, settings.StreamInterval, logger)
	srv := &api.Server{Game: g, Hub: hub, Metrics: sess.metrics, Logger: logger}
	httpServer := &http.Server{
		Addr:              settings.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	runner := engine.NewRunner(func(seconds float64) { g.Advance(seconds) })
	runner.Interval = settings.FrameInterval
	runner.Speed = speed
	runner.Logger = logger

	go hub.Run(ctx)
	go runner.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", settings.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			stop()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", "error", err)
	}
	if err := g.Save(shutdownCtx); err != nil {
		return err
	}
	logger.Info("game saved on shutdown")
	return nil
}
