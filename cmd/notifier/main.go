// Command notifier turns stream domain events into notification batches.
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

	"golang.org/x/sync/errgroup"

	"github.com/lmco/eurekastreams/internal/app"
	"github.com/lmco/eurekastreams/internal/config"
	"github.com/lmco/eurekastreams/internal/pkg/logger"
	"github.com/lmco/eurekastreams/internal/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		slog.Error("notifier stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	c, err := app.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Error("close resources", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           c.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if c.Consumer != nil {
		if err := c.Consumer.Start(); err != nil {
			return err
		}
		log.Info("consuming events", "subject", cfg.EventsSubject+".>", "queue", cfg.EventsQueue)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	if c.Relay != nil {
		g.Go(func() error { return c.Relay.Run(gctx) })
	}
	if c.Consumer != nil {
		g.Go(func() error {
			<-gctx.Done()
			return c.Consumer.Stop()
		})
	}

	return g.Wait()
}
