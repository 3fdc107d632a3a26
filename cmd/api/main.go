package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energy-market-backend/bootstrap"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + rt.Config.Port
		log.Info().Str("addr", addr).Msg("Server running")
		log.Info().Msgf("Health check: http://localhost%s/health/json", addr)
		return rt.App.Listen(addr)
	})
	g.Go(func() error {
		return rt.Sweeper().Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return rt.App.ShutdownWithContext(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}
