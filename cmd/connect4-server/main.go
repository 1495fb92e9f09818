package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/montplusa/connect4-mcts/pkg/ai/mcts"
	"github.com/montplusa/connect4-mcts/pkg/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "MCTS config file (JSON)")
	maxIterations := flag.Int("max-iterations", 1_000_000, "largest iteration budget a request may ask for")
	maxTimeMs := flag.Int("max-time-ms", 10_000, "largest time budget a request may ask for")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := server.DefaultConfig()
	cfg.MaxIterations = *maxIterations
	cfg.MaxTimeMs = *maxTimeMs
	cfg.RequestTimeout = time.Duration(*maxTimeMs)*time.Millisecond + 5*time.Second
	if *configPath != "" {
		c, err := mcts.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config")
		}
		cfg.MCTS = c
	}

	srv := &http.Server{
		Addr:    *addr,
		Handler: server.New(cfg, log.Logger),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("addr", *addr).Msg("listening")
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}
}
