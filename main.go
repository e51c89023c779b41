package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/withObsrvr/deposit-sync/source"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Initialize logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := NewStore(ctx, cfg.PostgresDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize schema")
	}

	src, err := source.NewSheetsSource(ctx, cfg.Source.SpreadsheetID, cfg.Source.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create spreadsheet source")
	}

	syncer := NewSyncer(cfg, src, store)

	healthServer := NewHealthServer(syncer, store, cfg)
	go func() {
		if err := healthServer.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.PollInterval())
	defer ticker.Stop()

	log.Info().
		Str("spreadsheet", cfg.Source.SpreadsheetID).
		Strs("brands", cfg.Source.Brands).
		Dur("interval", cfg.PollInterval()).
		Msg("Deposit sync started")

	// Initial sync before the first tick
	go syncer.Run(ctx)

	for {
		select {
		case <-ticker.C:
			go syncer.Run(ctx)

		case sig := <-sigChan:
			log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := healthServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("HTTP server shutdown error")
			}
			shutdownCancel()

			log.Info().Msg("Deposit sync stopped")
			return
		}
	}
}
