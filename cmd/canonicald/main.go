package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleister1102/canonicald/internal/config"
	"github.com/aleister1102/canonicald/internal/datastore"
	"github.com/aleister1102/canonicald/internal/logger"
	"github.com/aleister1102/canonicald/internal/reconciler"
	"github.com/aleister1102/canonicald/internal/server"
)

func main() {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}
	if flags.ListenAddr != "" {
		gCfg.ServerConfig.ListenAddr = flags.ListenAddr
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}
	zLogger.Info().Msg("Configuration validated successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := datastore.NewStore(ctx, gCfg.StorageConfig, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize canonical store")
	}
	defer store.Close()

	var archive *datastore.FindingArchive
	if gCfg.StorageConfig.ArchiveBasePath != "" {
		archive = datastore.NewFindingArchive(gCfg.StorageConfig.ArchiveBasePath, zLogger)
	}

	rec := reconciler.NewReconciler(store, gCfg.IngestConfig.ProcessingPipeline, zLogger)
	srv := server.NewServer(gCfg.ServerConfig, gCfg.IngestConfig, rec, store, archive, zLogger)

	httpServer := &http.Server{
		Addr:        gCfg.ServerConfig.ListenAddr,
		Handler:     srv.Routes(),
		ReadTimeout: time.Duration(gCfg.ServerConfig.ReadTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zLogger.Info().Str("listen_addr", httpServer.Addr).Msg("HTTP server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		zLogger.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zLogger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(gCfg.ServerConfig.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zLogger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	zLogger.Info().Msg("Server stopped")
}
