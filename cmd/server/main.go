package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"

	"github.com/finbuddy/smsledger/internal/api"
	"github.com/finbuddy/smsledger/internal/archive"
	"github.com/finbuddy/smsledger/internal/config"
	"github.com/finbuddy/smsledger/internal/extract"
	"github.com/finbuddy/smsledger/internal/ingest"
	"github.com/finbuddy/smsledger/internal/jobs/inmemory"
	"github.com/finbuddy/smsledger/internal/journal"
	"github.com/finbuddy/smsledger/internal/ledger"
	"github.com/finbuddy/smsledger/internal/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("server", cfg.LogLevel)

	ctx := context.Background()

	if cfg.ProjectID == "" {
		log.Fatal().Msg("BQ_PROJECT_ID is required")
	}

	bqClient, err := bigquery.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer bqClient.Close()
	records := ledger.NewStore(bqClient, cfg.ProjectID, cfg.DatasetID)

	msgJournal, err := journal.Open(cfg.JournalPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open message journal")
	}
	defer msgJournal.Close()

	var archiver ingest.RawArchiver
	if cfg.ArchiveBucket != "" {
		gcsClient, err := storage.NewClient(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer gcsClient.Close()
		archiver = archive.NewGCSArchiver(gcsClient, cfg.ArchiveBucket)
	} else {
		log.Warn().Msg("No archive bucket configured - raw message archival is disabled")
	}

	// Job infrastructure.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.QueueSize, cfg.WorkerCount, jobStore)

	pipeline := ingest.NewMessagePipeline(
		log,
		archiver,
		msgJournal,
		ingest.ClassifierFunc(extract.IsFinancial),
		extract.NewExtractor(),
		records,
	)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	go func() {
		log.Info().Int("workers", cfg.WorkerCount).Msg("Starting message workers")
		if err := jobQueue.Start(workerCtx, pipeline.Handler()); err != nil {
			log.Error().Err(err).Msg("Message workers stopped with error")
		}
	}()

	router := api.NewRouter(jobQueue, jobStore, records, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Drain in-flight jobs before exiting.
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
