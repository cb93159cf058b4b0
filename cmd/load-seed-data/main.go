// Command load-seed-data ingests a seed CSV file. By default it dispatches
// an asynchronous job to the worker fleet and prints the job ID; with -sync
// it runs the pipeline in-process against the database, and with -check it
// only validates the file structure.
//
// Usage:
//
//	go run ./cmd/load-seed-data -csv data/seed.csv
//	go run ./cmd/load-seed-data -csv data/seed.csv -sync -batch-size 500
//	go run ./cmd/load-seed-data -csv data/seed.csv -check
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/parcel-tracking/internal/adapter/jobqueue"
	"github.com/couchcryptid/parcel-tracking/internal/config"
	"github.com/couchcryptid/parcel-tracking/internal/ingest"
	"github.com/couchcryptid/parcel-tracking/internal/jobs"
	"github.com/couchcryptid/parcel-tracking/internal/observability"
	"github.com/couchcryptid/parcel-tracking/internal/store"
)

func main() {
	csvPath := flag.String("csv", "", "path to the seed CSV file")
	batchSize := flag.Int("batch-size", 0, "rows per transaction (0 uses the configured default)")
	sync := flag.Bool("sync", false, "run the ingestion in-process instead of dispatching a job")
	check := flag.Bool("check", false, "only validate the file structure, do not ingest")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "missing required flag: -csv")
		os.Exit(2)
	}

	if *check {
		if err := ingest.ValidateFile(*csvPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%s: structure OK\n", *csvPath)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg)

	if *sync {
		runSync(cfg, logger, *csvPath, *batchSize)
		return
	}
	runAsync(cfg, logger, *csvPath, *batchSize)
}

// runSync ingests the file directly and reports on stdout. Exits non-zero
// when the run fails.
func runSync(cfg *config.Config, logger *slog.Logger, csvPath string, batchSize int) {
	metrics := observability.NewMetrics()

	db, err := store.Open(cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	processor := ingest.NewProcessor(ingest.Options{StrictNumbers: cfg.StrictNumbers}, logger, metrics)
	coordinator := ingest.NewCoordinator(db, processor, logger, metrics)

	report := coordinator.Run(context.Background(), csvPath, batchSize, stdoutProgress{})
	fmt.Println(report.Message)
	if !report.Success {
		os.Exit(1)
	}
}

// runAsync dispatches a job and prints its ID for later status polling.
func runAsync(cfg *config.Config, logger *slog.Logger, csvPath string, batchSize int) {
	ctx := context.Background()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	statuses := jobs.NewStatusStore(jobs.NewRedisKV(redisClient), cfg.JobStatusTTL)
	dispatcher := jobqueue.NewDispatcher(cfg, logger)
	defer dispatcher.Close()

	job := jobs.NewIngestJob(csvPath, batchSize)
	if err := statuses.Set(ctx, jobs.Status{JobID: job.ID, State: jobs.StatePending}); err != nil {
		logger.Error("recording pending job failed", "job_id", job.ID, "error", err)
		os.Exit(1)
	}
	if err := dispatcher.Dispatch(ctx, job); err != nil {
		logger.Error("job dispatch failed", "job_id", job.ID, "error", err)
		os.Exit(1)
	}
	fmt.Println(job.ID)
}

// stdoutProgress prints one line per committed batch.
type stdoutProgress struct{}

func (stdoutProgress) ReportProgress(_ context.Context, processed, total, batch int) {
	fmt.Printf("batch %d: %d/%d rows\n", batch, processed, total)
}
