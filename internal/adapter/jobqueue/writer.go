// Package jobqueue moves seed-data ingestion jobs between the API and the
// worker over a Kafka topic.
package jobqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/parcel-tracking/internal/config"
	"github.com/couchcryptid/parcel-tracking/internal/jobs"
)

// Dispatcher publishes ingestion jobs to the jobs topic.
type Dispatcher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewDispatcher creates a Kafka producer for the configured jobs topic.
func NewDispatcher(cfg *config.Config, logger *slog.Logger) *Dispatcher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaJobsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Dispatcher{writer: w, logger: logger}
}

// Dispatch publishes one job. The write is acknowledged by all in-sync
// replicas before returning.
func (d *Dispatcher) Dispatch(ctx context.Context, job jobs.IngestJob) error {
	msg, err := serializeToMessage(job)
	if err != nil {
		return err
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish job %s: %w", job.ID, err)
	}
	d.logger.Info("job dispatched", "job_id", job.ID, "path", job.CSVPath)
	return nil
}

func (d *Dispatcher) Close() error {
	return d.writer.Close()
}

// serializeToMessage marshals an IngestJob into a Kafka message keyed by
// job ID, so redeliveries of the same job land on the same partition.
func serializeToMessage(job jobs.IngestJob) (kafkago.Message, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize job: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(job.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "requested_at", Value: []byte(job.RequestedAt.Format(time.RFC3339))},
		},
	}, nil
}
