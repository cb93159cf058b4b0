package jobqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/parcel-tracking/internal/config"
	"github.com/couchcryptid/parcel-tracking/internal/jobs"
)

// JobHandler executes one job. A returned error leaves the message
// uncommitted so the group redelivers it.
type JobHandler interface {
	Handle(ctx context.Context, job jobs.IngestJob) error
}

// Consumer reads jobs from the jobs topic and hands them to a JobHandler,
// committing offsets only after the handler succeeds. Delivery is therefore
// at-least-once; job execution is idempotent by construction.
type Consumer struct {
	reader  *kafkago.Reader
	handler JobHandler
	logger  *slog.Logger
	ready   atomic.Bool
}

// NewConsumer creates a consumer-group reader for the configured jobs topic.
func NewConsumer(cfg *config.Config, handler JobHandler, logger *slog.Logger) *Consumer {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaJobsTopic,
		GroupID: cfg.KafkaGroupID,
	})
	return &Consumer{reader: r, handler: handler, logger: logger}
}

// CheckReadiness returns nil once the consumer has fetched at least one
// message from the topic.
func (c *Consumer) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("consumer has not received any jobs yet")
	}
	return nil
}

// Run consumes jobs until the context is cancelled. Undecodable messages
// are logged and committed; redelivering them can never succeed.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("job consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("job consumer stopping", "reason", ctx.Err())
				return nil
			}
			return fmt.Errorf("fetch job message: %w", err)
		}
		c.ready.Store(true)

		job, err := mapMessageToJob(msg)
		if err != nil {
			c.logger.Error("discarding undecodable job message",
				"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "error", err)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("commit poison message: %w", err)
			}
			continue
		}

		if err := c.handler.Handle(ctx, job); err != nil {
			c.logger.Error("job handling failed, leaving uncommitted for redelivery",
				"job_id", job.ID, "error", err)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit job %s: %w", job.ID, err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

// mapMessageToJob unmarshals a Kafka message back into an IngestJob.
func mapMessageToJob(msg kafkago.Message) (jobs.IngestJob, error) {
	var job jobs.IngestJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return jobs.IngestJob{}, fmt.Errorf("decode job: %w", err)
	}
	if job.ID == "" {
		return jobs.IngestJob{}, errors.New("decode job: missing id")
	}
	return job, nil
}
