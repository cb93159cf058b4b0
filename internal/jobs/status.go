package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/parcel-tracking/internal/domain"
	"github.com/couchcryptid/parcel-tracking/internal/ingest"
)

// State is a job lifecycle state.
type State string

const (
	StatePending  State = "PENDING"
	StateProgress State = "PROGRESS"
	StateSuccess  State = "SUCCESS"
	StateFailure  State = "FAILURE"
)

// Status is the externally visible state of one job. Current, Total, and
// Batch are only meaningful while the state is PROGRESS; Report is only set
// once the job reaches a terminal state.
type Status struct {
	JobID     string         `json:"job_id"`
	State     State          `json:"state"`
	Current   int            `json:"current,omitempty"`
	Total     int            `json:"total,omitempty"`
	Batch     int            `json:"batch,omitempty"`
	Report    *ingest.Report `json:"report,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// KV is the key-value backend a StatusStore persists to. Get returns
// found=false for a missing or expired key.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// StatusStore reads and writes job statuses, serialized as JSON under a
// per-job key with a fixed TTL.
type StatusStore struct {
	kv  KV
	ttl time.Duration
}

// NewStatusStore creates a StatusStore writing entries that expire after ttl.
func NewStatusStore(kv KV, ttl time.Duration) *StatusStore {
	return &StatusStore{kv: kv, ttl: ttl}
}

// Get returns the status of a job, or found=false when the job is unknown
// or its entry has expired.
func (s *StatusStore) Get(ctx context.Context, jobID string) (Status, bool, error) {
	raw, found, err := s.kv.Get(ctx, statusKey(jobID))
	if err != nil {
		return Status{}, false, fmt.Errorf("get job status %s: %w", jobID, err)
	}
	if !found {
		return Status{}, false, nil
	}
	var status Status
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return Status{}, false, fmt.Errorf("decode job status %s: %w", jobID, err)
	}
	return status, true, nil
}

// Set persists a status, stamping UpdatedAt.
func (s *StatusStore) Set(ctx context.Context, status Status) error {
	status.UpdatedAt = domain.Now()
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode job status %s: %w", status.JobID, err)
	}
	if err := s.kv.Set(ctx, statusKey(status.JobID), string(raw), s.ttl); err != nil {
		return fmt.Errorf("set job status %s: %w", status.JobID, err)
	}
	return nil
}

func statusKey(jobID string) string {
	return "seed_job_" + jobID
}
