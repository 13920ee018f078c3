// Package jobstore is the postgres-backed job queue store. It implements
// queue.Store with row-level locking so multiple worker processes can lease
// from the same queues without double-executing jobs.
package jobstore

import (
	"time"

	"fulfillment/internal/queue"
)

// JobDTO represents the database structure for persisting queue jobs.
type JobDTO struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	Queue          string `gorm:"index:idx_jobs_lease,priority:1"`
	Type           string
	Payload        []byte `gorm:"type:jsonb"`
	Priority       int
	Attempts       int
	MaxAttempts    int
	BackoffKind    int
	BackoffBase    int64
	State          string `gorm:"index:idx_jobs_lease,priority:2"`
	AvailableAt    time.Time
	LeaseExpiresAt time.Time
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time `gorm:"index"`
}

// TableName specifies the database table name for queue jobs.
func (JobDTO) TableName() string {
	return "jobs"
}

// fromJob converts a queue job to its database representation.
func fromJob(job *queue.Job) JobDTO {
	return JobDTO{
		ID:             job.ID,
		Queue:          job.Queue,
		Type:           job.Type,
		Payload:        job.Payload,
		Priority:       job.Priority,
		Attempts:       job.Attempts,
		MaxAttempts:    job.MaxAttempts,
		BackoffKind:    int(job.Backoff.Kind),
		BackoffBase:    int64(job.Backoff.Base),
		State:          job.State.String(),
		AvailableAt:    job.AvailableAt,
		LeaseExpiresAt: job.LeaseExpiresAt,
		LastError:      job.LastError,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}

// toJob converts a database DTO to a queue job.
func toJob(dto JobDTO) *queue.Job {
	return &queue.Job{
		ID:          dto.ID,
		Queue:       dto.Queue,
		Type:        dto.Type,
		Payload:     dto.Payload,
		Priority:    dto.Priority,
		Attempts:    dto.Attempts,
		MaxAttempts: dto.MaxAttempts,
		Backoff: queue.Backoff{
			Kind: queue.BackoffKind(dto.BackoffKind),
			Base: time.Duration(dto.BackoffBase),
		},
		State:          queue.StateFromString(dto.State),
		AvailableAt:    dto.AvailableAt,
		LeaseExpiresAt: dto.LeaseExpiresAt,
		LastError:      dto.LastError,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}
}
