package jobstore

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/queue"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormJobStore implements queue.Store on postgres. Lease exclusivity relies
// on SELECT ... FOR UPDATE SKIP LOCKED, so concurrent workers never claim the
// same row.
type GormJobStore struct {
	db *gorm.DB
}

// NewGormJobStore creates a new postgres job store.
func NewGormJobStore(db *gorm.DB) *GormJobStore {
	return &GormJobStore{db: db}
}

// Enqueue persists a new job in its initial state.
func (s *GormJobStore) Enqueue(ctx context.Context, job *queue.Job) error {
	dto := fromJob(job)
	return s.db.WithContext(ctx).Create(&dto).Error
}

// Lease atomically claims the next runnable job of the queue. The row is
// locked for the duration of the claiming transaction; SKIP LOCKED keeps
// other workers from blocking on it.
func (s *GormJobStore) Lease(ctx context.Context, queueName string, leaseFor time.Duration) (*queue.Job, error) {
	var leased *queue.Job

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var dto JobDTO
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("queue = ? AND state IN ? AND available_at <= ?",
				queueName,
				[]string{queue.StateWaiting.String(), queue.StateDelayed.String()},
				now,
			).
			Order("priority DESC, available_at, created_at").
			First(&dto).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return queue.ErrNoJob
			}
			return err
		}

		dto.State = queue.StateActive.String()
		dto.Attempts++
		dto.LeaseExpiresAt = now.Add(leaseFor)
		dto.UpdatedAt = now
		if err := tx.Save(&dto).Error; err != nil {
			return err
		}

		leased = toJob(dto)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return leased, nil
}

// Complete acknowledges successful execution.
func (s *GormJobStore) Complete(ctx context.Context, jobID string) error {
	return s.finish(ctx, jobID, queue.StateCompleted, "")
}

// Retry schedules another execution after a failure.
func (s *GormJobStore) Retry(ctx context.Context, jobID string, nextRunAt time.Time, lastError string) error {
	result := s.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"state":        queue.StateDelayed.String(),
			"available_at": nextRunAt,
			"last_error":   lastError,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return queue.ErrJobNotFound
	}
	return nil
}

// Fail marks the job terminally failed.
func (s *GormJobStore) Fail(ctx context.Context, jobID string, lastError string) error {
	return s.finish(ctx, jobID, queue.StateFailed, lastError)
}

func (s *GormJobStore) finish(ctx context.Context, jobID string, state queue.State, lastError string) error {
	updates := map[string]any{
		"state":      state.String(),
		"updated_at": time.Now().UTC(),
	}
	if lastError != "" {
		updates["last_error"] = lastError
	}

	result := s.db.WithContext(ctx).Model(&JobDTO{}).
		Where("id = ?", jobID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return queue.ErrJobNotFound
	}
	return nil
}

// RequeueStalled returns expired-lease active jobs to waiting.
func (s *GormJobStore) RequeueStalled(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	result := s.db.WithContext(ctx).Model(&JobDTO{}).
		Where("state = ? AND lease_expires_at < ?", queue.StateActive.String(), now).
		Updates(map[string]any{
			"state":        queue.StateWaiting.String(),
			"available_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

// Stats returns the per-state counts for one queue.
func (s *GormJobStore) Stats(ctx context.Context, queueName string) (queue.Stats, error) {
	type row struct {
		State string
		Count int
	}

	var rows []row
	err := s.db.WithContext(ctx).Model(&JobDTO{}).
		Select("state, COUNT(*) AS count").
		Where("queue = ?", queueName).
		Group("state").
		Find(&rows).Error
	if err != nil {
		return queue.Stats{}, err
	}

	var stats queue.Stats
	for _, r := range rows {
		switch queue.StateFromString(r.State) {
		case queue.StateWaiting:
			stats.Waiting = r.Count
		case queue.StateActive:
			stats.Active = r.Count
		case queue.StateCompleted:
			stats.Completed = r.Count
		case queue.StateFailed:
			stats.Failed = r.Count
		case queue.StateDelayed:
			stats.Delayed = r.Count
		case queue.StateUnknown:
		}
		stats.Total += r.Count
	}
	return stats, nil
}

// Queues lists every queue name the store has seen, sorted.
func (s *GormJobStore) Queues(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&JobDTO{}).
		Distinct("queue").
		Order("queue").
		Pluck("queue", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Cleanup removes finished jobs older than the retention windows.
func (s *GormJobStore) Cleanup(ctx context.Context, completedBefore, failedBefore time.Time) (int, error) {
	result := s.db.WithContext(ctx).
		Where("(state = ? AND updated_at < ?) OR (state = ? AND updated_at < ?)",
			queue.StateCompleted.String(), completedBefore,
			queue.StateFailed.String(), failedBefore,
		).
		Delete(&JobDTO{})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
