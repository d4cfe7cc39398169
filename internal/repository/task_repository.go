// internal/repository/task_repository.go
package repository

import (
	"context"
	"slices"
	"time"

	"github.com/gurkanbulca/taskboard/internal/models"
)

// TaskRepository is the typed adapter over a per-user task partition.
// Every operation is keyed by the owning user's id.
type TaskRepository interface {
	// Create stores a new task. The store assigns ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// ListByUser returns every task of the user, newest CreatedAt first.
	ListByUser(ctx context.Context, userID string) ([]*models.Task, error)
	// GetByID returns ErrTaskNotFound when the id is absent from the partition.
	GetByID(ctx context.Context, userID, taskID string) (*models.Task, error)
	// Update replaces the editable fields and stamps a fresh UpdatedAt.
	Update(ctx context.Context, task *models.Task) (*models.Task, error)
	// UpdateStatus writes only the status and UpdatedAt.
	UpdateStatus(ctx context.Context, userID, taskID string, status models.Status) error
	// Delete removes the task. Deleting a missing id is not an error.
	Delete(ctx context.Context, userID, taskID string) error
}

// UserRepository stores accounts for the identity provider
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Clock returns the current time
type Clock func() time.Time

// storeTime returns the clock's time in UTC, truncated to the millisecond
// precision every backend can hold.
func (c Clock) storeTime() time.Time {
	now := time.Now
	if c != nil {
		now = c
	}
	return now().UTC().Truncate(time.Millisecond)
}

// nextStamp returns the time to stamp on a mutation of a record last updated
// at prev. It is always strictly after prev, even when the clock has not
// advanced past it.
func (c Clock) nextStamp(prev time.Time) time.Time {
	now := c.storeTime()
	floor := prev.UTC().Truncate(time.Millisecond).Add(time.Millisecond)
	if now.Before(floor) {
		return floor
	}
	return now
}

// sortNewestFirst orders tasks by CreatedAt descending
func sortNewestFirst(tasks []*models.Task) {
	slices.SortStableFunc(tasks, func(a, b *models.Task) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
