// internal/view/detail.go
package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gurkanbulca/taskboard/internal/models"
)

// ErrDeleted is returned by TaskDetail operations after the task was deleted
var ErrDeleted = errors.New("task was deleted")

// TaskDetail is the single-task screen with its editor
type TaskDetail struct {
	source TaskSource
	id     string

	mu      sync.RWMutex
	task    *models.Task
	stale   bool
	deleted bool
}

// NewTaskDetail creates a detail screen for the task id. Call Load first.
func NewTaskDetail(source TaskSource, id string) *TaskDetail {
	return &TaskDetail{source: source, id: id, stale: true}
}

// Load fetches the task. Not-found errors from the source are returned unchanged.
func (v *TaskDetail) Load(ctx context.Context) error {
	if v.Deleted() {
		return ErrDeleted
	}

	task, err := v.source.GetTask(ctx, v.id)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		v.stale = true
		return err
	}
	v.task = task
	v.stale = false
	return nil
}

// Task returns a copy of the loaded task, nil before the first load
func (v *TaskDetail) Task() *models.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.task.Clone()
}

// Stale reports whether the screen may differ from the store
func (v *TaskDetail) Stale() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stale
}

// Deleted reports whether the task was deleted from this screen
func (v *TaskDetail) Deleted() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.deleted
}

// Update saves the editor form and reloads the task
func (v *TaskDetail) Update(ctx context.Context, in models.TaskInput) error {
	if v.Deleted() {
		return ErrDeleted
	}
	_, err := v.source.UpdateTask(ctx, v.id, in)
	return v.afterMutation(ctx, err)
}

// SetStatus changes the status. Choosing the status the task already has is
// a no-op and issues no write.
func (v *TaskDetail) SetStatus(ctx context.Context, status models.Status) error {
	if v.Deleted() {
		return ErrDeleted
	}

	v.mu.RLock()
	current := v.task
	v.mu.RUnlock()
	if current != nil && current.Status == status {
		return nil
	}

	_, err := v.source.UpdateTaskStatus(ctx, v.id, status)
	return v.afterMutation(ctx, err)
}

// Delete removes the task. The screen then reports Deleted and holds no task.
func (v *TaskDetail) Delete(ctx context.Context) error {
	if v.Deleted() {
		return nil
	}

	if err := v.source.DeleteTask(ctx, v.id); err != nil {
		v.mu.Lock()
		v.stale = true
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	v.deleted = true
	v.stale = false
	v.task = nil
	v.mu.Unlock()
	return nil
}

func (v *TaskDetail) afterMutation(ctx context.Context, mutationErr error) error {
	v.mu.Lock()
	v.stale = true
	v.mu.Unlock()

	if mutationErr != nil {
		return mutationErr
	}
	if err := v.Load(ctx); err != nil {
		return fmt.Errorf("%w: reload task %s: %w", ErrStale, v.id, err)
	}
	return nil
}
