// internal/view/dashboard.go
package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/gurkanbulca/taskboard/internal/models"
)

// Column is one status bucket of the board
type Column struct {
	Status models.Status  `json:"status"`
	Count  int            `json:"count"`
	Tasks  []*models.Task `json:"tasks"`
}

// Dashboard is the task list screen grouped by status.
// Every mutation goes to the source and is followed by a full re-fetch.
type Dashboard struct {
	source TaskSource

	mu     sync.RWMutex
	tasks  []*models.Task
	stale  bool
	loaded bool
}

// NewDashboard creates an empty, stale dashboard. Call Load before reading it.
func NewDashboard(source TaskSource) *Dashboard {
	return &Dashboard{source: source, stale: true}
}

// Load fetches the user's tasks
func (d *Dashboard) Load(ctx context.Context) error {
	tasks, err := d.source.ListTasks(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.stale = true
		return err
	}
	d.tasks = tasks
	d.stale = false
	d.loaded = true
	return nil
}

// Stale reports whether the screen may differ from the store
func (d *Dashboard) Stale() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stale
}

// Loaded reports whether at least one load has succeeded
func (d *Dashboard) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Columns groups the current tasks by status in board order
func (d *Dashboard) Columns() []Column {
	d.mu.RLock()
	defer d.mu.RUnlock()

	columns := make([]Column, len(models.Statuses))
	index := make(map[models.Status]int, len(models.Statuses))
	for i, status := range models.Statuses {
		columns[i] = Column{Status: status, Tasks: []*models.Task{}}
		index[status] = i
	}
	for _, task := range d.tasks {
		i, ok := index[task.Status]
		if !ok {
			continue
		}
		columns[i].Tasks = append(columns[i].Tasks, task.Clone())
		columns[i].Count++
	}
	return columns
}

// Tasks returns a copy of every task on the board, newest first
func (d *Dashboard) Tasks() []*models.Task {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*models.Task, len(d.tasks))
	for i, t := range d.tasks {
		out[i] = t.Clone()
	}
	return out
}

// CreateTask adds a task and reloads the board
func (d *Dashboard) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	task, err := d.source.CreateTask(ctx, in)
	return task, d.afterMutation(ctx, err)
}

// UpdateTask edits a task and reloads the board
func (d *Dashboard) UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	task, err := d.source.UpdateTask(ctx, id, in)
	return task, d.afterMutation(ctx, err)
}

// SetStatus moves a task to another column and reloads the board
func (d *Dashboard) SetStatus(ctx context.Context, id string, status models.Status) (*models.Task, error) {
	task, err := d.source.UpdateTaskStatus(ctx, id, status)
	return task, d.afterMutation(ctx, err)
}

// DeleteTask removes a task and reloads the board
func (d *Dashboard) DeleteTask(ctx context.Context, id string) error {
	return d.afterMutation(ctx, d.source.DeleteTask(ctx, id))
}

// afterMutation marks the board stale and re-fetches. A failed mutation is
// returned as-is with the board left stale; the write may have landed.
func (d *Dashboard) afterMutation(ctx context.Context, mutationErr error) error {
	d.mu.Lock()
	d.stale = true
	d.mu.Unlock()

	if mutationErr != nil {
		return mutationErr
	}
	if err := d.Load(ctx); err != nil {
		return fmt.Errorf("%w: reload board: %w", ErrStale, err)
	}
	return nil
}
