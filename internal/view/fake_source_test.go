// internal/view/fake_source_test.go
package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
)

var errBackend = errors.New("backend unavailable")

// fakeSource is an in-memory TaskSource with switchable failures
type fakeSource struct {
	tasks  map[string]*models.Task
	nextID int
	now    time.Time

	failList   bool
	failGet    bool
	failWrites bool
	writes     int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tasks: make(map[string]*models.Task),
		now:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeSource) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *fakeSource) ListTasks(context.Context) ([]*models.Task, error) {
	if f.failList {
		return nil, &repository.ReadError{Op: "list", Err: errBackend}
	}
	out := make([]*models.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t.Clone())
	}
	slices.SortFunc(out, func(a, b *models.Task) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (f *fakeSource) GetTask(_ context.Context, id string) (*models.Task, error) {
	if f.failGet {
		return nil, &repository.ReadError{Op: "get", Err: errBackend}
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, fmt.Errorf("get task %s: %w", id, repository.ErrTaskNotFound)
	}
	return t.Clone(), nil
}

func (f *fakeSource) CreateTask(_ context.Context, in models.TaskInput) (*models.Task, error) {
	if f.failWrites {
		return nil, &repository.WriteError{Op: "create", Err: errBackend}
	}
	f.writes++
	f.nextID++
	now := f.tick()
	t := &models.Task{ID: fmt.Sprintf("t%d", f.nextID), UserID: "u1", CreatedAt: now, UpdatedAt: now}
	t.Apply(in.Normalize())
	f.tasks[t.ID] = t
	return t.Clone(), nil
}

func (f *fakeSource) UpdateTask(_ context.Context, id string, in models.TaskInput) (*models.Task, error) {
	if f.failWrites {
		return nil, &repository.WriteError{Op: "update", Err: errBackend}
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, &repository.WriteError{Op: "update", Err: repository.ErrTaskNotFound}
	}
	f.writes++
	t.Apply(in.Normalize())
	t.UpdatedAt = f.tick()
	return t.Clone(), nil
}

func (f *fakeSource) UpdateTaskStatus(_ context.Context, id string, status models.Status) (*models.Task, error) {
	if f.failWrites {
		return nil, &repository.WriteError{Op: "update_status", Err: errBackend}
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, &repository.WriteError{Op: "update_status", Err: repository.ErrTaskNotFound}
	}
	f.writes++
	t.Status = status
	t.UpdatedAt = f.tick()
	return t.Clone(), nil
}

func (f *fakeSource) DeleteTask(_ context.Context, id string) error {
	if f.failWrites {
		return &repository.WriteError{Op: "delete", Err: errBackend}
	}
	f.writes++
	delete(f.tasks, id)
	return nil
}
