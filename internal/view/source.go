// internal/view/source.go
package view

import (
	"context"
	"errors"

	"github.com/gurkanbulca/taskboard/internal/models"
)

// ErrStale is wrapped into the error returned when a mutation succeeded or
// failed but the screen could not re-fetch. The screen keeps its old data and
// reports Stale() until the next successful load.
var ErrStale = errors.New("view is stale")

// TaskSource is what a screen needs from the task backend. It is satisfied by
// the in-process task service and by the gRPC client.
type TaskSource interface {
	ListTasks(ctx context.Context) ([]*models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error)
	UpdateTaskStatus(ctx context.Context, id string, status models.Status) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
