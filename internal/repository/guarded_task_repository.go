// internal/repository/guarded_task_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// GuardedTaskRepository checks that the identity on the context owns the
// partition before delegating to the wrapped repository.
type GuardedTaskRepository struct {
	next TaskRepository
}

// NewGuardedTaskRepository wraps a repository with ownership checks
func NewGuardedTaskRepository(next TaskRepository) *GuardedTaskRepository {
	return &GuardedTaskRepository{next: next}
}

func authorize(ctx context.Context, op, owner string) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if owner == "" || userID != owner {
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}
	return nil
}

func (g *GuardedTaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := authorize(ctx, "create", task.UserID); err != nil {
		return nil, err
	}
	return g.next.Create(ctx, task)
}

func (g *GuardedTaskRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	if err := authorize(ctx, "list", userID); err != nil {
		return nil, err
	}
	return g.next.ListByUser(ctx, userID)
}

func (g *GuardedTaskRepository) GetByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	if err := authorize(ctx, "get", userID); err != nil {
		return nil, err
	}
	return g.next.GetByID(ctx, userID, taskID)
}

func (g *GuardedTaskRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	if err := authorize(ctx, "update", task.UserID); err != nil {
		return nil, err
	}
	return g.next.Update(ctx, task)
}

func (g *GuardedTaskRepository) UpdateStatus(ctx context.Context, userID, taskID string, status models.Status) error {
	if err := authorize(ctx, "update_status", userID); err != nil {
		return err
	}
	return g.next.UpdateStatus(ctx, userID, taskID, status)
}

func (g *GuardedTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	if err := authorize(ctx, "delete", userID); err != nil {
		return err
	}
	return g.next.Delete(ctx, userID, taskID)
}
