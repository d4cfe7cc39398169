// internal/service/task_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// TaskService is the caller side of the task store. It resolves the user from
// the request identity and validates input before anything reaches the store.
type TaskService struct {
	repo   repository.TaskRepository
	logger logrus.FieldLogger
}

// NewTaskService creates a task service over the given repository
func NewTaskService(repo repository.TaskRepository, logger logrus.FieldLogger) *TaskService {
	return &TaskService{
		repo:   repo,
		logger: logger.WithField("component", "task_service"),
	}
}

func currentUserID(ctx context.Context) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", repository.ErrUnauthenticated
	}
	return userID, nil
}

// CreateTask validates the input and stores a new task for the current user
func (s *TaskService) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	// Validate request
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	task := &models.Task{UserID: userID}
	task.Apply(in)

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.logFailure("create", userID, "", err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "task_id": created.ID}).Info("task created")
	return created, nil
}

// ListTasks returns the current user's tasks, newest first
func (s *TaskService) ListTasks(ctx context.Context) ([]*models.Task, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logFailure("list", userID, "", err)
		return nil, err
	}
	return tasks, nil
}

// GetTask loads one of the current user's tasks
func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	userID, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, models.NewValidationError("id", "id is required")
	}

	task, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		s.logFailure("get", userID, id, err)
		return nil, err
	}
	return task, nil
}

// UpdateTask replaces the editable fields of an existing task.
// ID, owner and CreatedAt come from the stored task, never from the input.
// The replacement is wholesale: an empty status or priority falls back to
// pending or medium, not to the stored value.
func (s *TaskService) UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	if _, err := currentUserID(ctx); err != nil {
		return nil, err
	}

	// Validate request
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(current.Status, in.Status) {
		return nil, fmt.Errorf("%s to %s: %w", current.Status, in.Status, ErrInvalidTransition)
	}

	next := current.Clone()
	next.Apply(in)

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		s.logFailure("update", current.UserID, id, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": updated.UserID, "task_id": id}).Info("task updated")
	return updated, nil
}

// UpdateTaskStatus moves a task to a new status and returns the stored result
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id string, status models.Status) (*models.Task, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", fmt.Sprintf("invalid status %q", status))
	}

	current, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(current.Status, status) {
		return nil, fmt.Errorf("%s to %s: %w", current.Status, status, ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, current.UserID, id, status); err != nil {
		s.logFailure("update_status", current.UserID, id, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": current.UserID,
		"task_id": id,
		"from":    current.Status,
		"to":      status,
	}).Info("task status changed")

	return s.GetTask(ctx, id)
}

// DeleteTask removes one of the current user's tasks. Missing ids are ignored.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	userID, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		return models.NewValidationError("id", "id is required")
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		s.logFailure("delete", userID, id, err)
		return err
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "task_id": id}).Info("task deleted")
	return nil
}

func (s *TaskService) logFailure(op, userID, taskID string, err error) {
	entry := s.logger.WithFields(logrus.Fields{"op": op, "user_id": userID, "error": err})
	if taskID != "" {
		entry = entry.WithField("task_id", taskID)
	}
	if errors.Is(err, repository.ErrTaskNotFound) {
		entry.Debug("task not found")
		return
	}
	entry.Warn("task operation failed")
}
