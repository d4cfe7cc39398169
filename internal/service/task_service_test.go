// internal/service/task_service_test.go
package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
)

func TestTaskService_CreateTask(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := asUser("u1")

	task, err := svc.CreateTask(ctx, models.TaskInput{
		Title:    "Buy milk",
		Priority: models.PriorityLow,
		Status:   models.StatusPending,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "u1", task.UserID)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityLow, task.Priority)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	got, err := svc.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, task.Priority, got.Priority)
	assert.True(t, task.CreatedAt.Equal(got.CreatedAt))
}

func TestTaskService_CreateTask_Defaults(t *testing.T) {
	svc, _ := setupTaskService(t)

	task, err := svc.CreateTask(asUser("u1"), models.TaskInput{Title: "  padded  "})
	require.NoError(t, err)
	assert.Equal(t, "padded", task.Title)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	svc, repo := setupTaskService(t)
	ctx := asUser("u1")

	tests := []struct {
		name  string
		input models.TaskInput
		field string
	}{
		{name: "empty title", input: models.TaskInput{Title: ""}, field: "title"},
		{name: "blank title", input: models.TaskInput{Title: "   "}, field: "title"},
		{name: "long title", input: models.TaskInput{Title: strings.Repeat("a", 201)}, field: "title"},
		{name: "bad status", input: models.TaskInput{Title: "x", Status: "done"}, field: "status"},
		{name: "bad priority", input: models.TaskInput{Title: "x", Priority: "urgent"}, field: "priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(ctx, tt.input)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	// nothing reached the store
	tasks, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_RequiresIdentity(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, models.TaskInput{Title: "x"})
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)

	_, err = svc.ListTasks(ctx)
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)

	assert.ErrorIs(t, svc.DeleteTask(ctx, "id"), repository.ErrUnauthenticated)
}

func TestTaskService_ListTasks(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := asUser("u1")

	empty, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.CreateTask(ctx, models.TaskInput{Title: title})
		require.NoError(t, err)
	}
	_, err = svc.CreateTask(asUser("u2"), models.TaskInput{Title: "other"})
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	for i := 1; i < len(tasks); i++ {
		assert.True(t, tasks[i-1].CreatedAt.After(tasks[i].CreatedAt))
	}
}

func TestTaskService_UpdateTask_ReplacesWholesale(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := asUser("u1")

	created, err := svc.CreateTask(ctx, models.TaskInput{
		Title:    "ship",
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(ctx, created.ID, models.TaskInput{Title: "ship it"})
	require.NoError(t, err)
	assert.Equal(t, "ship it", updated.Title)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, models.PriorityMedium, updated.Priority)
}

func TestTaskService_UpdateTask_ChecksIdentityFirst(t *testing.T) {
	svc, _ := setupTaskService(t)

	_, err := svc.UpdateTask(context.Background(), "any", models.TaskInput{Title: ""})
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)

	var verr *models.ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestTaskService_UpdateTask(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := asUser("u1")

	created, err := svc.CreateTask(ctx, models.TaskInput{Title: "draft", Description: "v1"})
	require.NoError(t, err)

	due := time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC)
	updated, err := svc.UpdateTask(ctx, created.ID, models.TaskInput{
		Title:       "final",
		Description: "v2",
		Status:      models.StatusCompleted,
		Priority:    models.PriorityHigh,
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "u1", updated.UserID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, "2025-07-01", updated.DueDate.Format(models.DateLayout))

	_, err = svc.UpdateTask(ctx, created.ID, models.TaskInput{Title: ""})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateTask(ctx, "missing", models.TaskInput{Title: "x"})
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	// another user cannot see the task at all
	_, err = svc.UpdateTask(asUser("u2"), created.ID, models.TaskInput{Title: "x"})
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestTaskService_UpdateTaskStatus(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := asUser("u1")

	due := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.CreateTask(ctx, models.TaskInput{
		Title:       "status flow",
		Description: "keep me",
		Priority:    models.PriorityHigh,
		DueDate:     &due,
	})
	require.NoError(t, err)

	prev := created
	// any status may follow any other
	for _, next := range []models.Status{
		models.StatusCompleted,
		models.StatusPending,
		models.StatusInProgress,
		models.StatusCompleted,
		models.StatusInProgress,
	} {
		got, err := svc.UpdateTaskStatus(ctx, created.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, got.Status)
		assert.True(t, got.UpdatedAt.After(prev.UpdatedAt))

		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Description, got.Description)
		assert.Equal(t, created.Priority, got.Priority)
		assert.Equal(t, created.UserID, got.UserID)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
		assert.True(t, created.DueDate.Equal(*got.DueDate))
		prev = got
	}

	_, err = svc.UpdateTaskStatus(ctx, created.ID, "archived")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestTaskService_DeleteTask(t *testing.T) {
	svc, _ := setupTaskService(t)
	ctx := asUser("u1")

	created, err := svc.CreateTask(ctx, models.TaskInput{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(ctx, created.ID))
	_, err = svc.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	assert.NoError(t, svc.DeleteTask(ctx, created.ID))
	assert.NoError(t, svc.DeleteTask(ctx, "never-existed"))
}
