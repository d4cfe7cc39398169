// internal/view/dashboard_test.go
package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
)

func columnCounts(d *Dashboard) map[models.Status]int {
	counts := make(map[models.Status]int)
	for _, c := range d.Columns() {
		counts[c.Status] = c.Count
	}
	return counts
}

func TestDashboard_LoadAndColumns(t *testing.T) {
	src := newFakeSource()
	ctx := context.Background()
	for _, in := range []models.TaskInput{
		{Title: "a"},
		{Title: "b", Status: models.StatusInProgress},
		{Title: "c", Status: models.StatusCompleted},
		{Title: "d"},
	} {
		_, err := src.CreateTask(ctx, in)
		require.NoError(t, err)
	}

	d := NewDashboard(src)
	assert.True(t, d.Stale())
	assert.False(t, d.Loaded())

	require.NoError(t, d.Load(ctx))
	assert.False(t, d.Stale())
	assert.True(t, d.Loaded())

	columns := d.Columns()
	require.Len(t, columns, 3)
	assert.Equal(t, models.StatusPending, columns[0].Status)
	assert.Equal(t, models.StatusInProgress, columns[1].Status)
	assert.Equal(t, models.StatusCompleted, columns[2].Status)
	assert.Equal(t, 2, columns[0].Count)
	assert.Equal(t, "d", columns[0].Tasks[0].Title, "newest first within a column")
	assert.Equal(t, 1, columns[1].Count)
	assert.Equal(t, 1, columns[2].Count)
}

func TestDashboard_EmptyBoard(t *testing.T) {
	d := NewDashboard(newFakeSource())
	require.NoError(t, d.Load(context.Background()))

	for _, c := range d.Columns() {
		assert.Zero(t, c.Count)
		assert.NotNil(t, c.Tasks)
	}
}

func TestDashboard_MutationsRefetch(t *testing.T) {
	src := newFakeSource()
	ctx := context.Background()
	d := NewDashboard(src)
	require.NoError(t, d.Load(ctx))

	created, err := d.CreateTask(ctx, models.TaskInput{Title: "write tests"})
	require.NoError(t, err)
	assert.False(t, d.Stale())
	assert.Equal(t, 1, columnCounts(d)[models.StatusPending])

	_, err = d.SetStatus(ctx, created.ID, models.StatusCompleted)
	require.NoError(t, err)
	counts := columnCounts(d)
	assert.Equal(t, 0, counts[models.StatusPending])
	assert.Equal(t, 1, counts[models.StatusCompleted])

	_, err = d.UpdateTask(ctx, created.ID, models.TaskInput{Title: "write more tests", Status: models.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, "write more tests", d.Tasks()[0].Title)
	assert.Equal(t, 1, columnCounts(d)[models.StatusInProgress])

	require.NoError(t, d.DeleteTask(ctx, created.ID))
	assert.Empty(t, d.Tasks())
	assert.False(t, d.Stale())
}

func TestDashboard_ChangesOutsideTheScreenAppearOnReload(t *testing.T) {
	src := newFakeSource()
	ctx := context.Background()
	d := NewDashboard(src)
	require.NoError(t, d.Load(ctx))

	// another session writes directly
	_, err := src.CreateTask(ctx, models.TaskInput{Title: "from elsewhere"})
	require.NoError(t, err)

	_, err = d.CreateTask(ctx, models.TaskInput{Title: "mine"})
	require.NoError(t, err)
	assert.Len(t, d.Tasks(), 2)
}

func TestDashboard_FailedMutationLeavesStale(t *testing.T) {
	src := newFakeSource()
	ctx := context.Background()
	d := NewDashboard(src)
	require.NoError(t, d.Load(ctx))

	src.failWrites = true
	_, err := d.CreateTask(ctx, models.TaskInput{Title: "lost"})
	var writeErr *repository.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.NotErrorIs(t, err, ErrStale)
	assert.True(t, d.Stale())

	src.failWrites = false
	require.NoError(t, d.Load(ctx))
	assert.False(t, d.Stale())
}

func TestDashboard_FailedReloadWrapsErrStale(t *testing.T) {
	src := newFakeSource()
	ctx := context.Background()
	d := NewDashboard(src)
	require.NoError(t, d.Load(ctx))

	src.failList = true
	created, err := d.CreateTask(ctx, models.TaskInput{Title: "saved but not shown"})
	require.NotNil(t, created)
	assert.ErrorIs(t, err, ErrStale)

	var readErr *repository.ReadError
	assert.ErrorAs(t, err, &readErr)
	assert.True(t, d.Stale())
	assert.Empty(t, d.Tasks(), "old data is kept until a reload succeeds")

	src.failList = false
	require.NoError(t, d.Load(ctx))
	assert.Len(t, d.Tasks(), 1)
}
