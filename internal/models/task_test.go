package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "pending", want: StatusPending},
		{in: "in-progress", want: StatusInProgress},
		{in: " completed ", want: StatusCompleted},
		{in: "in_progress", wantErr: true},
		{in: "cancelled", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriority(t *testing.T) {
	got, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, got)

	got, err = ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, got)

	_, err = ParsePriority("critical")
	assert.Error(t, err)
}

func TestCanTransition_AllowsEveryPair(t *testing.T) {
	for _, from := range Statuses {
		for _, to := range Statuses {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition(StatusPending, Status("archived")))
	assert.False(t, CanTransition(Status("archived"), StatusPending))
}

func TestTaskInput_NormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     TaskInput
		wantField string
	}{
		{
			name:  "defaults applied",
			input: TaskInput{Title: "Buy milk"},
		},
		{
			name:      "blank title",
			input:     TaskInput{Title: "   "},
			wantField: "title",
		},
		{
			name:      "title too long",
			input:     TaskInput{Title: strings.Repeat("a", MaxTitleLength+1)},
			wantField: "title",
		},
		{
			name:  "title at limit counts runes",
			input: TaskInput{Title: strings.Repeat("é", MaxTitleLength)},
		},
		{
			name:      "description too long",
			input:     TaskInput{Title: "ok", Description: strings.Repeat("d", MaxDescriptionLength+1)},
			wantField: "description",
		},
		{
			name:      "unknown status",
			input:     TaskInput{Title: "ok", Status: "done"},
			wantField: "status",
		},
		{
			name:      "unknown priority",
			input:     TaskInput{Title: "ok", Priority: "urgent"},
			wantField: "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input.Normalize()
			err := in.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, StatusPending, in.Status)
				assert.NotEmpty(t, in.Priority)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestTaskInput_NormalizeDefaults(t *testing.T) {
	in := TaskInput{Title: "  Buy milk  "}.Normalize()
	assert.Equal(t, "Buy milk", in.Title)
	assert.Equal(t, StatusPending, in.Status)
	assert.Equal(t, PriorityMedium, in.Priority)
}

func TestNormalizeDate(t *testing.T) {
	assert.Nil(t, NormalizeDate(nil))
	assert.Nil(t, NormalizeDate(&time.Time{}))

	in := time.Date(2025, 3, 14, 17, 45, 12, 99, time.FixedZone("X", 3*3600))
	got := NormalizeDate(&in)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), *got)
}

func TestTaskJSON_DueDate(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:       "t1",
		Title:    "Pay rent",
		Status:   StatusPending,
		Priority: PriorityHigh,
		DueDate:  &due,
		UserID:   "u1",
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dueDate":"2025-06-01"`)
	assert.Contains(t, string(data), `"status":"pending"`)

	var decoded Task
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.DueDate)
	assert.True(t, due.Equal(*decoded.DueDate))
	assert.Equal(t, "Pay rent", decoded.Title)

	task.DueDate = nil
	data, err = json.Marshal(task)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dueDate")
}

func TestTaskInputJSON_InvalidDueDate(t *testing.T) {
	var in TaskInput
	err := json.Unmarshal([]byte(`{"title":"x","dueDate":"next tuesday"}`), &in)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "dueDate", verr.Field)

	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","dueDate":"2025-01-31T22:00:00Z"}`), &in))
	require.NotNil(t, in.DueDate)
	assert.Equal(t, "2025-01-31", in.DueDate.Format(DateLayout))
}

func TestTask_CloneAndApply(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	task := &Task{ID: "t1", UserID: "u1", Title: "a", DueDate: &due, CreatedAt: created}

	c := task.Clone()
	*c.DueDate = c.DueDate.AddDate(0, 0, 1)
	assert.Equal(t, due, *task.DueDate)

	c.Apply(TaskInput{Title: "b", Status: StatusCompleted, Priority: PriorityLow})
	assert.Equal(t, "t1", c.ID)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, created, c.CreatedAt)
	assert.Equal(t, "b", c.Title)
	assert.Nil(t, c.DueDate)
}
