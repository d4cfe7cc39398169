// internal/models/task.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a task
type Status string

// Task status constants
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every valid status in board order
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Priority is the urgency of a task
type Priority string

// Priority constants
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// DateLayout is the wire format for due dates
const DateLayout = "2006-01-02"

// transitions holds the allowed status moves. Every pair is allowed;
// narrowing the workflow means removing entries here.
var transitions = map[Status]map[Status]bool{
	StatusPending:    {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
	StatusInProgress: {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
	StatusCompleted:  {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether a task may move from one status to another
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// ParseStatus converts a string into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(strings.TrimSpace(s))
	if !status.Valid() {
		return "", fmt.Errorf("invalid status %q", s)
	}
	return status, nil
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts a string into a Priority. An empty string yields medium.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityMedium, nil
	}
	priority := Priority(s)
	if !priority.Valid() {
		return "", fmt.Errorf("invalid priority %q", s)
	}
	return priority, nil
}

// Task is a unit of work owned by exactly one user
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserID      string     `json:"userId"`
}

// MarshalJSON renders the due date with date-only precision
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	return json.Marshal(struct {
		alias
		DueDate *string `json:"dueDate,omitempty"`
	}{
		alias:   alias(t),
		DueDate: FormatDate(t.DueDate),
	})
}

// UnmarshalJSON accepts a due date as YYYY-MM-DD or RFC3339
func (t *Task) UnmarshalJSON(data []byte) error {
	type alias Task
	aux := struct {
		*alias
		DueDate *string `json:"dueDate"`
	}{alias: (*alias)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	due, err := ParseDate(aux.DueDate)
	if err != nil {
		return err
	}
	t.DueDate = due
	return nil
}

// Clone returns a deep copy of the task
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return &c
}

// Apply copies the caller-editable fields of in onto the task.
// ID, UserID and CreatedAt are left alone.
func (t *Task) Apply(in TaskInput) {
	t.Title = in.Title
	t.Description = in.Description
	t.Status = in.Status
	t.Priority = in.Priority
	t.DueDate = NormalizeDate(in.DueDate)
}

// NormalizeDate strips the time of day, keeping the calendar date in UTC
func NormalizeDate(d *time.Time) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	y, m, day := d.Date()
	n := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &n
}

// FormatDate renders a due date, nil stays nil
func FormatDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(DateLayout)
	return &s
}

// ParseDate parses YYYY-MM-DD or RFC3339. Nil or empty input yields nil.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if d, err := time.Parse(DateLayout, v); err == nil {
		return NormalizeDate(&d), nil
	}
	d, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: expected %s", v, DateLayout)
	}
	return NormalizeDate(&d), nil
}
