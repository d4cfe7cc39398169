// internal/models/input.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field limits for task input
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("taskpriority", func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).Valid()
	})
	return v
}

// TaskInput carries the caller-editable fields of a task
type TaskInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Status      Status     `json:"status" validate:"taskstatus"`
	Priority    Priority   `json:"priority" validate:"taskpriority"`
	DueDate     *time.Time `json:"-"`
}

// Normalize trims the title and fills in the default status and priority
func (in TaskInput) Normalize() TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	if in.Status == "" {
		in.Status = StatusPending
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	in.DueDate = NormalizeDate(in.DueDate)
	return in
}

// Validate checks the input. Call Normalize first.
func (in TaskInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}
	return nil
}

// InputFromTask returns the editable fields of an existing task
func InputFromTask(t *Task) TaskInput {
	return TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
	}
}

// ValidateStruct runs the shared validator over any tagged struct
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}
	return nil
}

func fieldError(e validator.FieldError) *ValidationError {
	field := jsonName(e.Field())
	switch e.Tag() {
	case "required":
		return NewValidationError(field, fmt.Sprintf("%s is required", field))
	case "max":
		return NewValidationError(field, fmt.Sprintf("%s must not exceed %s characters", field, e.Param()))
	case "min":
		return NewValidationError(field, fmt.Sprintf("%s must be at least %s characters", field, e.Param()))
	case "email":
		return NewValidationError(field, "invalid email format")
	case "taskstatus":
		return NewValidationError(field, fmt.Sprintf("invalid status %q", e.Value()))
	case "taskpriority":
		return NewValidationError(field, fmt.Sprintf("invalid priority %q", e.Value()))
	default:
		return NewValidationError(field, fmt.Sprintf("%s is invalid", field))
	}
}

// jsonName lower-cases the first letter of a Go field name
func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// MarshalJSON renders the due date with date-only precision
func (in TaskInput) MarshalJSON() ([]byte, error) {
	type alias TaskInput
	return json.Marshal(struct {
		alias
		DueDate *string `json:"dueDate,omitempty"`
	}{
		alias:   alias(in),
		DueDate: FormatDate(in.DueDate),
	})
}

// UnmarshalJSON accepts a due date as YYYY-MM-DD or RFC3339
func (in *TaskInput) UnmarshalJSON(data []byte) error {
	type alias TaskInput
	aux := struct {
		*alias
		DueDate *string `json:"dueDate"`
	}{alias: (*alias)(in)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	due, err := ParseDate(aux.DueDate)
	if err != nil {
		return NewValidationError("dueDate", err.Error())
	}
	in.DueDate = due
	return nil
}
