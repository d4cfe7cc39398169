// internal/repository/sql_task_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/models"
)

const taskColumns = `id, user_id, title, description, status, priority, due_date, created_at, updated_at`

// SQLTaskRepository stores tasks in a relational table partitioned by user_id.
// It works with any sqlx driver whose bind type sqlx knows (postgres, sqlite3).
type SQLTaskRepository struct {
	db     *sqlx.DB
	clock  Clock
	logger logrus.FieldLogger
}

// NewSQLTaskRepository creates a task repository on top of an open database
func NewSQLTaskRepository(db *sqlx.DB, opts ...Option) *SQLTaskRepository {
	o := buildOptions(opts)
	return &SQLTaskRepository{
		db:     db,
		clock:  o.clock,
		logger: o.logger.WithField("store", "sql"),
	}
}

type taskRow struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Status      string       `db:"status"`
	Priority    string       `db:"priority"`
	DueDate     sql.NullTime `db:"due_date"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}

func newTaskRow(t *models.Task) taskRow {
	row := taskRow{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if due := models.NormalizeDate(t.DueDate); due != nil {
		row.DueDate = sql.NullTime{Time: *due, Valid: true}
	}
	return row
}

func (r taskRow) toModel() *models.Task {
	t := &models.Task{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Status:      models.Status(r.Status),
		Priority:    models.Priority(r.Priority),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.DueDate.Valid {
		t.DueDate = models.NormalizeDate(&r.DueDate.Time)
	}
	return t
}

// Create inserts a new task with a generated id
func (r *SQLTaskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	created := task.Clone()
	created.ID = uuid.NewString()
	now := r.clock.storeTime()
	created.CreatedAt = now
	created.UpdatedAt = now
	created.DueDate = models.NormalizeDate(created.DueDate)

	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (:id, :user_id, :title, :description, :status, :priority, :due_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, newTaskRow(created)); err != nil {
		r.logger.WithFields(logrus.Fields{"op": "create", "user_id": task.UserID, "error": err}).Error("insert task failed")
		return nil, writeErr("create", err)
	}

	return created, nil
}

// ListByUser returns all tasks in the user's partition, newest first
func (r *SQLTaskRepository) ListByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ? ORDER BY created_at DESC`)

	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		r.logger.WithFields(logrus.Fields{"op": "list", "user_id": userID, "error": err}).Error("select tasks failed")
		return nil, readErr("list", err)
	}

	tasks := make([]*models.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toModel())
	}
	sortNewestFirst(tasks)
	return tasks, nil
}

// GetByID loads a single task from the user's partition
func (r *SQLTaskRepository) GetByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ? AND user_id = ?`)

	var row taskRow
	if err := r.db.GetContext(ctx, &row, query, taskID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get task %s: %w", taskID, ErrTaskNotFound)
		}
		r.logger.WithFields(logrus.Fields{"op": "get", "user_id": userID, "task_id": taskID, "error": err}).Error("select task failed")
		return nil, readErr("get", err)
	}

	return row.toModel(), nil
}

// Update overwrites the editable fields of an existing task
func (r *SQLTaskRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	updated := task.Clone()
	updated.DueDate = models.NormalizeDate(updated.DueDate)

	query := `UPDATE tasks
		SET title = :title, description = :description, status = :status,
			priority = :priority, due_date = :due_date, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`
	stamp, err := r.stampedUpdate(ctx, "update", task.UserID, task.ID, func(tx *sqlx.Tx, stamp time.Time) (sql.Result, error) {
		updated.UpdatedAt = stamp
		return tx.NamedExecContext(ctx, query, newTaskRow(updated))
	})
	if err != nil {
		return nil, err
	}

	updated.UpdatedAt = stamp
	return updated, nil
}

// UpdateStatus changes only the status and UpdatedAt of a task
func (r *SQLTaskRepository) UpdateStatus(ctx context.Context, userID, taskID string, status models.Status) error {
	query := r.db.Rebind(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`)

	_, err := r.stampedUpdate(ctx, "update_status", userID, taskID, func(tx *sqlx.Tx, stamp time.Time) (sql.Result, error) {
		return tx.ExecContext(ctx, query, string(status), stamp, taskID, userID)
	})
	return err
}

// stampedUpdate reads the stored updated_at and runs write with a stamp
// strictly later than it, in one transaction. On PostgreSQL the row is
// locked between the read and the write.
func (r *SQLTaskRepository) stampedUpdate(
	ctx context.Context,
	op, userID, taskID string,
	write func(tx *sqlx.Tx, stamp time.Time) (sql.Result, error),
) (time.Time, error) {
	fields := logrus.Fields{"op": op, "user_id": userID, "task_id": taskID}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.WithFields(fields).WithError(err).Error("begin transaction failed")
		return time.Time{}, writeErr(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT updated_at FROM tasks WHERE id = ? AND user_id = ?`
	if r.db.DriverName() == "postgres" {
		query += ` FOR UPDATE`
	}

	var prev time.Time
	if err := tx.GetContext(ctx, &prev, tx.Rebind(query), taskID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, writeErr(op, ErrTaskNotFound)
		}
		r.logger.WithFields(fields).WithError(err).Error("select task for update failed")
		return time.Time{}, writeErr(op, err)
	}

	stamp := r.clock.nextStamp(prev)
	res, err := write(tx, stamp)
	if err != nil {
		r.logger.WithFields(fields).WithError(err).Error("update task failed")
		return time.Time{}, writeErr(op, err)
	}
	if err := requireRow(res); err != nil {
		return time.Time{}, writeErr(op, err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.WithFields(fields).WithError(err).Error("commit update failed")
		return time.Time{}, writeErr(op, err)
	}
	return stamp, nil
}

// Delete removes a task; a missing row is not an error
func (r *SQLTaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	query := r.db.Rebind(`DELETE FROM tasks WHERE id = ? AND user_id = ?`)

	if _, err := r.db.ExecContext(ctx, query, taskID, userID); err != nil {
		r.logger.WithFields(logrus.Fields{"op": "delete", "user_id": userID, "task_id": taskID, "error": err}).Error("delete task failed")
		return writeErr("delete", err)
	}

	return nil
}

// requireRow turns a zero-row update into ErrTaskNotFound
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
