// internal/repository/sql_user_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/models"
)

// SQLUserRepository stores accounts in the users table
type SQLUserRepository struct {
	db     *sqlx.DB
	clock  Clock
	logger logrus.FieldLogger
}

// NewSQLUserRepository creates a user repository on top of an open database
func NewSQLUserRepository(db *sqlx.DB, opts ...Option) *SQLUserRepository {
	o := buildOptions(opts)
	return &SQLUserRepository{
		db:     db,
		clock:  o.clock,
		logger: o.logger.WithField("store", "sql"),
	}
}

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

// Create inserts a new user. Emails are stored lower-cased.
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := r.clock.storeTime()
	row := userRow{
		ID:           uuid.NewString(),
		Name:         user.Name,
		Email:        strings.ToLower(user.Email),
		PasswordHash: user.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (:id, :name, :email, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		r.logger.WithFields(logrus.Fields{"op": "create_user", "error": err}).Error("insert user failed")
		return nil, writeErr("create_user", err)
	}

	return row.toModel(), nil
}

// GetByID loads a user by id
func (r *SQLUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, "id", id)
}

// GetByEmail loads a user by email, case-insensitively
func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", strings.ToLower(email))
}

func (r *SQLUserRepository) getOne(ctx context.Context, column, value string) (*models.User, error) {
	query := r.db.Rebind(fmt.Sprintf(
		`SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE %s = ?`, column))

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		r.logger.WithFields(logrus.Fields{"op": "get_user", "by": column, "error": err}).Error("select user failed")
		return nil, readErr("get_user", err)
	}

	return row.toModel(), nil
}

// isUniqueViolation detects duplicate-key errors from both supported drivers
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
