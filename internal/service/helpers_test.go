// internal/service/helpers_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/logging"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:", logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// tickingClock advances one millisecond per call so creation times are distinct
func tickingClock() repository.Clock {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func setupTaskService(t *testing.T) (*TaskService, repository.TaskRepository) {
	t.Helper()
	db := setupTestDB(t)
	repo := repository.NewGuardedTaskRepository(
		repository.NewSQLTaskRepository(db, repository.WithClock(tickingClock())),
	)
	return NewTaskService(repo, logging.Discard()), repo
}

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := setupTestDB(t)
	return NewAuthService(
		repository.NewSQLUserRepository(db),
		auth.NewTokenManager("access", "refresh", 15*time.Minute, time.Hour),
		auth.NewPasswordManager(auth.WithCost(bcrypt.MinCost)),
		auth.NewMemoryRevocationList(),
		logging.Discard(),
	)
}

func asUser(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID})
}
