// internal/service/auth_service_test.go
package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

func signUpAda(t *testing.T, svc *AuthService) *models.User {
	t.Helper()
	user, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "Analytical1",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_SignUp(t *testing.T) {
	tests := []struct {
		name    string
		input   SignUpInput
		field   string
		wantErr error
	}{
		{
			name:  "successful registration",
			input: SignUpInput{Name: "Grace", Email: "grace@example.com", Password: "Compiler1"},
		},
		{
			name:  "short name",
			input: SignUpInput{Name: "Al", Email: "al@example.com", Password: "Compiler1"},
			field: "name",
		},
		{
			name:  "invalid email",
			input: SignUpInput{Name: "Grace", Email: "grace@", Password: "Compiler1"},
			field: "email",
		},
		{
			name:  "weak password",
			input: SignUpInput{Name: "Grace", Email: "grace@example.com", Password: "password"},
			field: "password",
		},
		{
			name:    "duplicate email",
			input:   SignUpInput{Name: "Imposter", Email: "ADA@example.com", Password: "Compiler1"},
			wantErr: repository.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setupAuthService(t)
			signUpAda(t, svc)

			user, err := svc.SignUp(context.Background(), tt.input)
			switch {
			case tt.field != "":
				var verr *models.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.field, verr.Field)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, user.ID)
				assert.Equal(t, "grace@example.com", user.Email)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			}
		})
	}
}

func TestAuthService_SignIn(t *testing.T) {
	svc := setupAuthService(t)
	ada := signUpAda(t, svc)
	ctx := context.Background()

	session, err := svc.SignIn(ctx, "ada@example.com", "Analytical1")
	require.NoError(t, err)
	assert.Equal(t, ada.ID, session.User.ID)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.True(t, session.RefreshExpiresAt.After(session.ExpiresAt))

	identity, err := svc.Authenticate(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ada.ID, identity.UserID)
	assert.Equal(t, "Ada Lovelace", identity.Name)

	_, err = svc.SignIn(ctx, "ada@example.com", "Wrong12345")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)

	_, err = svc.SignIn(ctx, "nobody@example.com", "Analytical1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "", "")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc := setupAuthService(t)
	ada := signUpAda(t, svc)

	session, err := svc.SignIn(context.Background(), "ada@example.com", "Analytical1")
	require.NoError(t, err)
	identity, err := svc.Authenticate(context.Background(), session.AccessToken)
	require.NoError(t, err)

	user, err := svc.CurrentUser(auth.WithIdentity(context.Background(), identity))
	require.NoError(t, err)
	assert.Equal(t, ada.ID, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)

	_, err = svc.CurrentUser(context.Background())
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)
}

func TestAuthService_Refresh(t *testing.T) {
	svc := setupAuthService(t)
	signUpAda(t, svc)
	ctx := context.Background()

	session, err := svc.SignIn(ctx, "ada@example.com", "Analytical1")
	require.NoError(t, err)

	renewed, err := svc.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken)

	_, err = svc.Authenticate(ctx, renewed.AccessToken)
	require.NoError(t, err)

	// refresh tokens are single use
	_, err = svc.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)

	// an access token is not a refresh token
	_, err = svc.Refresh(ctx, session.AccessToken)
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)
}

func TestAuthService_RefreshConcurrentReuse(t *testing.T) {
	svc := setupAuthService(t)
	signUpAda(t, svc)
	ctx := context.Background()

	session, err := svc.SignIn(ctx, "ada@example.com", "Analytical1")
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(ctx, session.RefreshToken)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, repository.ErrUnauthenticated)
	}
	assert.Equal(t, 1, succeeded, "a refresh token opens exactly one new session")
}

func TestAuthService_SignOut(t *testing.T) {
	svc := setupAuthService(t)
	signUpAda(t, svc)
	ctx := context.Background()

	session, err := svc.SignIn(ctx, "ada@example.com", "Analytical1")
	require.NoError(t, err)
	identity, err := svc.Authenticate(ctx, session.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(auth.WithIdentity(ctx, identity), session.RefreshToken))

	_, err = svc.Authenticate(ctx, session.AccessToken)
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)

	_, err = svc.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, repository.ErrUnauthenticated)

	assert.ErrorIs(t, svc.SignOut(ctx, ""), repository.ErrUnauthenticated)
}
