// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// SignUpInput is the registration form
type SignUpInput struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful sign-in or refresh
type Session struct {
	User             *models.User `json:"user"`
	AccessToken      string       `json:"accessToken"`
	RefreshToken     string       `json:"refreshToken"`
	ExpiresAt        time.Time    `json:"expiresAt"`
	RefreshExpiresAt time.Time    `json:"refreshExpiresAt"`
}

// AuthService is the identity provider: accounts, sessions and token checks
type AuthService struct {
	users           repository.UserRepository
	tokenManager    *auth.TokenManager
	passwordManager *auth.PasswordManager
	revocations     auth.RevocationList
	security        *SecurityLogger
	logger          logrus.FieldLogger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users repository.UserRepository,
	tokenManager *auth.TokenManager,
	passwordManager *auth.PasswordManager,
	revocations auth.RevocationList,
	logger logrus.FieldLogger,
) *AuthService {
	if revocations == nil {
		revocations = auth.NewMemoryRevocationList()
	}
	return &AuthService{
		users:           users,
		tokenManager:    tokenManager,
		passwordManager: passwordManager,
		revocations:     revocations,
		security:        NewSecurityLogger(logger),
		logger:          logger.WithField("component", "auth_service"),
	}
}

// SignUp creates a new account. It does not sign the user in.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	// Validate request
	if err := models.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := auth.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError("email", err.Error())
	}

	// Hash password
	hash, err := s.passwordManager.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, models.NewValidationError("password", err.Error())
		}
		return nil, err
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if !errors.Is(err, repository.ErrEmailTaken) {
			s.logger.WithFields(logrus.Fields{"op": "sign_up", "error": err}).Error("create user failed")
		}
		return nil, err
	}

	s.security.LogSignUp(ctx, user)
	return user, nil
}

// SignIn checks the credentials and opens a session
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, models.NewValidationError("", "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.security.LogLoginFailed(ctx, email, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Verify password
	if err := s.passwordManager.ComparePassword(user.PasswordHash, password); err != nil {
		s.security.LogLoginFailed(ctx, email, "wrong password")
		return nil, ErrInvalidCredentials
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}

	s.security.LogLoginSuccess(ctx, user.ID)
	return session, nil
}

// Refresh exchanges a refresh token for a new session. The old refresh token
// is revoked so it can be used only once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, models.NewValidationError("refreshToken", "refresh token is required")
	}

	// Validate refresh token
	claims, err := s.tokenManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, unauthenticated("invalid refresh token", err)
	}

	// Claiming the token id revokes it; a lost claim means it was already used
	claimed, err := s.revocations.Claim(ctx, claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"op": "refresh", "error": err}).Error("claim refresh token failed")
		return nil, err
	}
	if !claimed {
		s.security.LogRefreshReuse(ctx, claims.UserID)
		return nil, unauthenticated("token rejected", auth.ErrRevokedToken)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, unauthenticated("refresh", err)
		}
		return nil, err
	}

	session, err := s.newSession(user)
	if err != nil {
		return nil, err
	}

	s.security.LogTokenRefreshed(ctx, user.ID)
	return session, nil
}

// SignOut revokes the access token on the context and, when given, the
// refresh token of the same user. An unusable refresh token is ignored.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string) error {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return repository.ErrUnauthenticated
	}

	if err := s.revocations.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return err
	}

	if refreshToken != "" {
		claims, err := s.tokenManager.ValidateRefreshToken(refreshToken)
		if err == nil && claims.UserID == identity.UserID {
			if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
				return err
			}
		}
	}

	s.security.LogSignOut(ctx, identity.UserID)
	return nil
}

// CurrentUser returns the account behind the request identity
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return nil, repository.ErrUnauthenticated
	}
	return s.users.GetByID(ctx, userID)
}

// Authenticate validates an access token and returns the identity it carries
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (auth.Identity, error) {
	claims, err := s.tokenManager.ValidateAccessToken(accessToken)
	if err != nil {
		return auth.Identity{}, unauthenticated("invalid access token", err)
	}
	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return auth.Identity{}, err
	}
	return claims.Identity(), nil
}

func (s *AuthService) checkRevoked(ctx context.Context, tokenID string) error {
	revoked, err := s.revocations.IsRevoked(ctx, tokenID)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"op": "check_revocation", "error": err}).Error("revocation lookup failed")
		return err
	}
	if revoked {
		return unauthenticated("token rejected", auth.ErrRevokedToken)
	}
	return nil
}

func (s *AuthService) newSession(user *models.User) (*Session, error) {
	// Generate tokens
	pair, err := s.tokenManager.GenerateTokenPair(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	return &Session{
		User:             user,
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresAt:        pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}, nil
}
