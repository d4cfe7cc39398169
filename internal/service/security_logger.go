// internal/service/security_logger.go
package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gurkanbulca/taskboard/internal/middleware"
	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/pkg/security"
)

// SecurityLogger writes authentication audit events with the caller's client info
type SecurityLogger struct {
	logger logrus.FieldLogger
}

// NewSecurityLogger creates a new security logger
func NewSecurityLogger(logger logrus.FieldLogger) *SecurityLogger {
	return &SecurityLogger{logger: logger.WithField("component", "security")}
}

// Log records an event, filling in client info from the context
func (sl *SecurityLogger) Log(ctx context.Context, event security.Event) {
	clientInfo := middleware.GetClientInfo(ctx)
	event.IPAddress = clientInfo.IPAddress
	event.UserAgent = clientInfo.UserAgent
	event.RequestID = clientInfo.RequestID
	if event.Severity == "" {
		event.Severity = security.DefaultSeverity(event.Type)
	}

	sl.logger.WithFields(event.Fields()).Log(security.Level(event.Severity), event.Description)
}

// Convenience methods for common security events

func (sl *SecurityLogger) LogSignUp(ctx context.Context, user *models.User) {
	sl.Log(ctx, security.Event{
		Type:        security.EventTypeSignUp,
		UserID:      user.ID,
		Email:       user.Email,
		Description: "user signed up",
	})
}

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, userID string) {
	sl.Log(ctx, security.Event{
		Type:        security.EventTypeLoginSuccess,
		UserID:      userID,
		Description: "user signed in",
	})
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, reason string) {
	sl.Log(ctx, security.Event{
		Type:        security.EventTypeLoginFailed,
		Email:       email,
		Description: "sign in failed: " + reason,
	})
}

func (sl *SecurityLogger) LogTokenRefreshed(ctx context.Context, userID string) {
	sl.Log(ctx, security.Event{
		Type:        security.EventTypeTokenRefreshed,
		UserID:      userID,
		Description: "session refreshed",
	})
}

// LogRefreshReuse flags a refresh token presented after it was rotated or revoked
func (sl *SecurityLogger) LogRefreshReuse(ctx context.Context, userID string) {
	sl.Log(ctx, security.Event{
		Type:        security.EventTypeSuspiciousActivity,
		UserID:      userID,
		Description: "revoked refresh token presented",
	})
}

func (sl *SecurityLogger) LogSignOut(ctx context.Context, userID string) {
	sl.Log(ctx, security.Event{
		Type:        security.EventTypeSignOut,
		UserID:      userID,
		Description: "user signed out",
	})
}
