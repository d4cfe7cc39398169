// pkg/security/event_types.go
package security

import "github.com/sirupsen/logrus"

// EventType constants for authentication audit events
const (
	EventTypeSignUp             = "sign_up"
	EventTypeLoginSuccess       = "login_success"
	EventTypeLoginFailed        = "login_failed"
	EventTypeTokenRefreshed     = "token_refreshed"
	EventTypeSignOut            = "sign_out"
	EventTypeSuspiciousActivity = "suspicious_activity"
)

// Severity constants
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Event is one security-relevant action taken by or against an account
type Event struct {
	Type        string
	Severity    string
	UserID      string
	Email       string
	Description string
	IPAddress   string
	UserAgent   string
	RequestID   string
}

// DefaultSeverity returns the severity an event type is logged with when the
// caller does not set one.
func DefaultSeverity(eventType string) string {
	switch eventType {
	case EventTypeLoginFailed:
		return SeverityMedium
	case EventTypeSuspiciousActivity:
		return SeverityHigh
	default:
		return SeverityLow
	}
}

// Level maps a severity onto a log level
func Level(severity string) logrus.Level {
	switch severity {
	case SeverityCritical, SeverityHigh:
		return logrus.ErrorLevel
	case SeverityMedium:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

// Fields renders the event for a structured log entry. Empty values are left out.
func (e Event) Fields() logrus.Fields {
	fields := logrus.Fields{
		"event_type": e.Type,
		"severity":   e.Severity,
	}
	for key, value := range map[string]string{
		"user_id":    e.UserID,
		"email":      e.Email,
		"ip":         e.IPAddress,
		"user_agent": e.UserAgent,
		"request_id": e.RequestID,
	} {
		if value != "" {
			fields[key] = value
		}
	}
	return fields
}
