// Package audit provides security audit logging for SIEM consumption.
// It logs security-relevant events in structured JSON format for easy parsing
// and integration with security information and event management systems.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventSQLInjectionAttempt is logged when libinjection flags user input.
	EventSQLInjectionAttempt SecurityEventType = "sql_injection_attempt"
	// EventAccessDenied is logged when a caller targets a resource they do not own
	// (or that does not exist; the two are not distinguished).
	EventAccessDenied SecurityEventType = "access_denied"
	// EventAuthFailure is logged for rejected sign-in attempts.
	EventAuthFailure SecurityEventType = "auth_failure"
)

// SecurityEvent represents an auditable security event.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Resource  string            `json:"resource,omitempty"`
	Details   any               `json:"details"`
	Severity  string            `json:"severity"` // info, warning, critical
}

// InjectionDetails contains specifics of a flagged input.
type InjectionDetails struct {
	ParamName   string `json:"param_name"`
	ParamValue  string `json:"param_value"`
	Fingerprint string `json:"fingerprint"`
	Operation   string `json:"operation"`
}

// SecurityAuditor logs security events under the "security_audit" logger name.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor with a dedicated logger namespace.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// LogInjectionAttempt records input that libinjection flagged. The input
// was still handled through parameterized SQL; this is an alerting signal.
func (a *SecurityAuditor) LogInjectionAttempt(userID uuid.UUID, details InjectionDetails) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventSQLInjectionAttempt,
		UserID:    userID.String(),
		Details:   details,
		Severity:  "critical",
	}

	// Marshaling known types cannot fail.
	eventJSON, _ := json.Marshal(event)

	a.logger.Error("SQL injection attempt detected",
		zap.String("event_json", string(eventJSON)),
		zap.String("user_id", event.UserID),
		zap.String("param_name", details.ParamName),
		zap.String("fingerprint", details.Fingerprint),
		zap.String("operation", details.Operation),
		zap.String("severity", event.Severity),
	)
}

// LogAccessDenied records an operation that failed the ownership check.
func (a *SecurityAuditor) LogAccessDenied(userID uuid.UUID, operation, resource string) {
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventAccessDenied,
		UserID:    userID.String(),
		Resource:  resource,
		Details:   map[string]string{"operation": operation},
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Access denied",
		zap.String("event_json", string(eventJSON)),
		zap.String("user_id", event.UserID),
		zap.String("operation", operation),
		zap.String("resource", resource),
		zap.String("severity", event.Severity),
	)
}

// LogAuthFailure records a rejected sign-in. Only the email is logged.
// clientIP is the connection peer; forwardedFor is the client-supplied
// X-Forwarded-For value, recorded verbatim and never trusted.
func (a *SecurityAuditor) LogAuthFailure(email, clientIP, forwardedFor string) {
	details := map[string]string{
		"email":     email,
		"client_ip": clientIP,
	}
	if forwardedFor != "" {
		details["forwarded_for"] = forwardedFor
	}
	event := SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: EventAuthFailure,
		Details:   details,
		Severity:  "warning",
	}

	eventJSON, _ := json.Marshal(event)

	a.logger.Warn("Authentication failed",
		zap.String("event_json", string(eventJSON)),
		zap.String("email", email),
		zap.String("client_ip", clientIP),
		zap.String("forwarded_for", forwardedFor),
		zap.String("severity", event.Severity),
	)
}
