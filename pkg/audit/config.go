// Package audit provides HTTP audit capture and retention for the
// governance server. Domain lifecycle events are written by the baseline
// handlers; this package adds request-level capture for mutating calls and
// the retention sweep that keeps the trail bounded.
package audit

import (
	"os"
	"strconv"
	"strings"
)

// AuditConfig holds configuration for HTTP audit capture.
type AuditConfig struct {
	// Enabled controls whether request audit capture is active.
	Enabled bool

	// LogDenied controls whether denied (4xx) actions are recorded.
	LogDenied bool

	// RetentionDays controls how many days of audit events to keep.
	RetentionDays int
}

// DefaultAuditConfig returns an AuditConfig with sensible defaults.
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		Enabled:       true,
		LogDenied:     true,
		RetentionDays: 365,
	}
}

// AuditConfigFromEnv reads audit configuration from environment variables,
// falling back to defaults for any unset variable.
//
// Environment variables:
//   - GOVERNANCE_AUDIT_ENABLED: "true" or "false" (default: "true")
//   - GOVERNANCE_AUDIT_LOG_DENIED: "true" or "false" (default: "true")
//   - GOVERNANCE_AUDIT_RETENTION_DAYS: days to keep events (default: 365)
func AuditConfigFromEnv() *AuditConfig {
	cfg := DefaultAuditConfig()

	if v := os.Getenv("GOVERNANCE_AUDIT_ENABLED"); v != "" {
		cfg.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("GOVERNANCE_AUDIT_LOG_DENIED"); v != "" {
		cfg.LogDenied = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("GOVERNANCE_AUDIT_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days >= 0 {
			cfg.RetentionDays = days
		}
	}

	return cfg
}
