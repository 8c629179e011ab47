package baseline

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONPayload is a custom GORM type for a raw JSON document stored in a text
// column. Module payloads round-trip through it losslessly.
type JSONPayload json.RawMessage

// Scan implements the sql.Scanner interface for JSONPayload.
func (p *JSONPayload) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		*p = JSONPayload([]byte(v))
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*p = JSONPayload(buf)
	default:
		return fmt.Errorf("unsupported type for JSONPayload: %T", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for JSONPayload.
func (p JSONPayload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return string(p), nil
}

// MarshalJSON returns the raw document unchanged.
func (p JSONPayload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON stores the raw document unchanged.
func (p *JSONPayload) UnmarshalJSON(data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	*p = buf
	return nil
}

// JSONDiagnostics is a custom GORM type for []Diagnostic stored as JSON.
type JSONDiagnostics []Diagnostic

// Scan implements the sql.Scanner interface for JSONDiagnostics.
func (d *JSONDiagnostics) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for JSONDiagnostics: %T", value)
	}
	return json.Unmarshal(bytes, d)
}

// Value implements the driver.Valuer interface for JSONDiagnostics.
func (d JSONDiagnostics) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// JSONAny is a custom GORM type for map[string]any stored as JSON.
type JSONAny map[string]any

// Scan implements the sql.Scanner interface for JSONAny.
func (m *JSONAny) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for JSONAny: %T", value)
	}
	return json.Unmarshal(bytes, m)
}

// Value implements the driver.Valuer interface for JSONAny.
func (m JSONAny) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// PortfolioRecord stores a governed portfolio. ActiveBaselineVersionID is the
// single source of truth for which baseline governs the portfolio; it is only
// repointed inside the publish transaction.
type PortfolioRecord struct {
	ID                      string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	CompanyID               string    `gorm:"column:company_id;index:idx_portfolio_company;default:default;not null"`
	Name                    string    `gorm:"column:name;not null"`
	Kind                    string    `gorm:"column:kind;default:FUND;not null"`
	ActiveBaselineVersionID *string   `gorm:"column:active_baseline_version_id;type:varchar(36)"`
	LastVersionNumber       int       `gorm:"column:last_version_number;default:0;not null"`
	CreatedAt               time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the table name for PortfolioRecord.
func (PortfolioRecord) TableName() string { return "portfolios" }

// BaselineVersionRecord stores one baseline version. Two nullable unique
// columns back the storage-level invariants:
//   - DraftKey = portfolio id while status is DRAFT, NULL otherwise, so the
//     database rejects a second concurrent draft for the same portfolio.
//   - PublishedKey = portfolio id while status is PUBLISHED, NULL otherwise,
//     so at most one published version exists per portfolio.
type BaselineVersionRecord struct {
	ID              string     `gorm:"primaryKey;column:id;type:varchar(36)"`
	CompanyID       string     `gorm:"column:company_id;index:idx_bv_company;default:default;not null"`
	PortfolioID     string     `gorm:"column:portfolio_id;index:idx_bv_portfolio;type:varchar(36);not null"`
	VersionNumber   int        `gorm:"column:version_number;not null"`
	Status          string     `gorm:"column:status;default:DRAFT;not null"`
	SchemaVersion   int        `gorm:"column:schema_version;default:1;not null"`
	ParentVersionID *string    `gorm:"column:parent_version_id;type:varchar(36)"`
	DraftKey        *string    `gorm:"column:draft_key;uniqueIndex:idx_bv_draft_key;type:varchar(36)"`
	PublishedKey    *string    `gorm:"column:published_key;uniqueIndex:idx_bv_published_key;type:varchar(36)"`
	ContentHash     string     `gorm:"column:content_hash"`
	ChangeSummary   string     `gorm:"column:change_summary"`
	CreatedBy       string     `gorm:"column:created_by;not null"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	SubmittedBy     string     `gorm:"column:submitted_by"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at"`
	RejectedBy      string     `gorm:"column:rejected_by"`
	RejectedAt      *time.Time `gorm:"column:rejected_at"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	PublishedBy     string     `gorm:"column:published_by"`
	PublishedAt     *time.Time `gorm:"column:published_at"`
	ArchivedAt      *time.Time `gorm:"column:archived_at"`
}

// TableName sets the table name for BaselineVersionRecord.
func (BaselineVersionRecord) TableName() string { return "baseline_versions" }

// BaselineModuleRecord stores one module of a baseline version. Exactly one
// row exists per (version, module type). Derived validation state is
// recomputed and persisted on every payload write so readers never see stale
// flags.
type BaselineModuleRecord struct {
	ID               string          `gorm:"primaryKey;column:id;type:varchar(36)"`
	VersionID        string          `gorm:"column:version_id;uniqueIndex:idx_bm_version_type,priority:1;type:varchar(36);not null"`
	ModuleType       string          `gorm:"column:module_type;uniqueIndex:idx_bm_version_type,priority:2;not null"`
	Payload          JSONPayload     `gorm:"column:payload;type:text"`
	IsValid          bool            `gorm:"column:is_valid;default:true;not null"`
	IsComplete       bool            `gorm:"column:is_complete;default:false;not null"`
	ValidationErrors JSONDiagnostics `gorm:"column:validation_errors;type:text"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName sets the table name for BaselineModuleRecord.
func (BaselineModuleRecord) TableName() string { return "baseline_modules" }

// GovernanceAuditRecord is one append-only audit trail entry for a baseline
// lifecycle event.
type GovernanceAuditRecord struct {
	ID            string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	CompanyID     string    `gorm:"column:company_id;index:idx_ga_company;default:default;not null"`
	CorrelationID string    `gorm:"column:correlation_id;index:idx_ga_correlation"`
	EventType     string    `gorm:"column:event_type;index:idx_ga_event_type;not null"`
	Actor         string    `gorm:"column:actor;not null"`
	PortfolioID   string    `gorm:"column:portfolio_id;index:idx_ga_portfolio;type:varchar(36)"`
	VersionID     string    `gorm:"column:version_id;type:varchar(36)"`
	Action        string    `gorm:"column:action"`
	Outcome       string    `gorm:"column:outcome;not null"`
	Reason        string    `gorm:"column:reason"`
	OldValue      JSONAny   `gorm:"column:old_value;type:text"`
	NewValue      JSONAny   `gorm:"column:new_value;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at;index:idx_ga_created;autoCreateTime"`
}

// TableName sets the table name for GovernanceAuditRecord.
func (GovernanceAuditRecord) TableName() string { return "governance_audit_events" }

// recordToVersion converts a stored version row (plus optional module rows)
// to the API-facing shape.
func recordToVersion(rec *BaselineVersionRecord, modules []BaselineModuleRecord) BaselineVersion {
	v := BaselineVersion{
		ID:              rec.ID,
		PortfolioID:     rec.PortfolioID,
		VersionNumber:   rec.VersionNumber,
		Status:          VersionStatus(rec.Status),
		SchemaVersion:   rec.SchemaVersion,
		ContentHash:     rec.ContentHash,
		ChangeSummary:   rec.ChangeSummary,
		CreatedBy:       rec.CreatedBy,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
		SubmittedBy:     rec.SubmittedBy,
		RejectedBy:      rec.RejectedBy,
		RejectionReason: rec.RejectionReason,
		PublishedBy:     rec.PublishedBy,
	}
	if rec.ParentVersionID != nil {
		v.ParentVersionID = *rec.ParentVersionID
	}
	if rec.SubmittedAt != nil {
		v.SubmittedAt = rec.SubmittedAt.UTC().Format(time.RFC3339)
	}
	if rec.RejectedAt != nil {
		v.RejectedAt = rec.RejectedAt.UTC().Format(time.RFC3339)
	}
	if rec.PublishedAt != nil {
		v.PublishedAt = rec.PublishedAt.UTC().Format(time.RFC3339)
	}
	for _, m := range modules {
		v.Modules = append(v.Modules, Module{
			ModuleType:       ModuleType(m.ModuleType),
			Payload:          json.RawMessage(m.Payload),
			IsValid:          m.IsValid,
			IsComplete:       m.IsComplete,
			ValidationErrors: m.ValidationErrors,
		})
	}
	return v
}

// recordToAuditEvent converts an audit event record to the API type.
func recordToAuditEvent(rec GovernanceAuditRecord) AuditEvent {
	return AuditEvent{
		ID:            rec.ID,
		CorrelationID: rec.CorrelationID,
		EventType:     rec.EventType,
		Actor:         rec.Actor,
		PortfolioID:   rec.PortfolioID,
		VersionID:     rec.VersionID,
		Action:        rec.Action,
		Outcome:       rec.Outcome,
		Reason:        rec.Reason,
		OldValue:      rec.OldValue,
		NewValue:      rec.NewValue,
		CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// recordToPortfolio converts a stored portfolio row to the API-facing shape.
func recordToPortfolio(rec *PortfolioRecord) Portfolio {
	p := Portfolio{
		ID:        rec.ID,
		CompanyID: rec.CompanyID,
		Name:      rec.Name,
		Kind:      PortfolioKind(rec.Kind),
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if rec.ActiveBaselineVersionID != nil {
		p.ActiveBaselineVersionID = *rec.ActiveBaselineVersionID
	}
	return p
}
