// Package baseline implements the portfolio baseline governance engine:
// the versioned configuration ("constitution") a portfolio must author,
// validate, and publish before any case may be evaluated against it.
package baseline

// VersionStatus represents baseline version lifecycle states.
type VersionStatus string

const (
	StatusDraft           VersionStatus = "DRAFT"
	StatusPendingApproval VersionStatus = "PENDING_APPROVAL"
	StatusPublished       VersionStatus = "PUBLISHED"
	StatusArchived        VersionStatus = "ARCHIVED"
	StatusRejected        VersionStatus = "REJECTED"
)

// ModuleType identifies one of the six baseline modules.
type ModuleType string

const (
	ModuleMandates              ModuleType = "MANDATES"
	ModuleExclusions            ModuleType = "EXCLUSIONS"
	ModuleRiskAppetite          ModuleType = "RISK_APPETITE"
	ModuleGovernanceThresholds  ModuleType = "GOVERNANCE_THRESHOLDS"
	ModuleReportingObligations  ModuleType = "REPORTING_OBLIGATIONS"
	ModuleEvidenceAdmissibility ModuleType = "EVIDENCE_ADMISSIBILITY"
)

// AllModuleTypes lists every module a baseline version owns, in display order.
var AllModuleTypes = []ModuleType{
	ModuleMandates,
	ModuleExclusions,
	ModuleRiskAppetite,
	ModuleGovernanceThresholds,
	ModuleReportingObligations,
	ModuleEvidenceAdmissibility,
}

// RequiredModuleTypes are the modules that must be complete before publish.
var RequiredModuleTypes = []ModuleType{
	ModuleMandates,
	ModuleGovernanceThresholds,
}

// IsKnownModuleType reports whether t names one of the six module kinds.
func IsKnownModuleType(t ModuleType) bool {
	for _, m := range AllModuleTypes {
		if m == t {
			return true
		}
	}
	return false
}

// PortfolioKind classifies the governed entity.
type PortfolioKind string

const (
	PortfolioFund     PortfolioKind = "FUND"
	PortfolioBook     PortfolioKind = "BOOK"
	PortfolioPipeline PortfolioKind = "PIPELINE"
)

// Portfolio is the API-facing shape of a governed portfolio.
type Portfolio struct {
	ID                      string        `json:"id"`
	CompanyID               string        `json:"companyId"`
	Name                    string        `json:"name"`
	Kind                    PortfolioKind `json:"kind"`
	ActiveBaselineVersionID string        `json:"activeBaselineVersionId,omitempty"`
	CreatedAt               string        `json:"createdAt,omitempty"` // RFC3339
	UpdatedAt               string        `json:"updatedAt,omitempty"`
}

// BaselineVersion is the API-facing shape of one baseline version.
type BaselineVersion struct {
	ID              string        `json:"id"`
	PortfolioID     string        `json:"portfolioId"`
	VersionNumber   int           `json:"versionNumber"`
	Status          VersionStatus `json:"status"`
	SchemaVersion   int           `json:"schemaVersion"`
	ParentVersionID string        `json:"parentVersionId,omitempty"`
	ContentHash     string        `json:"contentHash,omitempty"`
	ChangeSummary   string        `json:"changeSummary,omitempty"`
	CreatedBy       string        `json:"createdBy,omitempty"`
	CreatedAt       string        `json:"createdAt,omitempty"`
	SubmittedBy     string        `json:"submittedBy,omitempty"`
	SubmittedAt     string        `json:"submittedAt,omitempty"`
	RejectedBy      string        `json:"rejectedBy,omitempty"`
	RejectedAt      string        `json:"rejectedAt,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	PublishedBy     string        `json:"publishedBy,omitempty"`
	PublishedAt     string        `json:"publishedAt,omitempty"`
	Modules         []Module      `json:"modules,omitempty"`
}

// Module is the API-facing shape of one module of a baseline version.
type Module struct {
	ModuleType       ModuleType   `json:"moduleType"`
	Payload          any          `json:"payload"`
	IsValid          bool         `json:"isValid"`
	IsComplete       bool         `json:"isComplete"`
	ValidationErrors []Diagnostic `json:"validationErrors,omitempty"`
}

// VersionList is a paginated list of baseline versions.
type VersionList struct {
	Versions      []BaselineVersion `json:"versions"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
	TotalSize     int               `json:"totalSize"`
}

// AuditEvent is the API-facing shape of one audit trail entry.
type AuditEvent struct {
	ID            string         `json:"id"`
	CorrelationID string         `json:"correlationId,omitempty"`
	EventType     string         `json:"eventType"`
	Actor         string         `json:"actor"`
	PortfolioID   string         `json:"portfolioId,omitempty"`
	VersionID     string         `json:"versionId,omitempty"`
	Action        string         `json:"action,omitempty"`
	Outcome       string         `json:"outcome"`
	Reason        string         `json:"reason,omitempty"`
	OldValue      map[string]any `json:"oldValue,omitempty"`
	NewValue      map[string]any `json:"newValue,omitempty"`
	CreatedAt     string         `json:"createdAt"`
}

// AuditEventList is a paginated list of audit events.
type AuditEventList struct {
	Events        []AuditEvent `json:"events"`
	NextPageToken string       `json:"nextPageToken,omitempty"`
	TotalSize     int          `json:"totalSize"`
}
