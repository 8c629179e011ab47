package main

import "encoding/json"

// API response shapes. These mirror the server's JSON envelopes; only the
// fields the CLI renders are declared.

type portfolio struct {
	ID                      string `json:"id"`
	CompanyID               string `json:"companyId"`
	Name                    string `json:"name"`
	Kind                    string `json:"kind"`
	ActiveBaselineVersionID string `json:"activeBaselineVersionId"`
	CreatedAt               string `json:"createdAt"`
}

type portfolioList struct {
	Portfolios    []portfolio `json:"portfolios"`
	NextPageToken string      `json:"nextPageToken"`
	TotalSize     int         `json:"totalSize"`
}

type diagnostic struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
}

type module struct {
	ModuleType       string          `json:"moduleType"`
	Payload          json.RawMessage `json:"payload"`
	IsValid          bool            `json:"isValid"`
	IsComplete       bool            `json:"isComplete"`
	ValidationErrors []diagnostic    `json:"validationErrors"`
}

type baselineVersion struct {
	ID              string   `json:"id"`
	PortfolioID     string   `json:"portfolioId"`
	VersionNumber   int      `json:"versionNumber"`
	Status          string   `json:"status"`
	SchemaVersion   int      `json:"schemaVersion"`
	ChangeSummary   string   `json:"changeSummary"`
	CreatedBy       string   `json:"createdBy"`
	CreatedAt       string   `json:"createdAt"`
	PublishedBy     string   `json:"publishedBy"`
	PublishedAt     string   `json:"publishedAt"`
	RejectionReason string   `json:"rejectionReason"`
	Modules         []module `json:"modules"`
}

type versionList struct {
	Versions      []baselineVersion `json:"versions"`
	NextPageToken string            `json:"nextPageToken"`
	TotalSize     int               `json:"totalSize"`
}

type moduleValidationResult struct {
	ModuleType string       `json:"moduleType"`
	IsValid    bool         `json:"isValid"`
	IsComplete bool         `json:"isComplete"`
	Errors     []diagnostic `json:"errors"`
	Warnings   []diagnostic `json:"warnings"`
}

type publishDecision struct {
	Allowed  bool     `json:"allowed"`
	Reason   string   `json:"reason"`
	Code     string   `json:"code"`
	Blockers []string `json:"blockers"`
}

type originationDecision struct {
	Allowed           bool   `json:"allowed"`
	Reason            string `json:"reason"`
	Code              string `json:"code"`
	BaselineVersionID string `json:"baselineVersionId"`
	VersionNumber     int    `json:"versionNumber"`
}

type auditEvent struct {
	ID        string `json:"id"`
	EventType string `json:"eventType"`
	Actor     string `json:"actor"`
	VersionID string `json:"versionId"`
	Action    string `json:"action"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"createdAt"`
}

type auditList struct {
	Events        []auditEvent `json:"events"`
	NextPageToken string       `json:"nextPageToken"`
	TotalSize     int          `json:"totalSize"`
}
