package baseline

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Audit event types emitted by the lifecycle handlers.
const (
	EventDraftCreated     = "baseline.draft.created"
	EventDraftDeleted     = "baseline.draft.deleted"
	EventModuleUpdated    = "baseline.module.updated"
	EventVersionSubmitted = "baseline.version.submitted"
	EventVersionPublished = "baseline.version.published"
	EventVersionRejected  = "baseline.version.rejected"
	EventVersionArchived  = "baseline.version.archived"
)

// AuditStore provides append-only operations for governance audit records.
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Append creates a new immutable audit event record.
func (s *AuditStore) Append(event *GovernanceAuditRecord) error {
	if event.CompanyID == "" {
		event.CompanyID = "default"
	}
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListByPortfolio returns paginated audit events for a portfolio, ordered by
// created_at DESC (newest first). pageToken is an RFC3339Nano timestamp;
// events created before it are returned.
func (s *AuditStore) ListByPortfolio(portfolioID string, pageSize int, pageToken string) ([]GovernanceAuditRecord, string, int, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var totalSize int64
	if err := s.db.Model(&GovernanceAuditRecord{}).Where("portfolio_id = ?", portfolioID).Count(&totalSize).Error; err != nil {
		return nil, "", 0, fmt.Errorf("count audit events: %w", err)
	}

	query := s.db.Where("portfolio_id = ?", portfolioID).Order("created_at DESC").Limit(pageSize + 1)
	if pageToken != "" {
		t, err := time.Parse(time.RFC3339Nano, pageToken)
		if err != nil {
			return nil, "", 0, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.Where("created_at < ?", t)
	}

	var records []GovernanceAuditRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, "", 0, fmt.Errorf("list audit events: %w", err)
	}

	var nextToken string
	if len(records) > pageSize {
		nextToken = records[pageSize-1].CreatedAt.Format(time.RFC3339Nano)
		records = records[:pageSize]
	}

	return records, nextToken, int(totalSize), nil
}

// ListAll returns paginated audit events across all portfolios of a company,
// ordered by created_at DESC. Optionally filters by event type.
func (s *AuditStore) ListAll(companyID string, pageSize int, pageToken string, filterEventType string) ([]GovernanceAuditRecord, string, int, error) {
	if companyID == "" {
		companyID = "default"
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	baseQuery := s.db.Model(&GovernanceAuditRecord{}).Where("company_id = ?", companyID)
	if filterEventType != "" {
		baseQuery = baseQuery.Where("event_type = ?", filterEventType)
	}

	var totalSize int64
	if err := baseQuery.Count(&totalSize).Error; err != nil {
		return nil, "", 0, fmt.Errorf("count audit events: %w", err)
	}

	query := s.db.Where("company_id = ?", companyID).Order("created_at DESC").Limit(pageSize + 1)
	if filterEventType != "" {
		query = query.Where("event_type = ?", filterEventType)
	}
	if pageToken != "" {
		t, err := time.Parse(time.RFC3339Nano, pageToken)
		if err != nil {
			return nil, "", 0, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.Where("created_at < ?", t)
	}

	var records []GovernanceAuditRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, "", 0, fmt.Errorf("list audit events: %w", err)
	}

	var nextToken string
	if len(records) > pageSize {
		nextToken = records[pageSize-1].CreatedAt.Format(time.RFC3339Nano)
		records = records[:pageSize]
	}

	return records, nextToken, int(totalSize), nil
}

// DeleteOlderThan deletes audit events created before the cutoff time.
// Returns the number of deleted records.
func (s *AuditStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&GovernanceAuditRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete old audit events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
