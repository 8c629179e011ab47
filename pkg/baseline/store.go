package baseline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PortfolioStore provides CRUD operations for portfolio records.
type PortfolioStore struct {
	db *gorm.DB
}

// NewPortfolioStore creates a new PortfolioStore.
func NewPortfolioStore(db *gorm.DB) *PortfolioStore {
	return &PortfolioStore{db: db}
}

// AutoMigrate creates or updates all baseline governance tables.
func (s *PortfolioStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&PortfolioRecord{}); err != nil {
		return fmt.Errorf("auto-migrate portfolios: %w", err)
	}
	if err := s.db.AutoMigrate(&BaselineVersionRecord{}); err != nil {
		return fmt.Errorf("auto-migrate baseline_versions: %w", err)
	}
	if err := s.db.AutoMigrate(&BaselineModuleRecord{}); err != nil {
		return fmt.Errorf("auto-migrate baseline_modules: %w", err)
	}
	if err := s.db.AutoMigrate(&GovernanceAuditRecord{}); err != nil {
		return fmt.Errorf("auto-migrate governance_audit_events: %w", err)
	}
	return nil
}

// Create inserts a new portfolio record. A missing ID is generated.
func (s *PortfolioStore) Create(record *PortfolioRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CompanyID == "" {
		record.CompanyID = "default"
	}
	if record.Kind == "" {
		record.Kind = string(PortfolioFund)
	}
	if err := s.db.Create(record).Error; err != nil {
		return fmt.Errorf("create portfolio: %w", err)
	}
	return nil
}

// Get retrieves a portfolio by company and id.
// Returns nil, nil if no record exists.
func (s *PortfolioStore) Get(companyID, id string) (*PortfolioRecord, error) {
	if companyID == "" {
		companyID = "default"
	}
	var record PortfolioRecord
	err := s.db.Where("company_id = ? AND id = ?", companyID, id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	return &record, nil
}

// GetAny retrieves a portfolio by id regardless of company. Used by guards
// that must distinguish "not found" from "cross-tenant access".
func (s *PortfolioStore) GetAny(id string) (*PortfolioRecord, error) {
	var record PortfolioRecord
	err := s.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	return &record, nil
}

// List returns paginated portfolios for a company, ordered by created_at DESC.
// pageToken is an RFC3339Nano timestamp; records created before it are
// returned.
func (s *PortfolioStore) List(companyID string, pageSize int, pageToken string) ([]PortfolioRecord, string, int, error) {
	if companyID == "" {
		companyID = "default"
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var totalSize int64
	if err := s.db.Model(&PortfolioRecord{}).Where("company_id = ?", companyID).Count(&totalSize).Error; err != nil {
		return nil, "", 0, fmt.Errorf("count portfolios: %w", err)
	}

	query := s.db.Where("company_id = ?", companyID).Order("created_at DESC").Limit(pageSize + 1)
	if pageToken != "" {
		t, err := time.Parse(time.RFC3339Nano, pageToken)
		if err != nil {
			return nil, "", 0, fmt.Errorf("invalid page token: %w", err)
		}
		query = query.Where("created_at < ?", t)
	}

	var records []PortfolioRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, "", 0, fmt.Errorf("list portfolios: %w", err)
	}

	var nextToken string
	if len(records) > pageSize {
		nextToken = records[pageSize-1].CreatedAt.Format(time.RFC3339Nano)
		records = records[:pageSize]
	}

	return records, nextToken, int(totalSize), nil
}
