package baseline

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VersionStore provides lifecycle operations for baseline versions. Every
// state-changing operation runs in one database transaction and re-checks
// its preconditions against committed state inside that transaction, so a
// caller-supplied snapshot can never authorize a stale transition.
type VersionStore struct {
	db      *gorm.DB
	machine *LifecycleMachine
}

// NewVersionStore creates a new VersionStore.
func NewVersionStore(db *gorm.DB) *VersionStore {
	return &VersionStore{db: db, machine: NewLifecycleMachine()}
}

// GetVersion retrieves a version and its module rows by version id.
// Returns nil, nil, nil if no record exists.
func (s *VersionStore) GetVersion(id string) (*BaselineVersionRecord, []BaselineModuleRecord, error) {
	var record BaselineVersionRecord
	err := s.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("get baseline version: %w", err)
	}

	var modules []BaselineModuleRecord
	if err := s.db.Where("version_id = ?", id).Order("module_type ASC").Find(&modules).Error; err != nil {
		return nil, nil, fmt.Errorf("get baseline modules: %w", err)
	}
	return &record, modules, nil
}

// FindDraft returns the portfolio's draft version, or nil if none exists.
func (s *VersionStore) FindDraft(portfolioID string) (*BaselineVersionRecord, error) {
	var record BaselineVersionRecord
	err := s.db.Where("portfolio_id = ? AND status = ?", portfolioID, string(StatusDraft)).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("find draft version: %w", err)
	}
	return &record, nil
}

// ListVersions returns paginated versions for a portfolio, ordered by
// version_number DESC (newest first). pageToken is the version number of the
// last record from the previous page; pass "" for the first page.
func (s *VersionStore) ListVersions(portfolioID string, pageSize int, pageToken string) ([]BaselineVersionRecord, string, int, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var totalSize int64
	if err := s.db.Model(&BaselineVersionRecord{}).Where("portfolio_id = ?", portfolioID).Count(&totalSize).Error; err != nil {
		return nil, "", 0, fmt.Errorf("count baseline versions: %w", err)
	}

	query := s.db.Where("portfolio_id = ?", portfolioID).Order("version_number DESC").Limit(pageSize + 1)
	if pageToken != "" {
		var after int
		if _, err := fmt.Sscanf(pageToken, "%d", &after); err != nil {
			return nil, "", 0, fmt.Errorf("invalid page token: %q", pageToken)
		}
		query = query.Where("version_number < ?", after)
	}

	var records []BaselineVersionRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, "", 0, fmt.Errorf("list baseline versions: %w", err)
	}

	var nextToken string
	if len(records) > pageSize {
		nextToken = fmt.Sprintf("%d", records[pageSize-1].VersionNumber)
		records = records[:pageSize]
	}

	return records, nextToken, int(totalSize), nil
}

// CreateDraft creates a new draft version for a portfolio with six default
// module rows. At most one draft may exist per portfolio: the check runs
// inside the transaction, and the unique draft_key index turns a losing
// concurrent insert into a rejected write. The loser receives a
// DraftConflictError naming the winning draft.
func (s *VersionStore) CreateDraft(companyID, portfolioID, actor string, parentVersionID *string, changeSummary string) (*BaselineVersionRecord, error) {
	if companyID == "" {
		companyID = "default"
	}

	var created *BaselineVersionRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var portfolio PortfolioRecord
		if err := tx.Where("company_id = ? AND id = ?", companyID, portfolioID).First(&portfolio).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &PortfolioNotFoundError{ID: portfolioID}
			}
			return fmt.Errorf("load portfolio: %w", err)
		}

		var existing BaselineVersionRecord
		err := tx.Where("portfolio_id = ? AND status = ?", portfolioID, string(StatusDraft)).First(&existing).Error
		if err == nil {
			return &DraftConflictError{ExistingDraftID: existing.ID}
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check existing draft: %w", err)
		}

		// Version numbers come from a per-portfolio counter so they are
		// never reused after deletions.
		next := portfolio.LastVersionNumber + 1
		if err := tx.Model(&PortfolioRecord{}).Where("id = ?", portfolioID).
			Update("last_version_number", next).Error; err != nil {
			return fmt.Errorf("advance version counter: %w", err)
		}

		draftKey := portfolioID
		record := &BaselineVersionRecord{
			ID:              uuid.New().String(),
			CompanyID:       companyID,
			PortfolioID:     portfolioID,
			VersionNumber:   next,
			Status:          string(StatusDraft),
			SchemaVersion:   CurrentSchemaVersion,
			ParentVersionID: parentVersionID,
			DraftKey:        &draftKey,
			ChangeSummary:   changeSummary,
			CreatedBy:       actor,
		}
		if err := tx.Create(record).Error; err != nil {
			// A concurrent transaction may have created the draft between
			// our check and the insert; the unique draft_key index rejects
			// this write. Surface the winner.
			return s.lostDraftRace(portfolioID, err)
		}

		for _, t := range AllModuleTypes {
			payload := MustDefaultPayload(t)
			res := Validate(t, payload)
			module := &BaselineModuleRecord{
				ID:               uuid.New().String(),
				VersionID:        record.ID,
				ModuleType:       string(t),
				Payload:          JSONPayload(payload),
				IsValid:          res.IsValid,
				IsComplete:       res.IsComplete,
				ValidationErrors: res.Errors,
			}
			if err := tx.Create(module).Error; err != nil {
				return fmt.Errorf("create default module %s: %w", t, err)
			}
		}

		created = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// lostDraftRace resolves the winning draft after an insert was rejected by
// the draft_key unique index. The lookup runs outside the aborted
// transaction: by the time the constraint fires, the winner has committed.
func (s *VersionStore) lostDraftRace(portfolioID string, cause error) error {
	var winner BaselineVersionRecord
	lookupErr := s.db.Where("portfolio_id = ? AND status = ?", portfolioID, string(StatusDraft)).First(&winner).Error
	if lookupErr == nil {
		return &DraftConflictError{ExistingDraftID: winner.ID}
	}
	return fmt.Errorf("create draft version: %w", cause)
}

// UpdateModulePayload replaces one module's payload on a draft version,
// revalidates it, and persists the derived flags. Versions that have left
// DRAFT are immutable.
func (s *VersionStore) UpdateModulePayload(versionID string, moduleType ModuleType, payload json.RawMessage) (*ModuleValidationResult, error) {
	if !IsKnownModuleType(moduleType) {
		return nil, fmt.Errorf("unknown module type: %s", moduleType)
	}

	var result ModuleValidationResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var version BaselineVersionRecord
		if err := tx.Where("id = ?", versionID).First(&version).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &VersionNotFoundError{ID: versionID}
			}
			return fmt.Errorf("load version: %w", err)
		}
		if !s.machine.IsMutable(VersionStatus(version.Status)) {
			return &ImmutableVersionError{ID: versionID, Status: VersionStatus(version.Status)}
		}

		result = Validate(moduleType, payload)
		updates := map[string]any{
			"payload":           JSONPayload(payload),
			"is_valid":          result.IsValid,
			"is_complete":       result.IsComplete,
			"validation_errors": JSONDiagnostics(result.Errors),
		}
		res := tx.Model(&BaselineModuleRecord{}).
			Where("version_id = ? AND module_type = ?", versionID, string(moduleType)).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update module payload: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("module %s not found on version %s", moduleType, versionID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitForApproval transitions a draft to PENDING_APPROVAL. All modules
// must be free of ERROR diagnostics; completeness is checked at publish.
func (s *VersionStore) SubmitForApproval(versionID, actor string) (*BaselineVersionRecord, error) {
	var updated *BaselineVersionRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		version, modules, err := loadVersionForUpdate(tx, versionID)
		if err != nil {
			return err
		}
		if err := s.machine.ValidateTransition(VersionStatus(version.Status), StatusPendingApproval); err != nil {
			return err
		}

		agg := ValidateAll(moduleInputs(modules))
		if !agg.AllValid {
			var invalid []ModuleType
			for _, t := range AllModuleTypes {
				if res, ok := agg.Results[t]; ok && !res.IsValid {
					invalid = append(invalid, t)
				}
			}
			return &InvalidModulesError{InvalidModules: invalid}
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":       string(StatusPendingApproval),
			"draft_key":    nil,
			"submitted_by": actor,
			"submitted_at": now,
		}
		if err := tx.Model(&BaselineVersionRecord{}).Where("id = ?", versionID).Updates(updates).Error; err != nil {
			return fmt.Errorf("submit version: %w", err)
		}

		version.Status = string(StatusPendingApproval)
		version.DraftKey = nil
		version.SubmittedBy = actor
		version.SubmittedAt = &now
		updated = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Publish transitions a version to PUBLISHED. The publish-readiness check,
// archiving of the previous published version, and the repoint of the
// portfolio's active-baseline pointer all happen in one atomic unit: a
// reader can never observe a portfolio with zero or two active baselines
// mid-transition.
func (s *VersionStore) Publish(versionID, actor string) (*BaselineVersionRecord, error) {
	var updated *BaselineVersionRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		version, modules, err := loadVersionForUpdate(tx, versionID)
		if err != nil {
			return err
		}
		if err := s.machine.ValidateTransition(VersionStatus(version.Status), StatusPublished); err != nil {
			return err
		}

		check := CanPublish(moduleInputs(modules))
		if !check.CanPublish {
			return &PublishBlockedError{Blockers: check.Blockers}
		}

		now := time.Now().UTC()

		// Archive the previous published version and free its published_key
		// before this version claims it.
		var prior BaselineVersionRecord
		err = tx.Where("portfolio_id = ? AND status = ?", version.PortfolioID, string(StatusPublished)).First(&prior).Error
		if err == nil {
			archive := map[string]any{
				"status":        string(StatusArchived),
				"published_key": nil,
				"archived_at":   now,
			}
			if err := tx.Model(&BaselineVersionRecord{}).Where("id = ?", prior.ID).Updates(archive).Error; err != nil {
				return fmt.Errorf("archive prior version: %w", err)
			}
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("find prior published version: %w", err)
		}

		publishedKey := version.PortfolioID
		updates := map[string]any{
			"status":        string(StatusPublished),
			"draft_key":     nil,
			"published_key": publishedKey,
			"published_by":  actor,
			"published_at":  now,
			"content_hash":  contentHash(modules),
		}
		if err := tx.Model(&BaselineVersionRecord{}).Where("id = ?", versionID).Updates(updates).Error; err != nil {
			return fmt.Errorf("publish version: %w", err)
		}

		if err := tx.Model(&PortfolioRecord{}).Where("id = ?", version.PortfolioID).
			Update("active_baseline_version_id", versionID).Error; err != nil {
			return fmt.Errorf("repoint active baseline: %w", err)
		}

		version.Status = string(StatusPublished)
		version.DraftKey = nil
		version.PublishedKey = &publishedKey
		version.PublishedBy = actor
		version.PublishedAt = &now
		version.ContentHash = contentHash(modules)
		updated = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Reject transitions a pending version to REJECTED with a recorded
// rationale. Rework happens through a new draft, not by reviving this one.
func (s *VersionStore) Reject(versionID, actor, reason string) (*BaselineVersionRecord, error) {
	var updated *BaselineVersionRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		version, _, err := loadVersionForUpdate(tx, versionID)
		if err != nil {
			return err
		}
		if err := s.machine.ValidateTransition(VersionStatus(version.Status), StatusRejected); err != nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"status":           string(StatusRejected),
			"rejected_by":      actor,
			"rejected_at":      now,
			"rejection_reason": reason,
		}
		if err := tx.Model(&BaselineVersionRecord{}).Where("id = ?", versionID).Updates(updates).Error; err != nil {
			return fmt.Errorf("reject version: %w", err)
		}

		version.Status = string(StatusRejected)
		version.RejectedBy = actor
		version.RejectedAt = &now
		version.RejectionReason = reason
		updated = version
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteDraft removes a draft version and its module rows. Only drafts may
// be deleted, and never the portfolio's active baseline.
func (s *VersionStore) DeleteDraft(versionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		version, _, err := loadVersionForUpdate(tx, versionID)
		if err != nil {
			return err
		}
		if !s.machine.IsMutable(VersionStatus(version.Status)) {
			return &ImmutableVersionError{ID: versionID, Status: VersionStatus(version.Status)}
		}

		var portfolio PortfolioRecord
		if err := tx.Where("id = ?", version.PortfolioID).First(&portfolio).Error; err != nil {
			return fmt.Errorf("load portfolio: %w", err)
		}
		if portfolio.ActiveBaselineVersionID != nil && *portfolio.ActiveBaselineVersionID == versionID {
			return &ActiveVersionError{ID: versionID}
		}

		if err := tx.Where("version_id = ?", versionID).Delete(&BaselineModuleRecord{}).Error; err != nil {
			return fmt.Errorf("delete modules: %w", err)
		}
		if err := tx.Where("id = ?", versionID).Delete(&BaselineVersionRecord{}).Error; err != nil {
			return fmt.Errorf("delete version: %w", err)
		}
		return nil
	})
}

// loadVersionForUpdate loads a version row and its modules inside a
// transaction. Returns VersionNotFoundError when absent.
func loadVersionForUpdate(tx *gorm.DB, versionID string) (*BaselineVersionRecord, []BaselineModuleRecord, error) {
	var version BaselineVersionRecord
	if err := tx.Where("id = ?", versionID).First(&version).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, &VersionNotFoundError{ID: versionID}
		}
		return nil, nil, fmt.Errorf("load version: %w", err)
	}
	var modules []BaselineModuleRecord
	if err := tx.Where("version_id = ?", versionID).Order("module_type ASC").Find(&modules).Error; err != nil {
		return nil, nil, fmt.Errorf("load modules: %w", err)
	}
	return &version, modules, nil
}

// moduleInputs converts stored module rows to validator inputs.
func moduleInputs(modules []BaselineModuleRecord) []ModuleInput {
	inputs := make([]ModuleInput, 0, len(modules))
	for _, m := range modules {
		inputs = append(inputs, ModuleInput{
			ModuleType: ModuleType(m.ModuleType),
			Payload:    json.RawMessage(m.Payload),
		})
	}
	return inputs
}

// contentHash computes a stable hash over the module payloads of a version,
// stamped onto the version at publish time.
func contentHash(modules []BaselineModuleRecord) string {
	sorted := make([]BaselineModuleRecord, len(modules))
	copy(sorted, modules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ModuleType < sorted[j].ModuleType })

	h := sha256.New()
	for _, m := range sorted {
		h.Write([]byte(m.ModuleType))
		h.Write([]byte{0})
		h.Write([]byte(m.Payload))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
