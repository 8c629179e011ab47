package baseline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestGuards(db *gorm.DB) *Guards {
	return NewGuards(NewPortfolioStore(db), NewVersionStore(db), nil)
}

func publishTestBaseline(t *testing.T, db *gorm.DB, portfolioID string) *BaselineVersionRecord {
	t.Helper()
	store := NewVersionStore(db)
	draft := createTestDraft(t, db, portfolioID)
	makePublishable(t, store, draft.ID)
	_, err := store.SubmitForApproval(draft.ID, "alice")
	require.NoError(t, err)
	published, err := store.Publish(draft.ID, "carol")
	require.NoError(t, err)
	return published
}

func TestCanCreateDraftAllowed(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	p := newTestPortfolio(t, db, "default", "Fund I")

	decision, err := guards.CanCreateDraft("default", p.ID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 1, decision.NextVersion)
}

func TestCanCreateDraftPortfolioNotFound(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)

	decision, err := guards.CanCreateDraft("default", "missing")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyNotFound, decision.Code)
}

func TestCanCreateDraftConflictNamesExistingDraft(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	draft := createTestDraft(t, db, p.ID)

	decision, err := guards.CanCreateDraft("default", p.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyConflict, decision.Code)
	assert.Equal(t, draft.ID, decision.ExistingDraftID)
}

func TestCanEditModuleByStatus(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	store := NewVersionStore(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	draft := createTestDraft(t, db, p.ID)

	decision, err := guards.CanEditModule(draft.ID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, StatusDraft, decision.Status)

	_, err = store.SubmitForApproval(draft.ID, "alice")
	require.NoError(t, err)

	decision, err = guards.CanEditModule(draft.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyState, decision.Code)
	assert.Equal(t, StatusPendingApproval, decision.Status)
}

func TestCanDeleteVersionRefusesActiveBaseline(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	draft := createTestDraft(t, db, p.ID)

	require.NoError(t, db.Model(&PortfolioRecord{}).Where("id = ?", p.ID).
		Update("active_baseline_version_id", draft.ID).Error)

	decision, err := guards.CanDeleteVersion(draft.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyConflict, decision.Code)
}

func TestCanDeleteVersionRefusesNonDraft(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	store := NewVersionStore(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	draft := createTestDraft(t, db, p.ID)

	_, err := store.SubmitForApproval(draft.ID, "alice")
	require.NoError(t, err)

	decision, err := guards.CanDeleteVersion(draft.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyState, decision.Code)
}

func TestCanSubmitForApprovalListsInvalidModules(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	store := NewVersionStore(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	draft := createTestDraft(t, db, p.ID)

	_, err := store.UpdateModulePayload(draft.ID, ModuleMandates, json.RawMessage(`{"schemaVersion":1,"mandates":"nope"}`))
	require.NoError(t, err)

	decision, err := guards.CanSubmitForApproval(draft.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyState, decision.Code)
	assert.Equal(t, []ModuleType{ModuleMandates}, decision.InvalidModules)
}

func TestCanPublishVersionSurfacesBlockers(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	draft := createTestDraft(t, db, p.ID)

	decision, err := guards.CanPublishVersion(draft.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyState, decision.Code)
	assert.NotEmpty(t, decision.Blockers)
}

func TestCanPublishVersionAllowedWhenReady(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	store := NewVersionStore(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	draft := createTestDraft(t, db, p.ID)
	makePublishable(t, store, draft.ID)

	decision, err := guards.CanPublishVersion(draft.ID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Empty(t, decision.Blockers)
}

func TestCanRejectVersionPendingOnly(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	store := NewVersionStore(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	draft := createTestDraft(t, db, p.ID)

	decision, err := guards.CanRejectVersion(draft.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyState, decision.Code)

	_, err = store.SubmitForApproval(draft.ID, "alice")
	require.NoError(t, err)

	decision, err = guards.CanRejectVersion(draft.ID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCanAccessPortfolioBaselineCrossTenant(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	p := newTestPortfolio(t, db, "acme", "Acme Fund I")

	decision, err := guards.CanAccessPortfolioBaseline("acme", p.ID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	// Another company's portfolio is forbidden, not hidden.
	decision, err = guards.CanAccessPortfolioBaseline("globex", p.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyForbidden, decision.Code)

	decision, err = guards.CanAccessPortfolioBaseline("acme", "missing")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyNotFound, decision.Code)
}

func TestCanModifyBaselineRoles(t *testing.T) {
	db := setupTestDB(t)

	guards := newTestGuards(db)
	assert.True(t, guards.CanModifyBaseline("OWNER").Allowed)
	assert.True(t, guards.CanModifyBaseline("ORG_ADMIN").Allowed)

	decision := guards.CanModifyBaseline("VIEWER")
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyForbidden, decision.Code)

	custom := NewGuards(NewPortfolioStore(db), NewVersionStore(db), []string{"COMPLIANCE_LEAD"})
	assert.True(t, custom.CanModifyBaseline("COMPLIANCE_LEAD").Allowed)
	assert.False(t, custom.CanModifyBaseline("OWNER").Allowed)
}

func TestOriginationGateRequiresPublishedBaseline(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	p := newTestPortfolio(t, db, "default", "Fund I")

	decision, err := guards.PortfolioHasPublishedBaseline("default", p.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyState, decision.Code)

	published := publishTestBaseline(t, db, p.ID)

	decision, err = guards.PortfolioHasPublishedBaseline("default", p.ID)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, published.ID, decision.BaselineVersionID)
	assert.Equal(t, published.VersionNumber, decision.VersionNumber)
}

func TestOriginationGateRejectsDanglingPointer(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	published := publishTestBaseline(t, db, p.ID)

	// Archive the version out of band without clearing the pointer.
	require.NoError(t, db.Model(&BaselineVersionRecord{}).Where("id = ?", published.ID).
		Updates(map[string]any{"status": string(StatusArchived), "published_key": nil}).Error)

	decision, err := guards.PortfolioHasPublishedBaseline("default", p.ID)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyState, decision.Code)
}

func TestOriginationGateUnknownPortfolio(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)

	decision, err := guards.PortfolioHasPublishedBaseline("default", "missing")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyNotFound, decision.Code)
}

func TestMarshalEnvelope(t *testing.T) {
	db := setupTestDB(t)
	guards := newTestGuards(db)
	p := newTestPortfolio(t, db, "default", "Fund I")
	published := publishTestBaseline(t, db, p.ID)

	decision, err := guards.PortfolioHasPublishedBaseline("default", p.ID)
	require.NoError(t, err)

	raw, err := MarshalEnvelope(decision)
	require.NoError(t, err)

	var envelope DecisionEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, published.ID, envelope.BaselineVersionID)
	assert.Equal(t, published.VersionNumber, envelope.VersionNumber)

	_, err = MarshalEnvelope(OriginationDecision{Allowed: false})
	require.Error(t, err)
}
