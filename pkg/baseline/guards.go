package baseline

import (
	"encoding/json"
	"fmt"
)

// Denial class codes carried on guard decisions so transport layers can map
// a denial to the right status without parsing the human reason.
const (
	DenyNotFound  = "NOT_FOUND"
	DenyForbidden = "FORBIDDEN"
	DenyConflict  = "CONFLICT"
	DenyState     = "INVALID_STATE"
)

// CreateDraftDecision authorizes creating a new draft version.
type CreateDraftDecision struct {
	Allowed         bool   `json:"allowed"`
	Reason          string `json:"reason,omitempty"`
	Code            string `json:"code,omitempty"`
	ExistingDraftID string `json:"existingDraftId,omitempty"`
	NextVersion     int    `json:"nextVersion,omitempty"`
}

// EditDecision authorizes editing a version's module payloads.
type EditDecision struct {
	Allowed bool          `json:"allowed"`
	Reason  string        `json:"reason,omitempty"`
	Code    string        `json:"code,omitempty"`
	Status  VersionStatus `json:"status,omitempty"`
}

// DeleteDecision authorizes deleting a draft version.
type DeleteDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Code    string `json:"code,omitempty"`
}

// SubmitDecision authorizes submitting a draft for approval.
type SubmitDecision struct {
	Allowed        bool         `json:"allowed"`
	Reason         string       `json:"reason,omitempty"`
	Code           string       `json:"code,omitempty"`
	InvalidModules []ModuleType `json:"invalidModules,omitempty"`
}

// PublishDecision authorizes publishing a version.
type PublishDecision struct {
	Allowed  bool     `json:"allowed"`
	Reason   string   `json:"reason,omitempty"`
	Code     string   `json:"code,omitempty"`
	Blockers []string `json:"blockers,omitempty"`
}

// AccessDecision authorizes an actor's access to a portfolio's baselines.
type AccessDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ModifyDecision authorizes an actor role to mutate baseline state.
type ModifyDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OriginationDecision is the case-origination gate verdict. On success it
// carries the decision envelope the case is stamped with at intake.
type OriginationDecision struct {
	Allowed           bool   `json:"allowed"`
	Reason            string `json:"reason,omitempty"`
	Code              string `json:"code,omitempty"`
	BaselineVersionID string `json:"baselineVersionId,omitempty"`
	VersionNumber     int    `json:"versionNumber,omitempty"`
}

// Guards evaluates lifecycle preconditions against authoritative persisted
// state. Guards are read-only consistency checks: a denial is definitive for
// the current state and is resolved by a new state transition, never by
// retrying the same call. The transactional stores re-check the same
// preconditions at write time.
type Guards struct {
	portfolios *PortfolioStore
	versions   *VersionStore
	machine    *LifecycleMachine
	adminRoles map[string]bool
}

// NewGuards creates a guard evaluator. adminRoles is the allow-list of roles
// permitted to mutate baselines; when nil, the default allow-list (OWNER,
// ORG_ADMIN) applies.
func NewGuards(portfolios *PortfolioStore, versions *VersionStore, adminRoles []string) *Guards {
	if len(adminRoles) == 0 {
		adminRoles = []string{"OWNER", "ORG_ADMIN"}
	}
	set := make(map[string]bool, len(adminRoles))
	for _, r := range adminRoles {
		set[r] = true
	}
	return &Guards{
		portfolios: portfolios,
		versions:   versions,
		machine:    NewLifecycleMachine(),
		adminRoles: set,
	}
}

// CanCreateDraft allows creating a draft when the portfolio exists and has
// no existing draft. A denial names the winning draft so the caller can
// resolve the conflict explicitly.
func (g *Guards) CanCreateDraft(companyID, portfolioID string) (CreateDraftDecision, error) {
	portfolio, err := g.portfolios.Get(companyID, portfolioID)
	if err != nil {
		return CreateDraftDecision{}, err
	}
	if portfolio == nil {
		return CreateDraftDecision{
			Allowed: false,
			Code:    DenyNotFound,
			Reason:  fmt.Sprintf("portfolio %s not found", portfolioID),
		}, nil
	}

	draft, err := g.versions.FindDraft(portfolioID)
	if err != nil {
		return CreateDraftDecision{}, err
	}
	if draft != nil {
		return CreateDraftDecision{
			Allowed:         false,
			Code:            DenyConflict,
			Reason:          fmt.Sprintf("portfolio already has draft version %s; edit or delete it first", draft.ID),
			ExistingDraftID: draft.ID,
		}, nil
	}

	return CreateDraftDecision{Allowed: true, NextVersion: portfolio.LastVersionNumber + 1}, nil
}

// CanEditModule allows editing while the owning version is a draft.
func (g *Guards) CanEditModule(versionID string) (EditDecision, error) {
	version, _, err := g.versions.GetVersion(versionID)
	if err != nil {
		return EditDecision{}, err
	}
	if version == nil {
		return EditDecision{
			Allowed: false,
			Code:    DenyNotFound,
			Reason:  fmt.Sprintf("baseline version %s not found", versionID),
		}, nil
	}
	status := VersionStatus(version.Status)
	if !g.machine.IsMutable(status) {
		return EditDecision{
			Allowed: false,
			Code:    DenyState,
			Reason:  fmt.Sprintf("baseline version is %s and cannot be edited", status),
			Status:  status,
		}, nil
	}
	return EditDecision{Allowed: true, Status: status}, nil
}

// CanDeleteVersion allows deleting a draft that is not the portfolio's
// active baseline.
func (g *Guards) CanDeleteVersion(versionID string) (DeleteDecision, error) {
	version, _, err := g.versions.GetVersion(versionID)
	if err != nil {
		return DeleteDecision{}, err
	}
	if version == nil {
		return DeleteDecision{
			Allowed: false,
			Code:    DenyNotFound,
			Reason:  fmt.Sprintf("baseline version %s not found", versionID),
		}, nil
	}
	if VersionStatus(version.Status) != StatusDraft {
		return DeleteDecision{
			Allowed: false,
			Code:    DenyState,
			Reason:  fmt.Sprintf("only draft versions can be deleted; version is %s", version.Status),
		}, nil
	}

	portfolio, err := g.portfolios.GetAny(version.PortfolioID)
	if err != nil {
		return DeleteDecision{}, err
	}
	if portfolio != nil && portfolio.ActiveBaselineVersionID != nil && *portfolio.ActiveBaselineVersionID == versionID {
		return DeleteDecision{
			Allowed: false,
			Code:    DenyConflict,
			Reason:  "version is the portfolio's active baseline and cannot be deleted",
		}, nil
	}
	return DeleteDecision{Allowed: true}, nil
}

// CanSubmitForApproval allows submitting a draft whose modules carry no
// ERROR diagnostics. Validation runs against the latest committed payloads.
func (g *Guards) CanSubmitForApproval(versionID string) (SubmitDecision, error) {
	version, modules, err := g.versions.GetVersion(versionID)
	if err != nil {
		return SubmitDecision{}, err
	}
	if version == nil {
		return SubmitDecision{
			Allowed: false,
			Code:    DenyNotFound,
			Reason:  fmt.Sprintf("baseline version %s not found", versionID),
		}, nil
	}
	if VersionStatus(version.Status) != StatusDraft {
		return SubmitDecision{
			Allowed: false,
			Code:    DenyState,
			Reason:  fmt.Sprintf("only draft versions can be submitted; version is %s", version.Status),
		}, nil
	}

	agg := ValidateAll(moduleInputs(modules))
	if !agg.AllValid {
		var invalid []ModuleType
		for _, t := range AllModuleTypes {
			if res, ok := agg.Results[t]; ok && !res.IsValid {
				invalid = append(invalid, t)
			}
		}
		return SubmitDecision{
			Allowed:        false,
			Code:           DenyState,
			Reason:         "baseline has modules with validation errors",
			InvalidModules: invalid,
		}, nil
	}
	return SubmitDecision{Allowed: true}, nil
}

// CanPublishVersion allows publishing a draft or pending version that passes
// the publish-readiness check. CanPublish is the sole authority on
// readiness; this guard only adds the state precondition.
func (g *Guards) CanPublishVersion(versionID string) (PublishDecision, error) {
	version, modules, err := g.versions.GetVersion(versionID)
	if err != nil {
		return PublishDecision{}, err
	}
	if version == nil {
		return PublishDecision{
			Allowed: false,
			Code:    DenyNotFound,
			Reason:  fmt.Sprintf("baseline version %s not found", versionID),
		}, nil
	}
	if err := g.machine.ValidateTransition(VersionStatus(version.Status), StatusPublished); err != nil {
		return PublishDecision{
			Allowed: false,
			Code:    DenyState,
			Reason:  err.Error(),
		}, nil
	}

	check := CanPublish(moduleInputs(modules))
	if !check.CanPublish {
		return PublishDecision{
			Allowed:  false,
			Code:     DenyState,
			Reason:   "baseline is not ready to publish",
			Blockers: check.Blockers,
		}, nil
	}
	return PublishDecision{Allowed: true}, nil
}

// CanRejectVersion allows rejecting a version that is pending approval.
func (g *Guards) CanRejectVersion(versionID string) (EditDecision, error) {
	version, _, err := g.versions.GetVersion(versionID)
	if err != nil {
		return EditDecision{}, err
	}
	if version == nil {
		return EditDecision{
			Allowed: false,
			Code:    DenyNotFound,
			Reason:  fmt.Sprintf("baseline version %s not found", versionID),
		}, nil
	}
	status := VersionStatus(version.Status)
	if status != StatusPendingApproval {
		return EditDecision{
			Allowed: false,
			Code:    DenyState,
			Reason:  fmt.Sprintf("only pending versions can be rejected; version is %s", status),
			Status:  status,
		}, nil
	}
	return EditDecision{Allowed: true, Status: status}, nil
}

// CanAccessPortfolioBaseline allows access when the portfolio exists and
// belongs to the actor's company. A cross-tenant attempt is denied with a
// reason distinct from not-found.
func (g *Guards) CanAccessPortfolioBaseline(companyID, portfolioID string) (AccessDecision, error) {
	portfolio, err := g.portfolios.GetAny(portfolioID)
	if err != nil {
		return AccessDecision{}, err
	}
	if portfolio == nil {
		return AccessDecision{
			Allowed: false,
			Code:    DenyNotFound,
			Reason:  fmt.Sprintf("portfolio %s not found", portfolioID),
		}, nil
	}
	if companyID == "" {
		companyID = "default"
	}
	if portfolio.CompanyID != companyID {
		return AccessDecision{
			Allowed: false,
			Code:    DenyForbidden,
			Reason:  "portfolio belongs to a different company",
		}, nil
	}
	return AccessDecision{Allowed: true}, nil
}

// CanModifyBaseline allows mutation when the actor's role is on the admin
// allow-list. Roles are opaque strings compared against the list.
func (g *Guards) CanModifyBaseline(role string) ModifyDecision {
	if !g.adminRoles[role] {
		return ModifyDecision{
			Allowed: false,
			Code:    DenyForbidden,
			Reason:  fmt.Sprintf("role %q may not modify baselines", role),
		}
	}
	return ModifyDecision{Allowed: true}
}

// PortfolioHasPublishedBaseline is the case-origination gate. It requires
// the active-baseline pointer to be set and re-checks that the referenced
// version's current status is still PUBLISHED, so a dangling pointer left by
// an external archive never admits a case.
func (g *Guards) PortfolioHasPublishedBaseline(companyID, portfolioID string) (OriginationDecision, error) {
	portfolio, err := g.portfolios.Get(companyID, portfolioID)
	if err != nil {
		return OriginationDecision{}, err
	}
	if portfolio == nil {
		return OriginationDecision{
			Allowed: false,
			Code:    DenyNotFound,
			Reason:  fmt.Sprintf("portfolio %s not found", portfolioID),
		}, nil
	}
	if portfolio.ActiveBaselineVersionID == nil || *portfolio.ActiveBaselineVersionID == "" {
		return OriginationDecision{
			Allowed: false,
			Code:    DenyState,
			Reason:  "portfolio has no published baseline; publish one before originating cases",
		}, nil
	}

	version, _, err := g.versions.GetVersion(*portfolio.ActiveBaselineVersionID)
	if err != nil {
		return OriginationDecision{}, err
	}
	if version == nil || VersionStatus(version.Status) != StatusPublished {
		return OriginationDecision{
			Allowed: false,
			Code:    DenyState,
			Reason:  "portfolio's active baseline is no longer published",
		}, nil
	}

	return OriginationDecision{
		Allowed:           true,
		BaselineVersionID: version.ID,
		VersionNumber:     version.VersionNumber,
	}, nil
}

// DecisionEnvelope is the immutable stamp a case receives at intake.
type DecisionEnvelope struct {
	BaselineVersionID string `json:"baselineVersionId"`
	VersionNumber     int    `json:"versionNumber"`
}

// MarshalEnvelope renders the decision envelope for storage on a case row.
func MarshalEnvelope(d OriginationDecision) (json.RawMessage, error) {
	if !d.Allowed {
		return nil, fmt.Errorf("cannot build decision envelope from a denied origination check")
	}
	return json.Marshal(DecisionEnvelope{
		BaselineVersionID: d.BaselineVersionID,
		VersionNumber:     d.VersionNumber,
	})
}
