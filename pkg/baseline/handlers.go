package baseline

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdica/case-governance/pkg/authz"
	"github.com/verdica/case-governance/pkg/cache"
	"github.com/verdica/case-governance/pkg/tenancy"
)

// maxPayloadBytes bounds module payload bodies.
const maxPayloadBytes = 1 << 20

// CreatePortfolioHandler handles POST /portfolios
func CreatePortfolioHandler(portfolios *PortfolioStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		record := &PortfolioRecord{
			CompanyID: tenancy.CompanyFromContext(r.Context()),
			Name:      req.Name,
			Kind:      req.Kind,
		}
		if err := portfolios.Create(record); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create portfolio: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, recordToPortfolio(record))
	}
}

// GetPortfolioHandler handles GET /portfolios/{portfolioID}
func GetPortfolioHandler(portfolios *PortfolioStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portfolioID := chi.URLParam(r, "portfolioID")
		record, err := portfolios.Get(tenancy.CompanyFromContext(r.Context()), portfolioID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get portfolio: %v", err))
			return
		}
		if record == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("portfolio %q not found", portfolioID))
			return
		}
		writeJSON(w, http.StatusOK, recordToPortfolio(record))
	}
}

// ListPortfoliosHandler handles GET /portfolios
func ListPortfoliosHandler(portfolios *PortfolioStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageSize, pageToken := pageParams(r)
		records, nextToken, total, err := portfolios.List(tenancy.CompanyFromContext(r.Context()), pageSize, pageToken)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list portfolios: %v", err))
			return
		}
		items := make([]Portfolio, len(records))
		for i := range records {
			items[i] = recordToPortfolio(&records[i])
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"portfolios":    items,
			"nextPageToken": nextToken,
			"totalSize":     total,
		})
	}
}

// CreateDraftHandler handles POST /portfolios/{portfolioID}/baselines
func CreateDraftHandler(versions *VersionStore, guards *Guards, audit *AuditStore, caches *cache.GuardCacheManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portfolioID := chi.URLParam(r, "portfolioID")
		companyID := tenancy.CompanyFromContext(r.Context())
		actor := extractActor(r)

		if denied := requireModifyRole(w, r, guards); denied {
			return
		}

		var req struct {
			ParentVersionID string `json:"parentVersionId"`
			ChangeSummary   string `json:"changeSummary"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}
		var parent *string
		if req.ParentVersionID != "" {
			parent = &req.ParentVersionID
		}

		record, err := versions.CreateDraft(companyID, portfolioID, actor, parent, req.ChangeSummary)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		appendAudit(audit, r, &GovernanceAuditRecord{
			EventType:   EventDraftCreated,
			Actor:       actor,
			PortfolioID: portfolioID,
			VersionID:   record.ID,
			Outcome:     "success",
			NewValue:    JSONAny{"versionNumber": record.VersionNumber},
		})
		caches.InvalidatePortfolio(companyID, portfolioID, record.ID)

		version, modules, err := versions.GetVersion(record.ID)
		if err != nil || version == nil {
			writeJSON(w, http.StatusCreated, recordToVersion(record, nil))
			return
		}
		writeJSON(w, http.StatusCreated, recordToVersion(version, modules))
	}
}

// ListVersionsHandler handles GET /portfolios/{portfolioID}/baselines
func ListVersionsHandler(versions *VersionStore, guards *Guards) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portfolioID := chi.URLParam(r, "portfolioID")
		companyID := tenancy.CompanyFromContext(r.Context())

		access, err := guards.CanAccessPortfolioBaseline(companyID, portfolioID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to check access: %v", err))
			return
		}
		if !access.Allowed {
			writeGuardDenial(w, access.Code, access.Reason)
			return
		}

		pageSize, pageToken := pageParams(r)
		records, nextToken, total, err := versions.ListVersions(portfolioID, pageSize, pageToken)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list versions: %v", err))
			return
		}
		list := VersionList{
			Versions:      make([]BaselineVersion, len(records)),
			NextPageToken: nextToken,
			TotalSize:     total,
		}
		for i := range records {
			list.Versions[i] = recordToVersion(&records[i], nil)
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GetVersionHandler handles GET /baselines/{versionID}
func GetVersionHandler(versions *VersionStore, guards *Guards) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versionID := chi.URLParam(r, "versionID")
		version, modules, err := versions.GetVersion(versionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get version: %v", err))
			return
		}
		if version == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("baseline version %q not found", versionID))
			return
		}

		access, err := guards.CanAccessPortfolioBaseline(tenancy.CompanyFromContext(r.Context()), version.PortfolioID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to check access: %v", err))
			return
		}
		if !access.Allowed {
			writeGuardDenial(w, access.Code, access.Reason)
			return
		}
		writeJSON(w, http.StatusOK, recordToVersion(version, modules))
	}
}

// UpdateModuleHandler handles PUT /baselines/{versionID}/modules/{moduleType}
func UpdateModuleHandler(versions *VersionStore, guards *Guards, audit *AuditStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versionID := chi.URLParam(r, "versionID")
		moduleType := ModuleType(chi.URLParam(r, "moduleType"))
		if !IsKnownModuleType(moduleType) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown module type: %s", moduleType))
			return
		}

		if resolveVersionForTenant(w, r, versions, guards, versionID) == nil {
			return
		}
		if denied := requireModifyRole(w, r, guards); denied {
			return
		}

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		result, err := versions.UpdateModulePayload(versionID, moduleType, payload)
		if err != nil {
			writeStoreError(w, err)
			return
		}

		appendAudit(audit, r, &GovernanceAuditRecord{
			EventType: EventModuleUpdated,
			Actor:     extractActor(r),
			VersionID: versionID,
			Action:    string(moduleType),
			Outcome:   "success",
			NewValue:  JSONAny{"isValid": result.IsValid, "isComplete": result.IsComplete},
		})
		writeJSON(w, http.StatusOK, result)
	}
}

// ValidateModuleHandler handles POST /baselines/{versionID}/modules/{moduleType}:validate
// It validates the submitted payload without persisting anything, for live
// editor feedback.
func ValidateModuleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moduleType := ModuleType(chi.URLParam(r, "moduleType"))
		if !IsKnownModuleType(moduleType) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown module type: %s", moduleType))
			return
		}
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		result := Validate(moduleType, payload)
		writeJSON(w, http.StatusOK, result)
	}
}

// PublishCheckHandler handles GET /baselines/{versionID}/publish-check
func PublishCheckHandler(versions *VersionStore, guards *Guards) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versionID := chi.URLParam(r, "versionID")
		if resolveVersionForTenant(w, r, versions, guards, versionID) == nil {
			return
		}
		decision, err := guards.CanPublishVersion(versionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to check publish readiness: %v", err))
			return
		}
		if !decision.Allowed && decision.Code == DenyNotFound {
			writeError(w, http.StatusNotFound, decision.Reason)
			return
		}
		writeJSON(w, http.StatusOK, decision)
	}
}

// LifecycleActionHandler handles POST /baselines/{versionID}/actions/{action}
// Supported actions: submit, publish, reject, delete.
func LifecycleActionHandler(versions *VersionStore, guards *Guards, audit *AuditStore, caches *cache.GuardCacheManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versionID := chi.URLParam(r, "versionID")
		action := chi.URLParam(r, "action")
		actor := extractActor(r)
		companyID := tenancy.CompanyFromContext(r.Context())

		current := resolveVersionForTenant(w, r, versions, guards, versionID)
		if current == nil {
			return
		}
		if denied := requireModifyRole(w, r, guards); denied {
			return
		}

		var req struct {
			Reason string `json:"reason"`
		}
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
		}

		var (
			record    *BaselineVersionRecord
			eventType string
			err       error
		)
		switch action {
		case "submit":
			eventType = EventVersionSubmitted
			record, err = versions.SubmitForApproval(versionID, actor)
		case "publish":
			eventType = EventVersionPublished
			record, err = versions.Publish(versionID, actor)
		case "reject":
			if req.Reason == "" {
				writeError(w, http.StatusBadRequest, "reason is required to reject a version")
				return
			}
			eventType = EventVersionRejected
			record, err = versions.Reject(versionID, actor, req.Reason)
		case "delete":
			eventType = EventDraftDeleted
			err = versions.DeleteDraft(versionID)
			record = current
		default:
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action: %s", action))
			return
		}
		if err != nil {
			writeStoreError(w, err)
			return
		}

		appendAudit(audit, r, &GovernanceAuditRecord{
			EventType:   eventType,
			Actor:       actor,
			PortfolioID: record.PortfolioID,
			VersionID:   versionID,
			Action:      action,
			Outcome:     "success",
			Reason:      req.Reason,
			NewValue:    JSONAny{"status": record.Status},
		})
		caches.InvalidatePortfolio(companyID, record.PortfolioID, versionID)

		if action == "delete" {
			writeJSON(w, http.StatusOK, map[string]string{
				"status":    "deleted",
				"versionId": versionID,
			})
			return
		}
		writeJSON(w, http.StatusOK, recordToVersion(record, nil))
	}
}

// OriginationCheckHandler handles GET /portfolios/{portfolioID}/origination-check
func OriginationCheckHandler(guards *Guards) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portfolioID := chi.URLParam(r, "portfolioID")
		decision, err := guards.PortfolioHasPublishedBaseline(tenancy.CompanyFromContext(r.Context()), portfolioID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to check origination gate: %v", err))
			return
		}
		if !decision.Allowed {
			status := http.StatusConflict
			if decision.Code == DenyNotFound {
				status = http.StatusNotFound
			}
			writeJSON(w, status, decision)
			return
		}
		writeJSON(w, http.StatusOK, decision)
	}
}

// AuditTrailHandler handles GET /portfolios/{portfolioID}/audit
func AuditTrailHandler(audit *AuditStore, guards *Guards) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portfolioID := chi.URLParam(r, "portfolioID")
		access, err := guards.CanAccessPortfolioBaseline(tenancy.CompanyFromContext(r.Context()), portfolioID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to check access: %v", err))
			return
		}
		if !access.Allowed {
			writeGuardDenial(w, access.Code, access.Reason)
			return
		}

		pageSize, pageToken := pageParams(r)
		records, nextToken, total, err := audit.ListByPortfolio(portfolioID, pageSize, pageToken)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list audit events: %v", err))
			return
		}
		events := make([]AuditEvent, len(records))
		for i, rec := range records {
			events[i] = recordToAuditEvent(rec)
		}
		writeJSON(w, http.StatusOK, AuditEventList{
			Events:        events,
			NextPageToken: nextToken,
			TotalSize:     total,
		})
	}
}

// resolveVersionForTenant loads a version and checks the caller's company
// against its owning portfolio, so a version id leaked across tenants cannot
// be read or mutated. Writes the denial and returns nil when the version does
// not exist or access is refused.
func resolveVersionForTenant(w http.ResponseWriter, r *http.Request, versions *VersionStore, guards *Guards, versionID string) *BaselineVersionRecord {
	version, _, err := versions.GetVersion(versionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get version: %v", err))
		return nil
	}
	if version == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("baseline version %q not found", versionID))
		return nil
	}
	access, err := guards.CanAccessPortfolioBaseline(tenancy.CompanyFromContext(r.Context()), version.PortfolioID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to check access: %v", err))
		return nil
	}
	if !access.Allowed {
		writeGuardDenial(w, access.Code, access.Reason)
		return nil
	}
	return version
}

// requireModifyRole denies the request when the actor's role is not on the
// admin allow-list. Returns true when a denial was written.
func requireModifyRole(w http.ResponseWriter, r *http.Request, guards *Guards) bool {
	id, _ := authz.IdentityFromContext(r.Context())
	decision := guards.CanModifyBaseline(id.Role)
	if !decision.Allowed {
		writeGuardDenial(w, decision.Code, decision.Reason)
		return true
	}
	return false
}

// writeGuardDenial maps a guard denial class to an HTTP status.
func writeGuardDenial(w http.ResponseWriter, code, reason string) {
	status := http.StatusConflict
	switch code {
	case DenyNotFound:
		status = http.StatusNotFound
	case DenyForbidden:
		status = http.StatusForbidden
	}
	writeJSON(w, status, map[string]string{
		"error": reason,
		"code":  code,
	})
}

// writeStoreError maps typed store errors to HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *PortfolioNotFoundError:
		writeError(w, http.StatusNotFound, e.Error())
	case *VersionNotFoundError:
		writeError(w, http.StatusNotFound, e.Error())
	case *DraftConflictError:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":           e.Error(),
			"existingDraftId": e.ExistingDraftID,
		})
	case *ImmutableVersionError:
		writeError(w, http.StatusConflict, e.Error())
	case *ActiveVersionError:
		writeError(w, http.StatusConflict, e.Error())
	case *InvalidModulesError:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":          e.Error(),
			"invalidModules": e.InvalidModules,
		})
	case *PublishBlockedError:
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":    e.Error(),
			"blockers": e.Blockers,
		})
	case *TransitionError:
		writeJSON(w, http.StatusConflict, e)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// appendAudit records an audit event, filling company and correlation fields
// from the request. Audit failures never fail the request.
func appendAudit(store *AuditStore, r *http.Request, event *GovernanceAuditRecord) {
	if store == nil {
		return
	}
	event.ID = uuid.New().String()
	event.CompanyID = tenancy.CompanyFromContext(r.Context())
	event.CorrelationID = r.Header.Get("X-Request-Id")
	_ = store.Append(event)
}

// extractActor resolves the acting user. Prefers the authenticated identity,
// falls back to the X-Remote-User header, then "system".
func extractActor(r *http.Request) string {
	if id, ok := authz.IdentityFromContext(r.Context()); ok && id.User != "" {
		return id.User
	}
	if user := r.Header.Get("X-Remote-User"); user != "" {
		return user
	}
	return "system"
}

func pageParams(r *http.Request) (int, string) {
	pageSize := 20
	if ps := r.URL.Query().Get("pageSize"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 {
			pageSize = v
		}
	}
	return pageSize, r.URL.Query().Get("pageToken")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
