package baseline

import (
	"fmt"
	"strings"
)

// The store operations return these typed errors for expected, recoverable
// denials. Callers branch on the error type to build structured guard
// responses; nothing here is a process fault.

// PortfolioNotFoundError reports a missing portfolio.
type PortfolioNotFoundError struct {
	ID string
}

func (e *PortfolioNotFoundError) Error() string {
	return fmt.Sprintf("portfolio %s not found", e.ID)
}

// VersionNotFoundError reports a missing baseline version.
type VersionNotFoundError struct {
	ID string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("baseline version %s not found", e.ID)
}

// DraftConflictError reports that a portfolio already has a draft. The
// caller must resolve the conflict explicitly; the engine never merges or
// overwrites.
type DraftConflictError struct {
	ExistingDraftID string
}

func (e *DraftConflictError) Error() string {
	return fmt.Sprintf("portfolio already has draft version %s", e.ExistingDraftID)
}

// ImmutableVersionError reports a mutation attempt on a version that has
// left DRAFT.
type ImmutableVersionError struct {
	ID     string
	Status VersionStatus
}

func (e *ImmutableVersionError) Error() string {
	return fmt.Sprintf("baseline version %s is %s and immutable", e.ID, e.Status)
}

// ActiveVersionError reports a delete attempt on the portfolio's active
// baseline.
type ActiveVersionError struct {
	ID string
}

func (e *ActiveVersionError) Error() string {
	return fmt.Sprintf("baseline version %s is the portfolio's active baseline", e.ID)
}

// InvalidModulesError reports a submit attempt while modules carry
// ERROR-level diagnostics.
type InvalidModulesError struct {
	InvalidModules []ModuleType
}

func (e *InvalidModulesError) Error() string {
	names := make([]string, len(e.InvalidModules))
	for i, t := range e.InvalidModules {
		names[i] = string(t)
	}
	return fmt.Sprintf("baseline has invalid modules: %s", strings.Join(names, ", "))
}

// PublishBlockedError reports a publish attempt denied by the publish-
// readiness check.
type PublishBlockedError struct {
	Blockers []string
}

func (e *PublishBlockedError) Error() string {
	return fmt.Sprintf("publish blocked: %s", strings.Join(e.Blockers, "; "))
}
