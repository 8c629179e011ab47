package baseline

import "fmt"

// TransitionRule defines an allowed lifecycle transition for a baseline
// version.
type TransitionRule struct {
	From VersionStatus
	To   VersionStatus
}

// DefaultTransitions defines the allowed baseline version transitions.
// DRAFT may publish directly or go through PENDING_APPROVAL; the rework
// branch is PENDING_APPROVAL -> REJECTED, resolved by creating a new draft.
var DefaultTransitions = []TransitionRule{
	{From: StatusDraft, To: StatusPendingApproval},
	{From: StatusDraft, To: StatusPublished},
	{From: StatusPendingApproval, To: StatusPublished},
	{From: StatusPendingApproval, To: StatusRejected},
	{From: StatusPublished, To: StatusArchived},
}

// DisallowedTransitions are explicitly forbidden and return a specific error
// code. Published and archived versions are immutable; rejected versions are
// terminal and reworked through a new draft.
var DisallowedTransitions = map[VersionStatus][]VersionStatus{
	StatusPublished: {StatusDraft, StatusPendingApproval, StatusRejected},
	StatusArchived:  {StatusDraft, StatusPendingApproval, StatusPublished, StatusRejected},
	StatusRejected:  {StatusPublished, StatusPendingApproval, StatusArchived},
}

// TransitionError reports a denied or undefined lifecycle transition.
type TransitionError struct {
	Code    string        `json:"code"`
	From    VersionStatus `json:"from"`
	To      VersionStatus `json:"to"`
	Message string        `json:"message"`
}

func (e *TransitionError) Error() string {
	return e.Message
}

// LifecycleMachine validates baseline version state transitions.
type LifecycleMachine struct {
	transitions []TransitionRule
	disallowed  map[VersionStatus][]VersionStatus
}

// NewLifecycleMachine creates a machine with the default rules.
func NewLifecycleMachine() *LifecycleMachine {
	return &LifecycleMachine{
		transitions: DefaultTransitions,
		disallowed:  DisallowedTransitions,
	}
}

// ValidateTransition checks whether a transition from->to is allowed.
// Returns nil if allowed, an error with a machine-readable code if not.
func (m *LifecycleMachine) ValidateTransition(from, to VersionStatus) error {
	if from == to {
		return nil
	}

	if disallowed, ok := m.disallowed[from]; ok {
		for _, d := range disallowed {
			if d == to {
				return &TransitionError{
					Code:    "BASELINE_TRANSITION_DENIED",
					From:    from,
					To:      to,
					Message: fmt.Sprintf("transition from %s to %s is not allowed", from, to),
				}
			}
		}
	}

	for _, t := range m.transitions {
		if t.From == from && t.To == to {
			return nil
		}
	}

	return &TransitionError{
		Code:    "BASELINE_INVALID_TRANSITION",
		From:    from,
		To:      to,
		Message: fmt.Sprintf("no transition defined from %s to %s", from, to),
	}
}

// IsMutable reports whether a version in the given status may have its
// modules edited or be deleted. Only drafts are mutable; this is a hard rule
// enforced by the stores, not a UI convention.
func (m *LifecycleMachine) IsMutable(status VersionStatus) bool {
	return status == StatusDraft
}
