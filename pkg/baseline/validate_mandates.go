package baseline

import (
	"encoding/json"
	"fmt"
)

var mandateTypeSet = map[MandateType]bool{
	MandatePrimary:  true,
	MandateThematic: true,
	MandateCarveout: true,
}

var mandateStatusSet = map[MandateStatus]bool{
	MandateActive:  true,
	MandateRetired: true,
	MandateDraft:   true,
}

// validateMandates applies the MANDATES module rules. Completeness requires
// at least one mandate. Missing ACTIVE PRIMARY mandates and duplicate
// priorities among active mandates are warnings, never errors: the engine
// does not silently coerce an invalid governance stance into a valid one.
func validateMandates(raw json.RawMessage) ModuleValidationResult {
	var c diagnosticCollector

	ok := checkStructure(raw, []fieldSpec{
		{name: "mandates", required: true, list: true, idKey: "id"},
	}, &c)
	if !ok {
		return c.result(ModuleMandates, false)
	}

	var payload MandatesPayload
	if !decodePayload(raw, &payload, &c) {
		return c.result(ModuleMandates, false)
	}

	for i, m := range payload.Mandates {
		field := fmt.Sprintf("mandates[%d]", i)
		if m.ID == "" {
			c.errorf(field+".id", CodeIDRequired, "mandate id is required")
		}
		if m.Name == "" {
			c.errorf(field+".name", CodeNameRequired, "mandate name is required")
		}
		if !mandateTypeSet[m.Type] {
			c.errorf(field+".type", CodeInvalidEnum, "mandate type %q is not one of PRIMARY, THEMATIC, CARVEOUT", m.Type)
		}
		if !mandateStatusSet[m.Status] {
			c.errorf(field+".status", CodeInvalidEnum, "mandate status %q is not one of ACTIVE, RETIRED, DRAFT", m.Status)
		}
		if m.Priority <= 0 {
			c.errorf(field+".priority", CodePriorityInvalid, "mandate priority must be a positive integer")
		}
		if m.Objective.Primary == "" {
			c.errorf(field+".objective.primary", CodeObjectiveRequired, "mandate objective must have a primary statement")
		}
		if len(m.Scope.Geographies) == 0 {
			c.errorf(field+".scope.geographies", CodeScopeIncomplete, "mandate scope needs at least one geography region")
		}
		if len(m.Scope.IncludedDomains) == 0 {
			c.errorf(field+".scope.includedDomains", CodeScopeIncomplete, "mandate scope needs at least one included domain")
		}
		if len(m.Scope.IncludedStages) == 0 {
			c.errorf(field+".scope.includedStages", CodeScopeIncomplete, "mandate scope needs at least one included stage")
		}
		for j, hc := range m.HardConstraints {
			cf := fmt.Sprintf("%s.hardConstraints[%d]", field, j)
			if hc.ID == "" {
				c.errorf(cf+".id", CodeConstraintInvalid, "hard constraint id is required")
			}
			if hc.Name == "" {
				c.errorf(cf+".name", CodeConstraintInvalid, "hard constraint name is required")
			}
		}
	}

	// Advisory checks over active mandates only.
	activePrimary := false
	prioritySeen := make(map[int]bool)
	duplicatePriority := false
	for _, m := range payload.Mandates {
		if m.Status != MandateActive {
			continue
		}
		if m.Type == MandatePrimary {
			activePrimary = true
		}
		if m.Priority > 0 {
			if prioritySeen[m.Priority] {
				duplicatePriority = true
			}
			prioritySeen[m.Priority] = true
		}
	}
	if len(payload.Mandates) > 0 && !activePrimary {
		c.warnf("mandates", CodeNoPrimaryMandate, "no ACTIVE mandate of type PRIMARY is defined")
	}
	if duplicatePriority {
		c.warnf("mandates", CodeDuplicatePriority, "active mandates share duplicate priority values")
	}

	return c.result(ModuleMandates, len(payload.Mandates) > 0)
}
