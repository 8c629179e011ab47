package baseline

import (
	"encoding/json"
	"fmt"
)

var exclusionTypeSet = map[ExclusionType]bool{
	ExclusionHard:        true,
	ExclusionConditional: true,
}

// validateExclusions applies the EXCLUSIONS module rules. An empty exclusion
// list is a legitimate governance stance, so completeness is always true.
// Whether a CONDITIONAL exclusion's approvalRequired block is internally
// plausible (minApprovers vs roles) is deliberately not checked; presence of
// the block is the contract.
func validateExclusions(raw json.RawMessage) ModuleValidationResult {
	var c diagnosticCollector

	ok := checkStructure(raw, []fieldSpec{
		{name: "exclusions", required: true, list: true, idKey: "id"},
	}, &c)
	if !ok {
		return c.result(ModuleExclusions, false)
	}

	var payload ExclusionsPayload
	if !decodePayload(raw, &payload, &c) {
		return c.result(ModuleExclusions, false)
	}

	for i, e := range payload.Exclusions {
		field := fmt.Sprintf("exclusions[%d]", i)
		if e.ID == "" {
			c.errorf(field+".id", CodeIDRequired, "exclusion id is required")
		}
		if e.Name == "" {
			c.errorf(field+".name", CodeNameRequired, "exclusion name is required")
		}
		if !exclusionTypeSet[e.Type] {
			c.errorf(field+".type", CodeInvalidEnum, "exclusion type %q is not one of HARD, CONDITIONAL", e.Type)
		}
		if e.Dimension == "" {
			c.errorf(field+".dimension", CodeRequiredFieldMissing, "exclusion dimension is required")
		}
		if len(e.Values) == 0 {
			c.errorf(field+".values", CodeValuesRequired, "exclusion needs at least one operand value")
		}
		if e.Rationale == "" {
			c.errorf(field+".rationale", CodeRationaleRequired, "exclusion rationale is required")
		}
		if e.Type == ExclusionConditional && e.ApprovalRequired == nil {
			c.errorf(field+".approvalRequired", CodeApprovalBlockMissing, "CONDITIONAL exclusion must declare an approvalRequired block")
		}
	}

	return c.result(ModuleExclusions, true)
}
