package baseline

import (
	"encoding/json"
	"fmt"
)

// validateThresholds applies the GOVERNANCE_THRESHOLDS module rules.
// Completeness requires at least one approval tier and a conflicts policy.
// The conflicts policy must carry an explicit disclosure flag; an absent
// flag is rejected rather than defaulted.
func validateThresholds(raw json.RawMessage) ModuleValidationResult {
	var c diagnosticCollector

	ok := checkStructure(raw, []fieldSpec{
		{name: "tiers", required: true, list: true, idKey: "id"},
	}, &c)
	if !ok {
		return c.result(ModuleGovernanceThresholds, false)
	}

	var payload ThresholdsPayload
	if !decodePayload(raw, &payload, &c) {
		return c.result(ModuleGovernanceThresholds, false)
	}

	for i, tier := range payload.Tiers {
		field := fmt.Sprintf("tiers[%d]", i)
		if tier.ID == "" {
			c.errorf(field+".id", CodeIDRequired, "approval tier id is required")
		}
		if tier.Name == "" {
			c.errorf(field+".name", CodeNameRequired, "approval tier name is required")
		}
		if tier.Priority <= 0 {
			c.errorf(field+".priority", CodePriorityInvalid, "approval tier priority must be a positive integer")
		}
		if len(tier.Triggers) == 0 {
			c.errorf(field+".triggers", CodeTriggersRequired, "approval tier needs at least one trigger condition")
		}
		if len(tier.RequiredApprovers) == 0 {
			c.errorf(field+".requiredApprovers", CodeApproversRequired, "approval tier needs at least one required-approver role")
		}
		for j, a := range tier.RequiredApprovers {
			af := fmt.Sprintf("%s.requiredApprovers[%d]", field, j)
			if a.Role == "" {
				c.errorf(af+".role", CodeApproverRoleInvalid, "approver role name is required")
			}
			if a.MinCount <= 0 {
				c.errorf(af+".minCount", CodeApproverRoleInvalid, "approver minCount must be positive")
			}
		}
	}

	// Duplicate tier priorities are advisory; tie-breaking is a product call.
	prioritySeen := make(map[int]bool)
	for _, tier := range payload.Tiers {
		if tier.Priority <= 0 {
			continue
		}
		if prioritySeen[tier.Priority] {
			c.warnf("tiers", CodeDuplicatePriority, "approval tiers share duplicate priority values")
			break
		}
		prioritySeen[tier.Priority] = true
	}

	if payload.ConflictsPolicy == nil {
		c.errorf("conflictsPolicy", CodeConflictsPolicyMissing, "conflicts-of-interest policy is required")
	} else if payload.ConflictsPolicy.DisclosureRequired == nil {
		c.errorf("conflictsPolicy.disclosureRequired", CodeConflictsPolicyMissing, "conflicts policy must state the disclosure flag explicitly")
	}

	complete := len(payload.Tiers) > 0 && payload.ConflictsPolicy != nil
	return c.result(ModuleGovernanceThresholds, complete)
}
