package baseline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPayloadsAreValidButIncomplete(t *testing.T) {
	// Empty-but-well-typed defaults never carry errors; completeness depends
	// on each module's rule.
	wantComplete := map[ModuleType]bool{
		ModuleMandates:              false,
		ModuleExclusions:            true,
		ModuleRiskAppetite:          false,
		ModuleGovernanceThresholds:  false,
		ModuleReportingObligations:  true,
		ModuleEvidenceAdmissibility: false,
	}

	for _, mt := range AllModuleTypes {
		payload, err := DefaultPayload(mt)
		require.NoError(t, err, "default payload for %s", mt)

		result := Validate(mt, payload)
		assert.True(t, result.IsValid, "%s default should be valid: %v", mt, result.Errors)
		assert.Empty(t, result.Errors, "%s default should have zero errors", mt)
		assert.Equal(t, wantComplete[mt], result.IsComplete, "completeness for %s", mt)
	}
}

func TestDefaultPayloadUnknownType(t *testing.T) {
	_, err := DefaultPayload(ModuleType("BOGUS"))
	assert.Error(t, err)
}

func TestValidateUnknownModuleType(t *testing.T) {
	result := Validate(ModuleType("BOGUS"), json.RawMessage(`{"schemaVersion":1}`))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeUnknownModuleType, result.Errors[0].Code)
}

func TestValidateRejectsNonObjectPayload(t *testing.T) {
	for _, raw := range []string{`[]`, `"text"`, `42`, ``} {
		result := Validate(ModuleMandates, json.RawMessage(raw))
		assert.False(t, result.IsValid, "payload %q", raw)
		require.NotEmpty(t, result.Errors)
		assert.Equal(t, CodePayloadNotObject, result.Errors[0].Code)
	}
}

func TestValidateRequiresSchemaVersion(t *testing.T) {
	result := Validate(ModuleMandates, json.RawMessage(`{"mandates":[]}`))
	assert.False(t, result.IsValid)

	found := false
	for _, d := range result.Errors {
		if d.Code == CodeSchemaVersionInvalid {
			found = true
		}
	}
	assert.True(t, found, "expected a schemaVersion diagnostic: %v", result.Errors)

	result = Validate(ModuleMandates, json.RawMessage(`{"schemaVersion":0,"mandates":[]}`))
	assert.False(t, result.IsValid)
}

func TestValidateMandatesFieldMustBeList(t *testing.T) {
	result := Validate(ModuleMandates, json.RawMessage(`{"schemaVersion":1,"mandates":{"id":"m1"}}`))
	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, CodeFieldNotList, result.Errors[0].Code)
}

func TestValidateMandatesZeroMandates(t *testing.T) {
	result := Validate(ModuleMandates, json.RawMessage(`{"schemaVersion":1,"mandates":[]}`))
	assert.True(t, result.IsValid)
	assert.False(t, result.IsComplete)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings, "zero mandates should not warn about a missing primary")
}

func validMandateJSON(id string, priority int) string {
	return `{
		"id": "` + id + `",
		"name": "Growth Equity",
		"type": "PRIMARY",
		"status": "ACTIVE",
		"priority": ` + string(rune('0'+priority)) + `,
		"objective": {"primary": "Long-term capital growth"},
		"scope": {
			"geographies": ["EMEA"],
			"includedDomains": ["PRIVATE_EQUITY"],
			"includedStages": ["GROWTH"]
		}
	}`
}

func TestValidateMandatesFullyPopulated(t *testing.T) {
	raw := `{"schemaVersion":1,"mandates":[` + validMandateJSON("m1", 1) + `]}`
	result := Validate(ModuleMandates, json.RawMessage(raw))
	assert.True(t, result.IsValid, "errors: %v", result.Errors)
	assert.True(t, result.IsComplete)
	assert.Empty(t, result.Warnings)
}

func TestValidateMandatesMissingFields(t *testing.T) {
	raw := `{"schemaVersion":1,"mandates":[{"id":"","name":"","type":"WEIRD","status":"ACTIVE","priority":0,"objective":{},"scope":{}}]}`
	result := Validate(ModuleMandates, json.RawMessage(raw))
	assert.False(t, result.IsValid)

	codes := make(map[string]int)
	for _, d := range result.Errors {
		codes[d.Code]++
	}
	assert.Equal(t, 1, codes[CodeIDRequired])
	assert.Equal(t, 1, codes[CodeNameRequired])
	assert.Equal(t, 1, codes[CodeInvalidEnum], "bad type enum")
	assert.Equal(t, 1, codes[CodePriorityInvalid])
	assert.Equal(t, 1, codes[CodeObjectiveRequired])
	assert.Equal(t, 3, codes[CodeScopeIncomplete], "geographies, domains, stages")
}

func TestValidateMandatesDuplicateIDs(t *testing.T) {
	raw := `{"schemaVersion":1,"mandates":[` + validMandateJSON("m1", 1) + `,` + validMandateJSON("m1", 2) + `]}`
	result := Validate(ModuleMandates, json.RawMessage(raw))
	assert.False(t, result.IsValid)

	found := false
	for _, d := range result.Errors {
		if d.Code == CodeDuplicateID {
			found = true
		}
	}
	assert.True(t, found, "expected duplicate id diagnostic: %v", result.Errors)
}

func TestValidateMandatesNoActivePrimaryWarns(t *testing.T) {
	raw := `{"schemaVersion":1,"mandates":[{
		"id": "m1", "name": "Thematic Clean Energy", "type": "THEMATIC",
		"status": "ACTIVE", "priority": 1,
		"objective": {"primary": "Climate transition exposure"},
		"scope": {"geographies": ["EMEA"], "includedDomains": ["INFRA"], "includedStages": ["GROWTH"]}
	}]}`
	result := Validate(ModuleMandates, json.RawMessage(raw))
	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, CodeNoPrimaryMandate, result.Warnings[0].Code)
}

func TestValidateMandatesDuplicatePriorityWarns(t *testing.T) {
	raw := `{"schemaVersion":1,"mandates":[` + validMandateJSON("m1", 1) + `,` + validMandateJSON("m2", 1) + `]}`
	result := Validate(ModuleMandates, json.RawMessage(raw))
	assert.True(t, result.IsValid, "errors: %v", result.Errors)

	found := false
	for _, d := range result.Warnings {
		if d.Code == CodeDuplicatePriority {
			found = true
		}
	}
	assert.True(t, found, "expected duplicate priority warning: %v", result.Warnings)
}

func TestValidateThresholdsTierWithoutApprovers(t *testing.T) {
	raw := `{"schemaVersion":1,"tiers":[{
		"id": "t1", "name": "Tier 1", "priority": 1,
		"triggers": [{"field": "dealSize", "operator": "GT", "values": ["1000000"]}],
		"requiredApprovers": []
	}],"conflictsPolicy":{"disclosureRequired":true}}`
	result := Validate(ModuleGovernanceThresholds, json.RawMessage(raw))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeApproversRequired, result.Errors[0].Code)
}

func TestValidateThresholdsMissingConflictsPolicy(t *testing.T) {
	raw := `{"schemaVersion":1,"tiers":[]}`
	result := Validate(ModuleGovernanceThresholds, json.RawMessage(raw))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeConflictsPolicyMissing, result.Errors[0].Code)
}

func TestValidateThresholdsImplicitDisclosureRejected(t *testing.T) {
	// An absent disclosure flag is an error, never defaulted.
	raw := `{"schemaVersion":1,"tiers":[],"conflictsPolicy":{"disclosureScope":"ALL"}}`
	result := Validate(ModuleGovernanceThresholds, json.RawMessage(raw))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeConflictsPolicyMissing, result.Errors[0].Code)
	assert.Equal(t, "conflictsPolicy.disclosureRequired", result.Errors[0].Field)
}

func TestValidateExclusionsConditionalNeedsApprovalBlock(t *testing.T) {
	raw := `{"schemaVersion":1,"exclusions":[{
		"id": "x1", "name": "Tobacco", "type": "CONDITIONAL",
		"dimension": "SECTOR", "values": ["TOBACCO"],
		"rationale": "ESG exclusion policy"
	}]}`
	result := Validate(ModuleExclusions, json.RawMessage(raw))
	assert.False(t, result.IsValid)

	found := false
	for _, d := range result.Errors {
		if d.Code == CodeApprovalBlockMissing {
			found = true
		}
	}
	assert.True(t, found, "expected approval block diagnostic: %v", result.Errors)
}

func TestValidateExclusionsHardIsValid(t *testing.T) {
	raw := `{"schemaVersion":1,"exclusions":[{
		"id": "x1", "name": "Controversial Weapons", "type": "HARD",
		"dimension": "SECTOR", "values": ["WEAPONS"],
		"rationale": "Firm-wide prohibition"
	}]}`
	result := Validate(ModuleExclusions, json.RawMessage(raw))
	assert.True(t, result.IsValid, "errors: %v", result.Errors)
	assert.True(t, result.IsComplete)
}

func TestValidateRiskAppetiteToleranceBounds(t *testing.T) {
	raw := `{"schemaVersion":1,"dimensions":[{
		"id": "d1", "name": "Concentration",
		"toleranceMin": 5, "toleranceMax": 2
	}]}`
	result := Validate(ModuleRiskAppetite, json.RawMessage(raw))
	assert.False(t, result.IsValid)

	found := false
	for _, d := range result.Errors {
		if d.Code == CodeToleranceInvalid {
			found = true
		}
	}
	assert.True(t, found, "expected tolerance diagnostic: %v", result.Errors)
}

func TestValidateRiskAppetiteMissingFrameworkWarns(t *testing.T) {
	raw := `{"schemaVersion":1,"dimensions":[{
		"id": "d1", "name": "Concentration",
		"toleranceMin": 1, "toleranceMax": 5
	}]}`
	result := Validate(ModuleRiskAppetite, json.RawMessage(raw))
	assert.True(t, result.IsValid, "errors: %v", result.Errors)
	assert.True(t, result.IsComplete)

	found := false
	for _, d := range result.Warnings {
		if d.Code == CodeFrameworkMissing {
			found = true
		}
	}
	assert.True(t, found, "expected framework warning: %v", result.Warnings)
}

func TestValidateReportingPackRules(t *testing.T) {
	raw := `{"schemaVersion":1,"packs":[{
		"id": "p1", "name": "Quarterly LP Pack", "frequency": "QUARTERLY",
		"audience": [], "sections": ["performance"], "signoffRoles": ["CFO"]
	}]}`
	result := Validate(ModuleReportingObligations, json.RawMessage(raw))
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, CodeAudienceRequired, result.Errors[0].Code)
}

func TestValidateEvidenceAmbiguousAdmissibility(t *testing.T) {
	raw := `{"schemaVersion":1,
		"allowedTypes":[{"id":"e1","name":"Audited Financials","category":"FINANCIAL"}],
		"forbiddenTypeIds":["e1"],
		"settings":{"minConfidence":0.5}}`
	result := Validate(ModuleEvidenceAdmissibility, json.RawMessage(raw))
	assert.False(t, result.IsValid)

	found := false
	for _, d := range result.Errors {
		if d.Code == CodeAmbiguousAdmissibility {
			found = true
		}
	}
	assert.True(t, found, "expected ambiguous admissibility diagnostic: %v", result.Errors)
}

func TestValidationIsDeterministic(t *testing.T) {
	raw := json.RawMessage(`{"schemaVersion":1,"mandates":[{"id":"","name":"","type":"WEIRD","status":"X","priority":-1,"objective":{},"scope":{}}]}`)

	first := Validate(ModuleMandates, raw)
	second := Validate(ModuleMandates, raw)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}
