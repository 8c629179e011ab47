package baseline

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultModuleInputs(t *testing.T) []ModuleInput {
	t.Helper()
	inputs := make([]ModuleInput, 0, len(AllModuleTypes))
	for _, mt := range AllModuleTypes {
		payload, err := DefaultPayload(mt)
		require.NoError(t, err)
		inputs = append(inputs, ModuleInput{ModuleType: mt, Payload: payload})
	}
	return inputs
}

func withModulePayload(inputs []ModuleInput, mt ModuleType, payload string) []ModuleInput {
	out := make([]ModuleInput, len(inputs))
	copy(out, inputs)
	for i := range out {
		if out[i].ModuleType == mt {
			out[i].Payload = json.RawMessage(payload)
		}
	}
	return out
}

const completeMandates = `{"schemaVersion":1,"mandates":[{
	"id": "m1", "name": "Growth Equity", "type": "PRIMARY", "status": "ACTIVE",
	"priority": 1,
	"objective": {"primary": "Long-term capital growth"},
	"scope": {"geographies": ["EMEA"], "includedDomains": ["PRIVATE_EQUITY"], "includedStages": ["GROWTH"]}
}]}`

const completeThresholds = `{"schemaVersion":1,"tiers":[{
	"id": "t1", "name": "Tier 1", "priority": 1,
	"triggers": [{"field": "dealSize", "operator": "GT", "values": ["1000000"]}],
	"requiredApprovers": [{"role": "IC_CHAIR", "minCount": 1}]
}],"conflictsPolicy":{"disclosureRequired":true}}`

func TestValidateAllDefaults(t *testing.T) {
	agg := ValidateAll(defaultModuleInputs(t))
	assert.True(t, agg.AllValid)
	assert.False(t, agg.AllComplete)
	assert.Len(t, agg.Results, len(AllModuleTypes))
}

func TestCanPublishDefaultsBlockedOnRequiredModules(t *testing.T) {
	check := CanPublish(defaultModuleInputs(t))
	assert.False(t, check.CanPublish)
	require.Len(t, check.Blockers, 2)
	assert.Equal(t, "MANDATES: module is incomplete", check.Blockers[0])
	assert.Equal(t, "GOVERNANCE_THRESHOLDS: module is incomplete", check.Blockers[1])
}

func TestCanPublishBlockerNamesThresholds(t *testing.T) {
	// Mandates valid and complete, thresholds still the empty default.
	inputs := withModulePayload(defaultModuleInputs(t), ModuleMandates, completeMandates)

	check := CanPublish(inputs)
	assert.False(t, check.CanPublish)
	require.Len(t, check.Blockers, 1)
	assert.Contains(t, check.Blockers[0], "GOVERNANCE_THRESHOLDS")
}

func TestCanPublishSucceedsWhenRequiredModulesComplete(t *testing.T) {
	inputs := withModulePayload(defaultModuleInputs(t), ModuleMandates, completeMandates)
	inputs = withModulePayload(inputs, ModuleGovernanceThresholds, completeThresholds)

	check := CanPublish(inputs)
	assert.True(t, check.CanPublish, "blockers: %v", check.Blockers)
	assert.Empty(t, check.Blockers)
}

func TestCanPublishCountsValidationErrors(t *testing.T) {
	bad := `{"schemaVersion":1,"mandates":[{"id":"","name":"","type":"X","status":"Y","priority":0,"objective":{},"scope":{}}]}`
	inputs := withModulePayload(defaultModuleInputs(t), ModuleMandates, bad)

	check := CanPublish(inputs)
	assert.False(t, check.CanPublish)
	require.NotEmpty(t, check.Blockers)
	assert.True(t, strings.HasPrefix(check.Blockers[0], "MANDATES: "), "blockers: %v", check.Blockers)
	assert.Contains(t, check.Blockers[0], "validation error(s)")
}

func TestCanPublishMissingRequiredModule(t *testing.T) {
	var inputs []ModuleInput
	for _, mt := range AllModuleTypes {
		if mt == ModuleGovernanceThresholds {
			continue
		}
		payload, err := DefaultPayload(mt)
		require.NoError(t, err)
		inputs = append(inputs, ModuleInput{ModuleType: mt, Payload: payload})
	}
	inputs = withModulePayload(inputs, ModuleMandates, completeMandates)

	check := CanPublish(inputs)
	assert.False(t, check.CanPublish)
	assert.Contains(t, check.Blockers, "GOVERNANCE_THRESHOLDS: module is missing")
}
