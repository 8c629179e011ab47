package baseline

import (
	"encoding/json"
	"fmt"
)

// DefaultPayload returns the empty-but-well-typed payload for a module kind,
// marshaled to JSON. A default payload is always structurally valid; whether
// it is complete depends on the module's completeness rule.
func DefaultPayload(t ModuleType) (json.RawMessage, error) {
	var payload any
	switch t {
	case ModuleMandates:
		payload = MandatesPayload{
			SchemaVersion: CurrentSchemaVersion,
			Mandates:      []Mandate{},
		}
	case ModuleExclusions:
		payload = ExclusionsPayload{
			SchemaVersion: CurrentSchemaVersion,
			Exclusions:    []Exclusion{},
		}
	case ModuleRiskAppetite:
		payload = RiskAppetitePayload{
			SchemaVersion: CurrentSchemaVersion,
			Dimensions:    []RiskDimension{},
		}
	case ModuleGovernanceThresholds:
		// The disclosure flag must be explicit even on the empty default;
		// the validator rejects an absent conflicts policy.
		disclosure := true
		payload = ThresholdsPayload{
			SchemaVersion:   CurrentSchemaVersion,
			Tiers:           []ApprovalTier{},
			ConflictsPolicy: &ConflictsPolicy{DisclosureRequired: &disclosure},
		}
	case ModuleReportingObligations:
		payload = ReportingPayload{
			SchemaVersion: CurrentSchemaVersion,
			Packs:         []ReportPack{},
		}
	case ModuleEvidenceAdmissibility:
		payload = EvidencePayload{
			SchemaVersion: CurrentSchemaVersion,
			AllowedTypes:  []EvidenceType{},
			Settings: EvidenceSettings{
				MinConfidence:         0.5,
				CorroborationRequired: false,
			},
		}
	default:
		return nil, fmt.Errorf("unknown module type: %s", t)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal default payload for %s: %w", t, err)
	}
	return raw, nil
}

// MustDefaultPayload is DefaultPayload for known module types; it panics on
// an unknown type and is intended for the fixed AllModuleTypes list.
func MustDefaultPayload(t ModuleType) json.RawMessage {
	raw, err := DefaultPayload(t)
	if err != nil {
		panic(err)
	}
	return raw
}
