package baseline

import (
	"encoding/json"
	"fmt"
)

var evidenceCategorySet = map[EvidenceCategory]bool{
	EvidenceFinancial:   true,
	EvidenceLegal:       true,
	EvidenceOperational: true,
	EvidenceMarket:      true,
	EvidenceTechnical:   true,
	EvidenceCompliance:  true,
	EvidenceOther:       true,
}

// validateEvidence applies the EVIDENCE_ADMISSIBILITY module rules.
// Completeness requires at least one allowed evidence type. An id listed as
// both allowed and forbidden is ambiguous admissibility and is rejected,
// never silently resolved.
func validateEvidence(raw json.RawMessage) ModuleValidationResult {
	var c diagnosticCollector

	ok := checkStructure(raw, []fieldSpec{
		{name: "allowedTypes", required: true, list: true, idKey: "id"},
		{name: "confidenceRules", list: true, idKey: "id"},
		{name: "decayRules", list: true, idKey: "id"},
	}, &c)
	if !ok {
		return c.result(ModuleEvidenceAdmissibility, false)
	}

	var payload EvidencePayload
	if !decodePayload(raw, &payload, &c) {
		return c.result(ModuleEvidenceAdmissibility, false)
	}

	allowed := make(map[string]bool, len(payload.AllowedTypes))
	for i, et := range payload.AllowedTypes {
		field := fmt.Sprintf("allowedTypes[%d]", i)
		if et.ID == "" {
			c.errorf(field+".id", CodeIDRequired, "evidence type id is required")
		} else {
			allowed[et.ID] = true
		}
		if et.Name == "" {
			c.errorf(field+".name", CodeNameRequired, "evidence type name is required")
		}
		if !evidenceCategorySet[et.Category] {
			c.errorf(field+".category", CodeInvalidEnum, "evidence category %q is not recognized", et.Category)
		}
	}

	for i, id := range payload.ForbiddenTypeIDs {
		if allowed[id] {
			c.errorf(fmt.Sprintf("forbiddenTypeIds[%d]", i), CodeAmbiguousAdmissibility,
				"evidence type %q is listed as both allowed and forbidden", id)
		}
	}

	return c.result(ModuleEvidenceAdmissibility, len(payload.AllowedTypes) > 0)
}
