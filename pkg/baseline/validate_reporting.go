package baseline

import (
	"encoding/json"
	"fmt"
)

// validateReporting applies the REPORTING_OBLIGATIONS module rules. Empty
// reporting obligations are legitimate, so completeness is always true.
func validateReporting(raw json.RawMessage) ModuleValidationResult {
	var c diagnosticCollector

	ok := checkStructure(raw, []fieldSpec{
		{name: "packs", required: true, list: true, idKey: "id"},
	}, &c)
	if !ok {
		return c.result(ModuleReportingObligations, false)
	}

	var payload ReportingPayload
	if !decodePayload(raw, &payload, &c) {
		return c.result(ModuleReportingObligations, false)
	}

	for i, p := range payload.Packs {
		field := fmt.Sprintf("packs[%d]", i)
		if p.ID == "" {
			c.errorf(field+".id", CodeIDRequired, "report pack id is required")
		}
		if p.Name == "" {
			c.errorf(field+".name", CodeNameRequired, "report pack name is required")
		}
		if p.Frequency == "" {
			c.errorf(field+".frequency", CodeFrequencyRequired, "report pack frequency is required")
		}
		if len(p.Audience) == 0 {
			c.errorf(field+".audience", CodeAudienceRequired, "report pack needs at least one audience entry")
		}
		if len(p.Sections) == 0 {
			c.errorf(field+".sections", CodeSectionsRequired, "report pack needs at least one section")
		}
		if len(p.SignoffRoles) == 0 {
			c.errorf(field+".signoffRoles", CodeSignoffRequired, "report pack needs at least one sign-off role")
		}
	}

	return c.result(ModuleReportingObligations, true)
}
