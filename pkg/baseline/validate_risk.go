package baseline

import (
	"encoding/json"
	"fmt"
)

var breachActionSet = map[BreachAction]bool{
	BreachBlock:    true,
	BreachWarn:     true,
	BreachEscalate: true,
}

var riskConstraintKindSet = map[RiskConstraintKind]bool{
	RiskConcentration: true,
	RiskExposure:      true,
	RiskCorrelation:   true,
	RiskLiquidity:     true,
	RiskDuration:      true,
	RiskCustom:        true,
}

// validateRiskAppetite applies the RISK_APPETITE module rules. Completeness
// requires at least one dimension. A missing framework name is only a
// warning.
func validateRiskAppetite(raw json.RawMessage) ModuleValidationResult {
	var c diagnosticCollector

	ok := checkStructure(raw, []fieldSpec{
		{name: "dimensions", required: true, list: true, idKey: "id"},
		{name: "constraints", list: true, idKey: "id"},
	}, &c)
	if !ok {
		return c.result(ModuleRiskAppetite, false)
	}

	var payload RiskAppetitePayload
	if !decodePayload(raw, &payload, &c) {
		return c.result(ModuleRiskAppetite, false)
	}

	if payload.Framework == "" {
		c.warnf("framework", CodeFrameworkMissing, "risk appetite framework name is not set")
	}

	for i, d := range payload.Dimensions {
		field := fmt.Sprintf("dimensions[%d]", i)
		if d.ID == "" {
			c.errorf(field+".id", CodeIDRequired, "risk dimension id is required")
		}
		if d.Name == "" {
			c.errorf(field+".name", CodeNameRequired, "risk dimension name is required")
		}
		if d.ToleranceMin < 0 || d.ToleranceMax < 0 {
			c.errorf(field, CodeToleranceInvalid, "tolerance bounds must be non-negative")
		} else if d.ToleranceMin > d.ToleranceMax {
			c.errorf(field, CodeToleranceInvalid, "toleranceMin %v exceeds toleranceMax %v", d.ToleranceMin, d.ToleranceMax)
		}
	}

	for i, pc := range payload.Constraints {
		field := fmt.Sprintf("constraints[%d]", i)
		if pc.ID == "" {
			c.errorf(field+".id", CodeIDRequired, "portfolio constraint id is required")
		}
		if pc.Name == "" {
			c.errorf(field+".name", CodeNameRequired, "portfolio constraint name is required")
		}
		if !riskConstraintKindSet[pc.Kind] {
			c.errorf(field+".kind", CodeInvalidEnum, "portfolio constraint kind %q is not recognized", pc.Kind)
		}
		if !breachActionSet[pc.BreachAction] {
			c.errorf(field+".breachAction", CodeInvalidEnum, "breach action %q is not one of BLOCK, WARN, ESCALATE", pc.BreachAction)
		}
	}

	return c.result(ModuleRiskAppetite, len(payload.Dimensions) > 0)
}
