package baseline

import (
	"encoding/json"
	"fmt"
)

// moduleValidator validates one module kind's raw payload.
type moduleValidator func(raw json.RawMessage) ModuleValidationResult

// validatorTable dispatches a module-type tag to its validator. Adding a new
// module kind means adding one payload type, one validator, and one entry
// here; the init check below keeps the table exhaustive.
var validatorTable = map[ModuleType]moduleValidator{
	ModuleMandates:              validateMandates,
	ModuleExclusions:            validateExclusions,
	ModuleRiskAppetite:          validateRiskAppetite,
	ModuleGovernanceThresholds:  validateThresholds,
	ModuleReportingObligations:  validateReporting,
	ModuleEvidenceAdmissibility: validateEvidence,
}

func init() {
	// Exhaustiveness check: every known module type must have a validator.
	for _, t := range AllModuleTypes {
		if _, ok := validatorTable[t]; !ok {
			panic(fmt.Sprintf("no validator registered for module type %s", t))
		}
	}
}

// Validate runs structural and business-rule validation for one module
// payload. It never panics on malformed input; an unknown module type or a
// non-object payload yields a result with a single ERROR diagnostic.
// Validation is deterministic: the same payload always yields the same
// diagnostics in the same order.
func Validate(t ModuleType, raw json.RawMessage) ModuleValidationResult {
	v, ok := validatorTable[t]
	if !ok {
		var c diagnosticCollector
		c.errorf("moduleType", CodeUnknownModuleType, "unknown module type %q", t)
		return c.result(t, false)
	}
	return v(raw)
}

// fieldSpec declares one top-level payload field for the structural layer.
type fieldSpec struct {
	name     string
	required bool
	list     bool
	// idKey, when non-empty, requires each list entry to be an object whose
	// idKey value is unique within the list.
	idKey string
}

// checkStructure applies the uniform structural rules: payload is an object,
// required fields are present, schemaVersion is a positive integer, declared
// list fields are lists, and list entry identifiers are unique. Returns false
// when the payload is too malformed for business rules to run.
func checkStructure(raw json.RawMessage, fields []fieldSpec, c *diagnosticCollector) bool {
	if len(raw) == 0 {
		c.errorf("", CodePayloadNotObject, "payload is empty")
		return false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		c.errorf("", CodePayloadNotObject, "payload must be a JSON object")
		return false
	}

	// schemaVersion must be a positive integer on every module payload.
	sv, ok := obj["schemaVersion"]
	if !ok {
		c.errorf("schemaVersion", CodeSchemaVersionInvalid, "schemaVersion is required")
	} else {
		var n int
		if err := json.Unmarshal(sv, &n); err != nil || n <= 0 {
			c.errorf("schemaVersion", CodeSchemaVersionInvalid, "schemaVersion must be a positive integer")
		}
	}

	for _, f := range fields {
		rawField, present := obj[f.name]
		if !present || string(rawField) == "null" {
			if f.required {
				c.errorf(f.name, CodeRequiredFieldMissing, "%s is required", f.name)
			}
			continue
		}
		if !f.list {
			continue
		}

		var items []json.RawMessage
		if err := json.Unmarshal(rawField, &items); err != nil {
			c.errorf(f.name, CodeFieldNotList, "%s must be a list", f.name)
			continue
		}
		if f.idKey == "" {
			continue
		}

		seen := make(map[string]bool, len(items))
		for i, item := range items {
			var entry map[string]json.RawMessage
			if err := json.Unmarshal(item, &entry); err != nil {
				c.errorf(fmt.Sprintf("%s[%d]", f.name, i), CodePayloadMalformed, "%s entries must be objects", f.name)
				continue
			}
			var id string
			if rawID, ok := entry[f.idKey]; ok {
				_ = json.Unmarshal(rawID, &id)
			}
			if id == "" {
				continue // the business layer reports missing ids with context
			}
			if seen[id] {
				c.errorf(fmt.Sprintf("%s[%d].%s", f.name, i, f.idKey), CodeDuplicateID, "duplicate %s %q in %s", f.idKey, id, f.name)
			}
			seen[id] = true
		}
	}

	return true
}

// decodePayload unmarshals the raw payload into the typed struct after the
// structural layer has passed. A type mismatch is reported as a single
// malformed-payload error.
func decodePayload(raw json.RawMessage, out any, c *diagnosticCollector) bool {
	if err := json.Unmarshal(raw, out); err != nil {
		c.errorf("", CodePayloadMalformed, "payload does not match the module schema: %v", err)
		return false
	}
	return true
}
