package baseline

import (
	"encoding/json"
	"fmt"
)

// ModuleInput pairs a module type with its raw payload for aggregate
// validation.
type ModuleInput struct {
	ModuleType ModuleType      `json:"moduleType"`
	Payload    json.RawMessage `json:"payload"`
}

// AggregateResult is the outcome of validating all modules of a baseline
// version.
type AggregateResult struct {
	AllValid    bool                                  `json:"allValid"`
	AllComplete bool                                  `json:"allComplete"`
	Results     map[ModuleType]ModuleValidationResult `json:"results"`
}

// PublishCheck is the publish-readiness verdict. Blockers are rendered
// verbatim to end users by the editor surface.
type PublishCheck struct {
	CanPublish bool     `json:"canPublish"`
	Blockers   []string `json:"blockers,omitempty"`
}

// ValidateAll runs the module validator across all modules of a baseline
// version and reduces the results into overall validity and completeness.
func ValidateAll(modules []ModuleInput) AggregateResult {
	agg := AggregateResult{
		AllValid:    true,
		AllComplete: true,
		Results:     make(map[ModuleType]ModuleValidationResult, len(modules)),
	}
	for _, m := range modules {
		res := Validate(m.ModuleType, m.Payload)
		agg.Results[m.ModuleType] = res
		if !res.IsValid {
			agg.AllValid = false
		}
		if !res.IsComplete {
			agg.AllComplete = false
		}
	}
	return agg
}

// CanPublish is the sole authority on publish-readiness. No other code path
// may decide whether a baseline version can be published. Blockers name every
// module with ERROR diagnostics and every required module that is not
// complete, in module display order.
func CanPublish(modules []ModuleInput) PublishCheck {
	agg := ValidateAll(modules)

	var blockers []string
	for _, t := range AllModuleTypes {
		res, ok := agg.Results[t]
		if !ok {
			continue
		}
		if n := len(res.Errors); n > 0 {
			blockers = append(blockers, fmt.Sprintf("%s: %d validation error(s)", t, n))
		}
	}
	for _, t := range RequiredModuleTypes {
		res, ok := agg.Results[t]
		if !ok {
			blockers = append(blockers, fmt.Sprintf("%s: module is missing", t))
			continue
		}
		if !res.IsComplete {
			blockers = append(blockers, fmt.Sprintf("%s: module is incomplete", t))
		}
	}

	return PublishCheck{
		CanPublish: len(blockers) == 0,
		Blockers:   blockers,
	}
}
