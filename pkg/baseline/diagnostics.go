package baseline

import "fmt"

// DiagnosticSeverity distinguishes blocking errors from advisory warnings.
type DiagnosticSeverity string

const (
	SeverityError DiagnosticSeverity = "ERROR"
	SeverityWarn  DiagnosticSeverity = "WARNING"
)

// Machine-readable diagnostic codes. Consumers branch on these, not on the
// human message.
const (
	CodePayloadNotObject     = "PAYLOAD_NOT_OBJECT"
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	CodeSchemaVersionInvalid = "SCHEMA_VERSION_INVALID"
	CodeFieldNotList         = "FIELD_NOT_LIST"
	CodeDuplicateID          = "DUPLICATE_ID"
	CodePayloadMalformed     = "PAYLOAD_MALFORMED"
	CodeUnknownModuleType    = "UNKNOWN_MODULE_TYPE"

	CodeNameRequired           = "NAME_REQUIRED"
	CodeIDRequired             = "ID_REQUIRED"
	CodeInvalidEnum            = "INVALID_ENUM"
	CodePriorityInvalid        = "PRIORITY_INVALID"
	CodeObjectiveRequired      = "OBJECTIVE_REQUIRED"
	CodeScopeIncomplete        = "SCOPE_INCOMPLETE"
	CodeConstraintInvalid      = "CONSTRAINT_INVALID"
	CodeNoPrimaryMandate       = "NO_ACTIVE_PRIMARY_MANDATE"
	CodeDuplicatePriority      = "DUPLICATE_PRIORITY"
	CodeValuesRequired         = "VALUES_REQUIRED"
	CodeRationaleRequired      = "RATIONALE_REQUIRED"
	CodeApprovalBlockMissing   = "APPROVAL_BLOCK_REQUIRED"
	CodeToleranceInvalid       = "TOLERANCE_INVALID"
	CodeFrameworkMissing       = "FRAMEWORK_MISSING"
	CodeTriggersRequired       = "TIER_TRIGGERS_REQUIRED"
	CodeApproversRequired      = "TIER_APPROVERS_REQUIRED"
	CodeApproverRoleInvalid    = "APPROVER_ROLE_INVALID"
	CodeConflictsPolicyMissing = "CONFLICTS_POLICY_REQUIRED"
	CodeAudienceRequired       = "AUDIENCE_REQUIRED"
	CodeSectionsRequired       = "SECTIONS_REQUIRED"
	CodeSignoffRequired        = "SIGNOFF_ROLES_REQUIRED"
	CodeFrequencyRequired      = "FREQUENCY_REQUIRED"
	CodeAmbiguousAdmissibility = "AMBIGUOUS_ADMISSIBILITY"
)

// Diagnostic is one machine-readable validation finding.
type Diagnostic struct {
	Field    string             `json:"field"`
	Message  string             `json:"message"`
	Code     string             `json:"code"`
	Severity DiagnosticSeverity `json:"severity"`
}

// ModuleValidationResult is the outcome of validating one module payload.
// IsValid means no ERROR diagnostics; IsComplete applies each module's
// presence rule (some modules are legitimately complete when empty).
type ModuleValidationResult struct {
	ModuleType ModuleType   `json:"moduleType"`
	IsValid    bool         `json:"isValid"`
	IsComplete bool         `json:"isComplete"`
	Errors     []Diagnostic `json:"errors,omitempty"`
	Warnings   []Diagnostic `json:"warnings,omitempty"`
}

// diagnosticCollector accumulates errors and warnings during validation.
type diagnosticCollector struct {
	errors   []Diagnostic
	warnings []Diagnostic
}

func (c *diagnosticCollector) errorf(field, code, format string, args ...any) {
	c.errors = append(c.errors, Diagnostic{
		Field:    field,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

func (c *diagnosticCollector) warnf(field, code, format string, args ...any) {
	c.warnings = append(c.warnings, Diagnostic{
		Field:    field,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarn,
	})
}

func (c *diagnosticCollector) result(moduleType ModuleType, complete bool) ModuleValidationResult {
	return ModuleValidationResult{
		ModuleType: moduleType,
		IsValid:    len(c.errors) == 0,
		IsComplete: complete,
		Errors:     c.errors,
		Warnings:   c.warnings,
	}
}
