package baseline

// CurrentSchemaVersion is stamped into every payload produced by the
// default-payload factory. Bump when a payload shape changes incompatibly.
const CurrentSchemaVersion = 1

// MandateType classifies a mandate definition.
type MandateType string

const (
	MandatePrimary  MandateType = "PRIMARY"
	MandateThematic MandateType = "THEMATIC"
	MandateCarveout MandateType = "CARVEOUT"
)

// MandateStatus is the lifecycle status of a single mandate.
type MandateStatus string

const (
	MandateActive  MandateStatus = "ACTIVE"
	MandateRetired MandateStatus = "RETIRED"
	MandateDraft   MandateStatus = "DRAFT"
)

// ConstraintSeverity marks a hard constraint as blocking or advisory.
type ConstraintSeverity string

const (
	SeverityBlocking ConstraintSeverity = "BLOCKING"
	SeverityWarning  ConstraintSeverity = "WARNING"
)

// MandatesPayload is the payload of the MANDATES module.
type MandatesPayload struct {
	SchemaVersion   int              `json:"schemaVersion"`
	Mandates        []Mandate        `json:"mandates"`
	AllocationRules *AllocationRules `json:"allocationRules,omitempty"`
}

// Mandate is one investment/underwriting strategy definition.
type Mandate struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Type            MandateType         `json:"type"`
	Status          MandateStatus       `json:"status"`
	Priority        int                 `json:"priority"`
	Objective       MandateObjective    `json:"objective"`
	Scope           MandateScope        `json:"scope"`
	HardConstraints []HardConstraint    `json:"hardConstraints,omitempty"`
	Allocation      *AllocationEnvelope `json:"allocation,omitempty"`
}

// MandateObjective carries the primary statement and supporting notes.
type MandateObjective struct {
	Primary        string   `json:"primary"`
	SecondaryNotes []string `json:"secondaryNotes,omitempty"`
}

// MandateScope bounds where a mandate applies.
type MandateScope struct {
	Geographies     []string      `json:"geographies"`
	IncludedDomains []string      `json:"includedDomains"`
	ExcludedDomains []string      `json:"excludedDomains,omitempty"`
	IncludedStages  []string      `json:"includedStages"`
	ExcludedStages  []string      `json:"excludedStages,omitempty"`
	Sizing          *SizingBounds `json:"sizing,omitempty"`
}

// SizingBounds constrains ticket/deal size within a scope.
type SizingBounds struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

// HardConstraint is an absolute rule attached to a mandate.
type HardConstraint struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Field    string             `json:"field,omitempty"`
	Operator string             `json:"operator"`
	Values   []string           `json:"values,omitempty"`
	Severity ConstraintSeverity `json:"severity"`
}

// AllocationEnvelope bounds the share of the portfolio a mandate may take.
type AllocationEnvelope struct {
	MinPct    *float64 `json:"minPct,omitempty"`
	MaxPct    *float64 `json:"maxPct,omitempty"`
	TargetPct *float64 `json:"targetPct,omitempty"`
}

// AllocationRules holds portfolio-level allocation settings. The
// TotalMustEqual100 flag is carried in the schema but not yet cross-validated
// against sibling mandates; see the open question in DESIGN.md.
type AllocationRules struct {
	TotalMustEqual100 bool `json:"totalMustEqual100"`
}

// ExclusionType distinguishes absolute from overridable exclusions.
type ExclusionType string

const (
	ExclusionHard        ExclusionType = "HARD"
	ExclusionConditional ExclusionType = "CONDITIONAL"
)

// ExclusionsPayload is the payload of the EXCLUSIONS module.
type ExclusionsPayload struct {
	SchemaVersion int         `json:"schemaVersion"`
	Exclusions    []Exclusion `json:"exclusions"`
}

// Exclusion is one exclusion rule. CONDITIONAL exclusions must carry an
// ApprovalRequired block naming the roles that may approve an override.
type Exclusion struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Type             ExclusionType      `json:"type"`
	Dimension        string             `json:"dimension"`
	Operator         string             `json:"operator"`
	Values           []string           `json:"values"`
	Rationale        string             `json:"rationale"`
	ApprovalRequired *ExclusionOverride `json:"approvalRequired,omitempty"`
}

// ExclusionOverride names who can approve overriding a CONDITIONAL exclusion.
type ExclusionOverride struct {
	Roles        []string `json:"roles"`
	MinApprovers int      `json:"minApprovers"`
}

// BreachAction is the response to a risk constraint breach.
type BreachAction string

const (
	BreachBlock    BreachAction = "BLOCK"
	BreachWarn     BreachAction = "WARN"
	BreachEscalate BreachAction = "ESCALATE"
)

// RiskConstraintKind classifies portfolio-level risk constraints.
type RiskConstraintKind string

const (
	RiskConcentration RiskConstraintKind = "CONCENTRATION"
	RiskExposure      RiskConstraintKind = "EXPOSURE"
	RiskCorrelation   RiskConstraintKind = "CORRELATION"
	RiskLiquidity     RiskConstraintKind = "LIQUIDITY"
	RiskDuration      RiskConstraintKind = "DURATION"
	RiskCustom        RiskConstraintKind = "CUSTOM"
)

// RiskAppetitePayload is the payload of the RISK_APPETITE module.
type RiskAppetitePayload struct {
	SchemaVersion int                   `json:"schemaVersion"`
	Framework     string                `json:"framework,omitempty"`
	Dimensions    []RiskDimension       `json:"dimensions"`
	Constraints   []PortfolioConstraint `json:"constraints,omitempty"`
}

// RiskDimension is one named risk axis with a tolerance interval.
type RiskDimension struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	ToleranceMin      float64  `json:"toleranceMin"`
	ToleranceMax      float64  `json:"toleranceMax"`
	WarnThreshold     *float64 `json:"warnThreshold,omitempty"`
	CriticalThreshold *float64 `json:"criticalThreshold,omitempty"`
}

// PortfolioConstraint is a portfolio-level risk limit.
type PortfolioConstraint struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Kind         RiskConstraintKind `json:"kind"`
	Threshold    float64            `json:"threshold"`
	Comparison   string             `json:"comparison"`
	BreachAction BreachAction       `json:"breachAction"`
}

// ThresholdsPayload is the payload of the GOVERNANCE_THRESHOLDS module.
type ThresholdsPayload struct {
	SchemaVersion   int              `json:"schemaVersion"`
	Tiers           []ApprovalTier   `json:"tiers"`
	ConflictsPolicy *ConflictsPolicy `json:"conflictsPolicy,omitempty"`
}

// ApprovalTier is one priority-ordered approval level.
type ApprovalTier struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Priority          int                   `json:"priority"`
	Triggers          []TierTrigger         `json:"triggers"`
	RequiredApprovers []ApproverRequirement `json:"requiredApprovers"`
	TimeLimitHours    int                   `json:"timeLimitHours,omitempty"`
	EscalationPath    []string              `json:"escalationPath,omitempty"`
	Quorum            *QuorumRule           `json:"quorum,omitempty"`
}

// TierTrigger is one condition that activates an approval tier.
type TierTrigger struct {
	Field    string   `json:"field"`
	Operator string   `json:"operator"`
	Values   []string `json:"values,omitempty"`
}

// ApproverRequirement names a role and how many holders of it must approve.
type ApproverRequirement struct {
	Role     string `json:"role"`
	MinCount int    `json:"minCount"`
}

// QuorumRule is an optional voting rule for a tier.
type QuorumRule struct {
	MinVotes  int     `json:"minVotes"`
	PassRatio float64 `json:"passRatio"`
}

// ConflictsPolicy is the mandatory conflicts-of-interest policy.
// DisclosureRequired is a pointer so an absent flag is distinguishable from
// an explicit false; validation requires it to be set either way.
type ConflictsPolicy struct {
	DisclosureRequired *bool    `json:"disclosureRequired"`
	DisclosureScope    string   `json:"disclosureScope,omitempty"`
	RecusalRules       []string `json:"recusalRules,omitempty"`
}

// ReportingPayload is the payload of the REPORTING_OBLIGATIONS module.
type ReportingPayload struct {
	SchemaVersion int          `json:"schemaVersion"`
	Packs         []ReportPack `json:"packs"`
}

// ReportPack is one recurring reporting obligation.
type ReportPack struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Frequency    string                `json:"frequency"`
	Audience     []string              `json:"audience"`
	Sections     []string              `json:"sections"`
	SignoffRoles []string              `json:"signoffRoles"`
	Channel      string                `json:"channel,omitempty"`
	Format       string                `json:"format,omitempty"`
	Regulatory   *RegulatorySubmission `json:"regulatory,omitempty"`
}

// RegulatorySubmission carries regulator-facing metadata for a report pack.
type RegulatorySubmission struct {
	Regulator      string `json:"regulator"`
	SubmissionCode string `json:"submissionCode,omitempty"`
	DeadlineDays   int    `json:"deadlineDays,omitempty"`
}

// EvidenceCategory classifies allowed evidence types.
type EvidenceCategory string

const (
	EvidenceFinancial   EvidenceCategory = "FINANCIAL"
	EvidenceLegal       EvidenceCategory = "LEGAL"
	EvidenceOperational EvidenceCategory = "OPERATIONAL"
	EvidenceMarket      EvidenceCategory = "MARKET"
	EvidenceTechnical   EvidenceCategory = "TECHNICAL"
	EvidenceCompliance  EvidenceCategory = "COMPLIANCE"
	EvidenceOther       EvidenceCategory = "OTHER"
)

// EvidencePayload is the payload of the EVIDENCE_ADMISSIBILITY module.
type EvidencePayload struct {
	SchemaVersion    int                    `json:"schemaVersion"`
	AllowedTypes     []EvidenceType         `json:"allowedTypes"`
	ForbiddenTypeIDs []string               `json:"forbiddenTypeIds,omitempty"`
	ConfidenceRules  []ConfidenceAdjustment `json:"confidenceRules,omitempty"`
	DecayRules       []DecayRule            `json:"decayRules,omitempty"`
	Settings         EvidenceSettings       `json:"settings"`
}

// EvidenceType is one admissible kind of evidence.
type EvidenceType struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Category   EvidenceCategory `json:"category"`
	Formats    []string         `json:"formats,omitempty"`
	MaxAgeDays int              `json:"maxAgeDays,omitempty"`
}

// ConfidenceAdjustment tunes evidence confidence for a matching condition.
type ConfidenceAdjustment struct {
	ID         string  `json:"id"`
	AppliesTo  string  `json:"appliesTo"`
	Adjustment float64 `json:"adjustment"`
}

// DecayRule describes how evidence confidence decays with age.
type DecayRule struct {
	ID           string           `json:"id"`
	Category     EvidenceCategory `json:"category"`
	HalfLifeDays int              `json:"halfLifeDays"`
}

// EvidenceSettings are global evidence admissibility settings.
type EvidenceSettings struct {
	MinConfidence           float64 `json:"minConfidence"`
	CorroborationRequired   bool    `json:"corroborationRequired"`
	MinCorroboratingSources int     `json:"minCorroboratingSources,omitempty"`
}
