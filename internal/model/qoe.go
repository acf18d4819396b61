package model

import "github.com/shopspring/decimal"

// AdjustmentType classifies a QoE adjustment.
type AdjustmentType string

const (
	AdjustmentNonRecurring     AdjustmentType = "non-recurring"
	AdjustmentRelatedParty     AdjustmentType = "related-party"
	AdjustmentOwnerComp        AdjustmentType = "owner-compensation"
	AdjustmentBadDebt          AdjustmentType = "bad-debt"
	AdjustmentProvisionRelease AdjustmentType = "provision-release"
	AdjustmentMethodChange     AdjustmentType = "accounting-method-change"
	AdjustmentTiming           AdjustmentType = "timing-difference"
	AdjustmentOther            AdjustmentType = "other"
)

// Confidence is the detection confidence tier, fixed per rule.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// AdjustmentSource distinguishes detected proposals from manual entries.
type AdjustmentSource string

const (
	SourceAuto   AdjustmentSource = "auto-detected"
	SourceManual AdjustmentSource = "manual"
)

// QoEAdjustment is one EBITDA normalization item. Auto-detected adjustments
// start with Validated=false; only validated adjustments feed bridge totals.
type QoEAdjustment struct {
	ID           string           `json:"id"`
	Type         AdjustmentType   `json:"type"`
	Label        string           `json:"label"`
	Description  string           `json:"description"`
	FiscalYear   string           `json:"fiscalYear"`
	ImpactEBITDA decimal.Decimal  `json:"impactEBITDA"`
	Confidence   Confidence       `json:"confidence"`
	Source       AdjustmentSource `json:"source"`
	Accounts     []string         `json:"accounts,omitempty"`
	Validated    bool             `json:"validated"`
}

// QoEAnalysis is the bridge for a single fiscal year.
type QoEAnalysis struct {
	FiscalYear    string          `json:"fiscalYear"`
	EBITDAReporte decimal.Decimal `json:"ebitdaReporte"`
	Adjustments   []QoEAdjustment `json:"adjustments"`
	EBITDAAjuste  decimal.Decimal `json:"ebitdaAjuste"`
	MargeAjustee  decimal.Decimal `json:"margeAjustee"`
}

// QoECollision reports two adjustments that look like duplicates. They are
// surfaced rather than merged.
type QoECollision struct {
	FiscalYear string        `json:"fiscalYear"`
	First      QoEAdjustment `json:"first"`
	Second     QoEAdjustment `json:"second"`
	Reason     string        `json:"reason"`
}

// QoEBridge aggregates per-year analyses plus a cross-year summary by type.
type QoEBridge struct {
	Years      []QoEAnalysis                      `json:"years"`
	ByType     map[AdjustmentType]decimal.Decimal `json:"byType"`
	Collisions []QoECollision                     `json:"collisions,omitempty"`
}
