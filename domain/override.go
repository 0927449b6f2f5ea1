package domain

import "fmt"

// MinOverrideJustificationLen is the minimum length of an override
// justification. Short justifications are rejected so the bypass trail
// stays auditable.
const MinOverrideJustificationLen = 50

// OverrideDecision is a human bypass decision applied to a result after
// validation. It is a separate record, not a mutation done by the engine:
// the authorization workflow constructs one and calls Apply.
type OverrideDecision struct {
	// ApprovedBy identifies who authorized the bypass
	ApprovedBy string `json:"approved_by"`

	// Justification explains why the gate is being bypassed
	Justification string `json:"justification"`
}

// Apply marks the result as overridden. In error mode an override turns a
// failing result into a passing one; the findings and counts are left
// untouched.
func (o OverrideDecision) Apply(r *QualityCheckResult) error {
	if r == nil {
		return NewInputError("cannot apply override to nil result", nil)
	}
	if len(o.Justification) < MinOverrideJustificationLen {
		return NewInputError(fmt.Sprintf(
			"override justification must be at least %d characters, got %d",
			MinOverrideJustificationLen, len(o.Justification)), nil)
	}
	r.OverrideUsed = true
	r.OverrideApprovedBy = o.ApprovedBy
	r.OverrideJustification = o.Justification
	r.Passed = true
	return nil
}
