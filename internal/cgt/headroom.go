package cgt

import (
	"github.com/google/uuid"

	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

// HeadroomRecommendThreshold is the minimum remaining allowance before a
// headroom figure is worth surfacing as a recommendation.
const HeadroomRecommendThreshold = 20000.0

// ISAHeadroomResult is a person's remaining ISA allowance for the year.
type ISAHeadroomResult struct {
	Allowance   float64 `json:"allowance"`
	Contributed float64 `json:"contributed"`
	Remaining   float64 `json:"remaining"`
}

// PensionHeadroomResult is a person's remaining pension annual allowance.
// Contributed is always the three-source sum; omitting the employer or
// employee leg silently overstates headroom, so the individual legs are
// reported to keep that visible.
type PensionHeadroomResult struct {
	Allowance     float64 `json:"allowance"`
	Employee      float64 `json:"employee"`
	Employer      float64 `json:"employer"`
	Discretionary float64 `json:"discretionary"`
	Contributed   float64 `json:"contributed"`
	Remaining     float64 `json:"remaining"`
	Recommend     bool    `json:"recommend"`
}

// ISAHeadroom sums a person's annualised discretionary ISA contributions
// against the ISA allowance.
func ISAHeadroom(h *models.Household, personID uuid.UUID, t *taxrules.Table) ISAHeadroomResult {
	contributed := h.ContributionsFor(personID, models.WrapperISA)
	remaining := t.ISAAllowance - contributed
	if remaining < 0 {
		remaining = 0
	}
	return ISAHeadroomResult{
		Allowance:   t.ISAAllowance,
		Contributed: contributed,
		Remaining:   remaining,
	}
}

// PensionHeadroom sums every contribution source against the pension annual
// allowance: the employee and employer legs from the income profile plus
// discretionary pension contributions.
func PensionHeadroom(h *models.Household, personID uuid.UUID, t *taxrules.Table) PensionHeadroomResult {
	result := PensionHeadroomResult{
		Allowance:     t.PensionAnnualAllowance,
		Discretionary: h.ContributionsFor(personID, models.WrapperPension),
	}

	if income := h.IncomeFor(personID); income != nil {
		result.Employee = income.EmployeePension
		result.Employer = income.EmployerPension
	}

	result.Contributed = result.Employee + result.Employer + result.Discretionary
	result.Remaining = result.Allowance - result.Contributed
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	result.Recommend = result.Remaining > HeadroomRecommendThreshold
	return result
}
