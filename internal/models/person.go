package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is one member of the household. Created at onboarding and mutated
// by settings edits; never deleted while an income profile or account still
// references it.
type Person struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	DateOfBirth        time.Time       `json:"dateOfBirth"`
	RetirementAge      int             `json:"retirementAge"`
	PensionAccessAge   int             `json:"pensionAccessAge"`
	StateRetirementAge int             `json:"stateRetirementAge"`
	NIQualifyingYears  int             `json:"niQualifyingYears"`
	StudentLoanPlan    StudentLoanPlan `json:"studentLoanPlan"`
}

// AgeAt returns the person's age in whole years at the given date.
func (p *Person) AgeAt(at time.Time) int {
	age := at.Year() - p.DateOfBirth.Year()
	// Not yet had this year's birthday.
	if at.YearDay() < p.DateOfBirth.YearDay() {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// IncomeProfile describes a person's employment income. At most one per
// person; a person without one is simply skipped by the analyzers.
type IncomeProfile struct {
	PersonID         uuid.UUID     `json:"personId"`
	GrossSalary      float64       `json:"grossSalary"`
	EmployeePension  float64       `json:"employeePension"`
	EmployerPension  float64       `json:"employerPension"`
	PensionMethod    PensionMethod `json:"pensionMethod"`
	SalaryGrowthRate float64       `json:"salaryGrowthRate"`
	BonusGrowthRate  float64       `json:"bonusGrowthRate"`
}

// BonusStructure describes an annual bonus split into an immediate cash
// portion and a deferred portion that vests over several years. At most one
// per person.
type BonusStructure struct {
	PersonID        uuid.UUID `json:"personId"`
	TotalAnnual     float64   `json:"totalAnnual"`
	CashAnnual      float64   `json:"cashAnnual"`
	VestingYears    int       `json:"vestingYears"`
	VestingGapYears int       `json:"vestingGapYears"`
	GrowthRate      float64   `json:"growthRate"`
}

// DeferredAnnual returns the portion of the bonus that is deferred into
// vesting tranches, clamped at zero.
func (b *BonusStructure) DeferredAnnual() float64 {
	d := b.TotalAnnual - b.CashAnnual
	if d < 0 {
		return 0
	}
	return d
}
