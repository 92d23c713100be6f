package services

import (
	"fmt"

	"github.com/mwhitfield/horizon/internal/models"
)

// ValidateHousehold is the validation boundary in front of the pure
// calculators: negative amounts and unknown enum values are rejected here
// so the engine functions stay total over their domains. Missing related
// data (a person without an income profile, a bonus without an income) is
// deliberately not an error.
func ValidateHousehold(h *models.Household) error {
	if h == nil {
		return fmt.Errorf("%w: household is required", ErrInvalidSnapshot)
	}

	ids := make(map[string]bool, len(h.Persons))
	for i := range h.Persons {
		p := &h.Persons[i]
		if p.DateOfBirth.IsZero() {
			return fmt.Errorf("%w: person %q has no date of birth", ErrInvalidSnapshot, p.Name)
		}
		if p.RetirementAge < 0 || p.PensionAccessAge < 0 || p.StateRetirementAge < 0 {
			return fmt.Errorf("%w: person %q has a negative milestone age", ErrInvalidSnapshot, p.Name)
		}
		if p.NIQualifyingYears < 0 {
			return fmt.Errorf("%w: person %q has negative NI qualifying years", ErrInvalidSnapshot, p.Name)
		}
		if !p.StudentLoanPlan.IsValid() {
			return fmt.Errorf("%w: person %q has unknown student loan plan %q", ErrInvalidSnapshot, p.Name, p.StudentLoanPlan)
		}
		ids[p.ID.String()] = true
	}

	for i := range h.Incomes {
		in := &h.Incomes[i]
		if in.GrossSalary < 0 || in.EmployeePension < 0 || in.EmployerPension < 0 {
			return fmt.Errorf("%w: income for person %s has a negative amount", ErrInvalidSnapshot, in.PersonID)
		}
		if !in.PensionMethod.IsValid() {
			return fmt.Errorf("%w: income for person %s has unknown pension method %q", ErrInvalidSnapshot, in.PersonID, in.PensionMethod)
		}
	}

	for i := range h.Bonuses {
		b := &h.Bonuses[i]
		if b.TotalAnnual < 0 || b.CashAnnual < 0 {
			return fmt.Errorf("%w: bonus for person %s has a negative amount", ErrInvalidSnapshot, b.PersonID)
		}
		if b.VestingYears < 0 || b.VestingGapYears < 0 {
			return fmt.Errorf("%w: bonus for person %s has negative vesting years", ErrInvalidSnapshot, b.PersonID)
		}
	}

	for i := range h.Accounts {
		a := &h.Accounts[i]
		if !a.Wrapper.IsValid() {
			return fmt.Errorf("%w: account %q has unknown wrapper %q", ErrInvalidSnapshot, a.Name, a.Wrapper)
		}
		if a.Value < 0 {
			return fmt.Errorf("%w: account %q has a negative value", ErrInvalidSnapshot, a.Name)
		}
	}

	for i := range h.Contributions {
		c := &h.Contributions[i]
		if c.Amount < 0 {
			return fmt.Errorf("%w: contribution for person %s has a negative amount", ErrInvalidSnapshot, c.PersonID)
		}
		if !c.Wrapper.IsValid() {
			return fmt.Errorf("%w: contribution for person %s has unknown wrapper %q", ErrInvalidSnapshot, c.PersonID, c.Wrapper)
		}
		if !c.Frequency.IsValid() {
			return fmt.Errorf("%w: contribution for person %s has unknown frequency %q", ErrInvalidSnapshot, c.PersonID, c.Frequency)
		}
	}

	for i := range h.Outgoings {
		o := &h.Outgoings[i]
		if o.Amount < 0 {
			return fmt.Errorf("%w: outgoing %q has a negative amount", ErrInvalidSnapshot, o.Category)
		}
		if !o.Frequency.IsValid() {
			return fmt.Errorf("%w: outgoing %q has unknown frequency %q", ErrInvalidSnapshot, o.Category, o.Frequency)
		}
		if o.StartDate != nil && o.EndDate != nil && o.EndDate.Before(*o.StartDate) {
			return fmt.Errorf("%w: outgoing %q ends before it starts", ErrInvalidSnapshot, o.Category)
		}
	}

	return nil
}
