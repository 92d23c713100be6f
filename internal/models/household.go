package models

import (
	"github.com/google/uuid"
)

// RetirementConfig holds the household's retirement planning targets and the
// small ordered set of candidate growth scenarios.
type RetirementConfig struct {
	TargetAnnualIncome     float64   `json:"targetAnnualIncome"`
	WithdrawalRate         float64   `json:"withdrawalRate"`
	StatePensionOffsetsPot bool      `json:"statePensionOffsetsPot"`
	GrowthScenarios        []float64 `json:"growthScenarios"`
}

// EmergencyFundConfig holds monthly spending figures used by the
// emergency-fund runway calculation.
type EmergencyFundConfig struct {
	MonthlyEssentialSpending float64 `json:"monthlyEssentialSpending"`
	MonthlyLifestyleSpending float64 `json:"monthlyLifestyleSpending"`
}

// Household is the validated snapshot every calculation consumes. It is
// treated as immutable: no engine function mutates it.
type Household struct {
	Persons       []Person            `json:"persons"`
	Incomes       []IncomeProfile     `json:"incomes"`
	Bonuses       []BonusStructure    `json:"bonuses"`
	Accounts      []Account           `json:"accounts"`
	Contributions []Contribution      `json:"contributions"`
	Outgoings     []CommittedOutgoing `json:"outgoings"`
	Retirement    RetirementConfig    `json:"retirement"`
	EmergencyFund EmergencyFundConfig `json:"emergencyFund"`
}

// IncomeFor returns the income profile for the given person, or nil when the
// person has none. Partial data is a normal state, never an error.
func (h *Household) IncomeFor(personID uuid.UUID) *IncomeProfile {
	for i := range h.Incomes {
		if h.Incomes[i].PersonID == personID {
			return &h.Incomes[i]
		}
	}
	return nil
}

// BonusFor returns the bonus structure for the given person, or nil.
func (h *Household) BonusFor(personID uuid.UUID) *BonusStructure {
	for i := range h.Bonuses {
		if h.Bonuses[i].PersonID == personID {
			return &h.Bonuses[i]
		}
	}
	return nil
}

// AccountsFor returns the accounts owned by the given person.
func (h *Household) AccountsFor(personID uuid.UUID) []Account {
	var out []Account
	for _, a := range h.Accounts {
		if a.PersonID == personID {
			out = append(out, a)
		}
	}
	return out
}

// ContributionsFor returns the discretionary contributions made by the given
// person into the given wrapper, annualised and summed.
func (h *Household) ContributionsFor(personID uuid.UUID, wrapper Wrapper) float64 {
	total := 0.0
	for i := range h.Contributions {
		c := &h.Contributions[i]
		if c.PersonID == personID && c.Wrapper == wrapper {
			total += c.AnnualAmount()
		}
	}
	return total
}

// FilterPerson returns a copy of the household containing only the named
// person and the records scoped to them. Outgoings with no person scope are
// household-wide and survive the filter.
func (h *Household) FilterPerson(personID uuid.UUID) Household {
	out := Household{
		Retirement:    h.Retirement,
		EmergencyFund: h.EmergencyFund,
	}
	for _, p := range h.Persons {
		if p.ID == personID {
			out.Persons = append(out.Persons, p)
		}
	}
	for _, in := range h.Incomes {
		if in.PersonID == personID {
			out.Incomes = append(out.Incomes, in)
		}
	}
	for _, b := range h.Bonuses {
		if b.PersonID == personID {
			out.Bonuses = append(out.Bonuses, b)
		}
	}
	for _, a := range h.Accounts {
		if a.PersonID == personID {
			out.Accounts = append(out.Accounts, a)
		}
	}
	for _, c := range h.Contributions {
		if c.PersonID == personID {
			out.Contributions = append(out.Contributions, c)
		}
	}
	for _, o := range h.Outgoings {
		if o.PersonID == nil || *o.PersonID == personID {
			out.Outgoings = append(out.Outgoings, o)
		}
	}
	return out
}
