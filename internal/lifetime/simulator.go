package lifetime

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mwhitfield/horizon/internal/deferred"
	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/tax"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

// DefaultEndAge is the simulation horizon when the scenario does not set
// one.
const DefaultEndAge = 95

// Scenario selects one deterministic projection: a single growth rate
// applied to every pot, an optional custom horizon, an optional filter to a
// single person, and the reference date the projection is anchored to.
type Scenario struct {
	GrowthRate    float64    `json:"growthRate"`
	EndAge        int        `json:"endAge,omitempty"`
	PersonID      *uuid.UUID `json:"personId,omitempty"`
	ReferenceDate time.Time  `json:"referenceDate,omitempty"`
}

// YearRow is one year of the lifetime cash-flow series. Age is the primary
// person's age in that calendar year. All income and expenditure components
// are non-negative; only Surplus may go below zero.
type YearRow struct {
	Age                int     `json:"age"`
	Year               int     `json:"year"`
	EmploymentIncome   float64 `json:"employmentIncome"`
	PensionIncome      float64 `json:"pensionIncome"`
	StatePensionIncome float64 `json:"statePensionIncome"`
	InvestmentIncome   float64 `json:"investmentIncome"`
	TotalIncome        float64 `json:"totalIncome"`
	TotalExpenditure   float64 `json:"totalExpenditure"`
	Surplus            float64 `json:"surplus"`
}

// Result is the full-horizon projection consumed by charting and reporting
// collaborators.
type Result struct {
	Data              []YearRow   `json:"data"`
	Events            []Milestone `json:"events"`
	PrimaryPersonName string      `json:"primaryPersonName"`
}

// personState carries one person's evolving pot balances through the
// simulation. The household snapshot itself is never mutated.
type personState struct {
	person   *models.Person
	income   *models.IncomeProfile
	bonus    *models.BonusStructure
	tranches []deferred.Tranche
	ageAtRef int

	pensionPot    float64
	accessiblePot float64

	employerPension float64
	employeePension float64
	discPension     float64
	discAccessible  float64
}

// GenerateCashFlow projects the household year by year from the primary
// person's current age to the end of horizon. An empty household yields an
// empty series and event list, not an error.
func GenerateCashFlow(h *models.Household, sc Scenario, rules *taxrules.Table) Result {
	if sc.PersonID != nil {
		filtered := h.FilterPerson(*sc.PersonID)
		h = &filtered
	}

	if len(h.Persons) == 0 {
		return Result{Data: []YearRow{}, Events: []Milestone{}, PrimaryPersonName: ""}
	}

	refDate := sc.ReferenceDate
	if refDate.IsZero() {
		refDate = time.Now()
	}
	endAge := sc.EndAge
	if endAge <= 0 {
		endAge = DefaultEndAge
	}

	// The primary person anchors the age axis; earliest-found wins.
	primary := &h.Persons[0]
	baseYear := refDate.Year()
	startAge := primary.AgeAt(refDate)

	states := buildStates(h, refDate)

	result := Result{
		Data:              make([]YearRow, 0, endAge-startAge+1),
		PrimaryPersonName: primary.Name,
	}

	for age := startAge; age <= endAge; age++ {
		offset := age - startAge
		year := baseYear + offset

		// Pots grow before anything lands in the year; the first year
		// reports current balances untouched.
		if offset > 0 {
			for _, st := range states {
				st.pensionPot *= 1 + sc.GrowthRate
				st.accessiblePot *= 1 + sc.GrowthRate
			}
		}

		row := YearRow{Age: age, Year: year}

		for _, st := range states {
			personAge := st.ageAtRef + offset

			// Standing contributions keep landing until retirement even
			// when the person has no income profile; only employment
			// income needs one.
			if personAge < st.person.RetirementAge {
				if st.income != nil {
					row.EmploymentIncome += st.employmentNet(offset, year, rules)
				}
				st.pensionPot += st.employeePension + st.employerPension + st.discPension
				st.accessiblePot += st.discAccessible
			}

			if personAge >= st.person.StateRetirementAge {
				row.StatePensionIncome += statePensionFor(st.person, rules)
			}
		}

		row.TotalExpenditure = Expenditure(h.Outgoings, h.EmergencyFund.MonthlyLifestyleSpending, year, baseYear)

		// Drawdown: whatever expenditure earnings and state pension do
		// not cover comes out of retired persons' pots, non-pension
		// wealth first, capped at what remains.
		uncovered := row.TotalExpenditure - row.EmploymentIncome - row.StatePensionIncome
		for _, st := range states {
			if uncovered <= 0 {
				break
			}
			personAge := st.ageAtRef + offset
			if personAge < st.person.RetirementAge {
				continue
			}

			drawn := math.Min(uncovered, st.accessiblePot)
			st.accessiblePot -= drawn
			row.InvestmentIncome += drawn
			uncovered -= drawn

			if uncovered > 0 && personAge >= st.person.PensionAccessAge {
				drawn = math.Min(uncovered, st.pensionPot)
				st.pensionPot -= drawn
				row.PensionIncome += drawn
				uncovered -= drawn
			}
		}

		row.TotalIncome = row.EmploymentIncome + row.PensionIncome + row.StatePensionIncome + row.InvestmentIncome
		row.Surplus = row.TotalIncome - row.TotalExpenditure

		result.Data = append(result.Data, row)
	}

	result.Events = buildEvents(h, states, startAge, baseYear, endAge)
	return result
}

// buildStates prepares the per-person simulation state from the snapshot.
func buildStates(h *models.Household, refDate time.Time) []*personState {
	states := make([]*personState, 0, len(h.Persons))
	for i := range h.Persons {
		p := &h.Persons[i]
		st := &personState{
			person:   p,
			income:   h.IncomeFor(p.ID),
			bonus:    h.BonusFor(p.ID),
			ageAtRef: p.AgeAt(refDate),
		}

		if st.income != nil {
			st.employeePension = st.income.EmployeePension
			st.employerPension = st.income.EmployerPension
		}
		if st.bonus != nil {
			st.tranches = deferred.Tranches(*st.bonus, refDate)
		}

		for _, acct := range h.AccountsFor(p.ID) {
			if acct.Wrapper == models.WrapperPension {
				st.pensionPot += acct.Value
			} else {
				st.accessiblePot += acct.Value
			}
		}

		st.discPension = h.ContributionsFor(p.ID, models.WrapperPension)
		st.discAccessible = h.ContributionsFor(p.ID, models.WrapperISA) +
			h.ContributionsFor(p.ID, models.WrapperGIA) +
			h.ContributionsFor(p.ID, models.WrapperCash)

		states = append(states, st)
	}
	return states
}

// employmentNet returns the person's net employment income for one year:
// salary grown over the elapsed years, plus the grown cash bonus and any
// deferred tranches vesting in that calendar year, all netted through the
// tax calculator.
func (st *personState) employmentNet(offset, year int, rules *taxrules.Table) float64 {
	gross := st.income.GrossSalary * math.Pow(1+st.income.SalaryGrowthRate, float64(offset))

	if st.bonus != nil {
		gross += st.bonus.CashAnnual * math.Pow(1+st.income.BonusGrowthRate, float64(offset))
	}
	for _, tr := range st.tranches {
		if tr.VestingDate.Year() == year {
			gross += deferred.ProjectedValue(tr)
		}
	}

	net := tax.TakeHomeWithLoan(gross, st.employeePension, st.income.PensionMethod,
		st.person.StudentLoanPlan, rules)
	return net.TakeHome
}

// statePensionFor returns the pro-rata annual state pension from qualifying
// years: nothing below the minimum, the full rate at or beyond the full
// count.
func statePensionFor(p *models.Person, rules *taxrules.Table) float64 {
	if p.NIQualifyingYears < rules.StatePensionMinQualYears {
		return 0
	}
	years := p.NIQualifyingYears
	if years > rules.StatePensionFullQualYears {
		years = rules.StatePensionFullQualYears
	}
	return rules.StatePensionFullAnnual * float64(years) / float64(rules.StatePensionFullQualYears)
}

// buildEvents emits every person's retirement, pension access and state
// pension milestones plus an "ends" marker for each outgoing with an end
// date, ordered and deduplicated by (age, label).
func buildEvents(h *models.Household, states []*personState, startAge, baseYear, endAge int) []Milestone {
	var b eventBuilder

	addAt := func(eventYear int, label string) {
		age := startAge + (eventYear - baseYear)
		if age < startAge || age > endAge {
			return
		}
		b.add(age, eventYear, label)
	}

	for _, st := range states {
		p := st.person
		addAt(baseYear+(p.RetirementAge-st.ageAtRef), p.Name+" retires")
		addAt(baseYear+(p.PensionAccessAge-st.ageAtRef), p.Name+" can access pension")
		addAt(baseYear+(p.StateRetirementAge-st.ageAtRef), p.Name+" starts state pension")
	}

	for i := range h.Outgoings {
		o := &h.Outgoings[i]
		if o.EndDate != nil {
			addAt(o.EndDate.Year(), o.Category+" ends")
		}
	}

	return b.build()
}
