package lifetime

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

// refDate anchors every simulation in these tests to a fixed point so ages
// are deterministic.
var refDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// newWorker builds a person aged 40 at refDate with a standard milestone
// ladder and a salaried income profile.
func newWorker(name string, salary float64) (models.Person, models.IncomeProfile) {
	p := models.Person{
		ID:                 uuid.New(),
		Name:               name,
		DateOfBirth:        time.Date(1984, time.June, 15, 0, 0, 0, 0, time.UTC),
		RetirementAge:      60,
		PensionAccessAge:   57,
		StateRetirementAge: 68,
		NIQualifyingYears:  35,
		StudentLoanPlan:    models.PlanNone,
	}
	income := models.IncomeProfile{
		PersonID:         p.ID,
		GrossSalary:      salary,
		PensionMethod:    models.SalarySacrifice,
		SalaryGrowthRate: 0.03,
	}
	return p, income
}

func scenario(growth float64) Scenario {
	return Scenario{GrowthRate: growth, ReferenceDate: refDate}
}

func TestGenerateCashFlow_EmptyHousehold(t *testing.T) {
	result := GenerateCashFlow(&models.Household{}, scenario(0.05), taxrules.Default())

	if result.Data == nil || len(result.Data) != 0 {
		t.Errorf("expected empty data series, got %v", result.Data)
	}
	if result.Events == nil || len(result.Events) != 0 {
		t.Errorf("expected empty events, got %v", result.Events)
	}
	if result.PrimaryPersonName != "" {
		t.Errorf("expected empty primary person name, got %q", result.PrimaryPersonName)
	}
}

func TestGenerateCashFlow_EmploymentIncomeStopsAtRetirement(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	h := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
	}

	result := GenerateCashFlow(h, scenario(0.05), taxrules.Default())

	for _, row := range result.Data {
		if row.Age < 60 && row.EmploymentIncome <= 0 {
			t.Errorf("age %d: expected employment income while working, got %v", row.Age, row.EmploymentIncome)
		}
		if row.Age >= 61 && row.EmploymentIncome != 0 {
			t.Errorf("age %d: expected no employment income after retirement, got %v", row.Age, row.EmploymentIncome)
		}
	}
}

func TestGenerateCashFlow_SalaryGrowthCompounds(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	h := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
	}

	result := GenerateCashFlow(h, scenario(0), taxrules.Default())

	// Net income should rise year on year while working.
	for i := 1; i < len(result.Data); i++ {
		row := result.Data[i]
		if row.Age >= 59 {
			break
		}
		if row.EmploymentIncome <= result.Data[i-1].EmploymentIncome {
			t.Errorf("age %d: expected growing employment income", row.Age)
		}
	}
}

func TestGenerateCashFlow_StatePensionStartsAtStateRetirementAge(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	h := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
	}

	result := GenerateCashFlow(h, scenario(0.05), taxrules.Default())

	for _, row := range result.Data {
		if row.Age < 68 && row.StatePensionIncome != 0 {
			t.Errorf("age %d: expected no state pension, got %v", row.Age, row.StatePensionIncome)
		}
		if row.Age >= 68 && row.StatePensionIncome <= 0 {
			t.Errorf("age %d: expected state pension, got %v", row.Age, row.StatePensionIncome)
		}
	}
}

func TestGenerateCashFlow_StatePensionProRata(t *testing.T) {
	rules := taxrules.Default()

	full, _ := newWorker("Full", 0)
	partial, _ := newWorker("Partial", 0)
	partial.NIQualifyingYears = 20
	none, _ := newWorker("None", 0)
	none.NIQualifyingYears = 5

	fullResult := GenerateCashFlow(&models.Household{Persons: []models.Person{full}}, scenario(0), rules)
	partialResult := GenerateCashFlow(&models.Household{Persons: []models.Person{partial}}, scenario(0), rules)
	noneResult := GenerateCashFlow(&models.Household{Persons: []models.Person{none}}, scenario(0), rules)

	last := len(fullResult.Data) - 1
	if got := fullResult.Data[last].StatePensionIncome; got != rules.StatePensionFullAnnual {
		t.Errorf("expected full state pension %v, got %v", rules.StatePensionFullAnnual, got)
	}
	expectedPartial := rules.StatePensionFullAnnual * 20 / 35
	if got := partialResult.Data[last].StatePensionIncome; got < expectedPartial-0.01 || got > expectedPartial+0.01 {
		t.Errorf("expected pro-rata state pension %v, got %v", expectedPartial, got)
	}
	// Below the minimum qualifying years there is no entitlement at all.
	if got := noneResult.Data[last].StatePensionIncome; got != 0 {
		t.Errorf("expected no state pension below minimum qualifying years, got %v", got)
	}
}

func TestGenerateCashFlow_DrawdownOrderAndDepletion(t *testing.T) {
	person, _ := newWorker("Alex", 0)
	// Already retired at the reference date.
	person.DateOfBirth = time.Date(1959, time.June, 15, 0, 0, 0, 0, time.UTC)

	h := &models.Household{
		Persons: []models.Person{person},
		Accounts: []models.Account{
			{ID: uuid.New(), PersonID: person.ID, Name: "ISA", Wrapper: models.WrapperISA, Value: 30000},
			{ID: uuid.New(), PersonID: person.ID, Name: "SIPP", Wrapper: models.WrapperPension, Value: 50000},
		},
		EmergencyFund: models.EmergencyFundConfig{MonthlyLifestyleSpending: 2000},
	}

	result := GenerateCashFlow(h, scenario(0), taxrules.Default())

	// Year 1 (age 65): the 24,000 need comes entirely from the ISA.
	first := result.Data[0]
	if first.InvestmentIncome != 24000 || first.PensionIncome != 0 {
		t.Errorf("year 1: expected ISA-first drawdown, got investment=%v pension=%v",
			first.InvestmentIncome, first.PensionIncome)
	}

	// Year 2: ISA has 6,000 left; the rest comes from the pension.
	second := result.Data[1]
	if second.InvestmentIncome != 6000 || second.PensionIncome != 18000 {
		t.Errorf("year 2: expected split drawdown, got investment=%v pension=%v",
			second.InvestmentIncome, second.PensionIncome)
	}

	// Pots deplete; drawdown is always capped and never goes negative.
	for _, row := range result.Data {
		if row.InvestmentIncome < 0 || row.PensionIncome < 0 {
			t.Errorf("age %d: negative drawdown", row.Age)
		}
	}

	// Once everything is gone the shortfall shows up as negative surplus.
	last := result.Data[len(result.Data)-1]
	if last.Surplus >= 0 {
		t.Errorf("expected a shortfall after depletion, got surplus %v", last.Surplus)
	}
}

func TestGenerateCashFlow_StatePensionReducesDrawdown(t *testing.T) {
	person, _ := newWorker("Alex", 0)
	// Already past state retirement age.
	person.DateOfBirth = time.Date(1955, time.June, 15, 0, 0, 0, 0, time.UTC)

	h := &models.Household{
		Persons: []models.Person{person},
		Accounts: []models.Account{
			{ID: uuid.New(), PersonID: person.ID, Name: "ISA", Wrapper: models.WrapperISA, Value: 500000},
		},
		EmergencyFund: models.EmergencyFundConfig{MonthlyLifestyleSpending: 2000},
	}

	result := GenerateCashFlow(h, scenario(0), taxrules.Default())

	first := result.Data[0]
	expectedDraw := 24000 - first.StatePensionIncome
	if first.InvestmentIncome < expectedDraw-0.01 || first.InvestmentIncome > expectedDraw+0.01 {
		t.Errorf("expected drawdown reduced by state pension, got %v want %v",
			first.InvestmentIncome, expectedDraw)
	}
}

func TestGenerateCashFlow_CustomEndAgeTruncates(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	h := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
	}

	sc := scenario(0.05)
	sc.EndAge = 50
	result := GenerateCashFlow(h, sc, taxrules.Default())

	if len(result.Data) != 11 {
		t.Fatalf("expected 11 rows (40 through 50 inclusive), got %d", len(result.Data))
	}
	if last := result.Data[len(result.Data)-1]; last.Age != 50 {
		t.Errorf("expected final age 50, got %d", last.Age)
	}
}

func TestGenerateCashFlow_DefaultHorizon(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	h := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
	}

	result := GenerateCashFlow(h, scenario(0.05), taxrules.Default())

	if last := result.Data[len(result.Data)-1]; last.Age != DefaultEndAge {
		t.Errorf("expected horizon at age %d, got %d", DefaultEndAge, last.Age)
	}
}

func TestGenerateCashFlow_MilestoneEvents(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	end := time.Date(2030, time.August, 31, 0, 0, 0, 0, time.UTC)
	h := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
		Outgoings: []models.CommittedOutgoing{
			{Category: "School fees", Amount: 5000, Frequency: models.Termly, EndDate: &end},
		},
	}

	result := GenerateCashFlow(h, scenario(0.05), taxrules.Default())

	labels := make(map[string]int)
	for _, e := range result.Events {
		labels[e.Label] = e.Age
	}

	if age, ok := labels["Alex retires"]; !ok || age != 60 {
		t.Errorf("expected retirement event at 60, got %v (present=%v)", age, ok)
	}
	if age, ok := labels["Alex can access pension"]; !ok || age != 57 {
		t.Errorf("expected pension access event at 57, got %v (present=%v)", age, ok)
	}
	if age, ok := labels["Alex starts state pension"]; !ok || age != 68 {
		t.Errorf("expected state pension event at 68, got %v (present=%v)", age, ok)
	}
	if age, ok := labels["School fees ends"]; !ok || age != 45 {
		t.Errorf("expected outgoing end event at 45, got %v (present=%v)", age, ok)
	}

	// Ordered by age.
	for i := 1; i < len(result.Events); i++ {
		if result.Events[i].Age < result.Events[i-1].Age {
			t.Errorf("events out of order at index %d", i)
		}
	}
}

func TestGenerateCashFlow_TwoPersonEventsAndFiltering(t *testing.T) {
	alex, alexIncome := newWorker("Alex", 40000)
	sam, samIncome := newWorker("Sam", 55000)
	// Sam is five years older.
	sam.DateOfBirth = time.Date(1979, time.June, 15, 0, 0, 0, 0, time.UTC)

	h := &models.Household{
		Persons: []models.Person{alex, sam},
		Incomes: []models.IncomeProfile{alexIncome, samIncome},
	}

	full := GenerateCashFlow(h, scenario(0.05), taxrules.Default())

	var sawAlex, sawSam bool
	for _, e := range full.Events {
		if strings.Contains(e.Label, "Alex") {
			sawAlex = true
		}
		if strings.Contains(e.Label, "Sam") {
			sawSam = true
		}
	}
	if !sawAlex || !sawSam {
		t.Fatalf("expected events for both persons, alex=%v sam=%v", sawAlex, sawSam)
	}

	// Filtering to Alex must not leak Sam anywhere.
	sc := scenario(0.05)
	sc.PersonID = &alex.ID
	filtered := GenerateCashFlow(h, sc, taxrules.Default())

	if filtered.PrimaryPersonName != "Alex" {
		t.Errorf("expected primary person Alex, got %q", filtered.PrimaryPersonName)
	}
	for _, e := range filtered.Events {
		if strings.Contains(e.Label, "Sam") {
			t.Errorf("filtered events leak the other person: %q", e.Label)
		}
	}
}

func TestGenerateCashFlow_ComponentsNonNegative(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	h := &models.Household{
		Persons:       []models.Person{person},
		Incomes:       []models.IncomeProfile{income},
		EmergencyFund: models.EmergencyFundConfig{MonthlyLifestyleSpending: 3000},
	}

	result := GenerateCashFlow(h, scenario(0.02), taxrules.Default())

	for _, row := range result.Data {
		if row.EmploymentIncome < 0 || row.PensionIncome < 0 ||
			row.StatePensionIncome < 0 || row.InvestmentIncome < 0 ||
			row.TotalExpenditure < 0 {
			t.Errorf("age %d: negative component in %+v", row.Age, row)
		}
		sum := row.EmploymentIncome + row.PensionIncome + row.StatePensionIncome + row.InvestmentIncome
		if sum != row.TotalIncome {
			t.Errorf("age %d: total income mismatch", row.Age)
		}
	}
}

func TestGenerateCashFlow_BonusIncreasesEmploymentIncome(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	base := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
	}
	withBonus := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
		Bonuses: []models.BonusStructure{{
			PersonID:     person.ID,
			TotalAnnual:  20000,
			CashAnnual:   8000,
			VestingYears: 3,
			GrowthRate:   0.05,
		}},
	}

	plain := GenerateCashFlow(base, scenario(0), taxrules.Default())
	bonused := GenerateCashFlow(withBonus, scenario(0), taxrules.Default())

	if bonused.Data[0].EmploymentIncome <= plain.Data[0].EmploymentIncome {
		t.Error("expected cash bonus to raise first-year employment income")
	}

	// Deferred tranches vest from the second simulated year onward and
	// raise income further in those years.
	if bonused.Data[1].EmploymentIncome <= plain.Data[1].EmploymentIncome {
		t.Error("expected vesting tranches to raise later employment income")
	}
}

func TestGenerateCashFlow_PotAccumulationWhileWorking(t *testing.T) {
	person, income := newWorker("Alex", 40000)
	income.EmployeePension = 3000
	income.EmployerPension = 2000

	h := &models.Household{
		Persons: []models.Person{person},
		Incomes: []models.IncomeProfile{income},
		Accounts: []models.Account{
			{ID: uuid.New(), PersonID: person.ID, Name: "SIPP", Wrapper: models.WrapperPension, Value: 10000},
		},
		EmergencyFund: models.EmergencyFundConfig{MonthlyLifestyleSpending: 1000},
	}

	result := GenerateCashFlow(h, scenario(0), taxrules.Default())

	// At retirement the pension pot has accumulated 20 years of 5,000
	// contributions on top of the opening 10,000. With zero growth the
	// pot funds 24,000 expenditure for over four years from age 60.
	var drawnYears int
	for _, row := range result.Data {
		if row.PensionIncome > 0 {
			drawnYears++
		}
	}
	if drawnYears < 4 {
		t.Errorf("expected at least 4 years of pension drawdown, got %d", drawnYears)
	}
}

func TestGenerateCashFlow_ContributionsAccumulateWithoutIncomeProfile(t *testing.T) {
	person, _ := newWorker("Alex", 0)

	h := &models.Household{
		Persons: []models.Person{person},
		Contributions: []models.Contribution{
			{PersonID: person.ID, Wrapper: models.WrapperISA, Amount: 10000, Frequency: models.Annually},
		},
		EmergencyFund: models.EmergencyFundConfig{MonthlyLifestyleSpending: 1000},
	}

	result := GenerateCashFlow(h, scenario(0), taxrules.Default())

	// No income profile means no employment income, but the standing ISA
	// contribution still builds the pot: 20 years of 10,000 funds 12,000
	// of expenditure from age 60 onward.
	var invested float64
	for _, row := range result.Data {
		if row.EmploymentIncome != 0 {
			t.Errorf("age %d: expected no employment income, got %v", row.Age, row.EmploymentIncome)
		}
		if row.Age == 60 && row.InvestmentIncome != 12000 {
			t.Errorf("age 60: expected 12000 drawn from the accumulated pot, got %v", row.InvestmentIncome)
		}
		invested += row.InvestmentIncome
	}
	if invested <= 0 {
		t.Errorf("expected investment drawdown from accumulated contributions, got %v", invested)
	}
}
