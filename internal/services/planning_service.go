package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mwhitfield/horizon/internal/cgt"
	"github.com/mwhitfield/horizon/internal/lifetime"
	"github.com/mwhitfield/horizon/internal/logger"
	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/tax"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

// defaultAssumedReturn is the growth assumption used for bed-and-ISA
// break-even figures when the household configures no growth scenarios.
const defaultAssumedReturn = 0.05

// Service-level errors
var (
	ErrUnknownTaxYear  = errors.New("unknown tax year")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidSnapshot = errors.New("invalid household snapshot")
)

// PersonAllowances is one person's allowance headroom for the year.
type PersonAllowances struct {
	PersonID uuid.UUID                 `json:"personId"`
	Name     string                    `json:"name"`
	ISA      cgt.ISAHeadroomResult     `json:"isa"`
	Pension  cgt.PensionHeadroomResult `json:"pension"`
}

// BedAndISACandidate is the transfer economics for one taxable holding.
type BedAndISACandidate struct {
	Identifier     string  `json:"identifier"`
	Gain           float64 `json:"gain"`
	CGTCost        float64 `json:"cgtCost"`
	AnnualTaxSaved float64 `json:"annualTaxSaved"`
	BreakEvenYears float64 `json:"breakEvenYears"`
}

// AllowanceReport is the figures consumed by the recommendation and
// reporting layer: allowance headroom per person, unrealised gains, and the
// bed-and-ISA economics of each taxable holding.
type AllowanceReport struct {
	TaxYear             string               `json:"taxYear"`
	Persons             []PersonAllowances   `json:"persons"`
	Gains               []cgt.UnrealisedGain `json:"gains"`
	BedAndISA           []BedAndISACandidate `json:"bedAndIsa"`
	EmergencyFundMonths float64              `json:"emergencyFundMonths"`
}

// ScenarioResult pairs a growth rate with its projection.
type ScenarioResult struct {
	GrowthRate float64         `json:"growthRate"`
	Result     lifetime.Result `json:"result"`
}

// PlanningService defines the planning-engine operations exposed to the
// HTTP layer. All computation is deterministic and side-effect-free; the
// only state behind the service is the read-only rules store and the
// projection cache.
type PlanningService interface {
	// TakeHome computes the net-pay record for one income.
	// Returns ErrInvalidInput for negative amounts or unknown enums and
	// ErrUnknownTaxYear when year names no known table.
	TakeHome(ctx context.Context, gross, pension float64, method models.PensionMethod, plan models.StudentLoanPlan, year string) (tax.TakeHomeResult, error)

	// Allowances computes allowance headroom and gains for a household.
	Allowances(ctx context.Context, h *models.Household, year string) (*AllowanceReport, error)

	// CashFlow runs the lifetime projection for one scenario. Results
	// are memoized by snapshot-and-scenario fingerprint.
	CashFlow(ctx context.Context, h *models.Household, sc lifetime.Scenario) (lifetime.Result, error)

	// CashFlowScenarios runs the projection once per configured growth
	// scenario, falling back to the scenario's own rate when the
	// household configures none.
	CashFlowScenarios(ctx context.Context, h *models.Household, sc lifetime.Scenario) ([]ScenarioResult, error)
}

type planningService struct {
	rules taxrules.Store
	cache *projectionCache
	log   *logger.Logger
}

// NewPlanningService creates a new instance of PlanningService.
func NewPlanningService(rules taxrules.Store, cacheEntries int, log *logger.Logger) PlanningService {
	return &planningService{
		rules: rules,
		cache: newProjectionCache(cacheEntries),
		log:   log.Component("planning"),
	}
}

// tableFor resolves a tax-year label, empty meaning the current year.
func (s *planningService) tableFor(year string) (*taxrules.Table, error) {
	if year == "" {
		return s.rules.Current(), nil
	}
	t, err := s.rules.ByYear(year)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTaxYear, year)
	}
	return t, nil
}

func (s *planningService) TakeHome(ctx context.Context, gross, pension float64, method models.PensionMethod, plan models.StudentLoanPlan, year string) (tax.TakeHomeResult, error) {
	if gross < 0 || pension < 0 {
		return tax.TakeHomeResult{}, fmt.Errorf("%w: amounts must be non-negative", ErrInvalidInput)
	}
	if !method.IsValid() {
		return tax.TakeHomeResult{}, fmt.Errorf("%w: unknown pension method %q", ErrInvalidInput, method)
	}
	if !plan.IsValid() {
		return tax.TakeHomeResult{}, fmt.Errorf("%w: unknown student loan plan %q", ErrInvalidInput, plan)
	}

	t, err := s.tableFor(year)
	if err != nil {
		return tax.TakeHomeResult{}, err
	}

	s.log.Debug("Computing take-home pay", map[string]interface{}{
		"gross":    gross,
		"pension":  pension,
		"method":   method,
		"tax_year": t.Year,
	})

	return tax.TakeHomeWithLoan(gross, pension, method, plan, t), nil
}

func (s *planningService) Allowances(ctx context.Context, h *models.Household, year string) (*AllowanceReport, error) {
	if err := ValidateHousehold(h); err != nil {
		return nil, err
	}
	t, err := s.tableFor(year)
	if err != nil {
		return nil, err
	}

	report := &AllowanceReport{TaxYear: t.Year}

	assumedReturn := defaultAssumedReturn
	if n := len(h.Retirement.GrowthScenarios); n > 0 {
		assumedReturn = h.Retirement.GrowthScenarios[n/2]
	}

	for i := range h.Persons {
		p := &h.Persons[i]
		report.Persons = append(report.Persons, PersonAllowances{
			PersonID: p.ID,
			Name:     p.Name,
			ISA:      cgt.ISAHeadroom(h, p.ID, t),
			Pension:  cgt.PensionHeadroom(h, p.ID, t),
		})

		// A person without an income profile still gets gain figures
		// at the basic rate rather than failing the whole report.
		rate := t.CGTBasicRate
		if income := h.IncomeFor(p.ID); income != nil {
			rate = cgt.RateFor(income.GrossSalary, income.EmployeePension, income.PensionMethod, t)
		}

		gains := cgt.UnrealisedGains(h.AccountsFor(p.ID))
		report.Gains = append(report.Gains, gains...)

		// The annual exemption is per person, so each candidate consumes
		// what the ones before it already used.
		allowanceLeft := t.CGTAllowance
		for _, g := range gains {
			if g.Gain <= 0 {
				continue
			}
			economics := cgt.BedAndISA(g.Gain, allowanceLeft, rate)
			allowanceLeft -= math.Min(g.Gain, allowanceLeft)
			report.BedAndISA = append(report.BedAndISA, BedAndISACandidate{
				Identifier:     g.Identifier,
				Gain:           g.Gain,
				CGTCost:        economics.CGTCost,
				AnnualTaxSaved: economics.AnnualTaxSaved,
				BreakEvenYears: cgt.BreakEvenYears(economics.CGTCost, g.CurrentValue, rate, assumedReturn),
			})
		}
	}

	report.EmergencyFundMonths = emergencyFundMonths(h)

	s.log.Info("Allowance report computed", map[string]interface{}{
		"tax_year": t.Year,
		"persons":  len(report.Persons),
		"gains":    len(report.Gains),
	})

	return report, nil
}

func (s *planningService) CashFlow(ctx context.Context, h *models.Household, sc lifetime.Scenario) (lifetime.Result, error) {
	if err := ValidateHousehold(h); err != nil {
		return lifetime.Result{}, err
	}

	// The fingerprint and the simulation must see the same projection
	// anchor, so an unset reference date is resolved here, at day
	// granularity. The zero date must never reach the cache key: a
	// cached series would otherwise survive year boundaries and
	// birthdays.
	sc.ReferenceDate = resolveReferenceDate(sc.ReferenceDate)

	key := fingerprint(h, sc)
	if cached, ok := s.cache.get(key); ok {
		s.log.Debug("Projection served from cache", map[string]interface{}{
			"fingerprint": key,
		})
		return cached, nil
	}

	result := lifetime.GenerateCashFlow(h, sc, s.rules.Current())
	s.cache.put(key, result)

	s.log.Info("Lifetime projection computed", map[string]interface{}{
		"persons":     len(h.Persons),
		"years":       len(result.Data),
		"events":      len(result.Events),
		"growth_rate": sc.GrowthRate,
	})

	return result, nil
}

func (s *planningService) CashFlowScenarios(ctx context.Context, h *models.Household, sc lifetime.Scenario) ([]ScenarioResult, error) {
	rates := h.Retirement.GrowthScenarios
	if len(rates) == 0 {
		rates = []float64{sc.GrowthRate}
	}

	out := make([]ScenarioResult, 0, len(rates))
	for _, rate := range rates {
		scenario := sc
		scenario.GrowthRate = rate
		result, err := s.CashFlow(ctx, h, scenario)
		if err != nil {
			return nil, err
		}
		out = append(out, ScenarioResult{GrowthRate: rate, Result: result})
	}
	return out, nil
}

// resolveReferenceDate truncates the projection anchor to midnight UTC,
// defaulting to today when unset.
func resolveReferenceDate(ref time.Time) time.Time {
	if ref.IsZero() {
		ref = time.Now()
	}
	y, m, d := ref.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// emergencyFundMonths returns how many months of essential spending the
// household's cash wealth covers. Zero spending is a degenerate case that
// reports zero months rather than dividing by it.
func emergencyFundMonths(h *models.Household) float64 {
	monthly := h.EmergencyFund.MonthlyEssentialSpending
	if monthly <= 0 {
		return 0
	}
	cash := 0.0
	for _, a := range h.Accounts {
		if a.Wrapper == models.WrapperCash || a.Wrapper == models.WrapperPremiumBonds {
			cash += a.Value
		}
	}
	return cash / monthly
}
