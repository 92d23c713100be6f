package taxrules

import (
	"fmt"
)

// StudentLoanRule holds the repayment threshold and rate for one loan plan.
type StudentLoanRule struct {
	Threshold float64 `yaml:"threshold"`
	Rate      float64 `yaml:"rate"`
}

// Table holds every statutory rate, threshold and allowance for a single UK
// tax year. Tables are immutable once validated and are safe to share across
// any number of concurrent calculations.
//
// Band widths are expressed in taxable income (i.e. after the personal
// allowance has been applied), which keeps the band-by-band walk in the tax
// calculator free of threshold arithmetic.
type Table struct {
	// Year is the tax-year label, e.g. "2024/25".
	Year string `yaml:"year"`

	// Income tax.
	PersonalAllowance float64 `yaml:"personal_allowance"`
	TaperThreshold    float64 `yaml:"taper_threshold"`
	TaperRate         float64 `yaml:"taper_rate"`
	BasicBandWidth    float64 `yaml:"basic_band_width"`
	HigherBandWidth   float64 `yaml:"higher_band_width"`
	BasicRate         float64 `yaml:"basic_rate"`
	HigherRate        float64 `yaml:"higher_rate"`
	AdditionalRate    float64 `yaml:"additional_rate"`

	// National Insurance (employee, Class 1).
	NIPrimaryThreshold   float64 `yaml:"ni_primary_threshold"`
	NIUpperEarningsLimit float64 `yaml:"ni_upper_earnings_limit"`
	NIMainRate           float64 `yaml:"ni_main_rate"`
	NIUpperRate          float64 `yaml:"ni_upper_rate"`

	// Student loans, keyed by plan name ("plan1", "plan2", "plan4",
	// "plan5", "postgrad").
	StudentLoans map[string]StudentLoanRule `yaml:"student_loans"`

	// Capital gains.
	CGTAllowance  float64 `yaml:"cgt_allowance"`
	CGTBasicRate  float64 `yaml:"cgt_basic_rate"`
	CGTHigherRate float64 `yaml:"cgt_higher_rate"`

	// Wrapper allowances.
	ISAAllowance           float64 `yaml:"isa_allowance"`
	PensionAnnualAllowance float64 `yaml:"pension_annual_allowance"`

	// High-income annual-allowance taper. Recorded and validated but not
	// applied by the headroom calculations; see DESIGN.md.
	PensionTaperThreshold   float64 `yaml:"pension_taper_threshold"`
	PensionMinimumAllowance float64 `yaml:"pension_minimum_allowance"`

	// State pension.
	StatePensionFullAnnual    float64 `yaml:"state_pension_full_annual"`
	StatePensionMinQualYears  int     `yaml:"state_pension_min_qual_years"`
	StatePensionFullQualYears int     `yaml:"state_pension_full_qual_years"`
}

// BasicRateUpperLimit returns the gross income at which higher-rate tax
// begins for a taxpayer with the standard personal allowance. This is the
// threshold used when selecting the CGT rate.
func (t *Table) BasicRateUpperLimit() float64 {
	return t.PersonalAllowance + t.BasicBandWidth
}

// StudentLoanRule returns the rule for the given plan and whether one exists.
func (t *Table) StudentLoanRule(plan string) (StudentLoanRule, bool) {
	r, ok := t.StudentLoans[plan]
	return r, ok
}

// Validate checks the structural invariants every table must satisfy:
// thresholds strictly ordered, rates within [0,1], qualifying-year rules
// coherent. A table that fails validation must never reach a calculator.
func (t *Table) Validate() error {
	if t.Year == "" {
		return fmt.Errorf("tax table: year label is required")
	}
	rates := map[string]float64{
		"basic_rate":      t.BasicRate,
		"higher_rate":     t.HigherRate,
		"additional_rate": t.AdditionalRate,
		"taper_rate":      t.TaperRate,
		"ni_main_rate":    t.NIMainRate,
		"ni_upper_rate":   t.NIUpperRate,
		"cgt_basic_rate":  t.CGTBasicRate,
		"cgt_higher_rate": t.CGTHigherRate,
	}
	for name, r := range rates {
		if r < 0 || r > 1 {
			return fmt.Errorf("tax table %s: %s must be in [0,1], got %v", t.Year, name, r)
		}
	}
	if t.PersonalAllowance < 0 {
		return fmt.Errorf("tax table %s: personal_allowance must be non-negative", t.Year)
	}
	if t.TaperThreshold <= t.PersonalAllowance {
		return fmt.Errorf("tax table %s: taper_threshold must exceed personal_allowance", t.Year)
	}
	if t.BasicBandWidth <= 0 || t.HigherBandWidth <= 0 {
		return fmt.Errorf("tax table %s: band widths must be positive", t.Year)
	}
	if t.BasicRate >= t.HigherRate || t.HigherRate >= t.AdditionalRate {
		return fmt.Errorf("tax table %s: income tax rates must be strictly increasing", t.Year)
	}
	if t.NIPrimaryThreshold <= 0 || t.NIUpperEarningsLimit <= t.NIPrimaryThreshold {
		return fmt.Errorf("tax table %s: NI thresholds must satisfy 0 < primary < upper", t.Year)
	}
	for plan, rule := range t.StudentLoans {
		if rule.Threshold < 0 {
			return fmt.Errorf("tax table %s: student loan %s threshold must be non-negative", t.Year, plan)
		}
		if rule.Rate < 0 || rule.Rate > 1 {
			return fmt.Errorf("tax table %s: student loan %s rate must be in [0,1]", t.Year, plan)
		}
	}
	if t.CGTAllowance < 0 {
		return fmt.Errorf("tax table %s: cgt_allowance must be non-negative", t.Year)
	}
	if t.CGTBasicRate >= t.CGTHigherRate {
		return fmt.Errorf("tax table %s: cgt_basic_rate must be below cgt_higher_rate", t.Year)
	}
	if t.ISAAllowance < 0 || t.PensionAnnualAllowance < 0 {
		return fmt.Errorf("tax table %s: wrapper allowances must be non-negative", t.Year)
	}
	if t.PensionTaperThreshold > 0 && t.PensionMinimumAllowance > t.PensionAnnualAllowance {
		return fmt.Errorf("tax table %s: pension_minimum_allowance must not exceed pension_annual_allowance", t.Year)
	}
	if t.StatePensionFullAnnual < 0 {
		return fmt.Errorf("tax table %s: state_pension_full_annual must be non-negative", t.Year)
	}
	if t.StatePensionMinQualYears < 0 || t.StatePensionFullQualYears <= 0 {
		return fmt.Errorf("tax table %s: state pension qualifying-year rules are invalid", t.Year)
	}
	if t.StatePensionMinQualYears > t.StatePensionFullQualYears {
		return fmt.Errorf("tax table %s: state_pension_min_qual_years must not exceed full_qual_years", t.Year)
	}
	return nil
}

// Default returns the built-in 2024/25 table. Callers must treat the result
// as read-only.
func Default() *Table {
	return &Table{
		Year: "2024/25",

		PersonalAllowance: 12570,
		TaperThreshold:    100000,
		TaperRate:         0.5,
		BasicBandWidth:    37700,
		// Taxable income between 37,700 and 112,570 (gross 50,270 to
		// 125,140 at the standard allowance).
		HigherBandWidth: 74870,
		BasicRate:       0.20,
		HigherRate:      0.40,
		AdditionalRate:  0.45,

		NIPrimaryThreshold:   12570,
		NIUpperEarningsLimit: 50270,
		NIMainRate:           0.08,
		NIUpperRate:          0.02,

		StudentLoans: map[string]StudentLoanRule{
			"plan1":    {Threshold: 24990, Rate: 0.09},
			"plan2":    {Threshold: 27295, Rate: 0.09},
			"plan4":    {Threshold: 31395, Rate: 0.09},
			"plan5":    {Threshold: 25000, Rate: 0.09},
			"postgrad": {Threshold: 21000, Rate: 0.06},
		},

		CGTAllowance:  3000,
		CGTBasicRate:  0.10,
		CGTHigherRate: 0.20,

		ISAAllowance:           20000,
		PensionAnnualAllowance: 60000,

		PensionTaperThreshold:   260000,
		PensionMinimumAllowance: 10000,

		StatePensionFullAnnual:    11502.40,
		StatePensionMinQualYears:  10,
		StatePensionFullQualYears: 35,
	}
}
