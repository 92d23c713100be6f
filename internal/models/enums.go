package models

// PensionMethod is the closed set of pension contribution methods. The
// method determines how an employee contribution adjusts taxable and
// NI-able income.
type PensionMethod string

const (
	// SalarySacrifice reduces contractual salary, so it lowers both
	// taxable and NI-able pay.
	SalarySacrifice PensionMethod = "salary_sacrifice"
	// NetPay deducts the contribution before tax but after NI.
	NetPay PensionMethod = "net_pay"
	// ReliefAtSource takes the contribution from net pay; the scheme
	// reclaims basic-rate relief, modeled as extending the basic band.
	ReliefAtSource PensionMethod = "relief_at_source"
)

// IsValid reports whether m is one of the known methods.
func (m PensionMethod) IsValid() bool {
	switch m {
	case SalarySacrifice, NetPay, ReliefAtSource:
		return true
	}
	return false
}

// Wrapper is the tax wrapper an account or contribution belongs to.
type Wrapper string

const (
	WrapperPension      Wrapper = "pension"
	WrapperISA          Wrapper = "isa"
	WrapperGIA          Wrapper = "gia"
	WrapperCash         Wrapper = "cash"
	WrapperPremiumBonds Wrapper = "premium_bonds"
)

// IsValid reports whether w is one of the known wrappers.
func (w Wrapper) IsValid() bool {
	switch w {
	case WrapperPension, WrapperISA, WrapperGIA, WrapperCash, WrapperPremiumBonds:
		return true
	}
	return false
}

// Taxable reports whether gains inside the wrapper are subject to CGT.
// Only general investment accounts hold taxable gains; premium-bond prizes
// and cash interest are out of scope for the gains calculator.
func (w Wrapper) Taxable() bool {
	return w == WrapperGIA
}

// Frequency describes how often a contribution or outgoing recurs.
type Frequency string

const (
	Monthly  Frequency = "monthly"
	Termly   Frequency = "termly"
	Annually Frequency = "annually"
)

// perYear is the fixed annualisation multiplier table.
var perYear = map[Frequency]float64{
	Monthly:  12,
	Termly:   3,
	Annually: 1,
}

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	_, ok := perYear[f]
	return ok
}

// PerYear returns the number of occurrences per year, or 0 for an unknown
// frequency.
func (f Frequency) PerYear() float64 {
	return perYear[f]
}

// StudentLoanPlan identifies a UK student loan repayment plan.
type StudentLoanPlan string

const (
	PlanNone     StudentLoanPlan = "none"
	Plan1        StudentLoanPlan = "plan1"
	Plan2        StudentLoanPlan = "plan2"
	Plan4        StudentLoanPlan = "plan4"
	Plan5        StudentLoanPlan = "plan5"
	PlanPostgrad StudentLoanPlan = "postgrad"
)

// IsValid reports whether p is one of the known plans.
func (p StudentLoanPlan) IsValid() bool {
	switch p {
	case PlanNone, Plan1, Plan2, Plan4, Plan5, PlanPostgrad:
		return true
	}
	return false
}
