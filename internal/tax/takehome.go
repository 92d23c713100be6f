package tax

import (
	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

// TakeHomeResult is the composed net-pay record for one person-year.
type TakeHomeResult struct {
	Gross            float64 `json:"gross"`
	AdjustedGross    float64 `json:"adjustedGross"`
	IncomeTax        float64 `json:"incomeTax"`
	NI               float64 `json:"ni"`
	StudentLoan      float64 `json:"studentLoan"`
	PensionDeduction float64 `json:"pensionDeduction"`
	TakeHome         float64 `json:"takeHome"`
	MonthlyTakeHome  float64 `json:"monthlyTakeHome"`
	TaxBands         []Band  `json:"taxBands"`
	NIBands          []Band  `json:"niBands"`
}

// TakeHome composes income tax and NI into a net take-home figure. The
// take-home formula differs by method: salary sacrifice nets against the
// reduced gross, while net pay and relief at source subtract the employee
// contribution from pay explicitly.
func TakeHome(gross, pension float64, method models.PensionMethod, t *taxrules.Table) TakeHomeResult {
	it := IncomeTax(gross, pension, method, t)
	ni := NationalInsurance(gross, pension, method, t)

	result := TakeHomeResult{
		Gross:            gross,
		AdjustedGross:    it.AdjustedGross,
		IncomeTax:        it.Tax,
		NI:               ni.NI,
		PensionDeduction: pension,
		TaxBands:         it.Bands,
		NIBands:          ni.Bands,
	}

	switch method {
	case models.SalarySacrifice:
		result.TakeHome = it.AdjustedGross - it.Tax - ni.NI
	case models.NetPay, models.ReliefAtSource:
		result.TakeHome = gross - pension - it.Tax - ni.NI
	default:
		result.TakeHome = gross - it.Tax - ni.NI
	}
	if result.TakeHome < 0 {
		result.TakeHome = 0
	}

	result.TakeHome = RoundPenny(result.TakeHome)
	result.MonthlyTakeHome = RoundPenny(result.TakeHome / 12)
	return result
}

// TakeHomeWithLoan is TakeHome with a student-loan repayment subtracted
// from the net figure.
func TakeHomeWithLoan(gross, pension float64, method models.PensionMethod, plan models.StudentLoanPlan, t *taxrules.Table) TakeHomeResult {
	result := TakeHome(gross, pension, method, t)
	result.StudentLoan = StudentLoan(gross, plan, t)
	result.TakeHome = RoundPenny(result.TakeHome - result.StudentLoan)
	if result.TakeHome < 0 {
		result.TakeHome = 0
	}
	result.MonthlyTakeHome = RoundPenny(result.TakeHome / 12)
	return result
}
