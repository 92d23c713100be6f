package tax

import (
	"math"

	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

// NIResult is the outcome of a National Insurance computation.
type NIResult struct {
	NI    float64 `json:"ni"`
	Bands []Band  `json:"bands"`
}

// niableEarnings returns earnings subject to NI. Only salary sacrifice
// reduces NI-able pay; net pay and relief at source do not.
func niableEarnings(gross, pension float64, method models.PensionMethod) float64 {
	if method == models.SalarySacrifice {
		earnings := gross - pension
		if earnings < 0 {
			return 0
		}
		return earnings
	}
	return gross
}

// NationalInsurance computes employee Class 1 NI on a gross salary. Three
// bands: nothing below the primary threshold, the main rate up to the upper
// earnings limit, the reduced rate above it. Rounded to the penny per band.
func NationalInsurance(gross, pension float64, method models.PensionMethod, t *taxrules.Table) NIResult {
	earnings := niableEarnings(gross, pension, method)

	var result NIResult

	if earnings <= t.NIPrimaryThreshold {
		return result
	}

	mainAmount := math.Min(earnings, t.NIUpperEarningsLimit) - t.NIPrimaryThreshold
	mainNI := RoundPenny(mainAmount * t.NIMainRate)
	result.Bands = append(result.Bands, Band{
		Name:   "main",
		Amount: mainAmount,
		Rate:   t.NIMainRate,
		Tax:    mainNI,
	})
	result.NI += mainNI

	if earnings > t.NIUpperEarningsLimit {
		upperAmount := earnings - t.NIUpperEarningsLimit
		upperNI := RoundPenny(upperAmount * t.NIUpperRate)
		result.Bands = append(result.Bands, Band{
			Name:   "upper",
			Amount: upperAmount,
			Rate:   t.NIUpperRate,
			Tax:    upperNI,
		})
		result.NI += upperNI
	}

	result.NI = RoundPenny(result.NI)
	return result
}

// StudentLoan computes the annual repayment for the given plan:
// max(0, gross - threshold) * rate. The "none" plan and unknown plans
// repay nothing.
func StudentLoan(gross float64, plan models.StudentLoanPlan, t *taxrules.Table) float64 {
	if plan == models.PlanNone {
		return 0
	}
	rule, ok := t.StudentLoanRule(string(plan))
	if !ok {
		return 0
	}
	excess := gross - rule.Threshold
	if excess <= 0 {
		return 0
	}
	return RoundPenny(excess * rule.Rate)
}
