package tax

import (
	"math"

	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

// Band is one slice of the per-band breakdown returned by the calculators.
type Band struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
	Tax    float64 `json:"tax"`
}

// IncomeTaxResult is the outcome of an income tax computation.
type IncomeTaxResult struct {
	Tax           float64 `json:"tax"`
	EffectiveRate float64 `json:"effectiveRate"`
	AdjustedGross float64 `json:"adjustedGross"`
	Allowance     float64 `json:"allowance"`
	Bands         []Band  `json:"bands"`
}

// adjustedGrossForTax returns taxable gross after the pension method's
// deduction. Salary sacrifice and net pay take the contribution off gross;
// relief at source leaves gross untouched (the relief arrives via band
// extension instead).
func adjustedGrossForTax(gross, pension float64, method models.PensionMethod) float64 {
	switch method {
	case models.SalarySacrifice, models.NetPay:
		adjusted := gross - pension
		if adjusted < 0 {
			return 0
		}
		return adjusted
	case models.ReliefAtSource:
		return gross
	}
	return gross
}

// basicBandWidth returns the basic-rate band width, extended by the
// grossed-up contribution for relief-at-source schemes: a net contribution
// of n extends the band by n/(1-basicRate).
func basicBandWidth(pension float64, method models.PensionMethod, t *taxrules.Table) float64 {
	width := t.BasicBandWidth
	if method == models.ReliefAtSource && pension > 0 && t.BasicRate < 1 {
		width += pension / (1 - t.BasicRate)
	}
	return width
}

// taperedAllowance reduces the personal allowance by floor(excess * rate)
// for adjusted gross above the taper threshold, floored at zero.
func taperedAllowance(adjustedGross float64, t *taxrules.Table) float64 {
	if adjustedGross <= t.TaperThreshold {
		return t.PersonalAllowance
	}
	reduction := math.Floor((adjustedGross - t.TaperThreshold) * t.TaperRate)
	allowance := t.PersonalAllowance - reduction
	if allowance < 0 {
		return 0
	}
	return allowance
}

// IncomeTax computes income tax on a gross salary given an employee pension
// contribution and its method. Pure and total over non-negative inputs;
// validation happens at the boundary, not here.
func IncomeTax(gross, pension float64, method models.PensionMethod, t *taxrules.Table) IncomeTaxResult {
	adjusted := adjustedGrossForTax(gross, pension, method)
	allowance := taperedAllowance(adjusted, t)

	widths := []struct {
		name  string
		width float64
		rate  float64
	}{
		{"personal_allowance", allowance, 0},
		{"basic", basicBandWidth(pension, method, t), t.BasicRate},
		{"higher", t.HigherBandWidth, t.HigherRate},
		{"additional", math.Inf(1), t.AdditionalRate},
	}

	result := IncomeTaxResult{
		AdjustedGross: adjusted,
		Allowance:     allowance,
	}

	remaining := adjusted
	for _, b := range widths {
		if remaining <= 0 {
			break
		}
		amount := math.Min(remaining, b.width)
		if amount <= 0 {
			// A fully tapered allowance leaves a zero-width band.
			continue
		}
		banded := RoundPenny(amount * b.rate)
		result.Bands = append(result.Bands, Band{
			Name:   b.name,
			Amount: amount,
			Rate:   b.rate,
			Tax:    banded,
		})
		result.Tax += banded
		remaining -= amount
	}

	result.Tax = RoundPenny(result.Tax)
	if adjusted > 0 {
		result.EffectiveRate = result.Tax / adjusted
	}
	return result
}
