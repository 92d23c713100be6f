package cgt

import (
	"math"

	"github.com/mwhitfield/horizon/internal/tax"
)

// BedAndISAResult is the economics of selling a taxable holding and
// repurchasing it inside an ISA.
type BedAndISAResult struct {
	CGTCost        float64 `json:"cgtCost"`
	AnnualTaxSaved float64 `json:"annualTaxSaved"`
}

// BedAndISA computes the one-off CGT cost of crystallising a gain against
// the remaining allowance, and the future annual tax avoided by sheltering
// the position.
func BedAndISA(unrealisedGain, cgtAllowanceRemaining, cgtRate float64) BedAndISAResult {
	taxable := unrealisedGain - cgtAllowanceRemaining
	if taxable < 0 {
		taxable = 0
	}
	return BedAndISAResult{
		CGTCost:        tax.RoundPenny(taxable * cgtRate),
		AnnualTaxSaved: tax.RoundPenny(unrealisedGain * cgtRate),
	}
}

// BreakEvenYears returns how long the sheltered growth takes to recoup the
// CGT cost of a bed-and-ISA transfer, at one-decimal granularity with
// conservative ceiling rounding. Zero cost or a degenerate denominator
// means the transfer pays for itself immediately.
func BreakEvenYears(cgtCost, transferValue, cgtRate, assumedReturn float64) float64 {
	if cgtCost <= 0 {
		return 0
	}
	annualSaving := transferValue * assumedReturn * cgtRate
	if annualSaving <= 0 {
		return 0
	}
	return math.Ceil(cgtCost/annualSaving*10) / 10
}
