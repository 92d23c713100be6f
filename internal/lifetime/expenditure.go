package lifetime

import (
	"math"

	"github.com/mwhitfield/horizon/internal/models"
)

// Expenditure sums the household's committed outgoings for one calendar
// year plus annualised lifestyle spending. Each outgoing is annualised by
// its frequency, included only when the year falls inside its optional date
// window, and compounded by its own inflation rate relative to baseYear.
// No inflation applies in the base year itself, when no rate is set, or
// when baseYear is zero (no anchor).
func Expenditure(outgoings []models.CommittedOutgoing, monthlyLifestyle float64, year, baseYear int) float64 {
	total := monthlyLifestyle * 12

	for i := range outgoings {
		o := &outgoings[i]
		if !o.ActiveIn(year) {
			continue
		}
		amount := o.AnnualAmount()
		if o.InflationRate > 0 && baseYear > 0 && year > baseYear {
			amount *= math.Pow(1+o.InflationRate, float64(year-baseYear))
		}
		total += amount
	}

	return total
}
