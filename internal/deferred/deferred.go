package deferred

import (
	"math"
	"time"

	"github.com/mwhitfield/horizon/internal/models"
)

// daysPerYear is the year convention used when compounding between grant
// and vesting dates.
const daysPerYear = 365.25

// Tranche is one slice of a deferred bonus with its own vesting date.
// Tranches are derived fresh on every computation and never mutated in
// place.
type Tranche struct {
	GrantDate   time.Time `json:"grantDate"`
	VestingDate time.Time `json:"vestingDate"`
	Amount      float64   `json:"amount"`
	GrowthRate  float64   `json:"growthRate"`
}

// YearsBetween returns the fractional years between two dates using the
// 365.25-day convention.
func YearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24 / daysPerYear
}

// ProjectedValue compounds the tranche's nominal amount from grant to
// vesting at its assumed growth rate.
func ProjectedValue(tr Tranche) float64 {
	years := YearsBetween(tr.GrantDate, tr.VestingDate)
	if years <= 0 {
		return tr.Amount
	}
	return tr.Amount * math.Pow(1+tr.GrowthRate, years)
}

// Tranches expands a bonus structure into its vesting tranches relative to
// the given reference date. The grant lands on January 1 of the reference
// year; tranche k (1-indexed) vests on January 1 of
// referenceYear + gap + k, with the deferred total split equally.
func Tranches(bonus models.BonusStructure, reference time.Time) []Tranche {
	total := bonus.DeferredAnnual()
	if total <= 0 || bonus.VestingYears <= 0 {
		return nil
	}

	grantYear := reference.Year()
	grant := time.Date(grantYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	amount := total / float64(bonus.VestingYears)

	tranches := make([]Tranche, 0, bonus.VestingYears)
	for k := 1; k <= bonus.VestingYears; k++ {
		vest := time.Date(grantYear+bonus.VestingGapYears+k, time.January, 1, 0, 0, 0, 0, time.UTC)
		tranches = append(tranches, Tranche{
			GrantDate:   grant,
			VestingDate: vest,
			Amount:      amount,
			GrowthRate:  bonus.GrowthRate,
		})
	}
	return tranches
}

// TotalProjectedValue sums the projected value of every tranche.
func TotalProjectedValue(tranches []Tranche) float64 {
	total := 0.0
	for _, tr := range tranches {
		total += ProjectedValue(tr)
	}
	return total
}
