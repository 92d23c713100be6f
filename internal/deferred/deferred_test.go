package deferred

import (
	"math"
	"testing"
	"time"

	"github.com/mwhitfield/horizon/internal/models"
)

var reference = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestTranches_EqualSplit(t *testing.T) {
	bonus := models.BonusStructure{
		TotalAnnual:  50000,
		CashAnnual:   20000,
		VestingYears: 3,
		GrowthRate:   0.07,
	}

	tranches := Tranches(bonus, reference)
	if len(tranches) != 3 {
		t.Fatalf("expected 3 tranches, got %d", len(tranches))
	}

	total := 0.0
	for _, tr := range tranches {
		total += tr.Amount
	}
	if math.Abs(total-30000) > 0.01 {
		t.Errorf("tranche amounts should sum to the deferred total, got %v", total)
	}
}

func TestTranches_VestingDates(t *testing.T) {
	bonus := models.BonusStructure{
		TotalAnnual:     30000,
		CashAnnual:      0,
		VestingYears:    2,
		VestingGapYears: 1,
	}

	tranches := Tranches(bonus, reference)

	grant := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, tr := range tranches {
		if !tr.GrantDate.Equal(grant) {
			t.Errorf("tranche %d: expected grant %v, got %v", i, grant, tr.GrantDate)
		}
	}

	// Gap of 1: first tranche vests Jan 1 2027, second Jan 1 2028.
	if got := tranches[0].VestingDate.Year(); got != 2027 {
		t.Errorf("expected first vesting in 2027, got %d", got)
	}
	if got := tranches[1].VestingDate.Year(); got != 2028 {
		t.Errorf("expected second vesting in 2028, got %d", got)
	}
}

func TestTranches_NoDeferredAmount(t *testing.T) {
	bonus := models.BonusStructure{TotalAnnual: 20000, CashAnnual: 20000, VestingYears: 3}
	if tranches := Tranches(bonus, reference); tranches != nil {
		t.Errorf("expected no tranches with nothing deferred, got %d", len(tranches))
	}

	// Cash above total clamps deferred to zero rather than going negative.
	bonus = models.BonusStructure{TotalAnnual: 20000, CashAnnual: 30000, VestingYears: 3}
	if tranches := Tranches(bonus, reference); tranches != nil {
		t.Errorf("expected no tranches with over-allocated cash, got %d", len(tranches))
	}
}

func TestTranches_NoVestingYears(t *testing.T) {
	bonus := models.BonusStructure{TotalAnnual: 50000, CashAnnual: 10000, VestingYears: 0}
	if tranches := Tranches(bonus, reference); tranches != nil {
		t.Errorf("expected no tranches with zero vesting years, got %d", len(tranches))
	}
}

func TestProjectedValue_GrowsWithTime(t *testing.T) {
	bonus := models.BonusStructure{
		TotalAnnual:  30000,
		CashAnnual:   0,
		VestingYears: 3,
		GrowthRate:   0.05,
	}

	tranches := Tranches(bonus, reference)
	for i, tr := range tranches {
		pv := ProjectedValue(tr)
		if pv < tr.Amount {
			t.Errorf("tranche %d: projected value %v below nominal %v with positive growth", i, pv, tr.Amount)
		}
		if i > 0 {
			// Later tranches compound for longer.
			if pv <= ProjectedValue(tranches[i-1]) {
				t.Errorf("tranche %d should project above tranche %d", i, i-1)
			}
		}
	}
}

func TestProjectedValue_YearConvention(t *testing.T) {
	tr := Tranche{
		GrantDate:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		VestingDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Amount:      10000,
		GrowthRate:  0.10,
	}

	// One 365-day calendar year is slightly under a 365.25-day year, so
	// the projection lands just under a full 10% uplift.
	pv := ProjectedValue(tr)
	expected := 10000 * math.Pow(1.10, 365.0/365.25)
	if math.Abs(pv-expected) > 0.01 {
		t.Errorf("expected %.4f, got %.4f", expected, pv)
	}
}

func TestTotalProjectedValue_SumsTranches(t *testing.T) {
	bonus := models.BonusStructure{
		TotalAnnual:  30000,
		CashAnnual:   0,
		VestingYears: 3,
		GrowthRate:   0,
	}

	tranches := Tranches(bonus, reference)
	// Zero growth: projected total equals the deferred total.
	if got := TotalProjectedValue(tranches); math.Abs(got-30000) > 0.01 {
		t.Errorf("expected 30000, got %v", got)
	}
}
