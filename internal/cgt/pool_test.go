package cgt

import (
	"math"
	"testing"
	"time"

	"github.com/mwhitfield/horizon/internal/models"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestBuildPools_SingleBuy(t *testing.T) {
	pools := BuildPools([]models.Trade{
		{Asset: "VWRL", Side: models.TradeBuy, Units: 100, Amount: 1000, Date: day(2023, 1, 10)},
	})

	pool := pools["VWRL"]
	if pool == nil {
		t.Fatal("expected a pool for VWRL")
	}
	if pool.Units.InexactFloat64() != 100 {
		t.Errorf("expected 100 units, got %s", pool.Units)
	}
	if pool.Cost.InexactFloat64() != 1000 {
		t.Errorf("expected cost 1000, got %s", pool.Cost)
	}
}

func TestBuildPools_AveragesAcrossBuys(t *testing.T) {
	pools := BuildPools([]models.Trade{
		{Asset: "VWRL", Side: models.TradeBuy, Units: 100, Amount: 1000, Date: day(2023, 1, 10)},
		{Asset: "VWRL", Side: models.TradeBuy, Units: 100, Amount: 2000, Date: day(2023, 6, 10)},
	})

	pool := pools["VWRL"]
	if got := pool.CostPerUnit().InexactFloat64(); math.Abs(got-15) > 1e-9 {
		t.Errorf("expected pooled cost 15/unit, got %v", got)
	}
}

func TestBuildPools_PartialDisposalCarriesResidualBasis(t *testing.T) {
	pools := BuildPools([]models.Trade{
		{Asset: "VWRL", Side: models.TradeBuy, Units: 100, Amount: 1000, Date: day(2023, 1, 10)},
		{Asset: "VWRL", Side: models.TradeBuy, Units: 100, Amount: 2000, Date: day(2023, 6, 10)},
		{Asset: "VWRL", Side: models.TradeSell, Units: 50, Amount: 900, Date: day(2024, 2, 1)},
	})

	pool := pools["VWRL"]
	if got := pool.Units.InexactFloat64(); got != 150 {
		t.Errorf("expected 150 units after disposal, got %v", got)
	}
	// The disposal removes 50/200 of the 3,000 pooled cost.
	if got := pool.Cost.InexactFloat64(); math.Abs(got-2250) > 1e-9 {
		t.Errorf("expected residual cost 2250, got %v", got)
	}
	// Average cost per unit is unchanged by a disposal.
	if got := pool.CostPerUnit().InexactFloat64(); math.Abs(got-15) > 1e-9 {
		t.Errorf("expected cost/unit still 15, got %v", got)
	}
}

func TestBuildPools_OutOfOrderTradesAreSorted(t *testing.T) {
	// Sell recorded before the buy it disposes of; date order must win.
	pools := BuildPools([]models.Trade{
		{Asset: "VWRL", Side: models.TradeSell, Units: 50, Amount: 900, Date: day(2024, 2, 1)},
		{Asset: "VWRL", Side: models.TradeBuy, Units: 100, Amount: 1000, Date: day(2023, 1, 10)},
	})

	pool := pools["VWRL"]
	if got := pool.Units.InexactFloat64(); got != 50 {
		t.Errorf("expected 50 units, got %v", got)
	}
}

func TestBuildPools_OversellClampsToZero(t *testing.T) {
	pools := BuildPools([]models.Trade{
		{Asset: "VWRL", Side: models.TradeBuy, Units: 100, Amount: 1000, Date: day(2023, 1, 10)},
		{Asset: "VWRL", Side: models.TradeSell, Units: 200, Amount: 2500, Date: day(2024, 2, 1)},
	})

	pool := pools["VWRL"]
	if !pool.Units.IsZero() {
		t.Errorf("expected empty pool, got %s units", pool.Units)
	}
	if !pool.Cost.IsZero() {
		t.Errorf("expected zero residual cost, got %s", pool.Cost)
	}
	if !pool.CostPerUnit().IsZero() {
		t.Errorf("expected zero cost/unit on empty pool")
	}
}
