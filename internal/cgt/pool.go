package cgt

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mwhitfield/horizon/internal/models"
)

// Pool is the running Section 104 position for one asset: total units held
// and the pooled acquisition cost averaged across every purchase.
type Pool struct {
	Asset string
	Units decimal.Decimal
	Cost  decimal.Decimal
}

// CostPerUnit returns the pooled average cost of one unit, or zero when the
// pool is empty.
func (p *Pool) CostPerUnit() decimal.Decimal {
	if p.Units.IsZero() {
		return decimal.Zero
	}
	return p.Cost.Div(p.Units)
}

// BuildPools replays an account's trade history in date order and returns
// the Section 104 pool per asset. A buy adds its units and full cost to the
// pool; a sell removes units and a proportional share of the pooled cost,
// which is what makes partial disposals carry the right residual basis.
// Decimal arithmetic keeps repeated proportional removals from drifting.
func BuildPools(trades []models.Trade) map[string]*Pool {
	ordered := make([]models.Trade, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	pools := make(map[string]*Pool)
	for _, tr := range ordered {
		pool, ok := pools[tr.Asset]
		if !ok {
			pool = &Pool{Asset: tr.Asset}
			pools[tr.Asset] = pool
		}

		units := decimal.NewFromFloat(tr.Units)
		amount := decimal.NewFromFloat(tr.Amount)

		switch tr.Side {
		case models.TradeBuy:
			pool.Units = pool.Units.Add(units)
			pool.Cost = pool.Cost.Add(amount)
		case models.TradeSell:
			if pool.Units.IsZero() {
				continue
			}
			sold := units
			if sold.GreaterThan(pool.Units) {
				sold = pool.Units
			}
			removed := pool.Cost.Mul(sold).Div(pool.Units)
			pool.Cost = pool.Cost.Sub(removed)
			pool.Units = pool.Units.Sub(sold)
		}
	}
	return pools
}
