package cgt

import (
	"github.com/shopspring/decimal"

	"github.com/mwhitfield/horizon/internal/models"
	"github.com/mwhitfield/horizon/internal/tax"
	"github.com/mwhitfield/horizon/internal/taxrules"
)

// UnrealisedGain is the gain position of one taxable holding.
type UnrealisedGain struct {
	Identifier   string  `json:"identifier"`
	Gain         float64 `json:"gain"`
	CostBasis    float64 `json:"costBasis"`
	CurrentValue float64 `json:"currentValue"`
}

// RateFor selects the CGT rate from taxable income: salary sacrifice and
// net pay deduct the pension contribution first, relief at source does not.
// Income within the basic-rate upper limit pays the basic CGT rate.
func RateFor(grossIncome, pension float64, method models.PensionMethod, t *taxrules.Table) float64 {
	taxable := grossIncome
	switch method {
	case models.SalarySacrifice, models.NetPay:
		taxable = grossIncome - pension
		if taxable < 0 {
			taxable = 0
		}
	case models.ReliefAtSource:
	}
	if taxable <= t.BasicRateUpperLimit() {
		return t.CGTBasicRate
	}
	return t.CGTHigherRate
}

// UnrealisedGains computes the gain per holding across every taxable
// account. When an account carries trade history the Section 104 pool is
// the cost basis; otherwise the holding's stored cost-basis field is used
// as a fallback. An account never mixes the two.
func UnrealisedGains(accounts []models.Account) []UnrealisedGain {
	var out []UnrealisedGain
	for i := range accounts {
		acct := &accounts[i]
		if !acct.Wrapper.Taxable() {
			continue
		}

		if len(acct.Trades) > 0 {
			out = append(out, pooledGains(acct)...)
			continue
		}

		for j := range acct.Holdings {
			h := &acct.Holdings[j]
			value := h.Value()
			out = append(out, UnrealisedGain{
				Identifier:   acct.Name + "/" + h.Asset,
				Gain:         tax.RoundPenny(value - h.CostBasis),
				CostBasis:    h.CostBasis,
				CurrentValue: value,
			})
		}
	}
	return out
}

// pooledGains prices each pooled position with the holding's current price
// when one is present, and reports the gain against the pooled cost.
func pooledGains(acct *models.Account) []UnrealisedGain {
	pools := BuildPools(acct.Trades)

	prices := make(map[string]float64, len(acct.Holdings))
	for _, h := range acct.Holdings {
		prices[h.Asset] = h.Price
	}

	var out []UnrealisedGain
	for _, h := range acct.Holdings {
		pool, ok := pools[h.Asset]
		if !ok || pool.Units.IsZero() {
			continue
		}
		price := decimal.NewFromFloat(prices[h.Asset])
		value := pool.Units.Mul(price)
		gain := value.Sub(pool.Cost)

		costF, _ := pool.Cost.Round(2).Float64()
		valueF, _ := value.Round(2).Float64()
		gainF, _ := gain.Round(2).Float64()

		out = append(out, UnrealisedGain{
			Identifier:   acct.Name + "/" + h.Asset,
			Gain:         gainF,
			CostBasis:    costF,
			CurrentValue: valueF,
		})
	}
	return out
}
