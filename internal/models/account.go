package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeSide distinguishes acquisitions from disposals in an account's
// transaction history.
type TradeSide string

const (
	TradeBuy  TradeSide = "buy"
	TradeSell TradeSide = "sell"
)

// Trade is one historical acquisition or disposal of an asset, used to
// build the pooled cost basis for CGT. Amount is the total consideration,
// not the per-unit price.
type Trade struct {
	Asset  string    `json:"asset"`
	Side   TradeSide `json:"side"`
	Units  float64   `json:"units"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// Holding is a position inside an account. CostBasis is the simple
// account-level figure used only when the account carries no transaction
// history.
type Holding struct {
	Asset     string  `json:"asset"`
	Units     float64 `json:"units"`
	Price     float64 `json:"price"`
	CostBasis float64 `json:"costBasis"`
}

// Value returns the holding's current market value.
func (h *Holding) Value() float64 {
	return h.Units * h.Price
}

// Account is a single wrapped pot of wealth belonging to one person.
type Account struct {
	ID       uuid.UUID `json:"id"`
	PersonID uuid.UUID `json:"personId"`
	Name     string    `json:"name"`
	Wrapper  Wrapper   `json:"wrapper"`
	Value    float64   `json:"value"`
	Holdings []Holding `json:"holdings,omitempty"`
	Trades   []Trade   `json:"trades,omitempty"`
}

// Contribution is a recurring discretionary contribution into a wrapper.
type Contribution struct {
	PersonID  uuid.UUID `json:"personId"`
	Wrapper   Wrapper   `json:"wrapper"`
	Amount    float64   `json:"amount"`
	Frequency Frequency `json:"frequency"`
}

// AnnualAmount returns the contribution annualised by its frequency.
func (c *Contribution) AnnualAmount() float64 {
	return c.Amount * c.Frequency.PerYear()
}

// CommittedOutgoing is a recurring spending commitment, optionally scoped
// to a person, a date window and an inflation rate of its own.
type CommittedOutgoing struct {
	Category      string     `json:"category"`
	Amount        float64    `json:"amount"`
	Frequency     Frequency  `json:"frequency"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	EndDate       *time.Time `json:"endDate,omitempty"`
	PersonID      *uuid.UUID `json:"personId,omitempty"`
	InflationRate float64    `json:"inflationRate"`
}

// AnnualAmount returns the outgoing annualised by its frequency, before any
// inflation adjustment.
func (o *CommittedOutgoing) AnnualAmount() float64 {
	return o.Amount * o.Frequency.PerYear()
}

// ActiveIn reports whether the outgoing applies in the given calendar year.
// A missing start or end date leaves that side of the window open.
func (o *CommittedOutgoing) ActiveIn(year int) bool {
	if o.StartDate != nil && year < o.StartDate.Year() {
		return false
	}
	if o.EndDate != nil && year > o.EndDate.Year() {
		return false
	}
	return true
}
