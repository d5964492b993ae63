package evomarket

import "fmt"

// priceFloor is the lowest price a security can reach. The walk is additive
// with price-scaled noise, so a long losing streak would otherwise drive the
// price to zero or below.
const priceFloor = 0.01

// priceVolatility is the standard deviation of the per-step Gaussian noise,
// as a fraction of the current price.
const priceVolatility = 0.02

// Security is a tradable instrument: a fixed share count and a price driven
// by a clamped random walk. The full price history is kept so strategies can
// look back over recent moves.
type Security struct {
	Name              string
	Price             float64
	SharesOutstanding int64
	PriceHistory      []float64
}

// NewSecurity creates a security with its initial price already recorded in
// the history. A non-positive share count is programmer error and is
// rejected.
func NewSecurity(name string, initialPrice float64, sharesOutstanding int64) (*Security, error) {
	if sharesOutstanding <= 0 {
		return nil, fmt.Errorf("security %q: shares outstanding must be positive, got %d", name, sharesOutstanding)
	}
	return &Security{
		Name:              name,
		Price:             initialPrice,
		SharesOutstanding: sharesOutstanding,
		PriceHistory:      []float64{initialPrice},
	}, nil
}

// UpdatePrice advances the price one step and appends the new price to the
// history. The only mutator of price state.
func (s *Security) UpdatePrice(rng Rand) {
	change := rng.NormFloat64() * priceVolatility * s.Price
	s.Price += change
	if s.Price < priceFloor {
		s.Price = priceFloor
	}
	s.PriceHistory = append(s.PriceHistory, s.Price)
}

// MarketCap returns price times shares outstanding.
func (s *Security) MarketCap() float64 {
	return s.Price * float64(s.SharesOutstanding)
}
