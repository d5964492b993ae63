package evomarket

import (
	"fmt"
	"log"
)

// Invariants holds configuration for runtime assertion checking. The zero
// value disables all checks.
type Invariants struct {
	Enabled         bool // Enable/disable all invariant checks
	CheckPrices     bool // Verify prices stay positive
	CheckHistory    bool // Verify price history length matches step count
	CheckCash       bool // Verify cash never goes negative
	CheckHoldings   bool // Verify no zero or negative holding entries persist
	CheckPopulation bool // Verify population size stays constant
}

// DefaultInvariants returns the default configuration with every check on.
func DefaultInvariants() Invariants {
	return Invariants{
		Enabled:         true,
		CheckPrices:     true,
		CheckHistory:    true,
		CheckCash:       true,
		CheckHoldings:   true,
		CheckPopulation: true,
	}
}

// checkInvariants runs at the end of every step.
func (m *MarketModel) checkInvariants() {
	inv := m.invariants
	if !inv.Enabled {
		return
	}

	if inv.CheckPrices {
		for _, sec := range m.Securities {
			assert(sec.Price > 0,
				fmt.Sprintf("security %q price=%.4f must be positive", sec.Name, sec.Price))
		}
	}

	// History holds the initial price plus one entry per step.
	if inv.CheckHistory {
		for _, sec := range m.Securities {
			assert(len(sec.PriceHistory) == m.Steps+1,
				fmt.Sprintf("security %q history length=%d, want %d after %d steps",
					sec.Name, len(sec.PriceHistory), m.Steps+1, m.Steps))
		}
	}

	if inv.CheckCash {
		for _, a := range m.Investors {
			assert(a.Cash >= 0,
				fmt.Sprintf("agent %d cash=%.4f is negative", a.ID, a.Cash))
		}
	}

	if inv.CheckHoldings {
		for _, a := range m.Investors {
			for sec, shares := range a.Portfolio {
				assert(shares >= 1,
					fmt.Sprintf("agent %d holds %d shares of %q (zero entries must be removed)",
						a.ID, shares, sec.Name))
			}
		}
	}

	if inv.CheckPopulation {
		assert(len(m.Investors) == m.population,
			fmt.Sprintf("population=%d, want %d (reproduction must replace 1:1)",
				len(m.Investors), m.population))
	}
}

// assert logs and exits if condition is false
func assert(condition bool, message string) {
	if !condition {
		log.Fatalf("INVARIANT VIOLATION: %s\n", message)
	}
}
