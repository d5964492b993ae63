package evomarket

import "sort"

// InvestorAgent owns a cash balance and a share count per security, and
// delegates its per-step decisions to exactly one Strategy. Agents never
// share cash or holdings, so they can act in any order within a step.
type InvestorAgent struct {
	ID        int
	Cash      float64
	Portfolio map[*Security]int
	Strategy  Strategy
}

func NewInvestorAgent(id int, strategy Strategy, cash float64) *InvestorAgent {
	return &InvestorAgent{
		ID:        id,
		Cash:      cash,
		Portfolio: make(map[*Security]int),
		Strategy:  strategy,
	}
}

// Holding returns the share count held for sec, zero when absent.
func (a *InvestorAgent) Holding(sec *Security) int {
	return a.Portfolio[sec]
}

// Act asks the strategy for one decision per security and applies it.
// Economically invalid trades are rejected silently: a buy that cannot be
// fully funded or a sell that cannot be fully covered does nothing. There
// are no partial fills. Zero quantities are valid no-ops. A holding that
// reaches zero is removed from the portfolio.
func (a *InvestorAgent) Act(securities []*Security, rng Rand) {
	for _, sec := range securities {
		action, shares := a.Strategy.Decide(sec, a, rng)
		if shares <= 0 {
			continue
		}
		switch action {
		case Buy:
			cost := float64(shares) * sec.Price
			if cost <= a.Cash {
				a.Cash -= cost
				a.Portfolio[sec] += shares
			}
		case Sell:
			held := a.Portfolio[sec]
			if held < shares {
				continue
			}
			a.Cash += float64(shares) * sec.Price
			if held == shares {
				delete(a.Portfolio, sec)
			} else {
				a.Portfolio[sec] = held - shares
			}
		}
	}
}

// holdingsValue is the mark-to-market value of the holdings alone.
func (a *InvestorAgent) holdingsValue() float64 {
	var v float64
	for sec, shares := range a.Portfolio {
		v += sec.Price * float64(shares)
	}
	return v
}

// PortfolioValue returns cash plus the mark-to-market value of all held
// securities. Pure read.
func (a *InvestorAgent) PortfolioValue() float64 {
	return a.Cash + a.holdingsValue()
}

// HoldingEntry is a (security name, share count) pair for display.
type HoldingEntry struct {
	Security string `json:"security"`
	Shares   int    `json:"shares"`
}

// Holdings returns the portfolio as name/count pairs sorted by security
// name, for reporting layers.
func (a *InvestorAgent) Holdings() []HoldingEntry {
	out := make([]HoldingEntry, 0, len(a.Portfolio))
	for sec, shares := range a.Portfolio {
		out = append(out, HoldingEntry{Security: sec.Name, Shares: shares})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Security < out[j].Security })
	return out
}
