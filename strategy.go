package evomarket

import "fmt"

// Action is a trade decision for one security on one step.
type Action uint8

const (
	Buy Action = iota
	Sell
	Hold
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Hold:
		return "hold"
	}
	return "unknown"
}

// actionOrder fixes the iteration order over value-table rows so greedy ties
// resolve the same way on every call.
var actionOrder = [3]Action{Buy, Sell, Hold}

// Strategy maps (security, investor) state to an action and a share count.
// Mutate produces a child with perturbed parameters; learned state never
// carries over to the child.
type Strategy interface {
	Decide(sec *Security, inv *InvestorAgent, rng Rand) (Action, int)
	Mutate(rng Rand) Strategy
}

// StrategyName returns a short tag for reporting layers.
func StrategyName(s Strategy) string {
	switch s.(type) {
	case *TrendFollower:
		return "trend"
	case *QLearning:
		return "qlearn"
	}
	return "unknown"
}

// TrendFollower buys into rises and sells into falls over a fixed window of
// recent prices. Stateless beyond the window size.
type TrendFollower struct {
	Lookback int
}

func NewTrendFollower(lookback int) *TrendFollower {
	if lookback < 1 {
		lookback = 1
	}
	return &TrendFollower{Lookback: lookback}
}

// Decide holds until lookback+1 prices exist, then compares the ends of the
// last-lookback window: a rise spends up to 10% of cash, a fall liquidates
// half the holding, a flat window holds.
func (t *TrendFollower) Decide(sec *Security, inv *InvestorAgent, _ Rand) (Action, int) {
	if len(sec.PriceHistory) < t.Lookback+1 {
		return Hold, 0
	}
	window := sec.PriceHistory[len(sec.PriceHistory)-t.Lookback:]
	first, last := window[0], window[len(window)-1]
	switch {
	case last > first:
		return Buy, int(inv.Cash / sec.Price * 0.1)
	case last < first:
		return Sell, inv.Holding(sec) / 2
	}
	return Hold, 0
}

// Mutate nudges the lookback by -1, 0, or +1, floored at 1.
func (t *TrendFollower) Mutate(rng Rand) Strategy {
	return NewTrendFollower(t.Lookback + rng.Intn(3) - 1)
}

func (t *TrendFollower) String() string {
	return fmt.Sprintf("trend(lookback=%d)", t.Lookback)
}
