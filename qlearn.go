package evomarket

import (
	"fmt"
	"strconv"
	"strings"
)

// Default QLearning hyperparameters.
const (
	defaultLearningRate    = 0.1
	defaultDiscountFactor  = 0.95
	defaultExplorationRate = 0.1
	defaultQLookback       = 5
)

// QLearning is a tabular one-step Q-learner over market state. The table is
// keyed by the exact floating-point tuple of (recent prices, cash), so with
// continuous prices a key is almost never revisited and the lookup nearly
// always misses. That is inherited behavior, kept on purpose: the state was
// never discretized upstream and this implementation does not invent a
// discretization.
type QLearning struct {
	LearningRate    float64
	DiscountFactor  float64
	ExplorationRate float64
	Lookback        int

	values map[string][3]float64
}

// NewQLearning returns a learner with default hyperparameters and an empty
// value table.
func NewQLearning() *QLearning {
	return &QLearning{
		LearningRate:    defaultLearningRate,
		DiscountFactor:  defaultDiscountFactor,
		ExplorationRate: defaultExplorationRate,
		Lookback:        defaultQLookback,
		values:          make(map[string][3]float64),
	}
}

// stateKey encodes the last Lookback prices plus the investor's cash.
// FormatFloat with precision -1 round-trips float64 exactly, so distinct
// states always get distinct keys.
func (q *QLearning) stateKey(sec *Security, inv *InvestorAgent) string {
	h := sec.PriceHistory
	start := len(h) - q.Lookback
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, p := range h[start:] {
		b.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
		b.WriteByte('|')
	}
	b.WriteString(strconv.FormatFloat(inv.Cash, 'g', -1, 64))
	return b.String()
}

// Decide picks an action ε-greedily, applies the one-step Q update for it,
// and sizes the trade: a buy commits the whole cash balance, a sell the
// whole holding.
func (q *QLearning) Decide(sec *Security, inv *InvestorAgent, rng Rand) (Action, int) {
	state := q.stateKey(sec, inv)
	row := q.values[state] // zero-valued row when the key is new

	var action Action
	if rng.Float64() < q.ExplorationRate {
		action = actionOrder[rng.Intn(len(actionOrder))]
	} else {
		action = actionOrder[0]
		for _, a := range actionOrder[1:] {
			if row[a] > row[action] {
				action = a
			}
		}
	}

	// Reward as originally coded: portfolio value minus the mark-to-market
	// value of the holdings, which reduces to the cash balance.
	reward := inv.PortfolioValue() - inv.holdingsValue()

	updated := row
	updated[action] += q.LearningRate * (reward + q.DiscountFactor*rowMax(row) - row[action])
	q.values[state] = updated

	switch action {
	case Buy:
		return Buy, int(inv.Cash / sec.Price)
	case Sell:
		return Sell, inv.Holding(sec)
	}
	return Hold, 0
}

// Mutate nudges each rate by -0.01, 0, or +0.01 and the lookback by -1, 0,
// or +1, clamped to their valid ranges. The child starts with an empty value
// table: learned experience is not inherited.
func (q *QLearning) Mutate(rng Rand) Strategy {
	nudge := func(x float64) float64 {
		return x + float64(rng.Intn(3)-1)*0.01
	}
	child := NewQLearning()
	child.LearningRate = nudge(q.LearningRate)
	if child.LearningRate < 0.01 {
		child.LearningRate = 0.01
	}
	child.DiscountFactor = clampFloat(nudge(q.DiscountFactor), 0.8, 1.0)
	child.ExplorationRate = clampFloat(nudge(q.ExplorationRate), 0.01, 1.0)
	child.Lookback = q.Lookback + rng.Intn(3) - 1
	if child.Lookback < 1 {
		child.Lookback = 1
	}
	return child
}

// States reports how many distinct state keys the table has seen.
func (q *QLearning) States() int {
	return len(q.values)
}

func (q *QLearning) String() string {
	return fmt.Sprintf("qlearn(lr=%.2f df=%.2f er=%.2f lb=%d states=%d)",
		q.LearningRate, q.DiscountFactor, q.ExplorationRate, q.Lookback, len(q.values))
}

func rowMax(row [3]float64) float64 {
	m := row[0]
	for _, v := range row[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
