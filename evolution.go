package evomarket

import (
	"fmt"
	"sort"

	"evomarket/logx"
)

// rankByValue returns the investors ordered by portfolio value descending.
// Equal values fall back to agent ID so a single reproduction pass ranks
// deterministically.
func rankByValue(investors []*InvestorAgent) []*InvestorAgent {
	type ranked struct {
		agent *InvestorAgent
		value float64
	}
	rs := make([]ranked, len(investors))
	for i, inv := range investors {
		rs[i] = ranked{agent: inv, value: inv.PortfolioValue()}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].value != rs[j].value {
			return rs[i].value > rs[j].value
		}
		return rs[i].agent.ID < rs[j].agent.ID
	})
	out := make([]*InvestorAgent, len(rs))
	for i, r := range rs {
		out[i] = r.agent
	}
	return out
}

// Reproduce replaces the whole population. The top half by portfolio value
// are the parents; every slot in the next generation is filled by a fresh
// agent carrying an independently mutated copy of its assigned parent's
// strategy and the default starting cash. The bottom half, and the parents'
// own agent objects, are discarded. Accumulated cash and learned tables do
// not survive a generation boundary; only strategy parameters propagate.
//
// The next generation is built as a new collection and swapped in, so the
// live population is never mutated mid-ranking.
func (m *MarketModel) Reproduce() error {
	if len(m.Investors) < 2 {
		return fmt.Errorf("reproduce: population %d too small, need at least 2", len(m.Investors))
	}

	ranked := rankByValue(m.Investors)
	parents := ranked[:len(ranked)/2]

	next := make([]*InvestorAgent, 0, len(m.Investors))
	for i := range m.Investors {
		parent := parents[i%len(parents)]
		child := NewInvestorAgent(m.nextID, parent.Strategy.Mutate(m.rng), m.initialCash)
		m.nextID++
		next = append(next, child)
	}
	m.Investors = next
	m.Generation++

	logx.LogReproduction(m.Generation, m.Steps, ranked[0].PortfolioValue())
	return nil
}
