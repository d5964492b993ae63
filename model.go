package evomarket

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"evomarket/logx"
)

const (
	DefaultNumInvestors   = 5
	DefaultInitialCash    = 10000
	DefaultReproduceEvery = 10
)

// Config describes a simulation run. Zero values fall back to the defaults
// above; a nil Securities slice gets the default two-security universe and a
// nil Rand gets a time-seeded math/rand source.
type Config struct {
	NumInvestors   int
	Securities     []*Security
	InitialCash    float64
	ReproduceEvery int
	Invariants     Invariants
	Rand           Rand
}

// MarketModel owns the fixed security universe and the investor population,
// and advances both one synchronous step at a time. An external driver calls
// Step on whatever schedule it likes and reads state back between calls.
type MarketModel struct {
	Securities []*Security
	Investors  []*InvestorAgent
	Steps      int
	Generation int

	population     int
	initialCash    float64
	reproduceEvery int
	invariants     Invariants
	rng            Rand
	nextID         int
}

// DefaultSecurities returns the universe used when none is supplied.
func DefaultSecurities() []*Security {
	acme, _ := NewSecurity("ACME Corp.", 150, 1_000_000)
	widgets, _ := NewSecurity("Widgets Conglomerated Inc.", 700, 500_000)
	return []*Security{acme, widgets}
}

// NewMarketModel builds a model and seeds its population with a random mix
// of trend followers (lookback uniform in [3,7]) and default-parameter
// Q-learners.
func NewMarketModel(cfg Config) (*MarketModel, error) {
	if cfg.NumInvestors < 0 {
		return nil, fmt.Errorf("market: investor count must be non-negative, got %d", cfg.NumInvestors)
	}
	if cfg.NumInvestors == 0 {
		cfg.NumInvestors = DefaultNumInvestors
	}
	if cfg.InitialCash == 0 {
		cfg.InitialCash = DefaultInitialCash
	}
	if cfg.ReproduceEvery == 0 {
		cfg.ReproduceEvery = DefaultReproduceEvery
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	secs := cfg.Securities
	if len(secs) == 0 {
		secs = DefaultSecurities()
	}

	m := &MarketModel{
		Securities:     secs,
		population:     cfg.NumInvestors,
		initialCash:    cfg.InitialCash,
		reproduceEvery: cfg.ReproduceEvery,
		invariants:     cfg.Invariants,
		rng:            rng,
	}
	for i := 0; i < cfg.NumInvestors; i++ {
		m.Investors = append(m.Investors, NewInvestorAgent(m.nextID, m.seedStrategy(), m.initialCash))
		m.nextID++
	}
	return m, nil
}

// seedStrategy picks the strategy variant for one initial investor.
func (m *MarketModel) seedStrategy() Strategy {
	if m.rng.Intn(2) == 0 {
		return NewTrendFollower(3 + m.rng.Intn(5))
	}
	return NewQLearning()
}

// Step advances the simulation one tick: every security's price moves first,
// then every investor acts against the same post-update prices, then on
// every reproduceEvery-th step the population is selected and replaced. The
// call is fully synchronous; all of it completes before Step returns.
func (m *MarketModel) Step() error {
	for _, sec := range m.Securities {
		sec.UpdatePrice(m.rng)
		if sec.Price <= priceFloor {
			logx.LogSimWarning(fmt.Sprintf("security %q clamped at the price floor on step %d", sec.Name, m.Steps+1))
		}
	}
	for _, inv := range m.Investors {
		inv.Act(m.Securities, m.rng)
	}
	m.Steps++
	if m.reproduceEvery > 0 && m.Steps%m.reproduceEvery == 0 {
		if err := m.Reproduce(); err != nil {
			return err
		}
	}
	m.checkInvariants()
	return nil
}

// PopulationStats summarizes the live population for reporting.
type PopulationStats struct {
	Best           float64
	Median         float64
	Worst          float64
	TrendFollowers int
	QLearners      int
}

// bestInvestor returns the agent with the highest portfolio value, ties going
// to the lower ID. Nil for an empty population.
func (m *MarketModel) bestInvestor() *InvestorAgent {
	if len(m.Investors) == 0 {
		return nil
	}
	return rankByValue(m.Investors)[0]
}

// Stats computes portfolio-value spread and the strategy mix.
func (m *MarketModel) Stats() PopulationStats {
	var st PopulationStats
	if len(m.Investors) == 0 {
		return st
	}
	values := make([]float64, len(m.Investors))
	for i, inv := range m.Investors {
		values[i] = inv.PortfolioValue()
		switch inv.Strategy.(type) {
		case *TrendFollower:
			st.TrendFollowers++
		case *QLearning:
			st.QLearners++
		}
	}
	sort.Float64s(values)
	st.Worst = values[0]
	st.Best = values[len(values)-1]
	st.Median = values[len(values)/2]
	return st
}
