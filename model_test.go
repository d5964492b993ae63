package evomarket

import (
	"math"
	"testing"
)

func TestNewMarketModelDefaults(t *testing.T) {
	m, err := NewMarketModel(Config{Rand: &scriptRand{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Investors) != DefaultNumInvestors {
		t.Fatalf("investors = %d, want %d", len(m.Investors), DefaultNumInvestors)
	}
	if len(m.Securities) != 2 {
		t.Fatalf("securities = %d, want default universe of 2", len(m.Securities))
	}
	for _, inv := range m.Investors {
		if inv.Cash != DefaultInitialCash {
			t.Fatalf("agent %d cash = %v, want %v", inv.ID, inv.Cash, DefaultInitialCash)
		}
		if inv.Strategy == nil {
			t.Fatalf("agent %d has no strategy", inv.ID)
		}
	}
}

func TestNewMarketModelRejectsNegativeInvestors(t *testing.T) {
	if _, err := NewMarketModel(Config{NumInvestors: -1}); err == nil {
		t.Fatal("expected error for negative investor count")
	}
}

func TestNewMarketModelAssignsSequentialIDs(t *testing.T) {
	m, err := NewMarketModel(Config{NumInvestors: 4, Rand: &scriptRand{}})
	if err != nil {
		t.Fatal(err)
	}
	for i, inv := range m.Investors {
		if inv.ID != i {
			t.Fatalf("agent at slot %d has ID %d", i, inv.ID)
		}
	}
}

func TestSeedStrategyMix(t *testing.T) {
	// Intn draws: agent 0 takes the trend branch (0) then lookback 3+4;
	// agent 1 takes the learner branch (1).
	m, err := NewMarketModel(Config{
		NumInvestors: 2,
		Rand:         &scriptRand{ints: []int{0, 4, 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	tf, ok := m.Investors[0].Strategy.(*TrendFollower)
	if !ok || tf.Lookback != 7 {
		t.Fatalf("agent 0 strategy = %v, want trend with lookback 7", m.Investors[0].Strategy)
	}
	if _, ok := m.Investors[1].Strategy.(*QLearning); !ok {
		t.Fatalf("agent 1 strategy = %T, want *QLearning", m.Investors[1].Strategy)
	}
}

func TestStepAdvancesPricesAndHistory(t *testing.T) {
	m, err := NewMarketModel(Config{
		NumInvestors: 3,
		Invariants:   DefaultInvariants(),
		Rand:         &scriptRand{},
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if m.Steps != 5 {
		t.Fatalf("steps = %d, want 5", m.Steps)
	}
	for _, sec := range m.Securities {
		if len(sec.PriceHistory) != 6 {
			t.Fatalf("security %q history = %d entries, want 6", sec.Name, len(sec.PriceHistory))
		}
	}
	if m.Generation != 0 {
		t.Fatalf("generation = %d, want 0 before the reproduction step", m.Generation)
	}
}

func TestStepReproducesOnInterval(t *testing.T) {
	m, err := NewMarketModel(Config{
		NumInvestors:   4,
		ReproduceEvery: 10,
		Invariants:     DefaultInvariants(),
		Rand:           &scriptRand{},
	})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if m.Generation != 1 {
		t.Fatalf("generation = %d, want 1 after step 10", m.Generation)
	}
	if len(m.Investors) != 4 {
		t.Fatalf("population = %d, want 4 (replacement is 1:1)", len(m.Investors))
	}
	for _, inv := range m.Investors {
		if inv.ID < 4 {
			t.Fatalf("agent ID %d survived reproduction; all agents must be fresh", inv.ID)
		}
		if inv.Cash != DefaultInitialCash {
			t.Fatalf("agent %d cash = %v, want reset to %v", inv.ID, inv.Cash, DefaultInitialCash)
		}
	}
}

func TestReproduceLineage(t *testing.T) {
	m, err := NewMarketModel(Config{NumInvestors: 4, Rand: &scriptRand{}})
	if err != nil {
		t.Fatal(err)
	}
	// Replace the seeded population with agents whose rank order and strategy
	// parameters are known. Distinct lookbacks identify each parent's
	// offspring after the -1 nudge the scripted Intn produces.
	m.Investors = []*InvestorAgent{
		{ID: 0, Cash: 100, Portfolio: map[*Security]int{}, Strategy: NewTrendFollower(8)},
		{ID: 1, Cash: 200, Portfolio: map[*Security]int{}, Strategy: NewTrendFollower(6)},
		{ID: 2, Cash: 300, Portfolio: map[*Security]int{}, Strategy: NewTrendFollower(4)},
		{ID: 3, Cash: 400, Portfolio: map[*Security]int{}, Strategy: NewTrendFollower(2)},
	}

	if err := m.Reproduce(); err != nil {
		t.Fatal(err)
	}

	// Parents are ID 3 (400) and ID 2 (300); slots alternate between them.
	wantLookbacks := []int{1, 3, 1, 3} // parent lookbacks 2, 4 nudged by -1
	for i, inv := range m.Investors {
		tf, ok := inv.Strategy.(*TrendFollower)
		if !ok {
			t.Fatalf("slot %d strategy = %T, want *TrendFollower", i, inv.Strategy)
		}
		if tf.Lookback != wantLookbacks[i] {
			t.Fatalf("slot %d lookback = %d, want %d", i, tf.Lookback, wantLookbacks[i])
		}
		if inv.Cash != DefaultInitialCash {
			t.Fatalf("slot %d cash = %v, want %v", i, inv.Cash, DefaultInitialCash)
		}
	}
	if m.Generation != 1 {
		t.Fatalf("generation = %d, want 1", m.Generation)
	}
}

func TestReproduceValueTiesBreakByID(t *testing.T) {
	m, err := NewMarketModel(Config{NumInvestors: 2, Rand: &scriptRand{}})
	if err != nil {
		t.Fatal(err)
	}
	m.Investors = []*InvestorAgent{
		{ID: 0, Cash: 500, Portfolio: map[*Security]int{}, Strategy: NewTrendFollower(9)},
		{ID: 1, Cash: 500, Portfolio: map[*Security]int{}, Strategy: NewTrendFollower(5)},
	}

	if err := m.Reproduce(); err != nil {
		t.Fatal(err)
	}
	// Equal values rank the lower ID first, so agent 0 is the sole parent.
	for i, inv := range m.Investors {
		tf := inv.Strategy.(*TrendFollower)
		if tf.Lookback != 8 {
			t.Fatalf("slot %d lookback = %d, want 8 (offspring of agent 0)", i, tf.Lookback)
		}
	}
}

func TestReproduceRequiresTwoInvestors(t *testing.T) {
	m, err := NewMarketModel(Config{NumInvestors: 1, Rand: &scriptRand{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Reproduce(); err == nil {
		t.Fatal("expected error reproducing a population of 1")
	}
}

func TestStatsSpreadAndMix(t *testing.T) {
	m, err := NewMarketModel(Config{NumInvestors: 3, Rand: &scriptRand{}})
	if err != nil {
		t.Fatal(err)
	}
	m.Investors = []*InvestorAgent{
		{ID: 0, Cash: 900, Portfolio: map[*Security]int{}, Strategy: NewTrendFollower(3)},
		{ID: 1, Cash: 1100, Portfolio: map[*Security]int{}, Strategy: NewQLearning()},
		{ID: 2, Cash: 1000, Portfolio: map[*Security]int{}, Strategy: NewTrendFollower(4)},
	}

	st := m.Stats()
	if st.Best != 1100 || st.Median != 1000 || st.Worst != 900 {
		t.Fatalf("spread = %v/%v/%v, want 1100/1000/900", st.Best, st.Median, st.Worst)
	}
	if st.TrendFollowers != 2 || st.QLearners != 1 {
		t.Fatalf("mix = %d trend / %d qlearn, want 2/1", st.TrendFollowers, st.QLearners)
	}
}

// TestTrendFollowerFullCycle drives four identical trend followers through a
// scripted price path: two holds while the window fills, a buy into the rise,
// then a sell into the reversal. Agents never share state, so all four end
// with the same hand-computable books.
func TestTrendFollowerFullCycle(t *testing.T) {
	sec := mustSecurity("ACME", 100, 1_000_000)
	rng := &scriptRand{
		// Each draw moves the price by norm * 0.02 * price.
		norms: []float64{2.5, 2.5, 1.0, -3.0},
		// Intn defaults to 0, so every seeded investor is a trend follower
		// with lookback 3.
	}
	m, err := NewMarketModel(Config{
		NumInvestors:   4,
		Securities:     []*Security{sec},
		ReproduceEvery: 100,
		Invariants:     DefaultInvariants(),
		Rand:           rng,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, inv := range m.Investors {
		if tf, ok := inv.Strategy.(*TrendFollower); !ok || tf.Lookback != 3 {
			t.Fatalf("agent %d strategy = %v, want trend with lookback 3", inv.ID, inv.Strategy)
		}
	}

	// Steps 1-2: window not full yet, no trades.
	for i := 0; i < 2; i++ {
		if err := m.Step(); err != nil {
			t.Fatal(err)
		}
	}
	for _, inv := range m.Investors {
		if inv.Cash != DefaultInitialCash || len(inv.Portfolio) != 0 {
			t.Fatalf("agent %d traded before the window filled: cash=%v portfolio=%v",
				inv.ID, inv.Cash, inv.Portfolio)
		}
	}

	// Step 3: window full and rising, each agent buys 10% of cash.
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	buyPrice := sec.Price
	boughtShares := int(DefaultInitialCash / buyPrice * 0.1)
	wantCash := DefaultInitialCash - float64(boughtShares)*buyPrice
	for _, inv := range m.Investors {
		if got := inv.Holding(sec); got != boughtShares {
			t.Fatalf("agent %d holding = %d, want %d", inv.ID, got, boughtShares)
		}
		if math.Abs(inv.Cash-wantCash) > 1e-9 {
			t.Fatalf("agent %d cash = %v, want %v", inv.ID, inv.Cash, wantCash)
		}
	}

	// Step 4: price drops, window falls, each agent sells half its holding.
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	sellPrice := sec.Price
	soldShares := boughtShares / 2
	wantCash += float64(soldShares) * sellPrice
	for _, inv := range m.Investors {
		if got := inv.Holding(sec); got != boughtShares-soldShares {
			t.Fatalf("agent %d holding = %d, want %d after selling half",
				inv.ID, got, boughtShares-soldShares)
		}
		if math.Abs(inv.Cash-wantCash) > 1e-9 {
			t.Fatalf("agent %d cash = %v, want %v", inv.ID, inv.Cash, wantCash)
		}
		if math.Abs(inv.PortfolioValue()-(inv.Cash+float64(boughtShares-soldShares)*sellPrice)) > 1e-9 {
			t.Fatalf("agent %d portfolio value must equal cash plus marked holdings", inv.ID)
		}
	}
}
