package evomarket

// scriptRand is a deterministic Rand for tests. Each method pops its queue
// and falls back to a fixed default when the queue is empty: NormFloat64
// returns 0 (no price move), Float64 returns 1 (never below a threshold),
// Intn returns 0.
type scriptRand struct {
	norms  []float64
	floats []float64
	ints   []int
}

func (s *scriptRand) NormFloat64() float64 {
	if len(s.norms) == 0 {
		return 0
	}
	v := s.norms[0]
	s.norms = s.norms[1:]
	return v
}

func (s *scriptRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 1
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptRand) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

// fixedStrategy always returns the same decision. Mutate returns the
// strategy unchanged.
type fixedStrategy struct {
	action Action
	shares int
}

func (f *fixedStrategy) Decide(_ *Security, _ *InvestorAgent, _ Rand) (Action, int) {
	return f.action, f.shares
}

func (f *fixedStrategy) Mutate(_ Rand) Strategy { return f }

func mustSecurity(name string, price float64, shares int64) *Security {
	sec, err := NewSecurity(name, price, shares)
	if err != nil {
		panic(err)
	}
	return sec
}
