package evomarket

// Rand is the single source of randomness for a simulation run: Gaussian
// price noise, exploration draws, mutation deltas, and the initial strategy
// mix all come from it. *math/rand.Rand satisfies the interface; tests
// substitute scripted sources to make runs hand-computable.
type Rand interface {
	NormFloat64() float64
	Float64() float64
	Intn(n int) int
}
