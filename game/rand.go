package game

// Rand is the random source the simulation draws from. *rand.Rand from
// math/rand satisfies it; seed it to make a run reproducible.
type Rand interface {
	Float64() float64
}

// uniform returns a value in [lo, hi)
func uniform(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// randomPosition returns a uniformly random point in the world
func randomPosition(r Rand) Vec2 {
	return Vec2{X: r.Float64() * WorldSize, Y: r.Float64() * WorldSize}
}
