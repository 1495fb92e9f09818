package mcts

import (
	"math/rand/v2"

	"lukechampine.com/frand"
)

// Policy picks which of n legal moves a playout takes.
type Policy interface {
	Pick(n int) int
}

// Uniform picks uniformly at random from a seeded PCG source.
type Uniform struct {
	rng *rand.Rand
}

// NewUniform seeds the source with seed, or with a fresh random seed when
// seed is 0.
func NewUniform(seed uint64) *Uniform {
	if seed == 0 {
		seed = frand.Uint64n(1<<63-1) + 1
	}
	return &Uniform{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (u *Uniform) Pick(n int) int {
	return u.rng.IntN(n)
}

// FirstMove always takes the lowest legal column.
type FirstMove struct{}

func (FirstMove) Pick(int) int { return 0 }
