package random

import (
	"math/rand/v2"

	"github.com/montplusa/connect4-mcts/pkg/game"
	"lukechampine.com/frand"
)

// RandomAI はランダムに行動を選ぶ実装
type RandomAI struct {
	rng *rand.Rand
}

// New は RandomAI を生成する。seed が 0 なら毎回異なる乱数列になる。
func New(seed uint64) *RandomAI {
	if seed == 0 {
		seed = frand.Uint64n(1<<63-1) + 1
	}
	return &RandomAI{rng: rand.New(rand.NewPCG(seed, ^seed))}
}

func (r *RandomAI) Name() string { return "random" }

// SelectMove は合法手から一様に選ぶ。評価値は常に 1 (互角)。
func (r *RandomAI) SelectMove(state game.State) (game.State, float64) {
	moves := game.Moves(state)
	return moves[r.rng.IntN(len(moves))], 1
}

func (r *RandomAI) Observe(game.State) {}
