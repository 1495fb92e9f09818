package heuristic

import (
	"math"

	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/montplusa/connect4-mcts/pkg/game/debug"
)

// windows は 4 連になりうるマスの組 (横・縦・斜め 2 方向で 69 通り)
var windows = func() []game.Bitboard {
	var ws []game.Bitboard
	dirs := [][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}
	for y := 0; y < game.Height; y++ {
		for x := 0; x < game.Width; x++ {
			for _, d := range dirs {
				ex, ey := x+3*d[0], y+3*d[1]
				if ex < 0 || ex >= game.Width || ey < 0 || ey >= game.Height {
					continue
				}
				var w game.Bitboard
				for i := 0; i < 4; i++ {
					w |= game.Bit(x+i*d[0], y+i*d[1])
				}
				ws = append(ws, w)
			}
		}
	}
	return ws
}()

// 窓の中の自分の石の数ごとの重み
var weights = [4]float64{0, 1, 4, 16}

// HeuristicAI は一手先の局面を静的評価して最善手を選ぶ
type HeuristicAI struct{}

// New はHeuristicAIのインスタンスを返します
func New() *HeuristicAI {
	return &HeuristicAI{}
}

func (ai *HeuristicAI) Name() string {
	return "heuristic"
}

// Evaluate は直前に指したプレイヤーから見た評価値を [0, 2] で返します
func (ai *HeuristicAI) Evaluate(state game.State) float64 {
	switch state.Status() {
	case game.Lost:
		return 2
	case game.Won:
		return 0
	case game.Draw:
		return 1
	}
	me, op := openWindows(state.JustMoved, state.ToMove), openWindows(state.ToMove, state.JustMoved)
	debug.Log("windows: me %.0f, op %.0f", me, op)
	return 1 + math.Tanh((me-op)/32)
}

// openWindows は相手の石を含まない窓を自分の石の数で重み付けして数える
func openWindows(mine, theirs game.Bitboard) float64 {
	sum := 0.0
	for _, w := range windows {
		if w&theirs != 0 {
			continue
		}
		n := (w & mine).Count()
		if n < 4 {
			sum += weights[n]
		}
	}
	return sum
}

// SelectMove は相手の即勝ちを許さない手の中で評価値が最大のものを選びます
func (ai *HeuristicAI) SelectMove(state game.State) (game.State, float64) {
	moves := game.Moves(state)
	bestIdx := -1
	bestValue := -math.MaxFloat64
	for i, m := range moves {
		value := ai.Evaluate(m)
		if m.Status() == game.Playing && opponentWinsNext(m) {
			// 相手に即勝ちを許す手は負け扱い
			value = 0
		}
		if value > bestValue {
			bestValue = value
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		panic("heuristic: no legal moves")
	}
	return moves[bestIdx], bestValue
}

func opponentWinsNext(state game.State) bool {
	for _, m := range game.Moves(state) {
		if m.JustMoved.IsWinning() {
			return true
		}
	}
	return false
}

// Observe は状態を持たないので何もしません
func (ai *HeuristicAI) Observe(game.State) {}
