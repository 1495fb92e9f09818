package trivial

import "github.com/montplusa/connect4-mcts/pkg/game"

// 中央に近い列ほど優先する
var columnOrder = [game.Width]int{3, 2, 4, 1, 5, 0, 6}

// TrivialAI は一手先だけを読む貪欲な AI
type TrivialAI struct{}

func New() *TrivialAI {
	return &TrivialAI{}
}

func (ai *TrivialAI) Name() string {
	return "trivial"
}

// SelectMove は 1) 即勝ち 2) 相手の即勝ちを防ぐ 3) 中央寄りの列 の順で手を選びます
func (ai *TrivialAI) SelectMove(state game.State) (game.State, float64) {
	moves := game.Moves(state)
	byColumn := make(map[int]game.State, len(moves))
	var block *game.State
	for i, m := range moves {
		if m.JustMoved.IsWinning() {
			return m, 2
		}
		x, y, _ := game.MoveCell(state, m)
		byColumn[x] = m
		// 同じマスに相手が置いた場合に 4 連になるか
		if block == nil && (state.JustMoved|game.Bit(x, y)).IsWinning() {
			block = &moves[i]
		}
	}
	if block != nil {
		return *block, 1
	}
	for _, x := range columnOrder {
		if m, ok := byColumn[x]; ok {
			return m, 1
		}
	}
	// Playing の局面なら必ず合法手がある
	panic("trivial: no legal moves")
}

// Observe は状態を持たないので何もしません
func (ai *TrivialAI) Observe(game.State) {}
