package game

import (
	"fmt"

	"github.com/montplusa/connect4-mcts/pkg/game/debug"
)

// Move は一手の記録
type Move struct {
	Player int     `json:"player"` // 指したエージェント (0 or 1)
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Score  float64 `json:"score"`
	State  State   `json:"state"` // 着手後の盤面
}

// BattleResult は対戦結果の記録
type BattleResult struct {
	Agents       [2]string `json:"agents"`
	InitialState State     `json:"initial_state"` // 初期状態
	Moves        []Move    `json:"moves"`         // 手の履歴
	FinalState   State     `json:"final_state"`
	Winner       int       `json:"winner"` // -1 = 引き分け
}

// GameRunner は対戦を管理
type GameRunner struct {
	agents [2]AI
}

// NewGameRunner は AI エージェントをセットして返す。a0 が先手。
func NewGameRunner(a0, a1 AI) *GameRunner {
	return &GameRunner{agents: [2]AI{a0, a1}}
}

// Run は空の盤面から対戦を実行して BattleResult を返す
func (gr *GameRunner) Run() (BattleResult, error) {
	return gr.RunFrom(State{})
}

// RunFrom は state から agents[0] の手番で対戦を実行する
func (gr *GameRunner) RunFrom(state State) (BattleResult, error) {
	result := BattleResult{
		Agents:       [2]string{gr.agents[0].Name(), gr.agents[1].Name()},
		InitialState: state,
		Moves:        make([]Move, 0, Width*Height),
		Winner:       -1,
	}

	player := 0
	for state.Status() == Playing {
		agent := gr.agents[player]
		debug.Log("turn %d: %s to move (ply %d)", len(result.Moves), agent.Name(), state.Ply())

		next, score := agent.SelectMove(state)
		x, y, ok := MoveCell(state, next)
		if !ok {
			return result, fmt.Errorf("agent %s returned an illegal transition", agent.Name())
		}
		debug.Log("%s plays (%d, %d) score %.3f", agent.Name(), x, y, score)

		result.Moves = append(result.Moves, Move{Player: player, X: x, Y: y, Score: score, State: next})
		state = next
		player = 1 - player
		gr.agents[player].Observe(state)
	}

	result.FinalState = state
	switch state.Status() {
	case Lost:
		// 直前に指した側の勝ち
		result.Winner = 1 - player
	case Won:
		result.Winner = player
	}
	return result, nil
}
