//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/montplusa/connect4-mcts/pkg/ai/mcts"
	"github.com/montplusa/connect4-mcts/pkg/ai/trivial"
	"github.com/montplusa/connect4-mcts/pkg/game"
)

type searchResult struct {
	ToMove     game.Bitboard `json:"to_move"`
	JustMoved  game.Bitboard `json:"just_moved"`
	Column     int           `json:"column"`
	Row        int           `json:"row"`
	Score      float64       `json:"score"`
	Iterations int           `json:"iterations"`
	Error      string        `json:"error,omitempty"`
}

func toJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func runBattle(this js.Value, args []js.Value) interface{} {
	// 1) AI の初期化
	cfg := mcts.DefaultConfig()
	cfg.TimeBudgetMs = 200
	ai1, err := mcts.New(cfg)
	if err != nil {
		return toJSON(searchResult{Error: err.Error()})
	}
	ai2 := trivial.New()

	// 2) GameRunner の実行
	result, err := game.NewGameRunner(ai1, ai2).Run()
	if err != nil {
		return toJSON(searchResult{Error: err.Error()})
	}

	// 3) JSON 文字列にシリアライズ
	return toJSON(result)
}

// searchMove(toMove, justMoved, ms)。盤面は 47 ビットに収まるので number で受け取る
func searchMove(this js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		return toJSON(searchResult{Error: "searchMove(toMove, justMoved, ms)"})
	}
	state := game.State{
		ToMove:    game.Bitboard(args[0].Float()),
		JustMoved: game.Bitboard(args[1].Float()),
	}
	if !state.Valid() || state.Status() != game.Playing {
		return toJSON(searchResult{Error: "position is invalid or finished"})
	}

	budget := mcts.Budget{Duration: time.Duration(args[2].Int()) * time.Millisecond}
	res, err := mcts.NewEngine(state).Search(budget)
	if err != nil {
		return toJSON(searchResult{Error: err.Error()})
	}
	x, y, _ := game.MoveCell(state, res.State)
	return toJSON(searchResult{
		ToMove:     res.State.ToMove,
		JustMoved:  res.State.JustMoved,
		Column:     x,
		Row:        y,
		Score:      res.Score,
		Iterations: res.Iterations,
	})
}

func main() {
	js.Global().Set("runBattle", js.FuncOf(runBattle))
	js.Global().Set("searchMove", js.FuncOf(searchMove))
	select {} // ブロック
}
