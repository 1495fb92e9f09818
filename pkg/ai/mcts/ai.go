package mcts

import (
	"fmt"

	"github.com/montplusa/connect4-mcts/pkg/game"
)

// AI plays through an Engine and keeps its tree between moves.
type AI struct {
	engine *Engine
	budget Budget
}

// New creates an MCTS agent. The budget comes from config and must be valid.
func New(config Config) (*AI, error) {
	budget := config.Budget()
	if err := budget.Validate(); err != nil {
		return nil, fmt.Errorf("mcts agent: %w", err)
	}
	return &AI{
		engine: NewEngineFromConfig(game.State{}, config),
		budget: budget,
	}, nil
}

// NewWithEngine wraps an existing engine, mostly for tests that inject a
// deterministic policy.
func NewWithEngine(engine *Engine, budget Budget) *AI {
	return &AI{engine: engine, budget: budget}
}

func (ai *AI) Name() string {
	if ai.budget.Iterations > 0 {
		return fmt.Sprintf("mcts (%d it)", ai.budget.Iterations)
	}
	return fmt.Sprintf("mcts (%s)", ai.budget.Duration)
}

// Engine exposes the underlying engine.
func (ai *AI) Engine() *Engine { return ai.engine }

// SelectMove implements the game.AI interface
func (ai *AI) SelectMove(state game.State) (game.State, float64) {
	// the runner may hand us a position we were never told about
	ai.engine.Observe(state)

	res, err := ai.engine.Search(ai.budget)
	if err != nil {
		// the budget was validated in New
		panic(err)
	}
	ai.engine.Play(res.Node)
	return res.State, res.Score
}

// Observe implements the game.AI interface
func (ai *AI) Observe(state game.State) {
	ai.engine.Observe(state)
}
