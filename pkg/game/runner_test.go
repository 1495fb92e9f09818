package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// leftmostAI は常に最も左の合法手を指す
type leftmostAI struct {
	name     string
	observed []State
}

func (a *leftmostAI) Name() string { return a.name }

func (a *leftmostAI) SelectMove(state State) (State, float64) {
	return Moves(state)[0], 1
}

func (a *leftmostAI) Observe(state State) {
	a.observed = append(a.observed, state)
}

type cheatingAI struct{}

func (cheatingAI) Name() string { return "cheater" }

func (cheatingAI) SelectMove(state State) (State, float64) {
	return State{ToMove: state.JustMoved, JustMoved: state.ToMove | Bit(0, 0) | Bit(1, 0)}, 2
}

func (cheatingAI) Observe(State) {}

func TestGameRunnerRun(t *testing.T) {
	a0 := &leftmostAI{name: "a0"}
	a1 := &leftmostAI{name: "a1"}

	result, err := NewGameRunner(a0, a1).Run()
	require.NoError(t, err)

	// 列を左から順に埋めると各行が一人の石で揃い、先手が 19 手目に 1 行目を完成させる
	require.Len(t, result.Moves, 19)
	require.Equal(t, 0, result.Winner)
	require.Equal(t, Lost, result.FinalState.Status())
	require.Equal(t, [2]string{"a0", "a1"}, result.Agents)
	require.Equal(t, State{}, result.InitialState)

	last := result.Moves[len(result.Moves)-1]
	require.Equal(t, 0, last.Player)
	require.Equal(t, 3, last.X)
	require.Equal(t, 0, last.Y)
	require.Equal(t, result.FinalState, last.State)

	// 相手の着手後の盤面だけが通知される
	require.Len(t, a1.observed, 10)
	require.Len(t, a0.observed, 9)
	require.Equal(t, result.Moves[0].State, a1.observed[0])
	require.Equal(t, result.Moves[1].State, a0.observed[0])
}

func TestGameRunnerRejectsIllegalTransition(t *testing.T) {
	_, err := NewGameRunner(cheatingAI{}, &leftmostAI{name: "a1"}).Run()
	require.Error(t, err)
}

func TestGameRunnerRunFromFinishedGame(t *testing.T) {
	s := State{JustMoved: Bit(0, 0) | Bit(1, 0) | Bit(2, 0) | Bit(3, 0), ToMove: Bit(0, 1) | Bit(1, 1) | Bit(2, 1)}
	result, err := NewGameRunner(&leftmostAI{name: "a0"}, &leftmostAI{name: "a1"}).RunFrom(s)
	require.NoError(t, err)
	require.Empty(t, result.Moves)
	require.Equal(t, 1, result.Winner, "the agent that did not move first made the last move")
}
