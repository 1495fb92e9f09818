package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMovesEmptyBoard(t *testing.T) {
	moves := Moves(State{})
	require.Len(t, moves, Width)
	for x, m := range moves {
		require.Equal(t, Bitboard(0), m.ToMove)
		require.Equal(t, Bit(x, 0), m.JustMoved)
	}
}

func TestMovesProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 300; i++ {
		s := State{}
		for s.Status() == Playing {
			moves := Moves(s)
			require.LessOrEqual(t, len(moves), Width)
			require.Equal(t, len(moves), NumMoves(s))
			require.Equal(t, len(moves), len(AppendMoves(nil, s)))

			lastCol := -1
			for _, m := range moves {
				require.Equal(t, s.JustMoved, m.ToMove, "roles swap")
				x, y, ok := MoveCell(s, m)
				require.True(t, ok)
				require.Greater(t, x, lastCol, "ascending column order")
				lastCol = x
				for below := 0; below < y; below++ {
					require.True(t, s.Occupied().Has(x, below), "lowest empty row only")
				}
				// 一手で埋まる列は高々一つ
				require.GreaterOrEqual(t, NumMoves(m), len(moves)-1)
			}
			s = moves[rng.IntN(len(moves))]
		}
	}
}

func TestMovesFullBoardAndColumn(t *testing.T) {
	s := State{}
	for i := 0; i < Height; i++ {
		var err error
		s, err = s.PlayColumn(2)
		require.NoError(t, err)
	}
	moves := Moves(s)
	require.Len(t, moves, Width-1)
	for _, m := range moves {
		x, _, _ := MoveCell(s, m)
		require.NotEqual(t, 2, x)
	}
	_, err := s.PlayColumn(2)
	require.ErrorIs(t, err, ErrColumnFull)

	require.Empty(t, Moves(State{ToMove: FullGrid &^ Bit(0, 0) &^ Bit(1, 0) &^ Bit(2, 0), JustMoved: Bit(0, 0) | Bit(1, 0) | Bit(2, 0)}))
	require.Zero(t, NumMoves(State{JustMoved: FullGrid}))
}

func TestPlayCell(t *testing.T) {
	s, err := State{}.PlayCell(3, 4)
	require.NoError(t, err, "no gravity for human moves")
	require.Equal(t, State{JustMoved: Bit(3, 4)}, s)

	_, err = s.PlayCell(3, 4)
	require.ErrorIs(t, err, ErrOccupied)

	for _, c := range [][2]int{{-1, 0}, {7, 0}, {0, -1}, {0, 6}} {
		_, err = s.PlayCell(c[0], c[1])
		require.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestPlayColumnGameOver(t *testing.T) {
	s := State{JustMoved: Bit(0, 0) | Bit(1, 0) | Bit(2, 0) | Bit(3, 0), ToMove: Bit(0, 1) | Bit(1, 1) | Bit(2, 1)}
	_, err := s.PlayColumn(4)
	require.ErrorIs(t, err, ErrGameOver)
	_, err = s.PlayColumn(9)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestMoveCell(t *testing.T) {
	s := State{ToMove: Bit(0, 0), JustMoved: Bit(1, 0)}
	next, err := s.PlayCell(5, 2)
	require.NoError(t, err)

	x, y, ok := MoveCell(s, next)
	require.True(t, ok)
	require.Equal(t, 5, x)
	require.Equal(t, 2, y)

	_, _, ok = MoveCell(s, s)
	require.False(t, ok)
	_, _, ok = MoveCell(s, State{ToMove: s.JustMoved, JustMoved: s.ToMove | Bit(2, 0) | Bit(3, 0)})
	require.False(t, ok, "two stones at once")
}
