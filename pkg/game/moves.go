package game

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	ErrOutOfRange = errors.New("coordinates out of range")
	ErrOccupied   = errors.New("cell already occupied")
	ErrColumnFull = errors.New("column is full")
	ErrGameOver   = errors.New("game is over")
)

// Play は bit のマスに手番側の石を置き、役割を入れ替えた盤面を返す
func (s State) Play(bit Bitboard) State {
	return State{ToMove: s.JustMoved, JustMoved: s.ToMove | bit}
}

// column0 は列 0 の 6 マスのマスク
const column0 Bitboard = 0x0101_0101_0101

// Moves は列 0..6 の昇順で合法手を適用した盤面を返す。各列は最下段の空きマスのみ。
func Moves(s State) []State {
	return AppendMoves(make([]State, 0, Width), s)
}

// AppendMoves は Moves と同じ順序で dst に合法手を追加する
func AppendMoves(dst []State, s State) []State {
	grid := s.Occupied()
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			bit := Bit(x, y)
			if grid&bit == 0 {
				dst = append(dst, s.Play(bit))
				break
			}
		}
	}
	return dst
}

// NumMoves は空きマスの残る列の数、つまり len(Moves(s)) を返す
func NumMoves(s State) int {
	grid := s.Occupied()
	n := 0
	for x := 0; x < Width; x++ {
		col := column0 << x
		if grid&col != col {
			n++
		}
	}
	return n
}

// PlayCell は人間の着手 (x, y) を検証して適用する。重力は課さない。
func (s State) PlayCell(x, y int) (State, error) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return s, fmt.Errorf("cell (%d, %d): %w", x, y, ErrOutOfRange)
	}
	if s.Occupied().Has(x, y) {
		return s, fmt.Errorf("cell (%d, %d): %w", x, y, ErrOccupied)
	}
	return s.Play(Bit(x, y)), nil
}

// PlayColumn は列 x の最下段の空きマスに石を落とす
func (s State) PlayColumn(x int) (State, error) {
	if x < 0 || x >= Width {
		return s, fmt.Errorf("column %d: %w", x, ErrOutOfRange)
	}
	if s.Status() != Playing {
		return s, ErrGameOver
	}
	grid := s.Occupied()
	for y := 0; y < Height; y++ {
		if !grid.Has(x, y) {
			return s.Play(Bit(x, y)), nil
		}
	}
	return s, fmt.Errorf("column %d: %w", x, ErrColumnFull)
}

// MoveCell は from から to への遷移で置かれたマスを返す。単一の着手でなければ ok は false。
func MoveCell(from, to State) (x, y int, ok bool) {
	if to.ToMove != from.JustMoved {
		return 0, 0, false
	}
	placed := to.JustMoved &^ from.ToMove
	if placed.Count() != 1 || to.JustMoved&from.ToMove != from.ToMove {
		return 0, 0, false
	}
	idx := bits.TrailingZeros64(uint64(placed))
	return idx % rowStride, idx / rowStride, true
}
