package game

import "strings"

// State は相対表現の盤面。ToMove が次に指すプレイヤー、JustMoved が直前に指したプレイヤーの石。
// 着手のたびに二つの役割が入れ替わる。
type State struct {
	ToMove    Bitboard `json:"to_move"`
	JustMoved Bitboard `json:"just_moved"`
}

// Occupied は石のあるマスを返す
func (s State) Occupied() Bitboard {
	return s.ToMove | s.JustMoved
}

// Full は盤面が埋まっているかを返す
func (s State) Full() bool {
	return s.Occupied() == FullGrid
}

// Status は Won, Lost, Draw, Playing の優先順で局面を判定する
func (s State) Status() Status {
	if s.ToMove.IsWinning() {
		return Won
	}
	if s.JustMoved.IsWinning() {
		return Lost
	}
	if s.Full() {
		return Draw
	}
	return Playing
}

// Ply はこれまでに置かれた石の数
func (s State) Ply() int {
	return s.Occupied().Count()
}

// Stones は先手・後手の石を返す。手数が偶数なら手番側が先手。
func (s State) Stones() (first, second Bitboard) {
	if s.Ply()%2 == 0 {
		return s.ToMove, s.JustMoved
	}
	return s.JustMoved, s.ToMove
}

// Valid は石の重なりや番兵ビットのない盤面かを返す
func (s State) Valid() bool {
	if s.ToMove&s.JustMoved != 0 {
		return false
	}
	if s.Occupied()&^FullGrid != 0 {
		return false
	}
	d := s.JustMoved.Count() - s.ToMove.Count()
	return d == 0 || d == 1
}

// String は先手を X、後手を O として上の行から描画する
func (s State) String() string {
	first, second := s.Stones()
	var sb strings.Builder
	for y := Height - 1; y >= 0; y-- {
		for x := 0; x < Width; x++ {
			switch {
			case first.Has(x, y):
				sb.WriteByte('X')
			case second.Has(x, y):
				sb.WriteByte('O')
			default:
				sb.WriteByte('_')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
