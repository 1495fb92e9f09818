package game

import "math/bits"

const (
	Width  = 7
	Height = 6
	// 1 行あたりのビット数 (7 マス + 番兵 1 ビット)
	rowStride = 8
)

// FullGrid は 42 マスすべてが埋まった状態のマスク
const FullGrid Bitboard = 0b1111111_0_1111111_0_1111111_0_1111111_0_1111111_0_1111111

// Bitboard はマス (x, y) をビット y*8+x で表す石の集合
type Bitboard uint64

// Bit はマス (x, y) のビットを返す
func Bit(x, y int) Bitboard {
	return Bitboard(1) << (y*rowStride + x)
}

// Has はマス (x, y) に石があるかを返す
func (b Bitboard) Has(x, y int) bool {
	return b&Bit(x, y) != 0
}

// Count は石の数を返す
func (b Bitboard) Count() int {
	return bits.OnesCount64(uint64(b))
}

// IsWinning は 4 連が存在するかを返す
func (b Bitboard) IsWinning() bool {
	// 横
	if b&(b>>1)&(b>>2)&(b>>3) != 0 {
		return true
	}
	// 縦
	if b&(b>>8)&(b>>16)&(b>>24) != 0 {
		return true
	}
	// 斜め (右上がり)
	if b&(b>>9)&(b>>18)&(b>>27) != 0 {
		return true
	}
	// 斜め (左上がり)
	return b&(b>>7)&(b>>14)&(b>>21) != 0
}

// Status は手番側から見た局面の状態
type Status int

const (
	Playing Status = iota
	Won
	Lost
	Draw
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Draw:
		return "draw"
	}
	return "unknown"
}
