package game

// AI はゲーム用エージェントのインターフェース
type AI interface {
	Name() string
	// 手番の盤面から一手を選び、遷移後の盤面と評価値 [0,2] を返す
	SelectMove(state State) (State, float64)
	// 相手が指した後の盤面を通知する
	Observe(state State)
}
