package mcts

import (
	"errors"
	"time"
)

var ErrEmptyBudget = errors.New("budget needs an iteration count or a duration")

// Budget bounds one search. When both limits are set, the first one reached
// ends the search.
type Budget struct {
	Iterations int
	Duration   time.Duration
}

func (b Budget) Validate() error {
	if b.Iterations < 0 || b.Duration < 0 {
		return errors.New("budget limits must not be negative")
	}
	if b.Iterations == 0 && b.Duration == 0 {
		return ErrEmptyBudget
	}
	return nil
}

// exhausted is checked at the top of every iteration only, so the last
// iteration may overrun the deadline by the cost of one playout.
func (b Budget) exhausted(done int, now, deadline time.Time) bool {
	if b.Iterations > 0 && done >= b.Iterations {
		return true
	}
	return b.Duration > 0 && !now.Before(deadline)
}
