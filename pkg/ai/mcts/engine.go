// Package mcts implements Monte-Carlo Tree Search for Connect-Four over the
// relative bitboard encoding of package game.
//
// One iteration runs four phases from the root:
//  1. selection: descend through fully expanded nodes by UCT,
//  2. expansion: add the next untried move in generator order,
//  3. simulation: play random moves to the end without building nodes,
//  4. backpropagation: add the outcome on the way back to the root,
//     flipping it at every ply.
//
// The tree survives between real moves: Play and Observe move the root down
// to the child that matches the game, keeping its statistics.
package mcts

import (
	"fmt"
	"math"
	"time"

	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/rs/zerolog/log"
)

// Outcome of a playout, seen from the player who moved into the position.
type Outcome uint8

const (
	Loss Outcome = 0
	Draw Outcome = 1
	Win  Outcome = 2
)

// Flip converts an outcome to the other player's point of view.
func (o Outcome) Flip() Outcome { return Win - o }

// Result is the move chosen by a search.
type Result struct {
	State      game.State
	Score      float64 // average outcome in [0,2] for the engine
	Node       int     // index of the chosen child, valid until the tree changes
	Iterations int
	Elapsed    time.Duration
}

// Engine owns one search tree and runs searches on it. It is not safe for
// concurrent use.
type Engine struct {
	tree     *Tree
	policy   Policy
	c        float64
	maxNodes int
	now      func() time.Time
	scratch  []game.State
}

type Option func(*Engine)

func WithPolicy(p Policy) Option {
	return func(e *Engine) { e.policy = p }
}

func WithExploration(c float64) Option {
	return func(e *Engine) { e.c = c }
}

// WithMaxNodes sets the arena size above which a reroot compacts the tree.
// Zero disables compaction.
func WithMaxNodes(n int) Option {
	return func(e *Engine) { e.maxNodes = n }
}

func withClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine rooted at state.
func NewEngine(state game.State, opts ...Option) *Engine {
	def := DefaultConfig()
	e := &Engine{
		tree:     NewTree(state),
		c:        def.Exploration,
		maxNodes: def.MaxNodes,
		now:      time.Now,
		scratch:  make([]game.State, 0, game.Width),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.policy == nil {
		e.policy = NewUniform(def.Seed)
	}
	return e
}

// NewEngineFromConfig creates an engine with the parameters of cfg.
func NewEngineFromConfig(state game.State, cfg Config) *Engine {
	return NewEngine(state,
		WithExploration(cfg.Exploration),
		WithPolicy(NewUniform(cfg.Seed)),
		WithMaxNodes(cfg.MaxNodes),
	)
}

// Tree exposes the arena for inspection.
func (e *Engine) Tree() *Tree { return e.tree }

// Search runs iterations from the root until budget is exhausted and returns
// the root child with the best average outcome. The root must be a playing
// position.
func (e *Engine) Search(budget Budget) (Result, error) {
	if err := budget.Validate(); err != nil {
		return Result{}, err
	}
	root := e.tree.Node(e.tree.Root())
	if root.Status != game.Playing {
		panic(fmt.Sprintf("mcts: search from a %s position", root.Status))
	}

	start := e.now()
	deadline := start.Add(budget.Duration)
	done := 0
	for done == 0 || !budget.exhausted(done, e.now(), deadline) {
		e.iterate()
		done++
	}

	id, value := e.best()
	res := Result{
		State:      e.tree.Node(id).State,
		Score:      value,
		Node:       id,
		Iterations: done,
		Elapsed:    e.now().Sub(start),
	}
	x, y, _ := game.MoveCell(e.tree.Node(e.tree.Root()).State, res.State)
	log.Debug().
		Int("iterations", done).
		Int("nodes", e.tree.Len()).
		Dur("elapsed", res.Elapsed).
		Float64("score", value).
		Int("column", x).
		Int("row", y).
		Msg("search-done")
	return res, nil
}

func (e *Engine) iterate() {
	leaf := e.selectNode(e.tree.Root())
	outcome := e.simulate(e.tree.Node(leaf).State)
	e.backpropagate(leaf, outcome)
}

// selectNode descends by UCT and expands one child when it reaches a node
// with untried moves. Terminal nodes are returned as they are.
func (e *Engine) selectNode(id int) int {
	for {
		n := e.tree.Node(id)
		if n.Status != game.Playing {
			return id
		}
		legal := game.NumMoves(n.State)
		if legal == 0 {
			return id
		}
		if len(n.Children) < legal {
			e.scratch = game.AppendMoves(e.scratch[:0], n.State)
			return e.tree.add(id, e.scratch[len(n.Children)])
		}
		id = e.uctChild(id)
	}
}

// uctChild picks the child maximising
// score/visits + C*sqrt(log2(parent visits)/visits); the first one wins ties.
func (e *Engine) uctChild(id int) int {
	n := e.tree.Node(id)
	if n.Visits == 0 {
		panic("mcts: UCT evaluated under a parent with no visits")
	}
	logN := math.Log2(float64(n.Visits))
	best, bestValue := -1, 0.0
	for _, c := range n.Children {
		child := e.tree.Node(c)
		v := child.Value() + e.c*math.Sqrt(logN/float64(child.Visits))
		if best == -1 || v > bestValue {
			best, bestValue = c, v
		}
	}
	return best
}

// simulate plays the policy's moves until the game ends and reports the
// outcome for the player who moved into s.
func (e *Engine) simulate(s game.State) Outcome {
	flipped := false
	result := func(o Outcome) Outcome {
		if flipped {
			return o.Flip()
		}
		return o
	}
	for {
		if s.JustMoved.IsWinning() {
			return result(Win)
		}
		if s.ToMove.IsWinning() {
			return result(Loss)
		}
		if s.Full() {
			return result(Draw)
		}
		e.scratch = game.AppendMoves(e.scratch[:0], s)
		s = e.scratch[e.policy.Pick(len(e.scratch))]
		flipped = !flipped
	}
}

func (e *Engine) backpropagate(id int, o Outcome) {
	for id != NoParent {
		n := e.tree.Node(id)
		n.Visits++
		n.Score += uint64(o)
		o = o.Flip()
		id = n.Parent
	}
}

// best returns the root child with the highest average outcome.
func (e *Engine) best() (int, float64) {
	root := e.tree.Node(e.tree.Root())
	if len(root.Children) == 0 {
		panic("mcts: no legal moves at the root")
	}
	best, bestValue := -1, 0.0
	for _, c := range root.Children {
		v := e.tree.Node(c).Value()
		if best == -1 || v > bestValue {
			best, bestValue = c, v
		}
	}
	return best, bestValue
}

// Play moves the root to the engine's own chosen child.
func (e *Engine) Play(id int) {
	if e.tree.Node(id).Parent != e.tree.Root() {
		panic(fmt.Sprintf("mcts: node %d is not a child of the root", id))
	}
	e.tree.Reroot(id)
	e.maybeCompact()
}

// Observe moves the root to the child holding state, keeping its subtree.
// When the position was never expanded the tree is rebuilt from state.
// It reports whether the subtree was reused.
func (e *Engine) Observe(state game.State) bool {
	if e.tree.Node(e.tree.Root()).State == state {
		return true
	}
	if id, ok := e.tree.Child(state); ok {
		log.Debug().Uint64("visits", e.tree.Node(id).Visits).Msg("reroot")
		e.tree.Reroot(id)
		e.maybeCompact()
		return true
	}
	log.Debug().Int("discarded", e.tree.Len()).Msg("rebuild")
	e.tree.Reset(state)
	return false
}

// Reset discards the tree and roots a new one at state.
func (e *Engine) Reset(state game.State) {
	e.tree.Reset(state)
}

func (e *Engine) maybeCompact() {
	if e.maxNodes > 0 && e.tree.Len() > e.maxNodes {
		before := e.tree.Len()
		e.tree.Compact()
		log.Debug().Int("before", before).Int("after", e.tree.Len()).Msg("compact")
	}
}
