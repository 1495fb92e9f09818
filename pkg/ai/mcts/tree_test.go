package mcts

import (
	"testing"

	"github.com/montplusa/connect4-mcts/pkg/game"
	"github.com/stretchr/testify/require"
)

func TestTreeAddAndChild(t *testing.T) {
	tree := NewTree(game.State{})
	require.Equal(t, 1, tree.Len())
	require.Equal(t, 0, tree.Root())
	require.Equal(t, NoParent, tree.Node(0).Parent)

	moves := game.Moves(game.State{})
	for _, m := range moves {
		tree.add(tree.Root(), m)
	}
	require.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, tree.Node(0).Children)

	id, ok := tree.Child(moves[3])
	require.True(t, ok)
	require.Equal(t, 4, id)
	require.Equal(t, 0, tree.Node(id).Parent)
	require.Equal(t, game.Playing, tree.Node(id).Status)

	_, ok = tree.Child(game.State{JustMoved: game.Bit(3, 3)})
	require.False(t, ok)
}

func TestTreeStatusComputedOnAdd(t *testing.T) {
	s := game.State{
		ToMove:    game.Bit(0, 0) | game.Bit(1, 0) | game.Bit(2, 0),
		JustMoved: game.Bit(0, 1) | game.Bit(1, 1) | game.Bit(6, 0),
	}
	tree := NewTree(s)
	id := tree.add(tree.Root(), s.Play(game.Bit(3, 0)))
	require.Equal(t, game.Lost, tree.Node(id).Status)
}

func TestTreeRerootDetaches(t *testing.T) {
	tree := NewTree(game.State{})
	child := tree.add(0, game.Moves(game.State{})[0])
	tree.Node(child).Visits = 3
	tree.Node(child).Score = 4

	tree.Reroot(child)
	require.Equal(t, child, tree.Root())
	require.Equal(t, NoParent, tree.Node(child).Parent)
	require.Equal(t, uint64(3), tree.Node(child).Visits)
	require.Equal(t, uint64(4), tree.Node(child).Score)
	require.Equal(t, 2, tree.Len(), "the old root stays in the arena")

	tree.Reset(game.State{})
	require.Equal(t, 1, tree.Len())
	require.Zero(t, tree.Node(tree.Root()).Visits)
}

type snapshot struct {
	state    game.State
	visits   uint64
	score    uint64
	children int
}

// walk lists the reachable subtree breadth-first.
func walk(tree *Tree) []snapshot {
	var out []snapshot
	queue := []int{tree.Root()}
	for len(queue) > 0 {
		n := tree.Node(queue[0])
		queue = queue[1:]
		out = append(out, snapshot{n.State, n.Visits, n.Score, len(n.Children)})
		queue = append(queue, n.Children...)
	}
	return out
}

func TestTreeCompact(t *testing.T) {
	e := NewEngine(game.State{}, WithPolicy(NewUniform(3)), WithMaxNodes(0))
	res, err := e.Search(Budget{Iterations: 3000})
	require.NoError(t, err)
	e.Play(res.Node)

	tree := e.Tree()
	before := walk(tree)
	total := tree.Len()
	require.Greater(t, total, len(before))

	tree.Compact()
	require.Equal(t, 0, tree.Root())
	require.Equal(t, len(before), tree.Len())
	require.Equal(t, before, walk(tree))

	for id := 0; id < tree.Len(); id++ {
		for _, c := range tree.Node(id).Children {
			require.Equal(t, id, tree.Node(c).Parent)
		}
	}

	// 圧縮後も探索を続けられる
	_, err = e.Search(Budget{Iterations: 100})
	require.NoError(t, err)
	require.Equal(t, before[0].visits+100, tree.Node(tree.Root()).Visits)
}
