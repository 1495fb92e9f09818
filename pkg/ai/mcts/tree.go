package mcts

import "github.com/montplusa/connect4-mcts/pkg/game"

// NoParent marks a root node.
const NoParent = -1

// Node is one position in the search tree. Links are indices into the
// owning Tree.
type Node struct {
	State    game.State
	Parent   int
	Children []int
	Visits   uint64
	Score    uint64 // accumulated outcome codes for the player who moved into State
	Status   game.Status
}

// Value is the plain average outcome of the node.
func (n *Node) Value() float64 {
	return float64(n.Score) / float64(n.Visits)
}

// Tree is an append-only arena of nodes. Nodes are never removed one by one;
// detached subtrees stay in the arena until Reset or Compact.
type Tree struct {
	nodes []Node
	root  int
}

// NewTree creates a tree holding only a root for state.
func NewTree(state game.State) *Tree {
	t := &Tree{}
	t.Reset(state)
	return t
}

// Reset discards every node and starts over from state.
func (t *Tree) Reset(state game.State) {
	t.nodes = t.nodes[:0]
	t.root = t.add(NoParent, state)
}

func (t *Tree) add(parent int, state game.State) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		State:  state,
		Parent: parent,
		Status: state.Status(),
	})
	if parent != NoParent {
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id
}

// Root returns the index of the current root.
func (t *Tree) Root() int { return t.root }

// Node returns the node at id. The pointer is invalidated by the next append.
func (t *Tree) Node(id int) *Node { return &t.nodes[id] }

// Len is the number of nodes in the arena, reachable or not.
func (t *Tree) Len() int { return len(t.nodes) }

// Reroot makes id the root and detaches it from its parent. Statistics of
// the subtree are kept.
func (t *Tree) Reroot(id int) {
	t.nodes[id].Parent = NoParent
	t.root = id
}

// Child returns the root child holding exactly state.
func (t *Tree) Child(state game.State) (int, bool) {
	for _, c := range t.nodes[t.root].Children {
		if t.nodes[c].State == state {
			return c, true
		}
	}
	return 0, false
}

// Compact copies the subtree reachable from the root into a fresh arena,
// renumbering nodes breadth-first so the root becomes index 0.
func (t *Tree) Compact() {
	nodes := make([]Node, 0, t.reachable())
	remap := map[int]int{t.root: 0}
	queue := []int{t.root}
	for len(queue) > 0 {
		old := queue[0]
		queue = queue[1:]
		n := t.nodes[old]
		parent := NoParent
		if old != t.root {
			parent = remap[n.Parent]
		}
		children := make([]int, 0, len(n.Children))
		for _, c := range n.Children {
			remap[c] = len(nodes) + len(queue) + 1
			children = append(children, remap[c])
			queue = append(queue, c)
		}
		n.Parent = parent
		n.Children = children
		nodes = append(nodes, n)
	}
	t.nodes = nodes
	t.root = 0
}

func (t *Tree) reachable() int {
	count := 0
	stack := []int{t.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, t.nodes[id].Children...)
	}
	return count
}
