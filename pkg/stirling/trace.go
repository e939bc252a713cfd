package stirling

import (
	"errors"
	"fmt"
)

// ErrUnknownOrder is returned by [ParseOrder] for unrecognized order names.
var ErrUnknownOrder = errors.New("unknown traversal order")

// Order selects the traversal that drives a reveal sequence.
type Order int

const (
	// OrderDFS reveals nodes in depth-first preorder: each node before its
	// children, the k-times subtree before the minus-one subtree. This is
	// the order the naive recursive computation would visit call sites.
	OrderDFS Order = iota
	// OrderBFS reveals nodes level by level, left to right.
	OrderBFS
)

// String returns "dfs" or "bfs".
func (o Order) String() string {
	switch o {
	case OrderDFS:
		return "dfs"
	case OrderBFS:
		return "bfs"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// ParseOrder converts "dfs" or "bfs" to an [Order].
func ParseOrder(s string) (Order, error) {
	switch s {
	case "dfs":
		return OrderDFS, nil
	case "bfs":
		return OrderBFS, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be dfs or bfs)", ErrUnknownOrder, s)
	}
}

// Event is one reveal step of an animation: a node becomes visible together
// with the edge that introduced it. The root has no incoming edge (Parent is
// -1 and Term is TermNone).
type Event struct {
	// Index is the arena index of the revealed node.
	Index int
	// Node is a snapshot of the node at the time of the step, so events
	// reflect whether values were resolved when the consumer pulled them.
	Node Node
	// Parent is the arena index of the already-revealed parent, -1 for the root.
	Parent int
	// Term labels the incoming edge, TermNone for the root.
	Term Term
}

// Stepper walks a fixed reveal sequence one event at a time. It is the
// UI-facing animation primitive: [Stepper.Step] pulls the next event,
// [Stepper.Reset] rewinds without rebuilding anything.
//
// The sequence is computed once at construction, so stepping is O(1) and two
// steppers with the same tree and order always produce identical sequences.
type Stepper struct {
	tree  *Tree
	order Order
	seq   []int
	pos   int
}

// Trace returns a restartable reveal sequence over the tree in the given
// order. Calling Trace repeatedly on the same tree is idempotent: every
// returned stepper yields the same sequence of events.
func (t *Tree) Trace(order Order) *Stepper {
	s := &Stepper{tree: t, order: order}
	if order == OrderBFS {
		s.seq = t.bfsOrder()
	} else {
		s.seq = t.dfsOrder()
	}
	return s
}

// dfsOrder returns node indices in preorder using an explicit stack.
// Children are pushed right-to-left so the k-times child pops first.
func (t *Tree) dfsOrder() []int {
	seq := make([]int, 0, len(t.nodes))
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		seq = append(seq, idx)
		children := t.nodes[idx].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return seq
}

// bfsOrder returns node indices level by level.
func (t *Tree) bfsOrder() []int {
	seq := make([]int, 0, len(t.nodes))
	queue := []int{0}
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		seq = append(seq, idx)
		queue = append(queue, t.nodes[idx].Children...)
	}
	return seq
}

// Order returns the traversal order the stepper was created with.
func (s *Stepper) Order() Order { return s.order }

// Len returns the total number of events in the sequence (the node count).
func (s *Stepper) Len() int { return len(s.seq) }

// Pos returns how many events have been stepped so far.
func (s *Stepper) Pos() int { return s.pos }

// Step returns the next reveal event and true, or a zero event and false
// once the sequence is exhausted. Exhaustion is a normal terminal state, not
// an error; call [Stepper.Reset] to start over.
func (s *Stepper) Step() (Event, bool) {
	if s.pos >= len(s.seq) {
		return Event{}, false
	}
	idx := s.seq[s.pos]
	s.pos++
	nd := s.tree.nodes[idx]
	return Event{Index: idx, Node: nd, Parent: nd.Parent, Term: nd.Term}, true
}

// Reset rewinds the stepper to the first event. The underlying tree and
// sequence are untouched, so a replay yields identical events.
func (s *Stepper) Reset() { s.pos = 0 }

// Events materializes the remaining sequence from the current position
// without moving it. Calling Events on a fresh or reset stepper returns the
// complete reveal sequence.
func (s *Stepper) Events() []Event {
	out := make([]Event, 0, len(s.seq)-s.pos)
	for _, idx := range s.seq[s.pos:] {
		nd := s.tree.nodes[idx]
		out = append(out, Event{Index: idx, Node: nd, Parent: nd.Parent, Term: nd.Term})
	}
	return out
}
