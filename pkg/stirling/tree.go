package stirling

import "fmt"

// Kind distinguishes base-case leaves from recursive interior nodes.
type Kind int

const (
	// KindBase marks a leaf whose value is known without recursion:
	// S(0,0) = 1, S(n,0) = 0 for n ≥ 1, and S(n,n) = 1.
	KindBase Kind = iota
	// KindRecursive marks an interior node expanded via the recurrence
	// S(n,k) = k·S(n-1,k) + S(n-1,k-1). It always has exactly two children.
	KindRecursive
)

// String returns "base" or "recursive".
func (k Kind) String() string {
	switch k {
	case KindBase:
		return "base"
	case KindRecursive:
		return "recursive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Term labels the edge between a recursive node and one of its children with
// the additive term of the recurrence the child corresponds to. The label is
// purely descriptive; it does not affect computation.
type Term int

const (
	// TermNone is the (absent) incoming edge of the root.
	TermNone Term = iota
	// TermKTimes labels the edge to the S(n-1,k) child, weighted by k.
	TermKTimes
	// TermMinusOne labels the edge to the S(n-1,k-1) child.
	TermMinusOne
)

// String returns "", "k-times", or "minus-one".
func (t Term) String() string {
	switch t {
	case TermNone:
		return ""
	case TermKTimes:
		return "k-times"
	case TermMinusOne:
		return "minus-one"
	default:
		return fmt.Sprintf("Term(%d)", int(t))
	}
}

// Node is one call site in the recursion tree. Nodes live in the tree's
// arena and reference each other by index, never by pointer, so a Tree can
// be copied and serialized freely.
type Node struct {
	N, K int
	Kind Kind

	// Value is meaningful only when Resolved is true. Base nodes are
	// resolved at build time; recursive nodes after [Tree.Resolve].
	Value    int64
	Resolved bool

	// Parent is the arena index of the parent node, or -1 for the root.
	// Term labels the incoming edge (TermNone for the root).
	Parent int
	Term   Term

	// Children holds the arena indices of the two children for recursive
	// nodes, in fixed order: the TermKTimes child first, then the
	// TermMinusOne child. Nil for base nodes.
	Children []int
}

// IsBase reports whether the node is a base-case leaf.
func (n Node) IsBase() bool { return n.Kind == KindBase }

// Label returns the node rendered as a call, e.g. "S(3,2)", with the value
// appended once resolved: "S(3,2) = 3".
func (n Node) Label() string {
	if n.Resolved {
		return fmt.Sprintf("S(%d,%d) = %d", n.N, n.K, n.Value)
	}
	return fmt.Sprintf("S(%d,%d)", n.N, n.K)
}

// Tree is the full, unshared expansion of one S(n,k) call. Nodes are stored
// in a flat arena in depth-first preorder, so the root is always index 0 and
// every child index is greater than its parent's.
//
// A Tree moves through two independent lifecycles: built → resolved (values
// filled in by [Tree.Resolve]), and traced (reveal sequences produced by
// [Tree.Trace], restartable at any time). The two never interfere: a caller
// can resolve immediately and still animate the trace lazily.
//
// Tree is not safe for concurrent mutation; Resolve and Trace from multiple
// goroutines require external synchronization.
type Tree struct {
	nodes    []Node
	resolved bool
}

// Build expands the recursion tree rooted at S(n,k).
//
// It returns [ErrInvalidRequest] if n < 0, k < 0, or k > n: such pairs are
// impossible inputs, not base cases, and are rejected rather than silently
// expanded. n > [MaxBuildN] is rejected because the unshared tree doubles
// per level.
func Build(n, k int) (*Tree, error) {
	switch {
	case n < 0:
		return nil, fmt.Errorf("%w: n = %d must be non-negative", ErrInvalidRequest, n)
	case k < 0:
		return nil, fmt.Errorf("%w: k = %d must be non-negative", ErrInvalidRequest, k)
	case k > n:
		return nil, fmt.Errorf("%w: k = %d exceeds n = %d", ErrInvalidRequest, k, n)
	case n > MaxBuildN:
		return nil, fmt.Errorf("%w: n = %d exceeds build limit %d", ErrInvalidRequest, n, MaxBuildN)
	}

	t := &Tree{}
	t.expand(n, k, -1, TermNone)
	return t, nil
}

// expand appends the subtree for (n,k) in preorder and returns its root index.
func (t *Tree) expand(n, k, parent int, term Term) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, Node{N: n, K: k, Parent: parent, Term: term})

	if isBase(n, k) {
		t.nodes[idx].Value = baseValue(n, k)
		t.nodes[idx].Resolved = true
		return idx
	}

	t.nodes[idx].Kind = KindRecursive
	kTimes := t.expand(n-1, k, idx, TermKTimes)
	minusOne := t.expand(n-1, k-1, idx, TermMinusOne)
	t.nodes[idx].Children = []int{kTimes, minusOne}
	return idx
}

// isBase reports whether (n,k) terminates the recursion. Children of a valid
// root always satisfy 0 ≤ k ≤ n, so only the defined base cases can occur.
func isBase(n, k int) bool {
	return n == k || k == 0
}

func baseValue(n, k int) int64 {
	if n == k {
		return 1
	}
	return 0
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns a copy of the node at arena index i.
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Root returns a copy of the root node.
func (t *Tree) Root() Node { return t.nodes[0] }

// Nodes returns a copy of the arena in preorder. Useful for serialization;
// mutations of the returned slice do not affect the tree.
func (t *Tree) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// LeafCount returns the number of base-case leaves.
func (t *Tree) LeafCount() int {
	var c int
	for i := range t.nodes {
		if t.nodes[i].Kind == KindBase {
			c++
		}
	}
	return c
}

// Resolved reports whether Resolve has completed.
func (t *Tree) Resolved() bool { return t.resolved }

// Value returns the root's value and whether it has been resolved yet.
func (t *Tree) Value() (int64, bool) {
	return t.nodes[0].Value, t.nodes[0].Resolved
}

// Resolve fills in every node's value bottom-up and returns the root value,
// i.e. S(n,k) for the (n,k) the tree was built from. It is idempotent.
//
// Children always have larger arena indices than their parents (preorder),
// so a single reverse sweep visits every node after both of its children —
// an iterative post-order evaluation with no call stack.
func (t *Tree) Resolve() int64 {
	if t.resolved {
		return t.nodes[0].Value
	}
	for i := len(t.nodes) - 1; i >= 0; i-- {
		nd := &t.nodes[i]
		if nd.Kind == KindBase {
			continue
		}
		kTimes := t.nodes[nd.Children[0]].Value
		minusOne := t.nodes[nd.Children[1]].Value
		nd.Value = int64(nd.K)*kTimes + minusOne
		nd.Resolved = true
	}
	t.resolved = true
	return t.nodes[0].Value
}
