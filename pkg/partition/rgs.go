// Package partition enumerates set partitions of {1..n} in lexicographic
// order using restricted growth strings (RGS).
//
// An RGS of length n is an integer sequence a[0..n-1] where element i+1 of
// the set belongs to block a[i], block labels start at 0, and each new label
// is exactly one larger than the largest label seen so far:
//
//	a[0] = 0, and 0 ≤ a[i] ≤ max(a[0..i-1]) + 1 for i > 0.
//
// For example a = [0, 0, 1, 0, 2] encodes {{1,2,4}, {3}, {5}}.
//
// The successor and predecessor algorithms are the loopless lexicographic
// enumeration algorithms of Stamatelatos & Efraimidis, "Lexicographic
// Enumeration of Set Partitions" (arXiv:2105.07472): algorithm V for all
// partitions, X (with the Y variant) for exactly k blocks, and Z for a block
// count within [kmin, kmax]. Each cursor carries the paper's restriction
// vector b, where b[i] is the largest label among a[0..i-1]; it is updated
// incrementally as positions advance, never recomputed from scratch.
package partition

import (
	"fmt"
	"strings"
)

// RGS is a restricted growth string encoding one set partition of {1..n}.
// The zero-length RGS encodes the unique (empty) partition of the empty set.
type RGS []int

// NumBlocks returns the number of blocks in the encoded partition:
// max(a)+1, or 0 for the empty RGS.
func (r RGS) NumBlocks() int {
	if len(r) == 0 {
		return 0
	}
	m := 0
	for _, v := range r {
		if v > m {
			m = v
		}
	}
	return m + 1
}

// Blocks expands the RGS into an explicit partition of {1..n}. Block order
// follows label order (0, 1, 2, ...), which is also first-appearance order,
// and elements within a block are ascending 1-based positions.
func (r RGS) Blocks() [][]int {
	blocks := make([][]int, r.NumBlocks())
	for i, label := range r {
		blocks[label] = append(blocks[label], i+1)
	}
	return blocks
}

// Valid reports whether r satisfies the restricted growth invariant.
func (r RGS) Valid() bool {
	m := -1
	for _, v := range r {
		if v < 0 || v > m+1 {
			return false
		}
		if v > m {
			m = v
		}
	}
	return true
}

// Clone returns an independent copy of r.
func (r RGS) Clone() RGS {
	out := make(RGS, len(r))
	copy(out, r)
	return out
}

// String renders the encoded partition in set notation, e.g.
// "{ {1,2,4}, {3}, {5} }". The empty partition renders as "{ }".
func (r RGS) String() string {
	blocks := r.Blocks()
	if len(blocks) == 0 {
		return "{ }"
	}
	var b strings.Builder
	b.WriteString("{ ")
	for i, block := range blocks {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("{")
		for j, e := range block {
			if j > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, "%d", e)
		}
		b.WriteString("}")
	}
	b.WriteString(" }")
	return b.String()
}
