package partition

import "fmt"

// State is a serializable snapshot of a [Cursor], small enough to externalize
// into a session store. Only the RGS and the position are captured; the
// restriction vector is derived on restore.
type State struct {
	A     []int `json:"a"`
	Index int64 `json:"index"`
}

// State snapshots the cursor's current position.
func (c *Cursor) State() State {
	a := make([]int, len(c.a))
	copy(a, c.a)
	return State{A: a, Index: c.index}
}

// Restore rebuilds a cursor from a snapshot taken under the same request.
// The snapshot is not trusted: the RGS must satisfy the growth invariant and
// its block count must fit the request's mode, otherwise a wrapped
// [ErrInvalidRequest] is returned. The restriction vector is recomputed, so
// a restored cursor steps exactly like the one that was snapshotted.
func Restore(req Request, st State) (*Cursor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(st.A) != req.N {
		return nil, fmt.Errorf("%w: snapshot length %d does not match n = %d", ErrInvalidRequest, len(st.A), req.N)
	}
	if !RGS(st.A).Valid() {
		return nil, fmt.Errorf("%w: snapshot violates the growth invariant", ErrInvalidRequest)
	}
	if st.Index < 0 {
		return nil, fmt.Errorf("%w: snapshot index %d is negative", ErrInvalidRequest, st.Index)
	}

	blocks := RGS(st.A).NumBlocks()
	switch req.Mode {
	case ModeExactK:
		if blocks != req.K {
			return nil, fmt.Errorf("%w: snapshot has %d blocks, want exactly %d", ErrInvalidRequest, blocks, req.K)
		}
	case ModeRange:
		if req.N > 0 && (blocks < req.KMin || blocks > req.KMax) {
			return nil, fmt.Errorf("%w: snapshot has %d blocks, want within [%d,%d]", ErrInvalidRequest, blocks, req.KMin, req.KMax)
		}
	}

	c := &Cursor{req: req, a: make([]int, req.N), index: st.Index}
	copy(c.a, st.A)
	if req.Mode == ModeRange {
		c.b = make([]int, req.N+1)
	} else {
		c.b = make([]int, req.N)
	}
	c.rebuildRestriction()
	return c, nil
}
