package partition

import (
	"errors"
	"fmt"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/stirling"
)

// Sentinel errors for enumeration requests.
var (
	// ErrInvalidRequest is returned by [First], [Count], and [Restore] when
	// the n/mode/k combination is malformed: negative n, k = 0 with n > 0,
	// k > n, or an inconsistent [kmin, kmax] range. It is never returned
	// mid-navigation; exhaustion is reported by Next/Prev returning false.
	ErrInvalidRequest = errors.New("invalid enumeration request")

	// ErrUnknownMode is returned by [ParseMode] for unrecognized mode names.
	ErrUnknownMode = errors.New("unknown enumeration mode")
)

// MaxN bounds the set size. Counts are int64 and Bell(26) overflows, so
// requests beyond stirling.MaxN are rejected up front.
const MaxN = stirling.MaxN

// Mode selects which family of partitions a cursor walks. Each mode is
// backed by its own successor algorithm; adding a future mode means adding
// a successor, not touching the existing ones.
type Mode int

const (
	// ModeAll walks every partition of {1..n} (algorithm V).
	ModeAll Mode = iota
	// ModeExactK walks partitions with exactly K blocks (algorithm X, or
	// the Y variant when selected).
	ModeExactK
	// ModeRange walks partitions whose block count lies in [KMin, KMax]
	// (algorithm Z).
	ModeRange
)

// String returns "all", "exact", or "range".
func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeExactK:
		return "exact"
	case ModeRange:
		return "range"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler so modes serialize as their
// names in JSON and TOML.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMode converts "all", "exact", or "range" to a [Mode].
func ParseMode(s string) (Mode, error) {
	switch s {
	case "all":
		return ModeAll, nil
	case "exact":
		return ModeExactK, nil
	case "range":
		return ModeRange, nil
	default:
		return 0, fmt.Errorf("%w: %q (must be all, exact, or range)", ErrUnknownMode, s)
	}
}

// Variant selects the successor algorithm for [ModeExactK]. Both variants
// produce the identical lexicographic sequence; they differ only in how the
// step is organized internally (the paper's algorithms X and Y).
type Variant int

const (
	// VariantX is the default exactly-k successor.
	VariantX Variant = iota
	// VariantY is the alternative exactly-k successor, which patches the
	// suffix up to k blocks instead of retrying the scan.
	VariantY
)

// String returns "x" or "y".
func (v Variant) String() string {
	switch v {
	case VariantX:
		return "x"
	case VariantY:
		return "y"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Request describes one enumeration: the set size, the mode, and the mode's
// parameters. K is used by ModeExactK; KMin and KMax by ModeRange.
type Request struct {
	N       int     `json:"n"`
	Mode    Mode    `json:"mode"`
	K       int     `json:"k,omitempty"`
	KMin    int     `json:"kmin,omitempty"`
	KMax    int     `json:"kmax,omitempty"`
	Variant Variant `json:"variant,omitempty"`
}

// Validate checks the request and returns a wrapped [ErrInvalidRequest]
// describing the first violation found, or nil.
func (r Request) Validate() error {
	if r.N < 0 {
		return fmt.Errorf("%w: n = %d must be non-negative", ErrInvalidRequest, r.N)
	}
	if r.N > MaxN {
		return fmt.Errorf("%w: n = %d exceeds limit %d", ErrInvalidRequest, r.N, MaxN)
	}
	switch r.Mode {
	case ModeAll:
		return nil
	case ModeExactK:
		if r.N == 0 {
			if r.K != 0 {
				return fmt.Errorf("%w: k = %d with n = 0 (only k = 0 partitions the empty set)", ErrInvalidRequest, r.K)
			}
			return nil
		}
		if r.K <= 0 {
			return fmt.Errorf("%w: k = %d must be at least 1 for n = %d", ErrInvalidRequest, r.K, r.N)
		}
		if r.K > r.N {
			return fmt.Errorf("%w: k = %d exceeds n = %d", ErrInvalidRequest, r.K, r.N)
		}
		return nil
	case ModeRange:
		if r.N == 0 {
			if r.KMin != 0 || r.KMax != 0 {
				return fmt.Errorf("%w: range [%d,%d] with n = 0", ErrInvalidRequest, r.KMin, r.KMax)
			}
			return nil
		}
		if r.KMin < 1 || r.KMin > r.KMax || r.KMax > r.N {
			return fmt.Errorf("%w: range [%d,%d] must satisfy 1 ≤ kmin ≤ kmax ≤ %d", ErrInvalidRequest, r.KMin, r.KMax, r.N)
		}
		return nil
	default:
		return fmt.Errorf("%w: mode %d", ErrInvalidRequest, int(r.Mode))
	}
}

// Cursor is a position within one enumeration. It owns the current RGS and
// the restriction vector b, both mutated in place by [Cursor.Next] and
// [Cursor.Prev]. A cursor is created at the lexicographically first RGS by
// [First] and discarded when n or the mode changes.
//
// b[i] always holds max(a[0..i-1]), the largest label before position i (the
// paper's restriction vector); for ModeRange it has one extra slot, matching
// the paper's algorithm Z. Every step keeps it current incrementally.
type Cursor struct {
	req   Request
	a     []int
	b     []int
	index int64
}

// First returns a cursor positioned at the lexicographically smallest RGS
// satisfying the request:
//
//   - ModeAll: all zeros (a single block).
//   - ModeExactK: [0,...,0,1,2,...,k-1] — the minimum still able to open
//     all k blocks, with the forced ascent packed at the end.
//   - ModeRange: same shape with kmin in place of k.
//
// Returns a wrapped [ErrInvalidRequest] for malformed requests.
func First(req Request) (*Cursor, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	n := req.N
	c := &Cursor{req: req, a: make([]int, n)}
	switch req.Mode {
	case ModeAll:
		c.b = make([]int, n)
	case ModeExactK:
		c.b = make([]int, n)
		for i := n - 1; i > n-req.K; i-- {
			c.a[i] = req.K - n + i
			c.b[i] = req.K - n + i - 1
		}
	case ModeRange:
		c.b = make([]int, n+1)
		for i := n - 1; i > n-req.KMin; i-- {
			c.a[i] = req.KMin - n + i
			c.b[i] = req.KMin - n + i - 1
		}
	}
	return c, nil
}

// Request returns the request the cursor was created from.
func (c *Cursor) Request() Request { return c.req }

// RGS returns a copy of the current restricted growth string.
func (c *Cursor) RGS() RGS { return RGS(c.a).Clone() }

// Blocks returns the current partition as explicit blocks of {1..n}.
func (c *Cursor) Blocks() [][]int { return RGS(c.a).Blocks() }

// NumBlocks returns the block count of the current partition.
func (c *Cursor) NumBlocks() int { return RGS(c.a).NumBlocks() }

// Index returns the 0-based position of the cursor within the enumeration,
// for progress display against [Count].
func (c *Cursor) Index() int64 { return c.index }

// Next advances the cursor to the lexicographic successor in place. It
// returns false, leaving the cursor unchanged, when the current RGS is the
// last one — an expected terminal condition, not an error.
func (c *Cursor) Next() bool {
	var ok bool
	switch c.req.Mode {
	case ModeExactK:
		if c.req.Variant == VariantY {
			ok = c.nextExactY()
		} else {
			ok = c.nextExactX()
		}
	case ModeRange:
		ok = c.nextRange()
	default:
		ok = c.nextAll()
	}
	if ok {
		c.index++
	}
	return ok
}

// Prev steps the cursor to the lexicographic predecessor in place. It
// returns false, leaving the cursor unchanged, when already at the first RGS.
func (c *Cursor) Prev() bool {
	var ok bool
	switch c.req.Mode {
	case ModeExactK:
		ok = c.prevBounded(c.req.K, c.req.K)
	case ModeRange:
		ok = c.prevBounded(c.req.KMin, c.req.KMax)
	default:
		ok = c.prevBounded(1, c.req.N)
	}
	if ok {
		c.index--
	}
	return ok
}

// refill resets a[start:] to zero and rebuilds the restriction vector
// alongside, the common tail step of algorithms V, X, and Y.
func (c *Cursor) refill(start int) {
	for i := start; i < len(c.a); i++ {
		c.a[i] = 0
		c.b[i] = max(c.a[i-1], c.b[i-1])
	}
}

// nextAll is algorithm V: find the rightmost position whose label can grow
// without exceeding the prefix maximum plus one, bump it, zero the rest.
func (c *Cursor) nextAll() bool {
	n := len(c.a)
	if n < 2 {
		return false
	}
	i := n - 1
	for i > 0 && (c.a[i] == n-1 || c.a[i] > c.b[i]) {
		i--
	}
	if i == 0 {
		return false
	}
	c.a[i]++
	c.refill(i + 1)
	return true
}

// nextExactX is algorithm X: like V but with labels capped at k-1, retrying
// from a higher position whenever the refilled suffix cannot reach k blocks.
func (c *Cursor) nextExactX() bool {
	n, k := len(c.a), c.req.K
	if n < 2 {
		return false
	}
	for {
		i := n - 1
		for i > 0 && (c.a[i] == k-1 || c.a[i] > c.b[i]) {
			i--
		}
		if i == 0 {
			return false
		}
		c.a[i]++
		c.refill(i + 1)
		if max(c.a[n-1], c.b[n-1]) == k-1 {
			return true
		}
	}
}

// nextExactY is algorithm Y: a single scan followed by patching the suffix
// back up to exactly k blocks when the plain refill falls short.
func (c *Cursor) nextExactY() bool {
	n, k := len(c.a), c.req.K
	if n < 2 {
		return false
	}
	i := n - 1
	for i > 0 && (c.a[i] == k-1 || c.a[i] > c.b[i]) {
		i--
	}
	if i == 0 {
		return false
	}
	c.a[i]++
	c.refill(i + 1)

	if max(c.a[n-1], c.b[n-1]) != k-1 {
		j, label := n-1, k-1
		for label > c.b[j] {
			c.a[j] = label
			c.b[j] = label - 1
			j--
			label--
		}
	}
	return true
}

// nextRange is algorithm Z: labels capped at kmax-1, and after the bump the
// suffix is split into leading zeros followed by a forced ascent so that at
// least kmin blocks remain reachable.
func (c *Cursor) nextRange() bool {
	n, kmin, kmax := len(c.a), c.req.KMin, c.req.KMax
	if n < 2 {
		return false
	}
	i := n - 1
	for i > 0 && (c.a[i] == kmax-1 || c.a[i] > c.b[i]) {
		i--
	}
	if i == 0 {
		return false
	}
	c.a[i]++
	c.b[i+1] = max(c.a[i], c.b[i])

	zeroes := c.b[i+1] + n - i - kmin
	i++
	for zeroes > 0 && i < n {
		c.a[i] = 0
		c.b[i+1] = c.b[i]
		i++
		zeroes--
	}
	for i < n {
		c.a[i] = c.b[i] + 1
		c.b[i+1] = c.a[i]
		i++
	}
	return true
}

// prevBounded walks one step backward among RGS whose block count lies in
// [kmin, kmax] (kmin = kmax = k gives the exactly-k predecessor, kmin = 1
// with kmax = n the unrestricted one). It decrements the rightmost position
// that still leaves at least kmin blocks reachable, then refills the suffix
// with the largest labels the growth invariant and kmax allow. A larger
// value at the pivot can only improve reachability, so a[i]-1 failing the
// bound means every smaller value fails too and the scan moves left.
func (c *Cursor) prevBounded(kmin, kmax int) bool {
	n := len(c.a)
	for i := n - 1; i > 0; i-- {
		if c.a[i] == 0 {
			continue
		}
		m := max(c.b[i], c.a[i]-1)
		if m+(n-1-i) < kmin-1 {
			continue
		}
		c.a[i]--
		pm := m
		for j := i + 1; j < n; j++ {
			c.a[j] = min(pm+1, kmax-1)
			pm = max(pm, c.a[j])
		}
		c.rebuildRestriction()
		return true
	}
	return false
}

// rebuildRestriction recomputes b as the prefix maxima of a after a
// predecessor step. One O(n) pass, the same cost as the step itself.
func (c *Cursor) rebuildRestriction() {
	n := len(c.a)
	pm := 0
	for i := 1; i < n; i++ {
		pm = max(pm, c.a[i-1])
		c.b[i] = pm
	}
	if len(c.b) > n && n > 0 {
		c.b[n] = max(pm, c.a[n-1])
	}
}
