// range.go
//
// Pure, immutable predicates over one ID (Range1) or a pair of IDs
// (Range2), per SPEC_FULL.md §4.5. No caching: a Range is cheap enough
// that memoizing it would cost more than recomputing it.

package sim

// Range1 selects individual particles, used by Local and the 1-range half
// of the Interaction contract.
type Range1 interface {
	// InRange reports whether particle id is selected by this range.
	InRange(id int) bool
}

// Range2 selects unordered pairs of particles, used by Interaction.
type Range2 interface {
	// InRange reports whether the pair (id1, id2) is selected. Callers
	// must not invoke this with id1 == id2.
	InRange(id1, id2 int) bool
}

// --- Range1 implementations ---

// Single selects exactly one particle ID.
type Single struct {
	ID int
}

func (s Single) InRange(id int) bool { return id == s.ID }

// AllRange1 selects every particle.
type AllRange1 struct{}

func (AllRange1) InRange(int) bool { return true }

// NoneRange1 selects no particle.
type NoneRange1 struct{}

func (NoneRange1) InRange(int) bool { return false }

// ListRange1 selects an explicit, unordered set of IDs.
type ListRange1 struct {
	ids map[int]struct{}
}

// NewListRange1 builds a ListRange1 from a slice of IDs.
func NewListRange1(ids []int) ListRange1 {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return ListRange1{ids: set}
}

func (l ListRange1) InRange(id int) bool {
	_, ok := l.ids[id]
	return ok
}

// Interval selects all IDs in [Start, End] inclusive.
type Interval struct {
	Start, End int
}

func (iv Interval) InRange(id int) bool {
	return id >= iv.Start && id <= iv.End
}

// --- Range2 implementations ---

// AllPairs selects every unordered pair. This is the common case and must
// stay O(1) per SPEC_FULL.md §4.5.
type AllPairs struct{}

func (AllPairs) InRange(int, int) bool { return true }

// NonePairs selects no pair.
type NonePairs struct{}

func (NonePairs) InRange(int, int) bool { return false }

// PairList selects an explicit set of unordered pairs.
type PairList struct {
	pairs map[[2]int]struct{}
}

// NewPairList builds a PairList from a slice of (a, b) pairs. Each pair is
// stored with the smaller ID first so lookup is order-independent.
func NewPairList(pairs [][2]int) PairList {
	set := make(map[[2]int]struct{}, len(pairs))
	for _, p := range pairs {
		set[normalizePair(p[0], p[1])] = struct{}{}
	}
	return PairList{pairs: set}
}

func (pl PairList) InRange(id1, id2 int) bool {
	_, ok := pl.pairs[normalizePair(id1, id2)]
	return ok
}

func normalizePair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// IntraChains selects pairs (id1, id2) iff both lie within [Range1ID,
// Range2ID] and fall in the same contiguous chain of length Interval,
// i.e. id1/Interval == id2/Interval (integer division), matching the
// original DynamO CRRangeIntraChains semantics. Scenario 5 in
// SPEC_FULL.md §8: with Range1ID=0, Range2ID=9, Interval=5, pair (2,4) is
// in range, (4,5) is not, (5,9) is, (3,5) is not.
type IntraChains struct {
	Range1ID, Range2ID int
	Interval           int
}

func (c IntraChains) InRange(id1, id2 int) bool {
	if id1 == id2 {
		return false
	}
	if id1 < c.Range1ID || id1 > c.Range2ID {
		return false
	}
	if id2 < c.Range1ID || id2 > c.Range2ID {
		return false
	}
	chain1 := (id1 - c.Range1ID) / c.Interval
	chain2 := (id2 - c.Range1ID) / c.Interval
	return chain1 == chain2
}
