package card

// Set is an unordered mapping from card identity to a non-negative count.
// It backs supply, discard, and played. All
// operations are total except Take, which fails on insufficient count.
type Set struct {
	counts map[Card]uint32
}

// NewSet returns an empty card multiset.
func NewSet() Set {
	return Set{counts: make(map[Card]uint32)}
}

// Insert adds k copies of card to the set.
func (s *Set) Insert(c Card, k uint32) {
	if s.counts == nil {
		s.counts = make(map[Card]uint32)
	}
	s.counts[c] += k
}

// Take removes k copies of card if at least k are present, returning
// whether the removal succeeded. This is the only operation that can fail.
func (s *Set) Take(c Card, k uint32) bool {
	if s.counts[c] < k {
		return false
	}
	s.counts[c] -= k
	if s.counts[c] == 0 {
		delete(s.counts, c)
	}
	return true
}

// Count returns the number of copies of card currently in the set.
func (s Set) Count(c Card) uint32 {
	return s.counts[c]
}

// Contains reports whether there are non-zero copies of card in the set.
func (s Set) Contains(c Card) bool {
	return s.Count(c) > 0
}

// Drain empties the set and returns its prior contents, replicated by count.
// Order is stable within this single call but otherwise implementation
// defined.
func (s *Set) Drain() []Card {
	out := s.Iterate()
	s.counts = make(map[Card]uint32)
	return out
}

// Iterate yields each card replicated by its count, without modifying the
// set.
func (s Set) Iterate() []Card {
	out := make([]Card, 0, len(s.counts))
	for c, n := range s.counts {
		for i := uint32(0); i < n; i++ {
			out = append(out, c)
		}
	}
	return out
}

// CountIter returns the set's (card, count) pairs, one per distinct card
// with a non-zero count.
func (s Set) CountIter() []CardCount {
	out := make([]CardCount, 0, len(s.counts))
	for c, n := range s.counts {
		out = append(out, CardCount{Card: c, Count: n})
	}
	return out
}

// CardCount pairs a card identity with a count, used by supply iteration.
type CardCount struct {
	Card  Card
	Count uint32
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	out := make(map[Card]uint32, len(s.counts))
	for c, n := range s.counts {
		out[c] = n
	}
	return Set{counts: out}
}

// Equal reports multiset equality: the same cards with the same counts,
// irrespective of insertion order.
func (s Set) Equal(o Set) bool {
	if len(s.counts) != len(o.counts) {
		return false
	}
	for c, n := range s.counts {
		if o.counts[c] != n {
			return false
		}
	}
	return true
}
