package card

import "testing"

func TestStartingCountTwoPlayers(t *testing.T) {
	cases := map[Card]uint32{
		Copper:   60,
		Silver:   40,
		Gold:     30,
		Estate:   14, // 2*3 + 8
		Duchy:    8,
		Province: 8,
		Curse:    10,
		Cellar:   10,
	}
	for c, want := range cases {
		if got := c.StartingCount(2); got != want {
			t.Errorf("%s.StartingCount(2) = %d, want %d", c, got, want)
		}
	}
}

func TestStartingCountThreeAndFourPlayers(t *testing.T) {
	if got := Estate.StartingCount(3); got != 21 {
		t.Errorf("Estate.StartingCount(3) = %d, want 21", got)
	}
	if got := Curse.StartingCount(3); got != 20 {
		t.Errorf("Curse.StartingCount(3) = %d, want 20", got)
	}
	if got := Estate.StartingCount(4); got != 24 {
		t.Errorf("Estate.StartingCount(4) = %d, want 24", got)
	}
	if got := Curse.StartingCount(4); got != 30 {
		t.Errorf("Curse.StartingCount(4) = %d, want 30", got)
	}
}

func TestSetTakeFailsOnInsufficientCount(t *testing.T) {
	s := NewSet()
	s.Insert(Copper, 2)
	if s.Take(Copper, 3) {
		t.Error("Take should fail when count is insufficient")
	}
	if !s.Take(Copper, 2) {
		t.Error("Take should succeed for exact count")
	}
	if s.Contains(Copper) {
		t.Error("set should not contain Copper after draining its count")
	}
}

func TestSetEqualityIgnoresInsertionOrder(t *testing.T) {
	a := NewSet()
	a.Insert(Copper, 3)
	a.Insert(Silver, 1)

	b := NewSet()
	b.Insert(Silver, 1)
	b.Insert(Copper, 3)

	if !a.Equal(b) {
		t.Error("sets with the same contents in different insertion order should be equal")
	}
}

func TestSetDrainPreservesCounts(t *testing.T) {
	s := NewSet()
	s.Insert(Copper, 9)
	s.Insert(Silver, 3)
	s.Insert(Gold, 42)

	drained := s.Drain()
	if len(drained) != 54 {
		t.Fatalf("expected 54 drained cards, got %d", len(drained))
	}

	counts := map[Card]int{}
	for _, c := range drained {
		counts[c]++
	}
	if counts[Copper] != 9 || counts[Silver] != 3 || counts[Gold] != 42 {
		t.Errorf("unexpected drained counts: %v", counts)
	}
	if s.Contains(Copper) || s.Contains(Silver) || s.Contains(Gold) {
		t.Error("set should be empty after Drain")
	}
}

func TestMaybeRicher(t *testing.T) {
	if r, ok := Richer(Known(Copper), Unknown()); !ok || r != Known(Copper) {
		t.Errorf("Richer(known, unknown) = %v, %v", r, ok)
	}
	if r, ok := Richer(Unknown(), Known(Copper)); !ok || r != Known(Copper) {
		t.Errorf("Richer(unknown, known) = %v, %v", r, ok)
	}
	if r, ok := Richer(Known(Copper), Known(Copper)); !ok || r != Known(Copper) {
		t.Errorf("Richer(known, same known) = %v, %v", r, ok)
	}
	if _, ok := Richer(Known(Copper), Known(Gold)); ok {
		t.Error("Richer should reject conflicting known values")
	}
}
