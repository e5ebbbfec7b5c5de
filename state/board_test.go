package state

import (
	"testing"

	"github.com/signalnine/dominion/boardrand"
	"github.com/signalnine/dominion/card"
	"github.com/signalnine/dominion/mutation"
	"github.com/signalnine/dominion/player"
)

func mustMutate(t *testing.T, b Board, m mutation.Mutation) Board {
	t.Helper()
	next, err := b.Mutate(m)
	if err != nil {
		t.Fatalf("Mutate(%v) failed: %v", m, err)
	}
	return next
}

func TestSetPlayersRejectsSecondCall(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	if _, err := b.Mutate(mutation.SetPlayers{Count: 3}); err == nil {
		t.Fatal("expected second SetPlayers to be rejected")
	}
}

func TestSetPlayersRejectsBadShape(t *testing.T) {
	b := New(nil)
	if _, err := b.Mutate(mutation.SetPlayers{Count: 1}); err == nil {
		t.Fatal("expected SetPlayers(1) to be rejected as a shape failure")
	}
	if _, err := b.Mutate(mutation.SetPlayers{Count: 5}); err == nil {
		t.Fatal("expected SetPlayers(5) to be rejected as a shape failure")
	}
}

func TestAddStackRejectsSecondCall(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 60})
	if _, err := b.Mutate(mutation.AddStack{Card: card.Copper, Count: 60}); err == nil {
		t.Fatal("expected second AddStack for the same pile to be rejected")
	}
}

func TestGainCardRejectsEmptyOrAbsentPile(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	if _, err := b.Mutate(mutation.GainCard{Player: player.P0, Card: card.Gold}); err == nil {
		t.Fatal("expected GainCard against an absent pile to be rejected")
	}
	b = mustMutate(t, b, mutation.AddStack{Card: card.Gold, Count: 1})
	b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Gold})
	if _, err := b.Mutate(mutation.GainCard{Player: player.P0, Card: card.Gold}); err == nil {
		t.Fatal("expected GainCard against a depleted pile to be rejected")
	}
}

func TestGainCardRejectsUnknownSeat(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.AddStack{Card: card.Gold, Count: 1})
	if _, err := b.Mutate(mutation.GainCard{Player: player.P0, Card: card.Gold}); err == nil {
		t.Fatal("expected GainCard with no seats defined to be rejected")
	}
}

func TestShuffleDiscardRejectsWhileDrawNonEmpty(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 10})
	b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Copper})
	b = mustMutate(t, b, mutation.ShuffleDiscard{Player: player.P0})
	if _, err := b.Mutate(mutation.ShuffleDiscard{Player: player.P0}); err == nil {
		t.Fatal("expected ShuffleDiscard to be rejected while draw is non-empty")
	}
}

func TestShuffleDiscardPreservesCardCount(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 10})
	for i := 0; i < 5; i++ {
		b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Copper})
	}
	b = mustMutate(t, b, mutation.ShuffleDiscard{Player: player.P0})
	ps, _ := b.GetPlayer(player.P0)
	if len(ps.Draw()) != 5 {
		t.Fatalf("expected 5 cards in draw after shuffle, got %d", len(ps.Draw()))
	}
	if ps.Discard().Count(card.Copper) != 0 {
		t.Fatalf("expected discard to be empty after shuffle, got %d", ps.Discard().Count(card.Copper))
	}
}

func TestShuffleWithoutRNGProducesUnknownEntries(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 10})
	b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Copper})
	b = mustMutate(t, b, mutation.ShuffleDiscard{Player: player.P0})
	ps, _ := b.GetPlayer(player.P0)
	if ps.Draw()[0].Some {
		t.Fatal("expected an unknown draw entry when no RNG is present")
	}
}

func TestShuffleDeterministicForSameSeed(t *testing.T) {
	seed := boardrand.Seed{1, 2, 3}
	build := func() Board {
		b := New(&seed)
		b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
		b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 10})
		for i := 0; i < 6; i++ {
			b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Copper})
		}
		return mustMutate(t, b, mutation.ShuffleDiscard{Player: player.P0})
	}
	a := build()
	b := build()
	psA, _ := a.GetPlayer(player.P0)
	psB, _ := b.GetPlayer(player.P0)
	drawA, drawB := psA.Draw(), psB.Draw()
	for i := range drawA {
		if drawA[i] != drawB[i] {
			t.Fatalf("expected identical shuffle for identical seeds, diverged at index %d", i)
		}
	}
}

func TestDrawCardRejectsConflictingClaim(t *testing.T) {
	seed := boardrand.Seed{9, 9, 9}
	b := New(&seed)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 1})
	b = mustMutate(t, b, mutation.AddStack{Card: card.Silver, Count: 1})
	b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Copper})
	b = mustMutate(t, b, mutation.ShuffleDiscard{Player: player.P0})
	if _, err := b.Mutate(mutation.DrawCard{Player: player.P0, Card: card.Known(card.Silver)}); err == nil {
		t.Fatal("expected DrawCard claiming the wrong identity to be rejected")
	}
}

func TestDrawCardAcceptsUnknownClaimOverKnownTop(t *testing.T) {
	seed := boardrand.Seed{9, 9, 9}
	b := New(&seed)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 1})
	b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Copper})
	b = mustMutate(t, b, mutation.ShuffleDiscard{Player: player.P0})
	b = mustMutate(t, b, mutation.DrawCard{Player: player.P0, Card: card.Unknown()})
	ps, _ := b.GetPlayer(player.P0)
	if !ps.Hand()[0].Some || ps.Hand()[0].Card != card.Copper {
		t.Fatalf("expected the known identity to survive an unknown claim, got %+v", ps.Hand()[0])
	}
}

func TestDiscardHandAcceptsUnknownEntryFallback(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 1})
	b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Copper})
	b = mustMutate(t, b, mutation.ShuffleDiscard{Player: player.P0})
	b = mustMutate(t, b, mutation.DrawCard{Player: player.P0, Card: card.Unknown()})
	b = mustMutate(t, b, mutation.DiscardHand{Player: player.P0, Card: card.Copper})
	ps, _ := b.GetPlayer(player.P0)
	if len(ps.Hand()) != 0 {
		t.Fatalf("expected hand to be empty after discard, got %d entries", len(ps.Hand()))
	}
	if ps.Discard().Count(card.Copper) != 1 {
		t.Fatal("expected the discarded card to land in discard by its claimed identity")
	}
}

func TestTwoPlayerOpeningCounts(t *testing.T) {
	b := New(nil)
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	for _, c := range card.BaseTreasure {
		b = mustMutate(t, b, mutation.AddStack{Card: c, Count: c.StartingCount(2)})
	}
	for _, c := range card.BaseVictory {
		b = mustMutate(t, b, mutation.AddStack{Card: c, Count: c.StartingCount(2)})
	}
	b = mustMutate(t, b, mutation.AddStack{Card: card.Curse, Count: card.Curse.StartingCount(2)})

	n, ok := b.CountSupply(card.Estate)
	if !ok || n != 8+2*3 {
		t.Fatalf("expected 14 Estates in a two-player game, got %d (present=%v)", n, ok)
	}
	n, ok = b.CountSupply(card.Curse)
	if !ok || n != 10 {
		t.Fatalf("expected 10 Curses in a two-player game, got %d (present=%v)", n, ok)
	}
}

func TestCountSupplyDistinguishesAbsentFromDepleted(t *testing.T) {
	b := New(nil)
	if _, ok := b.CountSupply(card.Copper); ok {
		t.Fatal("expected an unestablished pile to report absent")
	}
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	b = mustMutate(t, b, mutation.AddStack{Card: card.Copper, Count: 1})
	b = mustMutate(t, b, mutation.GainCard{Player: player.P0, Card: card.Copper})
	n, ok := b.CountSupply(card.Copper)
	if !ok || n != 0 {
		t.Fatalf("expected a depleted pile to report present with count 0, got %d (present=%v)", n, ok)
	}
}

func TestEqualIgnoresRNGState(t *testing.T) {
	seedA := boardrand.Seed{1}
	seedB := boardrand.Seed{2}
	a := New(&seedA)
	b := New(&seedB)
	a = mustMutate(t, a, mutation.SetPlayers{Count: 2})
	b = mustMutate(t, b, mutation.SetPlayers{Count: 2})
	if !a.Equal(b) {
		t.Fatal("expected boards differing only by RNG seed to compare equal")
	}
}

func TestReplayLawFromMutationsMatchesIncrementalApplication(t *testing.T) {
	b := New(nil)
	var log mutation.Log
	steps := []mutation.Mutation{
		mutation.SetPlayers{Count: 2},
		mutation.AddStack{Card: card.Copper, Count: 10},
		mutation.GainCard{Player: player.P0, Card: card.Copper},
	}
	for _, m := range steps {
		b = mustMutate(t, b, m)
		log = append(log, m)
	}
	replayed, err := FromMutations(log)
	if err != nil {
		t.Fatalf("FromMutations failed: %v", err)
	}
	if !b.Equal(replayed) {
		t.Fatal("expected replaying the log from scratch to match incremental application")
	}
}
