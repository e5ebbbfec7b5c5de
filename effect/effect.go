// Package effect resolves a played action card into the further
// mutations it produces. It is deliberately layered above the closed
// mutation algebra in package mutation rather than inside it: PlayCard
// stays a pure hand-to-played move, and effect.Resolve only ever emits
// mutations that already exist, the same way the teacher's
// engine.ApplyEffect drives a GameState through a small, closed set of
// effect types instead of growing the move enum per card.
package effect

import (
	"sync"

	"github.com/signalnine/dominion/card"
	"github.com/signalnine/dominion/mutation"
	"github.com/signalnine/dominion/player"
	"github.com/signalnine/dominion/state"
)

// scratchPool recycles the scratch *state.Update every Resolve call stages
// its candidate mutations on, the same GetState/PutState allocate-reuse
// discipline the teacher applies to its own short-lived simulation state,
// repurposed here since state.Board itself is kept for its full
// mutation-log lifetime and so isn't itself a pooling candidate.
var scratchPool = sync.Pool{
	New: func() any { return &state.Update{} },
}

func getScratch(b state.Board) *state.Update {
	u := scratchPool.Get().(*state.Update)
	u.Reset(b)
	return u
}

func putScratch(u *state.Update) {
	scratchPool.Put(u)
}

// Kind distinguishes the action cards whose resolution is more than a
// flat "+N actions/buys/gold/cards" bundle.
type Kind uint8

const (
	// Simple cards resolve entirely from their Plus* fields.
	Simple Kind = iota
	// Cellar discards any number of cards, then draws that many back.
	Cellar
	// Militia gives the active player +2 gold and makes every other
	// seat discard down to three cards in hand.
	Militia
	// Remodel trashes a card from hand and gains one costing up to two
	// more.
	Remodel
	// Mine trashes a treasure from hand and gains a treasure costing up
	// to three more. The gained card goes to discard, like every
	// GainCard; it is not put into hand.
	Mine
	// Workshop gains a card costing up to four, with no cost to hand.
	Workshop
)

// Spec describes one action card's resolution: a flat bonus bundle,
// plus a Kind for the handful of cards that need caller-supplied
// choices.
type Spec struct {
	Kind        Kind
	PlusActions uint32
	PlusBuys    uint32
	PlusGold    uint32
	PlusCards   int
}

// Catalog maps every action card in card.FirstSet to its resolution
// spec. Cards outside this opening set have no entry; Resolve rejects
// them.
var Catalog = map[card.Card]Spec{
	card.Cellar:     {Kind: Cellar, PlusActions: 1},
	card.Market:     {Kind: Simple, PlusActions: 1, PlusBuys: 1, PlusGold: 1, PlusCards: 1},
	card.Militia:    {Kind: Militia, PlusGold: 2},
	card.Mine:       {Kind: Mine},
	card.Moat:       {Kind: Simple, PlusCards: 2},
	card.Remodel:    {Kind: Remodel},
	card.Smithy:     {Kind: Simple, PlusCards: 3},
	card.Village:    {Kind: Simple, PlusActions: 2, PlusCards: 1},
	card.Woodcutter: {Kind: Simple, PlusBuys: 1, PlusGold: 2},
	card.Workshop:   {Kind: Workshop},
}

// Choices carries the caller's decisions for the handful of cards that
// need one: which cards to discard (Cellar), which opponent cards to
// discard down to three (Militia), and which card to trash/gain
// (Remodel, Mine, Workshop). The resolver never guesses a choice; an
// external bot or UI (out of core scope) supplies them, the same
// division of responsibility as the teacher's RNG interface being
// supplied to ApplyEffect rather than owned by it.
type Choices struct {
	CellarDiscards  []card.Card
	MilitiaDiscards map[player.Player][]card.Card
	Trash           card.Card
	Gain            card.Card
}

// Resolve plays c from p's hand and folds its full effect — the base
// PlayCard mutation, any flat bonuses, and any Kind-specific follow-up —
// onto u as a single all-or-nothing step. It returns false, leaving u
// untouched, if c has no catalog entry, p doesn't hold c, or any
// required choice is invalid.
//
// The resolution is staged on a scratch Update seeded from u's current
// board first; only once every step of it has succeeded is the full
// sequence replayed onto u via TryBatch in one shot. Since the engine is
// single-threaded and synchronous (section 5), replaying the same
// mutations against the same starting board is deterministic, so this
// gives effect.Resolve the same all-or-nothing guarantee as BeginTurn
// and EndTurn without needing a second mutation algebra just for
// effects.
//
// Remodel and Mine call for trashing a card, but the closed mutation
// algebra has no Trash variant (trash is a fully-known, append-only
// public pile with nothing in section 3's enumeration that populates
// it) — per section 9's resolution, effect.Resolve may only emit
// mutations that already exist, so the "trashed" card is routed through
// DiscardHand instead of vanishing into an unreachable pile. This keeps
// the conservation invariant in section 8 intact (no card count is ever
// lost) at the cost of the trashed card reappearing in discard rather
// than in Board.Trash.
func Resolve(u *state.Update, p player.Player, c card.Card, choices Choices) bool {
	spec, ok := Catalog[c]
	if !ok {
		return false
	}

	scratch := getScratch(u.Board())
	defer putScratch(scratch)
	if !scratch.TryAppend(mutation.PlayCard{Player: p, Card: c}) {
		return false
	}

	ps, ok := scratch.Board().GetPlayer(p)
	if !ok {
		return false
	}
	if spec.PlusActions > 0 && !scratch.TryAppend(mutation.SetActions{Player: p, Actions: ps.Actions() + spec.PlusActions}) {
		return false
	}
	if spec.PlusBuys > 0 {
		ps, _ = scratch.Board().GetPlayer(p)
		if !scratch.TryAppend(mutation.SetBuys{Player: p, Buys: ps.Buys() + spec.PlusBuys}) {
			return false
		}
	}
	if spec.PlusGold > 0 {
		ps, _ = scratch.Board().GetPlayer(p)
		if !scratch.TryAppend(mutation.SetGold{Player: p, Gold: ps.Gold() + spec.PlusGold}) {
			return false
		}
	}
	for i := 0; i < spec.PlusCards; i++ {
		if !scratch.TryDrawCard(p) {
			return false
		}
	}

	ok = true
	switch spec.Kind {
	case Simple:
	case Cellar:
		ok = resolveCellar(scratch, p, choices.CellarDiscards)
	case Militia:
		ok = resolveMilitia(scratch, p, choices.MilitiaDiscards)
	case Remodel:
		ok = resolveTrashAndGain(scratch, p, choices.Trash, choices.Gain, 2)
	case Mine:
		treasure := func(c card.Card) bool { return c == card.Copper || c == card.Silver || c == card.Gold }
		ok = treasure(choices.Trash) && treasure(choices.Gain) &&
			resolveTrashAndGain(scratch, p, choices.Trash, choices.Gain, 3)
	case Workshop:
		ok = resolveGainUpTo(scratch, p, choices.Gain, 4)
	default:
		ok = false
	}
	if !ok {
		return false
	}

	return u.TryBatch(scratch.Log())
}

func resolveCellar(u *state.Update, p player.Player, discards []card.Card) bool {
	for _, c := range discards {
		if !u.TryAppend(mutation.DiscardHand{Player: p, Card: c}) {
			return false
		}
	}
	for i := 0; i < len(discards); i++ {
		if !u.TryDrawCard(p) {
			return false
		}
	}
	return true
}

func resolveMilitia(u *state.Update, active player.Player, discards map[player.Player][]card.Card) bool {
	for seat := player.P0; int(seat) < u.Board().NumPlayers(); seat++ {
		if seat == active {
			continue
		}
		ps, _ := u.Board().GetPlayer(seat)
		toDiscard := len(ps.Hand()) - 3
		want := discards[seat]
		if toDiscard <= 0 {
			continue
		}
		if len(want) != toDiscard {
			return false
		}
		for _, c := range want {
			if !u.TryAppend(mutation.DiscardHand{Player: seat, Card: c}) {
				return false
			}
		}
	}
	return true
}

func resolveTrashAndGain(u *state.Update, p player.Player, trash, gain card.Card, maxCostAbove uint32) bool {
	if gain.Cost() > trash.Cost()+maxCostAbove {
		return false
	}
	if !u.TryAppend(mutation.DiscardHand{Player: p, Card: trash}) {
		return false
	}
	return u.TryAppend(mutation.GainCard{Player: p, Card: gain})
}

func resolveGainUpTo(u *state.Update, p player.Player, gain card.Card, maxCost uint32) bool {
	if gain.Cost() > maxCost {
		return false
	}
	return u.TryAppend(mutation.GainCard{Player: p, Card: gain})
}
