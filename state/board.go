package state

import (
	"fmt"
	"slices"

	"github.com/signalnine/dominion/boardrand"
	"github.com/signalnine/dominion/card"
	"github.com/signalnine/dominion/mutation"
	"github.com/signalnine/dominion/player"
)

// Board is the top-level container for supply, players, trash, and the
// active seat. It is a value type: every mutation either returns a new
// Board or fails and returns the receiver unchanged — no partial mutation
// is ever observable.
type Board struct {
	supply  card.Set
	stacks  map[card.Card]bool
	trash   []card.Card
	players []PlayerState
	rand    *boardrand.Source
	turn    player.Player
}

// New creates an empty board, optionally seeded with a deterministic RNG.
// A nil seed produces a replayer-mode board: shuffles anonymize to unknown
// entries rather than producing a permutation.
func New(seed *boardrand.Seed) Board {
	b := Board{
		supply: card.NewSet(),
		stacks: make(map[card.Card]bool),
		turn:   player.P0,
	}
	if seed != nil {
		b.rand = boardrand.New(*seed)
	}
	return b
}

func (b Board) clone() Board {
	nb := b
	nb.supply = b.supply.Clone()
	nb.stacks = make(map[card.Card]bool, len(b.stacks))
	for c := range b.stacks {
		nb.stacks[c] = true
	}
	nb.trash = append([]card.Card(nil), b.trash...)
	nb.players = make([]PlayerState, len(b.players))
	for i, p := range b.players {
		nb.players[i] = p.clone()
	}
	if b.rand != nil {
		nb.rand = b.rand.Clone()
	}
	return nb
}

func (b *Board) seatExists(p player.Player) bool {
	return int(p) < len(b.players)
}

// Mutate applies m to a clone of b, returning the new board on success. On
// rejection it returns b unchanged alongside the reason.
func (b Board) Mutate(m mutation.Mutation) (Board, error) {
	next := b.clone()
	if err := next.apply(m); err != nil {
		return b, err
	}
	return next, nil
}

// MutateMulti folds mutations left to right, short-circuiting to the first
// rejection. The returned board reflects the full list or nothing.
func (b Board) MutateMulti(log mutation.Log) (Board, error) {
	cur := b
	for _, m := range log {
		next, err := cur.Mutate(m)
		if err != nil {
			return b, err
		}
		cur = next
	}
	return cur, nil
}

// FromMutations reconstructs a board by replaying log against an empty,
// RNG-less board.
func FromMutations(log mutation.Log) (Board, error) {
	return New(nil).MutateMulti(log)
}

func (b *Board) apply(m mutation.Mutation) error {
	switch mm := m.(type) {
	case mutation.SetPlayers:
		return b.setPlayers(mm)
	case mutation.AddStack:
		return b.addStack(mm)
	case mutation.GainCard:
		return b.gainCard(mm)
	case mutation.ShuffleDiscard:
		return b.shuffleDiscard(mm)
	case mutation.DrawCard:
		return b.drawCard(mm)
	case mutation.RevealTopDeck:
		return b.revealTopDeck(mm)
	case mutation.RevealHandCards:
		return b.revealHandCards(mm)
	case mutation.PlayCard:
		return b.playCard(mm)
	case mutation.DiscardHand:
		return b.discardHand(mm)
	case mutation.DiscardPlayed:
		return b.discardPlayed(mm)
	case mutation.ChangeTurn:
		return b.changeTurn(mm)
	case mutation.SetPhase:
		return b.setPhase(mm)
	case mutation.SetBuys:
		return b.setBuys(mm)
	case mutation.SetActions:
		return b.setActions(mm)
	case mutation.SetGold:
		return b.setGold(mm)
	default:
		panic(fmt.Sprintf("state: unhandled mutation kind %v", m.Kind()))
	}
}

func (b *Board) setPlayers(m mutation.SetPlayers) error {
	if len(b.players) != 0 {
		return mutation.Reject(m, mutation.ReasonPrecondition, "players already set")
	}
	if m.Count < 2 || m.Count > 4 {
		return mutation.Reject(m, mutation.ReasonShape, "player count must be 2, 3, or 4")
	}
	b.players = make([]PlayerState, m.Count)
	for i := range b.players {
		b.players[i] = newPlayerState()
	}
	return nil
}

func (b *Board) addStack(m mutation.AddStack) error {
	if b.stacks[m.Card] {
		return mutation.Reject(m, mutation.ReasonPrecondition, "stack already present")
	}
	b.stacks[m.Card] = true
	b.supply.Insert(m.Card, m.Count)
	return nil
}

func (b *Board) gainCard(m mutation.GainCard) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	if !b.supply.Take(m.Card, 1) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "supply pile absent or empty")
	}
	b.players[m.Player].discard.Insert(m.Card, 1)
	return nil
}

func (b *Board) shuffleDiscard(m mutation.ShuffleDiscard) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	p := &b.players[m.Player]
	if len(p.draw) != 0 {
		return mutation.Reject(m, mutation.ReasonPrecondition, "draw pile non-empty")
	}
	drained := p.discard.Drain()
	if b.rand != nil {
		// Drain follows map iteration order; sort first so the permutation
		// depends only on the RNG state.
		slices.Sort(drained)
		b.rand.Rand.Shuffle(len(drained), func(i, j int) {
			drained[i], drained[j] = drained[j], drained[i]
		})
		p.draw = make([]card.Maybe, len(drained))
		for i, c := range drained {
			p.draw[i] = card.Known(c)
		}
	} else {
		p.draw = make([]card.Maybe, len(drained))
		for i := range drained {
			p.draw[i] = card.Unknown()
		}
	}
	return nil
}

func (b *Board) drawCard(m mutation.DrawCard) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	p := &b.players[m.Player]
	if len(p.draw) == 0 {
		return mutation.Reject(m, mutation.ReasonPrecondition, "draw pile empty")
	}
	top := p.draw[len(p.draw)-1]
	richer, ok := card.Richer(top, m.Card)
	if !ok {
		return mutation.Reject(m, mutation.ReasonInformationViolation, "drawn card conflicts with known top of deck")
	}
	p.draw = p.draw[:len(p.draw)-1]
	p.hand = append(p.hand, richer)
	return nil
}

func (b *Board) revealTopDeck(m mutation.RevealTopDeck) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	p := &b.players[m.Player]
	if len(p.draw) == 0 {
		return mutation.Reject(m, mutation.ReasonPrecondition, "draw pile empty")
	}
	top := p.draw[len(p.draw)-1]
	richer, ok := card.Richer(top, m.Card)
	if !ok {
		return mutation.Reject(m, mutation.ReasonInformationViolation, "revealed card conflicts with known top of deck")
	}
	p.draw[len(p.draw)-1] = richer
	return nil
}

func (b *Board) revealHandCards(m mutation.RevealHandCards) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	if m.Cards == nil {
		return nil
	}
	p := &b.players[m.Player]
	known := make(map[card.Card]uint32)
	for _, c := range p.hand {
		if c.Some {
			known[c.Card]++
		}
	}
	for _, cc := range m.Cards.CountIter() {
		if known[cc.Card] < cc.Count {
			return mutation.Reject(m, mutation.ReasonInformationViolation, "revealed more copies than the hand is known to hold")
		}
	}
	return nil
}

func (b *Board) playCard(m mutation.PlayCard) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	p := &b.players[m.Player]
	idx := indexOfKnown(p.hand, m.Card)
	if idx < 0 {
		return mutation.Reject(m, mutation.ReasonPrecondition, "card not present and known in hand")
	}
	p.hand = removeAt(p.hand, idx)
	p.played.Insert(m.Card, 1)
	return nil
}

func (b *Board) discardHand(m mutation.DiscardHand) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	p := &b.players[m.Player]
	idx := indexOfKnown(p.hand, m.Card)
	if idx < 0 {
		idx = indexOfUnknown(p.hand)
	}
	if idx < 0 {
		return mutation.Reject(m, mutation.ReasonPrecondition, "card not present in hand")
	}
	p.hand = removeAt(p.hand, idx)
	p.discard.Insert(m.Card, 1)
	return nil
}

func (b *Board) discardPlayed(m mutation.DiscardPlayed) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	p := &b.players[m.Player]
	for _, c := range p.played.Drain() {
		p.discard.Insert(c, 1)
	}
	return nil
}

func (b *Board) changeTurn(m mutation.ChangeTurn) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	b.turn = m.Player
	return nil
}

func (b *Board) setPhase(m mutation.SetPhase) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	b.players[m.Player].phase = m.Phase
	return nil
}

func (b *Board) setBuys(m mutation.SetBuys) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	b.players[m.Player].buys = m.Buys
	return nil
}

func (b *Board) setActions(m mutation.SetActions) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	b.players[m.Player].actions = m.Actions
	return nil
}

func (b *Board) setGold(m mutation.SetGold) error {
	if !b.seatExists(m.Player) {
		return mutation.Reject(m, mutation.ReasonPrecondition, "seat not defined")
	}
	b.players[m.Player].gold = m.Gold
	return nil
}

func indexOfKnown(hand []card.Maybe, c card.Card) int {
	for i, h := range hand {
		if h.Some && h.Card == c {
			return i
		}
	}
	return -1
}

func indexOfUnknown(hand []card.Maybe) int {
	for i, h := range hand {
		if !h.Some {
			return i
		}
	}
	return -1
}

func removeAt(hand []card.Maybe, idx int) []card.Maybe {
	out := make([]card.Maybe, 0, len(hand)-1)
	out = append(out, hand[:idx]...)
	out = append(out, hand[idx+1:]...)
	return out
}

// SupplyStacks iterates every pile that has ever been created, along with
// its current remaining count (which may be zero for a depleted pile).
func (b Board) SupplyStacks() []card.CardCount {
	out := make([]card.CardCount, 0, len(b.stacks))
	for c := range b.stacks {
		out = append(out, card.CardCount{Card: c, Count: b.supply.Count(c)})
	}
	return out
}

// CountSupply returns the remaining count for card, or false if the pile
// was never created (as distinct from an existing, depleted pile).
func (b Board) CountSupply(c card.Card) (uint32, bool) {
	if !b.stacks[c] {
		return 0, false
	}
	return b.supply.Count(c), true
}

// ActivePlayer returns the currently active seat.
func (b Board) ActivePlayer() player.Player {
	return b.turn
}

// NumPlayers returns the number of seats (0, 2, 3, or 4).
func (b Board) NumPlayers() int {
	return len(b.players)
}

// GetPlayer returns p's state, or false if p is not a seat.
func (b Board) GetPlayer(p player.Player) (PlayerState, bool) {
	if !b.seatExists(p) {
		return PlayerState{}, false
	}
	return b.players[p], true
}

// Trash returns the public, fully-known trash pile in play order.
func (b Board) Trash() []card.Card {
	out := make([]card.Card, len(b.trash))
	copy(out, b.trash)
	return out
}

// Equal compares two boards by supply, stacks, trash, and player states,
// ignoring the RNG (two games differing only in RNG history compare
// equal if their visible state agrees).
func (b Board) Equal(o Board) bool {
	if !b.supply.Equal(o.supply) {
		return false
	}
	if len(b.stacks) != len(o.stacks) {
		return false
	}
	for c := range b.stacks {
		if !o.stacks[c] {
			return false
		}
	}
	if len(b.trash) != len(o.trash) {
		return false
	}
	for i := range b.trash {
		if b.trash[i] != o.trash[i] {
			return false
		}
	}
	if len(b.players) != len(o.players) {
		return false
	}
	for i := range b.players {
		if !b.players[i].equal(o.players[i]) {
			return false
		}
	}
	return true
}
