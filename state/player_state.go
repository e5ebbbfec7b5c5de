// Package state implements the board state the mutation algebra operates
// on: the per-seat PlayerState, the top-level Board, and the Update
// staging object that composes mutations into legal multi-step
// transitions.
package state

import (
	"github.com/signalnine/dominion/card"
	"github.com/signalnine/dominion/player"
)

// PlayerState is the mutable per-seat record: hand and draw are ordered
// sequences (draw's top is its last element); played and discard are
// multisets with no observable order.
type PlayerState struct {
	hand    []card.Maybe
	played  card.Set
	discard card.Set
	draw    []card.Maybe
	actions uint32
	buys    uint32
	gold    uint32
	phase   player.Phase
}

func newPlayerState() PlayerState {
	return PlayerState{
		hand:    nil,
		played:  card.NewSet(),
		discard: card.NewSet(),
		draw:    nil,
		actions: 0,
		buys:    0,
		gold:    0,
		phase:   player.NotTurn,
	}
}

// Hand returns a copy of the player's hand, in no semantically meaningful
// order (positional reads on the result carry no information about how
// the engine stores the hand; the sequence shape only exists to
// accommodate unknown entries from a partial-knowledge replay).
func (p PlayerState) Hand() []card.Maybe {
	out := make([]card.Maybe, len(p.hand))
	copy(out, p.hand)
	return out
}

// Played returns the multiset of cards played this turn.
func (p PlayerState) Played() card.Set {
	return p.played.Clone()
}

// Discard returns the discard multiset.
func (p PlayerState) Discard() card.Set {
	return p.discard.Clone()
}

// Draw returns a copy of the ordered draw pile; the last element is the
// top of the deck.
func (p PlayerState) Draw() []card.Maybe {
	out := make([]card.Maybe, len(p.draw))
	copy(out, p.draw)
	return out
}

// Actions, Buys, Gold and Phase are the per-seat counters and state
// machine position.
func (p PlayerState) Actions() uint32     { return p.actions }
func (p PlayerState) Buys() uint32        { return p.buys }
func (p PlayerState) Gold() uint32        { return p.gold }
func (p PlayerState) Phase() player.Phase { return p.phase }

func (p PlayerState) clone() PlayerState {
	np := p
	np.hand = append([]card.Maybe(nil), p.hand...)
	np.draw = append([]card.Maybe(nil), p.draw...)
	np.played = p.played.Clone()
	np.discard = p.discard.Clone()
	return np
}

func (p PlayerState) equal(o PlayerState) bool {
	if len(p.hand) != len(o.hand) || len(p.draw) != len(o.draw) {
		return false
	}
	for i := range p.hand {
		if p.hand[i] != o.hand[i] {
			return false
		}
	}
	for i := range p.draw {
		if p.draw[i] != o.draw[i] {
			return false
		}
	}
	return p.played.Equal(o.played) && p.discard.Equal(o.discard) &&
		p.actions == o.actions && p.buys == o.buys && p.gold == o.gold && p.phase == o.phase
}
