package state

import (
	"github.com/signalnine/dominion/card"
	"github.com/signalnine/dominion/mutation"
	"github.com/signalnine/dominion/player"
)

// HandSize is the number of cards dealt into a hand at the start of a turn.
const HandSize = 5

// Update is a staging object: it accumulates mutations against a working
// copy of a Board and exposes higher-level, all-or-nothing composite
// operations built from the primitive mutation algebra. A failed composite
// leaves the working board exactly as it was before the call; nothing
// partially applies.
type Update struct {
	board Board
	log   mutation.Log
}

// NewUpdate stages further mutations on top of b.
func NewUpdate(b Board) *Update {
	return &Update{board: b}
}

// Reset rebinds u to stage further mutations on top of b, discarding any
// previously accumulated log while keeping its backing array. This lets a
// caller that creates and discards many short-lived Updates (e.g. a card
// effect resolver's scratch staging object) recycle one through a
// sync.Pool instead of allocating a fresh log slice per call, the same
// allocate-and-reuse discipline as the teacher's GetState/PutState pool.
func (u *Update) Reset(b Board) {
	u.board = b
	u.log = u.log[:0]
}

// Board returns the current working board.
func (u *Update) Board() Board {
	return u.board
}

// Log returns the mutations accumulated so far.
func (u *Update) Log() mutation.Log {
	out := make(mutation.Log, len(u.log))
	copy(out, u.log)
	return out
}

// Commit returns the final board and the full accumulated log.
func (u *Update) Commit() (Board, mutation.Log) {
	return u.board, u.Log()
}

// tryBatch applies ms to the working board as a single all-or-nothing
// step: either every mutation in ms succeeds in sequence and the working
// board and log both advance, or none of them take effect.
func (u *Update) tryBatch(ms mutation.Log) bool {
	next, err := u.board.MutateMulti(ms)
	if err != nil {
		return false
	}
	u.board = next
	u.log = append(u.log, ms...)
	return true
}

// TryAppend attempts a single mutation against the working board.
func (u *Update) TryAppend(m mutation.Mutation) bool {
	return u.tryBatch(mutation.Log{m})
}

// TryBatch attempts ms against the working board as a single
// all-or-nothing step, the same primitive BeginTurn and EndTurn use
// internally. It is exported so other composites built outside this
// package (e.g. effect.Resolve) can stage a multi-mutation card effect
// without letting a late failure leave an earlier step applied.
func (u *Update) TryBatch(ms mutation.Log) bool {
	return u.tryBatch(ms)
}

// TryDrawCard draws one card for p, auto-reshuffling the discard into the
// draw pile first if the draw pile is empty. If both piles are empty there
// is nothing to draw; per design this is a silent no-op (returns true)
// rather than a failure, since running out of cards to draw is an
// ordinary, expected game state rather than an illegal request.
func (u *Update) TryDrawCard(p player.Player) bool {
	ps, ok := u.board.GetPlayer(p)
	if !ok {
		return false
	}
	if len(ps.Draw()) == 0 {
		if len(ps.Discard().CountIter()) == 0 {
			return true
		}
		if !u.TryAppend(mutation.ShuffleDiscard{Player: p}) {
			return false
		}
	}
	return u.TryAppend(mutation.DrawCard{Player: p, Card: card.Unknown()})
}

// BeginTurn starts p's turn: makes p active, enters the action phase, and
// resets the per-turn counters to their starting values. If a prior active
// seat is still mid-turn, its phase is reset to NotTurn first, so exactly
// one seat has phase != NotTurn once a turn is underway.
func (u *Update) BeginTurn(p player.Player) bool {
	var ms mutation.Log
	if prior, ok := u.board.GetPlayer(u.board.ActivePlayer()); ok && prior.Phase() != player.NotTurn {
		ms = append(ms, mutation.SetPhase{Player: u.board.ActivePlayer(), Phase: player.NotTurn})
	}
	ms = append(ms,
		mutation.ChangeTurn{Player: p},
		mutation.SetPhase{Player: p, Phase: player.Action},
		mutation.SetActions{Player: p, Actions: 1},
		mutation.SetBuys{Player: p, Buys: 1},
		mutation.SetGold{Player: p, Gold: 0},
	)
	return u.tryBatch(ms)
}

// EndTurn runs p's cleanup: played cards and the entire hand go to
// discard, counters reset to zero, and the phase drops to NotTurn. It then
// draws a fresh hand of HandSize cards for p's next turn. Every hand entry
// must be known at cleanup time (the real game driver never leaves an
// unknown entry in its own hand; encountering one here means EndTurn was
// called on a board it does not have full information about).
func (u *Update) EndTurn(p player.Player) bool {
	ps, ok := u.board.GetPlayer(p)
	if !ok {
		return false
	}
	ms := mutation.Log{mutation.DiscardPlayed{Player: p}}
	for _, c := range ps.Hand() {
		if !c.Some {
			return false
		}
		ms = append(ms, mutation.DiscardHand{Player: p, Card: c.Card})
	}
	ms = append(ms,
		mutation.SetPhase{Player: p, Phase: player.NotTurn},
		mutation.SetActions{Player: p, Actions: 0},
		mutation.SetBuys{Player: p, Buys: 0},
		mutation.SetGold{Player: p, Gold: 0},
	)
	if !u.tryBatch(ms) {
		return false
	}
	for i := 0; i < HandSize; i++ {
		if !u.TryDrawCard(p) {
			return false
		}
	}
	return true
}
