// Package game wraps a state.Board in the high-level action interface:
// construction of a fresh game, the two-action turn/phase state machine
// (EndAction, EndBuy), and replay from a prior board or mutation log. It
// is the facade external callers (a CLI, a bot, a replayer) drive instead
// of poking the mutation algebra directly, the same role the teacher's
// NewWarGame/PlayBattle/IsGameOver/GetWinner quartet played for War,
// adapted here to a multi-phase, multi-step game.
package game

import (
	"crypto/rand"
	"fmt"

	"github.com/signalnine/dominion/boardrand"
	"github.com/signalnine/dominion/card"
	"github.com/signalnine/dominion/mutation"
	"github.com/signalnine/dominion/player"
	"github.com/signalnine/dominion/state"
)

// Rules describes a game's starting configuration: the seat count and the
// ten action-card piles to use beyond the three base treasures, the three
// base victory cards, and curses.
type Rules struct {
	PlayerCount int
	OpeningSet  [10]card.Card
}

// FirstGameRules returns the canonical opening configuration: the ten-card
// first-game set from card.FirstSet.
func FirstGameRules(playerCount int) Rules {
	return Rules{PlayerCount: playerCount, OpeningSet: card.FirstSet}
}

// Phase is the high-level phase of the active seat, as returned by
// Game.State: the action and buy sub-phases of a turn. A seat never sits
// in NotTurn while it holds the turn, so that phase has no Phase value
// here; see player.Phase for the full per-seat state machine.
type Phase uint8

const (
	ActionPhase Phase = iota
	BuyPhase
)

func (p Phase) String() string {
	if p == ActionPhase {
		return "ActionPhase"
	}
	return "BuyPhase"
}

// Action is one of the two high-level transitions a caller may request of
// the active seat.
type Action uint8

const (
	EndAction Action = iota
	EndBuy
)

// Game is the facade around a board: it owns the live state.Board and
// exposes Act/ApplyMutations as the only ways external callers advance
// it. Every successful call returns the mutation list that produced the
// new state, suitable for append to a persisted log.
type Game struct {
	board state.Board
}

// New builds a fresh game for rules, seeding its RNG from the operating
// system's randomness source. Returns the constructed game and the
// mutation log that produced its opening state.
func New(rules Rules) (*Game, mutation.Log, error) {
	var seed boardrand.Seed
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, nil, fmt.Errorf("game: reading random seed: %w", err)
	}
	g, log := NewFromSeed(rules, seed)
	return g, log, nil
}

// NewFromSeed builds a fresh game for rules using an explicit 32-byte
// seed. Two calls with equal rules and seeds produce bit-identical
// boards (state.Board.Equal), per the spec's determinism law.
func NewFromSeed(rules Rules, seed boardrand.Seed) (*Game, mutation.Log) {
	u := state.NewUpdate(state.New(&seed))
	n := rules.PlayerCount

	u.TryAppend(mutation.SetPlayers{Count: n})

	for _, c := range card.BaseTreasure {
		u.TryAppend(mutation.AddStack{Card: c, Count: c.StartingCount(n)})
	}
	for _, c := range card.BaseVictory {
		u.TryAppend(mutation.AddStack{Card: c, Count: c.StartingCount(n)})
	}
	for _, c := range rules.OpeningSet {
		u.TryAppend(mutation.AddStack{Card: c, Count: c.StartingCount(n)})
	}
	u.TryAppend(mutation.AddStack{Card: card.Curse, Count: card.Curse.StartingCount(n)})

	for i := 0; i < n; i++ {
		p := player.Player(i)
		for j := 0; j < 7; j++ {
			u.TryAppend(mutation.GainCard{Player: p, Card: card.Copper})
		}
		for j := 0; j < 3; j++ {
			u.TryAppend(mutation.GainCard{Player: p, Card: card.Estate})
		}
		u.TryAppend(mutation.ShuffleDiscard{Player: p})
		for j := 0; j < state.HandSize; j++ {
			u.TryDrawCard(p)
		}
	}

	u.BeginTurn(player.P0)

	board, log := u.Commit()
	return &Game{board: board}, log
}

// FromState wraps an already-constructed board as a game, for a replayer
// resuming play at a prior point rather than from scratch.
func FromState(b state.Board) *Game {
	return &Game{board: b}
}

// FromMutations reconstructs a game by replaying log against an empty,
// RNG-less board, as a lossy or partial-knowledge replayer would.
func FromMutations(log mutation.Log) (*Game, error) {
	b, err := state.FromMutations(log)
	if err != nil {
		return nil, err
	}
	return FromState(b), nil
}

// Board returns the game's current board, exposing the read-only
// observability interface (SupplyStacks, CountSupply, ActivePlayer,
// NumPlayers, GetPlayer, Trash).
func (g *Game) Board() state.Board {
	return g.board
}

// State returns the high-level phase of the active seat. It panics if the
// active seat is in NotTurn, which cannot happen once a game has been
// constructed via New/NewFromSeed/FromMutations produced by this package,
// since begin_turn always leaves the active seat in Action or Buy.
func (g *Game) State() Phase {
	ps, ok := g.board.GetPlayer(g.board.ActivePlayer())
	if !ok {
		panic("game: active seat is not a defined player")
	}
	switch ps.Phase() {
	case player.Action:
		return ActionPhase
	case player.Buy:
		return BuyPhase
	default:
		panic(fmt.Sprintf("game: active seat in unexpected phase %v", ps.Phase()))
	}
}

// Act attempts the named high-level action against the active seat.
// Unrecognized (action, phase) pairs fail without any mutation. A
// successful call publishes the new board and returns the mutations it
// took to get there.
func (g *Game) Act(a Action) (mutation.Log, bool) {
	active := g.board.ActivePlayer()
	u := state.NewUpdate(g.board)

	switch a {
	case EndAction:
		if g.State() != ActionPhase {
			return nil, false
		}
		if !u.TryAppend(mutation.SetPhase{Player: active, Phase: player.Buy}) {
			return nil, false
		}
	case EndBuy:
		if g.State() != BuyPhase {
			return nil, false
		}
		if !u.EndTurn(active) {
			return nil, false
		}
		next := active.Next(g.board.NumPlayers())
		if !u.BeginTurn(next) {
			return nil, false
		}
	default:
		return nil, false
	}

	board, log := u.Commit()
	g.board = board
	return log, true
}

// ApplyMutations attempts to fold log onto the game's current board as a
// single all-or-nothing step; on success it publishes the resulting
// board and returns true.
func (g *Game) ApplyMutations(log mutation.Log) bool {
	next, err := g.board.MutateMulti(log)
	if err != nil {
		return false
	}
	g.board = next
	return true
}
