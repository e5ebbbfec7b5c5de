// Package mutationlog persists a mutation.Log as JSON and implements the
// per-seat filtering transform from section 6 of the specification: a
// full-knowledge log rewritten so a partial-knowledge observer never
// gains information it isn't owed. It is grounded in the teacher's
// evolution.CheckpointData persistence idiom — MarshalIndent, a
// temp-file-then-rename atomic write, and %w-wrapped errors — applied to
// a tagged-union wire format instead of a plain struct, since
// mutation.Mutation is a closed interface rather than one concrete type.
package mutationlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/signalnine/dominion/card"
	"github.com/signalnine/dominion/mutation"
	"github.com/signalnine/dominion/player"
)

// wireMutation is the tagged-union JSON record for one mutation. Only the
// fields relevant to Type are populated; the rest are omitted.
type wireMutation struct {
	Type string `json:"type"`

	Player *player.Player `json:"player,omitempty"`
	Count  *uint32        `json:"count,omitempty"`
	Card   string         `json:"card,omitempty"`
	Known  *bool          `json:"known,omitempty"`

	Cards map[string]uint32 `json:"cards,omitempty"`

	Phase   string  `json:"phase,omitempty"`
	Buys    *uint32 `json:"buys,omitempty"`
	Actions *uint32 `json:"actions,omitempty"`
	Gold    *uint32 `json:"gold,omitempty"`

	RevealAll     bool           `json:"reveal_all,omitempty"`
	RevealPlayers []player.Player `json:"reveal_players,omitempty"`
}

func u32(v uint32) *uint32 { return &v }
func boolPtr(v bool) *bool { return &v }

func revealToWire(r player.Reveal, n int) (bool, []player.Player) {
	if r.IsAll() {
		return true, nil
	}
	var out []player.Player
	for p := player.P0; int(p) < n; p++ {
		if r.Audience().Contains(p) {
			out = append(out, p)
		}
	}
	return false, out
}

func wireToReveal(all bool, players []player.Player) player.Reveal {
	if all {
		return player.RevealAll()
	}
	set := player.Set{}
	for _, p := range players {
		set = set.Add(p)
	}
	return player.RevealJust(set)
}

// toWire converts one mutation to its JSON record. numPlayers bounds the
// reveal-audience scan; it is the board's seat count at encode time (4 is
// a safe upper bound if unknown).
func toWire(m mutation.Mutation, numPlayers int) (wireMutation, error) {
	switch mm := m.(type) {
	case mutation.SetPlayers:
		return wireMutation{Type: "SetPlayers", Count: u32(uint32(mm.Count))}, nil
	case mutation.AddStack:
		return wireMutation{Type: "AddStack", Card: mm.Card.String(), Count: u32(mm.Count)}, nil
	case mutation.GainCard:
		return wireMutation{Type: "GainCard", Player: &mm.Player, Card: mm.Card.String()}, nil
	case mutation.ShuffleDiscard:
		return wireMutation{Type: "ShuffleDiscard", Player: &mm.Player}, nil
	case mutation.DrawCard:
		w := wireMutation{Type: "DrawCard", Player: &mm.Player, Known: boolPtr(mm.Card.Some)}
		if mm.Card.Some {
			w.Card = mm.Card.Card.String()
		}
		return w, nil
	case mutation.RevealTopDeck:
		w := wireMutation{Type: "RevealTopDeck", Player: &mm.Player, Known: boolPtr(mm.Card.Some)}
		if mm.Card.Some {
			w.Card = mm.Card.Card.String()
		}
		w.RevealAll, w.RevealPlayers = revealToWire(mm.Reveal, numPlayers)
		return w, nil
	case mutation.RevealHandCards:
		w := wireMutation{Type: "RevealHandCards", Player: &mm.Player}
		if mm.Cards != nil {
			w.Cards = make(map[string]uint32)
			for _, cc := range mm.Cards.CountIter() {
				w.Cards[cc.Card.String()] = cc.Count
			}
		}
		w.RevealAll, w.RevealPlayers = revealToWire(mm.Reveal, numPlayers)
		return w, nil
	case mutation.PlayCard:
		return wireMutation{Type: "PlayCard", Player: &mm.Player, Card: mm.Card.String()}, nil
	case mutation.DiscardHand:
		return wireMutation{Type: "DiscardHand", Player: &mm.Player, Card: mm.Card.String()}, nil
	case mutation.DiscardPlayed:
		return wireMutation{Type: "DiscardPlayed", Player: &mm.Player}, nil
	case mutation.ChangeTurn:
		return wireMutation{Type: "ChangeTurn", Player: &mm.Player}, nil
	case mutation.SetPhase:
		return wireMutation{Type: "SetPhase", Player: &mm.Player, Phase: mm.Phase.String()}, nil
	case mutation.SetBuys:
		return wireMutation{Type: "SetBuys", Player: &mm.Player, Buys: u32(mm.Buys)}, nil
	case mutation.SetActions:
		return wireMutation{Type: "SetActions", Player: &mm.Player, Actions: u32(mm.Actions)}, nil
	case mutation.SetGold:
		return wireMutation{Type: "SetGold", Player: &mm.Player, Gold: u32(mm.Gold)}, nil
	default:
		return wireMutation{}, fmt.Errorf("mutationlog: unhandled mutation kind %v", m.Kind())
	}
}

func wireCard(name string) (card.Card, error) {
	c, ok := card.ParseCard(name)
	if !ok {
		return 0, fmt.Errorf("mutationlog: unknown card %q", name)
	}
	return c, nil
}

func wireMaybeCard(known *bool, name string) (card.Maybe, error) {
	if known == nil || !*known {
		return card.Unknown(), nil
	}
	c, err := wireCard(name)
	if err != nil {
		return card.Maybe{}, err
	}
	return card.Known(c), nil
}

func playerOf(w wireMutation) (player.Player, error) {
	if w.Player == nil {
		return 0, fmt.Errorf("mutationlog: %s: missing player", w.Type)
	}
	return *w.Player, nil
}

func (w wireMutation) toMutation() (mutation.Mutation, error) {
	switch w.Type {
	case "SetPlayers":
		if w.Count == nil {
			return nil, fmt.Errorf("mutationlog: SetPlayers: missing count")
		}
		return mutation.SetPlayers{Count: int(*w.Count)}, nil
	case "AddStack":
		c, err := wireCard(w.Card)
		if err != nil {
			return nil, err
		}
		if w.Count == nil {
			return nil, fmt.Errorf("mutationlog: AddStack: missing count")
		}
		return mutation.AddStack{Card: c, Count: *w.Count}, nil
	case "GainCard":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		c, err := wireCard(w.Card)
		if err != nil {
			return nil, err
		}
		return mutation.GainCard{Player: p, Card: c}, nil
	case "ShuffleDiscard":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		return mutation.ShuffleDiscard{Player: p}, nil
	case "DrawCard":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		mc, err := wireMaybeCard(w.Known, w.Card)
		if err != nil {
			return nil, err
		}
		return mutation.DrawCard{Player: p, Card: mc}, nil
	case "RevealTopDeck":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		mc, err := wireMaybeCard(w.Known, w.Card)
		if err != nil {
			return nil, err
		}
		return mutation.RevealTopDeck{Player: p, Card: mc, Reveal: wireToReveal(w.RevealAll, w.RevealPlayers)}, nil
	case "RevealHandCards":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		var set *card.Set
		if w.Cards != nil {
			s := card.NewSet()
			for name, n := range w.Cards {
				c, err := wireCard(name)
				if err != nil {
					return nil, err
				}
				s.Insert(c, n)
			}
			set = &s
		}
		return mutation.RevealHandCards{Player: p, Cards: set, Reveal: wireToReveal(w.RevealAll, w.RevealPlayers)}, nil
	case "PlayCard":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		c, err := wireCard(w.Card)
		if err != nil {
			return nil, err
		}
		return mutation.PlayCard{Player: p, Card: c}, nil
	case "DiscardHand":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		c, err := wireCard(w.Card)
		if err != nil {
			return nil, err
		}
		return mutation.DiscardHand{Player: p, Card: c}, nil
	case "DiscardPlayed":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		return mutation.DiscardPlayed{Player: p}, nil
	case "ChangeTurn":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		return mutation.ChangeTurn{Player: p}, nil
	case "SetPhase":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		ph, ok := player.ParsePhase(w.Phase)
		if !ok {
			return nil, fmt.Errorf("mutationlog: SetPhase: unknown phase %q", w.Phase)
		}
		return mutation.SetPhase{Player: p, Phase: ph}, nil
	case "SetBuys":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		if w.Buys == nil {
			return nil, fmt.Errorf("mutationlog: SetBuys: missing buys")
		}
		return mutation.SetBuys{Player: p, Buys: *w.Buys}, nil
	case "SetActions":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		if w.Actions == nil {
			return nil, fmt.Errorf("mutationlog: SetActions: missing actions")
		}
		return mutation.SetActions{Player: p, Actions: *w.Actions}, nil
	case "SetGold":
		p, err := playerOf(w)
		if err != nil {
			return nil, err
		}
		if w.Gold == nil {
			return nil, fmt.Errorf("mutationlog: SetGold: missing gold")
		}
		return mutation.SetGold{Player: p, Gold: *w.Gold}, nil
	default:
		return nil, fmt.Errorf("mutationlog: unknown mutation type %q", w.Type)
	}
}

// Encode renders log as an indented JSON array of tagged mutation
// records, preserving variant identity and payload exactly so that
// replay(Decode(Encode(log))) == replay(log).
func Encode(log mutation.Log, numPlayers int) ([]byte, error) {
	out := make([]wireMutation, len(log))
	for i, m := range log {
		w, err := toWire(m, numPlayers)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return json.MarshalIndent(out, "", "  ")
}

// Decode parses data produced by Encode back into a mutation.Log.
func Decode(data []byte) (mutation.Log, error) {
	var wire []wireMutation
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("mutationlog: decoding: %w", err)
	}
	out := make(mutation.Log, len(wire))
	for i, w := range wire {
		m, err := w.toMutation()
		if err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// SaveFile writes log to path, going through a temp-file-then-rename so a
// crash mid-write never leaves a truncated log at path.
func SaveFile(path string, log mutation.Log, numPlayers int) error {
	data, err := Encode(log, numPlayers)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mutationlog: creating directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("mutationlog: writing: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("mutationlog: finalizing: %w", err)
	}
	return nil
}

// LoadFile reads and decodes a log previously written by SaveFile.
func LoadFile(path string) (mutation.Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mutationlog: reading: %w", err)
	}
	return Decode(data)
}

// FilterForSeat rewrites log so that DrawCard and RevealTopDeck entries
// whose audience excludes seat are anonymized to an unknown card,
// matching section 6's boundary transform. The result never strengthens
// knowledge beyond what seat is owed: a replayer that builds its board
// from the filtered log (with no RNG) sees every card seat wasn't shown
// as an unknown entry instead.
func FilterForSeat(log mutation.Log, seat player.Player) mutation.Log {
	out := make(mutation.Log, len(log))
	for i, m := range log {
		switch mm := m.(type) {
		case mutation.DrawCard:
			if mm.Player != seat {
				mm.Card = card.Unknown()
			}
			out[i] = mm
		case mutation.RevealTopDeck:
			if !mm.Reveal.Includes(seat) {
				mm.Card = card.Unknown()
			}
			out[i] = mm
		default:
			out[i] = m
		}
	}
	return out
}
