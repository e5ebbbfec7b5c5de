// Package card defines the catalog of card identities used by the board and
// the mutation algebra, plus the starting-count table keyed on player count.
package card

// Card is a fixed enumeration of every card identity in the game. Identity is
// the only attribute; all per-card behavior is dispatched by identity.
type Card uint8

const (
	Copper Card = iota
	Silver
	Gold
	Estate
	Duchy
	Province
	Curse
	Cellar
	Market
	Militia
	Mine
	Moat
	Remodel
	Smithy
	Village
	Woodcutter
	Workshop

	numCards
)

var names = [numCards]string{
	Copper: "Copper", Silver: "Silver", Gold: "Gold",
	Estate: "Estate", Duchy: "Duchy", Province: "Province",
	Curse: "Curse",
	Cellar: "Cellar", Market: "Market", Militia: "Militia", Mine: "Mine",
	Moat: "Moat", Remodel: "Remodel", Smithy: "Smithy", Village: "Village",
	Woodcutter: "Woodcutter", Workshop: "Workshop",
}

func (c Card) String() string {
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// ParseCard looks up a card by its String() name, for decoding a persisted
// mutation log back into typed values. It reports false for any name not
// in the catalog.
func ParseCard(name string) (Card, bool) {
	for c := Card(0); c < numCards; c++ {
		if names[c] == name {
			return c, true
		}
	}
	return 0, false
}

// All returns every card identity in the catalog, in enumeration order.
func All() []Card {
	out := make([]Card, numCards)
	for c := Card(0); c < numCards; c++ {
		out[c] = c
	}
	return out
}

// BaseTreasure lists the three treasure cards present in every game.
var BaseTreasure = [3]Card{Copper, Silver, Gold}

// BaseVictory lists the three base victory cards present in every game.
var BaseVictory = [3]Card{Estate, Duchy, Province}

// FirstSet is the canonical ten-card opening set used by first-game helpers.
var FirstSet = [10]Card{Cellar, Market, Militia, Mine, Moat, Remodel, Smithy, Village, Woodcutter, Workshop}

func playerVictories(players int) uint32 {
	if players == 2 {
		return 8
	}
	return 12
}

// StartingCount returns the number of copies of c placed in the supply at
// the start of a game with the given player count (2, 3, or 4).
func (c Card) StartingCount(players int) uint32 {
	switch c {
	case Copper:
		return 60
	case Silver:
		return 40
	case Gold:
		return 30
	case Estate:
		return uint32(players)*3 + playerVictories(players)
	case Duchy, Province:
		return playerVictories(players)
	case Curse:
		return uint32(players-1) * 10
	default:
		return 10
	}
}

// Cost returns the coin cost of the card, used by effect resolution (e.g.
// Workshop, Remodel) to decide which piles a gain may target.
func (c Card) Cost() uint32 {
	switch c {
	case Copper:
		return 0
	case Curse:
		return 0
	case Estate, Cellar, Moat:
		return 2
	case Silver, Village, Woodcutter, Workshop:
		return 3
	case Duchy, Market, Militia, Mine, Remodel, Smithy:
		return 4
	case Gold, Province:
		return 6
	default:
		return 0
	}
}

// Maybe represents "known-unknown": a slot where existence is known but
// identity may not be (a replayer without the shuffle seed). Some == false
// is the anonymized/unknown value.
type Maybe struct {
	Some bool
	Card Card
}

// Known wraps a card as a known value.
func Known(c Card) Maybe { return Maybe{Some: true, Card: c} }

// Unknown returns the known-unknown value.
func Unknown() Maybe { return Maybe{} }

// Richer returns the more-informative of a and b, per the information
// preservation rule: a known value always wins over an unknown one, and two
// known values must agree (ok is false otherwise).
func Richer(a, b Maybe) (result Maybe, ok bool) {
	switch {
	case a.Some && b.Some:
		if a.Card != b.Card {
			return Maybe{}, false
		}
		return a, true
	case a.Some:
		return a, true
	case b.Some:
		return b, true
	default:
		return Maybe{}, true
	}
}
