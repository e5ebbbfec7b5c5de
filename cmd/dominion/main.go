// Package main provides the dominion CLI: a thin terminal driver over
// the game facade, in the shape of cmd/evolve/main.go (flag-based
// config, a banner, build-time Version/BuildTime vars) but trading that
// command's population loop for a line-oriented REPL against a single
// game.Game. Board/hand formatting, input parsing, and card-effect
// choice prompts are exactly the external-collaborator responsibilities
// section 1 keeps out of the core; this file is that collaborator, not
// part of the tested contract.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/signalnine/dominion/boardrand"
	"github.com/signalnine/dominion/card"
	"github.com/signalnine/dominion/effect"
	"github.com/signalnine/dominion/game"
	"github.com/signalnine/dominion/mutation"
	"github.com/signalnine/dominion/mutationlog"
	"github.com/signalnine/dominion/player"
	"github.com/signalnine/dominion/state"
)

// Version information (set by build flags).
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	players     int
	seed        int64
	logPath     string
	showVersion bool
)

func init() {
	flag.IntVar(&players, "players", 2, "Number of seats (2, 3, or 4)")
	flag.Int64Var(&seed, "seed", 0, "Low 8 bytes of the board's RNG seed (0 = all-zero seed)")
	flag.StringVar(&logPath, "log", "", "Path to write the mutation log on quit (empty = don't save)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("dominion %s (built %s)\n", Version, BuildTime)
		return
	}

	printBanner()

	var boardSeed boardrand.Seed
	for i := 0; i < 8; i++ {
		boardSeed[i] = byte(seed >> (8 * i))
	}
	g, log := game.NewFromSeed(game.FirstGameRules(players), boardSeed)

	repl(g, log)
}

func printBanner() {
	fmt.Println("dominion - a deterministic deck-building rules engine")
	fmt.Println("commands: hand | board | play <card> | buy <card> | endaction | endbuy | quit")
	fmt.Println()
}

func repl(g *game.Game, log mutation.Log) {
	scanner := bufio.NewScanner(os.Stdin)
	printBoard(g)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			saveLog(log)
			return
		case "hand":
			printHand(g)
		case "board":
			printBoard(g)
		case "play":
			log = append(log, doPlay(g, args)...)
		case "buy":
			log = append(log, doBuy(g, args)...)
		case "endaction":
			if more, ok := g.Act(game.EndAction); ok {
				log = append(log, more...)
				fmt.Println("moved to buy phase")
			} else {
				fmt.Println("endaction failed: not in action phase")
			}
		case "endbuy":
			if more, ok := g.Act(game.EndBuy); ok {
				log = append(log, more...)
				fmt.Println("turn advanced")
				printBoard(g)
			} else {
				fmt.Println("endbuy failed: not in buy phase")
			}
		default:
			fmt.Printf("unrecognized command %q\n", cmd)
		}
	}
	saveLog(log)
}

func doPlay(g *game.Game, args []string) mutation.Log {
	if len(args) != 1 {
		fmt.Println("usage: play <card>")
		return nil
	}
	c, ok := card.ParseCard(args[0])
	if !ok {
		fmt.Printf("unknown card %q\n", args[0])
		return nil
	}
	if _, ok := effect.Catalog[c]; !ok {
		fmt.Printf("%s has no playable effect in this opening set\n", c)
		return nil
	}
	u := newUpdateForActiveAction(g)
	if u == nil {
		return nil
	}
	if !effect.Resolve(u, g.Board().ActivePlayer(), c, effect.Choices{}) {
		fmt.Printf("playing %s failed (not in hand, wrong phase, or needs choices this REPL doesn't prompt for)\n", c)
		return nil
	}
	_, log := u.Commit()
	if !g.ApplyMutations(log) {
		fmt.Println("applying play failed unexpectedly")
		return nil
	}
	fmt.Printf("played %s\n", c)
	return log
}

func doBuy(g *game.Game, args []string) mutation.Log {
	if len(args) != 1 {
		fmt.Println("usage: buy <card>")
		return nil
	}
	c, ok := card.ParseCard(args[0])
	if !ok {
		fmt.Printf("unknown card %q\n", args[0])
		return nil
	}
	active := g.Board().ActivePlayer()
	ps, _ := g.Board().GetPlayer(active)
	if ps.Phase() != player.Buy {
		fmt.Println("buy failed: not in buy phase")
		return nil
	}
	if ps.Buys() == 0 {
		fmt.Println("buy failed: no buys remaining")
		return nil
	}
	if ps.Gold() < c.Cost() {
		fmt.Printf("buy failed: %s costs %d, only %d gold available\n", c, c.Cost(), ps.Gold())
		return nil
	}
	log := mutation.Log{
		mutation.GainCard{Player: active, Card: c},
		mutation.SetGold{Player: active, Gold: ps.Gold() - c.Cost()},
		mutation.SetBuys{Player: active, Buys: ps.Buys() - 1},
	}
	if !g.ApplyMutations(log) {
		fmt.Println("buy failed: supply pile is empty")
		return nil
	}
	fmt.Printf("bought %s\n", c)
	return log
}

func printHand(g *game.Game) {
	ps, _ := g.Board().GetPlayer(g.Board().ActivePlayer())
	fmt.Printf("hand: %s\n", formatMaybeCards(ps.Hand()))
	fmt.Printf("actions=%d buys=%d gold=%d phase=%s\n", ps.Actions(), ps.Buys(), ps.Gold(), ps.Phase())
}

func printBoard(g *game.Game) {
	b := g.Board()
	fmt.Printf("-- active: %v, phase: %v --\n", b.ActivePlayer(), g.State())
	for _, sc := range b.SupplyStacks() {
		fmt.Printf("  %-10s x%d\n", sc.Card, sc.Count)
	}
	printHand(g)
}

func formatMaybeCards(hand []card.Maybe) string {
	var parts []string
	for _, c := range hand {
		if c.Some {
			parts = append(parts, c.Card.String())
		} else {
			parts = append(parts, "?")
		}
	}
	return strings.Join(parts, ", ")
}

// newUpdateForActiveAction stages a state.Update on top of g's current
// board if the active seat is in its action phase, else reports why and
// returns nil. effect.Resolve folds a card's whole effect onto this one
// staged Update, so doPlay's eventual Commit is all-or-nothing.
func newUpdateForActiveAction(g *game.Game) *state.Update {
	ps, _ := g.Board().GetPlayer(g.Board().ActivePlayer())
	if ps.Phase() != player.Action {
		fmt.Println("play failed: not in action phase")
		return nil
	}
	return state.NewUpdate(g.Board())
}

func saveLog(log mutation.Log) {
	if logPath == "" {
		return
	}
	if err := mutationlog.SaveFile(logPath, log, players); err != nil {
		fmt.Fprintf(os.Stderr, "saving mutation log: %v\n", err)
		return
	}
	fmt.Printf("saved %d mutations to %s\n", len(log), logPath)
}
