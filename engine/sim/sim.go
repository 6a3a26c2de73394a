// Package sim runs headless autoplayed battles and summarizes the results.
package sim

import (
	"fmt"
	"sort"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/ability"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

// MaxTurns caps a single simulated battle.
const MaxTurns = 1000

// Summary aggregates a batch of simulated battles.
type Summary struct {
	Class       types.ClassTag
	Battles     int
	PlayerWins  int
	EnemyWins   int
	Unfinished  int
	AvgTurns    float64
	MedianTurns float64
}

// WinRate returns the fraction of battles the player won.
func (s Summary) WinRate() float64 {
	if s.Battles == 0 {
		return 0
	}
	return float64(s.PlayerWins) / float64(s.Battles)
}

func (s Summary) String() string {
	return fmt.Sprintf("%s: %d battles, %d won (%.1f%%), %d lost, avg %.1f turns, median %.1f",
		s.Class, s.Battles, s.PlayerWins, 100*s.WinRate(), s.EnemyWins, s.AvgTurns, s.MedianTurns)
}

// Policy picks the player's action for the next turn.
type Policy func(s *engine.Session) types.Action

// SpecialWhenReady uses the special ability whenever it is off cooldown.
func SpecialWhenReady(s *engine.Session) types.Action {
	if ability.Ready(s.Player) {
		return types.ActionSpecial
	}
	return types.ActionAttack
}

// Run plays n battles for class with SpecialWhenReady. Battle i is seeded
// with seed+i, so a batch is reproducible.
func Run(defs *state.Defs, class types.ClassTag, n int, seed int64) Summary {
	return RunWith(defs, class, n, seed, SpecialWhenReady)
}

// RunWith plays n battles for class driven by policy.
func RunWith(defs *state.Defs, class types.ClassTag, n int, seed int64, policy Policy) Summary {
	sum := Summary{Class: class, Battles: n}
	if n <= 0 {
		return sum
	}

	turns := make([]int, 0, n)
	total := 0
	for i := 0; i < n; i++ {
		s := engine.NewBattle(defs, class, engine.NewRNG(seed+int64(i)))
		for s.TurnNumber < MaxTurns && !s.IsOver() {
			s.ExecuteTurn(policy(s))
		}

		switch s.State {
		case types.PlayerVictory:
			sum.PlayerWins++
		case types.EnemyVictory:
			sum.EnemyWins++
		default:
			sum.Unfinished++
		}
		turns = append(turns, s.TurnNumber)
		total += s.TurnNumber
	}

	sum.AvgTurns = float64(total) / float64(n)
	sort.Ints(turns)
	if n%2 == 0 {
		sum.MedianTurns = float64(turns[n/2-1]+turns[n/2]) / 2.0
	} else {
		sum.MedianTurns = float64(turns[n/2])
	}
	return sum
}
