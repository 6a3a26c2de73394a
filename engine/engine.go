// Package engine provides the battle Session: it wires combatants, the
// ability resolver, the enemy policy, and event dispatch into a single turn.
package engine

import (
	"errors"
	"fmt"

	"github.com/nathoo/battlecore/engine/ability"
	"github.com/nathoo/battlecore/engine/combatant"
	"github.com/nathoo/battlecore/engine/events"
	"github.com/nathoo/battlecore/engine/parser"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

// ErrBattleOver is returned by Step once the battle has ended.
var ErrBattleOver = errors.New("battle is over")

// Session is one battle between a player and an enemy.
type Session struct {
	Defs       *state.Defs
	Player     *combatant.Combatant
	Enemy      *combatant.Combatant
	TurnNumber int
	Log        []string
	State      types.BattleState

	rng      combatant.Roller
	resolver *ability.Resolver
	recorder *events.Recorder
	handlers []events.Handler
}

// SelectClass builds a combatant from the base stat table.
// A tag outside the table is a programming error and panics.
func SelectClass(defs *state.Defs, tag types.ClassTag, rng combatant.Roller) *combatant.Combatant {
	def, ok := defs.Class(tag)
	if !ok {
		panic(fmt.Sprintf("engine: no class definition for %v", tag))
	}
	return combatant.New(def, defs.Rules, rng)
}

// New creates a session between player and enemy. rng drives the enemy
// policy and ability secondary effects.
func New(defs *state.Defs, player, enemy *combatant.Combatant, rng combatant.Roller) *Session {
	s := &Session{
		Defs:     defs,
		Player:   player,
		Enemy:    enemy,
		State:    types.InProgress,
		rng:      rng,
		resolver: ability.NewResolver(defs, rng),
		recorder: &events.Recorder{},
	}
	player.Attach(s.recorder)
	enemy.Attach(s.recorder)
	return s
}

// NewBattle selects the player's class and pairs it with the enemy, all
// drawing from one random source.
func NewBattle(defs *state.Defs, tag types.ClassTag, rng combatant.Roller) *Session {
	player := SelectClass(defs, tag, rng)
	enemy := SelectClass(defs, types.Enemy, rng)
	return New(defs, player, enemy, rng)
}

// OnEvent registers a handler that sees every event after each turn.
func (s *Session) OnEvent(h events.Handler) {
	s.handlers = append(s.handlers, h)
}

// IsOver reports whether the battle has reached a terminal state.
func (s *Session) IsOver() bool {
	return s.State != types.InProgress
}

// RecentLog returns the last n log lines in order. n <= 0 returns none.
func (s *Session) RecentLog(n int) []string {
	if n < 0 {
		n = 0
	}
	if n > len(s.Log) {
		n = len(s.Log)
	}
	out := make([]string, n)
	copy(out, s.Log[len(s.Log)-n:])
	return out
}

// LogWindow is the number of lines a display shows by default: the
// configured rules value, or DefaultRecentLog when unset.
func (s *Session) LogWindow() int {
	if n := s.Defs.Rules.RecentLog; n > 0 {
		return n
	}
	return state.DefaultRecentLog
}

// Step parses a text command and executes it as one turn.
func (s *Session) Step(input string) (types.TurnResult, error) {
	if s.IsOver() {
		return s.result(len(s.Log), nil, false), ErrBattleOver
	}
	act, err := parser.ParseAction(input)
	if err != nil {
		return types.TurnResult{}, err
	}
	return s.ExecuteTurn(act), nil
}

// ExecuteTurn resolves one full turn for the player's action.
// On a finished battle it changes nothing and returns no new lines.
func (s *Session) ExecuteTurn(act types.Action) types.TurnResult {
	if s.IsOver() {
		return s.result(len(s.Log), nil, false)
	}
	start := len(s.Log)

	// 1. Advance the turn.
	s.TurnNumber++
	s.logf("--- Turn %d ---", s.TurnNumber)

	// 2. Player action.
	specialFailed := !s.act(s.Player, s.Enemy, act)

	// 3. Finishing blow: the enemy does not act and nothing ticks.
	if !s.Enemy.IsAlive() {
		s.playerVictory()
		return s.finish(start, specialFailed)
	}

	// 4. Enemy action.
	s.act(s.Enemy, s.Player, EnemyTurn(s.Enemy, s.Defs.Rules, s.rng))

	// 5. Tick cooldowns, effects, and stealth for both sides.
	s.tick(s.Player)
	s.tick(s.Enemy)

	// 6. Termination.
	switch {
	case !s.Player.IsAlive():
		s.logf("%s has been defeated!", s.Player.Name)
		s.defeated(s.Player)
		s.State = types.EnemyVictory
	case !s.Enemy.IsAlive():
		s.playerVictory()
	}

	return s.finish(start, specialFailed)
}

// act performs one combatant's action against its foe. It returns false
// only when a special was attempted on cooldown.
func (s *Session) act(actor, foe *combatant.Combatant, act types.Action) bool {
	switch act {
	case types.ActionAttack:
		s.Log = append(s.Log, basicAttack(actor, foe))
		return true
	case types.ActionSpecial:
		out := s.resolver.Use(actor, foe)
		s.Log = append(s.Log, out.Message)
		if out.Used {
			s.recorder.Emit(types.Event{Type: types.EventSpecial, Data: map[string]any{
				"actor":   actor.Name,
				"ability": s.Defs.Ability(actor.Class).Name,
			}})
		}
		return out.Used
	default:
		panic(fmt.Sprintf("engine: unknown action %q", act))
	}
}

func (s *Session) tick(c *combatant.Combatant) {
	c.TickCooldown()
	s.Log = append(s.Log, tickLines(c.Name, c.ApplyEffects())...)
	c.TickStealth()
}

// playerVictory awards experience and closes the battle.
func (s *Session) playerVictory() {
	levelBefore := s.Player.Progress.Level
	if gained := s.Player.GainXP(s.Defs.Rules.XPReward); gained > 0 {
		for lvl := levelBefore + 1; lvl <= s.Player.Progress.Level; lvl++ {
			s.logf("%s leveled up to level %d!", s.Player.Name, lvl)
		}
	}
	s.logf("%s has been defeated!", s.Enemy.Name)
	s.defeated(s.Enemy)
	s.State = types.PlayerVictory
}

func (s *Session) defeated(c *combatant.Combatant) {
	s.recorder.Emit(types.Event{Type: types.EventDefeated, Data: map[string]any{"target": c.Name}})
}

// finish stamps the turn onto this turn's events, dispatches them, and
// builds the result.
func (s *Session) finish(start int, specialFailed bool) types.TurnResult {
	evts := s.recorder.Drain()
	for i := range evts {
		if evts[i].Data == nil {
			evts[i].Data = map[string]any{}
		}
		evts[i].Data["turn"] = s.TurnNumber
	}
	events.Dispatch(evts, s.handlers)
	return s.result(start, evts, specialFailed)
}

func (s *Session) result(start int, evts []types.Event, specialFailed bool) types.TurnResult {
	lines := make([]string, len(s.Log)-start)
	copy(lines, s.Log[start:])
	return types.TurnResult{
		Turn:          s.TurnNumber,
		Lines:         lines,
		State:         s.State,
		Player:        s.Player.Snapshot(),
		Enemy:         s.Enemy.Snapshot(),
		Events:        evts,
		SpecialFailed: specialFailed,
	}
}

func (s *Session) logf(format string, args ...any) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}
