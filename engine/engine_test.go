package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/battlecore/engine/parser"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

func newSession(tag types.ClassTag, rng fixedRoller) *Session {
	return NewBattle(state.DefaultDefs(), tag, rng)
}

func containsLine(lines []string, sub string) bool {
	for _, l := range lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func TestWarriorAttacksTwice(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)

	s.ExecuteTurn(types.ActionAttack)
	res := s.ExecuteTurn(types.ActionAttack)

	if s.Enemy.Health != 86 {
		t.Errorf("enemy health = %d, want 86", s.Enemy.Health)
	}
	if s.TurnNumber != 2 || res.Turn != 2 {
		t.Errorf("turn = %d (result %d), want 2", s.TurnNumber, res.Turn)
	}
	// Enemy hits back for max(1, 12-10) each turn.
	if s.Player.Health != 116 {
		t.Errorf("player health = %d, want 116", s.Player.Health)
	}
	if res.State != types.InProgress {
		t.Errorf("state = %v", res.State)
	}
	want := []string{"--- Turn 2 ---", "Warrior attacks for 7 damage!", "Enemy attacks for 2 damage!"}
	if len(res.Lines) != len(want) {
		t.Fatalf("lines = %q, want %q", res.Lines, want)
	}
	for i := range want {
		if res.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, res.Lines[i], want[i])
		}
	}
}

func TestFinishingBlow_SpecialSkipsEnemyAndTicks(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	s.Enemy.Health = 5
	s.Enemy.SpecialCooldown = 2

	res := s.ExecuteTurn(types.ActionSpecial)

	if res.State != types.PlayerVictory || !s.IsOver() {
		t.Fatalf("state = %v, want PlayerVictory", res.State)
	}
	if s.Player.Health != s.Player.MaxHealth {
		t.Errorf("enemy acted on the finishing blow: player health %d", s.Player.Health)
	}
	if s.Player.SpecialCooldown != 3 {
		t.Errorf("player cooldown = %d, want 3 (not ticked)", s.Player.SpecialCooldown)
	}
	if s.Enemy.SpecialCooldown != 2 {
		t.Errorf("enemy cooldown = %d, want 2 (not ticked)", s.Enemy.SpecialCooldown)
	}
	if last := res.Lines[len(res.Lines)-1]; last != "Enemy has been defeated!" {
		t.Errorf("last line = %q", last)
	}
}

func TestFinishingBlow_Attack(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	s.Enemy.Health = 7
	s.Player.SpecialCooldown = 2

	res := s.ExecuteTurn(types.ActionAttack)
	if res.State != types.PlayerVictory {
		t.Fatalf("state = %v", res.State)
	}
	if s.Player.SpecialCooldown != 2 {
		t.Errorf("cooldown ticked on the finishing blow: %d", s.Player.SpecialCooldown)
	}
	if len(res.Lines) != 3 {
		t.Errorf("lines = %q", res.Lines)
	}
}

func TestEnemyVictory(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	s.Player.Health = 1

	res := s.ExecuteTurn(types.ActionAttack)

	if res.State != types.EnemyVictory {
		t.Fatalf("state = %v, want EnemyVictory", res.State)
	}
	if !s.IsOver() {
		t.Error("IsOver should be true")
	}
	if s.Player.Health != 0 {
		t.Errorf("player health = %d", s.Player.Health)
	}
	if !containsLine(res.Lines, "Warrior has been defeated!") {
		t.Errorf("missing defeat line: %q", res.Lines)
	}
	if s.Player.Progress.XP != 0 {
		t.Error("losing player should not gain XP")
	}
}

func TestIsOver_Idempotent(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	if s.IsOver() != s.IsOver() || s.IsOver() {
		t.Fatal("fresh session should report not over, consistently")
	}
	s.Player.Health = 1
	s.ExecuteTurn(types.ActionAttack)
	first, second := s.IsOver(), s.IsOver()
	if !first || first != second {
		t.Errorf("IsOver = %v then %v", first, second)
	}
}

func TestExecuteTurn_FinishedSessionIsNoOp(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	s.Player.Health = 1
	s.ExecuteTurn(types.ActionAttack)

	logLen, turn, enemyHealth := len(s.Log), s.TurnNumber, s.Enemy.Health
	res := s.ExecuteTurn(types.ActionAttack)

	if len(res.Lines) != 0 || len(s.Log) != logLen {
		t.Errorf("finished session logged %q", res.Lines)
	}
	if s.TurnNumber != turn || s.Enemy.Health != enemyHealth {
		t.Error("finished session mutated state")
	}
	if res.State != types.EnemyVictory {
		t.Errorf("state = %v", res.State)
	}
}

func TestSpecialOnCooldown_EnemyStillActs(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	s.Player.SpecialCooldown = 2

	res := s.ExecuteTurn(types.ActionSpecial)

	if !res.SpecialFailed {
		t.Error("SpecialFailed should be set")
	}
	if !containsLine(res.Lines, "Special ability is on cooldown!") {
		t.Errorf("lines = %q", res.Lines)
	}
	if s.Player.Health != 118 {
		t.Errorf("player health = %d, want 118 (enemy acted)", s.Player.Health)
	}
	if s.Player.SpecialCooldown != 1 {
		t.Errorf("cooldown = %d, want 1", s.Player.SpecialCooldown)
	}
	if s.Enemy.Health != s.Enemy.MaxHealth {
		t.Error("failed special dealt damage")
	}
}

func TestCooldownCycle(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)

	s.ExecuteTurn(types.ActionSpecial)
	// Used at 3, ticked once at end of turn.
	if s.Player.SpecialCooldown != 2 {
		t.Fatalf("cooldown = %d, want 2", s.Player.SpecialCooldown)
	}
	s.ExecuteTurn(types.ActionAttack)
	s.ExecuteTurn(types.ActionAttack)
	if s.Player.SpecialCooldown != 0 {
		t.Fatalf("cooldown = %d, want 0", s.Player.SpecialCooldown)
	}
	s.ExecuteTurn(types.ActionAttack)
	if s.Player.SpecialCooldown != 0 {
		t.Errorf("cooldown went negative: %d", s.Player.SpecialCooldown)
	}
}

func TestMageBurnTicksAndExpires(t *testing.T) {
	// 0.3: no dodge, no crit, burn lands, enemy special roll fails.
	s := newSession(types.Mage, fixedRoller(0.3))

	s.ExecuteTurn(types.ActionSpecial)
	// 22 from Fireball, then 5 burn at end of turn.
	if s.Enemy.Health != 73 {
		t.Fatalf("enemy health = %d, want 73", s.Enemy.Health)
	}
	if len(s.Enemy.Effects) != 1 || s.Enemy.Effects[0].TurnsRemaining != 2 {
		t.Fatalf("effects = %+v", s.Enemy.Effects)
	}

	s.ExecuteTurn(types.ActionAttack)
	res := s.ExecuteTurn(types.ActionAttack)
	if len(s.Enemy.Effects) != 0 {
		t.Errorf("burn still active after 3 ticks: %+v", s.Enemy.Effects)
	}
	if !containsLine(res.Lines, "Enemy's burn wore off.") {
		t.Errorf("lines = %q", res.Lines)
	}
}

func TestBurnKillsEnemyAtTick(t *testing.T) {
	s := newSession(types.Mage, fixedRoller(0.3))
	s.Enemy.Health = 25

	res := s.ExecuteTurn(types.ActionSpecial)

	if res.State != types.PlayerVictory {
		t.Fatalf("state = %v, want PlayerVictory", res.State)
	}
	// Enemy still acted: the special did not finish it.
	if s.Player.Health != 73 {
		t.Errorf("player health = %d, want 73", s.Player.Health)
	}
	if !containsLine(res.Lines, "Enemy takes 5 burn damage!") || !containsLine(res.Lines, "Enemy has been defeated!") {
		t.Errorf("lines = %q", res.Lines)
	}
	if s.Player.Progress.XP != 50 {
		t.Errorf("xp = %d, want 50", s.Player.Progress.XP)
	}
}

func TestVictoryAwardsXPAndLevelsUp(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	s.Player.Progress.XP = 60
	s.Enemy.Health = 1

	res := s.ExecuteTurn(types.ActionAttack)

	if s.Player.Progress.Level != 2 || s.Player.Progress.XP != 10 {
		t.Errorf("progress = %+v", s.Player.Progress)
	}
	if s.Player.MaxHealth != 135 || s.Player.Attack != 17 {
		t.Errorf("growth not applied: max %d attack %d", s.Player.MaxHealth, s.Player.Attack)
	}
	n := len(res.Lines)
	if res.Lines[n-2] != "Warrior leveled up to level 2!" || res.Lines[n-1] != "Enemy has been defeated!" {
		t.Errorf("lines = %q", res.Lines)
	}
}

func TestHealthBoundsHoldOverLongBattle(t *testing.T) {
	for _, tag := range types.PlayableClasses {
		s := NewBattle(state.DefaultDefs(), tag, NewRNG(7))
		for i := 0; i < 200 && !s.IsOver(); i++ {
			act := types.ActionAttack
			if i%2 == 0 {
				act = types.ActionSpecial
			}
			res := s.ExecuteTurn(act)
			for _, snap := range []types.Snapshot{res.Player, res.Enemy} {
				if snap.Health < 0 || snap.Health > snap.MaxHealth {
					t.Fatalf("%v turn %d: %s health %d outside [0,%d]",
						tag, res.Turn, snap.Name, snap.Health, snap.MaxHealth)
				}
				if snap.SpecialCooldown < 0 {
					t.Fatalf("%v: negative cooldown", tag)
				}
			}
		}
		if !s.IsOver() {
			t.Errorf("%v: battle did not finish in 200 turns", tag)
		}
	}
}

func TestSameSeedSameBattle(t *testing.T) {
	run := func() []string {
		s := NewBattle(state.DefaultDefs(), types.Rogue, NewRNG(42))
		for !s.IsOver() {
			s.ExecuteTurn(types.ActionSpecial)
		}
		return s.Log
	}
	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("log lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("line %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}

func TestOnEvent_ReceivesStampedEvents(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	var got []types.Event
	s.OnEvent(func(e types.Event) { got = append(got, e) })

	res := s.ExecuteTurn(types.ActionSpecial)

	if len(got) != len(res.Events) {
		t.Fatalf("handler saw %d events, result has %d", len(got), len(res.Events))
	}
	var sawSpecial bool
	for _, e := range got {
		if e.Data["turn"] != 1 {
			t.Errorf("event %s turn = %v, want 1", e.Type, e.Data["turn"])
		}
		if e.Type == types.EventSpecial && e.Data["ability"] == "Berserker Rage" {
			sawSpecial = true
		}
	}
	if !sawSpecial {
		t.Errorf("no special event in %+v", got)
	}
}

func TestStep(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)

	res, err := s.Step("attack")
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if res.Turn != 1 {
		t.Errorf("turn = %d", res.Turn)
	}

	if _, err := s.Step("dance"); !errors.Is(err, parser.ErrUnknownCommand) {
		t.Errorf("err = %v, want ErrUnknownCommand", err)
	}
	if s.TurnNumber != 1 {
		t.Error("unknown command advanced the turn")
	}

	s.Enemy.Health = 1
	if _, err := s.Step("a"); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if _, err := s.Step("a"); !errors.Is(err, ErrBattleOver) {
		t.Errorf("err = %v, want ErrBattleOver", err)
	}
}

func TestRecentLog(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	s.ExecuteTurn(types.ActionAttack)
	s.ExecuteTurn(types.ActionAttack)

	if len(s.Log) != 6 {
		t.Fatalf("log len = %d, want 6", len(s.Log))
	}
	if got := s.RecentLog(0); len(got) != 0 {
		t.Errorf("RecentLog(0) = %q, want none", got)
	}
	if got := s.RecentLog(-3); len(got) != 0 {
		t.Errorf("RecentLog(-3) = %q, want none", got)
	}
	recent := s.RecentLog(s.LogWindow())
	if len(recent) != 5 || recent[0] != s.Log[1] || recent[4] != s.Log[5] {
		t.Errorf("RecentLog(LogWindow()) = %q", recent)
	}
	if got := s.RecentLog(100); len(got) != 6 {
		t.Errorf("RecentLog(100) len = %d", len(got))
	}
	recent[0] = "mutated"
	if s.Log[1] == "mutated" {
		t.Error("RecentLog aliases the session log")
	}
}

func TestSelectClass_PanicsOnUnknownTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown class tag")
		}
	}()
	SelectClass(state.DefaultDefs(), types.ClassTag(99), noTrigger)
}

func TestExecuteTurn_PanicsOnUnknownAction(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown action")
		}
	}()
	s.ExecuteTurn(types.Action("flee"))
}

func TestLogWindow(t *testing.T) {
	s := newSession(types.Warrior, noTrigger)
	if got := s.LogWindow(); got != 5 {
		t.Errorf("default window = %d, want 5", got)
	}
	s.Defs.Rules.RecentLog = 2
	if got := s.LogWindow(); got != 2 {
		t.Errorf("configured window = %d, want 2", got)
	}
	s.Defs.Rules.RecentLog = 0
	if got := s.LogWindow(); got != state.DefaultRecentLog {
		t.Errorf("unset window = %d, want %d", got, state.DefaultRecentLog)
	}
}

func TestExecuteTurn_PaladinBlessedWithoutRoller(t *testing.T) {
	s := NewBattle(state.DefaultDefs(), types.Paladin, nil)
	s.ExecuteTurn(types.ActionSpecial)

	var blessed bool
	for _, eff := range s.Player.Effects {
		if eff.Kind == types.Bless {
			blessed = true
		}
	}
	if !blessed {
		t.Errorf("paladin effects = %+v, want bless", s.Player.Effects)
	}
}
