package cli

import (
	"fmt"
	"strings"

	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

// ClassMenu lists the playable classes with their base stats and ability.
func ClassMenu(defs *state.Defs) []string {
	lines := []string{"Choose your class:"}
	for i, tag := range types.PlayableClasses {
		def, ok := defs.Class(tag)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %d. %-8s HP %3d  ATK %2d  DEF %2d  Special: %s",
			i+1, def.Name, def.Health, def.Attack, def.Defense, defs.Ability(tag).Name))
	}
	return lines
}

// StatusLine summarizes one combatant: health, cooldown, and effects.
func StatusLine(s types.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Lv%d  HP %d/%d", s.Name, s.Level, s.Health, s.MaxHealth)
	if s.SpecialCooldown == 0 {
		b.WriteString("  Special READY")
	} else {
		fmt.Fprintf(&b, "  Special in %d", s.SpecialCooldown)
	}
	if tags := EffectTags(s); tags != "" {
		b.WriteString("  ")
		b.WriteString(tags)
	}
	return b.String()
}

// EffectTags renders active effects and stealth, e.g. "[burn 2] [stealth]".
func EffectTags(s types.Snapshot) string {
	var tags []string
	for _, eff := range s.Effects {
		tags = append(tags, fmt.Sprintf("[%s %d]", eff.Kind, eff.TurnsRemaining))
	}
	if s.StealthActive {
		tags = append(tags, "[stealth]")
	}
	return strings.Join(tags, " ")
}

// Outcome describes a finished battle from the player's side.
func Outcome(st types.BattleState) string {
	switch st {
	case types.PlayerVictory:
		return "Victory! You have won the battle."
	case types.EnemyVictory:
		return "Defeat. You have fallen in battle."
	}
	return ""
}

// HelpLines lists meta-commands and battle commands.
func HelpLines() []string {
	return []string{
		"System:",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump both combatants",
		"  /log [n|all]  — Show recent battle log",
		"  /trace        — Toggle debug trace output",
		"",
		"Battle commands:",
		"  attack (a, 1, hit)       — Basic attack",
		"  special (s, 2, ability)  — Use your class special",
		"  again (g)                — Repeat your last command",
	}
}

// StateLines dumps both combatants for debugging.
func StateLines(p, e types.Snapshot, turn int, st types.BattleState) []string {
	dump := func(s types.Snapshot) string {
		return fmt.Sprintf("%s (%s): HP %d/%d ATK %d DEF %d (eff %d) CRIT %.2f DODGE %.2f CD %d/%d XP %d/%d",
			s.Name, s.Class, s.Health, s.MaxHealth, s.Attack, s.Defense, s.EffectiveDefense,
			s.CritChance, s.DodgeChance, s.SpecialCooldown, s.MaxSpecialCooldown, s.XP, s.XPToNext)
	}
	lines := []string{
		fmt.Sprintf("Turn: %d  State: %s", turn, st),
		dump(p),
		dump(e),
	}
	if tags := EffectTags(p); tags != "" {
		lines = append(lines, "Player effects: "+tags)
	}
	if tags := EffectTags(e); tags != "" {
		lines = append(lines, "Enemy effects: "+tags)
	}
	return lines
}

// TraceLines renders a turn's events.
func TraceLines(res types.TurnResult) []string {
	if len(res.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(res.Events))}
	for _, e := range res.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// SpecialHint tells the player when their special is next usable.
func SpecialHint(s types.Snapshot, defs *state.Defs, tag types.ClassTag) string {
	name := defs.Ability(tag).Name
	if s.SpecialCooldown == 0 {
		return fmt.Sprintf("%s is ready.", name)
	}
	return fmt.Sprintf("%s ready in %d turn(s).", name, s.SpecialCooldown)
}
