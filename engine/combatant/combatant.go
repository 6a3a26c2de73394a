// Package combatant implements a battle participant: its stats, mutable
// battle state, damage and healing, cooldowns, stealth, and status effects.
package combatant

import (
	"github.com/nathoo/battlecore/engine/events"
	"github.com/nathoo/battlecore/types"
)

// Roller is the randomness source for dodge, crit, and effect rolls.
type Roller interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// Combatant is either party in a battle.
// Health is kept in [0, MaxHealth] at every mutation.
type Combatant struct {
	Name  string
	Class types.ClassTag

	MaxHealth int
	Health    int
	Attack    int
	Defense   int

	SpecialCooldown    int
	MaxSpecialCooldown int

	CritChance     float64
	DodgeChance    float64
	CritMultiplier float64

	StealthActive         bool
	StealthTurnsRemaining int

	// Effects in application order.
	Effects []types.StatusEffect

	Progress Progress
	Growth   types.GrowthDef

	rng  Roller
	sink events.Sink
}

// New creates a combatant at full health from a base stat table row.
func New(def types.ClassDef, rules types.RulesDef, rng Roller) *Combatant {
	critMult := rules.CritMultiplier
	if critMult <= 0 {
		critMult = 1.5
	}
	return &Combatant{
		Name:               def.Name,
		Class:              def.Tag,
		MaxHealth:          def.Health,
		Health:             def.Health,
		Attack:             def.Attack,
		Defense:            def.Defense,
		MaxSpecialCooldown: def.MaxCooldown,
		CritChance:         def.CritChance,
		DodgeChance:        def.DodgeChance,
		CritMultiplier:     critMult,
		Progress:           NewProgress(rules),
		Growth:             def.Growth,
		rng:                rng,
	}
}

// Attach routes this combatant's events into sink. A nil sink drops them.
func (c *Combatant) Attach(sink events.Sink) {
	c.sink = sink
}

// TakeDamage applies an incoming hit of raw strength.
// Dodge is rolled first, then crit. Defense never reduces damage below 1.
func (c *Combatant) TakeDamage(raw int) types.Hit {
	if c.roll(c.DodgeChance) {
		c.emit(types.EventDodge, map[string]any{"target": c.Name})
		return types.Hit{Amount: 0, Qualifier: types.Dodged}
	}

	qualifier := types.Normal
	if c.roll(c.CritChance) {
		raw = int(float64(raw) * c.CritMultiplier)
		qualifier = types.Critical
	}

	applied := raw - c.EffectiveDefense()
	if applied < 1 {
		applied = 1
	}
	c.lose(applied)

	c.emit(types.EventHit, map[string]any{
		"target":    c.Name,
		"amount":    applied,
		"qualifier": string(qualifier),
	})
	return types.Hit{Amount: applied, Qualifier: qualifier}
}

// Heal restores health up to MaxHealth. It returns the requested amount,
// not the amount actually restored.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
	c.emit(types.EventHeal, map[string]any{"target": c.Name, "amount": amount})
	return amount
}

// IsAlive reports whether health is above zero.
func (c *Combatant) IsAlive() bool {
	return c.Health > 0
}

// HealthPercentage returns health as a percentage of MaxHealth.
func (c *Combatant) HealthPercentage() float64 {
	if c.MaxHealth <= 0 {
		return 0
	}
	return 100 * float64(c.Health) / float64(c.MaxHealth)
}

// TickCooldown moves the special cooldown one step toward zero.
func (c *Combatant) TickCooldown() {
	if c.SpecialCooldown > 0 {
		c.SpecialCooldown--
	}
}

// EnterStealth activates stealth for the given number of turns.
func (c *Combatant) EnterStealth(turns int) {
	c.StealthActive = true
	c.StealthTurnsRemaining = turns
}

// TickStealth counts down stealth and drops it when the timer runs out.
func (c *Combatant) TickStealth() {
	if !c.StealthActive {
		return
	}
	c.StealthTurnsRemaining--
	if c.StealthTurnsRemaining <= 0 {
		c.StealthTurnsRemaining = 0
		c.StealthActive = false
	}
}

// Snapshot returns a read-only copy of the current stats.
func (c *Combatant) Snapshot() types.Snapshot {
	effs := make([]types.StatusEffect, len(c.Effects))
	copy(effs, c.Effects)
	return types.Snapshot{
		Name:               c.Name,
		Class:              c.Class.String(),
		Health:             c.Health,
		MaxHealth:          c.MaxHealth,
		Attack:             c.Attack,
		Defense:            c.Defense,
		EffectiveDefense:   c.EffectiveDefense(),
		SpecialCooldown:    c.SpecialCooldown,
		MaxSpecialCooldown: c.MaxSpecialCooldown,
		CritChance:         c.CritChance,
		DodgeChance:        c.DodgeChance,
		StealthActive:      c.StealthActive,
		Effects:            effs,
		Level:              c.Progress.Level,
		XP:                 c.Progress.XP,
		XPToNext:           c.Progress.XPToNext,
	}
}

// lose subtracts health, clamped at zero.
func (c *Combatant) lose(amount int) {
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
}

// roll draws once from the source and reports whether it landed under p.
// Every call consumes one draw, including p == 0.
func (c *Combatant) roll(p float64) bool {
	if c.rng == nil {
		return false
	}
	return c.rng.Float64() < p
}

func (c *Combatant) emit(kind string, data map[string]any) {
	if c.sink == nil {
		return
	}
	c.sink.Emit(types.Event{Type: kind, Data: data})
}
