// Package ability resolves class special abilities from a descriptor table
// keyed by class tag. Every ability shares one entry point and one cooldown
// rule: usable only at zero, reset to the maximum on use.
package ability

import (
	"fmt"

	"github.com/nathoo/battlecore/engine/combatant"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

// Messages for abilities that do not act.
const (
	MsgOnCooldown = "Special ability is on cooldown!"
	MsgNone       = "No special ability available!"
)

// Outcome is the result of one special-ability attempt.
type Outcome struct {
	Used    bool // false only when the ability was on cooldown
	Message string
	Hit     *types.Hit // set for strike abilities
	Effect  *types.StatusEffect
}

// Resolver maps a combatant's class to its ability descriptor.
type Resolver struct {
	defs *state.Defs
	rng  combatant.Roller
}

// NewResolver creates a resolver over the ability table in defs.
// rng drives secondary-effect chance rolls.
func NewResolver(defs *state.Defs, rng combatant.Roller) *Resolver {
	return &Resolver{defs: defs, rng: rng}
}

// Ready reports whether c can use its special ability this turn.
func Ready(c *combatant.Combatant) bool {
	return c.SpecialCooldown == 0
}

// Use resolves user's special ability against target. On cooldown it
// changes nothing and reports failure. Otherwise the cooldown is reset
// before the effect resolves.
func (r *Resolver) Use(user, target *combatant.Combatant) Outcome {
	if !Ready(user) {
		return Outcome{Message: MsgOnCooldown}
	}
	user.SpecialCooldown = user.MaxSpecialCooldown

	def := r.defs.Ability(user.Class)
	out := Outcome{Used: true}

	switch def.Kind {
	case types.AbilityStrike:
		hit := target.TakeDamage(scaled(user.Attack, def.Multiplier))
		out.Hit = &hit
		out.Message = fmt.Sprintf("%s uses %s and deals %d damage!%s",
			user.Name, def.Name, hit.Amount, qualifierSuffix(hit.Qualifier))

	case types.AbilityStealth:
		user.EnterStealth(def.StealthTurns)
		user.CritChance = def.CritChance
		out.Message = fmt.Sprintf("%s enters Stealth mode!", user.Name)

	case types.AbilityHeal:
		amount := user.Heal(scaled(user.Attack, def.Multiplier))
		out.Message = fmt.Sprintf("%s uses %s and heals for %d!", user.Name, def.Name, amount)

	default:
		out.Message = MsgNone
		return out
	}

	if eff, recipient := r.secondary(def.Secondary, user, target); eff != nil {
		recipient.AddEffect(*eff)
		out.Effect = eff
		out.Message += effectSuffix(eff.Kind, recipient.Name)
	}
	return out
}

// secondary rolls an ability's secondary effect and picks its recipient.
// A chance of 1 or more always lands and draws nothing.
func (r *Resolver) secondary(sec *types.SecondaryDef, user, target *combatant.Combatant) (*types.StatusEffect, *combatant.Combatant) {
	if sec == nil || sec.Turns <= 0 {
		return nil, nil
	}
	if sec.Chance < 1 && (r.rng == nil || r.rng.Float64() >= sec.Chance) {
		return nil, nil
	}
	recipient := target
	if sec.Target == types.TargetSelf {
		recipient = user
	}
	return &types.StatusEffect{
		Kind:           sec.Kind,
		TurnsRemaining: sec.Turns,
		Magnitude:      sec.Magnitude,
	}, recipient
}

// scaled applies a multiplier to a stat, flooring the result.
func scaled(stat int, mult float64) int {
	return int(float64(stat) * mult)
}

func qualifierSuffix(q types.Qualifier) string {
	switch q {
	case types.Critical:
		return " CRITICAL!"
	case types.Dodged:
		return " DODGE!"
	}
	return ""
}

func effectSuffix(kind types.EffectKind, name string) string {
	switch kind {
	case types.Burn:
		return fmt.Sprintf(" %s is burning!", name)
	case types.Bless:
		return fmt.Sprintf(" %s is blessed!", name)
	}
	return ""
}
