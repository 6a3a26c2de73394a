package combatant

import "github.com/nathoo/battlecore/types"

// AddEffect attaches a status effect after any already active.
func (c *Combatant) AddEffect(eff types.StatusEffect) {
	if eff.TurnsRemaining <= 0 {
		return
	}
	c.Effects = append(c.Effects, eff)
	c.emit(types.EventEffectApplied, map[string]any{
		"target": c.Name,
		"kind":   string(eff.Kind),
		"turns":  eff.TurnsRemaining,
	})
}

// EffectiveDefense is base defense plus every active Bless bonus.
func (c *Combatant) EffectiveDefense() int {
	d := c.Defense
	for _, eff := range c.Effects {
		if eff.Kind == types.Bless {
			d += eff.Magnitude
		}
	}
	if d < 0 {
		d = 0
	}
	return d
}

// ApplyEffects runs one tick of every active effect in application order,
// then builds the next effect list from the ticked snapshot. Effects that
// reach zero turns are dropped.
func (c *Combatant) ApplyEffects() []types.EffectTick {
	if len(c.Effects) == 0 {
		return nil
	}

	current := make([]types.StatusEffect, len(c.Effects))
	copy(current, c.Effects)

	ticks := make([]types.EffectTick, 0, len(current))
	next := make([]types.StatusEffect, 0, len(current))
	for _, eff := range current {
		tick := types.EffectTick{Kind: eff.Kind}

		switch eff.Kind {
		case types.Burn:
			// Burn bypasses dodge, crit, and defense.
			c.lose(eff.Magnitude)
			tick.Amount = eff.Magnitude
			c.emit(types.EventEffectTick, map[string]any{
				"target": c.Name,
				"kind":   string(eff.Kind),
				"amount": eff.Magnitude,
			})
		case types.Bless:
			// Read through EffectiveDefense while active.
		}

		eff.TurnsRemaining--
		if eff.TurnsRemaining > 0 {
			next = append(next, eff)
		} else {
			tick.Expired = true
			c.emit(types.EventEffectExpired, map[string]any{
				"target": c.Name,
				"kind":   string(eff.Kind),
			})
		}
		ticks = append(ticks, tick)
	}

	c.Effects = next
	return ticks
}
