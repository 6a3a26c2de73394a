package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known ability kinds.
var validAbilityKinds = map[types.AbilityKind]bool{
	types.AbilityStrike:  true,
	types.AbilityStealth: true,
	types.AbilityHeal:    true,
	types.AbilityNone:    true,
}

// Known effect kinds and their usual recipients.
var validEffectKinds = map[types.EffectKind]types.EffectTarget{
	types.Burn:  types.TargetFoe,
	types.Bless: types.TargetSelf,
}

// validate checks the compiled defs for completeness and stat ranges.
// Warnings are returned even when validation passes.
func validate(defs *state.Defs) ([]string, error) {
	ve := &ValidationError{}

	// Every class tag needs a stat row and an ability.
	for _, tag := range types.AllClasses {
		class, ok := defs.Classes[tag]
		if !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %v has no stat definition", tag))
		} else {
			validateClass(tag, class, ve)
		}

		ab, ok := defs.Abilities[tag]
		if !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %v has no ability definition", tag))
		} else {
			validateAbility(tag, ab, ve)
		}
	}

	validateRules(defs.Rules, ve)

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

func validateClass(tag types.ClassTag, c types.ClassDef, ve *ValidationError) {
	if c.Health <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("class %v health must be > 0, got %d", tag, c.Health))
	}
	if c.Attack < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("class %v attack must be >= 0, got %d", tag, c.Attack))
	}
	if c.Defense < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("class %v defense must be >= 0, got %d", tag, c.Defense))
	}
	if c.MaxCooldown < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("class %v max_cooldown must be >= 0, got %d", tag, c.MaxCooldown))
	}
	checkChance(ve, fmt.Sprintf("class %v crit_chance", tag), c.CritChance)
	checkChance(ve, fmt.Sprintf("class %v dodge_chance", tag), c.DodgeChance)

	if c.Growth.Health < 0 || c.Growth.Attack < 0 || c.Growth.Defense < 0 || c.Growth.CritChance < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("class %v growth must not be negative", tag))
	}
	if c.Attack == 0 {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf("class %v has 0 attack and always deals the minimum", tag))
	}
}

func validateAbility(tag types.ClassTag, a types.AbilityDef, ve *ValidationError) {
	if !validAbilityKinds[a.Kind] {
		ve.Errors = append(ve.Errors, fmt.Sprintf("ability for %v has unknown kind %q", tag, a.Kind))
		return
	}

	switch a.Kind {
	case types.AbilityStrike, types.AbilityHeal:
		if a.Multiplier <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"ability %q for %v: multiplier must be > 0, got %g", a.Name, tag, a.Multiplier))
		}
	case types.AbilityStealth:
		if a.StealthTurns <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"ability %q for %v: stealth turns must be > 0, got %d", a.Name, tag, a.StealthTurns))
		}
		checkChance(ve, fmt.Sprintf("ability %q for %v crit_chance", a.Name, tag), a.CritChance)
	case types.AbilityNone:
		if a.Secondary != nil {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"ability for %v has kind none; its secondary effect never applies", tag))
		}
		return
	}

	if a.Secondary == nil {
		return
	}
	sec := a.Secondary
	usual, ok := validEffectKinds[sec.Kind]
	if !ok {
		ve.Errors = append(ve.Errors, fmt.Sprintf("ability %q for %v: unknown effect %q", a.Name, tag, sec.Kind))
		return
	}
	if sec.Target != types.TargetSelf && sec.Target != types.TargetFoe {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"ability %q for %v: effect target must be self or foe, got %q", a.Name, tag, sec.Target))
	} else if sec.Target != usual {
		ve.Warnings = append(ve.Warnings, fmt.Sprintf(
			"ability %q for %v: %s usually targets %s, not %s", a.Name, tag, sec.Kind, usual, sec.Target))
	}
	if sec.Turns <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"ability %q for %v: effect turns must be > 0, got %d", a.Name, tag, sec.Turns))
	}
	if sec.Magnitude < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"ability %q for %v: effect magnitude must be >= 0, got %d", a.Name, tag, sec.Magnitude))
	}
	checkChance(ve, fmt.Sprintf("ability %q for %v effect chance", a.Name, tag), sec.Chance)
}

func validateRules(r types.RulesDef, ve *ValidationError) {
	if r.CritMultiplier < 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("crit_multiplier must be >= 1, got %g", r.CritMultiplier))
	}
	checkChance(ve, "enemy_special_chance", r.EnemySpecialChance)
	if r.XPReward < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("xp_reward must be >= 0, got %d", r.XPReward))
	}
	if r.BaseXPToNext <= 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("base_xp_to_next must be > 0, got %d", r.BaseXPToNext))
	}
	if r.XPGrowth < 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("xp_growth must be >= 1, got %g", r.XPGrowth))
	}
	if r.RecentLog < 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("recent_log must be >= 0, got %d", r.RecentLog))
	}
}

func checkChance(ve *ValidationError, what string, p float64) {
	if p < 0 || p > 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s must be in [0,1], got %g", what, p))
	}
}
