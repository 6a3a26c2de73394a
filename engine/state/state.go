// Package state holds the immutable battle definitions: the base stat
// table, the special-ability table, and battle-wide rules.
package state

import (
	"strings"

	"github.com/nathoo/battlecore/types"
)

// Defs holds the immutable battle definitions, built in or loaded from Lua.
type Defs struct {
	Classes   map[types.ClassTag]types.ClassDef
	Abilities map[types.ClassTag]types.AbilityDef
	Rules     types.RulesDef
}

// Default combatant constants.
const (
	DefaultMaxCooldown = 3
	DefaultCritChance  = 0.1
	DefaultDodgeChance = 0.05
	DefaultRecentLog   = 5
)

// DefaultRules returns the built-in battle rules.
func DefaultRules() types.RulesDef {
	return types.RulesDef{
		CritMultiplier:     1.5,
		EnemySpecialChance: 0.3,
		XPReward:           50,
		BaseXPToNext:       100,
		XPGrowth:           1.5,
		RecentLog:          DefaultRecentLog,
	}
}

// DefaultDefs returns the built-in base stat table and ability table.
// Every call returns a fresh copy that callers may modify.
func DefaultDefs() *Defs {
	classes := map[types.ClassTag]types.ClassDef{
		types.Warrior: baseClass(types.Warrior, 120, 15, 10, types.GrowthDef{Health: 15, Attack: 2, Defense: 2}),
		types.Mage:    baseClass(types.Mage, 80, 20, 5, types.GrowthDef{Health: 8, Attack: 3, Defense: 1}),
		types.Archer:  baseClass(types.Archer, 100, 18, 8, types.GrowthDef{Health: 10, Attack: 2, Defense: 1}),
		types.Rogue:   baseClass(types.Rogue, 90, 17, 6, types.GrowthDef{Health: 8, Attack: 2, Defense: 1, CritChance: 0.02}),
		types.Paladin: baseClass(types.Paladin, 110, 14, 12, types.GrowthDef{Health: 12, Attack: 1, Defense: 2}),
		types.Enemy:   baseClass(types.Enemy, 100, 12, 8, types.GrowthDef{}),
	}

	abilities := map[types.ClassTag]types.AbilityDef{
		types.Warrior: {Name: "Berserker Rage", Kind: types.AbilityStrike, Multiplier: 2},
		types.Mage: {
			Name: "Fireball", Kind: types.AbilityStrike, Multiplier: 1.5,
			Secondary: &types.SecondaryDef{Kind: types.Burn, Target: types.TargetFoe, Chance: 0.5, Turns: 3, Magnitude: 5},
		},
		types.Archer: {Name: "Precision Shot", Kind: types.AbilityStrike, Multiplier: 2.5},
		types.Rogue:  {Name: "Stealth", Kind: types.AbilityStealth, StealthTurns: 2, CritChance: 0.5},
		types.Paladin: {
			Name: "Holy Light", Kind: types.AbilityHeal, Multiplier: 1.5,
			Secondary: &types.SecondaryDef{Kind: types.Bless, Target: types.TargetSelf, Chance: 1, Turns: 2, Magnitude: 5},
		},
		types.Enemy: {Name: "None", Kind: types.AbilityNone},
	}

	return &Defs{
		Classes:   classes,
		Abilities: abilities,
		Rules:     DefaultRules(),
	}
}

func baseClass(tag types.ClassTag, health, attack, defense int, growth types.GrowthDef) types.ClassDef {
	return types.ClassDef{
		Tag:         tag,
		Name:        tag.String(),
		Health:      health,
		Attack:      attack,
		Defense:     defense,
		CritChance:  DefaultCritChance,
		DodgeChance: DefaultDodgeChance,
		MaxCooldown: DefaultMaxCooldown,
		Growth:      growth,
	}
}

// Class returns the base stats for a class tag.
func (d *Defs) Class(tag types.ClassTag) (types.ClassDef, bool) {
	def, ok := d.Classes[tag]
	return def, ok
}

// Ability returns the special-ability descriptor for a class tag.
// Missing entries resolve to an ability that does nothing.
func (d *Defs) Ability(tag types.ClassTag) types.AbilityDef {
	if def, ok := d.Abilities[tag]; ok {
		return def
	}
	return types.AbilityDef{Name: "None", Kind: types.AbilityNone}
}

// LookupClass maps a class name (case-insensitive) to its tag.
func LookupClass(name string) (types.ClassTag, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, tag := range types.AllClasses {
		if strings.ToLower(tag.String()) == name {
			return tag, true
		}
	}
	return 0, false
}
