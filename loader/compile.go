// Package loader loads Lua roster scripts into battle definitions.
// The Lua VM is discarded after loading; nothing runs in Lua during a battle.
package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds a Class or Ability table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
	order int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// has reports whether key is set to a non-nil value.
func has(tbl *lua.LTable, key string) bool {
	return tbl.RawGetString(key) != lua.LNil
}

// setInt overwrites *dst when key is present.
func setInt(tbl *lua.LTable, key string, dst *int) {
	if has(tbl, key) {
		*dst = int(getNumber(tbl, key))
	}
}

// setFloat overwrites *dst when key is present.
func setFloat(tbl *lua.LTable, key string, dst *float64) {
	if has(tbl, key) {
		*dst = getNumber(tbl, key)
	}
}

// setString overwrites *dst when key is present.
func setString(tbl *lua.LTable, key string, dst *string) {
	if has(tbl, key) {
		*dst = getString(tbl, key)
	}
}

// compile applies the collected Lua data over base and returns base.
// Only keys present in a script change a definition.
func compile(coll *collector, base *state.Defs) (*state.Defs, error) {
	// Rules.
	if coll.rules != nil {
		compileRules(coll.rules, &base.Rules)
	}

	// Classes, in source order.
	for _, raw := range coll.classes {
		tag, err := lookupTag(raw.id)
		if err != nil {
			return nil, fmt.Errorf("compiling class %s: %w", raw.id, err)
		}
		def := base.Classes[tag]
		def.Tag = tag
		compileClass(raw.table, &def)
		base.Classes[tag] = def
	}

	// Abilities.
	for _, raw := range coll.abilities {
		tag, err := lookupTag(raw.id)
		if err != nil {
			return nil, fmt.Errorf("compiling ability %s: %w", raw.id, err)
		}
		def := base.Abilities[tag]
		if err := compileAbility(raw.table, &def); err != nil {
			return nil, fmt.Errorf("compiling ability %s: %w", raw.id, err)
		}
		base.Abilities[tag] = def
	}

	return base, nil
}

func lookupTag(id string) (types.ClassTag, error) {
	tag, ok := state.LookupClass(id)
	if !ok {
		return 0, fmt.Errorf("unknown class %q", id)
	}
	return tag, nil
}

func compileRules(tbl *lua.LTable, r *types.RulesDef) {
	setFloat(tbl, "crit_multiplier", &r.CritMultiplier)
	setFloat(tbl, "enemy_special_chance", &r.EnemySpecialChance)
	setInt(tbl, "xp_reward", &r.XPReward)
	setInt(tbl, "base_xp_to_next", &r.BaseXPToNext)
	setFloat(tbl, "xp_growth", &r.XPGrowth)
	setInt(tbl, "recent_log", &r.RecentLog)
}

func compileClass(tbl *lua.LTable, def *types.ClassDef) {
	setString(tbl, "name", &def.Name)
	setInt(tbl, "health", &def.Health)
	setInt(tbl, "attack", &def.Attack)
	setInt(tbl, "defense", &def.Defense)
	setFloat(tbl, "crit_chance", &def.CritChance)
	setFloat(tbl, "dodge_chance", &def.DodgeChance)
	setInt(tbl, "max_cooldown", &def.MaxCooldown)

	if growth := getTable(tbl, "growth"); growth != nil {
		setInt(growth, "health", &def.Growth.Health)
		setInt(growth, "attack", &def.Growth.Attack)
		setInt(growth, "defense", &def.Growth.Defense)
		setFloat(growth, "crit_chance", &def.Growth.CritChance)
	}
	if def.Name == "" {
		def.Name = def.Tag.String()
	}
}

func compileAbility(tbl *lua.LTable, def *types.AbilityDef) error {
	setString(tbl, "name", &def.Name)
	if has(tbl, "kind") {
		def.Kind = types.AbilityKind(strings.ToLower(getString(tbl, "kind")))
	}
	setFloat(tbl, "multiplier", &def.Multiplier)
	setInt(tbl, "turns", &def.StealthTurns)
	setFloat(tbl, "crit_chance", &def.CritChance)

	switch v := tbl.RawGetString("secondary").(type) {
	case *lua.LNilType:
		// Keep whatever the base had.
	case lua.LBool:
		if bool(v) {
			return fmt.Errorf("secondary = true is not an effect; use Burn{} or Bless{}")
		}
		def.Secondary = nil
	case *lua.LTable:
		def.Secondary = compileSecondary(v)
	default:
		return fmt.Errorf("secondary must be an effect table, got %s", v.Type())
	}
	return nil
}

func compileSecondary(tbl *lua.LTable) *types.SecondaryDef {
	sec := &types.SecondaryDef{
		Kind:   types.EffectKind(getString(tbl, "type")),
		Target: types.EffectTarget(getString(tbl, "target")),
		Chance: 1,
	}
	setFloat(tbl, "chance", &sec.Chance)
	setInt(tbl, "turns", &sec.Turns)
	setInt(tbl, "magnitude", &sec.Magnitude)
	return sec
}

// sortedLuaFiles returns .lua files with rules.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var rulesFile string
	var others []string
	for _, f := range files {
		if f == "rules.lua" {
			rulesFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if rulesFile != "" {
		return append([]string{rulesFile}, others...)
	}
	return others
}
