package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Rules { crit_multiplier = 1.5, ... }. Later calls override earlier keys.
	L.SetGlobal("Rules", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.rules == nil {
			coll.rules = L.NewTable()
		}
		tbl.ForEach(func(k, v lua.LValue) {
			coll.rules.RawSet(k, v)
		})
		return 0
	}))

	// Class "warrior" { ... }: curried. Class("id") returns a function that takes a table.
	L.SetGlobal("Class", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.classes = append(coll.classes, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))

	// Ability "mage" { ... }: curried.
	L.SetGlobal("Ability", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.abilities = append(coll.abilities, rawDef{id: id, table: tbl, order: coll.nextSourceOrder()})
			return 0
		}))
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Burn { chance = 0.5, turns = 3, damage = 5 }: lands on the foe.
	L.SetGlobal("Burn", L.NewFunction(func(L *lua.LState) int {
		tbl := L.OptTable(1, L.NewTable())
		L.Push(effectTable(L, "burn", "foe", tbl, "damage"))
		return 1
	}))

	// Bless { turns = 2, bonus = 5 }: lands on the user.
	L.SetGlobal("Bless", L.NewFunction(func(L *lua.LState) int {
		tbl := L.OptTable(1, L.NewTable())
		L.Push(effectTable(L, "bless", "self", tbl, "bonus"))
		return 1
	}))
}

// effectTable normalizes a secondary-effect helper's arguments into a
// tagged table. magnitudeKey names the kind-specific magnitude field.
func effectTable(L *lua.LState, kind, target string, args *lua.LTable, magnitudeKey string) *lua.LTable {
	out := L.NewTable()
	out.RawSetString("type", lua.LString(kind))
	out.RawSetString("target", lua.LString(target))
	out.RawSetString("chance", lua.LNumber(1))
	args.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) == magnitudeKey {
			out.RawSetString("magnitude", v)
			return
		}
		out.RawSet(k, v)
	})
	return out
}
