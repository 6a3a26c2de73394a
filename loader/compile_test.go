package loader

import (
	"testing"

	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
	lua "github.com/yuin/gopher-lua"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func TestCompileClass_PartialOverride(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	if err := L.DoString(`return { defense = 3, growth = { crit_chance = 0.05 } }`); err != nil {
		t.Fatal(err)
	}
	def := state.DefaultDefs().Classes[types.Archer]
	compileClass(L.CheckTable(-1), &def)

	if def.Defense != 3 || def.Health != 100 || def.Attack != 18 {
		t.Errorf("def = %+v", def)
	}
	if def.Growth.CritChance != 0.05 || def.Growth.Health != 10 {
		t.Errorf("growth = %+v", def.Growth)
	}
}

func TestCompileClass_EmptyNameFallsBackToTag(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	if err := L.DoString(`return { name = "" }`); err != nil {
		t.Fatal(err)
	}
	def := types.ClassDef{Tag: types.Paladin, Name: "Paladin"}
	compileClass(L.CheckTable(-1), &def)
	if def.Name != "Paladin" {
		t.Errorf("name = %q", def.Name)
	}
}

func TestCompileAbility_Kinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want types.AbilityKind
	}{
		{"strike", `return { kind = "strike", multiplier = 3 }`, types.AbilityStrike},
		{"uppercase", `return { kind = "HEAL", multiplier = 1 }`, types.AbilityHeal},
		{"none", `return { kind = "none" }`, types.AbilityNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L, _ := newTestVM()
			defer L.Close()
			if err := L.DoString(tt.src); err != nil {
				t.Fatal(err)
			}
			var def types.AbilityDef
			if err := compileAbility(L.CheckTable(-1), &def); err != nil {
				t.Fatal(err)
			}
			if def.Kind != tt.want {
				t.Errorf("kind = %q, want %q", def.Kind, tt.want)
			}
		})
	}
}

func TestCompileAbility_SecondaryErrors(t *testing.T) {
	for _, src := range []string{
		`return { secondary = true }`,
		`return { secondary = "burn" }`,
	} {
		L, _ := newTestVM()
		if err := L.DoString(src); err != nil {
			t.Fatal(err)
		}
		var def types.AbilityDef
		if err := compileAbility(L.CheckTable(-1), &def); err == nil {
			t.Errorf("%s: expected error", src)
		}
		L.Close()
	}
}

func TestEffectHelpers(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	if err := L.DoString(`return Burn { damage = 4, turns = 2 }, Bless {}`); err != nil {
		t.Fatal(err)
	}
	burn := compileSecondary(L.CheckTable(-2))
	bless := compileSecondary(L.CheckTable(-1))

	want := types.SecondaryDef{Kind: types.Burn, Target: types.TargetFoe, Chance: 1, Turns: 2, Magnitude: 4}
	if *burn != want {
		t.Errorf("burn = %+v, want %+v", *burn, want)
	}
	if bless.Kind != types.Bless || bless.Target != types.TargetSelf || bless.Chance != 1 {
		t.Errorf("bless = %+v", *bless)
	}
}

func TestRules_MergeAcrossCalls(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Rules { xp_reward = 10, recent_log = 3 }
		Rules { xp_reward = 20 }
	`); err != nil {
		t.Fatal(err)
	}
	defs, err := compile(coll, state.DefaultDefs())
	if err != nil {
		t.Fatal(err)
	}
	if defs.Rules.XPReward != 20 || defs.Rules.RecentLog != 3 {
		t.Errorf("rules = %+v", defs.Rules)
	}
	if defs.Rules.CritMultiplier != 1.5 {
		t.Error("unset rule lost its default")
	}
}

func TestSourceOrder_AutoIncrement(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Class "warrior" { attack = 1 }
		Ability "mage" { multiplier = 2 }
		Class "mage" { attack = 2 }
	`); err != nil {
		t.Fatal(err)
	}
	if len(coll.classes) != 2 || len(coll.abilities) != 1 {
		t.Fatalf("collected %d classes, %d abilities", len(coll.classes), len(coll.abilities))
	}
	if coll.classes[0].order != 1 || coll.abilities[0].order != 2 || coll.classes[1].order != 3 {
		t.Errorf("orders = %d, %d, %d", coll.classes[0].order, coll.abilities[0].order, coll.classes[1].order)
	}
}

func TestSandbox_RemovesRandom(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()
	if err := L.DoString(`return math.random(1, 6)`); err == nil {
		t.Error("math.random should be unavailable")
	}
}

func TestSortedLuaFiles(t *testing.T) {
	got := sortedLuaFiles([]string{"z.lua", "rules.lua", "a.lua"})
	want := []string{"rules.lua", "a.lua", "z.lua"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
