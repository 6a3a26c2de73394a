package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

func finishedBattle(t *testing.T) (*engine.Session, *engine.RNG) {
	t.Helper()
	rng := engine.NewRNG(42)
	s := engine.NewBattle(state.DefaultDefs(), types.Archer, rng)
	for i := 0; i < 500 && !s.IsOver(); i++ {
		s.ExecuteTurn(types.ActionAttack)
	}
	if !s.IsOver() {
		t.Fatal("battle did not finish")
	}
	return s, rng
}

func TestBuild(t *testing.T) {
	s, rng := finishedBattle(t)

	r := Build(s, rng)
	if r.Version != FormatVersion {
		t.Errorf("version = %q", r.Version)
	}
	if r.Class != "Archer" {
		t.Errorf("class = %q", r.Class)
	}
	if r.Outcome != s.State.String() || r.Outcome == "in_progress" {
		t.Errorf("outcome = %q", r.Outcome)
	}
	if r.Turns != s.TurnNumber {
		t.Errorf("turns = %d, want %d", r.Turns, s.TurnNumber)
	}
	if r.Seed != 42 || r.Draws != rng.Position() || r.Draws == 0 {
		t.Errorf("seed/draws = %d/%d", r.Seed, r.Draws)
	}
	if len(r.Log) != len(s.Log) {
		t.Errorf("log len = %d, want %d", len(r.Log), len(s.Log))
	}
	r.Log[0] = "mutated"
	if s.Log[0] == "mutated" {
		t.Error("report log aliases the session log")
	}
}

func TestBuild_NilRNG(t *testing.T) {
	s, _ := finishedBattle(t)
	r := Build(s, nil)
	if r.Seed != 0 || r.Draws != 0 {
		t.Errorf("seed/draws = %d/%d, want zero", r.Seed, r.Draws)
	}
}

func TestMarshalParse(t *testing.T) {
	s, rng := finishedBattle(t)

	data, err := Marshal(Build(s, rng))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	r, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Turns != s.TurnNumber || r.Player.Health != s.Player.Health {
		t.Errorf("parsed = %+v", r)
	}
}

func TestMarshal_FieldNames(t *testing.T) {
	s, rng := finishedBattle(t)
	data, err := Marshal(Build(s, rng))
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"version", "class", "outcome", "turns", "player", "enemy", "seed", "draws", "log"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	player := raw["player"].(map[string]any)
	if _, ok := player["max_health"]; !ok {
		t.Error("player snapshot missing max_health")
	}
}

func TestParse_NormalizesNil(t *testing.T) {
	r, err := Parse([]byte(`{"version":"1","turns":3}`))
	if err != nil {
		t.Fatal(err)
	}
	if r.Log == nil || r.Player.Effects == nil || r.Enemy.Effects == nil {
		t.Error("nil slices after Parse")
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("expected error")
	}
}

func TestWrite(t *testing.T) {
	s, rng := finishedBattle(t)
	path := filepath.Join(t.TempDir(), "battle.json")

	if err := Write(path, s, rng); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	r, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if r.Class != "Archer" {
		t.Errorf("class = %q", r.Class)
	}
}

func TestWrite_BadPath(t *testing.T) {
	s, rng := finishedBattle(t)
	path := filepath.Join(t.TempDir(), "missing", "battle.json")
	if err := Write(path, s, rng); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRead(t *testing.T) {
	s, rng := finishedBattle(t)
	path := filepath.Join(t.TempDir(), "battle.json")
	if err := Write(path, s, rng); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if r.Turns != s.TurnNumber || len(r.Log) != len(s.Log) {
		t.Errorf("turns/log = %d/%d, want %d/%d", r.Turns, len(r.Log), s.TurnNumber, len(s.Log))
	}

	lines := r.Lines()
	if len(lines) != 4+len(s.Log) {
		t.Fatalf("Lines() len = %d, want %d", len(lines), 4+len(s.Log))
	}
	wantHeader := fmt.Sprintf("Archer battle: %s after %d turn(s) (seed 42, %d draws)",
		s.State, s.TurnNumber, rng.Position())
	if lines[0] != wantHeader {
		t.Errorf("header = %q, want %q", lines[0], wantHeader)
	}
	if lines[len(lines)-1] != s.Log[len(s.Log)-1] {
		t.Errorf("last line = %q", lines[len(lines)-1])
	}
}

func TestRead_Missing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing report")
	}
}
