package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New("", "info")
	if err != nil {
		t.Fatal(err)
	}
	if logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("empty path should give a no-op logger")
	}
}

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.log")
	logger, err := New(path, "debug")
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("battle started", zap.String("class", "Mage"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "battle started") || !strings.Contains(out, "Mage") {
		t.Errorf("log = %q", out)
	}
}

func TestNew_BadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.log")
	if _, err := New(path, "loud"); err == nil {
		t.Error("expected error for bad level")
	}
}

func TestTurnObserver_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := TurnObserver(zap.New(core))

	h(types.Event{Type: types.EventHit, Data: map[string]any{"target": "Enemy", "amount": 7, "turn": 1}})
	h(types.Event{Type: types.EventDefeated, Data: map[string]any{"target": "Enemy", "turn": 3}})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel || entries[0].Message != types.EventHit {
		t.Errorf("entry 0 = %v %q", entries[0].Level, entries[0].Message)
	}
	ctx := entries[0].ContextMap()
	if ctx["amount"] != int64(7) || ctx["target"] != "Enemy" {
		t.Errorf("context = %v", ctx)
	}
	if entries[1].Level != zapcore.InfoLevel {
		t.Errorf("defeat logged at %v", entries[1].Level)
	}
}

func TestTurnObserver_WiredToSession(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := engine.NewBattle(state.DefaultDefs(), types.Warrior, engine.NewRNG(3))
	s.OnEvent(TurnObserver(zap.New(core)))

	for !s.IsOver() {
		s.ExecuteTurn(types.ActionAttack)
	}

	if logs.FilterMessage(types.EventDefeated).Len() != 1 {
		t.Errorf("defeat entries = %d, want 1", logs.FilterMessage(types.EventDefeated).Len())
	}
	for _, e := range logs.All() {
		if _, ok := e.ContextMap()["turn"]; !ok {
			t.Errorf("entry %q missing turn", e.Message)
		}
	}
}

func TestFields_SortedKeys(t *testing.T) {
	fields := Fields(types.Event{Data: map[string]any{"b": 1, "a": "x", "c": true, "d": 1.5}})
	var keys []string
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	if strings.Join(keys, ",") != "a,b,c,d" {
		t.Errorf("keys = %v", keys)
	}
}
