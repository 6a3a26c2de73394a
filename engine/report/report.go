// Package report implements the JSON export of a battle.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/types"
)

// FormatVersion is written into every report.
const FormatVersion = "1"

// Report is the JSON-serializable battle summary.
type Report struct {
	Version string         `json:"version"`
	Class   string         `json:"class"`
	Outcome string         `json:"outcome"`
	Turns   int            `json:"turns"`
	Player  types.Snapshot `json:"player"`
	Enemy   types.Snapshot `json:"enemy"`
	Seed    int64          `json:"seed"`
	Draws   int64          `json:"draws"`
	Log     []string       `json:"log"`
}

// Build captures a session. rng may be nil when the session was driven by
// a source without a seed.
func Build(s *engine.Session, rng *engine.RNG) Report {
	log := make([]string, len(s.Log))
	copy(log, s.Log)
	r := Report{
		Version: FormatVersion,
		Class:   s.Player.Class.String(),
		Outcome: s.State.String(),
		Turns:   s.TurnNumber,
		Player:  s.Player.Snapshot(),
		Enemy:   s.Enemy.Snapshot(),
		Log:     log,
	}
	if rng != nil {
		r.Seed = rng.Seed()
		r.Draws = rng.Position()
	}
	return r
}

// Marshal serializes a report to indented JSON.
func Marshal(r Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Parse deserializes JSON bytes into a Report.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	// Ensure slices are never nil after parsing.
	if r.Log == nil {
		r.Log = []string{}
	}
	if r.Player.Effects == nil {
		r.Player.Effects = []types.StatusEffect{}
	}
	if r.Enemy.Effects == nil {
		r.Enemy.Effects = []types.StatusEffect{}
	}
	return &r, nil
}

// Read loads a report written by Write.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	return Parse(data)
}

// Lines renders a report for the terminal: a header, both final
// snapshots, then the full battle log.
func (r *Report) Lines() []string {
	lines := []string{
		fmt.Sprintf("%s battle: %s after %d turn(s) (seed %d, %d draws)",
			r.Class, r.Outcome, r.Turns, r.Seed, r.Draws),
		snapshotLine(r.Player),
		snapshotLine(r.Enemy),
		"",
	}
	return append(lines, r.Log...)
}

func snapshotLine(s types.Snapshot) string {
	return fmt.Sprintf("  %s Lv%d  HP %d/%d  XP %d/%d",
		s.Name, s.Level, s.Health, s.MaxHealth, s.XP, s.XPToNext)
}

// Write builds a report for s and writes it to path.
func Write(path string, s *engine.Session, rng *engine.RNG) error {
	data, err := Marshal(Build(s, rng))
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
