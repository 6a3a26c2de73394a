// Package types defines the shared data structures for the battle engine.
// This package contains only type definitions and their display names.
package types

// ClassTag identifies a combatant's class.
type ClassTag int

const (
	Warrior ClassTag = iota
	Mage
	Archer
	Rogue
	Paladin
	Enemy
)

// AllClasses lists every class tag in declaration order.
var AllClasses = []ClassTag{Warrior, Mage, Archer, Rogue, Paladin, Enemy}

// PlayableClasses lists the tags a player may select.
var PlayableClasses = []ClassTag{Warrior, Mage, Archer, Rogue, Paladin}

var classNames = [...]string{
	Warrior: "Warrior",
	Mage:    "Mage",
	Archer:  "Archer",
	Rogue:   "Rogue",
	Paladin: "Paladin",
	Enemy:   "Enemy",
}

func (c ClassTag) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "Unknown"
	}
	return classNames[c]
}

// Action is a combatant's choice for one turn.
type Action string

const (
	ActionAttack  Action = "attack"
	ActionSpecial Action = "special"
)

// BattleState is the battle's position in its state machine.
// PlayerVictory and EnemyVictory are absorbing.
type BattleState int

const (
	InProgress BattleState = iota
	PlayerVictory
	EnemyVictory
)

func (s BattleState) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case PlayerVictory:
		return "player_victory"
	case EnemyVictory:
		return "enemy_victory"
	}
	return "unknown"
}

// Qualifier describes how a damage roll resolved.
type Qualifier string

const (
	Normal   Qualifier = "normal"
	Critical Qualifier = "critical"
	Dodged   Qualifier = "dodged"
)

// Hit is the outcome of one damage application.
type Hit struct {
	Amount    int
	Qualifier Qualifier
}

// EffectKind tags a status effect.
type EffectKind string

const (
	Burn  EffectKind = "burn"
	Bless EffectKind = "bless"
)

// StatusEffect is a timed modifier owned by a single combatant.
// Burn: Magnitude is flat damage per tick. Bless: Magnitude is a defense bonus.
type StatusEffect struct {
	Kind           EffectKind `json:"kind"`
	TurnsRemaining int        `json:"turns_remaining"`
	Magnitude      int        `json:"magnitude"`
}

// EffectTick reports what one status effect did during a tick.
type EffectTick struct {
	Kind    EffectKind
	Amount  int  // damage dealt by the tick (Burn only)
	Expired bool // removed after this tick
}

// AbilityKind selects how a special ability resolves.
type AbilityKind string

const (
	AbilityStrike  AbilityKind = "strike"
	AbilityStealth AbilityKind = "stealth"
	AbilityHeal    AbilityKind = "heal"
	AbilityNone    AbilityKind = "none"
)

// EffectTarget says who receives an ability's secondary effect.
type EffectTarget string

const (
	TargetSelf EffectTarget = "self"
	TargetFoe  EffectTarget = "foe"
)

// SecondaryDef describes a status effect an ability may attach.
type SecondaryDef struct {
	Kind      EffectKind
	Target    EffectTarget
	Chance    float64 // probability in [0,1]
	Turns     int
	Magnitude int
}

// AbilityDef is the descriptor for a class's special ability.
type AbilityDef struct {
	Name         string
	Kind         AbilityKind
	Multiplier   float64 // applied to attack for strike and heal
	StealthTurns int     // stealth only
	CritChance   float64 // stealth only: new crit chance for the user
	Secondary    *SecondaryDef
}

// GrowthDef is the per-level stat gain for a class.
type GrowthDef struct {
	Health     int
	Attack     int
	Defense    int
	CritChance float64
}

// ClassDef is a row of the base stat table.
type ClassDef struct {
	Tag         ClassTag
	Name        string
	Health      int
	Attack      int
	Defense     int
	CritChance  float64
	DodgeChance float64
	MaxCooldown int
	Growth      GrowthDef
}

// RulesDef holds battle-wide constants.
type RulesDef struct {
	CritMultiplier     float64
	EnemySpecialChance float64
	XPReward           int
	BaseXPToNext       int
	XPGrowth           float64
	RecentLog          int
}

// Event is emitted by the engine for renderers and observers.
type Event struct {
	Type string
	Data map[string]any
}

// Event types.
const (
	EventHit           = "hit"
	EventDodge         = "dodge"
	EventHeal          = "heal"
	EventEffectApplied = "effect_applied"
	EventEffectTick    = "effect_tick"
	EventEffectExpired = "effect_expired"
	EventSpecial       = "special"
	EventLevelUp       = "level_up"
	EventDefeated      = "defeated"
)

// Snapshot is a read-only copy of a combatant's stats for redraw.
type Snapshot struct {
	Name               string         `json:"name"`
	Class              string         `json:"class"`
	Health             int            `json:"health"`
	MaxHealth          int            `json:"max_health"`
	Attack             int            `json:"attack"`
	Defense            int            `json:"defense"`
	EffectiveDefense   int            `json:"effective_defense"`
	SpecialCooldown    int            `json:"special_cooldown"`
	MaxSpecialCooldown int            `json:"max_special_cooldown"`
	CritChance         float64        `json:"crit_chance"`
	DodgeChance        float64        `json:"dodge_chance"`
	StealthActive      bool           `json:"stealth_active"`
	Effects            []StatusEffect `json:"effects"`
	Level              int            `json:"level"`
	XP                 int            `json:"xp"`
	XPToNext           int            `json:"xp_to_next"`
}

// TurnResult is the output of a single resolved turn.
type TurnResult struct {
	Turn          int
	Lines         []string // log lines appended during this turn
	State         BattleState
	Player        Snapshot
	Enemy         Snapshot
	Events        []Event
	SpecialFailed bool // player's special was on cooldown
}
