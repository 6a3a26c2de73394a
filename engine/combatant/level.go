package combatant

import "github.com/nathoo/battlecore/types"

// Progress tracks experience and level.
type Progress struct {
	Level    int
	XP       int
	XPToNext int
	growth   float64
}

// NewProgress starts at level 1 with no experience.
func NewProgress(rules types.RulesDef) Progress {
	toNext := rules.BaseXPToNext
	if toNext <= 0 {
		toNext = 100
	}
	growth := rules.XPGrowth
	if growth < 1 {
		growth = 1.5
	}
	return Progress{Level: 1, XPToNext: toNext, growth: growth}
}

// AddXP adds experience and returns the number of levels gained.
// Each level costs XPToNext, which then grows by the growth factor.
func (p *Progress) AddXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.XP += amount
	gained := 0
	for p.XPToNext > 0 && p.XP >= p.XPToNext {
		p.XP -= p.XPToNext
		p.Level++
		p.XPToNext = int(float64(p.XPToNext) * p.growth)
		gained++
	}
	return gained
}

// GainXP awards experience and applies class growth once per level gained.
// A level-up refills health.
func (c *Combatant) GainXP(amount int) int {
	gained := c.Progress.AddXP(amount)
	for i := 0; i < gained; i++ {
		c.MaxHealth += c.Growth.Health
		c.Attack += c.Growth.Attack
		c.Defense += c.Growth.Defense
		c.CritChance += c.Growth.CritChance
		if c.CritChance > 1 {
			c.CritChance = 1
		}
	}
	if gained > 0 {
		c.Health = c.MaxHealth
		c.emit(types.EventLevelUp, map[string]any{
			"target": c.Name,
			"level":  c.Progress.Level,
		})
	}
	return gained
}
