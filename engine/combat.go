package engine

import (
	"fmt"

	"github.com/nathoo/battlecore/engine/ability"
	"github.com/nathoo/battlecore/engine/combatant"
	"github.com/nathoo/battlecore/types"
)

// EnemyTurn selects the enemy's action. With the special ready it is used
// with probability rules.EnemySpecialChance; otherwise the enemy attacks.
// No roll is drawn while the special is cooling down.
func EnemyTurn(enemy *combatant.Combatant, rules types.RulesDef, rng combatant.Roller) types.Action {
	if !ability.Ready(enemy) || rng == nil {
		return types.ActionAttack
	}
	if rng.Float64() < rules.EnemySpecialChance {
		return types.ActionSpecial
	}
	return types.ActionAttack
}

// basicAttack hits defender with attacker's attack power and returns the
// log line describing it.
func basicAttack(attacker, defender *combatant.Combatant) string {
	hit := defender.TakeDamage(attacker.Attack)
	return attackLine(attacker.Name, hit)
}

func attackLine(name string, hit types.Hit) string {
	line := fmt.Sprintf("%s attacks for %d damage!", name, hit.Amount)
	switch hit.Qualifier {
	case types.Critical:
		line += " CRITICAL!"
	case types.Dodged:
		line += " DODGE!"
	}
	return line
}

// tickLines renders effect ticks for the log.
func tickLines(name string, ticks []types.EffectTick) []string {
	var lines []string
	for _, tk := range ticks {
		if tk.Kind == types.Burn && tk.Amount > 0 {
			lines = append(lines, fmt.Sprintf("%s takes %d burn damage!", name, tk.Amount))
		}
		if tk.Expired {
			lines = append(lines, fmt.Sprintf("%s's %s wore off.", name, tk.Kind))
		}
	}
	return lines
}
