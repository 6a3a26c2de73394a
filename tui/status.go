package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/battlecore/cli"
	"github.com/nathoo/battlecore/types"
)

// renderStatusBar produces a full-width inverted status line showing the
// player's class, level, XP, special readiness, and the turn count.
func (m Model) renderStatusBar() string {
	if m.session == nil {
		return styleStatusBar.Width(m.width).Render(" Choose your class (1-5)")
	}
	s := m.session
	p := s.Player.Snapshot()

	left := fmt.Sprintf(" %s Lv%d | XP %d/%d | %s", p.Name, p.Level, p.XP, p.XPToNext,
		cli.SpecialHint(p, m.defs, s.Player.Class))
	right := fmt.Sprintf("T:%d ", s.TurnNumber)
	if s.IsOver() {
		right = fmt.Sprintf("%s | T:%d ", s.State, s.TurnNumber)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderPanel draws one combatant's name, health bar, cooldown, and effects.
func (m Model) renderPanel(s types.Snapshot, bar string, flash bool) string {
	name := styleName.Render(s.Name)
	if flash {
		name = styleFlash.Render(s.Name + " *")
	}

	cd := styleReady.Render("Special READY")
	if s.SpecialCooldown > 0 {
		cd = fmt.Sprintf("Special in %d", s.SpecialCooldown)
	}

	line := fmt.Sprintf("%s  %s %3d/%-3d  %s", name, bar, s.Health, s.MaxHealth, cd)
	if tags := cli.EffectTags(s); tags != "" {
		line += "  " + styleEffect.Render(tags)
	}
	return line
}

// renderPanels draws both combatants above the log.
func (m Model) renderPanels() string {
	if m.session == nil {
		return ""
	}
	p := m.session.Player.Snapshot()
	e := m.session.Enemy.Snapshot()
	return m.renderPanel(p, m.playerBar.View(), m.flashPlayer) + "\n" +
		m.renderPanel(e, m.enemyBar.View(), m.flashEnemy)
}
