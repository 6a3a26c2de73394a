package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/nathoo/battlecore/cli"
	"github.com/nathoo/battlecore/engine"
	"github.com/nathoo/battlecore/engine/combatant"
	"github.com/nathoo/battlecore/engine/events"
	"github.com/nathoo/battlecore/engine/parser"
	"github.com/nathoo/battlecore/engine/state"
	"github.com/nathoo/battlecore/types"
)

const (
	barWidth      = 24
	flashDuration = 350 * time.Millisecond
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Options configures a TUI session.
type Options struct {
	Class     *types.ClassTag // skip the class menu when set
	Trace     bool
	RecentLog int
	OnFinish  func(*engine.Session)
	Observers []events.Handler
}

// Model is the Bubble Tea model for the battlecore TUI.
type Model struct {
	defs    *state.Defs
	rng     combatant.Roller
	session *engine.Session // nil until a class is chosen

	viewport  viewport.Model
	input     textinput.Model
	history   *cli.History
	playerBar progress.Model
	enemyBar  progress.Model

	rawLines []rawLine // accumulated battle lines (unstyled, for re-wrapping)

	width       int
	height      int
	ready       bool
	trace       bool
	quitting    bool
	finished    bool
	flashPlayer bool
	flashEnemy  bool
	recentLog   int

	onFinish  func(*engine.Session)
	observers []events.Handler
}

// gameOutputMsg carries output into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// flashEndMsg clears the hit highlight on both panels.
type flashEndMsg struct{}

// New creates a TUI model over the given definitions and random source.
func New(defs *state.Defs, rng combatant.Roller, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	m := Model{
		defs:      defs,
		rng:       rng,
		input:     ti,
		history:   cli.NewHistory(100),
		playerBar: newBar(),
		enemyBar:  newBar(),
		trace:     opts.Trace,
		recentLog: opts.RecentLog,
		onFinish:  opts.OnFinish,
		observers: opts.Observers,
	}

	if opts.Class != nil {
		m = m.appendOutput(gameOutputMsg{lines: m.start(*opts.Class)})
	} else {
		m = m.appendOutput(gameOutputMsg{lines: cli.ClassMenu(defs)})
	}
	return m
}

func newBar() progress.Model {
	return progress.New(
		progress.WithDefaultGradient(),
		progress.WithoutPercentage(),
		progress.WithWidth(barWidth),
	)
}

// Run starts the Bubble Tea program.
func Run(defs *state.Defs, rng combatant.Roller, opts Options) error {
	m := New(defs, rng, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init starts the cursor blink and fills the health bars.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.syncBars())
}

// Update handles messages (key presses, window resize, bar animation).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case progress.FrameMsg:
		pm, pCmd := m.playerBar.Update(msg)
		m.playerBar = pm.(progress.Model)
		em, eCmd := m.enemyBar.Update(msg)
		m.enemyBar = em.(progress.Model)
		return m, tea.Batch(pCmd, eCmd)

	case flashEndMsg:
		m.flashPlayer = false
		m.flashEnemy = false
		return m, nil

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.ResetCursor()

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	if m.session == nil {
		tag, err := parser.ParseClass(input)
		if err != nil {
			m = m.appendOutput(gameOutputMsg{input: input, lines: []string{"Pick a class by name or number (1-5)."}})
			return m, nil
		}
		lines := m.start(tag)
		m.layout()
		m = m.appendOutput(gameOutputMsg{input: input, lines: lines})
		return m, m.syncBars()
	}

	// Handle "again" / "g".
	cmd, ok := m.history.Submit(input)
	if !ok {
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
		})
		return m, nil
	}

	return m.step(cmd)
}

// step runs one battle command against the session.
func (m Model) step(input string) (tea.Model, tea.Cmd) {
	result, err := m.session.Step(input)
	switch {
	case errors.Is(err, engine.ErrBattleOver):
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"The battle is over. Type /quit to exit."}, isSystem: true,
		})
		return m, nil
	case errors.Is(err, parser.ErrUnknownCommand):
		m = m.appendOutput(gameOutputMsg{
			input: input, lines: []string{"You can attack or use your special. Type /help for commands."},
		})
		return m, nil
	}

	output := result.Lines
	if m.trace {
		output = append(output, cli.TraceLines(result)...)
	}
	if m.session.IsOver() {
		output = append(output, "", cli.Outcome(result.State))
		if !m.finished && m.onFinish != nil {
			m.onFinish(m.session)
		}
		m.finished = true
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})

	cmds := []tea.Cmd{m.syncBars()}
	if flash := m.flash(result.Events); flash != nil {
		cmds = append(cmds, flash)
	}
	return m, tea.Batch(cmds...)
}

// start creates the battle session and returns its opening lines.
func (m *Model) start(tag types.ClassTag) []string {
	m.session = engine.NewBattle(m.defs, tag, m.rng)
	for _, h := range m.observers {
		m.session.OnEvent(h)
	}
	return []string{
		fmt.Sprintf("You fight as a %s. %s stands before you!", m.session.Player.Name, m.session.Enemy.Name),
	}
}

// syncBars animates both health bars toward current health.
func (m *Model) syncBars() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return tea.Batch(
		m.playerBar.SetPercent(m.session.Player.HealthPercentage()/100),
		m.enemyBar.SetPercent(m.session.Enemy.HealthPercentage()/100),
	)
}

// flash highlights whichever side took a damaging hit this turn.
func (m *Model) flash(evts []types.Event) tea.Cmd {
	for _, e := range evts {
		if e.Type != types.EventHit && e.Type != types.EventEffectTick {
			continue
		}
		switch e.Data["target"] {
		case m.session.Player.Name:
			m.flashPlayer = true
		case m.session.Enemy.Name:
			m.flashEnemy = true
		}
	}
	if !m.flashPlayer && !m.flashEnemy {
		return nil
	}
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashEndMsg{} })
}

// layout sizes the viewport around the panels, status bar, and input.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	vpHeight := m.height - 2 // 1 status bar + 1 input line
	if m.session != nil {
		vpHeight -= 3 // two panels + separator
	}
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given display width, breaking at
// word boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := runewidth.StringWidth(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: panels + viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	view := m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
	if panels := m.renderPanels(); panels != "" {
		view = panels + "\n\n" + view
	}
	return view
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return append(cli.HelpLines(), "",
			"Navigation: PgUp/PgDn to scroll, Up/Down for command history"), false

	case "/state":
		if m.session == nil {
			return []string{"No battle in progress."}, false
		}
		s := m.session
		return cli.StateLines(s.Player.Snapshot(), s.Enemy.Snapshot(), s.TurnNumber, s.State), false

	case "/log":
		return m.cmdLog(arg), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdLog(arg string) []string {
	if m.session == nil {
		return []string{"No battle in progress."}
	}
	n := m.recentLog
	if n <= 0 {
		n = m.session.LogWindow()
	}
	switch {
	case arg == "all":
		n = len(m.session.Log)
	case arg != "":
		v, err := strconv.Atoi(arg)
		if err != nil || v <= 0 {
			return []string{fmt.Sprintf("Bad line count %q.", arg)}
		}
		n = v
	}
	return m.session.RecentLog(n)
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
