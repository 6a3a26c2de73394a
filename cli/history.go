package cli

import "strings"

// History recalls battle commands for the arrow keys and for "again".
// Meta-commands and repeat requests are never recorded.
type History struct {
	entries []string
	max     int
	cursor  int // -1 = not navigating, 0..len-1 = position in entries
}

// NewHistory creates a history holding at most max battle commands.
func NewHistory(max int) *History {
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// IsRepeat reports whether input asks to repeat the last battle command.
func IsRepeat(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	return lower == "again" || lower == "g"
}

// Submit resolves a battle command line. "again"/"g" become the last
// recorded command; anything else is recorded and returned unchanged.
// ok is false when a repeat is asked for before any command.
func (h *History) Submit(input string) (cmd string, ok bool) {
	if IsRepeat(input) {
		h.ResetCursor()
		return h.Last()
	}
	h.Push(input)
	return input, true
}

// Push records a battle command and ends navigation. Consecutive
// duplicates, meta-commands, and repeat requests are skipped.
func (h *History) Push(cmd string) {
	h.ResetCursor()
	if cmd == "" || strings.HasPrefix(cmd, "/") || IsRepeat(cmd) {
		return
	}
	if len(h.entries) > 0 && h.entries[len(h.entries)-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// Last returns the most recent battle command.
func (h *History) Last() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

// Prev returns the previous (older) command.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(h.entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next returns the next (newer) command, or ("", false) once past the
// most recent one.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = -1
}
