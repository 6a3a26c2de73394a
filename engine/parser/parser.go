// Package parser converts command strings into battle actions and class
// selections. No NLP, just alias tables.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/battlecore/types"
)

// ErrUnknownCommand is wrapped by every parse failure.
var ErrUnknownCommand = errors.New("unknown command")

var actionAliases = map[string]types.Action{
	// Attack
	"attack": types.ActionAttack,
	"a":      types.ActionAttack,
	"1":      types.ActionAttack,
	"hit":    types.ActionAttack,
	"strike": types.ActionAttack,

	// Special
	"special": types.ActionSpecial,
	"s":       types.ActionSpecial,
	"2":       types.ActionSpecial,
	"ability": types.ActionSpecial,
	"skill":   types.ActionSpecial,
}

var classAliases = map[string]types.ClassTag{
	"warrior": types.Warrior,
	"mage":    types.Mage,
	"archer":  types.Archer,
	"rogue":   types.Rogue,
	"paladin": types.Paladin,

	// Menu positions.
	"1": types.Warrior,
	"2": types.Mage,
	"3": types.Archer,
	"4": types.Rogue,
	"5": types.Paladin,
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true,
	"use": true, "my": true, "enemy": true,
}

// ParseAction converts a raw command into an Action.
func ParseAction(input string) (types.Action, error) {
	words := strings.Fields(strings.ToLower(input))
	if len(words) == 0 {
		return "", fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}

	// Bare single word, including "a" which doubles as an article.
	if len(words) == 1 {
		if act, ok := actionAliases[words[0]]; ok {
			return act, nil
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, input)
	}

	// "use special", "attack the enemy", "special ability".
	words = stripFillers(words)
	if len(words) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, input)
	}
	act, ok := actionAliases[words[0]]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, input)
	}
	for _, w := range words[1:] {
		if other, ok := actionAliases[w]; ok && other != act {
			return "", fmt.Errorf("%w: ambiguous %q", ErrUnknownCommand, input)
		}
	}
	return act, nil
}

// ParseClass converts a class name or menu number into a playable class tag.
// The enemy class is never selectable.
func ParseClass(input string) (types.ClassTag, error) {
	key := strings.ToLower(strings.TrimSpace(input))
	if tag, ok := classAliases[key]; ok {
		return tag, nil
	}
	return 0, fmt.Errorf("%w: no class %q", ErrUnknownCommand, input)
}

// stripFillers removes articles and filler words from the word list.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	return result
}
