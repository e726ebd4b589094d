// Package initiative tracks per-channel initiative tables.
//
// Each channel owns one table of entries sorted by score (d10 + modifier),
// highest first, ties broken by insertion order. Celerity grants extra
// entries that reuse the character's modifier with a fresh die.
package initiative

import "fmt"

// Entry is one initiative score in a table.
type Entry struct {
	Character string
	Mod       int
	Die       int
	Action    string
	// Celerity marks an extra action entry rather than the character's
	// base initiative.
	Celerity bool
}

// Score is the entry's initiative value.
func (e Entry) Score() int {
	return e.Mod + e.Die
}

// String renders the roll breakdown, e.g. "7 + 3: 10".
func (e Entry) String() string {
	return fmt.Sprintf("%d + %d: %d", e.Die, e.Mod, e.Score())
}

// Line renders the entry as a table row, e.g. "10: Alice - attack".
func (e Entry) Line() string {
	line := fmt.Sprintf("%d: %s", e.Score(), e.Character)
	if e.Celerity {
		line += " (Celerity)"
	}
	if e.Action != "" {
		line += " - " + e.Action
	}
	return line
}
