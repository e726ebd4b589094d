package initiative

import (
	"sort"
	"strings"

	"github.com/louisbranch/storyteller.space/internal/core/dice"
)

// Manager keeps one channel's initiative entries. It is not safe for
// concurrent use; the arena serializes access per channel.
type Manager struct {
	src     dice.Source
	entries []*Entry
}

// NewManager returns an empty table drawing from the given source.
func NewManager(src dice.Source) *Manager {
	return &Manager{src: src}
}

// Has reports whether the character has a base entry.
func (m *Manager) Has(character string) bool {
	return m.base(character) != nil
}

// Count returns the number of characters with a base entry.
func (m *Manager) Count() int {
	count := 0
	for _, e := range m.entries {
		if !e.Celerity {
			count++
		}
	}
	return count
}

// Add rolls a fresh initiative for the character, replacing any existing
// entries.
func (m *Manager) Add(character string, mod int) Entry {
	return m.Restore(character, mod, dice.D10(m.src), "")
}

// Restore inserts a character with a known die, used when loading
// persisted tables. Existing entries for the character are dropped.
func (m *Manager) Restore(character string, mod, die int, action string) Entry {
	m.drop(character)
	entry := &Entry{Character: character, Mod: mod, Die: die, Action: action}
	m.entries = append(m.entries, entry)
	return *entry
}

// Modify adjusts the character's modifier in place. The second return is
// false when the character has no entry.
func (m *Manager) Modify(character string, delta int) (Entry, bool) {
	entry := m.base(character)
	if entry == nil {
		return Entry{}, false
	}
	entry.Mod += delta
	return *entry, true
}

// Remove drops the character's entries, celerity included.
func (m *Manager) Remove(character string) bool {
	if m.base(character) == nil {
		return false
	}
	m.drop(character)
	return true
}

// Declare records the character's declared action.
func (m *Manager) Declare(character, action string) bool {
	entry := m.base(character)
	if entry == nil {
		return false
	}
	entry.Action = action
	return true
}

// AddCelerity grants the character an extra action entry reusing their
// modifier with a fresh die.
func (m *Manager) AddCelerity(character string) (Entry, bool) {
	base := m.base(character)
	if base == nil {
		return Entry{}, false
	}
	entry := &Entry{
		Character: character,
		Mod:       base.Mod,
		Die:       dice.D10(m.src),
		Celerity:  true,
	}
	m.entries = append(m.entries, entry)
	return *entry, true
}

// Reroll draws new dice for every base entry, clears declared actions, and
// drops celerity entries.
func (m *Manager) Reroll() []Entry {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.Celerity {
			continue
		}
		e.Die = dice.D10(m.src)
		e.Action = ""
		kept = append(kept, e)
	}
	m.entries = kept
	return m.Entries()
}

// Entries returns the table sorted by score descending. Ties keep
// insertion order.
func (m *Manager) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = *e
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out
}

// Summary renders the sorted table, one entry per line.
func (m *Manager) Summary() string {
	entries := m.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line()
	}
	return strings.Join(lines, "\n")
}

func (m *Manager) base(character string) *Entry {
	for _, e := range m.entries {
		if !e.Celerity && e.Character == character {
			return e
		}
	}
	return nil
}

func (m *Manager) drop(character string) {
	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.Character != character {
			kept = append(kept, e)
		}
	}
	m.entries = kept
}
