package initiative

import (
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/storyteller.space/internal/core/dice"
	"github.com/louisbranch/storyteller.space/internal/platform/errors"
	"github.com/louisbranch/storyteller.space/internal/storage"
)

// scripted replays fixed d10 faces.
type scripted struct {
	faces []int
	next  int
}

func (s *scripted) Intn(n int) int {
	if s.next >= len(s.faces) {
		s.next = 0
	}
	face := s.faces[s.next]
	s.next++
	return (face - 1) % n
}

// memStore is an in-memory initiative store recording mutations.
type memStore struct {
	rows map[string]map[string]storage.InitiativeRow
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]map[string]storage.InitiativeRow)}
}

func (s *memStore) SetInitiative(_ context.Context, row storage.InitiativeRow) error {
	channel, ok := s.rows[row.ChannelID]
	if !ok {
		channel = make(map[string]storage.InitiativeRow)
		s.rows[row.ChannelID] = channel
	}
	channel[row.Character] = row
	return nil
}

func (s *memStore) SetInitiativeAction(_ context.Context, channelID, character, action string) error {
	channel, ok := s.rows[channelID]
	if !ok {
		return storage.ErrNotFound
	}
	row, ok := channel[character]
	if !ok {
		return storage.ErrNotFound
	}
	row.Action = action
	channel[character] = row
	return nil
}

func (s *memStore) RemoveInitiative(_ context.Context, channelID, character string) error {
	delete(s.rows[channelID], character)
	return nil
}

func (s *memStore) ClearInitiative(_ context.Context, channelID string) error {
	delete(s.rows, channelID)
	return nil
}

func (s *memStore) InitiativeRows(_ context.Context) ([]storage.InitiativeRow, error) {
	var out []storage.InitiativeRow
	for _, channel := range s.rows {
		for _, row := range channel {
			out = append(out, row)
		}
	}
	return out, nil
}

func newTestArena(store storage.InitiativeStore, faces ...int) *Arena {
	return NewArena(store, func() dice.Source {
		return &scripted{faces: faces}
	})
}

func TestManagerAddAndSort(t *testing.T) {
	m := NewManager(&scripted{faces: []int{7, 7, 2}})

	alice := m.Add("Alice", 3)
	if alice.Score() != 10 {
		t.Fatalf("alice score = %d, want 10", alice.Score())
	}
	m.Add("Bob", 3)   // same score, later insertion
	m.Add("Carol", 1) // score 3

	entries := m.Entries()
	if entries[0].Character != "Alice" || entries[1].Character != "Bob" {
		t.Fatalf("tie must keep insertion order: %s, %s", entries[0].Character, entries[1].Character)
	}
	if entries[2].Character != "Carol" {
		t.Fatalf("lowest last: %s", entries[2].Character)
	}
}

func TestManagerModifyAndRemove(t *testing.T) {
	m := NewManager(&scripted{faces: []int{7}})
	m.Add("Alice", 3)

	entry, ok := m.Modify("Alice", -2)
	if !ok {
		t.Fatal("modify must find Alice")
	}
	if entry.Score() != 8 {
		t.Fatalf("score = %d, want 8", entry.Score())
	}

	if _, ok := m.Modify("Nobody", 1); ok {
		t.Fatal("modify must miss unknown characters")
	}

	if !m.Remove("Alice") {
		t.Fatal("remove must find Alice")
	}
	if m.Has("Alice") || m.Count() != 0 {
		t.Fatal("Alice must be gone")
	}
}

func TestManagerRerollClearsActions(t *testing.T) {
	m := NewManager(&scripted{faces: []int{7, 2, 9, 4}})
	m.Add("Alice", 3)
	m.Add("Bob", 1)
	m.Declare("Alice", "attack")
	m.AddCelerity("Alice")

	entries := m.Reroll()
	if len(entries) != 2 {
		t.Fatalf("reroll kept %d entries, want 2 (celerity dropped)", len(entries))
	}
	for _, e := range entries {
		if e.Action != "" {
			t.Fatalf("action %q must clear on reroll", e.Action)
		}
	}
}

func TestManagerCelerity(t *testing.T) {
	m := NewManager(&scripted{faces: []int{7, 4}})
	m.Add("Alice", 3)

	extra, ok := m.AddCelerity("Alice")
	if !ok {
		t.Fatal("celerity must find Alice")
	}
	if !extra.Celerity || extra.Mod != 3 || extra.Die != 4 {
		t.Fatalf("celerity entry = %+v", extra)
	}
	// Celerity entries don't count as characters.
	if m.Count() != 1 {
		t.Fatalf("count = %d, want 1", m.Count())
	}
	if len(m.Entries()) != 2 {
		t.Fatalf("entries = %d, want 2", len(m.Entries()))
	}

	if _, ok := m.AddCelerity("Nobody"); ok {
		t.Fatal("celerity must miss unknown characters")
	}
}

func TestArenaRollPersists(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	arena := newTestArena(store, 7)

	entry, count, err := arena.Roll(ctx, "chan", "Alice", 3)
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if entry.Score() != 10 || count != 1 {
		t.Fatalf("entry = %+v, count = %d", entry, count)
	}

	row := store.rows["chan"]["Alice"]
	if row.Mod != 3 || row.Die != 7 {
		t.Fatalf("persisted row = %+v", row)
	}
}

func TestArenaModify(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	arena := newTestArena(store, 7)

	if _, _, err := arena.Roll(ctx, "chan", "Alice", 3); err != nil {
		t.Fatalf("roll: %v", err)
	}

	entry, err := arena.Modify(ctx, "chan", "Alice", -2)
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if entry.Score() != 8 {
		t.Fatalf("score = %d, want 8", entry.Score())
	}
	if store.rows["chan"]["Alice"].Mod != 1 {
		t.Fatalf("persisted mod = %d, want 1", store.rows["chan"]["Alice"].Mod)
	}

	_, err = arena.Modify(ctx, "chan", "Nobody", 1)
	if errors.CodeOf(err) != errors.CodeInitiativeNothingToModify {
		t.Fatalf("code = %v", errors.CodeOf(err))
	}

	_, err = arena.Modify(ctx, "empty", "Alice", 1)
	if errors.CodeOf(err) != errors.CodeInitiativeTableMissing {
		t.Fatalf("code = %v", errors.CodeOf(err))
	}
}

func TestArenaRemoveClearsEmptyTable(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	arena := newTestArena(store, 7, 4)

	arena.Roll(ctx, "chan", "Alice", 3)
	arena.Roll(ctx, "chan", "Bob", 1)

	cleared, err := arena.Remove(ctx, "chan", "Alice")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if cleared {
		t.Fatal("table still has Bob")
	}

	cleared, err = arena.Remove(ctx, "chan", "Bob")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !cleared {
		t.Fatal("empty table must clear")
	}
	if _, ok := store.rows["chan"]; ok {
		t.Fatal("persisted channel must clear")
	}

	_, err = arena.Remove(ctx, "chan", "Bob")
	if errors.CodeOf(err) != errors.CodeInitiativeTableMissing {
		t.Fatalf("code = %v", errors.CodeOf(err))
	}
}

func TestArenaClearKillsResolvedTable(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	arena := newTestArena(store, 7, 4)

	arena.Roll(ctx, "chan", "Alice", 3)

	// A command resolves the table, then a clear lands before it locks.
	stale, ok := arena.channel("chan", false)
	if !ok {
		t.Fatal("channel must exist")
	}
	if err := arena.Clear(ctx, "chan"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	stale.mu.Lock()
	dead := stale.dead
	stale.mu.Unlock()
	if !dead {
		t.Fatal("cleared table must be marked dead")
	}
	if tbl, ok := arena.lockChannel("chan", false); ok {
		tbl.mu.Unlock()
		t.Fatal("lockChannel must miss after clear")
	}

	// The retried command lands on a fresh table, and the store only holds
	// what the arena does.
	if _, _, err := arena.Roll(ctx, "chan", "Bob", 1); err != nil {
		t.Fatalf("roll after clear: %v", err)
	}
	entries, err := arena.Entries("chan")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Character != "Bob" {
		t.Fatalf("entries = %+v, want just Bob", entries)
	}
	if len(store.rows["chan"]) != 1 {
		t.Fatalf("store rows = %+v, want just Bob", store.rows["chan"])
	}
	if _, ok := store.rows["chan"]["Alice"]; ok {
		t.Fatal("store must not keep rows for cleared characters")
	}
}

func TestArenaDeclare(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	arena := newTestArena(store, 7, 4, 2)

	arena.Roll(ctx, "chan", "Alice", 3)

	err := arena.Declare(ctx, "chan", Declaration{Character: "Alice", Action: "attack", Celerity: 2})
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	if store.rows["chan"]["Alice"].Action != "attack" {
		t.Fatalf("persisted action = %q", store.rows["chan"]["Alice"].Action)
	}

	entries, _ := arena.Entries("chan")
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3 (base + 2 celerity)", len(entries))
	}

	err = arena.Declare(ctx, "chan", Declaration{Character: "Nobody", Action: "attack"})
	if errors.CodeOf(err) != errors.CodeInitiativeCharacterMissing {
		t.Fatalf("code = %v", errors.CodeOf(err))
	}
}

func TestArenaLoad(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.SetInitiative(ctx, storage.InitiativeRow{ChannelID: "c1", Character: "Alice", Mod: 3, Die: 7, Action: "attack"})
	store.SetInitiative(ctx, storage.InitiativeRow{ChannelID: "c2", Character: "Bob", Mod: 1, Die: 2})

	arena := newTestArena(store, 5)
	if err := arena.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	summary, err := arena.Summary("c1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(summary, "10: Alice - attack") {
		t.Fatalf("summary = %q", summary)
	}

	entries, err := arena.Entries("c2")
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Score() != 3 {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestParseDeclare(t *testing.T) {
	dec, err := ParseDeclare([]string{"all-out", "attack"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if dec.Action != "all-out attack" || dec.Character != "" || dec.Celerity != 0 {
		t.Fatalf("dec = %+v", dec)
	}

	dec, err = ParseDeclare([]string{"dodge", "-n", "Alice", "Smith", "-c", "2"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if dec.Action != "dodge" || dec.Character != "Alice Smith" || dec.Celerity != 2 {
		t.Fatalf("dec = %+v", dec)
	}

	// Bare -c defaults to one celerity action, and no action is fine.
	dec, err = ParseDeclare([]string{"-c"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if dec.Celerity != 1 || dec.Action != "" {
		t.Fatalf("dec = %+v", dec)
	}

	if _, err := ParseDeclare(nil); errors.CodeOf(err) != errors.CodeInitiativeActionMissing {
		t.Fatalf("no action: %v", err)
	}
	if _, err := ParseDeclare([]string{"attack", "-n"}); errors.CodeOf(err) != errors.CodeSyntaxDeclareUsage {
		t.Fatalf("dangling -n: %v", err)
	}
	if _, err := ParseDeclare([]string{"attack", "-x"}); errors.CodeOf(err) != errors.CodeSyntaxDeclareUsage {
		t.Fatalf("unknown flag: %v", err)
	}
}
