package initiative

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/storyteller.space/internal/core/dice"
	"github.com/louisbranch/storyteller.space/internal/platform/errors"
	"github.com/louisbranch/storyteller.space/internal/storage"
)

// Arena owns every channel's initiative table. Each channel has its own
// lock and dice source, so rolls in one channel never block another.
// Every mutation is mirrored to the store before the lock is released.
type Arena struct {
	store     storage.InitiativeStore
	newSource func() dice.Source

	mu       sync.Mutex
	channels map[string]*table
}

type table struct {
	mu sync.Mutex
	// dead is set under mu when the table is cleared. A command that
	// resolved this table before the map delete must not mutate it.
	dead    bool
	manager *Manager
}

// NewArena returns an arena persisting to store. newSource seeds one dice
// source per channel.
func NewArena(store storage.InitiativeStore, newSource func() dice.Source) *Arena {
	return &Arena{
		store:     store,
		newSource: newSource,
		channels:  make(map[string]*table),
	}
}

// Load rebuilds in-memory tables from persisted rows. Called once at
// startup before the arena serves commands.
func (a *Arena) Load(ctx context.Context) error {
	rows, err := a.store.InitiativeRows(ctx)
	if err != nil {
		return fmt.Errorf("load initiative rows: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, row := range rows {
		tbl, ok := a.channels[row.ChannelID]
		if !ok {
			tbl = &table{manager: NewManager(a.newSource())}
			a.channels[row.ChannelID] = tbl
		}
		tbl.manager.Restore(row.Character, row.Mod, row.Die, row.Action)
	}
	return nil
}

// channel returns the channel's table, creating it when create is set.
func (a *Arena) channel(channelID string, create bool) (*table, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	tbl, ok := a.channels[channelID]
	if !ok && create {
		tbl = &table{manager: NewManager(a.newSource())}
		a.channels[channelID] = tbl
		ok = true
	}
	return tbl, ok
}

// lockChannel resolves the channel's table and locks it. A concurrent clear
// can kill the table between lookup and lock, so a dead table is dropped
// and the lookup retried.
func (a *Arena) lockChannel(channelID string, create bool) (*table, bool) {
	for {
		tbl, ok := a.channel(channelID, create)
		if !ok {
			return nil, false
		}
		tbl.mu.Lock()
		if !tbl.dead {
			return tbl, true
		}
		tbl.mu.Unlock()
	}
}

// Roll draws a fresh initiative for the character, creating the channel
// table on first use. It returns the new entry and the table size.
func (a *Arena) Roll(ctx context.Context, channelID, character string, mod int) (Entry, int, error) {
	tbl, _ := a.lockChannel(channelID, true)
	defer tbl.mu.Unlock()

	entry := tbl.manager.Add(character, mod)
	if err := a.persist(ctx, channelID, entry); err != nil {
		return Entry{}, 0, err
	}
	return entry, tbl.manager.Count(), nil
}

// Modify adjusts the character's modifier in place.
func (a *Arena) Modify(ctx context.Context, channelID, character string, delta int) (Entry, error) {
	tbl, ok := a.lockChannel(channelID, false)
	if !ok {
		return Entry{}, errors.New(errors.CodeInitiativeTableMissing)
	}
	defer tbl.mu.Unlock()

	entry, ok := tbl.manager.Modify(character, delta)
	if !ok {
		return Entry{}, errors.WithMeta(errors.CodeInitiativeNothingToModify, map[string]string{
			"Character": character,
		})
	}
	if err := a.persist(ctx, channelID, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Remove drops the character from the table. When the table empties it is
// cleared entirely; the second return reports that.
func (a *Arena) Remove(ctx context.Context, channelID, character string) (cleared bool, err error) {
	tbl, ok := a.lockChannel(channelID, false)
	if !ok {
		return false, errors.New(errors.CodeInitiativeTableMissing)
	}
	defer tbl.mu.Unlock()

	if !tbl.manager.Remove(character) {
		return false, errors.WithMeta(errors.CodeInitiativeCharacterMissing, map[string]string{
			"Character": character,
		})
	}
	if err := a.store.RemoveInitiative(ctx, channelID, character); err != nil {
		return false, fmt.Errorf("remove initiative: %w", err)
	}

	if tbl.manager.Count() == 0 {
		if err := a.clearLocked(ctx, channelID, tbl); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Reroll draws new dice for every character and clears declared actions.
func (a *Arena) Reroll(ctx context.Context, channelID string) ([]Entry, error) {
	tbl, ok := a.lockChannel(channelID, false)
	if !ok {
		return nil, errors.New(errors.CodeInitiativeTableMissing)
	}
	defer tbl.mu.Unlock()

	entries := tbl.manager.Reroll()
	for _, entry := range entries {
		if err := a.persist(ctx, channelID, entry); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// Declare records a declared action and any celerity entries.
func (a *Arena) Declare(ctx context.Context, channelID string, dec Declaration) error {
	tbl, ok := a.lockChannel(channelID, false)
	if !ok {
		return errors.New(errors.CodeInitiativeTableMissing)
	}
	defer tbl.mu.Unlock()

	if dec.Action != "" {
		if !tbl.manager.Declare(dec.Character, dec.Action) {
			return errors.WithMeta(errors.CodeInitiativeCharacterMissing, map[string]string{
				"Character": dec.Character,
			})
		}
		if err := a.store.SetInitiativeAction(ctx, channelID, dec.Character, dec.Action); err != nil {
			return fmt.Errorf("persist action: %w", err)
		}
	}

	for i := 0; i < dec.Celerity; i++ {
		if _, ok := tbl.manager.AddCelerity(dec.Character); !ok {
			return errors.WithMeta(errors.CodeInitiativeCharacterMissing, map[string]string{
				"Character": dec.Character,
			})
		}
	}
	return nil
}

// Clear removes the channel's table entirely.
func (a *Arena) Clear(ctx context.Context, channelID string) error {
	tbl, ok := a.lockChannel(channelID, false)
	if !ok {
		return errors.New(errors.CodeInitiativeTableMissing)
	}
	defer tbl.mu.Unlock()
	return a.clearLocked(ctx, channelID, tbl)
}

// Entries returns the channel's sorted table.
func (a *Arena) Entries(channelID string) ([]Entry, error) {
	tbl, ok := a.lockChannel(channelID, false)
	if !ok {
		return nil, errors.New(errors.CodeInitiativeTableMissing)
	}
	defer tbl.mu.Unlock()
	return tbl.manager.Entries(), nil
}

// Summary renders the channel's table, or an error when none exists.
func (a *Arena) Summary(channelID string) (string, error) {
	tbl, ok := a.lockChannel(channelID, false)
	if !ok {
		return "", errors.New(errors.CodeInitiativeTableMissing)
	}
	defer tbl.mu.Unlock()
	return tbl.manager.Summary(), nil
}

func (a *Arena) persist(ctx context.Context, channelID string, entry Entry) error {
	if entry.Celerity {
		return nil
	}
	err := a.store.SetInitiative(ctx, storage.InitiativeRow{
		ChannelID: channelID,
		Character: entry.Character,
		Mod:       entry.Mod,
		Die:       entry.Die,
		Action:    entry.Action,
	})
	if err != nil {
		return fmt.Errorf("persist initiative: %w", err)
	}
	return nil
}

// clearLocked clears the channel. The caller holds tbl.mu; marking the
// table dead before the map delete forces in-flight commands that already
// resolved it to re-resolve instead of mutating an orphan.
func (a *Arena) clearLocked(ctx context.Context, channelID string, tbl *table) error {
	if err := a.store.ClearInitiative(ctx, channelID); err != nil {
		return fmt.Errorf("clear initiative: %w", err)
	}
	tbl.dead = true
	a.mu.Lock()
	delete(a.channels, channelID)
	a.mu.Unlock()
	return nil
}
