package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// Macro is a stored roll owned by a user within a guild. Names match
// case-insensitively.
type Macro struct {
	GuildID string
	UserID  string
	Name    string
	Syntax  string
	Comment string
}

// MacroStore persists stored rolls.
type MacroStore interface {
	// Macro returns a stored roll by case-insensitive name, or ErrNotFound.
	Macro(ctx context.Context, guildID, userID, name string) (Macro, error)
	// Macros returns every stored roll for the user, sorted by name.
	Macros(ctx context.Context, guildID, userID string) ([]Macro, error)
	// SaveMacro inserts or overwrites a stored roll. On update an empty
	// comment preserves the existing one; syntax is always overwritten.
	// It reports whether a new record was created.
	SaveMacro(ctx context.Context, macro Macro) (created bool, err error)
	// SetMacroComment replaces a stored roll's comment; empty clears it.
	// Returns ErrNotFound when the macro does not exist.
	SetMacroComment(ctx context.Context, guildID, userID, name, comment string) error
	// DeleteMacro removes a stored roll, or returns ErrNotFound.
	DeleteMacro(ctx context.Context, guildID, userID, name string) error
	// DeleteMacros removes every stored roll for the user, reporting how
	// many were deleted.
	DeleteMacros(ctx context.Context, guildID, userID string) (int, error)
}

// InitiativeRow is a persisted initiative entry.
type InitiativeRow struct {
	ChannelID string `json:"channel_id"`
	Character string `json:"character"`
	Mod       int    `json:"mod"`
	Die       int    `json:"die"`
	Action    string `json:"action,omitempty"`
}

// InitiativeStore mirrors in-memory initiative tables so they survive
// restarts.
type InitiativeStore interface {
	// SetInitiative replaces the character's row in the channel.
	SetInitiative(ctx context.Context, row InitiativeRow) error
	// SetInitiativeAction stores a declared action.
	SetInitiativeAction(ctx context.Context, channelID, character, action string) error
	// RemoveInitiative deletes the character's row.
	RemoveInitiative(ctx context.Context, channelID, character string) error
	// ClearInitiative deletes every row in the channel.
	ClearInitiative(ctx context.Context, channelID string) error
	// InitiativeRows returns every persisted row across channels.
	InitiativeRows(ctx context.Context) ([]InitiativeRow, error)
}

// RollCounts are per-guild roll statistics.
type RollCounts struct {
	Rolls       int64
	Traditional int64
	Compact     int64
	Initiative  int64
}

// StatsStore accumulates per-guild roll counters.
type StatsStore interface {
	// IncrementRollCounts adds the deltas to the guild's counters.
	IncrementRollCounts(ctx context.Context, guildID string, delta RollCounts) error
	// RollCounts returns the guild's accumulated counters.
	RollCounts(ctx context.Context, guildID string) (RollCounts, error)
}
