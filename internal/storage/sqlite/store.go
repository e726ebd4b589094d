// Package sqlite provides a SQLite-backed implementation of the macro,
// settings, and statistics stores.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/storyteller.space/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/storyteller.space/internal/settings"
	"github.com/louisbranch/storyteller.space/internal/storage"
	"github.com/louisbranch/storyteller.space/internal/storage/sqlite/migrations"
)

// Store persists macros, guild settings, and roll counters in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}

// Macro returns a stored roll by case-insensitive name.
func (s *Store) Macro(ctx context.Context, guildID, userID, name string) (storage.Macro, error) {
	if err := s.check(ctx); err != nil {
		return storage.Macro{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT guild_id, user_id, name, syntax, comment
		   FROM macros
		  WHERE guild_id = ? AND user_id = ? AND name = ?`,
		guildID, userID, name,
	)

	var macro storage.Macro
	err := row.Scan(&macro.GuildID, &macro.UserID, &macro.Name, &macro.Syntax, &macro.Comment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Macro{}, storage.ErrNotFound
		}
		return storage.Macro{}, fmt.Errorf("get macro: %w", err)
	}
	return macro, nil
}

// Macros returns every stored roll for the user, sorted by name.
func (s *Store) Macros(ctx context.Context, guildID, userID string) ([]storage.Macro, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT guild_id, user_id, name, syntax, comment
		   FROM macros
		  WHERE guild_id = ? AND user_id = ?
		  ORDER BY name ASC`,
		guildID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list macros: %w", err)
	}
	defer rows.Close()

	var macros []storage.Macro
	for rows.Next() {
		var macro storage.Macro
		if err := rows.Scan(&macro.GuildID, &macro.UserID, &macro.Name, &macro.Syntax, &macro.Comment); err != nil {
			return nil, fmt.Errorf("list macros: %w", err)
		}
		macros = append(macros, macro)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list macros: %w", err)
	}
	return macros, nil
}

// SaveMacro inserts or overwrites a stored roll.
func (s *Store) SaveMacro(ctx context.Context, macro storage.Macro) (bool, error) {
	if err := s.check(ctx); err != nil {
		return false, err
	}
	if strings.TrimSpace(macro.Name) == "" {
		return false, fmt.Errorf("macro name is required")
	}
	if strings.TrimSpace(macro.Syntax) == "" {
		return false, fmt.Errorf("macro syntax is required")
	}

	_, err := s.Macro(ctx, macro.GuildID, macro.UserID, macro.Name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		_, err := s.sqlDB.ExecContext(
			ctx,
			`INSERT INTO macros (guild_id, user_id, name, syntax, comment, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			macro.GuildID, macro.UserID, macro.Name, macro.Syntax, macro.Comment,
			nowMillis(), nowMillis(),
		)
		if err != nil {
			return false, fmt.Errorf("create macro: %w", err)
		}
		return true, nil
	case err != nil:
		return false, err
	}

	if macro.Comment != "" {
		_, err = s.sqlDB.ExecContext(
			ctx,
			`UPDATE macros SET syntax = ?, comment = ?, updated_at = ?
			  WHERE guild_id = ? AND user_id = ? AND name = ?`,
			macro.Syntax, macro.Comment, nowMillis(),
			macro.GuildID, macro.UserID, macro.Name,
		)
	} else {
		_, err = s.sqlDB.ExecContext(
			ctx,
			`UPDATE macros SET syntax = ?, updated_at = ?
			  WHERE guild_id = ? AND user_id = ? AND name = ?`,
			macro.Syntax, nowMillis(),
			macro.GuildID, macro.UserID, macro.Name,
		)
	}
	if err != nil {
		return false, fmt.Errorf("update macro: %w", err)
	}
	return false, nil
}

// SetMacroComment replaces a stored roll's comment. An empty comment
// clears it.
func (s *Store) SetMacroComment(ctx context.Context, guildID, userID, name, comment string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE macros SET comment = ?, updated_at = ?
		  WHERE guild_id = ? AND user_id = ? AND name = ?`,
		comment, nowMillis(), guildID, userID, name,
	)
	if err != nil {
		return fmt.Errorf("update macro comment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update macro comment: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMacro removes a stored roll.
func (s *Store) DeleteMacro(ctx context.Context, guildID, userID, name string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM macros WHERE guild_id = ? AND user_id = ? AND name = ?`,
		guildID, userID, name,
	)
	if err != nil {
		return fmt.Errorf("delete macro: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete macro: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMacros removes every stored roll for the user.
func (s *Store) DeleteMacros(ctx context.Context, guildID, userID string) (int, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM macros WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete macros: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete macros: %w", err)
	}
	return int(affected), nil
}

// Rules returns the guild's rule configuration, or defaults when the guild
// has no stored row.
func (s *Store) Rules(ctx context.Context, guildID string) (settings.Rules, error) {
	if err := s.check(ctx); err != nil {
		return settings.Rules{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT prefix, use_compact, xpl_spec, nullify_ones, xpl_always,
		        never_double, always_double, default_diff, wp_cancelable,
		        chronicles, no_botch
		   FROM guild_settings
		  WHERE guild_id = ?`,
		guildID,
	)

	var rules settings.Rules
	err := row.Scan(
		&rules.Prefix,
		&rules.UseCompact,
		&rules.XplSpec,
		&rules.NullifyOnes,
		&rules.XplAlways,
		&rules.NeverDouble,
		&rules.AlwaysDouble,
		&rules.DefaultDifficulty,
		&rules.WPCancelable,
		&rules.Chronicles,
		&rules.NoBotch,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings.DefaultRules(), nil
		}
		return settings.Rules{}, fmt.Errorf("get guild rules: %w", err)
	}
	return rules, nil
}

// SaveRules upserts the guild's rule configuration.
func (s *Store) SaveRules(ctx context.Context, guildID string, rules settings.Rules) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(guildID) == "" {
		return fmt.Errorf("guild id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO guild_settings (
		   guild_id, prefix, use_compact, xpl_spec, nullify_ones, xpl_always,
		   never_double, always_double, default_diff, wp_cancelable,
		   chronicles, no_botch, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (guild_id) DO UPDATE SET
		   prefix = excluded.prefix,
		   use_compact = excluded.use_compact,
		   xpl_spec = excluded.xpl_spec,
		   nullify_ones = excluded.nullify_ones,
		   xpl_always = excluded.xpl_always,
		   never_double = excluded.never_double,
		   always_double = excluded.always_double,
		   default_diff = excluded.default_diff,
		   wp_cancelable = excluded.wp_cancelable,
		   chronicles = excluded.chronicles,
		   no_botch = excluded.no_botch,
		   updated_at = excluded.updated_at`,
		guildID, rules.Prefix, rules.UseCompact, rules.XplSpec, rules.NullifyOnes,
		rules.XplAlways, rules.NeverDouble, rules.AlwaysDouble,
		rules.DefaultDifficulty, rules.WPCancelable, rules.Chronicles,
		rules.NoBotch, nowMillis(),
	)
	if err != nil {
		return fmt.Errorf("save guild rules: %w", err)
	}
	return nil
}

// IncrementRollCounts adds the deltas to the guild's counters, creating the
// settings row on first use.
func (s *Store) IncrementRollCounts(ctx context.Context, guildID string, delta storage.RollCounts) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(guildID) == "" {
		return fmt.Errorf("guild id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO guild_settings (
		   guild_id, rolls, traditional_rolls, compact_rolls, initiative_rolls, updated_at
		 ) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (guild_id) DO UPDATE SET
		   rolls = guild_settings.rolls + excluded.rolls,
		   traditional_rolls = guild_settings.traditional_rolls + excluded.traditional_rolls,
		   compact_rolls = guild_settings.compact_rolls + excluded.compact_rolls,
		   initiative_rolls = guild_settings.initiative_rolls + excluded.initiative_rolls,
		   updated_at = excluded.updated_at`,
		guildID, delta.Rolls, delta.Traditional, delta.Compact, delta.Initiative,
		nowMillis(),
	)
	if err != nil {
		return fmt.Errorf("increment roll counts: %w", err)
	}
	return nil
}

// RollCounts returns the guild's accumulated counters.
func (s *Store) RollCounts(ctx context.Context, guildID string) (storage.RollCounts, error) {
	if err := s.check(ctx); err != nil {
		return storage.RollCounts{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT rolls, traditional_rolls, compact_rolls, initiative_rolls
		   FROM guild_settings
		  WHERE guild_id = ?`,
		guildID,
	)

	var counts storage.RollCounts
	err := row.Scan(&counts.Rolls, &counts.Traditional, &counts.Compact, &counts.Initiative)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.RollCounts{}, nil
		}
		return storage.RollCounts{}, fmt.Errorf("get roll counts: %w", err)
	}
	return counts, nil
}

var (
	_ storage.MacroStore = (*Store)(nil)
	_ storage.StatsStore = (*Store)(nil)
	_ settings.Store     = (*Store)(nil)
)
