package settings

import (
	"context"
	"fmt"
	"sync"
)

// Store persists guild rule snapshots. Implementations return DefaultRules
// for guilds without a stored row.
type Store interface {
	Rules(ctx context.Context, guildID string) (Rules, error)
	SaveRules(ctx context.Context, guildID string, rules Rules) error
}

// Cache is a read-through cache over a rules store. Writes persist first
// and refresh the cache on success.
type Cache struct {
	store Store

	mu    sync.RWMutex
	rules map[string]Rules
}

// NewCache returns a cache backed by the given store.
func NewCache(store Store) *Cache {
	return &Cache{
		store: store,
		rules: make(map[string]Rules),
	}
}

// Rules returns the guild's configuration, loading it on first access.
func (c *Cache) Rules(ctx context.Context, guildID string) (Rules, error) {
	c.mu.RLock()
	rules, ok := c.rules[guildID]
	c.mu.RUnlock()
	if ok {
		return rules, nil
	}

	rules, err := c.store.Rules(ctx, guildID)
	if err != nil {
		return Rules{}, fmt.Errorf("load guild rules: %w", err)
	}

	c.mu.Lock()
	c.rules[guildID] = rules
	c.mu.Unlock()
	return rules, nil
}

// Value renders a single setting for display.
func (c *Cache) Value(ctx context.Context, guildID, key string) (string, error) {
	rules, err := c.Rules(ctx, guildID)
	if err != nil {
		return "", err
	}
	return rules.Value(key)
}

// Set validates and persists a setting, returning a confirmation message.
// Setting chronicles also flips default difficulty, always-explode,
// nullify-ones, and no-botch in the same write.
func (c *Cache) Set(ctx context.Context, guildID, key, value string) (string, error) {
	rules, err := c.Rules(ctx, guildID)
	if err != nil {
		return "", err
	}

	if err := rules.apply(key, value); err != nil {
		return "", err
	}

	message := fmt.Sprintf("Setting %s to %s!", key, value)

	switch key {
	case KeyChronicles:
		if rules.Chronicles {
			rules.DefaultDifficulty = 8
			rules.XplAlways = true
			rules.NullifyOnes = true
			rules.NoBotch = true
			message = "Enabling Chronicles of Darkness mode."
		} else {
			rules.DefaultDifficulty = 6
			rules.XplAlways = false
			rules.NullifyOnes = false
			rules.NoBotch = false
			message = "Disabling Chronicles of Darkness mode."
		}
	case KeyPrefix:
		if rules.Prefix != "" {
			message = fmt.Sprintf("Setting the prefix to %s.", rules.Prefix)
			if len(rules.Prefix) > 3 {
				message += " A prefix this long might be annoying to type!"
			}
		} else {
			message = "Reset the command prefix to " + DefaultPrefixes[1] + " and " + DefaultPrefixes[0] + "."
		}
	case KeyDefaultDiff:
		message = fmt.Sprintf("Setting %s to %d!", key, rules.DefaultDifficulty)
	}

	if err := c.store.SaveRules(ctx, guildID, rules); err != nil {
		return "", fmt.Errorf("save guild rules: %w", err)
	}

	c.mu.Lock()
	c.rules[guildID] = rules
	c.mu.Unlock()
	return message, nil
}

// Prefixes returns the invocation prefixes for the guild.
func (c *Cache) Prefixes(ctx context.Context, guildID string) ([]string, error) {
	rules, err := c.Rules(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if rules.Prefix != "" {
		return []string{rules.Prefix}, nil
	}
	return DefaultPrefixes, nil
}
