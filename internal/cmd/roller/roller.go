// Package roller wires the dice engine's stores and serves it over MCP.
package roller

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/louisbranch/storyteller.space/internal/core/dice"
	"github.com/louisbranch/storyteller.space/internal/engine"
	"github.com/louisbranch/storyteller.space/internal/initiative"
	"github.com/louisbranch/storyteller.space/internal/macro"
	"github.com/louisbranch/storyteller.space/internal/mcp"
	platformcmd "github.com/louisbranch/storyteller.space/internal/platform/cmd"
	"github.com/louisbranch/storyteller.space/internal/settings"
	"github.com/louisbranch/storyteller.space/internal/storage/bbolt"
	"github.com/louisbranch/storyteller.space/internal/storage/sqlite"
)

// Config holds roller command configuration.
type Config struct {
	SQLitePath string `env:"STORYTELLER_SPACE_SQLITE_PATH" envDefault:"storyteller.db"`
	BoltPath   string `env:"STORYTELLER_SPACE_BOLT_PATH"   envDefault:"initiative.db"`
	// DiceSeed pins the dice source for reproducible runs; 0 seeds from
	// the clock.
	DiceSeed int64 `env:"STORYTELLER_SPACE_DICE_SEED"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.SQLitePath, "sqlite", cfg.SQLitePath, "path to the macros and settings database")
	fs.StringVar(&cfg.BoltPath, "bolt", cfg.BoltPath, "path to the initiative database")
	fs.Int64Var(&cfg.DiceSeed, "seed", cfg.DiceSeed, "dice seed (0 seeds from the clock)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run opens the stores, rebuilds initiative tables, and serves the engine
// over MCP stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceRoller, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close sqlite store: %v", err)
			}
		}()

		initStore, err := bbolt.Open(cfg.BoltPath)
		if err != nil {
			return fmt.Errorf("open initiative store: %w", err)
		}
		defer func() {
			if err := initStore.Close(); err != nil {
				log.Printf("close initiative store: %v", err)
			}
		}()

		seed := cfg.DiceSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		// Each channel gets its own stream so tables never mirror each
		// other's dice.
		var nextSeed atomic.Int64
		nextSeed.Store(seed)
		arena := initiative.NewArena(initStore, func() dice.Source {
			return dice.NewSource(nextSeed.Add(1))
		})
		if err := arena.Load(ctx); err != nil {
			return fmt.Errorf("load initiative tables: %w", err)
		}

		eng := engine.New(
			settings.NewCache(store),
			macro.NewResolver(store),
			arena,
			store,
			dice.NewSource(seed),
		)

		log.Printf("serving MCP on stdio")
		return mcp.New(eng).Serve(ctx)
	})
}
