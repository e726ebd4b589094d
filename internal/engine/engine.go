// Package engine runs the command pipeline: comment splitting, parsing,
// macro resolution, dice evaluation, and response assembly.
//
// Every failure a user can cause surfaces as a rendered message in the
// response; errors are reserved for infrastructure faults.
package engine

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/louisbranch/storyteller.space/internal/core/dice"
	"github.com/louisbranch/storyteller.space/internal/initiative"
	"github.com/louisbranch/storyteller.space/internal/macro"
	"github.com/louisbranch/storyteller.space/internal/parse"
	"github.com/louisbranch/storyteller.space/internal/platform/errors"
	erri18n "github.com/louisbranch/storyteller.space/internal/platform/errors/i18n"
	"github.com/louisbranch/storyteller.space/internal/roll"
	"github.com/louisbranch/storyteller.space/internal/settings"
	"github.com/louisbranch/storyteller.space/internal/storage"
)

var tracer = otel.Tracer("storyteller.space/engine")

// Request is one user command plus its invocation flags. Flags arrive out
// of band and never appear in the text.
type Request struct {
	GuildID   string
	UserID    string
	ChannelID string

	// Text is the command after the invocation prefix. Display, when set,
	// is the same text with host mentions resolved to names.
	Text    string
	Display string

	Willpower  bool
	Compact    bool
	NeverBotch bool
}

// Engine executes commands against the configured stores.
type Engine struct {
	settings *settings.Cache
	macros   *macro.Resolver
	arena    *initiative.Arena
	stats    storage.StatsStore
	catalog  *erri18n.Catalog

	// src is shared across commands and not safe for concurrent use.
	mu  sync.Mutex
	src dice.Source
}

// New returns an engine drawing dice from src.
func New(cache *settings.Cache, macros *macro.Resolver, arena *initiative.Arena, stats storage.StatsStore, src dice.Source) *Engine {
	return &Engine{
		settings: cache,
		macros:   macros,
		arena:    arena,
		stats:    stats,
		catalog:  erri18n.GetCatalog("en-US"),
		src:      src,
	}
}

// HandleCommand parses and executes one roll command.
func (e *Engine) HandleCommand(ctx context.Context, req Request) Response {
	ctx, span := tracer.Start(ctx, "engine.HandleCommand")
	defer span.End()

	syntax, comment := parse.SplitCommand(req.Text, req.Display)
	if err := parse.CheckComment(comment); err != nil {
		return e.fail(err)
	}

	cmd := parse.Command(syntax)
	span.SetAttributes(attribute.String("command.kind", fmt.Sprintf("%T", cmd)))

	switch cmd := cmd.(type) {
	case parse.PoolRoll:
		return e.poolRoll(ctx, req, cmd.Spec, comment, "")
	case parse.ArithmeticRoll:
		return e.traditionalRoll(ctx, req, cmd.Syntax, comment)
	case parse.MacroUse:
		return e.macroRoll(ctx, req, cmd, comment)
	case parse.MacroDefine:
		return e.message(e.macros.Define(ctx, req.GuildID, req.UserID, cmd, comment))
	case parse.MacroCommentSet:
		return e.message(e.macros.SetComment(ctx, req.GuildID, req.UserID, cmd))
	case parse.MacroDelete:
		return e.message(e.macros.Delete(ctx, req.GuildID, req.UserID, cmd))
	case parse.Invalid:
		return e.fail(cmd.Err)
	default:
		return e.fail(errors.New(errors.CodeSyntaxUnrecognized))
	}
}

// macroRoll resolves a stored roll and feeds the recomputed syntax back
// through the parser.
func (e *Engine) macroRoll(ctx context.Context, req Request, use parse.MacroUse, comment string) Response {
	rules, err := e.settings.Rules(ctx, req.GuildID)
	if err != nil {
		return e.fail(err)
	}

	resolution, err := e.macros.Use(ctx, req.GuildID, req.UserID, use, comment, rules.DefaultDifficulty)
	if err != nil {
		return e.fail(err)
	}

	switch cmd := parse.Command(resolution.Syntax).(type) {
	case parse.PoolRoll:
		resp := e.poolRoll(ctx, req, cmd.Spec, resolution.Comment, resolution.Override)
		return resp
	case parse.ArithmeticRoll:
		return e.traditionalRoll(ctx, req, cmd.Syntax, resolution.Comment)
	default:
		return e.fail(errors.WithMeta(errors.CodeSyntaxInvalidMacroRoll, map[string]string{
			"Syntax": resolution.Syntax,
		}))
	}
}

func (e *Engine) poolRoll(ctx context.Context, req Request, spec roll.PoolSpec, comment, override string) Response {
	rules, err := e.settings.Rules(ctx, req.GuildID)
	if err != nil {
		return e.fail(err)
	}

	opts := roll.PoolOptions{
		DefaultDifficulty: rules.DefaultDifficulty,
		Chronicles:        rules.Chronicles,
		ExplodeAlways:     rules.XplAlways,
		ExplodeSpecialty:  rules.XplSpec,
		AlwaysDouble:      rules.AlwaysDouble,
		NeverDouble:       rules.NeverDouble,
		NullifyOnes:       rules.NullifyOnes,
		NoBotch:           rules.NoBotch || req.NeverBotch,
		WPCancelable:      rules.WPCancelable,
		Willpower:         req.Willpower,
	}

	e.mu.Lock()
	result, err := roll.EvaluatePool(e.src, spec, opts)
	e.mu.Unlock()
	if err != nil {
		return e.fail(err)
	}

	compact := rules.UseCompact || req.Compact
	counts := storage.RollCounts{Rolls: 1}
	if compact {
		counts.Compact = 1
	}
	e.count(ctx, req.GuildID, counts)

	// Only the per-roll flag is called out in the title; the guild-level
	// no_botch rule changes scoring silently.
	return Response{
		Kind:     KindPool,
		Title:    result.Title(req.NeverBotch),
		Dice:     result.FormattedDice(),
		Summary:  result.Summary(),
		Override: override,
		Comment:  comment,
		Compact:  compact,
	}
}

func (e *Engine) traditionalRoll(ctx context.Context, req Request, syntax, comment string) Response {
	e.mu.Lock()
	result := roll.EvaluateTraditional(e.src, syntax)
	e.mu.Unlock()
	if result == nil {
		return e.fail(errors.New(errors.CodeSyntaxUnrecognized))
	}

	e.count(ctx, req.GuildID, storage.RollCounts{Rolls: 1, Traditional: 1})

	resp := Response{
		Kind:                KindTraditional,
		Title:               strconv.Itoa(result.Total),
		Comment:             comment,
		InitiativeSuggested: result.Initiative,
	}
	if eq := result.Equation(); eq != resp.Title {
		resp.Dice = eq
	}
	return resp
}

// MacroList returns the user's stored rolls sorted by name.
func (e *Engine) MacroList(ctx context.Context, guildID, userID string) Response {
	entries, err := e.macros.List(ctx, guildID, userID)
	if err != nil {
		return e.fail(err)
	}
	if len(entries) == 0 {
		return Response{Kind: KindMessage, Message: "You have no macros on this server!"}
	}
	return Response{Kind: KindMacroList, Entries: entries}
}

// MacroDeleteAll removes every macro the user owns in the guild.
func (e *Engine) MacroDeleteAll(ctx context.Context, guildID, userID string) Response {
	deleted, err := e.macros.DeleteAll(ctx, guildID, userID)
	if err != nil {
		return e.fail(err)
	}
	noun := "macros"
	if deleted == 1 {
		noun = "macro"
	}
	return Response{Kind: KindMessage, Message: fmt.Sprintf("Deleted %d %s.", deleted, noun)}
}

// Setting renders one guild setting's current value.
func (e *Engine) Setting(ctx context.Context, guildID, key string) Response {
	value, err := e.settings.Value(ctx, guildID, key)
	if err != nil {
		return e.fail(err)
	}
	return Response{Kind: KindMessage, Message: fmt.Sprintf("%s: %s", key, value)}
}

// SetSetting validates and stores one guild setting.
func (e *Engine) SetSetting(ctx context.Context, guildID, key, value string) Response {
	return e.message(e.settings.Set(ctx, guildID, key, value))
}

func (e *Engine) message(message string, err error) Response {
	if err != nil {
		return e.fail(err)
	}
	return Response{Kind: KindMessage, Message: message}
}

func (e *Engine) fail(err error) Response {
	code := errors.CodeOf(err)
	if code == errors.CodeUnknown {
		log.Printf("command failed: %v", err)
	}
	return Response{
		Kind:    KindError,
		Message: e.catalog.Format(string(code), errors.MetadataOf(err)),
	}
}

// count records roll statistics best-effort; a stats failure never blocks
// a roll result.
func (e *Engine) count(ctx context.Context, guildID string, delta storage.RollCounts) {
	if e.stats == nil {
		return
	}
	if err := e.stats.IncrementRollCounts(ctx, guildID, delta); err != nil {
		log.Printf("increment roll counts: %v", err)
	}
}
