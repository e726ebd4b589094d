package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/louisbranch/storyteller.space/internal/initiative"
	"github.com/louisbranch/storyteller.space/internal/platform/errors"
	"github.com/louisbranch/storyteller.space/internal/platform/i18n"
	"github.com/louisbranch/storyteller.space/internal/storage"
)

var initiativeModPattern = regexp.MustCompile(`^[+-]?\d+$`)

// InitiativeRequest is one initiative command. Invoker names the caller's
// character when none is given explicitly.
type InitiativeRequest struct {
	GuildID   string
	ChannelID string
	Invoker   string
	Args      []string
}

// Initiative dispatches an initiative subcommand: show, clear, reroll,
// remove, declare, or a modifier-led roll.
func (e *Engine) Initiative(ctx context.Context, req InitiativeRequest) Response {
	ctx, span := tracer.Start(ctx, "engine.Initiative")
	defer span.End()

	if len(req.Args) == 0 {
		return e.initiativeShow(req.ChannelID)
	}

	switch req.Args[0] {
	case "clear":
		return e.initiativeClear(ctx, req.ChannelID)
	case "reroll":
		return e.initiativeReroll(ctx, req.ChannelID)
	case "remove":
		return e.initiativeRemove(ctx, req.ChannelID, req.character(req.Args[1:]))
	case "dec", "declare":
		return e.initiativeDeclare(ctx, req, req.Args[1:])
	}

	if !initiativeModPattern.MatchString(req.Args[0]) {
		return e.fail(errors.New(errors.CodeValidationInitiativeMod))
	}

	mod, _ := strconv.Atoi(req.Args[0])
	signed := req.Args[0][0] == '+' || req.Args[0][0] == '-'
	character := req.character(req.Args[1:])

	if signed {
		return e.initiativeModify(ctx, req.ChannelID, character, mod)
	}
	return e.initiativeRoll(ctx, req.GuildID, req.ChannelID, character, mod)
}

func (r InitiativeRequest) character(words []string) string {
	if len(words) > 0 {
		return strings.Join(words, " ")
	}
	return r.Invoker
}

func (e *Engine) initiativeShow(channelID string) Response {
	summary, err := e.arena.Summary(channelID)
	if err != nil {
		return e.fail(err)
	}
	return Response{
		Kind:    KindInitiative,
		Title:   "Initiative",
		Summary: summary,
		Message: "Commands: remove | clear | reroll | declare",
	}
}

func (e *Engine) initiativeRoll(ctx context.Context, guildID, channelID, character string, mod int) Response {
	entry, count, err := e.arena.Roll(ctx, channelID, character, mod)
	if err != nil {
		return e.fail(err)
	}

	e.count(ctx, guildID, storage.RollCounts{Initiative: 1})

	return Response{
		Kind:    KindInitiative,
		Title:   fmt.Sprintf("%s's Initiative", character),
		Dice:    entry.String(),
		Message: i18n.Entries(count) + ".",
	}
}

func (e *Engine) initiativeModify(ctx context.Context, channelID, character string, delta int) Response {
	entry, err := e.arena.Modify(ctx, channelID, character, delta)
	if err != nil {
		return e.fail(err)
	}
	return Response{
		Kind:    KindInitiative,
		Title:   fmt.Sprintf("%s's Initiative", character),
		Dice:    entry.String(),
		Message: fmt.Sprintf("Initiative modified by %+d.", delta),
	}
}

func (e *Engine) initiativeRemove(ctx context.Context, channelID, character string) Response {
	cleared, err := e.arena.Remove(ctx, channelID, character)
	if err != nil {
		return e.fail(err)
	}

	message := fmt.Sprintf("Removed %s from initiative!", character)
	if cleared {
		message += "\nNo characters left in initiative. Clearing table."
	}
	return Response{Kind: KindInitiative, Message: message}
}

func (e *Engine) initiativeReroll(ctx context.Context, channelID string) Response {
	if _, err := e.arena.Reroll(ctx, channelID); err != nil {
		return e.fail(err)
	}
	summary, err := e.arena.Summary(channelID)
	if err != nil {
		return e.fail(err)
	}
	return Response{
		Kind:    KindInitiative,
		Title:   "Initiative",
		Summary: summary,
		Message: "Rerolling initiative!",
	}
}

func (e *Engine) initiativeDeclare(ctx context.Context, req InitiativeRequest, args []string) Response {
	dec, err := initiative.ParseDeclare(args)
	if err != nil {
		return e.fail(err)
	}
	if dec.Character == "" {
		dec.Character = req.Invoker
	}

	if err := e.arena.Declare(ctx, req.ChannelID, dec); err != nil {
		return e.fail(err)
	}

	summary, err := e.arena.Summary(req.ChannelID)
	if err != nil {
		return e.fail(err)
	}
	return Response{
		Kind:    KindInitiative,
		Title:   "Initiative",
		Summary: summary,
	}
}

func (e *Engine) initiativeClear(ctx context.Context, channelID string) Response {
	if err := e.arena.Clear(ctx, channelID); err != nil {
		return e.fail(err)
	}
	return Response{Kind: KindInitiative, Message: "Initiative table cleared!"}
}
