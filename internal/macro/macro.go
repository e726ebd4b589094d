// Package macro resolves stored-roll commands against the macro store.
//
// A macro binds a name to roll syntax and an optional comment. Using a
// macro may modify the stored pool and difficulty on the fly; the
// recomputed syntax re-enters the roll pipeline unchanged.
package macro

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xrash/smetrics"

	"github.com/louisbranch/storyteller.space/internal/parse"
	"github.com/louisbranch/storyteller.space/internal/platform/errors"
	"github.com/louisbranch/storyteller.space/internal/storage"
)

// suggestionFloor is the minimum Jaro-Winkler similarity for a near-miss
// name suggestion.
const suggestionFloor = 0.7

// Resolver executes macro operations against a store.
type Resolver struct {
	store storage.MacroStore
}

// NewResolver returns a resolver backed by the given store.
func NewResolver(store storage.MacroStore) *Resolver {
	return &Resolver{store: store}
}

// Resolution is the outcome of using a macro: the syntax to roll, the
// comment to attach, and a human-readable note when modifiers changed the
// stored values.
type Resolution struct {
	Syntax   string
	Comment  string
	Override string
}

// Define validates and stores a macro, returning a confirmation message.
// The embedded syntax must parse as a pool or arithmetic roll; no dice are
// drawn.
func (r *Resolver) Define(ctx context.Context, guildID, userID string, def parse.MacroDefine, comment string) (string, error) {
	if !parse.IsValidRoll(def.Syntax) {
		return "", errors.WithMeta(errors.CodeSyntaxInvalidMacroRoll, map[string]string{
			"Syntax": def.Syntax,
		})
	}

	created, err := r.store.SaveMacro(ctx, storage.Macro{
		GuildID: guildID,
		UserID:  userID,
		Name:    def.Name,
		Syntax:  def.Syntax,
		Comment: comment,
	})
	if err != nil {
		return "", fmt.Errorf("save macro: %w", err)
	}

	switch {
	case created:
		return fmt.Sprintf("Saved new macro: %s.", def.Name), nil
	case comment != "":
		return fmt.Sprintf("Updated %s syntax and comment.", def.Name), nil
	default:
		return fmt.Sprintf("Updated %s syntax.", def.Name), nil
	}
}

// Use looks up a macro and applies any pool or difficulty modifiers. The
// invocation comment wins over the stored one. defaultDifficulty fills the
// difficulty slot when the stored syntax has none and a modifier needs it.
func (r *Resolver) Use(ctx context.Context, guildID, userID string, use parse.MacroUse, invocationComment string, defaultDifficulty int) (*Resolution, error) {
	stored, err := r.store.Macro(ctx, guildID, userID, use.Name)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, r.notFound(ctx, guildID, userID, use.Name)
		}
		return nil, fmt.Errorf("get macro: %w", err)
	}

	resolution := &Resolution{Syntax: stored.Syntax, Comment: invocationComment}
	if resolution.Comment == "" {
		resolution.Comment = stored.Comment
	}

	if !use.HasMods {
		return resolution, nil
	}

	if use.PoolDelta != 0 && !use.PoolSigned {
		return nil, errors.New(errors.CodeValidationPoolDeltaSign)
	}

	syntax, override, err := applyMods(stored.Syntax, use, defaultDifficulty)
	if err != nil {
		return nil, err
	}
	resolution.Syntax = syntax
	resolution.Override = override
	return resolution, nil
}

// applyMods recomputes the stored syntax's pool and difficulty tokens.
func applyMods(syntax string, use parse.MacroUse, defaultDifficulty int) (string, string, error) {
	tokens := strings.Split(syntax, " ")

	// A difficulty slot is required before it can be set or adjusted.
	if len(tokens) == 1 || !startsWithDigit(tokens[1]) {
		tokens = append(tokens[:1], append([]string{strconv.Itoa(defaultDifficulty)}, tokens[1:]...)...)
	}

	pool, err := strconv.Atoi(tokens[0])
	if err != nil {
		return "", "", errors.WithMeta(errors.CodeSyntaxInvalidMacroRoll, map[string]string{
			"Syntax": syntax,
		})
	}
	tokens[0] = strconv.Itoa(pool + use.PoolDelta)

	poolDesc := ""
	if use.PoolDelta != 0 {
		poolDesc = fmt.Sprintf("Pool %+d. ", use.PoolDelta)
	}

	diffDesc := ""
	if use.HasDiff {
		if use.DiffSigned {
			current, err := strconv.Atoi(tokens[1])
			if err != nil {
				return "", "", errors.WithMeta(errors.CodeSyntaxInvalidMacroRoll, map[string]string{
					"Syntax": syntax,
				})
			}
			tokens[1] = strconv.Itoa(current + use.DiffValue)
			if use.DiffValue != 0 {
				diffDesc = fmt.Sprintf("Diff. %+d.", use.DiffValue)
			}
		} else {
			tokens[1] = strconv.Itoa(use.DiffValue)
			diffDesc = fmt.Sprintf("Diff. to %d.", use.DiffValue)
		}
	}

	return strings.Join(tokens, " "), strings.TrimSpace(poolDesc + diffDesc), nil
}

// notFound builds the not-found error, suggesting the closest stored name
// when one is similar enough.
func (r *Resolver) notFound(ctx context.Context, guildID, userID, name string) error {
	macros, err := r.store.Macros(ctx, guildID, userID)
	if err != nil {
		return fmt.Errorf("list macros: %w", err)
	}

	best := ""
	bestScore := 0.0
	for _, m := range macros {
		score := smetrics.JaroWinkler(strings.ToLower(name), strings.ToLower(m.Name), 0.7, 4)
		if score > bestScore {
			best = m.Name
			bestScore = score
		}
	}

	if bestScore >= suggestionFloor {
		return errors.WithMeta(errors.CodeMacroNotFoundSuggest, map[string]string{
			"Name":       name,
			"Suggestion": best,
		})
	}
	return errors.WithMeta(errors.CodeMacroNotFound, map[string]string{
		"Name": name,
	})
}

// SetComment replaces a macro's comment; empty clears it.
func (r *Resolver) SetComment(ctx context.Context, guildID, userID string, set parse.MacroCommentSet) (string, error) {
	err := r.store.SetMacroComment(ctx, guildID, userID, set.Name, set.Comment)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return "", errors.WithMeta(errors.CodeMacroCommentNotFound, map[string]string{
				"Name": set.Name,
			})
		}
		return "", fmt.Errorf("set macro comment: %w", err)
	}
	return fmt.Sprintf("Updated comment for %s.", set.Name), nil
}

// Delete removes a macro by name.
func (r *Resolver) Delete(ctx context.Context, guildID, userID string, del parse.MacroDelete) (string, error) {
	err := r.store.DeleteMacro(ctx, guildID, userID, del.Name)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return "", errors.WithMeta(errors.CodeMacroDeleteNotFound, map[string]string{
				"Name": del.Name,
			})
		}
		return "", fmt.Errorf("delete macro: %w", err)
	}
	return fmt.Sprintf("%s deleted!", del.Name), nil
}

// DeleteAll removes every macro the user owns in the guild.
func (r *Resolver) DeleteAll(ctx context.Context, guildID, userID string) (int, error) {
	deleted, err := r.store.DeleteMacros(ctx, guildID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete macros: %w", err)
	}
	return deleted, nil
}

// List returns the user's macros sorted by name, each rendered as
// "syntax # comment" when a comment is stored.
func (r *Resolver) List(ctx context.Context, guildID, userID string) ([][2]string, error) {
	macros, err := r.store.Macros(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("list macros: %w", err)
	}

	entries := make([][2]string, 0, len(macros))
	for _, m := range macros {
		display := m.Syntax
		if m.Comment != "" {
			display += " # " + m.Comment
		}
		entries = append(entries, [2]string{m.Name, display})
	}
	return entries, nil
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
