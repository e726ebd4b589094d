// Package mcp exposes the dice engine as MCP tools over stdio.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/storyteller.space/internal/engine"
)

// RollInput represents the MCP tool input for a roll command.
type RollInput struct {
	GuildID   string `json:"guild_id" jsonschema:"guild scope for settings and macros"`
	UserID    string `json:"user_id" jsonschema:"user owning stored macros"`
	ChannelID string `json:"channel_id,omitempty" jsonschema:"channel scope for initiative"`
	Command   string `json:"command" jsonschema:"roll syntax, e.g. 7 6 +2 # ambush"`
	Willpower bool   `json:"willpower,omitempty" jsonschema:"spend Willpower on the roll"`
	Compact   bool   `json:"compact,omitempty" jsonschema:"request the condensed layout"`
	NoBotch   bool   `json:"no_botch,omitempty" jsonschema:"disable botch results for this roll"`
}

// RollResult represents the MCP tool output for a roll command.
type RollResult struct {
	Kind                string `json:"kind" jsonschema:"response kind (pool, traditional, message, error, initiative)"`
	Title               string `json:"title,omitempty" jsonschema:"roll header line"`
	Dice                string `json:"dice,omitempty" jsonschema:"formatted dice or equation"`
	Summary             string `json:"summary,omitempty" jsonschema:"net result or table rendering"`
	Override            string `json:"override,omitempty" jsonschema:"macro modifier note"`
	Comment             string `json:"comment,omitempty" jsonschema:"comment carried through the roll"`
	Message             string `json:"message,omitempty" jsonschema:"confirmation, footer, or error text"`
	InitiativeSuggested bool   `json:"initiative_suggested,omitempty" jsonschema:"whether the roll looks like an initiative roll"`
}

// InitiativeInput represents the MCP tool input for initiative commands.
type InitiativeInput struct {
	GuildID   string   `json:"guild_id" jsonschema:"guild scope for roll statistics"`
	ChannelID string   `json:"channel_id" jsonschema:"channel owning the initiative table"`
	Character string   `json:"character" jsonschema:"acting character, used when args name none"`
	Args      []string `json:"args,omitempty" jsonschema:"subcommand words: a modifier, clear, reroll, remove, or dec"`
}

// InitiativeResult represents the MCP tool output for initiative commands.
type InitiativeResult = RollResult

// MacroEntry is one stored roll in a listing.
type MacroEntry struct {
	Name   string `json:"name" jsonschema:"macro name"`
	Syntax string `json:"syntax" jsonschema:"stored syntax with comment appended"`
}

// MacroListInput represents the MCP tool input for listing macros.
type MacroListInput struct {
	GuildID string `json:"guild_id" jsonschema:"guild scope"`
	UserID  string `json:"user_id" jsonschema:"macro owner"`
}

// MacroListResult represents the MCP tool output for listing macros.
type MacroListResult struct {
	Macros  []MacroEntry `json:"macros,omitempty" jsonschema:"stored rolls sorted by name"`
	Message string       `json:"message,omitempty" jsonschema:"set when the user has no macros"`
}

// MacroDeleteAllInput represents the MCP tool input for bulk macro deletion.
type MacroDeleteAllInput struct {
	GuildID string `json:"guild_id" jsonschema:"guild scope"`
	UserID  string `json:"user_id" jsonschema:"macro owner"`
}

// MacroDeleteAllResult represents the MCP tool output for bulk macro deletion.
type MacroDeleteAllResult struct {
	Message string `json:"message" jsonschema:"deletion confirmation"`
}

// SettingsGetInput represents the MCP tool input for reading a guild setting.
type SettingsGetInput struct {
	GuildID string `json:"guild_id" jsonschema:"guild scope"`
	Key     string `json:"key" jsonschema:"setting key, e.g. default_diff"`
}

// SettingsSetInput represents the MCP tool input for writing a guild setting.
type SettingsSetInput struct {
	GuildID string `json:"guild_id" jsonschema:"guild scope"`
	Key     string `json:"key" jsonschema:"setting key, e.g. chronicles"`
	Value   string `json:"value" jsonschema:"new value"`
}

// SettingsResult represents the MCP tool output for setting operations.
type SettingsResult struct {
	Message string `json:"message" jsonschema:"current value or confirmation"`
}

// RollTool defines the MCP tool schema for roll commands.
func RollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roll",
		Description: "Executes a Storyteller roll command: pool, traditional, or macro syntax",
	}
}

// InitiativeTool defines the MCP tool schema for initiative commands.
func InitiativeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "initiative",
		Description: "Manages a channel's initiative table",
	}
}

// MacroListTool defines the MCP tool schema for listing macros.
func MacroListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "macro_list",
		Description: "Lists a user's stored rolls",
	}
}

// MacroDeleteAllTool defines the MCP tool schema for bulk macro deletion.
func MacroDeleteAllTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "macro_delete_all",
		Description: "Deletes every stored roll a user owns in a guild",
	}
}

// SettingsGetTool defines the MCP tool schema for reading a guild setting.
func SettingsGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "settings_get",
		Description: "Reads a guild setting",
	}
}

// SettingsSetTool defines the MCP tool schema for writing a guild setting.
func SettingsSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "settings_set",
		Description: "Validates and stores a guild setting",
	}
}

func rollResult(resp engine.Response) RollResult {
	return RollResult{
		Kind:                kindLabel(resp.Kind),
		Title:               resp.Title,
		Dice:                resp.Dice,
		Summary:             resp.Summary,
		Override:            resp.Override,
		Comment:             resp.Comment,
		Message:             resp.Message,
		InitiativeSuggested: resp.InitiativeSuggested,
	}
}

func kindLabel(kind engine.Kind) string {
	switch kind {
	case engine.KindPool:
		return "pool"
	case engine.KindTraditional:
		return "traditional"
	case engine.KindInitiative:
		return "initiative"
	case engine.KindMacroList:
		return "macro_list"
	case engine.KindError:
		return "error"
	default:
		return "message"
	}
}

// RollHandler executes a roll command against the engine.
func RollHandler(eng *engine.Engine) mcp.ToolHandlerFor[RollInput, RollResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RollInput) (*mcp.CallToolResult, RollResult, error) {
		resp := eng.HandleCommand(ctx, engine.Request{
			GuildID:    input.GuildID,
			UserID:     input.UserID,
			ChannelID:  input.ChannelID,
			Text:       input.Command,
			Willpower:  input.Willpower,
			Compact:    input.Compact,
			NeverBotch: input.NoBotch,
		})
		return nil, rollResult(resp), nil
	}
}

// InitiativeHandler executes an initiative command against the engine.
func InitiativeHandler(eng *engine.Engine) mcp.ToolHandlerFor[InitiativeInput, InitiativeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InitiativeInput) (*mcp.CallToolResult, InitiativeResult, error) {
		resp := eng.Initiative(ctx, engine.InitiativeRequest{
			GuildID:   input.GuildID,
			ChannelID: input.ChannelID,
			Invoker:   input.Character,
			Args:      input.Args,
		})
		return nil, rollResult(resp), nil
	}
}

// MacroListHandler lists the user's stored rolls.
func MacroListHandler(eng *engine.Engine) mcp.ToolHandlerFor[MacroListInput, MacroListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MacroListInput) (*mcp.CallToolResult, MacroListResult, error) {
		resp := eng.MacroList(ctx, input.GuildID, input.UserID)

		result := MacroListResult{Message: resp.Message}
		for _, entry := range resp.Entries {
			result.Macros = append(result.Macros, MacroEntry{Name: entry[0], Syntax: entry[1]})
		}
		return nil, result, nil
	}
}

// MacroDeleteAllHandler removes every stored roll the user owns.
func MacroDeleteAllHandler(eng *engine.Engine) mcp.ToolHandlerFor[MacroDeleteAllInput, MacroDeleteAllResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MacroDeleteAllInput) (*mcp.CallToolResult, MacroDeleteAllResult, error) {
		resp := eng.MacroDeleteAll(ctx, input.GuildID, input.UserID)
		return nil, MacroDeleteAllResult{Message: resp.Message}, nil
	}
}

// SettingsGetHandler reads one guild setting.
func SettingsGetHandler(eng *engine.Engine) mcp.ToolHandlerFor[SettingsGetInput, SettingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SettingsGetInput) (*mcp.CallToolResult, SettingsResult, error) {
		resp := eng.Setting(ctx, input.GuildID, input.Key)
		return nil, SettingsResult{Message: resp.Message}, nil
	}
}

// SettingsSetHandler validates and stores one guild setting.
func SettingsSetHandler(eng *engine.Engine) mcp.ToolHandlerFor[SettingsSetInput, SettingsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SettingsSetInput) (*mcp.CallToolResult, SettingsResult, error) {
		resp := eng.SetSetting(ctx, input.GuildID, input.Key, input.Value)
		return nil, SettingsResult{Message: resp.Message}, nil
	}
}
