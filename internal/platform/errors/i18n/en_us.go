package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
const (
	CodeUnknown = "UNKNOWN"

	CodeSyntaxUnrecognized     = "SYNTAX_UNRECOGNIZED"
	CodeSyntaxMacroNameSpaces  = "SYNTAX_MACRO_NAME_SPACES"
	CodeSyntaxInvalidMacroRoll = "SYNTAX_INVALID_MACRO_ROLL"
	CodeSyntaxCommentTooLong   = "SYNTAX_COMMENT_TOO_LONG"
	CodeSyntaxDeclareUsage     = "SYNTAX_DECLARE_USAGE"

	CodeValidationPoolRange         = "VALIDATION_POOL_RANGE"
	CodeValidationDifficultyRange   = "VALIDATION_DIFFICULTY_RANGE"
	CodeValidationExplodeRange      = "VALIDATION_EXPLODE_RANGE"
	CodeValidationPoolDeltaSign     = "VALIDATION_POOL_DELTA_SIGN"
	CodeValidationSettingUnknown    = "VALIDATION_SETTING_UNKNOWN"
	CodeValidationSettingDifficulty = "VALIDATION_SETTING_DIFFICULTY"
	CodeValidationSettingBoolean    = "VALIDATION_SETTING_BOOLEAN"
	CodeValidationInitiativeMod     = "VALIDATION_INITIATIVE_MOD"

	CodeMacroNotFound        = "MACRO_NOT_FOUND"
	CodeMacroNotFoundSuggest = "MACRO_NOT_FOUND_SUGGEST"
	CodeMacroDeleteNotFound  = "MACRO_DELETE_NOT_FOUND"
	CodeMacroCommentNotFound = "MACRO_COMMENT_NOT_FOUND"
	CodeNotFound             = "NOT_FOUND"

	CodeInitiativeTableMissing     = "INITIATIVE_TABLE_MISSING"
	CodeInitiativeCharacterMissing = "INITIATIVE_CHARACTER_MISSING"
	CodeInitiativeNothingToModify  = "INITIATIVE_NOTHING_TO_MODIFY"
	CodeInitiativeActionMissing    = "INITIATIVE_ACTION_MISSING"
)

var enUSCatalog = NewCatalog("en-US", map[Code]string{
	// Syntax errors
	CodeSyntaxUnrecognized:     "Come again?",
	CodeSyntaxMacroNameSpaces:  "Sorry, macro names can't contain spaces!",
	CodeSyntaxInvalidMacroRoll: "Sorry, {{.Syntax}} is invalid roll syntax!",
	CodeSyntaxCommentTooLong:   "Comment too long by {{.Overage}}.",
	CodeSyntaxDeclareUsage:     "Usage: dec <action> [-n character] [-c N]",

	// Validation errors
	CodeValidationPoolRange:         "Sorry, pools must be between 1 and 100. (Input: {{.Pool}})",
	CodeValidationDifficultyRange:   "Whoops! Difficulty must be between 2 and 10. (Input: {{.Difficulty}})",
	CodeValidationExplodeRange:      "Whoops! X-Again must be between {{.Difficulty}} and 10, not {{.Target}}.",
	CodeValidationPoolDeltaSign:     "Pool modifiers must be zero or have a +/- sign.",
	CodeValidationSettingUnknown:    "Unknown setting {{.Key}}!",
	CodeValidationSettingDifficulty: "Error! {{.Key}} must be an integer between 2-10.",
	CodeValidationSettingBoolean:    "Error! {{.Key}} must be true or false!",
	CodeValidationInitiativeMod:     "Please supply a modifier, e.g. +2 or 3.",

	// Not-found errors
	CodeMacroNotFound:        "Sorry, you have no macro named {{.Name}}!",
	CodeMacroNotFoundSuggest: "{{.Name}} not found. Did you mean {{.Suggestion}}?",
	CodeMacroDeleteNotFound:  "Can't delete. {{.Name}} not found!",
	CodeMacroCommentNotFound: "Unable to update. You don't have a roll named {{.Name}}!",
	CodeNotFound:             "The requested record was not found.",

	// State errors
	CodeInitiativeTableMissing:     "Initiative isn't running in this channel!",
	CodeInitiativeCharacterMissing: "{{.Character}} isn't in the initiative table!",
	CodeInitiativeNothingToModify:  "{{.Character}} has no initiative to modify!",
	CodeInitiativeActionMissing:    "You need to supply an action!",
})
