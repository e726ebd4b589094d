// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Syntax errors
	CodeSyntaxUnrecognized     Code = "SYNTAX_UNRECOGNIZED"
	CodeSyntaxMacroNameSpaces  Code = "SYNTAX_MACRO_NAME_SPACES"
	CodeSyntaxInvalidMacroRoll Code = "SYNTAX_INVALID_MACRO_ROLL"
	CodeSyntaxCommentTooLong   Code = "SYNTAX_COMMENT_TOO_LONG"
	CodeSyntaxDeclareUsage     Code = "SYNTAX_DECLARE_USAGE"

	// Validation errors
	CodeValidationPoolRange         Code = "VALIDATION_POOL_RANGE"
	CodeValidationDifficultyRange   Code = "VALIDATION_DIFFICULTY_RANGE"
	CodeValidationExplodeRange      Code = "VALIDATION_EXPLODE_RANGE"
	CodeValidationPoolDeltaSign     Code = "VALIDATION_POOL_DELTA_SIGN"
	CodeValidationSettingUnknown    Code = "VALIDATION_SETTING_UNKNOWN"
	CodeValidationSettingDifficulty Code = "VALIDATION_SETTING_DIFFICULTY"
	CodeValidationSettingBoolean    Code = "VALIDATION_SETTING_BOOLEAN"
	CodeValidationInitiativeMod     Code = "VALIDATION_INITIATIVE_MOD"

	// Not-found errors
	CodeMacroNotFound        Code = "MACRO_NOT_FOUND"
	CodeMacroNotFoundSuggest Code = "MACRO_NOT_FOUND_SUGGEST"
	CodeMacroDeleteNotFound  Code = "MACRO_DELETE_NOT_FOUND"
	CodeMacroCommentNotFound Code = "MACRO_COMMENT_NOT_FOUND"
	CodeNotFound             Code = "NOT_FOUND"

	// State errors
	CodeInitiativeTableMissing     Code = "INITIATIVE_TABLE_MISSING"
	CodeInitiativeCharacterMissing Code = "INITIATIVE_CHARACTER_MISSING"
	CodeInitiativeNothingToModify  Code = "INITIATIVE_NOTHING_TO_MODIFY"
	CodeInitiativeActionMissing    Code = "INITIATIVE_ACTION_MISSING"
)

// Kind groups error codes into the recovery families used at the command
// boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindSyntax
	KindValidation
	KindNotFound
	KindState
)

// Kind reports the recovery family for the code.
func (c Code) Kind() Kind {
	switch c {
	case CodeSyntaxUnrecognized,
		CodeSyntaxMacroNameSpaces,
		CodeSyntaxInvalidMacroRoll,
		CodeSyntaxCommentTooLong,
		CodeSyntaxDeclareUsage:
		return KindSyntax

	case CodeValidationPoolRange,
		CodeValidationDifficultyRange,
		CodeValidationExplodeRange,
		CodeValidationPoolDeltaSign,
		CodeValidationSettingUnknown,
		CodeValidationSettingDifficulty,
		CodeValidationSettingBoolean,
		CodeValidationInitiativeMod:
		return KindValidation

	case CodeMacroNotFound,
		CodeMacroNotFoundSuggest,
		CodeMacroDeleteNotFound,
		CodeMacroCommentNotFound,
		CodeNotFound:
		return KindNotFound

	case CodeInitiativeTableMissing,
		CodeInitiativeCharacterMissing,
		CodeInitiativeNothingToModify,
		CodeInitiativeActionMissing:
		return KindState

	default:
		return KindUnknown
	}
}
