// Package parse turns raw command text into typed roll requests.
//
// A command is the syntax portion of a user message after the comment is
// split off. Invocation flags such as Willpower or compact display arrive
// out of band and never appear in the syntax.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/louisbranch/storyteller.space/internal/platform/errors"
	"github.com/louisbranch/storyteller.space/internal/platform/i18n"
	"github.com/louisbranch/storyteller.space/internal/roll"
)

// MaxCommentLen is the longest comment hosts will render.
const MaxCommentLen = 500

var (
	poolPattern = regexp.MustCompile(
		`^(?P<pool>-?\d+)[\s@]?(?P<difficulty>\d+)?\s?(?P<auto>[+-]?\d+)?(?: (?P<specialty>\D[^#]*))?$`,
	)

	definePattern     = regexp.MustCompile(`^(?P<name>[\w-]+)\s*=\s*(?P<syntax>.+)$`)
	commentSetPattern = regexp.MustCompile(`^(?P<name>[\w-]+)\s+c=(?P<comment>.*)$`)
	usePattern        = regexp.MustCompile(`^(?P<name>[\w-]+)\s*(?P<mods>(?P<sign>[+-])?\d+(?:\s[+-]?\d+)?)?$`)
	deletePattern     = regexp.MustCompile(`^(?P<name>[\w-]+)\s*=$`)
	multiWordPattern  = regexp.MustCompile(`^[\w-]+ [\w-]+`)

	spaces = regexp.MustCompile(`\s+`)
)

// Request is a parsed command. Exactly one concrete type is produced per
// input.
type Request interface {
	isRequest()
}

// PoolRoll is a success-counting d10 roll request.
type PoolRoll struct {
	Spec roll.PoolSpec
}

// ArithmeticRoll is an additive dice roll such as "2d6+3".
type ArithmeticRoll struct {
	Syntax string
}

// MacroDefine stores or overwrites a named roll.
type MacroDefine struct {
	Name   string
	Syntax string
}

// MacroUse invokes a stored roll, optionally modifying its pool and
// difficulty.
type MacroUse struct {
	Name string

	HasMods    bool
	PoolDelta  int
	PoolSigned bool

	// HasDiff is set when a second modifier token is present. DiffSigned
	// distinguishes "adjust by" from "set to".
	HasDiff    bool
	DiffValue  int
	DiffSigned bool
}

// MacroCommentSet replaces a stored roll's comment. An empty comment
// clears it.
type MacroCommentSet struct {
	Name    string
	Comment string
}

// MacroDelete removes a stored roll.
type MacroDelete struct {
	Name string
}

// Invalid is a command whose shape was recognized but whose content is
// rejected, such as a macro name containing spaces.
type Invalid struct {
	Err error
}

// Unrecognized is a command matching no grammar rule.
type Unrecognized struct{}

func (PoolRoll) isRequest()        {}
func (ArithmeticRoll) isRequest()  {}
func (MacroDefine) isRequest()     {}
func (MacroUse) isRequest()        {}
func (MacroCommentSet) isRequest() {}
func (MacroDelete) isRequest()     {}
func (Invalid) isRequest()         {}
func (Unrecognized) isRequest()    {}

// Command parses the syntax portion of a command into a typed request.
// Macro forms are only considered when the syntax begins with a letter;
// pool rolls win over arithmetic rolls when both could match.
func Command(syntax string) Request {
	syntax = Normalize(syntax)
	if syntax == "" {
		return Unrecognized{}
	}

	first := []rune(syntax)[0]
	if unicode.IsLetter(first) {
		return macroCommand(syntax)
	}

	if spec, ok := parsePool(syntax); ok {
		return PoolRoll{Spec: spec}
	}
	if roll.IsTraditional(syntax) {
		return ArithmeticRoll{Syntax: syntax}
	}
	return Unrecognized{}
}

// macroCommand tries the macro grammar rules in priority order: define,
// comment-set, use, delete, then multi-word-name rejection.
func macroCommand(syntax string) Request {
	if m := match(definePattern, syntax); m != nil {
		return MacroDefine{Name: m["name"], Syntax: Normalize(m["syntax"])}
	}
	if m := match(commentSetPattern, syntax); m != nil {
		return MacroCommentSet{Name: m["name"], Comment: strings.TrimSpace(m["comment"])}
	}
	if m := match(usePattern, syntax); m != nil {
		return parseUse(m)
	}
	if m := match(deletePattern, syntax); m != nil {
		return MacroDelete{Name: m["name"]}
	}
	if multiWordPattern.MatchString(syntax) {
		return Invalid{Err: errors.New(errors.CodeSyntaxMacroNameSpaces)}
	}
	return Unrecognized{}
}

func parseUse(m map[string]string) Request {
	use := MacroUse{Name: m["name"]}
	mods := m["mods"]
	if mods == "" {
		return use
	}

	use.HasMods = true
	use.PoolSigned = m["sign"] != ""

	parts := strings.Split(mods, " ")
	use.PoolDelta, _ = strconv.Atoi(parts[0])

	if len(parts) > 1 {
		use.HasDiff = true
		use.DiffSigned = parts[1][0] == '+' || parts[1][0] == '-'
		use.DiffValue, _ = strconv.Atoi(parts[1])
	}
	return use
}

func parsePool(syntax string) (roll.PoolSpec, bool) {
	m := match(poolPattern, syntax)
	if m == nil {
		return roll.PoolSpec{}, false
	}

	spec := roll.PoolSpec{Specialty: strings.TrimSpace(m["specialty"])}
	spec.Pool, _ = strconv.Atoi(m["pool"])
	if m["difficulty"] != "" {
		spec.HasDifficulty = true
		spec.Difficulty, _ = strconv.Atoi(m["difficulty"])
	}
	if m["auto"] != "" {
		spec.Autos, _ = strconv.Atoi(m["auto"])
	}
	return spec, true
}

// IsValidRoll reports whether the syntax would evaluate as a pool or
// arithmetic roll. Used to vet macro definitions without drawing dice.
func IsValidRoll(syntax string) bool {
	syntax = Normalize(syntax)
	if syntax == "" {
		return false
	}
	if _, ok := parsePool(syntax); ok {
		return true
	}
	return roll.IsTraditional(syntax)
}

// SplitCommand separates syntax from comment at the first "#". When a
// display variant of the text is supplied and both variants place the
// delimiter at the same offset, the display form is preferred so hosts
// render mentions cleanly.
func SplitCommand(raw, display string) (syntax, comment string) {
	text := Normalize(raw)
	if display != "" {
		d := Normalize(display)
		if i := strings.Index(text, "#"); i >= 0 && strings.Index(d, "#") == i {
			text = d
		}
	}

	parts := strings.SplitN(text, "#", 2)
	syntax = Normalize(parts[0])
	if len(parts) == 2 {
		comment = Normalize(parts[1])
	}
	return syntax, comment
}

// CheckComment rejects comments longer than hosts will render, reporting
// the overage.
func CheckComment(comment string) error {
	overage := len(comment) - MaxCommentLen
	if overage <= 0 {
		return nil
	}
	return errors.WithMeta(errors.CodeSyntaxCommentTooLong, map[string]string{
		"Overage": i18n.Characters(overage),
	})
}

// Normalize collapses runs of whitespace into single spaces and trims the
// ends.
func Normalize(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func match(pattern *regexp.Regexp, s string) map[string]string {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for i, name := range pattern.SubexpNames() {
		if name != "" {
			out[name] = m[i]
		}
	}
	return out
}
