package roll

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/louisbranch/storyteller.space/internal/core/dice"
)

var (
	diceTermPattern = regexp.MustCompile(`^(?P<repeat>\d+)d(?P<die>\d+)$`)
	modTermPattern  = regexp.MustCompile(`^\d+$`)
	plusSpacing     = regexp.MustCompile(`\s*\+\s*`)
)

// TraditionalResult is the outcome of an additive roll such as "2d6+3".
type TraditionalResult struct {
	// Rolls holds each drawn face and flat modifier, in term order.
	Rolls []int
	Total int
	// Initiative is set for a lone 1d10 plus a flat modifier, the shape
	// of a Storyteller initiative roll.
	Initiative bool
}

// Equation renders the individual rolls joined by plus signs, e.g. "4+5+3".
func (r *TraditionalResult) Equation() string {
	parts := make([]string, len(r.Rolls))
	for i, v := range r.Rolls {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "+")
}

// IsTraditional reports whether the syntax parses as a traditional roll.
func IsTraditional(syntax string) bool {
	terms, ok := traditionalTerms(syntax)
	return ok && len(terms) > 0
}

// EvaluateTraditional rolls an additive dice expression. It returns nil
// when the syntax is not a traditional roll.
func EvaluateTraditional(src dice.Source, syntax string) *TraditionalResult {
	terms, ok := traditionalTerms(syntax)
	if !ok || len(terms) == 0 {
		return nil
	}

	result := &TraditionalResult{}
	rolledD10 := false
	hasMod := false
	numRolls := 0

	for _, term := range terms {
		if m := diceTermPattern.FindStringSubmatch(term); m != nil {
			repeat, _ := strconv.Atoi(m[1])
			sides, _ := strconv.Atoi(m[2])

			numRolls += repeat
			if sides == 10 {
				rolledD10 = true
			}

			faces, err := dice.RollN(src, repeat, sides)
			if err != nil {
				return nil
			}
			result.Rolls = append(result.Rolls, faces...)
			continue
		}

		mod, _ := strconv.Atoi(term)
		result.Rolls = append(result.Rolls, mod)
		hasMod = true
	}

	for _, v := range result.Rolls {
		result.Total += v
	}
	result.Initiative = numRolls == 1 && rolledD10 && hasMod
	return result
}

// traditionalTerms splits the syntax on plus signs and reports whether every
// term is an NdM roll or a flat non-negative integer. Whitespace is allowed
// around plus signs but not inside terms, so "7 6" never collapses into a
// single number.
func traditionalTerms(syntax string) ([]string, bool) {
	cleaned := strings.TrimSpace(plusSpacing.ReplaceAllString(syntax, "+"))
	if cleaned == "" || strings.ContainsAny(cleaned, " \t") {
		return nil, false
	}

	terms := strings.Split(cleaned, "+")
	for _, term := range terms {
		if m := diceTermPattern.FindStringSubmatch(term); m != nil {
			repeat, _ := strconv.Atoi(m[1])
			sides, _ := strconv.Atoi(m[2])
			if repeat < 1 || repeat > maxPool || sides < 1 {
				return nil, false
			}
			continue
		}
		if modTermPattern.MatchString(term) {
			continue
		}
		return nil, false
	}
	return terms, true
}
