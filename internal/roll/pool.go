// Package roll evaluates Storyteller dice pools and traditional rolls.
//
// Pool rolls count successes against a difficulty on d10s; traditional
// rolls sum arbitrary dice and flat modifiers. Both draw from an injected
// dice.Source so results are reproducible under a fixed seed.
package roll

import (
	"sort"
	"strconv"
	"strings"

	"github.com/louisbranch/storyteller.space/internal/core/dice"
	"github.com/louisbranch/storyteller.space/internal/platform/errors"
	"github.com/louisbranch/storyteller.space/internal/platform/i18n"
)

const (
	minPool       = 1
	maxPool       = 100
	minDifficulty = 2
	maxDifficulty = 10

	// A d10 can never show 11, so this target disables explosions.
	noExplosion = 11
)

// PoolSpec is a parsed pool-roll request before rule resolution.
type PoolSpec struct {
	Pool          int
	Difficulty    int
	HasDifficulty bool
	Autos         int
	Specialty     string
}

// PoolOptions carries the guild rules and invocation flags that shape a
// pool roll. NoBotch is the union of the guild rule and the per-roll flag.
type PoolOptions struct {
	DefaultDifficulty int
	Chronicles        bool
	ExplodeAlways     bool
	ExplodeSpecialty  bool
	AlwaysDouble      bool
	NeverDouble       bool
	NullifyOnes       bool
	NoBotch           bool
	WPCancelable      bool
	Willpower         bool
}

// PoolResult is the outcome of a pool roll.
type PoolResult struct {
	// Dice holds every face drawn, explosions included, sorted descending.
	Dice       []int
	Successes  int
	Botch      bool
	Explosions int

	Pool       int
	Difficulty int
	Autos      int
	Specialty  string
	Willpower  bool
	DoubleTens bool
	// OnesNullified is set when ones neither subtract nor botch.
	OnesNullified bool
	// XAgain is the explosion target for chronicles rolls, 0 otherwise.
	XAgain int
}

// EvaluatePool draws and scores a pool roll under the provided options.
func EvaluatePool(src dice.Source, spec PoolSpec, opts PoolOptions) (*PoolResult, error) {
	if spec.Pool < minPool || spec.Pool > maxPool {
		return nil, errors.WithMeta(errors.CodeValidationPoolRange, map[string]string{
			"Pool": strconv.Itoa(spec.Pool),
		})
	}

	difficulty := opts.DefaultDifficulty
	if difficulty == 0 {
		difficulty = 6
	}

	pool := spec.Pool
	will := opts.Willpower
	xplTarget := noExplosion
	xAgain := 0

	if opts.Chronicles {
		// Chronicles rolls use a fixed difficulty; a supplied second
		// number is the X-again target, and Willpower adds dice rather
		// than a guaranteed success.
		will = false
		if opts.Willpower {
			pool += 3
		}

		xplTarget = 10
		if spec.HasDifficulty {
			xplTarget = spec.Difficulty
		}
		if xplTarget < difficulty || xplTarget > 10 {
			return nil, errors.WithMeta(errors.CodeValidationExplodeRange, map[string]string{
				"Difficulty": strconv.Itoa(difficulty),
				"Target":     strconv.Itoa(xplTarget),
			})
		}
		xAgain = xplTarget
	} else {
		if spec.HasDifficulty {
			difficulty = spec.Difficulty
		}
		if difficulty < minDifficulty || difficulty > maxDifficulty {
			return nil, errors.WithMeta(errors.CodeValidationDifficultyRange, map[string]string{
				"Difficulty": strconv.Itoa(difficulty),
			})
		}
		if opts.ExplodeAlways || (opts.ExplodeSpecialty && spec.Specialty != "") {
			xplTarget = 10
		}
	}

	result := &PoolResult{
		Pool:          spec.Pool,
		Difficulty:    difficulty,
		Autos:         spec.Autos,
		Specialty:     spec.Specialty,
		Willpower:     will,
		DoubleTens:    shouldDouble(opts, spec.Specialty != ""),
		OnesNullified: opts.NullifyOnes && opts.NoBotch,
		XAgain:        xAgain,
	}

	for i := 0; i < pool; i++ {
		die := dice.D10(src)
		for die >= xplTarget {
			result.Dice = append(result.Dice, die)
			die = dice.D10(src)
			result.Explosions++
		}
		result.Dice = append(result.Dice, die)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(result.Dice)))

	result.Successes, result.Botch = score(result, opts)
	return result, nil
}

// score counts net successes. A botch is only possible without Willpower;
// with Willpower, one success is guaranteed unless the guild allows ones to
// cancel it.
func score(r *PoolResult, opts PoolOptions) (int, bool) {
	suxx := 0
	if r.Willpower {
		suxx++
	}

	fails := 0
	if r.Autos > 0 {
		suxx += r.Autos
	} else if r.Autos < 0 {
		fails -= r.Autos
	}

	for _, die := range r.Dice {
		switch {
		case die >= r.Difficulty:
			suxx++
			if die == 10 && r.DoubleTens {
				suxx++
			}
		case die == 1 && !r.OnesNullified:
			fails++
		}
	}

	if !r.Willpower && fails > 0 && suxx == 0 && !opts.NoBotch {
		return -fails, true
	}

	suxx -= fails
	if suxx < 0 {
		suxx = 0
	}
	if suxx == 0 && r.Willpower && !opts.WPCancelable {
		suxx = 1
	}
	return suxx, false
}

func shouldDouble(opts PoolOptions, specialty bool) bool {
	if opts.NeverDouble {
		return false
	}
	return opts.AlwaysDouble || specialty
}

// Summary renders the outcome line, e.g. "3 successes" or "Botch: -2".
func (r *PoolResult) Summary() string {
	switch {
	case r.Successes > 0:
		return i18n.Successes(r.Successes)
	case r.Botch:
		return "Botch: " + strconv.Itoa(r.Successes)
	default:
		return "Failure"
	}
}

// FormattedDice renders the faces with Markdown cues: failures are struck
// out, ones are bold-struck, doubled tens are bold. Willpower and automatic
// successes are appended as annotations.
func (r *PoolResult) FormattedDice() string {
	formatted := make([]string, 0, len(r.Dice))
	for _, die := range r.Dice {
		face := strconv.Itoa(die)
		switch {
		case die == 1 && !r.OnesNullified:
			formatted = append(formatted, "~~***"+face+"***~~")
		case die < r.Difficulty:
			formatted = append(formatted, "~~"+face+"~~")
		case die == 10 && r.DoubleTens:
			formatted = append(formatted, "**"+face+"**")
		default:
			formatted = append(formatted, face)
		}
	}

	out := strings.Join(formatted, ", ")
	if r.Willpower {
		out += " *+WP*"
	}
	if r.Autos > 0 {
		out += " *+" + strconv.Itoa(r.Autos) + "*"
	}
	return out
}

// Title renders the header line, e.g. "Pool 7, diff. 6, +2 successes".
func (r *PoolResult) Title(noBotch bool) string {
	title := "Pool " + strconv.Itoa(r.Pool)
	if r.XAgain > 0 {
		title += ", " + strconv.Itoa(r.XAgain) + "-again"
	} else {
		title += ", diff. " + strconv.Itoa(r.Difficulty)
	}
	if r.Autos != 0 {
		title += ", " + i18n.AutoSuccesses(r.Autos)
	}
	if noBotch && r.XAgain == 0 {
		title += ", no botch"
	}
	if r.Explosions > 0 {
		title += " (+" + i18n.Explosions(r.Explosions) + ")"
	}
	return title
}
