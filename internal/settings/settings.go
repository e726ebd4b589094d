// Package settings manages per-guild rule configuration.
//
// Every guild carries a Rules snapshot controlling difficulty defaults,
// explosion and doubling behavior, and botch handling. Reads go through an
// in-memory cache; writes update the backing store synchronously and then
// the cache, so the last writer wins.
package settings

import (
	"strconv"
	"strings"

	"github.com/louisbranch/storyteller.space/internal/platform/errors"
)

// Setting keys, as users type them.
const (
	KeyPrefix       = "prefix"
	KeyUseCompact   = "use_compact"
	KeyDefaultDiff  = "default_diff"
	KeyXplAlways    = "xpl_always"
	KeyXplSpec      = "xpl_spec"
	KeyNeverDouble  = "never_double"
	KeyAlwaysDouble = "always_double"
	KeyNullifyOnes  = "nullify_ones"
	KeyNoBotch      = "no_botch"
	KeyWPCancelable = "wp_cancelable"
	KeyChronicles   = "chronicles"
)

// DefaultPrefixes are the invocation prefixes used when a guild has no
// override.
var DefaultPrefixes = []string{"!m", "/m"}

var descriptions = map[string]string{
	KeyPrefix:       "Defines the bot invocation prefix.",
	KeyUseCompact:   "Set the server to always use compact rolls.",
	KeyDefaultDiff:  "The default difficulty for a pool-based roll.",
	KeyXplAlways:    "If true, tens always explode.",
	KeyXplSpec:      "If true, specialty tens explode.",
	KeyNeverDouble:  "If true, tens will never count as double successes.",
	KeyAlwaysDouble: "If true, tens will always count as double successes.",
	KeyNullifyOnes:  "If true, ones do not subtract successes on no-botch rolls.",
	KeyNoBotch:      "Permanently disables botches.",
	KeyWPCancelable: "Allows ones to cancel a Willpower success.",
	KeyChronicles:   "Enables Chronicles of Darkness-style rolls.",
}

// Keys returns every recognized setting key.
func Keys() []string {
	return []string{
		KeyPrefix, KeyUseCompact, KeyDefaultDiff, KeyXplAlways, KeyXplSpec,
		KeyNeverDouble, KeyAlwaysDouble, KeyNullifyOnes, KeyNoBotch,
		KeyWPCancelable, KeyChronicles,
	}
}

// Describe returns the user-facing description of a setting key.
func Describe(key string) (string, bool) {
	desc, ok := descriptions[key]
	return desc, ok
}

// Rules is a guild's rule configuration snapshot.
type Rules struct {
	Prefix            string
	UseCompact        bool
	DefaultDifficulty int
	XplAlways         bool
	XplSpec           bool
	NeverDouble       bool
	AlwaysDouble      bool
	NullifyOnes       bool
	NoBotch           bool
	WPCancelable      bool
	Chronicles        bool
}

// DefaultRules returns the configuration for a guild with no stored row.
func DefaultRules() Rules {
	return Rules{DefaultDifficulty: 6}
}

// Value renders the current value of a key as users see it.
func (r Rules) Value(key string) (string, error) {
	switch key {
	case KeyPrefix:
		if r.Prefix != "" {
			return r.Prefix, nil
		}
		return strings.Join(DefaultPrefixes, ", "), nil
	case KeyDefaultDiff:
		return strconv.Itoa(r.DefaultDifficulty), nil
	case KeyUseCompact:
		return strconv.FormatBool(r.UseCompact), nil
	case KeyXplAlways:
		return strconv.FormatBool(r.XplAlways), nil
	case KeyXplSpec:
		return strconv.FormatBool(r.XplSpec), nil
	case KeyNeverDouble:
		return strconv.FormatBool(r.NeverDouble), nil
	case KeyAlwaysDouble:
		return strconv.FormatBool(r.AlwaysDouble), nil
	case KeyNullifyOnes:
		return strconv.FormatBool(r.NullifyOnes), nil
	case KeyNoBotch:
		return strconv.FormatBool(r.NoBotch), nil
	case KeyWPCancelable:
		return strconv.FormatBool(r.WPCancelable), nil
	case KeyChronicles:
		return strconv.FormatBool(r.Chronicles), nil
	default:
		return "", errors.WithMeta(errors.CodeValidationSettingUnknown, map[string]string{
			"Key": key,
		})
	}
}

// apply validates and assigns a single key. The chronicles composite is
// handled by the cache so its side effects persist atomically.
func (r *Rules) apply(key, value string) error {
	switch key {
	case KeyPrefix:
		r.Prefix = value
		return nil
	case KeyDefaultDiff:
		n, err := strconv.Atoi(value)
		if err != nil || n < 2 || n > 10 {
			return errors.WithMeta(errors.CodeValidationSettingDifficulty, map[string]string{
				"Key": key,
			})
		}
		r.DefaultDifficulty = n
		return nil
	}

	target, ok := r.boolField(key)
	if !ok {
		return errors.WithMeta(errors.CodeValidationSettingUnknown, map[string]string{
			"Key": key,
		})
	}

	b, err := parseBool(value)
	if err != nil {
		return errors.WithMeta(errors.CodeValidationSettingBoolean, map[string]string{
			"Key": key,
		})
	}
	*target = b
	return nil
}

func (r *Rules) boolField(key string) (*bool, bool) {
	switch key {
	case KeyUseCompact:
		return &r.UseCompact, true
	case KeyXplAlways:
		return &r.XplAlways, true
	case KeyXplSpec:
		return &r.XplSpec, true
	case KeyNeverDouble:
		return &r.NeverDouble, true
	case KeyAlwaysDouble:
		return &r.AlwaysDouble, true
	case KeyNullifyOnes:
		return &r.NullifyOnes, true
	case KeyNoBotch:
		return &r.NoBotch, true
	case KeyWPCancelable:
		return &r.WPCancelable, true
	case KeyChronicles:
		return &r.Chronicles, true
	default:
		return nil, false
	}
}

// parseBool accepts the familiar spellings of true and false.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	default:
		return false, errors.New(errors.CodeValidationSettingBoolean)
	}
}
