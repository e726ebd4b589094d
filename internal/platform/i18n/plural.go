// Package i18n provides plural-aware formatting for user-visible counts.
package i18n

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	message.Set(language.AmericanEnglish, "%d success",
		plural.Selectf(1, "%d",
			"one", "%d success",
			"other", "%d successes",
		))
	message.Set(language.AmericanEnglish, "%d entry in table",
		plural.Selectf(1, "%d",
			"one", "%d entry in table",
			"other", "%d entries in table",
		))
	message.Set(language.AmericanEnglish, "%d character",
		plural.Selectf(1, "%d",
			"one", "%d character",
			"other", "%d characters",
		))
	message.Set(language.AmericanEnglish, "%d explosion",
		plural.Selectf(1, "%d",
			"one", "%d explosion",
			"other", "%d explosions",
		))
	message.Set(language.AmericanEnglish, "%+d success (auto)",
		plural.Selectf(1, "%+d",
			"one", "%+d success",
			"other", "%+d successes",
		))
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Successes renders a success count, e.g. "1 success" or "3 successes".
func Successes(n int) string {
	return printer.Sprintf("%d success", n)
}

// Entries renders a table entry count, e.g. "1 entry in table".
func Entries(n int) string {
	return printer.Sprintf("%d entry in table", n)
}

// Characters renders a character count, e.g. "2 characters".
func Characters(n int) string {
	return printer.Sprintf("%d character", n)
}

// Explosions renders an explosion count, e.g. "1 explosion".
func Explosions(n int) string {
	return printer.Sprintf("%d explosion", n)
}

// AutoSuccesses renders a signed automatic-success count, e.g. "+2 successes".
func AutoSuccesses(n int) string {
	return printer.Sprintf("%+d success (auto)", n)
}
