package engine

// Kind classifies a response so hosts know which fields are populated.
type Kind int

const (
	// KindMessage is a plain confirmation or informational message.
	KindMessage Kind = iota
	// KindError carries a user-facing failure message.
	KindError
	// KindPool is a success-counting roll result.
	KindPool
	// KindTraditional is an additive roll result.
	KindTraditional
	// KindInitiative is an initiative table or entry result.
	KindInitiative
	// KindMacroList carries the user's stored rolls.
	KindMacroList
)

// Response is a structured command outcome. The engine never renders
// markup beyond dice formatting; hosts lay out the fields.
type Response struct {
	Kind Kind

	// Title summarizes the roll, e.g. "Pool 7, diff. 6".
	Title string
	// Dice is the formatted dice line for pool rolls, or the equation for
	// traditional rolls when it differs from the total.
	Dice string
	// Summary is the net result ("3 successes", "Botch: -2") or an
	// initiative table rendering.
	Summary string
	// Override notes macro modifiers applied to this roll, e.g.
	// "Pool +2. Diff. to 8.".
	Override string
	// Comment is the text after "#", carried through untouched.
	Comment string
	// Message is a confirmation, footer, or error text.
	Message string
	// Entries holds name/syntax pairs for macro listings.
	Entries [][2]string

	// Compact asks the host for the condensed layout.
	Compact bool
	// InitiativeSuggested marks a lone d10-plus-modifier traditional roll.
	InitiativeSuggested bool
}
