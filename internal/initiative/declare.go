package initiative

import (
	"strconv"
	"strings"

	"github.com/louisbranch/storyteller.space/internal/platform/errors"
)

// Declaration is a parsed "dec" command.
type Declaration struct {
	Action string
	// Character is empty when the invoker declares for themselves.
	Character string
	Celerity  int
}

// ParseDeclare parses "dec" arguments of the form
// "<action words> [-n character words] [-c [N]]".
func ParseDeclare(args []string) (Declaration, error) {
	var dec Declaration
	var action, character []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-n", "--name":
			j := i + 1
			for j < len(args) && !strings.HasPrefix(args[j], "-") {
				character = append(character, args[j])
				j++
			}
			if j == i+1 {
				return Declaration{}, errors.New(errors.CodeSyntaxDeclareUsage)
			}
			i = j - 1
		case "-c", "--celerity":
			dec.Celerity = 1
			if i+1 < len(args) {
				if n, err := strconv.Atoi(args[i+1]); err == nil {
					if n < 1 {
						return Declaration{}, errors.New(errors.CodeSyntaxDeclareUsage)
					}
					dec.Celerity = n
					i++
				}
			}
		default:
			if strings.HasPrefix(arg, "-") {
				return Declaration{}, errors.New(errors.CodeSyntaxDeclareUsage)
			}
			action = append(action, arg)
		}
	}

	dec.Action = strings.Join(action, " ")
	dec.Character = strings.Join(character, " ")

	if dec.Action == "" && dec.Celerity == 0 {
		return Declaration{}, errors.New(errors.CodeInitiativeActionMissing)
	}
	return dec, nil
}
