package blackjack

import (
	"fmt"
	"strings"
)

// Action is a player decision. The numeric value of an Action carries no
// meaning; use Slot for the value-table index.
type Action uint8

const (
	Draw Action = iota + 1
	Stand
	Double
	Insurance
)

// Actions lists every action in slot order.
var Actions = [...]Action{Draw, Stand, Double, Insurance}

// Slot returns the fixed value-table index for the action.
func (a Action) Slot() int {
	switch a {
	case Draw:
		return 0
	case Stand:
		return 1
	case Double:
		return 2
	case Insurance:
		return 3
	default:
		panic(fmt.Sprintf("blackjack: slot of unknown action %d", a))
	}
}

// ActionFromSlot is the inverse of Slot.
func ActionFromSlot(slot int) (Action, bool) {
	switch slot {
	case 0:
		return Draw, true
	case 1:
		return Stand, true
	case 2:
		return Double, true
	case 3:
		return Insurance, true
	default:
		return 0, false
	}
}

func (a Action) String() string {
	switch a {
	case Draw:
		return "draw"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Insurance:
		return "insurance"
	default:
		return "unknown"
	}
}

// ParseAction converts a command word into an Action, ignoring case and
// surrounding whitespace.
func ParseAction(input string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "draw", "hit":
		return Draw, nil
	case "stand":
		return Stand, nil
	case "double":
		return Double, nil
	case "insurance":
		return Insurance, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownAction, input)
	}
}
