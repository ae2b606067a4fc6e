package blackjack

import "errors"

var (
	// ErrInsuranceNotAvailable is reported when insurance is requested while
	// the dealer's up-card is not an ace or insurance was already taken. The
	// round is unchanged and the caller may pick another action.
	ErrInsuranceNotAvailable = errors.New("insurance not available")

	// ErrRoundOver is returned when an action is applied to a terminal round.
	ErrRoundOver = errors.New("round is over")

	// ErrUnknownAction is returned by ParseAction for unrecognised input.
	ErrUnknownAction = errors.New("unknown action")
)
