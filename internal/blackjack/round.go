// Package blackjack implements the single-player round used for training:
// dealing, the player action state machine, the dealer's draw-to-17 phase
// and the payout table.
package blackjack

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lox/blackjackrl/internal/cards"
)

// DealerStandsOn is the total at which the dealer stops drawing.
const DealerStandsOn = 17

// Round is the full state of one hand. Rounds are values: Apply and
// PlayDealer return a successor and never modify the receiver, so a Round can
// be kept in a trajectory while play continues from its successor.
type Round struct {
	Player         []cards.Card
	Dealer         []cards.Card
	Shoe           cards.Shoe
	Discard        []cards.Card
	InsuranceTaken bool
	Doubled        bool
	Active         bool
}

// Deal starts a round from shoe: two cards to the player then two to the
// dealer. Only the dealer's first card is visible to the player. The round is
// already terminal when the opening hand reaches 21.
func Deal(shoe cards.Shoe) (Round, error) {
	r := Round{Shoe: shoe}
	var err error
	for range 2 {
		if r, err = r.dealPlayer(); err != nil {
			return Round{}, fmt.Errorf("deal player: %w", err)
		}
	}
	for range 2 {
		if r, err = r.dealDealer(); err != nil {
			return Round{}, fmt.Errorf("deal dealer: %w", err)
		}
	}
	r.Active = r.PlayerTotal() < 21
	return r, nil
}

// Apply performs action and returns the successor round.
//
// ErrInsuranceNotAvailable is a reported condition, not a failure of the
// round: the receiver remains valid and play continues with another action.
func (r Round) Apply(action Action) (Round, error) {
	if !r.Active {
		return r, ErrRoundOver
	}

	next := r
	var err error
	switch action {
	case Draw:
		if next, err = next.dealPlayer(); err != nil {
			return r, err
		}
		if next.PlayerTotal() >= 21 {
			next.Active = false
		}
	case Stand:
		next.Active = false
	case Double:
		if next, err = next.dealPlayer(); err != nil {
			return r, err
		}
		next.Doubled = true
		next.Active = false
	case Insurance:
		if !r.InsuranceAvailable() {
			return r, ErrInsuranceNotAvailable
		}
		next.InsuranceTaken = true
	default:
		return r, fmt.Errorf("%w: %d", ErrUnknownAction, action)
	}
	return next, nil
}

// PlayDealer draws dealer cards while the dealer total is below 17. It is run
// once, after the player's part of the round is over.
func (r Round) PlayDealer() (Round, error) {
	var err error
	for r.DealerTotal() < DealerStandsOn {
		if r, err = r.dealDealer(); err != nil {
			return r, fmt.Errorf("dealer draw: %w", err)
		}
	}
	return r, nil
}

// Payout is the result of the round for the given bet, computed from the
// current totals. Call it after PlayDealer.
func (r Round) Payout(bet float64) float64 {
	return Results(bet, r.InsuranceTaken, r.DealerTotal(), r.PlayerTotal(), r.Doubled)
}

// InsuranceAvailable reports whether the Insurance action would succeed.
func (r Round) InsuranceAvailable() bool {
	up, ok := r.DealerUpCard()
	return r.Active && ok && up.IsAce() && !r.InsuranceTaken
}

// DealerUpCard returns the dealer's face-up (first) card.
func (r Round) DealerUpCard() (cards.Card, bool) {
	if len(r.Dealer) == 0 {
		return cards.Card{}, false
	}
	return r.Dealer[0], true
}

// PlayerTotal scores the player's hand.
func (r Round) PlayerTotal() int {
	return cards.Total(r.Player)
}

// DealerTotal scores the dealer's full hand, hole card included.
func (r Round) DealerTotal() int {
	return cards.Total(r.Dealer)
}

func (r Round) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "player %s (%d)", JoinCards(r.Player), r.PlayerTotal())
	if up, ok := r.DealerUpCard(); ok {
		fmt.Fprintf(&b, " dealer %s", up)
	}
	if r.InsuranceTaken {
		b.WriteString(" insured")
	}
	if r.Doubled {
		b.WriteString(" doubled")
	}
	if !r.Active {
		b.WriteString(" [over]")
	}
	return b.String()
}

func (r Round) dealPlayer() (Round, error) {
	card, shoe, err := r.Shoe.Draw()
	if err != nil {
		return r, err
	}
	r.Shoe = shoe
	r.Player = append(slices.Clip(r.Player), card)
	r.Discard = append(slices.Clip(r.Discard), card)
	return r, nil
}

func (r Round) dealDealer() (Round, error) {
	card, shoe, err := r.Shoe.Draw()
	if err != nil {
		return r, err
	}
	r.Shoe = shoe
	r.Dealer = append(slices.Clip(r.Dealer), card)
	r.Discard = append(slices.Clip(r.Discard), card)
	return r, nil
}

// JoinCards renders cards separated by spaces.
func JoinCards(cs []cards.Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
