// Package play runs blackjack rounds against a human typing commands on a
// line-oriented stream.
package play

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjackrl/internal/blackjack"
	"github.com/lox/blackjackrl/internal/cards"
)

// ErrQuit is returned when the player asks to leave or the input ends.
var ErrQuit = errors.New("player quit")

// Result is the outcome of one finished round.
type Result struct {
	Round  blackjack.Round
	Payout float64
}

// Session reads commands from in and writes the table to out.
type Session struct {
	in     *bufio.Scanner
	out    io.Writer
	bet    float64
	styles styles
	logger *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithBet sets the stake of every round. The default is 1.
func WithBet(bet float64) Option {
	return func(s *Session) { s.bet = bet }
}

// WithLogger attaches a logger for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession creates a session over the given streams.
func NewSession(in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		in:     bufio.NewScanner(in),
		out:    out,
		bet:    1,
		styles: newStyles(out),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run plays rounds from freshly shuffled shoes until the player quits. It
// returns the results of every completed round; quitting is not an error.
func (s *Session) Run(rng *rand.Rand) ([]Result, error) {
	var results []Result
	total := 0.0
	for {
		res, err := s.PlayRound(cards.NewShoe(rng))
		if errors.Is(err, ErrQuit) {
			if len(results) > 0 {
				s.printf("%s %d rounds, net %s\n", s.styles.header.Render(" session "), len(results), s.styles.amount(total))
			}
			return results, nil
		}
		if err != nil {
			return results, err
		}
		results = append(results, res)
		total += res.Payout
	}
}

// PlayRound deals from shoe and plays one round to completion. It returns
// ErrQuit if the player leaves before the round is over.
func (s *Session) PlayRound(shoe cards.Shoe) (Result, error) {
	round, err := blackjack.Deal(shoe)
	if err != nil {
		return Result{}, err
	}
	s.printf("%s\n", s.styles.header.Render(" new round "))
	s.showRound(round)

	for round.Active {
		s.printf("%s ", s.styles.actions.Render(s.prompt(round)))
		line, ok := s.readLine()
		if !ok {
			s.printf("\n")
			return Result{Round: round}, ErrQuit
		}
		cmd := strings.ToLower(strings.TrimSpace(line))
		if cmd == "" {
			continue
		}
		if cmd == "quit" || cmd == "exit" {
			return Result{Round: round}, ErrQuit
		}

		action, err := blackjack.ParseAction(cmd)
		if err != nil {
			s.printf("%s\n", s.styles.warning.Render(fmt.Sprintf("unknown command %q", cmd)))
			continue
		}

		next, err := round.Apply(action)
		switch {
		case errors.Is(err, blackjack.ErrInsuranceNotAvailable):
			s.printf("%s\n", s.styles.warning.Render("insurance is not available"))
			continue
		case err != nil:
			return Result{Round: round}, fmt.Errorf("apply %s: %w", action, err)
		}
		s.logger.Debug("applied action", "action", action, "round", next)
		round = next
		s.showRound(round)
	}

	round, err = round.PlayDealer()
	if err != nil {
		return Result{Round: round}, err
	}
	payout := round.Payout(s.bet)
	s.printf("dealer: %s (%d)\n", s.styles.hand(round.Dealer), round.DealerTotal())
	s.printf("payout: %s\n", s.styles.amount(payout))
	return Result{Round: round, Payout: payout}, nil
}

func (s *Session) showRound(r blackjack.Round) {
	s.printf("you:    %s (%d)\n", s.styles.hand(r.Player), r.PlayerTotal())
	if up, ok := r.DealerUpCard(); ok {
		s.printf("dealer: %s %s\n", s.styles.card(up), s.styles.info.Render("??"))
	}
	var flags []string
	if r.InsuranceTaken {
		flags = append(flags, "insured")
	}
	if r.Doubled {
		flags = append(flags, "doubled")
	}
	if len(flags) > 0 {
		s.printf("%s\n", s.styles.info.Render(strings.Join(flags, ", ")))
	}
}

func (s *Session) prompt(r blackjack.Round) string {
	options := []string{"draw", "stand", "double"}
	if r.InsuranceAvailable() {
		options = append(options, "insurance")
	}
	return strings.Join(options, "/") + ">"
}

func (s *Session) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func formatAmount(v float64) string {
	out := strconv.FormatFloat(v, 'f', -1, 64)
	if v > 0 {
		out = "+" + out
	}
	return out
}
