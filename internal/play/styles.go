package play

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjackrl/internal/cards"
)

// styles are bound to the session's writer, so colour is only emitted when
// that writer is a terminal.
type styles struct {
	header    lipgloss.Style
	redCard   lipgloss.Style
	blackCard lipgloss.Style
	actions   lipgloss.Style
	win       lipgloss.Style
	loss      lipgloss.Style
	warning   lipgloss.Style
	info      lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true),
		redCard: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		blackCard: r.NewStyle().Bold(true),
		actions: r.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		win: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		loss: r.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		info: r.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

func (s styles) card(c cards.Card) string {
	if c.Suit.IsRed() {
		return s.redCard.Render(c.String())
	}
	return s.blackCard.Render(c.String())
}

func (s styles) hand(cs []cards.Card) string {
	out := ""
	for i, c := range cs {
		if i > 0 {
			out += " "
		}
		out += s.card(c)
	}
	return out
}

func (s styles) amount(v float64) string {
	switch {
	case v > 0:
		return s.win.Render(formatAmount(v))
	case v < 0:
		return s.loss.Render(formatAmount(v))
	default:
		return formatAmount(v)
	}
}
