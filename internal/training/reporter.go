package training

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
)

var spinnerFrames = []string{"|", "/", "-", `\`}

var (
	workerLabelStyle = lipgloss.NewStyle().Bold(true)
	percentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	gainStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4"))
	lossStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	failedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

// Reporter redraws one line per worker from a Board on a fixed interval.
type Reporter struct {
	mu       sync.Mutex
	out      *termenv.Output
	board    *Board
	clock    quartz.Clock
	interval time.Duration
	frames   []int
	drawn    bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, board *Board, clock quartz.Clock, interval time.Duration) *Reporter {
	return &Reporter{
		out:      termenv.NewOutput(w),
		board:    board,
		clock:    clock,
		interval: interval,
		frames:   make([]int, board.Len()),
	}
}

// Start begins polling the board until ctx is cancelled. The ticker is
// registered before Start returns.
func (r *Reporter) Start(ctx context.Context) quartz.Waiter {
	return r.clock.TickerFunc(ctx, r.interval, func() error {
		r.Render()
		return nil
	}, "reporter")
}

// Render draws the current board, overwriting the previous drawing.
func (r *Reporter) Render() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.drawn {
		r.out.CursorPrevLine(r.board.Len())
	}
	r.draw(true)
}

// Write prints p in place of the board and redraws the board below it, so
// log output can share the terminal with the live rows. A trailing newline
// is added when p lacks one.
func (r *Reporter) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.drawn {
		r.out.CursorPrevLine(r.board.Len())
	}
	for _, line := range strings.SplitAfter(string(p), "\n") {
		if line == "" {
			continue
		}
		r.out.ClearLine()
		if _, err := io.WriteString(r.out, line); err != nil {
			return 0, err
		}
	}
	if len(p) > 0 && p[len(p)-1] != '\n' {
		if _, err := io.WriteString(r.out, "\n"); err != nil {
			return 0, err
		}
	}
	if r.drawn {
		r.draw(false)
	}
	return len(p), nil
}

// draw writes every row from the current cursor position. The spinner only
// moves on ticks.
func (r *Reporter) draw(advance bool) {
	for i, p := range r.board.Read() {
		r.out.ClearLine()
		fmt.Fprintln(r.out, r.row(i, p, advance))
	}
	r.drawn = true
}

func (r *Reporter) row(i int, p WorkerProgress, advance bool) string {
	label := workerLabelStyle.Render(fmt.Sprintf("worker %2d:", i))
	if p.Err != nil {
		return fmt.Sprintf("%s %s", label, failedStyle.Render("failed: "+p.Err.Error()))
	}

	status := "✓"
	if !p.Done {
		if advance {
			r.frames[i] = (r.frames[i] + 1) % len(spinnerFrames)
		}
		status = spinnerFrames[r.frames[i]]
	}

	reward := fmt.Sprintf("%+.4f", p.AvgReward)
	if p.AvgReward < 0 {
		reward = lossStyle.Render(reward)
	} else {
		reward = gainStyle.Render(reward)
	}

	pct := percentStyle.Render(fmt.Sprintf("%3d%%", p.Percent))
	return fmt.Sprintf("%s %s %s average reward %s", label, pct, status, reward)
}
