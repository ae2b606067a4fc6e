package training

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterPollsBoard(t *testing.T) {
	mockClock := quartz.NewMock(t)
	board := NewBoard(2)
	board.Set(0, WorkerProgress{Episodes: 50, Percent: 50, AvgReward: -0.25})
	board.Set(1, WorkerProgress{Episodes: 100, Percent: 100, AvgReward: 0.5, Done: true})

	var out bytes.Buffer
	reporter := NewReporter(&out, board, mockClock, 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reporter.Start(ctx)

	assert.Empty(t, out.String(), "nothing is drawn before the first tick")

	mockClock.Advance(100 * time.Millisecond).MustWait(ctx)
	first := out.String()
	assert.Contains(t, first, "worker  0:")
	assert.Contains(t, first, " 50%")
	assert.Contains(t, first, "-0.2500")
	assert.Contains(t, first, "worker  1:")
	assert.Contains(t, first, "100%")
	assert.Contains(t, first, "✓")
	assert.NotContains(t, first, "\x1b[2F")

	board.Set(0, WorkerProgress{Episodes: 75, Percent: 75, AvgReward: 0.1})
	mockClock.Advance(100 * time.Millisecond).MustWait(ctx)
	second := out.String()[len(first):]
	assert.Contains(t, second, "\x1b[2F", "redraw moves the cursor back over the previous rows")
	assert.Contains(t, second, " 75%")
	assert.Contains(t, second, "+0.1000")
}

func TestReporterSpinnerAdvances(t *testing.T) {
	board := NewBoard(1)
	board.Set(0, WorkerProgress{Percent: 10})

	var out bytes.Buffer
	reporter := NewReporter(&out, board, quartz.NewMock(t), time.Second)

	seen := make(map[string]bool)
	for range len(spinnerFrames) {
		reporter.Render()
		seen[spinnerFrames[reporter.frames[0]]] = true
	}
	assert.Len(t, seen, len(spinnerFrames))
}

func TestReporterShowsFailure(t *testing.T) {
	board := NewBoard(1)
	board.Set(0, WorkerProgress{Err: errors.New("boom")})

	var out bytes.Buffer
	NewReporter(&out, board, quartz.NewMock(t), time.Second).Render()
	require.Contains(t, out.String(), "failed: boom")
}

func TestBoardSlotsAreIndependent(t *testing.T) {
	board := NewBoard(3)
	board.Set(1, WorkerProgress{Percent: 40})

	got := board.Read()
	require.Len(t, got, 3)
	assert.Zero(t, got[0].Percent)
	assert.Equal(t, 40, got[1].Percent)
	assert.Equal(t, 40, board.Get(1).Percent)
}

func TestReporterWritePrintsAboveBoard(t *testing.T) {
	board := NewBoard(2)
	board.Set(0, WorkerProgress{Percent: 20})
	board.Set(1, WorkerProgress{Percent: 30})

	var out bytes.Buffer
	reporter := NewReporter(&out, board, quartz.NewMock(t), time.Second)

	n, err := reporter.Write([]byte("before the board\n"))
	require.NoError(t, err)
	assert.Equal(t, len("before the board\n"), n)
	assert.NotContains(t, out.String(), "worker", "nothing to redraw before the first render")

	reporter.Render()
	frame := reporter.frames[0]
	mark := out.Len()

	_, err = reporter.Write([]byte("level=info msg=hello"))
	require.NoError(t, err)
	tail := out.String()[mark:]

	assert.True(t, strings.HasPrefix(tail, "\x1b[2F"), "cursor moves back over the board first")
	logAt := strings.Index(tail, "msg=hello\n")
	rowAt := strings.Index(tail, "worker  0:")
	require.GreaterOrEqual(t, logAt, 0)
	assert.Greater(t, rowAt, logAt, "board is redrawn below the log line")
	assert.Contains(t, tail, "worker  1:")
	assert.Equal(t, frame, reporter.frames[0], "log output does not advance the spinner")
}
