package qlearn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lox/blackjackrl/internal/fileutil"
)

// SnapshotFormat selects how WriteSnapshot renders the table.
type SnapshotFormat uint8

const (
	// FormatText writes one line per state.
	FormatText SnapshotFormat = iota
	// FormatJSON writes the text rendering wrapped in a single JSON string.
	FormatJSON
)

func (f SnapshotFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseSnapshotFormat converts "text" or "json" into a SnapshotFormat.
func ParseSnapshotFormat(s string) (SnapshotFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown snapshot format %q", s)
	}
}

// SnapshotOptions controls WriteSnapshot. Header lines are written first,
// each prefixed with "# ".
type SnapshotOptions struct {
	Format SnapshotFormat
	Header []string
}

// RenderSnapshot writes the human-readable dump of entries to w. The output
// is for inspection only and is not meant to be read back.
func RenderSnapshot(w io.Writer, entries []Entry, header ...string) error {
	for _, h := range header {
		if _, err := fmt.Fprintf(w, "# %s\n", h); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s -> %s\n", e.State, formatValues(e.Values)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSnapshot renders entries to path. The file is written to a temporary
// sibling and renamed into place, so readers never see a partial dump.
func WriteSnapshot(path string, entries []Entry, opts SnapshotOptions) error {
	if path == "" {
		return fmt.Errorf("snapshot path is required")
	}

	var buf bytes.Buffer
	if err := RenderSnapshot(&buf, entries, opts.Header...); err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}

	payload := buf.Bytes()
	if opts.Format == FormatJSON {
		wrapped, err := json.MarshalIndent(buf.String(), "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		payload = append(wrapped, '\n')
	}

	if err := fileutil.WriteFileAtomic(path, payload, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
