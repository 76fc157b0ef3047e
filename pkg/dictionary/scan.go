package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// maxLineSize is the bufio.Scanner buffer (16 MB); some Kaikki lines are huge.
const maxLineSize = 16 << 20

// ScanStats counts the lines seen by Scan.
type ScanStats struct {
	Lines     int
	Malformed int
}

// LineError describes a line that could not be decoded.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// Scan streams JSONL from r and calls fn for every decoded entry. Blank lines
// are ignored; undecodable lines are counted and passed to onMalformed (which
// may be nil). An error from fn stops the scan. limit > 0 stops after that
// many decoded entries.
func Scan(ctx context.Context, r io.Reader, limit int, fn func(RawEntry) error, onMalformed func(*LineError)) (ScanStats, error) {
	var stats ScanStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	decoded := 0
	for scanner.Scan() {
		lineNum++
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		stats.Lines++

		entry, err := ParseEntry(line)
		if err != nil {
			stats.Malformed++
			if onMalformed != nil {
				onMalformed(&LineError{Line: lineNum, Err: err})
			}
			continue
		}
		decoded++
		if err := fn(entry); err != nil {
			return stats, err
		}
		if limit > 0 && decoded >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scanner error: %w", err)
	}
	return stats, nil
}
