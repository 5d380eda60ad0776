// Package schedule computes showtime windows and detects overlaps between them.
//
// A window is the half-open interval [Start, End) a showtime occupies in a studio:
// the movie runtime followed by a fixed cleaning buffer.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"cinema-backoffice/pkg/apperror"
)

// BufferMinutes is the padding after a movie's runtime before the studio is free again.
const BufferMinutes = 15

const Buffer = BufferMinutes * time.Minute

type Window struct {
	Start time.Time
	End   time.Time
}

// EndTime returns start + durationMinutes + Buffer.
func EndTime(start time.Time, durationMinutes int) (time.Time, error) {
	if start.IsZero() {
		return time.Time{}, apperror.InvalidInput("Start time is required")
	}
	if durationMinutes <= 0 {
		return time.Time{}, apperror.InvalidInput(fmt.Sprintf("Invalid movie duration: %d", durationMinutes))
	}
	return start.Add(time.Duration(durationMinutes)*time.Minute + Buffer), nil
}

func NewWindow(start time.Time, durationMinutes int) (Window, error) {
	end, err := EndTime(start, durationMinutes)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

// ParseStart parses an RFC 3339 timestamp and normalizes it to UTC.
func ParseStart(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperror.InvalidInput("Start time is required")
	}

	start, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperror.InvalidInput(fmt.Sprintf("Invalid start time %q, expected RFC 3339", value))
	}
	return start.UTC(), nil
}

// Overlaps reports whether [w.Start, w.End) and [o.Start, o.End) intersect.
// Windows that only touch at a boundary do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) String() string {
	return fmt.Sprintf("%s - %s", w.Start.UTC().Format(time.RFC3339), w.End.UTC().Format(time.RFC3339))
}
