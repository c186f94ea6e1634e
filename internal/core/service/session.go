package service

import (
	"time"

	"daycheck/internal/core/port"
)

// DateLayout is the calendar date form used for completion records and the
// persisted last-completion date.
const DateLayout = "2006-01-02"

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func SystemClock() port.Clock {
	return systemClock{}
}

// FormatDate renders the calendar date of t in its own location. The system
// clock yields local time, so the session date follows the local timezone.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
