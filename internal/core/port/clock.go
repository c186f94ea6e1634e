package port

import "time"

// Clock supplies the current wall time. The checklist derives its session date
// from it exactly once, at hydration.
type Clock interface {
	Now() time.Time
}
