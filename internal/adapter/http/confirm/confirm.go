package confirm

import (
	"context"

	"daycheck/internal/core/port"
)

type answerKey struct{}

// WithAnswer records the user's yes/no answer on the context. The handler
// sets it from the request body before invoking a destructive operation.
func WithAnswer(ctx context.Context, confirmed bool) context.Context {
	return context.WithValue(ctx, answerKey{}, confirmed)
}

// RequestConfirmer reads the answer recorded on the context. Absent answer
// means declined: destructive actions never proceed by default.
type RequestConfirmer struct{}

func NewRequestConfirmer() port.Confirmer {
	return RequestConfirmer{}
}

func (RequestConfirmer) Confirm(ctx context.Context, action string) bool {
	confirmed, ok := ctx.Value(answerKey{}).(bool)
	return ok && confirmed
}

// StaticConfirmer always answers the same way. Test seam.
type StaticConfirmer struct {
	Answer bool
}

func (s StaticConfirmer) Confirm(ctx context.Context, action string) bool {
	return s.Answer
}
