package port

import "context"

// Confirmer answers the blocking yes/no prompt gating destructive operations.
// The HTTP adapter answers from the request's confirmed flag; tests plug in a
// canned responder.
type Confirmer interface {
	Confirm(ctx context.Context, action string) bool
}
