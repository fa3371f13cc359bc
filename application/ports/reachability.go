package ports

import "context"

// ReachabilityProbe answers "am I online right now". Implementations are
// expected to be cheap enough to poll.
type ReachabilityProbe interface {
	Check(ctx context.Context) bool
}
