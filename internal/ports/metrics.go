package ports

import "context"

// SessionMetrics receives counters from the session engine.
type SessionMetrics interface {
	LoginAttempt(ctx context.Context)
	LoginResult(ctx context.Context, success bool)
	Reauthentication(ctx context.Context, success bool)
	Call(ctx context.Context, status int)
}
