package ports

import (
	"context"

	"github.com/bnema/tronclass-cli/internal/domain"
)

// RateLimiter is a hard admission gate. Admit never blocks waiting for
// capacity; a denied admission reports how long to wait instead.
type RateLimiter interface {
	Admit(ctx context.Context) (domain.Admission, error)
}
