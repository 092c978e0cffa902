package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/ports"
)

type Limiter struct {
	mu     sync.Mutex
	window *domain.RateWindow
	clock  ports.Clock
}

var _ ports.RateLimiter = (*Limiter)(nil)

func NewLimiter(limit int, window time.Duration, clock ports.Clock) *Limiter {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Limiter{
		window: domain.NewRateWindow(limit, window),
		clock:  clock,
	}
}

func (l *Limiter) Admit(ctx context.Context) (domain.Admission, error) {
	if err := ctx.Err(); err != nil {
		return domain.Admission{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.window.Admit(l.clock.Now()), nil
}
