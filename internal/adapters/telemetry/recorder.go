package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bnema/tronclass-cli/internal/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const ScopeName = "github.com/bnema/tronclass-cli"

const (
	MetricLoginAttempts = "tc.login.attempts"
	MetricLoginResults  = "tc.login.results"
	MetricReauth        = "tc.reauth"
	MetricRateLimited   = "tc.ratelimit.denied"
	MetricCalls         = "tc.calls"
)

var ErrNilMeter = errors.New("nil meter")

var _ ports.SessionMetrics = (*Recorder)(nil)

// Recorder counts session engine events. A nil *Recorder records nothing.
type Recorder struct {
	loginAttempts metric.Int64Counter
	loginResults  metric.Int64Counter
	reauths       metric.Int64Counter
	rateLimited   metric.Int64Counter
	calls         metric.Int64Counter
}

func NewRecorder(meter metric.Meter) (*Recorder, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	var err error
	r := &Recorder{}
	if r.loginAttempts, err = meter.Int64Counter(MetricLoginAttempts, metric.WithDescription("CAS login attempts, one per protocol pass")); err != nil {
		return nil, fmt.Errorf("create counter %s: %w", MetricLoginAttempts, err)
	}
	if r.loginResults, err = meter.Int64Counter(MetricLoginResults, metric.WithDescription("Completed login flows by outcome")); err != nil {
		return nil, fmt.Errorf("create counter %s: %w", MetricLoginResults, err)
	}
	if r.reauths, err = meter.Int64Counter(MetricReauth, metric.WithDescription("Automatic re-authentications by outcome")); err != nil {
		return nil, fmt.Errorf("create counter %s: %w", MetricReauth, err)
	}
	if r.rateLimited, err = meter.Int64Counter(MetricRateLimited, metric.WithDescription("Requests rejected by the rate limiter")); err != nil {
		return nil, fmt.Errorf("create counter %s: %w", MetricRateLimited, err)
	}
	if r.calls, err = meter.Int64Counter(MetricCalls, metric.WithDescription("Authenticated calls by response status")); err != nil {
		return nil, fmt.Errorf("create counter %s: %w", MetricCalls, err)
	}

	return r, nil
}

func (r *Recorder) LoginAttempt(ctx context.Context) {
	if r == nil {
		return
	}
	r.loginAttempts.Add(ctx, 1)
}

func (r *Recorder) LoginResult(ctx context.Context, success bool) {
	if r == nil {
		return
	}
	r.loginResults.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (r *Recorder) Reauthentication(ctx context.Context, success bool) {
	if r == nil {
		return
	}
	r.reauths.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (r *Recorder) RateLimited(ctx context.Context) {
	if r == nil {
		return
	}
	r.rateLimited.Add(ctx, 1)
}

func (r *Recorder) Call(ctx context.Context, status int) {
	if r == nil {
		return
	}
	r.calls.Add(ctx, 1, metric.WithAttributes(attribute.String("status", strconv.Itoa(status))))
}
