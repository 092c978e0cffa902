package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/ports"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const reauthKey = "reauth"

var errInvalidCaptchaCode = errors.New(domain.MessageInvalidCaptchaCode)

// Session is an authenticated view of one portal. Calls made while
// unauthenticated trigger a login with the credentials of the last attempt.
type Session struct {
	id             string
	transport      ports.Transport
	flow           ports.LoginFlow
	clock          ports.Clock
	logger         *slog.Logger
	metrics        ports.SessionMetrics
	retry          RetryPolicy
	reauthOnExpiry bool

	mu          sync.Mutex
	baseURL     string
	credentials domain.Credentials
	solver      ports.CaptchaSolver
	state       domain.SessionState

	loginMu sync.Mutex
	reauth  singleflight.Group
}

type SessionOption func(*Session)

func WithClock(clock ports.Clock) SessionOption {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(metrics ports.SessionMetrics) SessionOption {
	return func(s *Session) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

func WithRetryPolicy(policy RetryPolicy) SessionOption {
	return func(s *Session) {
		s.retry = policy
	}
}

// WithReauthOnExpiry makes a 401 or a redirect to the login page drop the
// session back to unauthenticated, so the next call logs in again.
func WithReauthOnExpiry(enabled bool) SessionOption {
	return func(s *Session) {
		s.reauthOnExpiry = enabled
	}
}

func NewSession(transport ports.Transport, flow ports.LoginFlow, opts ...SessionOption) (*Session, error) {
	if transport == nil {
		return nil, errors.New("session transport is nil")
	}
	if flow == nil {
		return nil, errors.New("session login flow is nil")
	}

	s := &Session{
		id:        uuid.NewString(),
		transport: transport,
		flow:      flow,
		clock:     ports.SystemClock{},
		logger:    slog.New(slog.DiscardHandler),
		metrics:   noopMetrics{},
		retry:     DefaultRetryPolicy(),
		state:     domain.Unauthenticated(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id)

	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// SetBaseURL configures the portal root. It may be called again with the
// same value; any other change is rejected.
func (s *Session) SetBaseURL(raw string) error {
	baseURL := strings.TrimRight(strings.TrimSpace(raw), "/")
	if baseURL == "" {
		return errors.New("base url is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("base url %q must be an absolute http or https url", raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.baseURL != "" && s.baseURL != baseURL {
		return fmt.Errorf("%w: %q is already set", domain.ErrBaseURLImmutable, s.baseURL)
	}
	s.baseURL = baseURL

	return nil
}

func (s *Session) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Invalidate forgets the authenticated state but keeps the stored
// credentials, so the next call re-authenticates.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.Expire()
}

// Login runs the CAS flow. Expected failures are reported in the result; the
// error is reserved for rate limiting and cancellation.
func (s *Session) Login(ctx context.Context, username string, password string, solver ports.CaptchaSolver) (domain.LoginResult, error) {
	s.loginMu.Lock()
	defer s.loginMu.Unlock()

	return s.login(ctx, domain.Credentials{Username: username, Password: password}, solver)
}

func (s *Session) login(ctx context.Context, creds domain.Credentials, solver ports.CaptchaSolver) (domain.LoginResult, error) {
	if !creds.Complete() {
		return domain.LoginFailed(domain.MessageMissingCredentials), nil
	}

	s.mu.Lock()
	baseURL := s.baseURL
	if baseURL == "" {
		s.mu.Unlock()
		return domain.LoginFailed(domain.MessageMissingBaseURL), nil
	}
	if solver == nil {
		s.mu.Unlock()
		return domain.LoginFailed(domain.MessageMissingSolver), nil
	}
	s.credentials = creds
	s.solver = solver
	s.state = s.state.BeginLogin()
	s.mu.Unlock()

	log := s.logger.With("username", creds.Username)
	attempts := s.retry.attempts()

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		s.metrics.LoginAttempt(ctx)

		err := s.attempt(ctx, log, baseURL, creds, solver)
		switch {
		case err == nil:
			s.finish(ctx, true)
			log.Info("login successful", "attempt", attempt)
			return domain.LoginSucceeded(), nil
		case errors.Is(err, errInvalidCaptchaCode):
			s.finish(ctx, false)
			log.Warn("captcha solver returned a malformed code", "attempt", attempt)
			return domain.LoginFailed(domain.MessageInvalidCaptchaCode), nil
		case errors.Is(err, domain.ErrRateLimited), ctx.Err() != nil:
			s.finish(ctx, false)
			log.Warn("login aborted", "attempt", attempt, "error", err)
			return domain.LoginFailed(err.Error()), err
		}

		lastErr = err
		log.Warn("login attempt failed", "attempt", attempt, "max_attempts", attempts, "error", err)

		if attempt < attempts {
			if err := s.retry.Wait(ctx, attempt); err != nil {
				s.finish(ctx, false)
				return domain.LoginFailed(err.Error()), err
			}
		}
	}

	s.finish(ctx, false)

	if lastErr == nil {
		return domain.LoginFailed(domain.MessageLoginInconclusive), nil
	}
	log.Error("login failed after all attempts", "attempts", attempts, "error", lastErr)
	if errors.Is(lastErr, domain.ErrInvalidCredentials) {
		return domain.LoginFailed(domain.MessageInvalidCredentials), nil
	}
	return domain.LoginExhausted(lastErr.Error()), nil
}

func (s *Session) attempt(ctx context.Context, log *slog.Logger, baseURL string, creds domain.Credentials, solver ports.CaptchaSolver) error {
	attempt, err := s.flow.Start(ctx, baseURL)
	if err != nil {
		return err
	}
	log.Debug("login page loaded", "realm", attempt.Realm)

	dataURL, err := s.flow.Captcha(ctx, attempt.Realm)
	if err != nil {
		return err
	}

	code, err := solver.Solve(ctx, dataURL)
	if err != nil {
		return fmt.Errorf("solve captcha: %w", err)
	}
	if !domain.ValidCaptchaCode(code) {
		return errInvalidCaptchaCode
	}
	attempt.Captcha = code

	return s.flow.Submit(ctx, attempt, creds)
}

func (s *Session) finish(ctx context.Context, success bool) {
	s.mu.Lock()
	if success {
		s.state = s.state.Succeed(s.clock.Now())
	} else {
		s.state = s.state.Fail()
	}
	s.mu.Unlock()

	s.metrics.LoginResult(ctx, success)
}

// Call sends an authenticated request to an endpoint below the base URL and
// returns the raw response.
func (s *Session) Call(ctx context.Context, endpoint string, opts ...CallOption) (*http.Response, error) {
	s.mu.Lock()
	baseURL := s.baseURL
	authenticated := s.state.Authenticated()
	stored := s.credentials.Complete() && s.solver != nil
	s.mu.Unlock()

	if baseURL == "" {
		return nil, domain.ErrBaseURLNotSet
	}
	if !authenticated {
		if !stored {
			return nil, domain.ErrNotAuthenticated
		}
		if err := s.reauthenticate(ctx); err != nil {
			return nil, err
		}
	}

	options := newCallOptions(opts)
	if options.err != nil {
		return nil, options.err
	}

	req, err := http.NewRequestWithContext(ctx, options.method, joinEndpoint(baseURL, endpoint), options.body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range options.header {
		req.Header[key] = values
	}

	resp, err := s.transport.Do(req)
	if err != nil {
		return nil, err
	}
	s.metrics.Call(ctx, resp.StatusCode)

	if s.reauthOnExpiry && sessionExpired(resp, baseURL) {
		s.logger.Info("session expired, next call will re-authenticate", "status", resp.StatusCode)
		s.Invalidate()
	}

	return resp, nil
}

// reauthenticate logs in again with the stored credentials. Concurrent
// callers share one login flow.
func (s *Session) reauthenticate(ctx context.Context) error {
	_, err, _ := s.reauth.Do(reauthKey, func() (any, error) {
		s.loginMu.Lock()
		defer s.loginMu.Unlock()

		s.mu.Lock()
		if s.state.Authenticated() {
			s.mu.Unlock()
			return nil, nil
		}
		creds := s.credentials
		solver := s.solver
		s.mu.Unlock()

		s.logger.Info("not authenticated, logging in again", "username", creds.Username)

		result, err := s.login(ctx, creds, solver)
		success := err == nil && result.Success
		s.metrics.Reauthentication(ctx, success)

		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrReauthenticationFailed, err)
		}
		if !result.Success {
			return nil, fmt.Errorf("%w: %s. Please log in manually", domain.ErrReauthenticationFailed, result.Message)
		}
		return nil, nil
	})

	return err
}

// sessionExpired reports a 401 or a response that ended on the CAS login
// page or on the portal's own login route under baseURL.
func sessionExpired(resp *http.Response, baseURL string) bool {
	if resp.StatusCode == http.StatusUnauthorized {
		return true
	}
	if resp.Request == nil || resp.Request.URL == nil {
		return false
	}
	path := strings.TrimRight(resp.Request.URL.Path, "/")
	if strings.HasSuffix(path, "/cas/login") {
		return true
	}
	return path == portalLoginPath(baseURL)
}

func portalLoginPath(baseURL string) string {
	prefix := ""
	if parsed, err := url.Parse(baseURL); err == nil {
		prefix = strings.TrimRight(parsed.Path, "/")
	}
	return prefix + "/login"
}

type noopMetrics struct{}

func (noopMetrics) LoginAttempt(context.Context)           {}
func (noopMetrics) LoginResult(context.Context, bool)      {}
func (noopMetrics) Reauthentication(context.Context, bool) {}
func (noopMetrics) Call(context.Context, int)              {}
