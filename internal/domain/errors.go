package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrBaseURLNotSet          = errors.New("base url is not set, call SetBaseURL before making API calls")
	ErrBaseURLImmutable       = errors.New("base url is already set for this session")
	ErrNotAuthenticated       = errors.New("not logged in and no credentials saved for re-authentication, call Login first")
	ErrReauthenticationFailed = errors.New("automatic re-authentication failed")
	ErrLoginTicketNotFound    = errors.New("login ticket 'lt' not found on the login page, page structure might have changed or access denied")
	ErrCaptchaContentType     = errors.New("captcha image not found or invalid content type")
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrRateLimited            = errors.New("rate limit exceeded")
	ErrProfileNotFound        = errors.New("profile not found")
	ErrSecretNotFound         = errors.New("secret not found")
)

// RateLimitError carries the time a caller has to wait before the limiter
// admits another request.
type RateLimitError struct {
	Wait time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, wait %s", e.Wait)
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

type APIStatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, body)
}
