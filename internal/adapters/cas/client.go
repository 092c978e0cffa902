package cas

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/ports"
)

const (
	portalLoginPath = "/login?next=/user/index"
	captchaPath     = "/cas/captcha.jpg"
	casLoginPath    = "/cas/login?next=/user/index"

	// Fixed values the CAS web flow expects alongside the credentials.
	formExecution   = "e1s1"
	formEventID     = "submit"
	formSubmitLabel = "登錄"

	maxPageBytes    = 4 << 20
	maxCaptchaBytes = 1 << 20
)

var errNilTransport = errors.New("cas transport is nil")

// LoginPagePredicate reports whether a response body is the CAS login page,
// which the portal serves again when a submission is rejected.
type LoginPagePredicate func(body string) bool

func IsLoginPage(body string) bool {
	return strings.Contains(body, domain.DefaultLoginPageMarker)
}

// ContainsMarker builds a predicate for portals whose login page carries a
// different marker. A blank marker keeps IsLoginPage.
func ContainsMarker(marker string) LoginPagePredicate {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return IsLoginPage
	}
	return func(body string) bool {
		return strings.Contains(body, marker)
	}
}

type Client struct {
	Transport   ports.Transport
	IsLoginPage LoginPagePredicate
}

var _ ports.LoginFlow = Client{}

// Start loads the portal login page, following the redirect to the CAS
// realm, and extracts the login ticket.
func (c Client) Start(ctx context.Context, baseURL string) (domain.LoginAttempt, error) {
	endpoint := strings.TrimRight(baseURL, "/") + portalLoginPath

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.LoginAttempt{}, fmt.Errorf("load login page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	realm := RealmFromURL(finalURL(resp, endpoint))
	if realm == "" {
		return domain.LoginAttempt{}, fmt.Errorf("load login page: cannot derive cas realm from %q", endpoint)
	}

	ticket, err := ExtractLoginTicket(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return domain.LoginAttempt{}, err
	}

	return domain.LoginAttempt{Ticket: ticket, Realm: realm}, nil
}

// Captcha downloads the captcha image for the realm and returns it as a
// base64 data URL.
func (c Client) Captcha(ctx context.Context, realm string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, realm+captchaPath, nil)
	if err != nil {
		return "", fmt.Errorf("load captcha: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %q", domain.ErrCaptchaContentType, contentType)
	}

	image, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptchaBytes))
	if err != nil {
		return "", fmt.Errorf("read captcha: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image), nil
}

// Submit posts the credentials for an attempt. A response that is still the
// login page means the portal rejected them.
func (c Client) Submit(ctx context.Context, attempt domain.LoginAttempt, creds domain.Credentials) error {
	values := url.Values{}
	values.Set("username", creds.Username)
	values.Set("password", creds.Password)
	values.Set("captcha", attempt.Captcha)
	values.Set("lt", attempt.Ticket)
	values.Set("execution", formExecution)
	values.Set("_eventId", formEventID)
	values.Set("submit", formSubmitLabel)

	resp, err := c.do(ctx, http.MethodPost, attempt.Realm+casLoginPath, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("submit credentials: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return fmt.Errorf("read login response: %w", err)
	}

	if c.loginPage(string(body)) {
		return domain.ErrInvalidCredentials
	}

	return nil
}

func (c Client) loginPage(body string) bool {
	if c.IsLoginPage != nil {
		return c.IsLoginPage(body)
	}
	return IsLoginPage(body)
}

func (c Client) do(ctx context.Context, method string, endpoint string, body io.Reader) (*http.Response, error) {
	if c.Transport == nil {
		return nil, errNilTransport
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	return c.Transport.Do(req)
}

func finalURL(resp *http.Response, fallback string) *url.URL {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL
	}
	parsed, err := url.Parse(fallback)
	if err != nil {
		return nil
	}
	return parsed
}

// RealmFromURL truncates a URL at the first "/" after its host, leaving the
// origin of the CAS server the portal redirected to.
func RealmFromURL(u *url.URL) string {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
