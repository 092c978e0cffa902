package cas

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPageHTML = `<!doctype html>
<html><body>
<form id="fm1" method="post">
  <input type="text" name="username">
  <input type="hidden" name="execution" value="e1s1">
  <input type="hidden" name="lt" value="TOKEN123"/>
  <a class="forget-password" href="/reset">Forgot?</a>
</form>
</body></html>`

func newTestClient(t *testing.T) Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return Client{Transport: &http.Client{Jar: jar}}
}

func TestStartFollowsRedirectAndExtractsTicket(t *testing.T) {
	t.Parallel()

	var casURL string
	cas := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cas/login", r.URL.Path)
		_, _ = w.Write([]byte(loginPageHTML))
	}))
	defer cas.Close()
	casURL = cas.URL

	portal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "/user/index", r.URL.Query().Get("next"))
		http.Redirect(w, r, casURL+"/cas/login?service=portal", http.StatusFound)
	}))
	defer portal.Close()

	attempt, err := newTestClient(t).Start(context.Background(), portal.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, "TOKEN123", attempt.Ticket)
	assert.Equal(t, casURL, attempt.Realm)
	assert.Empty(t, attempt.Captcha)
}

func TestStartWithoutTicket(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><input name="username"></body></html>`))
	}))
	defer server.Close()

	_, err := newTestClient(t).Start(context.Background(), server.URL)
	require.ErrorIs(t, err, domain.ErrLoginTicketNotFound)
}

func TestExtractLoginTicket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		want    string
		wantErr error
	}{
		{name: "self closing", html: loginPageHTML, want: "TOKEN123"},
		{name: "attribute order", html: `<input value="LT-9" type="hidden" name="lt">`, want: "LT-9"},
		{name: "first wins", html: `<input name="lt" value="A"><input name="lt" value="B">`, want: "A"},
		{name: "empty value", html: `<input name="lt" value="">`, wantErr: domain.ErrLoginTicketNotFound},
		{name: "not an input", html: `<meta name="lt" content="X">`, wantErr: domain.ErrLoginTicketNotFound},
		{name: "empty document", html: ``, wantErr: domain.ErrLoginTicketNotFound},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ExtractLoginTicket(strings.NewReader(tc.html))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRealmFromURL(t *testing.T) {
	t.Parallel()

	parsed, err := url.Parse("https://identity.example.edu.tw:8443/cas/login?service=x")
	require.NoError(t, err)
	assert.Equal(t, "https://identity.example.edu.tw:8443", RealmFromURL(parsed))

	assert.Empty(t, RealmFromURL(nil))
	assert.Empty(t, RealmFromURL(&url.URL{Path: "/relative"}))
}

func TestCaptchaReturnsDataURL(t *testing.T) {
	t.Parallel()

	image := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cas/captcha.jpg", r.URL.Path)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(image)
	}))
	defer server.Close()

	dataURL, err := newTestClient(t).Captcha(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(image), dataURL)
}

func TestCaptchaRejectsNonImage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(t).Captcha(context.Background(), server.URL)
	require.ErrorIs(t, err, domain.ErrCaptchaContentType)
	assert.Contains(t, err.Error(), "text/html")
}

func TestSubmitPostsFormWithTicket(t *testing.T) {
	t.Parallel()

	var form url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/cas/login", r.URL.Path)
		require.Equal(t, "/user/index", r.URL.Query().Get("next"))
		require.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		_, _ = w.Write([]byte("<html>welcome</html>"))
	}))
	defer server.Close()

	attempt := domain.LoginAttempt{Ticket: "TOKEN123", Realm: server.URL, Captcha: "1234"}
	err := newTestClient(t).Submit(context.Background(), attempt, domain.Credentials{Username: "student", Password: "hunter2"})
	require.NoError(t, err)

	assert.Equal(t, "TOKEN123", form.Get("lt"))
	assert.Equal(t, "student", form.Get("username"))
	assert.Equal(t, "hunter2", form.Get("password"))
	assert.Equal(t, "1234", form.Get("captcha"))
	assert.Equal(t, "e1s1", form.Get("execution"))
	assert.Equal(t, "submit", form.Get("_eventId"))
	assert.Equal(t, "登錄", form.Get("submit"))
}

func TestSubmitDetectsLoginPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(loginPageHTML))
	}))
	defer server.Close()

	attempt := domain.LoginAttempt{Ticket: "TOKEN123", Realm: server.URL, Captcha: "1234"}
	err := newTestClient(t).Submit(context.Background(), attempt, domain.Credentials{Username: "u", Password: "p"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSubmitUsesCustomPredicate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<div class="login-error">wrong</div>`))
	}))
	defer server.Close()

	client := newTestClient(t)
	client.IsLoginPage = ContainsMarker("login-error")

	attempt := domain.LoginAttempt{Ticket: "T", Realm: server.URL, Captcha: "1234"}
	err := client.Submit(context.Background(), attempt, domain.Credentials{Username: "u", Password: "p"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestContainsMarker(t *testing.T) {
	t.Parallel()

	custom := ContainsMarker("login-error")
	assert.True(t, custom(`<div class="login-error">`))
	assert.False(t, custom(loginPageHTML))

	fallback := ContainsMarker("  ")
	assert.True(t, fallback(loginPageHTML))
	assert.False(t, fallback("<html>dashboard</html>"))
}

type failingTransport struct {
	calls atomic.Int32
	err   error
}

func (f *failingTransport) Do(*http.Request) (*http.Response, error) {
	f.calls.Add(1)
	return nil, f.err
}

func TestTransportErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	transport := &failingTransport{err: &domain.RateLimitError{Wait: 0}}
	client := Client{Transport: transport}

	_, err := client.Start(context.Background(), "https://portal.example.edu.tw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	assert.Equal(t, int32(1), transport.calls.Load())

	_, err = Client{}.Captcha(context.Background(), "https://identity.example.edu.tw")
	require.ErrorIs(t, err, errNilTransport)
}
