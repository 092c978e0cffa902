package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/tronclass-cli/internal/adapters/cas"
	"github.com/bnema/tronclass-cli/internal/adapters/ratelimit/memory"
	"github.com/bnema/tronclass-cli/internal/adapters/transport"
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/ports"
	"github.com/stretchr/testify/require"
)

const (
	fakeTicket    = "TOKEN123"
	fakeUser      = "s1234567"
	fakePassword  = "hunter2"
	sessionCookie = "CASTGC"
)

// fakePortal serves the portal and its CAS realm from one origin.
type fakePortal struct {
	*httptest.Server

	omitTicket atomic.Bool
	password   atomic.Value

	loginPages atomic.Int32
	captchas   atomic.Int32
	posts      atomic.Int32
	apiCalls   atomic.Int32

	mu       sync.Mutex
	lastForm map[string]string
	api      http.HandlerFunc
}

func newFakePortal(t *testing.T) *fakePortal {
	t.Helper()

	p := &fakePortal{}
	p.password.Store(fakePassword)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /login", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/cas/login?service=portal", http.StatusFound)
	})
	mux.HandleFunc("GET /cas/login", func(w http.ResponseWriter, _ *http.Request) {
		p.loginPages.Add(1)
		_, _ = w.Write([]byte(p.loginPage()))
	})
	mux.HandleFunc("GET /cas/captcha.jpg", func(w http.ResponseWriter, _ *http.Request) {
		p.captchas.Add(1)
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
	})
	mux.HandleFunc("POST /cas/login", func(w http.ResponseWriter, r *http.Request) {
		p.posts.Add(1)
		require.NoError(t, r.ParseForm())

		form := map[string]string{}
		for key := range r.PostForm {
			form[key] = r.PostForm.Get(key)
		}
		p.mu.Lock()
		p.lastForm = form
		p.mu.Unlock()

		if form["username"] != fakeUser || form["password"] != p.password.Load().(string) {
			_, _ = w.Write([]byte(p.loginPage()))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "TGT-1", Path: "/"})
		http.Redirect(w, r, "/user/index", http.StatusFound)
	})
	mux.HandleFunc("GET /user/index", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>dashboard</body></html>"))
	})
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		p.apiCalls.Add(1)
		if _, err := r.Cookie(sessionCookie); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		p.mu.Lock()
		api := p.api
		p.mu.Unlock()
		if api != nil {
			api(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"todo_list":[]}`))
	})

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Close)

	return p
}

func (p *fakePortal) loginPage() string {
	ticket := ""
	if !p.omitTicket.Load() {
		ticket = fmt.Sprintf(`<input type="hidden" name="lt" value="%s">`, fakeTicket)
	}
	return `<html><body><form method="post">` + ticket +
		`<a class="forget-password" href="/reset">Forgot password?</a></form></body></html>`
}

func (p *fakePortal) form() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastForm
}

func (p *fakePortal) setAPI(handler http.HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.api = handler
}

type sessionFixture struct {
	session *Session
	portal  *fakePortal
}

func newSessionFixture(t *testing.T, rpm int, opts ...SessionOption) sessionFixture {
	t.Helper()

	portal := newFakePortal(t)

	limiter := memory.NewLimiter(rpm, time.Minute, ports.SystemClock{})
	client, err := transport.NewClient(limiter)
	require.NoError(t, err)

	opts = append([]SessionOption{WithRetryPolicy(RetryPolicy{Attempts: 3})}, opts...)
	session, err := NewSession(client, cas.Client{Transport: client}, opts...)
	require.NoError(t, err)
	require.NoError(t, session.SetBaseURL(portal.URL))

	return sessionFixture{session: session, portal: portal}
}

func staticSolver(code string) ports.CaptchaSolver {
	return ports.CaptchaSolverFunc(func(context.Context, string) (string, error) {
		return code, nil
	})
}

var errUnexpectedIO = errors.New("unexpected network access")

type failTransport struct{}

func (failTransport) Do(*http.Request) (*http.Response, error) {
	return nil, errUnexpectedIO
}

type nopFlow struct{}

func (nopFlow) Start(context.Context, string) (domain.LoginAttempt, error) {
	return domain.LoginAttempt{}, errUnexpectedIO
}

func (nopFlow) Captcha(context.Context, string) (string, error) {
	return "", errUnexpectedIO
}

func (nopFlow) Submit(context.Context, domain.LoginAttempt, domain.Credentials) error {
	return errUnexpectedIO
}
