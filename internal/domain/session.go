package domain

import (
	"log/slog"
	"time"
)

type Phase string

const (
	PhaseUnauthenticated Phase = "unauthenticated"
	PhaseAuthenticating  Phase = "authenticating"
	PhaseAuthenticated   Phase = "authenticated"
)

// SessionState is the authentication state of one session. Transitions are
// pure: they return a new value and never mutate the receiver.
type SessionState struct {
	Phase Phase
	Since time.Time
}

func Unauthenticated() SessionState {
	return SessionState{Phase: PhaseUnauthenticated}
}

func (s SessionState) Authenticated() bool {
	return s.Phase == PhaseAuthenticated
}

func (s SessionState) BeginLogin() SessionState {
	return SessionState{Phase: PhaseAuthenticating}
}

func (s SessionState) Succeed(now time.Time) SessionState {
	return SessionState{Phase: PhaseAuthenticated, Since: now}
}

func (s SessionState) Fail() SessionState {
	return Unauthenticated()
}

// Expire drops an authenticated session back to unauthenticated. A login in
// progress is left alone so that its outcome decides the next state.
func (s SessionState) Expire() SessionState {
	if s.Phase == PhaseAuthenticating {
		return s
	}
	return Unauthenticated()
}

func (s SessionState) String() string {
	if s.Phase == "" {
		return string(PhaseUnauthenticated)
	}
	if s.Phase == PhaseAuthenticated && !s.Since.IsZero() {
		return string(s.Phase) + " since " + s.Since.UTC().Format(time.RFC3339)
	}
	return string(s.Phase)
}

type Credentials struct {
	Username string
	Password string
}

func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

func (c Credentials) String() string {
	return c.Username + ":[REDACTED]"
}

func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("username", c.Username),
		slog.String("password", "[REDACTED]"),
	)
}
