package ports

import "net/http"

// Transport performs network I/O for a session. Implementations follow
// redirects and keep the session's cookies.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}
