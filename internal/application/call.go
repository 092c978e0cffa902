package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type callOptions struct {
	method string
	body   io.Reader
	header http.Header
	err    error
}

type CallOption func(*callOptions)

func WithMethod(method string) CallOption {
	return func(o *callOptions) {
		o.method = strings.ToUpper(strings.TrimSpace(method))
	}
}

func WithBody(body io.Reader) CallOption {
	return func(o *callOptions) {
		o.body = body
	}
}

func WithHeader(key string, value string) CallOption {
	return func(o *callOptions) {
		o.header.Add(key, value)
	}
}

// WithJSONBody encodes v as the request body and sets the JSON content type.
func WithJSONBody(v any) CallOption {
	return func(o *callOptions) {
		payload, err := json.Marshal(v)
		if err != nil {
			o.err = fmt.Errorf("encode json body: %w", err)
			return
		}
		o.body = bytes.NewReader(payload)
		o.header.Set("Content-Type", "application/json")
	}
}

func newCallOptions(opts []CallOption) callOptions {
	options := callOptions{method: http.MethodGet, header: http.Header{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.method == "" {
		options.method = http.MethodGet
	}
	return options
}

// joinEndpoint prefixes a missing leading slash and appends the endpoint to
// the base URL.
func joinEndpoint(baseURL string, endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return baseURL + endpoint
}
