package captcha

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/tronclass-cli/internal/ports"
)

const (
	defaultHTTPTimeout   = 15 * time.Second
	maxSolverResponseLen = 64 << 10
)

// HTTPSolver posts the captcha to an OCR service.
//
// Request:  {"image": "data:image/jpeg;base64,..."}
// Response: {"code": "1234"}
type HTTPSolver struct {
	endpoint string
	client   *http.Client
}

var _ ports.CaptchaSolver = (*HTTPSolver)(nil)

type solveRequest struct {
	Image string `json:"image"`
}

type solveResponse struct {
	Code  string `json:"code"`
	Error string `json:"error,omitempty"`
}

func NewHTTPSolver(endpoint string, client *http.Client) (*HTTPSolver, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("captcha endpoint is empty")
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	return &HTTPSolver{endpoint: endpoint, client: client}, nil
}

func (s *HTTPSolver) Solve(ctx context.Context, dataURL string) (string, error) {
	payload, err := json.Marshal(solveRequest{Image: dataURL})
	if err != nil {
		return "", fmt.Errorf("encode captcha request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create captcha request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("captcha request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSolverResponseLen))
	if err != nil {
		return "", fmt.Errorf("read captcha response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("captcha service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded solveResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode captcha response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("captcha service: %s", decoded.Error)
	}

	return normalizeCode(decoded.Code), nil
}
