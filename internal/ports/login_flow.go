package ports

import (
	"context"

	"github.com/bnema/tronclass-cli/internal/domain"
)

// LoginFlow performs the network steps of one CAS login attempt.
type LoginFlow interface {
	// Start loads the login page and returns the ticket and realm.
	Start(ctx context.Context, baseURL string) (domain.LoginAttempt, error)
	// Captcha returns the realm's captcha image as a base64 data URL.
	Captcha(ctx context.Context, realm string) (string, error)
	// Submit posts the credentials. It returns domain.ErrInvalidCredentials
	// when the portal answers with the login page again.
	Submit(ctx context.Context, attempt domain.LoginAttempt, creds domain.Credentials) error
}
