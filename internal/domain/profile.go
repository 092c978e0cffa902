package domain

import (
	"fmt"
	"net/url"
	"strings"
)

type ProfileName string

const DefaultProfileName ProfileName = "default"

// Profile describes one portal login. The password is never stored here,
// only a reference into a secret store.
type Profile struct {
	Name        ProfileName
	BaseURL     string
	Username    string
	PasswordRef string
	FetcherRPM  int
}

func (p Profile) Validate() error {
	if strings.TrimSpace(string(p.Name)) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(p.BaseURL) == "" {
		return fmt.Errorf("base url is required")
	}
	parsed, err := url.Parse(p.BaseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base url must use http or https")
	}
	if parsed.Host == "" {
		return fmt.Errorf("base url host is required")
	}
	if p.FetcherRPM < 0 {
		return fmt.Errorf("fetcher rpm must not be negative")
	}

	return nil
}

func (p Profile) RPM() int {
	if p.FetcherRPM <= 0 {
		return DefaultFetcherRPM
	}
	return p.FetcherRPM
}

// DefaultPasswordRef is the secret-store key used when a profile does not
// name one.
func DefaultPasswordRef(name ProfileName) string {
	return "tronclass/" + string(name) + "/password"
}
