package application

import "github.com/bnema/tronclass-cli/internal/domain"

// LoginTarget is everything a command needs to open a session for a profile.
type LoginTarget struct {
	Profile     domain.Profile
	Credentials domain.Credentials
}
