package application

import "github.com/bnema/tronclass-cli/internal/domain"

// SetProfileCommand creates or updates a profile. Zero values leave the
// stored field unchanged; nil pointers mean "not given".
type SetProfileCommand struct {
	Name        domain.ProfileName
	BaseURL     string
	Username    string
	PasswordRef string
	Password    *string
	FetcherRPM  *int
}

type RemoveProfileCommand struct {
	Name domain.ProfileName
}
