package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Profiles []profileSchema `toml:"profiles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profiles schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type profileSchema struct {
	Name        string `toml:"name"`
	BaseURL     string `toml:"base_url"`
	Username    string `toml:"username,omitempty"`
	PasswordRef string `toml:"password_ref,omitempty"`
	FetcherRPM  int    `toml:"fetcher_rpm,omitempty"`
}
