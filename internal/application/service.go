package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/ports"
)

var ErrMissingUsername = errors.New("profile has no username")

type ProfileService struct {
	repo  ports.ProfileRepository
	store ports.SecretStore
}

func NewProfileService(repo ports.ProfileRepository, store ports.SecretStore) *ProfileService {
	return &ProfileService{repo: repo, store: store}
}

func (s *ProfileService) SetProfile(ctx context.Context, cmd SetProfileCommand) (domain.Profile, error) {
	name := domain.ProfileName(strings.TrimSpace(string(cmd.Name)))
	if name == "" {
		name = domain.DefaultProfileName
	}

	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return domain.Profile{}, fmt.Errorf("get profile: %w", err)
		}
		profile = domain.Profile{Name: name}
	}
	original := profile

	if cmd.BaseURL != "" {
		profile.BaseURL = strings.TrimRight(strings.TrimSpace(cmd.BaseURL), "/")
	}
	if cmd.Username != "" {
		profile.Username = strings.TrimSpace(cmd.Username)
	}
	if cmd.FetcherRPM != nil {
		profile.FetcherRPM = *cmd.FetcherRPM
	}
	if cmd.PasswordRef != "" {
		profile.PasswordRef = strings.TrimSpace(cmd.PasswordRef)
	}
	if cmd.Password != nil && profile.PasswordRef == "" {
		profile.PasswordRef = domain.DefaultPasswordRef(name)
	}

	if err := profile.Validate(); err != nil {
		return domain.Profile{}, fmt.Errorf("invalid profile %q: %w", name, err)
	}

	if cmd.Password == nil {
		if err := s.repo.Save(ctx, profile); err != nil {
			return domain.Profile{}, fmt.Errorf("save profile: %w", err)
		}
		return profile, nil
	}

	if err := s.store.Put(ctx, profile.PasswordRef, *cmd.Password); err != nil {
		return domain.Profile{}, fmt.Errorf("store password: %w", err)
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		if rollbackErr := s.store.Delete(ctx, profile.PasswordRef); rollbackErr != nil {
			return domain.Profile{}, fmt.Errorf("save profile and rollback stored password: %w", errors.Join(err, rollbackErr))
		}
		return domain.Profile{}, fmt.Errorf("save profile: %w", err)
	}

	if original.PasswordRef != "" && original.PasswordRef != profile.PasswordRef {
		if err := s.store.Delete(ctx, original.PasswordRef); err != nil {
			var rollbackErr error
			if restoreErr := s.repo.Save(ctx, original); restoreErr != nil {
				rollbackErr = errors.Join(rollbackErr, restoreErr)
			}
			if newSecretDeleteErr := s.store.Delete(ctx, profile.PasswordRef); newSecretDeleteErr != nil {
				rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
			}
			if rollbackErr != nil {
				return domain.Profile{}, fmt.Errorf("delete previous password and rollback profile update: %w", errors.Join(err, rollbackErr))
			}
			return domain.Profile{}, fmt.Errorf("delete previous password: %w", err)
		}
	}

	return profile, nil
}

func (s *ProfileService) RemoveProfile(ctx context.Context, cmd RemoveProfileCommand) error {
	profile, err := s.repo.GetByName(ctx, cmd.Name)
	if err != nil {
		return fmt.Errorf("get profile: %w", err)
	}

	if err := s.repo.Delete(ctx, cmd.Name); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if profile.PasswordRef == "" {
		return nil
	}

	if err := s.store.Delete(ctx, profile.PasswordRef); err != nil {
		if restoreErr := s.repo.Save(ctx, profile); restoreErr != nil {
			return fmt.Errorf("delete password and restore profile: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete password: %w", err)
	}

	return nil
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// ResolveLoginTarget loads a profile and its password. A non-empty override
// is used instead of the secret store.
func (s *ProfileService) ResolveLoginTarget(ctx context.Context, name domain.ProfileName, passwordOverride string) (LoginTarget, error) {
	profile, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return LoginTarget{}, fmt.Errorf("get profile: %w", err)
	}
	if profile.Username == "" {
		return LoginTarget{}, fmt.Errorf("%w: %q", ErrMissingUsername, name)
	}

	password := passwordOverride
	if password == "" {
		if profile.PasswordRef == "" {
			return LoginTarget{}, fmt.Errorf("%w: profile %q has no password ref", domain.ErrSecretNotFound, name)
		}
		password, err = s.store.Get(ctx, profile.PasswordRef)
		if err != nil {
			return LoginTarget{}, fmt.Errorf("resolve password: %w", err)
		}
	}

	return LoginTarget{
		Profile:     profile,
		Credentials: domain.Credentials{Username: profile.Username, Password: password},
	}, nil
}
