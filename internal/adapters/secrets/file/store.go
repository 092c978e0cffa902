package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/tronclass-cli/internal/adapters/secrets"
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/bnema/tronclass-cli/internal/ports"
)

const (
	storeDirMode  = 0o700
	secretFileMod = 0o600

	profilesDir = "profiles"
	refsDir     = "refs"
)

// Store keeps one plaintext file per secret under root, readable only by the
// owner. Profile passwords live at profiles/<profile>/<field>; any other ref
// is kept under refs/ so the two never collide.
type Store struct {
	root string
	mu   sync.RWMutex
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root)}
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := secrets.ValidatePassword(value); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), storeDirMode); err != nil {
		return fmt.Errorf("create file secret directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(value), secretFileMod); err != nil {
		return fmt.Errorf("write file secret %q: %w", key, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("file secret %q: %w: %w", key, domain.ErrSecretNotFound, err)
		}
		return "", fmt.Errorf("read file secret %q: %w", key, err)
	}

	return string(data), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.pathForKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete file secret %q: %w", key, err)
	}

	// Drop the profile directory once its last field is gone.
	if dir := filepath.Dir(path); filepath.Dir(dir) == filepath.Join(s.root, profilesDir) {
		_ = os.Remove(dir)
	}

	return nil
}

func (s *Store) pathForKey(ref string) (string, error) {
	key, err := secrets.ParseKey(ref)
	if err != nil {
		return "", err
	}

	if key.Managed() {
		return filepath.Join(s.root, profilesDir, string(key.Profile), key.Field), nil
	}
	return filepath.Join(s.root, refsDir, filepath.FromSlash(key.Ref)), nil
}
