// Package secrets holds the key layout shared by the password backends.
package secrets

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bnema/tronclass-cli/internal/domain"
)

// Namespace is the first segment of every key the CLI creates itself, see
// domain.DefaultPasswordRef.
const Namespace = "tronclass"

var (
	ErrEmptyKey        = errors.New("secret key is empty")
	ErrInvalidKey      = errors.New("invalid secret key")
	ErrMultilineSecret = errors.New("portal password must be a single line")
)

// Key is a parsed secret reference. Keys of the form tronclass/<profile>/<field>
// are managed by the CLI; any other relative ref points at an entry the user
// created and is left where it is.
type Key struct {
	Ref     string
	Profile domain.ProfileName
	Field   string
}

func ParseKey(ref string) (Key, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return Key{}, ErrEmptyKey
	}

	cleaned := path.Clean(trimmed)
	if path.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") || cleaned == "." {
		return Key{}, fmt.Errorf("%w %q", ErrInvalidKey, ref)
	}

	key := Key{Ref: cleaned}
	if parts := strings.Split(cleaned, "/"); len(parts) == 3 && parts[0] == Namespace {
		key.Profile = domain.ProfileName(parts[1])
		key.Field = parts[2]
	}

	return key, nil
}

func (k Key) Managed() bool {
	return k.Profile != ""
}

// ValidatePassword rejects values that a line-oriented backend would split.
func ValidatePassword(value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return ErrMultilineSecret
	}
	return nil
}
