package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/tronclass-cli/internal/adapters/secrets"
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name    string
		key     string
		wantErr string
	}{
		{name: "empty", key: "", wantErr: "secret key is empty"},
		{name: "whitespace", key: "   ", wantErr: "secret key is empty"},
		{name: "escape through namespace", key: "tronclass/../../secret", wantErr: "invalid secret key"},
		{name: "absolute", key: "/absolute/path", wantErr: "invalid secret key"},
		{name: "traversal", key: "../escape", wantErr: "invalid secret key"},
		{name: "deep traversal", key: "../../secret", wantErr: "invalid secret key"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	key := "tronclass/default/password"
	want := "top-secret"

	err := store.Put(context.Background(), key, want)
	require.NoError(t, err)

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	secretPath := filepath.Join(root, "profiles", "default", "password")
	info, err := os.Stat(secretPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretFileMod), info.Mode().Perm())
}

func TestStoreSeparatesProfilePasswordsFromUserRefs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, domain.DefaultPasswordRef("password"), "managed"))
	require.NoError(t, store.Put(ctx, "profiles/password/password", "user"))

	managed, err := store.Get(ctx, domain.DefaultPasswordRef("password"))
	require.NoError(t, err)
	assert.Equal(t, "managed", managed)

	user, err := store.Get(ctx, "profiles/password/password")
	require.NoError(t, err)
	assert.Equal(t, "user", user)

	assert.FileExists(t, filepath.Join(root, "refs", "profiles", "password", "password"))
}

func TestStoreDeleteRemovesEmptyProfileDirectory(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	key := domain.DefaultPasswordRef("school")

	require.NoError(t, store.Put(context.Background(), key, "top-secret"))
	require.NoError(t, store.Delete(context.Background(), key))

	assert.NoDirExists(t, filepath.Join(root, "profiles", "school"))
	assert.DirExists(t, filepath.Join(root, "profiles"))
}

func TestStorePutRejectsMultilinePassword(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)

	err := store.Put(context.Background(), domain.DefaultPasswordRef("school"), "top\nsecret")
	require.ErrorIs(t, err, secrets.ErrMultilineSecret)
	assert.NoDirExists(t, filepath.Join(root, "profiles"))
}

func TestStoreDeleteIsIdempotentWhenSecretMissing(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	key := "tronclass/default/password"

	err := store.Delete(context.Background(), key)
	require.NoError(t, err)

	err = store.Delete(context.Background(), key)
	require.NoError(t, err)
}

func TestStoreGetMissingSecretIsNotFound(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Get(context.Background(), "tronclass/default/password")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
