package chain

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bnema/tronclass-cli/internal/adapters/secrets"
	filestore "github.com/bnema/tronclass-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/tronclass-cli/internal/adapters/secrets/pass"
	"github.com/bnema/tronclass-cli/internal/domain"
	portmocks "github.com/bnema/tronclass-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, "tronclass/default/password").Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), "tronclass/default/password")
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, "tronclass/default/password").Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, "tronclass/default/password").Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), "tronclass/default/password")
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
}

func TestStoreGetReturnsCombinedErrorWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, "tronclass/default/password").Return("", errors.New("pass failed")).Once()
	fallback.EXPECT().Get(mock.Anything, "tronclass/default/password").Return("", errors.New("file failed")).Once()

	_, err := store.Get(context.Background(), "tronclass/default/password")
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "fallback backend")
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, "tronclass/default/password", "secret").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Put(mock.Anything, "tronclass/default/password", "secret").Return(nil).Once()

	err := store.Put(context.Background(), "tronclass/default/password", "secret")
	require.NoError(t, err)
}

func TestStorePutRemovesFallbackCopyWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, "tronclass/default/password", "secret").Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, "tronclass/default/password").Return(nil).Once()

	err := store.Put(context.Background(), "tronclass/default/password", "secret")
	require.NoError(t, err)
}

func TestStorePutReportsStaleFallbackCopy(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, "tronclass/default/password", "secret").Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, "tronclass/default/password").Return(errors.New("permission denied")).Once()

	err := store.Put(context.Background(), "tronclass/default/password", "secret")
	require.Error(t, err)
	assert.ErrorContains(t, err, "remove fallback copy")
	assert.ErrorContains(t, err, "permission denied")
}

func TestStorePutDoesNotFallbackOnRejectedPassword(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Put(mock.Anything, "tronclass/default/password", "a\nb").Return(secrets.ErrMultilineSecret).Once()

	err := store.Put(context.Background(), "tronclass/default/password", "a\nb")
	require.ErrorIs(t, err, secrets.ErrMultilineSecret)
}

func TestStoreDeleteFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, "tronclass/default/password").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Delete(mock.Anything, "tronclass/default/password").Return(nil).Once()

	err := store.Delete(context.Background(), "tronclass/default/password")
	require.NoError(t, err)
}

func TestStoreDeleteClearsBothBackends(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, "tronclass/default/password").Return(nil).Once()
	fallback.EXPECT().Delete(mock.Anything, "tronclass/default/password").Return(nil).Once()

	err := store.Delete(context.Background(), "tronclass/default/password")
	require.NoError(t, err)
}

func TestStoreDeleteReturnsCombinedErrorWhenBothBackendsFail(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Delete(mock.Anything, "tronclass/default/password").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Delete(mock.Anything, "tronclass/default/password").Return(errors.New("file failed")).Once()

	err := store.Delete(context.Background(), "tronclass/default/password")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStoreGetDoesNotFallbackOnCanceledContextError(t *testing.T) {
	t.Parallel()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, fallback)

	primary.EXPECT().Get(mock.Anything, "tronclass/default/password").Return("", context.Canceled).Once()

	_, err := store.Get(context.Background(), "tronclass/default/password")
	require.ErrorIs(t, err, context.Canceled)
}

func TestStoreMovesPasswordOutOfFileOncePassWorks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	key := domain.DefaultPasswordRef("school")
	primary := portmocks.NewMockSecretStore(t)
	store := NewStore(primary, filestore.NewStore(root))

	primary.EXPECT().Put(mock.Anything, key, "first").Return(passstore.ErrUnavailable).Once()
	require.NoError(t, store.Put(context.Background(), key, "first"))
	assert.FileExists(t, filepath.Join(root, "profiles", "school", "password"))

	primary.EXPECT().Put(mock.Anything, key, "second").Return(nil).Once()
	require.NoError(t, store.Put(context.Background(), key, "second"))
	assert.NoFileExists(t, filepath.Join(root, "profiles", "school", "password"))
}
