package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/tronclass-cli/internal/adapters/secrets"
	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutUsesPassInsert(t *testing.T) {
	t.Parallel()

	called := false
	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, context.Background(), ctx)
			assert.Equal(t, []string{"insert", "-m", "-f", "tronclass/default/password"}, args)
			assert.Equal(t, "top-secret\n", input)
			return "", "", nil
		},
	}

	err := store.Put(context.Background(), "tronclass/default/password", "top-secret")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestStoreGetUsesPassShowAndTrimsTrailingNewline(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "tronclass/default/password"}, args)
			assert.Empty(t, input)
			return "top-secret\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "tronclass/default/password")
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestStoreDeleteUsesPassRemove(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "-f", "tronclass/default/password"}, args)
			assert.Empty(t, input)
			return "", "", nil
		},
	}

	err := store.Delete(context.Background(), "tronclass/default/password")
	require.NoError(t, err)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "entry not found", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "tronclass/default/password")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "tronclass/default/password")
	assert.ErrorContains(t, err, "entry not found")
}

func TestStoreGetMapsMissingEntryToNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "", "Error: tronclass/default/password is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "tronclass/default/password")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetReturnsFirstLineOfEntry(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "top-secret\r\nusername: s1234567\nurl: https://tronclass.example.edu.tw\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "school/tronclass")
	require.NoError(t, err)
	assert.Equal(t, "top-secret", value)
}

func TestStoreGetTreatsBlankEntryAsNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			return "\nusername: s1234567\n", "", nil
		},
	}

	_, err := store.Get(context.Background(), "tronclass/default/password")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreValidatesBeforeRunningPass(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			t.Fatalf("pass must not run, got %v", args)
			return "", "", nil
		},
	}

	err := store.Put(context.Background(), "tronclass/default/password", "top\nsecret")
	require.ErrorIs(t, err, secrets.ErrMultilineSecret)

	_, err = store.Get(context.Background(), "../outside")
	require.ErrorIs(t, err, secrets.ErrInvalidKey)

	err = store.Delete(context.Background(), " ")
	require.ErrorIs(t, err, secrets.ErrEmptyKey)
}

func TestStoreCleansEntryName(t *testing.T) {
	t.Parallel()

	var got []string
	store := &Store{
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			got = args
			return "", "", nil
		},
	}

	require.NoError(t, store.Delete(context.Background(), " tronclass/./school/password "))
	assert.Equal(t, []string{"rm", "-f", "tronclass/school/password"}, got)
}
