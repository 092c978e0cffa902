package secrets

import (
	"testing"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyRecognisesProfilePasswords(t *testing.T) {
	t.Parallel()

	key, err := ParseKey(domain.DefaultPasswordRef("school"))
	require.NoError(t, err)
	assert.Equal(t, Key{Ref: "tronclass/school/password", Profile: "school", Field: "password"}, key)
	assert.True(t, key.Managed())
}

func TestParseKeyKeepsUserRefs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  string
		want string
	}{
		{ref: "school/portal", want: "school/portal"},
		{ref: " web/./tronclass ", want: "web/tronclass"},
		{ref: "tronclass/school", want: "tronclass/school"},
		{ref: "tronclass/a/b/c", want: "tronclass/a/b/c"},
	}

	for _, tc := range tests {
		key, err := ParseKey(tc.ref)
		require.NoError(t, err, tc.ref)
		assert.Equal(t, tc.want, key.Ref, tc.ref)
		assert.False(t, key.Managed(), tc.ref)
	}
}

func TestParseKeyRejectsUnsafeRefs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ref     string
		wantErr error
	}{
		{name: "empty", ref: "", wantErr: ErrEmptyKey},
		{name: "whitespace", ref: "   ", wantErr: ErrEmptyKey},
		{name: "absolute", ref: "/etc/passwd", wantErr: ErrInvalidKey},
		{name: "traversal", ref: "../escape", wantErr: ErrInvalidKey},
		{name: "nested traversal", ref: "tronclass/../../escape", wantErr: ErrInvalidKey},
		{name: "dot", ref: ".", wantErr: ErrInvalidKey},
	}

	for _, tc := range tests {
		_, err := ParseKey(tc.ref)
		require.ErrorIs(t, err, tc.wantErr, tc.name)
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidatePassword("hunter2"))
	require.ErrorIs(t, ValidatePassword("hunter2\nusername: s1234567"), ErrMultilineSecret)
	require.ErrorIs(t, ValidatePassword("hunter2\r"), ErrMultilineSecret)
}
