package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	assert := assert.New(t)
	s := NewStore(keyring.NewArrayKeyring(nil))

	_, err := s.Get(AccessTokenKey)
	assert.ErrorIs(err, ErrNotFound)

	require.NoError(t, s.Set(AccessTokenKey, "abc"))
	got, err := s.Get(AccessTokenKey)
	require.NoError(t, err)
	assert.Equal("abc", got)

	require.NoError(t, s.Delete(AccessTokenKey))
	require.NoError(t, s.Delete(AccessTokenKey))

	_, err = s.Get(AccessTokenKey)
	assert.ErrorIs(err, ErrNotFound)
}
