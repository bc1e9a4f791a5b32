package session

import (
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/credential"
	"github.com/nhle/maildesk/internal/model"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestEmptySession(t *testing.T) {
	assert := assert.New(t)
	s := New(nil)

	_, err := s.Token()
	assert.ErrorIs(err, ErrNoSession)
	assert.False(s.Active())
	assert.False(s.IsAdmin())
	assert.ErrorIs(s.Restore(), ErrNoSession)
}

func TestBeginAndRestore(t *testing.T) {
	assert := assert.New(t)
	creds := credential.NewStore(keyring.NewArrayKeyring(nil))

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	access := signedToken(t, exp)
	user := model.User{ID: "7", Name: "Ann", Email: "ann@example.com", Role: model.RoleAdmin}

	first := New(creds)
	require.NoError(t, first.Begin(access, "refresh", user))

	tok, err := first.Token()
	require.NoError(t, err)
	assert.Equal(access, tok)
	assert.True(first.IsAdmin())
	assert.True(exp.Equal(first.ExpiresAt()))

	second := New(creds)
	require.NoError(t, second.Restore())
	got, ok := second.User()
	assert.True(ok)
	assert.Equal("Ann", got.Name)
	assert.Equal(model.RoleAdmin, second.Role())

	require.NoError(t, second.End())
	assert.ErrorIs(New(creds).Restore(), ErrNoSession)
}

func TestExpiredToken(t *testing.T) {
	assert := assert.New(t)
	creds := credential.NewStore(keyring.NewArrayKeyring(nil))

	s := New(creds)
	require.NoError(t, s.Begin(signedToken(t, time.Now().Add(time.Minute)), "", model.User{Role: model.RoleUser}))

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err := s.Token()
	assert.ErrorIs(err, ErrExpired)
	assert.ErrorIs(err, ErrNoSession)

	restored := New(creds)
	restored.now = s.now
	assert.ErrorIs(restored.Restore(), ErrExpired)

	_, err = creds.Get(credential.AccessTokenKey)
	assert.ErrorIs(err, credential.ErrNotFound)
}

func TestOpaqueTokenHasNoExpiry(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.Begin("not-a-jwt", "", model.User{}))

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "not-a-jwt", tok)
	assert.True(t, s.ExpiresAt().IsZero())
}
