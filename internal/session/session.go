// Package session holds the signed-in user's identity and bearer token. One
// Session is created at startup and passed to everything that needs it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nhle/maildesk/internal/credential"
	"github.com/nhle/maildesk/internal/model"
)

// ErrNoSession is returned when an authenticated operation is attempted
// without a signed-in user. No network call is made.
var ErrNoSession = errors.New("not signed in")

// ErrExpired is returned once the access token's exp claim has passed.
var ErrExpired = fmt.Errorf("session expired: %w", ErrNoSession)

// Session is the explicit auth context. It satisfies api.TokenSource.
type Session struct {
	mu      sync.RWMutex
	creds   *credential.Store
	access  string
	refresh string
	user    model.User
	expires time.Time

	now func() time.Time
}

// New creates an empty session. creds may be nil, in which case nothing is
// persisted between runs.
func New(creds *credential.Store) *Session {
	return &Session{creds: creds, now: time.Now}
}

// Begin records a successful sign-in and persists the tokens.
func (s *Session) Begin(access, refresh string, user model.User) error {
	s.mu.Lock()
	s.access = access
	s.refresh = refresh
	s.user = user
	s.expires = tokenExpiry(access)
	s.mu.Unlock()

	if s.creds == nil {
		return nil
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := s.creds.Set(credential.AccessTokenKey, access); err != nil {
		return err
	}
	if err := s.creds.Set(credential.RefreshTokenKey, refresh); err != nil {
		return err
	}
	return s.creds.Set(credential.UserKey, string(userJSON))
}

// Restore loads a previously persisted session. It returns ErrNoSession when
// nothing is stored and ErrExpired when the stored token is past its expiry,
// in which case the stored tokens are removed.
func (s *Session) Restore() error {
	if s.creds == nil {
		return ErrNoSession
	}

	access, err := s.creds.Get(credential.AccessTokenKey)
	if errors.Is(err, credential.ErrNotFound) || access == "" {
		return ErrNoSession
	}
	if err != nil {
		return err
	}

	var user model.User
	if raw, err := s.creds.Get(credential.UserKey); err == nil {
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return fmt.Errorf("decoding stored user: %w", err)
		}
	}
	refresh, _ := s.creds.Get(credential.RefreshTokenKey)

	expires := tokenExpiry(access)
	if !expires.IsZero() && !s.now().Before(expires) {
		_ = s.End()
		return ErrExpired
	}

	s.mu.Lock()
	s.access = access
	s.refresh = refresh
	s.user = user
	s.expires = expires
	s.mu.Unlock()
	return nil
}

// End clears the session in memory and in the keyring.
func (s *Session) End() error {
	s.mu.Lock()
	s.access = ""
	s.refresh = ""
	s.user = model.User{}
	s.expires = time.Time{}
	s.mu.Unlock()

	if s.creds == nil {
		return nil
	}

	var errs []error
	for _, key := range []string{credential.AccessTokenKey, credential.RefreshTokenKey, credential.UserKey} {
		if err := s.creds.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Token returns the bearer token for the next request.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.access == "" {
		return "", ErrNoSession
	}
	if !s.expires.IsZero() && !s.now().Before(s.expires) {
		return "", ErrExpired
	}
	return s.access, nil
}

// Active reports whether a usable token is held.
func (s *Session) Active() bool {
	_, err := s.Token()
	return err == nil
}

// User returns the signed-in user.
func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.access != ""
}

// Role returns the signed-in user's role, or "" when signed out.
func (s *Session) Role() model.Role {
	u, ok := s.User()
	if !ok {
		return ""
	}
	return u.Role
}

// IsAdmin reports whether the user may open the admin views.
func (s *Session) IsAdmin() bool {
	return s.Role().AtLeast(model.RoleAdmin)
}

// ExpiresAt returns the access token's expiry, or the zero time if the token
// carries none.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expires
}

// tokenExpiry reads the exp claim without verifying the signature; the
// server remains the authority on validity.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
