// Package session provides session management for signed-in users.
//
// Sessions hold the Google OAuth token and the user's profile with an
// expiry. Storage backends:
//   - file: JSON files for the CLI (~/.config/cardstage/sessions/)
//   - memory: in-process storage for a single server instance
//   - redis: shared storage for multi-instance server deployments
//
// OAuth state tokens provide CSRF protection during the web sign-in flow.
// The StateStore interface supports:
//   - Token generation with TTL
//   - Single-use validation (tokens are deleted after validation)
//
// # Usage
//
//	sess, err := session.New(token, profile, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, sessionID)
//	if sess == nil {
//	    // not signed in, or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/matzehuels/cardstage/pkg/integrations/google"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an OAuth state token is invalid or already used.
	ErrInvalidState = errors.New("invalid or expired state token")
)

// Session stores user session data.
type Session struct {
	ID        string          `json:"id"`
	Token     *oauth2.Token   `json:"token"`
	Profile   *google.Profile `json:"profile"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// IsExpired reports whether the session has outlived its TTL.
// The OAuth token may expire sooner; it is refreshed separately.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Principal returns a storage-compatible user identifier of the form
// "google:{sub}", used to scope cache keys. Empty for anonymous sessions.
func (s *Session) Principal() string {
	if s == nil || s.Profile == nil || s.Profile.Subject == "" {
		return ""
	}
	return "google:" + s.Profile.Subject
}

// AccessToken returns the bearer token, or "" when there is none.
func (s *Session) AccessToken() string {
	if s == nil || s.Token == nil {
		return ""
	}
	return s.Token.AccessToken
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error
}

// StateStore manages OAuth state tokens for CSRF protection.
type StateStore interface {
	// Generate creates a new state token and stores it with the given TTL.
	Generate(ctx context.Context, ttl time.Duration) (string, error)

	// Validate checks if a state token is valid and removes it (single-use).
	Validate(ctx context.Context, state string) (bool, error)
}

// Default durations.
const (
	// DefaultTTL is the default session duration.
	DefaultTTL = 30 * 24 * time.Hour

	// DefaultStateTTL is the default OAuth state token duration.
	DefaultStateTTL = 10 * time.Minute
)

// GenerateID creates a random session ID.
func GenerateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// New creates a new session with the given token and profile.
// A nil profile is replaced by the placeholder profile.
func New(token *oauth2.Token, profile *google.Profile, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = google.PlaceholderProfile()
	}

	now := time.Now()
	return &Session{
		ID:        id,
		Token:     token,
		Profile:   profile,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
