package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"foreman-cli/internal/gateway"
	"foreman-cli/internal/model"
)

const sessionFileName = "session.json"

// ErrNotSignedIn means no usable session exists; callers redirect the user to
// `foreman login`.
var ErrNotSignedIn = errors.New("not signed in")

func sessionPath(dir string) string {
	return filepath.Join(dir, sessionFileName)
}

// LoadSession reads the cached session. It does not validate expiry; use
// EnsureSession for a session that is good to use.
func LoadSession(dir string) (*model.Session, error) {
	b, err := os.ReadFile(sessionPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotSignedIn
		}
		return nil, err
	}
	var sess model.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		// Corrupted cache: treat as signed out.
		return nil, ErrNotSignedIn
	}
	if sess.AccessToken == "" {
		return nil, ErrNotSignedIn
	}
	return &sess, nil
}

// SaveSession caches the session in the config dir. The file holds a bearer
// token, so it is written user-readable only.
func SaveSession(dir string, sess *model.Session) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(sessionPath(dir), b, 0o600)
}

// ClearSession removes the cached session. Missing file is not an error.
func ClearSession(dir string) error {
	err := os.Remove(sessionPath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// EnsureSession is the single auth-bootstrap routine shared by the CLI and
// the TUI: load the cached session, refresh it through the gateway if it is
// expired (persisting the new one), and attach its token to the client.
// Returns ErrNotSignedIn when there is no session to work with.
func EnsureSession(ctx context.Context, gw *gateway.Client, dir string) (*model.Session, error) {
	sess, err := LoadSession(dir)
	if err != nil {
		return nil, err
	}
	if sessionExpired(sess, time.Now()) {
		if sess.RefreshToken == "" {
			return nil, ErrNotSignedIn
		}
		refreshed, err := gw.RefreshSession(ctx, sess.RefreshToken)
		if err != nil {
			return nil, ErrNotSignedIn
		}
		if err := SaveSession(dir, refreshed); err != nil {
			return nil, err
		}
		sess = refreshed
	}
	gw.SetAccessToken(sess.AccessToken)
	return sess, nil
}

// sessionExpired treats a session as expired one minute early to avoid
// racing the token's real deadline mid-request.
func sessionExpired(sess *model.Session, now time.Time) bool {
	if sess.ExpiresAt == 0 {
		return false
	}
	return now.Add(time.Minute).Unix() >= sess.ExpiresAt
}
