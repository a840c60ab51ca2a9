package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"foreman-cli/internal/gateway"
	"foreman-cli/internal/model"
)

func TestLoadSession_Missing(t *testing.T) {
	if _, err := LoadSession(t.TempDir()); err != ErrNotSignedIn {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestLoadSession_CorruptOrTokenless(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, sessionFileName), []byte("{corrupt"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSession(dir); err != ErrNotSignedIn {
		t.Fatalf("corrupt cache: expected ErrNotSignedIn, got %v", err)
	}

	if err := SaveSession(dir, &model.Session{RefreshToken: "r"}); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSession(dir); err != ErrNotSignedIn {
		t.Fatalf("empty access token: expected ErrNotSignedIn, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &model.Session{
		AccessToken:  "tok",
		RefreshToken: "ref",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		User:         model.User{ID: "user-1", Email: "a@b.c"},
	}
	if err := SaveSession(dir, want); err != nil {
		t.Fatalf("save session: %v", err)
	}
	got, err := LoadSession(dir)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if got.AccessToken != "tok" || got.User.ID != "user-1" {
		t.Fatalf("session round trip: %+v", got)
	}

	info, err := os.Stat(filepath.Join(dir, sessionFileName))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file should be user-only, got %o", perm)
	}
}

func TestClearSession_MissingIsFine(t *testing.T) {
	if err := ClearSession(t.TempDir()); err != nil {
		t.Fatalf("clear on empty dir: %v", err)
	}
}

func TestEnsureSession_FreshSessionSkipsRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected gateway call %s %s", r.Method, r.URL.Path)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	if err := SaveSession(dir, &model.Session{
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}); err != nil {
		t.Fatal(err)
	}

	sess, err := EnsureSession(context.Background(), gateway.New(srv.URL, "anon"), dir)
	if err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if sess.AccessToken != "tok" {
		t.Fatalf("expected cached session, got %+v", sess)
	}
}

func TestEnsureSession_RefreshesAndPersistsExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "refresh_token" {
			t.Errorf("unexpected gateway call %s %s", r.Method, r.URL.String())
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["refresh_token"] != "old-ref" {
			t.Errorf("expected old refresh token in body, got %v (%v)", body, err)
		}
		json.NewEncoder(w).Encode(model.Session{
			AccessToken:  "new-tok",
			RefreshToken: "new-ref",
			ExpiresAt:    time.Now().Add(time.Hour).Unix(),
		})
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	if err := SaveSession(dir, &model.Session{
		AccessToken:  "old-tok",
		RefreshToken: "old-ref",
		ExpiresAt:    time.Now().Add(-time.Hour).Unix(),
	}); err != nil {
		t.Fatal(err)
	}

	sess, err := EnsureSession(context.Background(), gateway.New(srv.URL, "anon"), dir)
	if err != nil {
		t.Fatalf("ensure session: %v", err)
	}
	if sess.AccessToken != "new-tok" {
		t.Fatalf("expected refreshed session, got %+v", sess)
	}

	cached, err := LoadSession(dir)
	if err != nil {
		t.Fatalf("load refreshed cache: %v", err)
	}
	if cached.RefreshToken != "new-ref" {
		t.Fatalf("refreshed session not persisted: %+v", cached)
	}
}

func TestEnsureSession_ExpiredWithoutRefreshToken(t *testing.T) {
	dir := t.TempDir()
	if err := SaveSession(dir, &model.Session{
		AccessToken: "old-tok",
		ExpiresAt:   time.Now().Add(-time.Hour).Unix(),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureSession(context.Background(), gateway.New("http://127.0.0.1:1", "anon"), dir); err != ErrNotSignedIn {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestSessionExpired_Boundaries(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name      string
		expiresAt int64
		want      bool
	}{
		{"zero never expires", 0, false},
		{"well in future", now.Add(time.Hour).Unix(), false},
		{"inside safety margin", now.Add(30 * time.Second).Unix(), true},
		{"already past", now.Add(-time.Hour).Unix(), true},
	}
	for _, tc := range cases {
		got := sessionExpired(&model.Session{AccessToken: "t", ExpiresAt: tc.expiresAt}, now)
		if got != tc.want {
			t.Errorf("%s: expired=%v, want %v", tc.name, got, tc.want)
		}
	}
}
