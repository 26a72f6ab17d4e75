package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/matzehuels/cardstage/pkg/integrations/google"
)

func testToken() *oauth2.Token {
	return &oauth2.Token{AccessToken: "ya29.test", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
}

func TestNew(t *testing.T) {
	sess, err := New(testToken(), &google.Profile{Subject: "42", Name: "Ada"}, time.Hour)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if sess.ID == "" {
		t.Error("ID should not be empty")
	}
	if sess.IsExpired() {
		t.Error("fresh session should not be expired")
	}
	if got := sess.Principal(); got != "google:42" {
		t.Errorf("Principal() = %q, want %q", got, "google:42")
	}
	if got := sess.AccessToken(); got != "ya29.test" {
		t.Errorf("AccessToken() = %q, want %q", got, "ya29.test")
	}
}

func TestNewPlaceholderProfile(t *testing.T) {
	sess, err := New(testToken(), nil, time.Hour)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if sess.Profile.DisplayName() != "User" {
		t.Errorf("DisplayName() = %q, want %q", sess.Profile.DisplayName(), "User")
	}
	if sess.Principal() != "" {
		t.Errorf("Principal() = %q, want empty for placeholder profile", sess.Principal())
	}
}

func TestGenerateIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID() error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNilSessionAccessors(t *testing.T) {
	var s *Session
	if s.Principal() != "" || s.AccessToken() != "" {
		t.Error("nil session accessors should return empty strings")
	}
}

func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	sess, _ := New(testToken(), &google.Profile{Subject: "1", Name: "Ada"}, time.Hour)
	if err := store.Set(ctx, sess); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for stored session")
	}
	if got.Profile.Name != "Ada" || got.AccessToken() != "ya29.test" {
		t.Errorf("Get() = %+v, want stored session", got)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if got, _ := store.Get(ctx, sess.ID); got != nil {
		t.Error("Get() after Delete() should return nil")
	}

	expired, _ := New(testToken(), nil, time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	_ = store.Set(ctx, expired)
	if got, _ := store.Get(ctx, expired.ID); got != nil {
		t.Error("Get() should not return expired sessions")
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Errorf("Cleanup() error: %v", err)
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	storeContract(t, store)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStorePermissions(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	sess, _ := New(testToken(), nil, time.Hour)
	if err := store.Set(context.Background(), sess); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, sess.ID+".json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	sess, _ := New(testToken(), nil, time.Hour)
	sess.ID = "../escape"
	if err := store.Set(ctx, sess); err == nil {
		t.Error("Set() should reject ids containing path separators")
	}
	if got, err := store.Get(ctx, "../escape"); got != nil || err != nil {
		t.Errorf("Get() = %v, %v, want nil, nil", got, err)
	}
}

func TestFileStoreCleanup(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	ctx := context.Background()

	live, _ := New(testToken(), nil, time.Hour)
	dead, _ := New(testToken(), nil, time.Hour)
	dead.ExpiresAt = time.Now().Add(-time.Hour)
	_ = store.Set(ctx, live)
	_ = store.Set(ctx, dead)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, dead.ID+".json")); !os.IsNotExist(err) {
		t.Error("expired session file should be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, live.ID+".json")); err != nil {
		t.Error("live session file should remain")
	}
}

func TestCLIStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCLIStore(dir)
	if err != nil {
		t.Fatalf("NewCLIStore() error: %v", err)
	}
	ctx := context.Background()

	if sess, _ := store.GetSession(ctx); sess != nil {
		t.Fatal("GetSession() should be nil before login")
	}

	sess, _ := New(testToken(), &google.Profile{Name: "Ada"}, time.Hour)
	if err := store.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession() error: %v", err)
	}
	if want := filepath.Join(dir, "google.json"); store.Path() != want {
		t.Errorf("Path() = %q, want %q", store.Path(), want)
	}

	got, _ := store.GetSession(ctx)
	if got == nil || got.Profile.Name != "Ada" {
		t.Fatalf("GetSession() = %+v", got)
	}

	if err := store.DeleteSession(ctx); err != nil {
		t.Fatalf("DeleteSession() error: %v", err)
	}
	if got, _ := store.GetSession(ctx); got != nil {
		t.Error("GetSession() after delete should be nil")
	}
}

func TestMemoryStateStore(t *testing.T) {
	s := NewMemoryStateStore()
	ctx := context.Background()

	state, err := s.Generate(ctx, time.Minute)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if ok, _ := s.Validate(ctx, state); !ok {
		t.Error("first Validate() should succeed")
	}
	if ok, _ := s.Validate(ctx, state); ok {
		t.Error("second Validate() should fail (single use)")
	}
	if ok, _ := s.Validate(ctx, "unknown"); ok {
		t.Error("Validate() of unknown state should fail")
	}

	expired, _ := s.Generate(ctx, -time.Second)
	if ok, _ := s.Validate(ctx, expired); ok {
		t.Error("Validate() of expired state should fail")
	}
}

func TestRedisStoreKeys(t *testing.T) {
	s := NewRedisStore(nil, "")
	if got := s.sessionKey("abc"); got != "cardstage:session:abc" {
		t.Errorf("sessionKey = %q", got)
	}
	if got := s.stateKey("xyz"); got != "cardstage:state:xyz" {
		t.Errorf("stateKey = %q", got)
	}
}
