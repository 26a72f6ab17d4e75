package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"github.com/matzehuels/cardstage/pkg/integrations"
)

func TestProfileClientFetch(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"sub":     "1098",
			"name":    "Ada Lovelace",
			"email":   "ada@example.com",
			"picture": "https://example.com/ada.png",
		})
	}))
	defer srv.Close()

	p, err := NewProfileClient(srv.URL).Fetch(context.Background(), &oauth2.Token{AccessToken: "tok", TokenType: "Bearer"})
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	if auth != "Bearer tok" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer tok")
	}
	want := Profile{Subject: "1098", Name: "Ada Lovelace", Email: "ada@example.com", Picture: "https://example.com/ada.png"}
	if *p != want {
		t.Errorf("Fetch() = %+v, want %+v", *p, want)
	}
}

func TestProfileClientFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewProfileClient(srv.URL).Fetch(context.Background(), &oauth2.Token{AccessToken: "tok"})
	if err == nil {
		t.Error("Fetch() should fail on a 401")
	}
}

func TestProfileClientFetchNoToken(t *testing.T) {
	_, err := NewProfileClient("http://127.0.0.1:1").Fetch(context.Background(), nil)
	if !errors.Is(err, integrations.ErrUnauthorized) {
		t.Errorf("Fetch(nil) error = %v, want ErrUnauthorized", err)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		p    *Profile
		want string
	}{
		{"nil", nil, "User"},
		{"placeholder", PlaceholderProfile(), "User"},
		{"empty name", &Profile{Email: "x@example.com"}, "User"},
		{"named", &Profile{Name: "Grace"}, "Grace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
