package google

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/matzehuels/cardstage/pkg/integrations"
)

// OIDC endpoints used for profile lookups.
const (
	Issuer      = "https://accounts.google.com"
	UserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// PlaceholderName is shown when the profile can't be loaded.
const PlaceholderName = "User"

// Profile is the signed-in user's public identity.
type Profile struct {
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// PlaceholderProfile returns the profile used when the lookup fails.
func PlaceholderProfile() *Profile {
	return &Profile{Name: PlaceholderName}
}

// DisplayName returns Name, or the placeholder name when it is empty.
func (p *Profile) DisplayName() string {
	if p == nil || p.Name == "" {
		return PlaceholderName
	}
	return p.Name
}

// ProfileClient fetches profiles from an OIDC userinfo endpoint.
type ProfileClient struct {
	provider *oidc.Provider
}

// NewProfileClient creates a client for userInfoURL. An empty URL selects
// Google's endpoint.
func NewProfileClient(userInfoURL string) *ProfileClient {
	if userInfoURL == "" {
		userInfoURL = UserInfoURL
	}
	cfg := oidc.ProviderConfig{
		IssuerURL:   Issuer,
		AuthURL:     Endpoint.AuthURL,
		TokenURL:    Endpoint.TokenURL,
		UserInfoURL: userInfoURL,
	}
	return &ProfileClient{provider: cfg.NewProvider(context.Background())}
}

// Fetch returns the profile for token.
func (c *ProfileClient) Fetch(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("fetch profile: %w", integrations.ErrUnauthorized)
	}
	ctx = oidc.ClientContext(ctx, integrations.NewHTTPClient())

	info, err := c.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	var p Profile
	if err := info.Claims(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if p.Subject == "" {
		p.Subject = info.Subject
	}
	if p.Email == "" {
		p.Email = info.Email
	}
	return &p, nil
}

// FetchProfile looks up token's profile at Google.
func FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	return NewProfileClient("").Fetch(ctx, token)
}
