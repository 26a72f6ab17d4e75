package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/matzehuels/cardstage/pkg/integrations"
)

// Scopes requested at sign-in.
const (
	ScopeSpreadsheetsReadonly = "https://www.googleapis.com/auth/spreadsheets.readonly"
	ScopeProfile              = "profile"
)

// DefaultScopes grants read access to spreadsheets plus the basic profile.
var DefaultScopes = []string{ScopeSpreadsheetsReadonly, oidc.ScopeOpenID, ScopeProfile}

// DeviceScopes is what the device flow may request. Google refuses the
// spreadsheets scope for limited-input devices, so such sessions can sign in
// but read sheets only through an API key.
var DeviceScopes = []string{oidc.ScopeOpenID, ScopeProfile}

// Endpoint is Google's OAuth 2.0 endpoint including device authorization.
var Endpoint = oauth2.Endpoint{
	AuthURL:       "https://accounts.google.com/o/oauth2/auth",
	TokenURL:      "https://oauth2.googleapis.com/token",
	DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
	AuthStyle:     oauth2.AuthStyleInParams,
}

// ErrAuthDenied is returned when the user declines the consent screen.
var ErrAuthDenied = errors.New("authorization denied")

// OAuthConfig holds the OAuth client registration.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string        // defaults to DefaultScopes
	Endpoint     oauth2.Endpoint // defaults to Endpoint
}

// OAuthClient handles Google OAuth operations.
type OAuthClient struct {
	config oauth2.Config
}

// NewOAuthClient creates a new OAuth client.
func NewOAuthClient(cfg OAuthConfig) *OAuthClient {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	if cfg.Endpoint.TokenURL == "" {
		cfg.Endpoint = Endpoint
	}
	return &OAuthClient{config: oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       cfg.Scopes,
		Endpoint:     cfg.Endpoint,
	}}
}

// Config returns a copy of the underlying oauth2 configuration.
func (c *OAuthClient) Config() oauth2.Config { return c.config }

// AuthorizationURL returns the consent page URL. verifier is the PKCE
// verifier later passed to ExchangeCode.
func (c *OAuthClient) AuthorizationURL(state, verifier string) string {
	return c.config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
}

// ExchangeCode exchanges an authorization code for a token.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	tok, err := c.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return tok, nil
}

// RequestDeviceCode initiates the device authorization flow.
// The user must visit VerificationURI and enter UserCode.
func (c *OAuthClient) RequestDeviceCode(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	da, err := c.config.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("request device code: %w", err)
	}
	return da, nil
}

// PollForToken polls until the user approves the device code, the code
// expires, or ctx is cancelled.
func (c *OAuthClient) PollForToken(ctx context.Context, da *oauth2.DeviceAuthResponse) (*oauth2.Token, error) {
	tok, err := c.config.DeviceAccessToken(ctx, da)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.ErrorCode == "access_denied" {
			return nil, ErrAuthDenied
		}
		return nil, fmt.Errorf("poll for token: %w", err)
	}
	return tok, nil
}

// TokenSource returns a source that refreshes tok as it expires.
func (c *OAuthClient) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return c.config.TokenSource(ctx, tok)
}

// HTTPClient returns a client that authorizes every request with tok,
// refreshing it when needed.
func (c *OAuthClient) HTTPClient(ctx context.Context, tok *oauth2.Token) *http.Client {
	hc := oauth2.NewClient(ctx, c.TokenSource(ctx, tok))
	hc.Timeout = integrations.NewHTTPClient().Timeout
	return hc
}

// LoginLoopback runs the installed-app flow: it listens on a random
// 127.0.0.1 port, hands the consent URL to open, and waits for Google to
// redirect back with the authorization code.
func (c *OAuthClient) LoginLoopback(ctx context.Context, open func(url string) error) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	loop := *c
	loop.config.RedirectURL = "http://" + ln.Addr().String() + "/callback"

	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()

	type result struct {
		code string
		err  error
	}
	done := make(chan result, 1)
	finish := func(r result) {
		select {
		case done <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			finish(result{err: errors.New("oauth state mismatch")})
		case q.Get("error") != "":
			fmt.Fprintln(w, "Sign-in was cancelled. You can close this window.")
			finish(result{err: fmt.Errorf("%w: %s", ErrAuthDenied, q.Get("error"))})
		default:
			fmt.Fprintln(w, "Signed in. You can close this window.")
			finish(result{code: q.Get("code")})
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer srv.Close()

	if err := open(loop.AuthorizationURL(state, verifier)); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return loop.ExchangeCode(ctx, res.code, verifier)
	}
}
