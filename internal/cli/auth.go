package cli

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/matzehuels/cardstage/pkg/integrations/google"
	"github.com/matzehuels/cardstage/pkg/session"
)

// sessionTTL is the duration for CLI sessions (30 days).
const sessionTTL = 30 * 24 * time.Hour

// loginTimeout bounds how long the browser or device flow may wait for consent.
const loginTimeout = 5 * time.Minute

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in with Google",
		Long: `Sign in with a Google account so private spreadsheets can be read.

The OAuth client comes from google.client_id and google.client_secret in the
config file, or CARDSTAGE_CLIENT_ID and CARDSTAGE_CLIENT_SECRET.
Your session is stored in ~/.config/cardstage/sessions/`,
	}

	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authWhoamiCommand())

	return cmd
}

// authLoginCommand creates the login subcommand.
func (c *CLI) authLoginCommand() *cobra.Command {
	var device bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in through the browser",
		Long: `Open Google's consent page in a browser and wait for it to redirect back
to a temporary local listener.

With --device, a code is shown instead that can be entered on any device.
Google does not allow the spreadsheet scope in that flow, so device sessions
identify you but still need an API key to read sheets.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if existing, _ := loadSession(ctx); existing != nil {
				printInfo("Already signed in as %s", existing.Profile.DisplayName())
				printDetail("Run 'cardstage auth logout' first to sign in again")
				return nil
			}

			_, err := c.runLogin(ctx, device)
			return err
		},
	}

	cmd.Flags().BoolVar(&device, "device", false, "use the device code flow (no local browser needed)")
	return cmd
}

// authLogoutCommand creates the logout subcommand.
func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored Google credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deleteSession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Signed out")
			return nil
		},
	}
}

// authWhoamiCommand creates the whoami subcommand.
func (c *CLI) authWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in Google user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := loadSession(ctx)
			if err != nil {
				return err
			}
			if sess == nil {
				return fmt.Errorf("not signed in (run 'cardstage auth login' first)")
			}

			ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			spinner := newSpinnerWithContext(ctx, "Verifying session...")
			spinner.Start()

			tok := sess.Token
			if oauth := c.oauthClient(nil); oauth != nil {
				if fresh, err := oauth.TokenSource(ctx, tok).Token(); err == nil {
					tok = fresh
				}
			}
			profile, err := google.FetchProfile(ctx, tok)
			if err != nil {
				spinner.StopWithError("Session invalid")
				return fmt.Errorf("verify session: %w", err)
			}
			spinner.Stop()

			printSuccess("Google Session")
			printKeyValue("Name", profile.DisplayName())
			if profile.Email != "" {
				printKeyValue("Email", profile.Email)
			}
			printKeyValue("Signed in", sess.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))

			return nil
		},
	}
}

// =============================================================================
// Session Management
// =============================================================================

// loadSession loads the stored session. It returns nil without an error
// when nobody is signed in or the session has expired.
func loadSession(ctx context.Context) (*session.Session, error) {
	store, err := openSessionStore()
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sess, err := store.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil || sess.IsExpired() {
		return nil, nil
	}
	return sess, nil
}

func saveSession(ctx context.Context, tok *oauth2.Token, profile *google.Profile) (*session.Session, error) {
	store, err := openSessionStore()
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sess, err := session.New(tok, profile, sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if err := store.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return sess, nil
}

func deleteSession(ctx context.Context) error {
	store, err := openSessionStore()
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	return store.DeleteSession(ctx)
}

// =============================================================================
// Login Flows
// =============================================================================

func (c *CLI) runLogin(ctx context.Context, device bool) (*session.Session, error) {
	scopes := google.DefaultScopes
	if device {
		scopes = google.DeviceScopes
	}
	oauthClient := c.oauthClient(scopes)
	if oauthClient == nil {
		return nil, fmt.Errorf("no OAuth client configured (set google.client_id in %s or CARDSTAGE_CLIENT_ID)", configHint(c.ConfigPath))
	}

	loginCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	var (
		tok *oauth2.Token
		err error
	)
	if device {
		printWarning("Device sign-in cannot read private spreadsheets; set google.api_key for public ones")
		tok, err = deviceLogin(loginCtx, oauthClient)
	} else {
		tok, err = browserLogin(loginCtx, oauthClient)
	}
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}

	profile, err := google.FetchProfile(loginCtx, tok)
	if err != nil {
		c.Logger.Warn("could not load profile", "error", err)
		profile = google.PlaceholderProfile()
	}

	sess, err := saveSession(ctx, tok, profile)
	if err != nil {
		return nil, err
	}

	printSuccess("Signed in as %s", profile.DisplayName())
	return sess, nil
}

func browserLogin(ctx context.Context, oauthClient *google.OAuthClient) (*oauth2.Token, error) {
	open := func(authURL string) error {
		if err := openBrowser(authURL); err != nil {
			printDetail("Open this URL in your browser:")
			fmt.Println("  " + StyleLink.Render(authURL))
		} else {
			printDetail("Opening browser...")
		}
		printInline("Waiting for authorization...")
		return nil
	}
	return oauthClient.LoginLoopback(ctx, open)
}

func deviceLogin(ctx context.Context, oauthClient *google.OAuthClient) (*oauth2.Token, error) {
	da, err := oauthClient.RequestDeviceCode(ctx)
	if err != nil {
		return nil, err
	}

	printNewline()
	fmt.Println(StyleTitle.Render("Google Device Authorization"))
	printNewline()
	printKeyValue("Code", StyleNumber.Render(da.UserCode))
	printKeyValue("URL", StyleLink.Render(da.VerificationURI))
	printNewline()

	if err := openBrowser(da.VerificationURI); err != nil {
		printDetail("Copy the URL above and paste it in your browser")
	} else {
		printDetail("Opening browser...")
	}
	printInline("Waiting for authorization...")

	return oauthClient.PollForToken(ctx, da)
}

// configHint names the config file for error messages.
func configHint(path string) string {
	if path != "" {
		return path
	}
	return "~/.config/cardstage/config.toml"
}

func openBrowser(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
