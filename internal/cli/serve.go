package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstage/pkg/cache"
	"github.com/matzehuels/cardstage/pkg/config"
	"github.com/matzehuels/cardstage/pkg/integrations/google"
	"github.com/matzehuels/cardstage/pkg/pipeline"
	"github.com/matzehuels/cardstage/pkg/server"
	"github.com/matzehuels/cardstage/pkg/session"
)

// redisPrefix namespaces every key the server writes to Redis.
const redisPrefix = "cardstage:"

// serveCommand creates the serve command for the HTTP and websocket server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		publicURL string
		redisURL  string
		streamFPS int
		noCache   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve cards, layouts and live frames over HTTP",
		Long: `Run the cardstage HTTP server.

Routes:
  GET /api/modes               layout modes and their capacity
  GET /api/cards               the loaded cards
  GET /api/layouts/{mode}      target positions (?count=n)
  GET /api/frame.{svg,png,pdf,json} a settled frame (?mode=a,b&width=&height=)
  GET /ws                      live frames over a websocket
  GET /auth/login              Google sign-in (needs google.client_id)

With --redis the cache, sessions and sign-in state live in Redis so several
instances can share them; otherwise they are kept on disk and in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := c.Config.Server
			if addr == "" {
				addr = srv.Addr
			}
			if addr == "" {
				addr = config.DefaultAddr
			}
			if publicURL == "" {
				publicURL = srv.PublicURL
			}
			if redisURL == "" {
				redisURL = srv.RedisAddr
			}
			c.applyConfig(&opts)
			return c.runServe(cmd.Context(), serveParams{
				addr:      addr,
				publicURL: publicURL,
				redisURL:  redisURL,
				streamFPS: streamFPS,
				noCache:   noCache,
				defaults:  opts,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&publicURL, "public-url", "", "external base URL, used for the OAuth redirect")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL (redis://host:port/db) for cache and sessions")
	cmd.Flags().IntVar(&streamFPS, "stream-fps", server.DefaultStreamFPS, "websocket frame rate")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addSourceFlags(cmd, &opts)
	addSimulateFlags(cmd, &opts)

	return cmd
}

type serveParams struct {
	addr      string
	publicURL string
	redisURL  string
	streamFPS int
	noCache   bool
	defaults  pipeline.Options
}

// runServe wires the stores and runs the server until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, p serveParams) error {
	cfg := server.Config{
		Defaults:     p.defaults,
		StreamFPS:    p.streamFPS,
		SecureCookie: strings.HasPrefix(p.publicURL, "https://"),
		Logger:       c.Logger,
	}

	var store cache.Cache
	if p.redisURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		rc, err := cache.NewRedisCache(connectCtx, p.redisURL, redisPrefix)
		cancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		rs := session.NewRedisStore(rc.Client(), redisPrefix)
		cfg.Sessions, cfg.States = rs, rs
		store = rc
		if p.noCache {
			store = cache.NewNullCache()
			defer rc.Close()
		}
		c.Logger.Info("using redis", "url", p.redisURL)
	} else {
		var err error
		if store, err = newCache(p.noCache); err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}

	cfg.Runner = pipeline.NewRunner(store, nil, c.Logger)
	defer cfg.Runner.Close()

	if g := c.Config.Google; g.ClientID != "" {
		base := strings.TrimRight(p.publicURL, "/")
		if base == "" {
			base = "http://localhost" + listenPort(p.addr)
		}
		cfg.OAuth = google.NewOAuthClient(google.OAuthConfig{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  base + "/auth/callback",
		})
		c.Logger.Info("sign-in enabled", "redirect", base+"/auth/callback")
	} else {
		c.Logger.Info("sign-in disabled: no google.client_id configured")
	}

	srv := server.New(cfg)
	c.Logger.Info("listening", "addr", p.addr)
	return srv.ListenAndServe(ctx, p.addr)
}

// listenPort returns the ":port" suffix of addr.
func listenPort(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ""
}
