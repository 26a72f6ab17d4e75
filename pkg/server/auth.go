package server

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/integrations/google"
	"github.com/matzehuels/cardstage/pkg/session"
)

const (
	sessionCookie  = "cardstage_session"
	verifierCookie = "cardstage_pkce"
)

// session returns the caller's live session, or nil.
func (s *Server) session(r *http.Request) *session.Session {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	sess, err := s.cfg.Sessions.Get(r.Context(), c.Value)
	if err != nil {
		s.log.Debug("session lookup", "error", err)
		return nil
	}
	if sess == nil || sess.IsExpired() {
		return nil
	}
	return sess
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.OAuth == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "sign-in is not configured"))
		return
	}

	state, err := s.cfg.States.Generate(r.Context(), session.DefaultStateTTL)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "generate state"))
		return
	}
	verifier := oauth2.GenerateVerifier()
	http.SetCookie(w, &http.Cookie{
		Name:     verifierCookie,
		Value:    verifier,
		Path:     "/auth",
		MaxAge:   int(session.DefaultStateTTL / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.cfg.OAuth.AuthorizationURL(state, verifier), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.cfg.OAuth == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "sign-in is not configured"))
		return
	}
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		s.writeError(w, r, errors.New(errors.ErrCodeUnauthorized, "sign-in failed: %s", e))
		return
	}

	ok, err := s.cfg.States.Validate(r.Context(), q.Get("state"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "validate state"))
		return
	}
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid or expired state"))
		return
	}
	vc, err := r.Cookie(verifierCookie)
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "missing PKCE verifier"))
		return
	}

	tok, err := s.cfg.OAuth.ExchangeCode(r.Context(), q.Get("code"), vc.Value)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeUnauthorized, err, "exchange code"))
		return
	}

	sess, err := session.New(tok, s.fetchProfile(r.Context(), tok), s.cfg.SessionTTL)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "create session"))
		return
	}
	if err := s.cfg.Sessions.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	s.log.Info("signed in", "user", sess.Profile.DisplayName(), "request_id", RequestID(r.Context()))

	http.SetCookie(w, &http.Cookie{Name: verifierCookie, Path: "/auth", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// fetchProfile never fails: on error it logs and falls back to the
// placeholder profile.
func (s *Server) fetchProfile(ctx context.Context, tok *oauth2.Token) *google.Profile {
	var (
		p   *google.Profile
		err error
	)
	if s.cfg.Profiles != nil {
		p, err = s.cfg.Profiles.Fetch(ctx, tok)
	} else {
		p, err = google.FetchProfile(ctx, tok)
	}
	if err != nil {
		s.log.Warn("profile unavailable", "error", err)
		return google.PlaceholderProfile()
	}
	return p
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if err := s.cfg.Sessions.Delete(r.Context(), c.Value); err != nil {
			s.log.Warn("delete session", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}
