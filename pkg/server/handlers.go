package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cardstage/pkg/buildinfo"
	"github.com/matzehuels/cardstage/pkg/card"
	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

type modeInfo struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"` // -1 for unbounded
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	modes := layout.Modes()
	out := make([]modeInfo, len(modes))
	for i, m := range modes {
		out[i] = modeInfo{Name: m.String(), Capacity: layout.Capacity(m)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cards, err := s.cfg.Runner.Cards(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Count int         `json:"count"`
		Cards []card.Card `json:"cards"`
	}{len(cards), cards})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	mode, err := layout.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidMode, err, "%s", err.Error()))
		return
	}
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count < 0 || count > MaxLayoutCount {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"count must be an integer between 0 and %d", MaxLayoutCount))
		return
	}

	targets, hit, err := s.cfg.Runner.LayoutWithCacheInfo(r.Context(), mode, count)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Mode    string          `json:"mode"`
		Count   int             `json:"count"`
		Cached  bool            `json:"cached"`
		Targets []layout.Target `json:"targets"`
	}{mode.String(), count, hit, targets})
}

func (s *Server) handleFrame(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.options(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Formats = []string{format}

		result, err := s.cfg.Runner.Execute(r.Context(), opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		cacheState := "miss"
		if result.CacheInfo.RenderHit {
			cacheState = "hit"
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Cache", cacheState)
		w.Header().Set("X-Frames", strconv.Itoa(result.Stats.Frames))
		_, _ = w.Write(result.Artifacts[format])
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)
	if sess == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnauthorized, "not signed in"))
		return
	}
	writeJSON(w, http.StatusOK, sess.Profile)
}

// options derives pipeline options for r from the server defaults, the
// query string and the caller's session.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Logger = s.log
	q := r.URL.Query()

	if m := q.Get("mode"); m != "" {
		opts.Modes = strings.Split(m, ",")
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"duration", &opts.Duration},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", p.name, v)
		}
		*p.dst = n
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid seed: %q", v)
		}
		opts.Seed = seed
	}
	if v := q.Get("refresh"); v != "" {
		opts.Refresh, _ = strconv.ParseBool(v)
	}

	if sess := s.session(r); sess != nil && s.cfg.OAuth != nil {
		opts.HTTPClient = s.cfg.OAuth.HTTPClient(r.Context(), sess.Token)
		opts.Principal = sess.Principal()
	}
	return opts, nil
}
