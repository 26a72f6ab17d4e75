package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/cardstage/pkg/errors"
	"github.com/matzehuels/cardstage/pkg/layout"
	"github.com/matzehuels/cardstage/pkg/pipeline"
	"github.com/matzehuels/cardstage/pkg/render/sink"
	"github.com/matzehuels/cardstage/pkg/scene"
	"github.com/matzehuels/cardstage/pkg/tween"
)

const writeTimeout = 15 * time.Second

// ControlMessage is sent by /ws clients. Every field is optional.
type ControlMessage struct {
	Mode     string      `json:"mode,omitempty"`
	Duration int         `json:"duration,omitempty"` // ms, overrides the base duration
	Rotate   *[2]float64 `json:"rotate,omitempty"`
	Pan      *[2]float64 `json:"pan,omitempty"`
	Zoom     float64     `json:"zoom,omitempty"`
	Resize   *[2]int     `json:"resize,omitempty"`
}

// StreamMessage is sent to /ws clients: a frame or an error.
type StreamMessage struct {
	Frame *sink.FrameJSON `json:"frame,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Apply forwards m to sc.
func (m ControlMessage) Apply(sc *scene.Scene) error {
	if m.Resize != nil {
		sc.Resize(m.Resize[0], m.Resize[1])
	}
	if m.Rotate != nil {
		sc.Rotate(m.Rotate[0], m.Rotate[1])
	}
	if m.Pan != nil {
		sc.Pan(m.Pan[0], m.Pan[1])
	}
	if m.Zoom > 0 {
		sc.Zoom(m.Zoom)
	}
	if m.Mode == "" {
		return nil
	}
	mode, err := layout.ParseMode(m.Mode)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMode, err, "%s", err.Error())
	}
	if m.Duration > 0 {
		ms := min(m.Duration, pipeline.MaxDuration)
		return sc.TransitionToWithDuration(mode, time.Duration(ms)*time.Millisecond)
	}
	return sc.TransitionTo(mode)
}

// latestFrame keeps only the newest frame drawn by a scene.
type latestFrame struct {
	mu    sync.Mutex
	fr    scene.Frame
	fresh bool
}

func (l *latestFrame) Render(fr scene.Frame) error {
	l.mu.Lock()
	l.fr, l.fresh = fr, true
	l.mu.Unlock()
	return nil
}

func (l *latestFrame) take() (scene.Frame, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fr, ok := l.fr, l.fresh
	l.fresh = false
	return fr, ok
}

// handleStream runs one scene per connection. Cards are loaded before the
// upgrade so source failures surface as ordinary HTTP errors.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForSimulate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	cards, err := s.cfg.Runner.Cards(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	modes, err := pipeline.ParseModes(opts.Modes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	targets, err := s.cfg.Runner.Layouts(r.Context(), len(cards), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	easing, err := tween.ParseEasing(opts.Easing)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	logger := s.log.With("conn", connID)
	logger.Info("stream opened", "cards", len(cards))
	defer logger.Info("stream closed")

	frames := &latestFrame{}
	sc := scene.New(cards,
		scene.WithRenderer(frames),
		scene.WithSize(opts.Width, opts.Height),
		scene.WithBaseDuration(opts.BaseDuration()),
		scene.WithEasing(easing),
		scene.WithTargets(targets),
		scene.WithInitialMode(modes[0]),
		scene.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	errc := make(chan string, 4)
	go func() {
		defer cancel()
		for {
			var msg ControlMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Debug("read", "error", err)
				}
				return
			}
			if err := msg.Apply(sc); err != nil {
				select {
				case errc <- errors.UserMessage(err):
				default:
				}
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.StreamFPS))
	defer ticker.Stop()

	first := true
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-errc:
			if err := s.send(conn, StreamMessage{Error: e}); err != nil {
				return
			}
		case <-ticker.C:
			sc.Tick()
			fr, ok := frames.take()
			if !ok {
				continue
			}
			out := sink.BuildFrameJSON(fr, first)
			first = false
			if err := s.send(conn, StreamMessage{Frame: &out}); err != nil {
				logger.Debug("write", "error", err)
				return
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, msg StreamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(msg)
}
