// Package engine runs one editing session: it owns the buffer snapshot, the
// request scheduler, the displayed suggestions and the chunk panel.
//
// All session state lives on a single event loop (Run). Callers on other
// goroutines, including timers and in-flight prediction requests, only ever
// Post closures to it. Prediction responses are applied in arrival order, so
// a slow response can overwrite a newer one; the next edit corrects it.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bastiangx/lessonpad/internal/logger"
	"github.com/bastiangx/lessonpad/pkg/chunks"
	"github.com/bastiangx/lessonpad/pkg/config"
	"github.com/bastiangx/lessonpad/pkg/highlight"
	"github.com/bastiangx/lessonpad/pkg/predict"
	"github.com/bastiangx/lessonpad/pkg/scheduler"
	"github.com/bastiangx/lessonpad/pkg/suggest"
	"github.com/bastiangx/lessonpad/pkg/tokenize"
	"github.com/charmbracelet/log"
)

// eventQueueSize bounds how many posted events may wait for the loop.
const eventQueueSize = 256

// Sink receives the session's outputs. Methods are called on the loop.
type Sink interface {
	// Suggestions replaces the displayed suggestion list.
	Suggestions(list []string)
	// Chunks replaces the chunk panel and its overlay.
	Chunks(overlay highlight.Overlay)
	// ClearChunks discards the overlay when the panel closes.
	ClearChunks()
	// Notify reports a transient error to the user.
	Notify(err error)
}

// SavePayload is what the save collaborator needs from the session.
type SavePayload struct {
	Text     string          `json:"text" msgpack:"text"`
	Settings config.Settings `json:"settings" msgpack:"settings"`
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c scheduler.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithLogger replaces the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithMerger replaces suggest.Merge as the way responses are combined with
// the typed prefix.
func WithMerger(m suggest.Merger) Option {
	return func(s *Session) { s.merger = m }
}

// Session is one editing session.
type Session struct {
	config    config.Config
	predictor predict.Predictor
	sink      Sink
	clock     scheduler.Clock
	sched     *scheduler.Scheduler
	hotkeys   suggest.Hotkeys
	merger    suggest.Merger
	log       *log.Logger

	events chan func()
	done   chan struct{}
	ctx    context.Context

	// inflight counts predictions whose result has not been handled yet;
	// idle holds Drain callers waiting for it to reach zero.
	inflight int
	idle     []chan struct{}

	buffer      string
	suggestions []string
	panelOpen   bool
	overlay     highlight.Overlay
}

// New creates a session. cfg is copied; later changes go through
// UpdateSettings.
func New(cfg *config.Config, predictor predict.Predictor, sink Sink, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Session{
		config:    *cfg,
		predictor: predictor,
		sink:      sink,
		clock:     scheduler.SystemClock{},
		hotkeys:   suggest.NewHotkeys(cfg.Settings.Hotkey),
		merger:    suggest.MergeFunc(suggest.Merge),
		events:    make(chan func(), eventQueueSize),
		done:      make(chan struct{}),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.New("engine")
	}
	s.sched = scheduler.New(cfg.Scheduler, loopClock{base: s.clock, post: s.Post}, s.fire)
	return s
}

// loopClock defers callbacks onto the session loop.
type loopClock struct {
	base scheduler.Clock
	post func(func())
}

func (c loopClock) Now() time.Time { return c.base.Now() }

func (c loopClock) AfterFunc(d time.Duration, f func()) {
	c.base.AfterFunc(d, func() { c.post(f) })
}

// Run processes events until ctx is done.
func (s *Session) Run(ctx context.Context) error {
	s.ctx = ctx
	defer close(s.done)
	s.log.Debug("session loop started")

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("session loop stopped")
			return nil
		case fn := <-s.events:
			fn()
		}
	}
}

// Post queues fn to run on the loop. It is dropped once the loop stopped.
func (s *Session) Post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

// Drain sends an armed trailing request right away, then waits until every
// queued event ran and every prediction result was handled. Callers stop
// editing before draining. It must not be called on the loop.
func (s *Session) Drain() {
	for {
		var wait chan struct{}
		ok := s.Call(func() {
			if s.sched.Flush() {
				s.log.Debug("drain: flushed trailing request")
			}
			if s.inflight > 0 {
				wait = make(chan struct{})
				s.idle = append(s.idle, wait)
			}
		})
		if !ok || wait == nil {
			return
		}
		select {
		case <-wait:
		case <-s.done:
			return
		}
	}
}

// Call runs fn on the loop and waits for it. It reports false when the loop
// stopped before fn ran.
func (s *Session) Call(fn func()) bool {
	done := make(chan struct{})
	s.Post(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return true
	case <-s.done:
		return false
	}
}

// Edit reports a new buffer snapshot.
func (s *Session) Edit(text string) {
	s.Post(func() { s.handleEdit(text) })
}

// SetPanel opens or closes the chunk panel.
func (s *Session) SetPanel(open bool) {
	s.Post(func() { s.setPanel(open) })
}

// TogglePanel flips the chunk panel.
func (s *Session) TogglePanel() {
	s.Post(func() { s.setPanel(!s.panelOpen) })
}

// UpdateSettings replaces the settings bundle for later requests.
func (s *Session) UpdateSettings(settings config.Settings) {
	s.Post(func() {
		s.config.Settings = settings
		s.hotkeys = suggest.NewHotkeys(settings.Hotkey)
	})
}

func (s *Session) handleEdit(text string) {
	s.buffer = text
	d := s.sched.Edit()
	s.log.Debug("edit", "len", len(text), "decision", d, "state", s.sched.State())
	if s.panelOpen {
		s.refreshChunks()
	}
}

// fire starts a prediction for the buffer as it is now.
func (s *Session) fire() {
	snapshot := s.buffer
	if strings.TrimSpace(snapshot) == "" {
		s.suggestions = nil
		s.sink.Suggestions([]string{})
		return
	}

	req := predict.NewRequest(snapshot, s.config.Settings)
	ctx := s.ctx
	s.inflight++
	go func() {
		res := predict.Do(ctx, s.predictor, req)
		s.Post(func() { s.finish(res) })
	}()
}

func (s *Session) finish(res predict.Result) {
	s.inflight--
	s.handleResult(res)
	if s.inflight == 0 {
		for _, ch := range s.idle {
			close(ch)
		}
		s.idle = nil
	}
}

func (s *Session) handleResult(res predict.Result) {
	if !res.OK() {
		if errors.Is(res.Err, context.Canceled) {
			return
		}
		s.log.Warn("prediction failed", "err", res.Err)
		s.sink.Notify(res.Err)
		return
	}
	prefix := tokenize.TypedPrefix(s.buffer)
	s.suggestions = s.merger.Merge(res.Words, prefix, s.config.Settings.TopK)
	s.log.Debug("suggestions", "prefix", prefix, "count", len(s.suggestions))
	s.sink.Suggestions(s.Suggestions())
}

func (s *Session) setPanel(open bool) {
	if !open {
		s.panelOpen = false
		s.overlay = highlight.Overlay{}
		s.sink.ClearChunks()
		return
	}
	s.panelOpen = true
	s.refreshChunks()
}

func (s *Session) refreshChunks() {
	ranked := chunks.Mine(s.buffer, s.config.Chunks)
	s.overlay = highlight.Render(s.buffer, ranked)
	s.sink.Chunks(s.overlay)
}
