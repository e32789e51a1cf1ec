package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/lessonpad/internal/logger"
	"github.com/bastiangx/lessonpad/internal/utils"
	"github.com/bastiangx/lessonpad/pkg/config"
	"github.com/bastiangx/lessonpad/pkg/engine"
	"github.com/bastiangx/lessonpad/pkg/highlight"
	"github.com/bastiangx/lessonpad/pkg/predict"
	"github.com/bastiangx/lessonpad/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server bridges the msgpack stream and one engine session.
type Server struct {
	session *engine.Session
	config  *config.Config
	store   config.Store
	reader  io.Reader
	encoder *msgpack.Encoder
	log     *log.Logger

	requestCount int
}

// NewServer creates a server on stdin/stdout.
func NewServer(cfg *config.Config, store config.Store, predictor predict.Predictor, opts ...engine.Option) *Server {
	return NewServerWithIO(cfg, store, predictor, os.Stdin, os.Stdout, opts...)
}

// NewServerWithIO creates a server on the given streams.
func NewServerWithIO(cfg *config.Config, store config.Store, predictor predict.Predictor, r io.Reader, w io.Writer, opts ...engine.Option) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		config:  cfg,
		store:   store,
		reader:  bufio.NewReader(r),
		encoder: msgpack.NewEncoder(w),
		log:     logger.New("ipc"),
	}
	s.session = engine.New(cfg, predictor, s, opts...)
	return s
}

// Start serves requests until the input ends or ctx is done.
// Everything written to the output stream is written from the session loop.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loopDone := make(chan error, 1)
	go func() { loopDone <- s.session.Run(ctx) }()

	s.log.Debug("Starting Server.")
	s.session.Post(func() { s.send(ReadyMessage{Kind: KindReady, Status: "ready"}) })

	decoder := msgpack.NewDecoder(s.reader)
	for {
		var raw msgpack.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("input closed")
				s.session.Drain()
				cancel()
				return <-loopDone
			}
			s.log.Errorf("Reading from stdin: %v", err)
			cancel()
			<-loopDone
			return err
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Errorf("Unmarshaling request: %v", err)
			s.replyError("", "invalid request", 400)
			continue
		}
		s.handleRequest(req)

		if ctx.Err() != nil {
			return <-loopDone
		}
	}
}

// handleRequest dispatches one request. It runs on the reader goroutine and
// reaches session state only through Post.
func (s *Server) handleRequest(req Request) {
	s.requestCount++
	if s.requestCount%500 == 0 {
		s.log.Debugf("handled %d requests", s.requestCount)
	}

	switch req.Action {
	case "edit":
		s.session.Edit(req.Text)
	case "panel":
		if req.Open == nil {
			s.session.TogglePanel()
		} else {
			s.session.SetPanel(*req.Open)
		}
	case "accept":
		s.session.Post(func() { s.handleAccept(req) })
	case "pick":
		s.session.Post(func() { s.handlePick(req) })
	case "save":
		s.session.Post(func() {
			p := s.session.SavePayload()
			s.send(SaveMessage{Kind: KindSave, ID: req.ID, Text: p.Text, Settings: p.Settings})
		})
	case "config":
		s.handleConfig(req)
	default:
		s.replyError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

// handleAccept runs on the loop.
func (s *Server) handleAccept(req Request) {
	var (
		text string
		ok   bool
	)
	switch {
	case req.Key != "":
		text, ok = s.session.AcceptKey(req.Key, req.Mod)
	case req.Index != nil:
		text, ok = s.session.Accept(*req.Index)
	default:
		s.sendError(req.ID, "Missing 'index' or 'key' parameter", 400)
		return
	}
	if !ok {
		s.sendError(req.ID, "No suggestion at that position", 404)
		return
	}
	s.send(InsertMessage{Kind: KindInsert, ID: req.ID, Text: text})
}

// handlePick runs on the loop.
func (s *Server) handlePick(req Request) {
	if req.Index == nil {
		s.sendError(req.ID, "Missing 'index' parameter", 400)
		return
	}
	text, ok := s.session.PickChunk(*req.Index)
	if !ok {
		s.sendError(req.ID, "No chunk at that position", 404)
		return
	}
	s.send(InsertMessage{Kind: KindInsert, ID: req.ID, Text: text})
}

// handleConfig runs on the reader goroutine, which owns s.config.
func (s *Server) handleConfig(req Request) {
	if p := req.Settings; p != nil {
		s.config.Apply(p.ContextWindow, p.TopK, p.NgramOrder, p.Hotkey)
		if s.store != nil {
			if err := s.store.Save(s.config); err != nil {
				s.log.Warnf("Failed to persist settings: %v", err)
			}
		}
		s.session.UpdateSettings(s.config.Settings)
	}
	settings := s.config.Settings
	s.session.Post(func() {
		s.send(ConfigMessage{Kind: KindConfig, ID: req.ID, Settings: settings})
	})
}

func (s *Server) replyError(id, message string, code int) {
	s.session.Post(func() { s.sendError(id, message, code) })
}

// send writes one message. Called on the loop only.
func (s *Server) send(v any) {
	if err := s.encoder.Encode(v); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorMessage{Kind: KindError, ID: id, Error: message, Code: code})
}

// Suggestions implements engine.Sink.
func (s *Server) Suggestions(list []string) {
	labels := suggest.NewHotkeys(s.session.Settings().Hotkey).Labels()
	ranks := utils.CreateRankList(len(list))
	out := make([]Suggestion, len(list))
	for i, w := range list {
		out[i] = Suggestion{Word: w, Rank: ranks[i]}
		if i < len(labels) {
			out[i].Key = labels[i]
		}
	}
	s.send(SuggestionsMessage{Kind: KindSuggestions, Suggestions: out, Count: len(out)})
}

// Chunks implements engine.Sink.
func (s *Server) Chunks(o highlight.Overlay) {
	entries := make([]ChunkEntry, len(o.Chunks))
	for i, c := range o.Chunks {
		entries[i] = ChunkEntry{Text: c.Text, Count: c.Count, Color: o.Colors[i].Hex(), CSS: o.Colors[i].CSS()}
	}
	var marks []MarkEntry
	for _, m := range o.Marks() {
		marks = append(marks, MarkEntry{Start: m.Start, End: m.End, Rank: m.Rank})
	}
	s.send(ChunksMessage{Kind: KindChunks, Chunks: entries, Marks: marks, Overlay: o.HTML()})
}

// ClearChunks implements engine.Sink.
func (s *Server) ClearChunks() {
	s.send(ClearMessage{Kind: KindClear})
}

// Notify implements engine.Sink.
func (s *Server) Notify(err error) {
	s.sendError("", err.Error(), 502)
}
