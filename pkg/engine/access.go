package engine

import (
	"github.com/bastiangx/lessonpad/pkg/config"
	"github.com/bastiangx/lessonpad/pkg/suggest"
)

// The methods below read loop-owned state and must be called on the loop,
// i.e. from inside a function passed to Post.

// Buffer returns the latest snapshot.
func (s *Session) Buffer() string {
	return s.buffer
}

// Suggestions returns a copy of the displayed suggestion list.
func (s *Session) Suggestions() []string {
	out := make([]string, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}

// PanelOpen reports whether the chunk panel is open.
func (s *Session) PanelOpen() bool {
	return s.panelOpen
}

// Settings returns the current settings bundle.
func (s *Session) Settings() config.Settings {
	return s.config.Settings
}

// Accept returns the text to insert for the suggestion at index.
func (s *Session) Accept(index int) (string, bool) {
	return suggest.Insertion(s.suggestions, index)
}

// AcceptKey maps a hotkey press to an insertion.
func (s *Session) AcceptKey(key string, mod bool) (string, bool) {
	index, ok := s.hotkeys.Index(key, mod)
	if !ok {
		return "", false
	}
	return s.Accept(index)
}

// PickChunk returns the text to insert for the panel chunk at index and
// closes the panel.
func (s *Session) PickChunk(index int) (string, bool) {
	if !s.panelOpen || index < 0 || index >= len(s.overlay.Chunks) {
		return "", false
	}
	text := suggest.ChunkInsertion(s.overlay.Chunks[index].Text)
	s.setPanel(false)
	return text, true
}

// SavePayload returns the buffer and settings for the save collaborator.
func (s *Session) SavePayload() SavePayload {
	return SavePayload{Text: s.buffer, Settings: s.config.Settings}
}
