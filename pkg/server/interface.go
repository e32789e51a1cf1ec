/*
Package server exposes an editing session over msgpack IPC on stdin/stdout.

The front-end sends one msgpack map per request. Every request carries an
"id" and an "action":

	{"id": "1", "action": "edit", "text": "the cat sat the ca"}
	{"id": "2", "action": "panel", "open": true}
	{"id": "3", "action": "accept", "key": "2", "mod": true}
	{"id": "4", "action": "pick", "index": 0}
	{"id": "5", "action": "save"}
	{"id": "6", "action": "config", "settings": {"top_k": 3}}

Edits and panel changes produce no direct reply. The session pushes results
when they are ready, tagged by "k":

	{"k": "s", "s": [{"w": "cat", "r": 1, "h": "Tab"}], "c": 1}
	{"k": "k", "ch": [{"t": "the cat", "n": 2, "h": "#f5c1c1"}], "o": "<mark ...>"}
	{"k": "x"}
	{"k": "e", "e": "prediction request failed: ...", "c": 502}

accept and pick answer with the text to insert ({"k": "i", "id": "3", "i": "sat "}),
save with the payload for the save collaborator, config with the active settings.
Prediction pushes are not correlated with edits: the latest push wins.
*/
package server

import "github.com/bastiangx/lessonpad/pkg/config"

// Message kinds.
const (
	KindReady       = "r"
	KindSuggestions = "s"
	KindChunks      = "k"
	KindClear       = "x"
	KindInsert      = "i"
	KindError       = "e"
	KindSave        = "v"
	KindConfig      = "g"
)

// Request is any front-end request.
type Request struct {
	ID       string         `msgpack:"id"`
	Action   string         `msgpack:"action"`
	Text     string         `msgpack:"text,omitempty"`
	Open     *bool          `msgpack:"open,omitempty"`
	Index    *int           `msgpack:"index,omitempty"`
	Key      string         `msgpack:"key,omitempty"`
	Mod      bool           `msgpack:"mod,omitempty"`
	Settings *SettingsPatch `msgpack:"settings,omitempty"`
}

// SettingsPatch carries the settings fields a config request changes.
type SettingsPatch struct {
	ContextWindow *int    `msgpack:"context_window,omitempty"`
	TopK          *int    `msgpack:"top_k,omitempty"`
	NgramOrder    *int    `msgpack:"ngram_order,omitempty"`
	Hotkey        *string `msgpack:"hotkey,omitempty"`
}

// ReadyMessage is sent once the session loop is running.
type ReadyMessage struct {
	Kind   string `msgpack:"k"`
	Status string `msgpack:"status"`
}

// Suggestion is one ranked suggestion with its hotkey label.
type Suggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
	Key  string `msgpack:"h,omitempty"`
}

// SuggestionsMessage replaces the suggestion bar.
type SuggestionsMessage struct {
	Kind        string       `msgpack:"k"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
}

// ChunkEntry is one row of the chunk panel.
type ChunkEntry struct {
	Text  string `msgpack:"t"`
	Count int    `msgpack:"n"`
	Color string `msgpack:"h"`
	CSS   string `msgpack:"css"`
}

// MarkEntry locates one highlighted span in the buffer by byte offsets.
type MarkEntry struct {
	Start int `msgpack:"s"`
	End   int `msgpack:"e"`
	Rank  int `msgpack:"r"`
}

// ChunksMessage replaces the chunk panel and its overlay.
type ChunksMessage struct {
	Kind    string       `msgpack:"k"`
	Chunks  []ChunkEntry `msgpack:"ch"`
	Marks   []MarkEntry  `msgpack:"m"`
	Overlay string       `msgpack:"o"`
}

// ClearMessage discards the overlay.
type ClearMessage struct {
	Kind string `msgpack:"k"`
}

// InsertMessage answers accept and pick.
type InsertMessage struct {
	Kind string `msgpack:"k"`
	ID   string `msgpack:"id"`
	Text string `msgpack:"i"`
}

// SaveMessage answers save.
type SaveMessage struct {
	Kind     string          `msgpack:"k"`
	ID       string          `msgpack:"id"`
	Text     string          `msgpack:"text"`
	Settings config.Settings `msgpack:"settings"`
}

// ConfigMessage answers config.
type ConfigMessage struct {
	Kind     string          `msgpack:"k"`
	ID       string          `msgpack:"id"`
	Settings config.Settings `msgpack:"settings"`
}

// ErrorMessage reports a failed request or a transient failure.
type ErrorMessage struct {
	Kind  string `msgpack:"k"`
	ID    string `msgpack:"id,omitempty"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
