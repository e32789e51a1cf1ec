// Package cli drives an editing session from stdin for debugging and testing.
//
// Each input line is appended to the buffer as if it had been typed, and the
// session's suggestions and chunks are printed as they arrive. Lines that
// start with ':' are commands:
//
//	:1 .. :5   accept a suggestion
//	:p         toggle the chunk panel
//	:k N       pick chunk N from the panel
//	:show      print the buffer
//	:save      print the save payload
//	:clear     empty the buffer
//
// A line starting with '+' is glued to the buffer without a separating space,
// which is how a partial word is continued.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/lessonpad/pkg/engine"
	"github.com/bastiangx/lessonpad/pkg/tokenize"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines and turns them into session edits.
type InputHandler struct {
	session *engine.Session
	term    *Terminal
	in      io.Reader
	buffer  string
}

// NewInputHandler creates a handler reading stdin.
func NewInputHandler(session *engine.Session, term *Terminal) *InputHandler {
	return NewInputHandlerWithReader(session, term, os.Stdin)
}

// NewInputHandlerWithReader creates a handler reading r.
func NewInputHandlerWithReader(session *engine.Session, term *Terminal, r io.Reader) *InputHandler {
	return &InputHandler{session: session, term: term, in: r}
}

// Start runs the prompt loop until input ends or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	h.term.Printf("lessonpad CLI [BETA]\n")
	h.term.Printf("type text and press Enter; :p toggles chunks, :1-:5 accept (Ctrl+C to exit)\n")

	scanner := bufio.NewScanner(h.in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		h.handleLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	h.session.Drain()
	return nil
}

func (h *InputHandler) handleLine(line string) {
	switch {
	case strings.HasPrefix(line, ":"):
		h.handleCommand(strings.Fields(line[1:]))
	case strings.HasPrefix(line, "+"):
		h.edit(h.buffer + line[1:])
	case strings.TrimSpace(line) == "":
		h.edit(h.buffer + " ")
	default:
		sep := ""
		if h.buffer != "" && !tokenize.EndsInSpace(h.buffer) {
			sep = " "
		}
		h.edit(h.buffer + sep + line)
	}
}

func (h *InputHandler) edit(text string) {
	h.buffer = text
	log.Debug("edit", "buffer", text)
	h.session.Edit(text)
}

func (h *InputHandler) handleCommand(args []string) {
	if len(args) == 0 {
		return
	}
	switch cmd := args[0]; cmd {
	case "p":
		h.session.TogglePanel()
	case "k":
		if len(args) < 2 {
			log.Errorf("usage: :k N")
			return
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Errorf("Invalid chunk number: %s", args[1])
			return
		}
		h.insert(func(s *engine.Session) (string, bool) { return s.PickChunk(n - 1) })
	case "show":
		h.term.Printf("%q\n", h.buffer)
	case "save":
		h.onLoop(func(s *engine.Session) {
			data, err := json.MarshalIndent(s.SavePayload(), "", "  ")
			if err != nil {
				log.Errorf("Encoding save payload: %v", err)
				return
			}
			h.term.Printf("%s\n", data)
		})
	case "clear":
		h.edit("")
	default:
		n, err := strconv.Atoi(cmd)
		if err != nil {
			log.Errorf("Unknown command: :%s", cmd)
			return
		}
		h.insert(func(s *engine.Session) (string, bool) { return s.Accept(n - 1) })
	}
}

// insert asks the loop for an insertion and appends it to the buffer.
func (h *InputHandler) insert(get func(*engine.Session) (string, bool)) {
	var (
		text string
		ok   bool
	)
	h.onLoop(func(s *engine.Session) { text, ok = get(s) })
	if !ok {
		log.Warn("Nothing to insert at that position")
		return
	}
	// The caret is always at the end of the buffer here.
	h.edit(h.buffer + text)
}

func (h *InputHandler) onLoop(fn func(*engine.Session)) {
	if !h.session.Call(func() { fn(h.session) }) {
		log.Warn("Session stopped")
	}
}
