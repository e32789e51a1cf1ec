package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bastiangx/lessonpad/pkg/highlight"
	"github.com/bastiangx/lessonpad/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// chunkColumn is the display width of the chunk text column.
const chunkColumn = 32

// Terminal renders session output as text. It implements engine.Sink and is
// safe to call from the session loop while the prompt is being written.
type Terminal struct {
	mu      sync.Mutex
	out     io.Writer
	color   bool
	hotkeys suggest.Hotkeys

	keyStyle  lipgloss.Style
	wordStyle lipgloss.Style
	errStyle  lipgloss.Style
	dimStyle  lipgloss.Style
}

// NewTerminal writes to stdout, colored when stdout is a terminal.
func NewTerminal(acceptKey string) *Terminal {
	return NewTerminalWithWriter(os.Stdout, term.IsTerminal(int(os.Stdout.Fd())), acceptKey)
}

// NewTerminalWithWriter writes to w; color toggles ANSI styling.
func NewTerminalWithWriter(w io.Writer, color bool, acceptKey string) *Terminal {
	return &Terminal{
		out:     w,
		color:   color,
		hotkeys: suggest.NewHotkeys(acceptKey),
		keyStyle: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"}),
		wordStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		errStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		dimStyle:  lipgloss.NewStyle().Faint(true),
	}
}

func (t *Terminal) style(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}

// Suggestions prints the suggestion bar.
func (t *Terminal) Suggestions(list []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(list) == 0 {
		fmt.Fprintln(t.out, t.style(t.dimStyle, "(no suggestions)"))
		return
	}
	labels := t.hotkeys.Labels()
	parts := make([]string, len(list))
	for i, w := range list {
		key := fmt.Sprintf("%d", i+1)
		if i < len(labels) {
			key = labels[i]
		}
		parts[i] = t.style(t.keyStyle, " "+key+" ") + " " + t.style(t.wordStyle, w)
	}
	fmt.Fprintln(t.out, strings.Join(parts, " · "))
}

// Chunks prints the ranked chunks and the highlighted buffer.
func (t *Terminal) Chunks(o highlight.Overlay) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(o.Chunks) == 0 {
		fmt.Fprintln(t.out, t.style(t.dimStyle, "(no repeated chunks)"))
		return
	}
	for i, c := range o.Chunks {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(o.Colors[i].Hex())).Foreground(lipgloss.Color("#000000"))
		text := runewidth.FillRight(runewidth.Truncate(c.Text, chunkColumn, "…"), chunkColumn)
		fmt.Fprintf(t.out, "%2d. %s ×%d\n", i+1, t.style(swatch, text), c.Count)
	}
	fmt.Fprintln(t.out, t.renderOverlay(o))
}

func (t *Terminal) renderOverlay(o highlight.Overlay) string {
	var b strings.Builder
	for _, seg := range o.Segments {
		if !seg.Marked() {
			b.WriteString(seg.Text)
			continue
		}
		if !t.color {
			b.WriteString("[" + seg.Text + "]")
			continue
		}
		mark := lipgloss.NewStyle().Background(lipgloss.Color(o.Colors[seg.Rank].Hex())).Foreground(lipgloss.Color("#000000"))
		b.WriteString(mark.Render(seg.Text))
	}
	return b.String()
}

// ClearChunks reports the panel closing.
func (t *Terminal) ClearChunks() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, t.style(t.dimStyle, "(chunk panel closed)"))
}

// Notify prints a transient error.
func (t *Terminal) Notify(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, t.style(t.errStyle, "! "+err.Error()))
}

// Printf writes a line under the output lock.
func (t *Terminal) Printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}
