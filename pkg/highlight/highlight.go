// Package highlight builds the overlay that marks ranked chunks in a buffer.
//
// The overlay is a list of segments whose concatenation is the buffer text.
// Chunks are applied in rank order with literal substring search, and only
// inside segments that are still plain, so an earlier chunk keeps any span it
// already claimed and no marker is ever nested or split.
package highlight

import (
	"html"
	"strings"

	"github.com/bastiangx/lessonpad/pkg/chunks"
)

// Plain marks a segment that belongs to no chunk.
const Plain = -1

// Segment is a run of buffer text. Rank is the index of the chunk that
// claimed it, or Plain.
type Segment struct {
	Text string
	Rank int
}

// Marked reports whether the segment carries a chunk marker.
func (s Segment) Marked() bool {
	return s.Rank != Plain
}

// Mark is a marked segment located in the buffer by byte offsets.
type Mark struct {
	Start int
	End   int
	Rank  int
	Color Color
}

// Overlay is one render of the chunk list over a buffer snapshot.
type Overlay struct {
	Segments []Segment
	Chunks   []chunks.Chunk
	Colors   []Color
}

// Render marks every occurrence of each ranked chunk in text.
func Render(text string, ranked []chunks.Chunk) Overlay {
	segments := []Segment{{Text: text, Rank: Plain}}
	if text == "" {
		segments = nil
	}

	for rank, c := range ranked {
		if c.Text == "" {
			continue
		}
		next := make([]Segment, 0, len(segments))
		for _, seg := range segments {
			if seg.Marked() {
				next = append(next, seg)
				continue
			}
			next = splitOn(next, seg.Text, c.Text, rank)
		}
		segments = next
	}

	return Overlay{
		Segments: segments,
		Chunks:   ranked,
		Colors:   Palette(len(ranked)),
	}
}

// splitOn appends the pieces of plain text around every non-overlapping
// occurrence of needle, scanning left to right.
func splitOn(dst []Segment, text, needle string, rank int) []Segment {
	for {
		i := strings.Index(text, needle)
		if i < 0 {
			break
		}
		if i > 0 {
			dst = append(dst, Segment{Text: text[:i], Rank: Plain})
		}
		dst = append(dst, Segment{Text: needle, Rank: rank})
		text = text[i+len(needle):]
	}
	if text != "" {
		dst = append(dst, Segment{Text: text, Rank: Plain})
	}
	return dst
}

// Plain returns the overlay with all markers removed. It always equals the
// buffer the overlay was rendered from.
func (o Overlay) Plain() string {
	var b strings.Builder
	for _, seg := range o.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Marks returns the marked segments in buffer order.
func (o Overlay) Marks() []Mark {
	var marks []Mark
	offset := 0
	for _, seg := range o.Segments {
		if seg.Marked() {
			marks = append(marks, Mark{
				Start: offset,
				End:   offset + len(seg.Text),
				Rank:  seg.Rank,
				Color: o.Colors[seg.Rank],
			})
		}
		offset += len(seg.Text)
	}
	return marks
}

// Count returns the number of markers carrying rank.
func (o Overlay) Count(rank int) int {
	n := 0
	for _, seg := range o.Segments {
		if seg.Rank == rank && seg.Marked() {
			n++
		}
	}
	return n
}

// HTML renders the overlay as escaped text with <mark> elements.
func (o Overlay) HTML() string {
	var b strings.Builder
	for _, seg := range o.Segments {
		text := html.EscapeString(seg.Text)
		if !seg.Marked() {
			b.WriteString(text)
			continue
		}
		b.WriteString(`<mark style="background:`)
		b.WriteString(o.Colors[seg.Rank].CSS())
		b.WriteString(`">`)
		b.WriteString(text)
		b.WriteString("</mark>")
	}
	return b.String()
}

// Empty reports whether the overlay marks nothing.
func (o Overlay) Empty() bool {
	for _, seg := range o.Segments {
		if seg.Marked() {
			return false
		}
	}
	return true
}
