package highlight

import (
	"strings"
	"testing"

	"github.com/bastiangx/lessonpad/pkg/chunks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranked(texts ...string) []chunks.Chunk {
	out := make([]chunks.Chunk, len(texts))
	for i, t := range texts {
		out[i] = chunks.Chunk{Text: t, Count: 2, Len: len(strings.Fields(t))}
	}
	return out
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, 0, ColorFor(0).Hue)
	assert.Equal(t, 57, ColorFor(1).Hue)
	assert.Equal(t, 114, ColorFor(2).Hue)
	assert.Equal(t, (7*57)%360, ColorFor(7).Hue)
	assert.Equal(t, "hsl(57 70% 85%)", ColorFor(1).CSS())
	assert.Regexp(t, `^#[0-9a-f]{6}$`, ColorFor(3).Hex())
	assert.Len(t, Palette(15), 15)
}

func TestRenderMarksEveryOccurrence(t *testing.T) {
	text := "the cat sat the cat sat on the mat"
	o := Render(text, ranked("the cat"))

	assert.Equal(t, strings.Count(text, "the cat"), o.Count(0))
	assert.Equal(t, text, o.Plain())

	marks := o.Marks()
	require.Len(t, marks, 2)
	assert.Equal(t, Mark{Start: 0, End: 7, Rank: 0, Color: ColorFor(0)}, marks[0])
	assert.Equal(t, "the cat", text[marks[1].Start:marks[1].End])
}

func TestRenderEarlierRankWinsOverlap(t *testing.T) {
	text := "the cat sat the cat sat"
	o := Render(text, ranked("the cat", "cat sat", "the cat sat"))

	assert.Equal(t, 2, o.Count(0))
	// Every "cat sat" overlaps a claimed "the cat".
	assert.Equal(t, 0, o.Count(1))
	assert.Equal(t, 0, o.Count(2))
	assert.Equal(t, text, o.Plain())
}

func TestRenderLaterRankUsesRemainingText(t *testing.T) {
	text := "a b c a b c"
	o := Render(text, ranked("a b", "c a"))

	assert.Equal(t, 2, o.Count(0))
	assert.Equal(t, 0, o.Count(1))

	o = Render("x y z y z", ranked("x y", "y z"))
	assert.Equal(t, 1, o.Count(0))
	assert.Equal(t, 1, o.Count(1))
	assert.Equal(t, "x y z y z", o.Plain())
}

func TestRenderTreatsTextLiterally(t *testing.T) {
	text := "a.b (x|y) a.b (x|y) axb"
	o := Render(text, ranked("a.b (x|y)"))

	assert.Equal(t, 2, o.Count(0))
	assert.Equal(t, text, o.Plain())
}

func TestHTML(t *testing.T) {
	o := Render("<b> & <b> &", ranked("<b> &"))

	got := o.HTML()
	assert.Equal(t,
		`<mark style="background:hsl(0 70% 85%)">&lt;b&gt; &amp;</mark> `+
			`<mark style="background:hsl(0 70% 85%)">&lt;b&gt; &amp;</mark>`,
		got)
	assert.Equal(t, 2, strings.Count(got, "<mark"))
	assert.Equal(t, 2, strings.Count(got, "</mark>"))
}

func TestRenderEmpty(t *testing.T) {
	o := Render("", ranked("a b"))
	assert.Equal(t, "", o.Plain())
	assert.True(t, o.Empty())

	o = Render("plain text", nil)
	assert.Equal(t, "plain text", o.HTML())
	assert.True(t, o.Empty())
	assert.Empty(t, o.Marks())
}
