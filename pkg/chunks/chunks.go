// Package chunks mines a buffer for repeated word sequences.
//
// A chunk is a run of MinLen..MaxLen consecutive tokens. Mine counts every
// window of every length in one table keyed by the joined text, keeps the ones
// seen at least MinCount times and ranks them by count. Counts are rebuilt from
// scratch on each call; nothing survives between edits.
package chunks

import (
	"sort"
	"strings"

	"github.com/bastiangx/lessonpad/pkg/tokenize"
	"github.com/charmbracelet/log"
)

// Chunk is a repeated phrase and the number of times its window occurred.
type Chunk struct {
	Text  string
	Count int
	Len   int
}

// Options bound the window lengths and the shape of the ranked list.
type Options struct {
	MinLen   int `toml:"min_len"`
	MaxLen   int `toml:"max_len"`
	MinCount int `toml:"min_count"`
	TopN     int `toml:"top_n"`
}

// DefaultOptions are the values the chunk panel uses.
func DefaultOptions() Options {
	return Options{
		MinLen:   2,
		MaxLen:   3,
		MinCount: 2,
		TopN:     15,
	}
}

// Mine returns the ranked chunk list for text.
// Equal counts keep the order in which their text was first counted:
// shorter windows first, then earlier offsets.
func Mine(text string, opts Options) []Chunk {
	minLen := max(opts.MinLen, 1)
	maxLen := opts.MaxLen
	minCount := max(opts.MinCount, 1)

	tokens := tokenize.Tokenize(text)
	if len(tokens) < minLen || maxLen < minLen {
		return []Chunk{}
	}

	counts := make(map[string]*Chunk)
	var order []*Chunk

	for n := minLen; n <= maxLen; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			key := strings.Join(tokens[i:i+n], " ")
			if c, ok := counts[key]; ok {
				c.Count++
				continue
			}
			c := &Chunk{Text: key, Count: 1, Len: n}
			counts[key] = c
			order = append(order, c)
		}
	}

	ranked := make([]Chunk, 0, len(order))
	for _, c := range order {
		if c.Count >= minCount {
			ranked = append(ranked, *c)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if opts.TopN > 0 && len(ranked) > opts.TopN {
		ranked = ranked[:opts.TopN]
	}

	log.Debugf("mined %d tokens: %d candidates, %d ranked", len(tokens), len(order), len(ranked))
	return ranked
}

// Texts returns the chunk strings in rank order.
func Texts(ranked []Chunk) []string {
	out := make([]string, len(ranked))
	for i, c := range ranked {
		out[i] = c.Text
	}
	return out
}
