package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"only whitespace", " \t\n  ", []string{}},
		{"padded", "  a  b ", []string{"a", "b"}},
		{"newlines and tabs", "one\ttwo\nthree", []string{"one", "two", "three"}},
		{"punctuation stays attached", "hi, there.", []string{"hi,", "there."}},
		{"unicode", "héllo  wörld", []string{"héllo", "wörld"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestTokensIsRestartable(t *testing.T) {
	seq := Tokens("x y z")
	var first, second []string
	for tok := range seq {
		first = append(first, tok)
	}
	for tok := range seq {
		second = append(second, tok)
	}
	assert.Equal(t, []string{"x", "y", "z"}, first)
	assert.Equal(t, first, second)
}

func TestTokensStopsEarly(t *testing.T) {
	var got []string
	for tok := range Tokens("a b c d") {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestTypedPrefix(t *testing.T) {
	tests := map[string]string{
		"":               "",
		"the cat":        "cat",
		"the cat ":       "",
		"run":            "run",
		"line one\nfoo":  "foo",
		"tab\tseparated": "separated",
		"done\n":         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TypedPrefix(in), "input %q", in)
	}
}

func TestTrailingWindow(t *testing.T) {
	assert.Equal(t, "c d", TrailingWindow("a b  c d", 2))
	assert.Equal(t, "c d ", TrailingWindow("a b c d  ", 2))
	assert.Equal(t, "a b c", TrailingWindow(" a b c", 0))
	assert.Equal(t, "a b", TrailingWindow("a b", 10))
	assert.Equal(t, "", TrailingWindow("   ", 3))
}
