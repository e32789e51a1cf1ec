// Package tokenize splits buffer snapshots into whitespace-delimited tokens.
//
// Every function here is pure: it reads the snapshot it is given and keeps no
// state between calls, so the miner and the merger can call it on each edit.
package tokenize

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokens yields the maximal non-whitespace runs of text in order.
// Whitespace-only or empty text yields nothing.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		for i, r := range text {
			if unicode.IsSpace(r) {
				if start >= 0 {
					if !yield(text[start:i]) {
						return
					}
					start = -1
				}
				continue
			}
			if start < 0 {
				start = i
			}
		}
		if start >= 0 {
			yield(text[start:])
		}
	}
}

// Tokenize collects Tokens into a slice. It never returns nil.
func Tokenize(text string) []string {
	tokens := make([]string, 0, strings.Count(text, " ")+1)
	for tok := range Tokens(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// EndsInSpace reports whether the last rune of text is whitespace.
func EndsInSpace(text string) bool {
	r, size := utf8.DecodeLastRuneInString(text)
	return size > 0 && unicode.IsSpace(r)
}

// TypedPrefix returns the word the caret is currently inside of, assuming the
// caret sits at the end of text. It is empty when text is empty or the last
// word has already been finished with whitespace.
func TypedPrefix(text string) string {
	if text == "" || EndsInSpace(text) {
		return ""
	}
	idx := strings.LastIndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text
	}
	_, size := utf8.DecodeRuneInString(text[idx:])
	return text[idx+size:]
}

// TrailingWindow returns the last n tokens of text joined by single spaces.
// A trailing space is kept when text ends in whitespace so a finished word
// stays distinguishable from a partial one. n <= 0 keeps every token.
func TrailingWindow(text string, n int) string {
	tokens := Tokenize(text)
	if n > 0 && len(tokens) > n {
		tokens = tokens[len(tokens)-n:]
	}
	window := strings.Join(tokens, " ")
	if window != "" && EndsInSpace(text) {
		window += " "
	}
	return window
}
