// Package suggest merges remote next-word predictions with completions of the
// word the user is currently typing, and maps hotkeys to the merged list.
//
// A merged list can hold both a whole word and its suffix, e.g. "running" and
// "ning" for the prefix "run". They are different values and both survive
// deduplication. Every accepted suggestion is inserted at the caret and
// nothing typed is replaced, so only the suffix completes the partial word;
// the whole word follows it.
package suggest

// DefaultTopK is the suggestion bound used when settings do not supply one.
const DefaultTopK = 5

// Merger combines a ranked remote list with the typed prefix.
type Merger interface {
	Merge(remote []string, prefix string, topK int) []string
}

// MergeFunc adapts a plain function to Merger.
type MergeFunc func(remote []string, prefix string, topK int) []string

// Merge calls f.
func (f MergeFunc) Merge(remote []string, prefix string, topK int) []string {
	return f(remote, prefix, topK)
}
