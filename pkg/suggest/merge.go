package suggest

import (
	"github.com/charmbracelet/log"
)

// Merge returns at most topK suggestions.
//
// With an empty prefix the caret follows a finished word and remote is
// returned as is, truncated. Otherwise the completions of prefix found in
// remote are appended after remote and the result is deduplicated.
func Merge(remote []string, prefix string, topK int) []string {
	if topK <= 0 {
		return []string{}
	}
	if prefix == "" {
		n := min(len(remote), topK)
		out := make([]string, n)
		copy(out, remote[:n])
		return out
	}

	extras := NewPrefixIndex(remote).Completions(prefix)
	filter := NewSuggestionFilter(len(remote) + len(extras))
	out := make([]string, 0, topK)

	for _, candidates := range [][]string{remote, extras} {
		for _, w := range candidates {
			if len(out) == topK {
				log.Debugf("merge: prefix=%q remote=%d extras=%d (truncated)", prefix, len(remote), len(extras))
				return out
			}
			if filter.ShouldInclude(w) {
				out = append(out, w)
			}
		}
	}

	log.Debugf("merge: prefix=%q remote=%d extras=%d", prefix, len(remote), len(extras))
	return out
}
