package suggest

// SuggestionFilter drops repeated suggestions, keeping the first occurrence.
// Comparison is exact; "The" and "the" are different suggestions.
type SuggestionFilter struct {
	seen map[string]struct{}
}

// NewSuggestionFilter creates an empty filter sized for n candidates.
func NewSuggestionFilter(n int) *SuggestionFilter {
	return &SuggestionFilter{seen: make(map[string]struct{}, n)}
}

// ShouldInclude reports whether word has not been seen yet and records it.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	if _, dup := f.seen[word]; dup {
		return false
	}
	f.seen[word] = struct{}{}
	return true
}
