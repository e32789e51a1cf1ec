package suggest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		remote []string
		prefix string
		topK   int
		want   []string
	}{
		{
			name:   "empty prefix returns remote",
			remote: []string{"cat", "dog"},
			want:   []string{"cat", "dog"},
		},
		{
			name:   "empty prefix truncates without dedup",
			remote: []string{"a", "a", "b", "c"},
			topK:   3,
			want:   []string{"a", "a", "b"},
		},
		{
			name:   "prefix adds stripped completions",
			remote: []string{"running", "rug"},
			prefix: "run",
			want:   []string{"running", "rug", "ning"},
		},
		{
			name:   "exact prefix match is not an extra",
			remote: []string{"run", "runner"},
			prefix: "run",
			want:   []string{"run", "runner", "ner"},
		},
		{
			name:   "extras follow remote rank not lexical order",
			remote: []string{"then", "the", "there", "their"},
			prefix: "the",
			want:   []string{"then", "the", "there", "their", "n"},
		},
		{
			name:   "duplicates collapse",
			remote: []string{"go", "go", "gone"},
			prefix: "x",
			want:   []string{"go", "gone"},
		},
		{
			name:   "extra colliding with a remote word is dropped",
			remote: []string{"ing", "bring"},
			prefix: "br",
			want:   []string{"ing", "bring"},
		},
		{
			name:   "no remote words",
			remote: nil,
			prefix: "ab",
			want:   []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topK := tt.topK
			if topK == 0 {
				topK = DefaultTopK
			}
			assert.Equal(t, tt.want, Merge(tt.remote, tt.prefix, topK))
		})
	}
}

func TestMergeBound(t *testing.T) {
	var remote []string
	for i := range 40 {
		remote = append(remote, fmt.Sprintf("pre%02d", i))
	}
	for _, k := range []int{0, 1, 3, 5, 39, 40, 100} {
		got := Merge(remote, "pre", k)
		assert.LessOrEqual(t, len(got), k)
		got = Merge(remote, "", k)
		assert.LessOrEqual(t, len(got), k)
	}
	assert.Len(t, Merge(remote, "pre", 60), 60)
}

func TestMergeDoesNotAliasInput(t *testing.T) {
	remote := []string{"a", "b"}
	got := Merge(remote, "", 5)
	got[0] = "z"
	assert.Equal(t, "a", remote[0])
}

func TestPrefixIndexCompletions(t *testing.T) {
	idx := NewPrefixIndex([]string{"zebra", "apple", "app", "apply", "apple"})
	assert.Equal(t, []string{"le", "ly"}, idx.Completions("app"))
	assert.Empty(t, idx.Completions("q"))
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter(2)
	assert.True(t, f.ShouldInclude("The"))
	assert.True(t, f.ShouldInclude("the"))
	assert.False(t, f.ShouldInclude("the"))
}

func TestHotkeys(t *testing.T) {
	h := NewHotkeys("")
	tests := []struct {
		key  string
		mod  bool
		want int
		ok   bool
	}{
		{"Tab", false, 0, true},
		{"Tab", true, 0, true},
		{"1", true, 0, true},
		{"3", true, 2, true},
		{"5", true, 4, true},
		{"6", true, 0, false},
		{"0", true, 0, false},
		{"2", false, 0, false},
		{"r", true, 0, false},
	}
	for _, tt := range tests {
		got, ok := h.Index(tt.key, tt.mod)
		assert.Equal(t, tt.ok, ok, "key %q mod %v", tt.key, tt.mod)
		assert.Equal(t, tt.want, got, "key %q mod %v", tt.key, tt.mod)
	}
	assert.Equal(t, []string{"Tab", "Ctrl+2", "Ctrl+3", "Ctrl+4", "Ctrl+5"}, h.Labels())

	custom := NewHotkeys("Enter")
	i, ok := custom.Index("Enter", false)
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	_, ok = custom.Index("Tab", false)
	assert.False(t, ok)
}

func TestInsertion(t *testing.T) {
	list := []string{"cat", "dog"}
	s, ok := Insertion(list, 1)
	assert.True(t, ok)
	assert.Equal(t, "dog ", s)
	_, ok = Insertion(list, 2)
	assert.False(t, ok)
	_, ok = Insertion(list, -1)
	assert.False(t, ok)
	assert.Equal(t, "the cat ", ChunkInsertion("the cat"))
}

func TestInsertionAppendsAfterPrefix(t *testing.T) {
	const typed = "I was run"
	list := Merge([]string{"running"}, "run", DefaultTopK)
	require.Equal(t, []string{"running", "ning"}, list)

	whole, ok := Insertion(list, 0)
	require.True(t, ok)
	suffix, ok := Insertion(list, 1)
	require.True(t, ok)

	assert.Equal(t, "I was runrunning ", typed+whole)
	assert.Equal(t, "I was running ", typed+suffix)
}
