package suggest

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

type completion struct {
	suffix string
	rank   int
}

// PrefixIndex indexes a ranked word list by prefix.
// Each word keeps the rank of its first occurrence.
type PrefixIndex struct {
	trie *patricia.Trie
}

// NewPrefixIndex builds an index over words, ranked by position.
func NewPrefixIndex(words []string) *PrefixIndex {
	trie := patricia.NewTrie()
	for rank, w := range words {
		// Insert keeps the existing item, so repeats retain their best rank.
		trie.Insert(patricia.Prefix(w), rank)
	}
	return &PrefixIndex{trie: trie}
}

// Completions returns the remainder of every indexed word that starts with
// prefix, excluding the prefix itself, ordered by the words' rank.
func (idx *PrefixIndex) Completions(prefix string) []string {
	var found []completion

	err := idx.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		if word == prefix {
			return nil
		}
		rank, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for word %s", item, word)
			return nil
		}
		found = append(found, completion{suffix: word[len(prefix):], rank: rank})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].rank < found[j].rank
	})

	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.suffix
	}
	return out
}
