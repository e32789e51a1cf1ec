package suggest

import "strconv"

// TabKey is the default accept key.
const TabKey = "Tab"

// MaxHotkeys is the number of suggestions reachable by Ctrl/Cmd + digit.
const MaxHotkeys = 5

// Hotkeys maps key presses to suggestion slots. Accept takes the top
// suggestion with or without a modifier; Ctrl/Cmd + 1..5 take slots 0..4.
type Hotkeys struct {
	Accept string
}

// NewHotkeys returns the table for the configured accept key.
func NewHotkeys(accept string) Hotkeys {
	if accept == "" {
		accept = TabKey
	}
	return Hotkeys{Accept: accept}
}

// Index maps a key press to a suggestion index. mod reports whether Ctrl or
// Cmd was held.
func (h Hotkeys) Index(key string, mod bool) (int, bool) {
	if key == h.Accept {
		return 0, true
	}
	if !mod {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > MaxHotkeys {
		return 0, false
	}
	return n - 1, true
}

// Labels returns the display label of each slot in order.
func (h Hotkeys) Labels() []string {
	labels := []string{h.Accept}
	for i := 1; i < MaxHotkeys; i++ {
		labels = append(labels, "Ctrl+"+strconv.Itoa(i+1))
	}
	return labels
}

// Insertion returns the text to insert at the caret when the suggestion at
// index is accepted. The typed prefix is left in place.
func Insertion(list []string, index int) (string, bool) {
	if index < 0 || index >= len(list) {
		return "", false
	}
	return list[index] + " ", true
}

// ChunkInsertion returns the text inserted when a chunk is picked.
func ChunkInsertion(text string) string {
	return text + " "
}
