package ingredient

import "strings"

// KeywordSet is an ordered, duplicate-free list of additive keywords.
// It is built once from configuration and never mutated afterwards.
type KeywordSet struct {
	words []string
}

// NewKeywordSet builds a KeywordSet from raw configuration values.
// Values are trimmed; empty values and repeats are dropped so that a blank
// entry cannot turn the gate into "accept everything".
func NewKeywordSet(words []string) KeywordSet {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return KeywordSet{words: out}
}

// Words returns a copy of the keywords in configuration order.
func (k KeywordSet) Words() []string {
	out := make([]string, len(k.words))
	copy(out, k.words)
	return out
}

// Len returns the number of keywords.
func (k KeywordSet) Len() int {
	return len(k.words)
}

// Match returns the first keyword contained in phrase, if any.
func (k KeywordSet) Match(phrase string) (string, bool) {
	for _, w := range k.words {
		if strings.Contains(phrase, w) {
			return w, true
		}
	}
	return "", false
}
