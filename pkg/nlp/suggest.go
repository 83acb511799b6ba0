package nlp

import (
	"sort"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

var DefaultSuggestions = []string{
	"Apa saja jurusan yang ada?",
	"Bagaimana cara daftar beasiswa?",
	"Kapan jadwal kuliah semester depan?",
	"Berapa biaya asrama?",
	"Jam buka perpustakaan?",
}

// Suggester proposes follow-up questions for low-confidence turns.
type Suggester struct {
	table    *IntentTable
	patterns []string
}

func NewSuggester(table *IntentTable) *Suggester {
	var patterns []string
	for _, intent := range table.intents {
		patterns = append(patterns, intent.Patterns...)
	}
	return &Suggester{table: table, patterns: patterns}
}

// Suggest prefers the resolved intent's own patterns, then patterns that
// fuzzy-match the input's longer words, then a fixed default list.
func (s *Suggester) Suggest(tag, text string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	if intent, ok := s.table.Get(tag); ok && len(intent.Patterns) > 0 {
		return head(intent.Patterns, limit)
	}

	if matched := s.fuzzyMatches(text, limit); len(matched) > 0 {
		return matched
	}

	return head(DefaultSuggestions, limit)
}

func (s *Suggester) fuzzyMatches(text string, limit int) []string {
	scores := make(map[int]int)
	for _, token := range Tokenize(text) {
		if utf8.RuneCountInString(token) <= 3 {
			continue
		}
		for _, m := range fuzzy.Find(token, s.patterns) {
			scores[m.Index] += m.Score
		}
	}
	if len(scores) == 0 {
		return nil
	}

	idx := make([]int, 0, len(scores))
	for i := range scores {
		idx = append(idx, i)
	}
	sort.Slice(idx, func(a, b int) bool {
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		return idx[a] < idx[b]
	})

	seen := make(map[string]struct{})
	var out []string
	for _, i := range idx {
		p := s.patterns[i]
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func head(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	return append([]string(nil), items[:n]...)
}
