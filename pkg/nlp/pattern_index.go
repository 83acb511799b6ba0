package nlp

import "slices"

// PatternIndex holds every intent's patterns in lowercase form, keyed by tag
// and iterated in table order. It is read-only after construction.
type PatternIndex struct {
	tags     []string
	patterns map[string][]string
}

func NewPatternIndex(table *IntentTable) *PatternIndex {
	idx := &PatternIndex{
		tags:     make([]string, 0, table.Len()),
		patterns: make(map[string][]string, table.Len()),
	}

	for _, intent := range table.intents {
		lowered := make([]string, 0, len(intent.Patterns))
		for _, pattern := range intent.Patterns {
			p := Normalize(pattern)
			if p == "" {
				continue
			}
			lowered = append(lowered, p)
		}
		idx.tags = append(idx.tags, intent.Tag)
		idx.patterns[intent.Tag] = lowered
	}

	return idx
}

// PatternsFor returns nil for an unknown tag.
func (p *PatternIndex) PatternsFor(tag string) []string {
	return slices.Clone(p.patterns[tag])
}

func (p *PatternIndex) Tags() []string {
	return slices.Clone(p.tags)
}

func (p *PatternIndex) Len() int {
	return len(p.tags)
}
