package nlp

import (
	"math"
	"strings"
	"unicode/utf8"
)

type MatcherConfig struct {
	ExactWeight float64
	WordWeight  float64
	// Pattern words of this many runes or fewer never score.
	ShortWordLimit    int
	Threshold         float64
	BaseConfidence    float64
	ConfidenceScale   float64
	ConfidenceCap     float64
	KeywordConfidence float64
	UnknownConfidence float64
}

func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		ExactWeight:       2.0,
		WordWeight:        0.5,
		ShortWordLimit:    3,
		Threshold:         1.0,
		BaseConfidence:    0.6,
		ConfidenceScale:   0.1,
		ConfidenceCap:     0.9,
		KeywordConfidence: 0.8,
		UnknownConfidence: 0.2,
	}
}

type RuleMatcher struct {
	index    *PatternIndex
	keywords []KeywordRule
	cfg      MatcherConfig
}

func NewRuleMatcher(index *PatternIndex, keywords []KeywordRule, cfg MatcherConfig) *RuleMatcher {
	rules := make([]KeywordRule, 0, len(keywords))
	for _, rule := range keywords {
		kw := Normalize(rule.Keyword)
		if kw == "" || rule.Tag == "" {
			continue
		}
		rules = append(rules, KeywordRule{Keyword: kw, Tag: rule.Tag})
	}

	return &RuleMatcher{
		index:    index,
		keywords: rules,
		cfg:      cfg,
	}
}

// Score sums the pattern evidence for a single tag. A pattern found whole
// contributes ExactWeight; otherwise each of its long words found in the
// input contributes WordWeight.
func (m *RuleMatcher) Score(text, tag string) float64 {
	return m.score(Normalize(text), m.index.patterns[tag])
}

func (m *RuleMatcher) score(input string, patterns []string) float64 {
	var total float64
	for _, pattern := range patterns {
		if strings.Contains(input, pattern) {
			total += m.cfg.ExactWeight
			continue
		}
		for _, word := range strings.Fields(pattern) {
			if utf8.RuneCountInString(word) > m.cfg.ShortWordLimit && strings.Contains(input, word) {
				total += m.cfg.WordWeight
			}
		}
	}
	return total
}

// Match returns the best tag and its confidence. Ties go to the tag that
// appears first in the table.
func (m *RuleMatcher) Match(text string) (string, float64) {
	input := Normalize(text)
	if input == "" {
		return UnknownTag, m.cfg.UnknownConfidence
	}

	bestTag := ""
	bestScore := 0.0
	for _, tag := range m.index.tags {
		s := m.score(input, m.index.patterns[tag])
		if s > bestScore {
			bestTag, bestScore = tag, s
		}
	}

	if bestTag != "" && bestScore >= m.cfg.Threshold {
		return bestTag, m.confidence(bestScore)
	}

	for _, rule := range m.keywords {
		if strings.Contains(input, rule.Keyword) {
			return rule.Tag, m.cfg.KeywordConfidence
		}
	}

	return UnknownTag, m.cfg.UnknownConfidence
}

func (m *RuleMatcher) confidence(score float64) float64 {
	return math.Min(m.cfg.BaseConfidence+score*m.cfg.ConfidenceScale, m.cfg.ConfidenceCap)
}
