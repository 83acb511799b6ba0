package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize is the matching form shared by the rule matcher and the flow
// controller: lowercase with surrounding whitespace trimmed.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// CleanText lowercases, folds accents and turns punctuation into single spaces.
func CleanText(text string) string {
	text = strings.ToLower(text)

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		result = text
	}

	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, result)

	return strings.Join(strings.Fields(result), " ")
}

func Tokenize(text string) []string {
	return strings.Fields(CleanText(text))
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether the normalized text contains any keyword as a substring.
func ContainsAny(text string, keywords []string) bool {
	return containsAny(Normalize(text), keywords)
}
