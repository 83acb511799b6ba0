package nlp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testIntents() []Intent {
	return []Intent{
		{
			Tag:       "greeting",
			Patterns:  []string{"halo", "hai", "selamat pagi"},
			Responses: []string{"Halo! Ada yang bisa saya bantu?"},
		},
		{
			Tag:       "asrama_mahasiswa",
			Patterns:  []string{"biaya asrama", "berapa biaya asrama", "fasilitas asrama", "info asrama"},
			Responses: []string{"Asrama tersedia untuk mahasiswa baru."},
		},
		{
			Tag:       "beasiswa",
			Patterns:  []string{"info beasiswa", "cara daftar beasiswa", "syarat beasiswa"},
			Responses: []string{"Ada beasiswa prestasi dan KIP-Kuliah."},
		},
		{
			Tag:       "facility_hours",
			Patterns:  []string{"jam buka perpustakaan"},
			Responses: []string{"Perpustakaan buka pukul 08.00."},
		},
		{
			Tag:      "tanpa_jawaban",
			Patterns: []string{"pertanyaan tanpa jawaban"},
		},
	}
}

func newTestTable(t *testing.T) *IntentTable {
	t.Helper()
	table, err := NewIntentTable(testIntents())
	require.NoError(t, err)
	return table
}

func newTestMatcher(t *testing.T) *RuleMatcher {
	t.Helper()
	return NewRuleMatcher(NewPatternIndex(newTestTable(t)), DefaultKeywordRules(), DefaultMatcherConfig())
}
