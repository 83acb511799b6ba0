package dialogue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"campus-chatbot/pkg/nlp"
)

func testIntents(t *testing.T) *nlp.IntentTable {
	t.Helper()
	table, err := nlp.NewIntentTable([]nlp.Intent{
		{Tag: "greeting", Patterns: []string{"halo", "selamat pagi"}, Responses: []string{"Halo! Ada yang bisa saya bantu?", "Hai, silakan bertanya."}},
		{Tag: "asrama_mahasiswa", Patterns: []string{"biaya asrama", "berapa biaya asrama", "info asrama"}, Responses: []string{"Asrama tersedia."}},
		{Tag: "beasiswa", Patterns: []string{"info beasiswa", "syarat beasiswa"}, Responses: []string{"Beasiswa tersedia."}},
		{Tag: "jadwal_kuliah", Patterns: []string{"jadwal kuliah semester"}, Responses: []string{"Jadwal ada di portal akademik.", "Cek SIAKAD untuk jadwal."}},
		{Tag: "pendaftaran", Patterns: []string{"info pendaftaran kampus"}, Responses: []string{"Pendaftaran dibuka bulan Mei."}},
		{Tag: "pertanyaan_kosong", Patterns: []string{"pertanyaan kosong"}},
	})
	require.NoError(t, err)
	return table
}

func multiStepFlow() Flow {
	return Flow{
		Tag:             "pendaftaran",
		DefaultResponse: "Informasi pendaftaran mahasiswa baru.",
		Steps: []Step{
			{
				Prompt:          "Jalur apa yang Anda minati?",
				Options:         []string{"snbp", "mandiri"},
				OptionResponses: map[string]string{"snbp": "Jalur SNBP berdasarkan rapor.", "mandiri": "Jalur mandiri lewat ujian kampus."},
			},
			{
				Prompt:          "Jenjang apa yang Anda tuju?",
				Options:         []string{"sarjana", "diploma"},
				OptionResponses: map[string]string{"sarjana": "Program sarjana empat tahun."},
			},
		},
	}
}

func testFlows(t *testing.T) *FlowTable {
	t.Helper()
	flows, err := NewFlowTable(append(DefaultFlows(), multiStepFlow()))
	require.NoError(t, err)
	return flows
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	intents := testIntents(t)
	matcher := nlp.NewRuleMatcher(nlp.NewPatternIndex(intents), nlp.DefaultKeywordRules(), nlp.DefaultMatcherConfig())
	resolver := nlp.NewResolver(matcher, nil, intents, nlp.DefaultResolverConfig(), nil)
	return NewEngine(resolver, intents, testFlows(t), cfg, WithRand(rand.New(rand.NewSource(7))))
}
