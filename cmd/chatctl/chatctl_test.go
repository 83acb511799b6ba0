package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-chatbot/pkg/dialogue"
)

const intentsJSON = `{"intents": [
  {"tag": "greeting", "patterns": ["halo"], "responses": ["Halo!"]},
  {"tag": "asrama_mahasiswa", "patterns": ["biaya asrama", "berapa biaya asrama"], "responses": ["Asrama tersedia."]},
  {"tag": "informasi_jurusan", "patterns": ["daftar jurusan"], "responses": ["Ada 12 fakultas."]},
  {"tag": "beasiswa", "patterns": ["info beasiswa"], "responses": ["Beasiswa tersedia."]},
  {"tag": "bus_schedule", "patterns": ["jadwal shuttle"], "responses": ["Shuttle tiap 15 menit."]},
  {"tag": "tanpa_jawaban", "patterns": ["pertanyaan kosong"]}
]}`

func writeConfig(t *testing.T, intents string, extra string) string {
	t.Helper()
	dir := t.TempDir()

	intentsPath := filepath.Join(dir, "intents.json")
	require.NoError(t, os.WriteFile(intentsPath, []byte(intents), 0o600))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("intents_path: %s\nflows_path: \"\"\n%s", intentsPath, extra)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestAsk(t *testing.T) {
	cfg := writeConfig(t, intentsJSON, "")

	t.Run("args share one conversation", func(t *testing.T) {
		out, err := run(t, "", "--config", cfg, "ask", "berapa biaya asrama", "biaya")
		require.NoError(t, err)
		assert.Contains(t, out, "[asrama_mahasiswa")
		assert.Contains(t, out, "topic=asrama_mahasiswa")
		assert.Contains(t, out, "Biaya Asrama (per semester)")
	})

	t.Run("stdin lines", func(t *testing.T) {
		out, err := run(t, "info beasiswa\n\nberapa biaya asrama\n", "--config", cfg, "ask")
		require.NoError(t, err)
		assert.Contains(t, out, "> info beasiswa")
		assert.NotContains(t, out, "> berapa biaya asrama")
	})

	t.Run("json output", func(t *testing.T) {
		out, err := run(t, "", "--config", cfg, "ask", "--json", "xyzzy")
		require.NoError(t, err)

		var res dialogue.TurnResult
		require.NoError(t, jsoniter.Unmarshal([]byte(out), &res))
		assert.Equal(t, "unknown", res.Intent)
		assert.Contains(t, dialogue.FallbackResponses, res.Response)
	})
}

func TestValidate(t *testing.T) {
	t.Run("consistent data", func(t *testing.T) {
		out, err := run(t, "", "--config", writeConfig(t, intentsJSON, ""), "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "OK")
		assert.Contains(t, out, `intent "tanpa_jawaban" has no responses`)
		assert.Contains(t, out, "6 intents, 4 flows")
	})

	t.Run("flow without intent", func(t *testing.T) {
		intents := `{"intents": [{"tag": "greeting", "patterns": ["halo"], "responses": ["Halo!"]}]}`
		out, err := run(t, "", "--config", writeConfig(t, intents, ""), "validate")
		require.Error(t, err)
		assert.Contains(t, out, `flow "beasiswa" has no matching intent`)
	})

	t.Run("classifier label outside table", func(t *testing.T) {
		dir := t.TempDir()
		classifier := filepath.Join(dir, "classifier.json")
		require.NoError(t, os.WriteFile(classifier, []byte(`{
  "classes": ["beasiswa", "wisuda"],
  "vocabulary": {"beasiswa": 0},
  "idf": [1.0],
  "coef": [[1.0], [-1.0]],
  "intercept": [0.0, 0.0]
}`), 0o600))

		out, err := run(t, "", "--config", writeConfig(t, intentsJSON, "classifier_path: "+classifier+"\n"), "validate")
		require.Error(t, err)
		assert.Contains(t, out, `classifier label "wisuda"`)
	})

	t.Run("missing intents file", func(t *testing.T) {
		cfg := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("intents_path: /nonexistent/intents.json\n"), 0o600))
		_, err := run(t, "", "--config", cfg, "validate")
		assert.Error(t, err)
	})
}

func TestIntents(t *testing.T) {
	out, err := run(t, "", "--config", writeConfig(t, intentsJSON, ""), "intents")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[0], "TAG")
	assert.Regexp(t, `^asrama_mahasiswa\s+2\s+1\s+yes$`, lines[2])
	assert.Regexp(t, `^tanpa_jawaban\s+1\s+0\s+-$`, lines[6])
}
