package dialogue

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"campus-chatbot/pkg/nlp"
)

func TestEngine_Greeting(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	res := e.ProcessTurn(context.Background(), "halo")
	assert.Equal(t, MethodGreeting, res.Method)
	assert.Equal(t, GreetingTag, res.Intent)
	assert.GreaterOrEqual(t, res.Confidence, 0.9)
	assert.False(t, res.ExpectingFollowup)
	assert.Contains(t, []string{"Halo! Ada yang bisa saya bantu?", "Hai, silakan bertanya."}, res.Response)

	_, total := e.History(10)
	assert.Zero(t, total)
}

func TestEngine_LongGreetingGoesToResolver(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	res := e.ProcessTurn(context.Background(), "halo, berapa biaya asrama per semester?")
	assert.Equal(t, "asrama_mahasiswa", res.Intent)
	assert.Equal(t, string(nlp.MethodRule), res.Method)
}

func TestEngine_FlowScenario(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	ctx := context.Background()

	res := e.ProcessTurn(ctx, "berapa biaya asrama")
	assert.Equal(t, "asrama_mahasiswa", res.Intent)
	assert.Equal(t, string(nlp.MethodRule), res.Method)
	assert.True(t, res.ExpectingFollowup)
	assert.Equal(t, "asrama_mahasiswa", res.CurrentTopic)

	flow, _ := e.controller.flows.Get("asrama_mahasiswa")
	want := flow.DefaultResponse + "\n\nApakah Anda ingin tahu tentang biaya asrama atau fasilitas?\n(Opsi: biaya, fasilitas, pendaftaran, semua)"
	assert.Equal(t, want, res.Response)

	res = e.ProcessTurn(ctx, "biaya")
	assert.Equal(t, "asrama_mahasiswa", res.Intent)
	assert.True(t, strings.HasPrefix(res.Response, flow.Steps[0].OptionResponses["biaya"]))
	assert.True(t, strings.HasSuffix(res.Response, FlowClosing))
	assert.False(t, res.ExpectingFollowup)
	assert.Empty(t, res.CurrentTopic)

	res = e.ProcessTurn(ctx, "xyzzy plugh quux")
	assert.Equal(t, nlp.UnknownTag, res.Intent)
	assert.InDelta(t, 0.2, res.Confidence, 1e-9)
	assert.Equal(t, string(nlp.MethodNone), res.Method)
	assert.Contains(t, FallbackResponses, res.Response)

	records, total := e.History(10)
	assert.Equal(t, 3, total)
	require.Len(t, records, 3)
	assert.Equal(t, "berapa biaya asrama", records[0].User)
	assert.True(t, records[0].Context.ExpectingFollowup)
	assert.False(t, records[1].Context.ExpectingFollowup)
}

func TestEngine_ExitDuringFlow(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	ctx := context.Background()

	e.ProcessTurn(ctx, "info beasiswa")
	require.True(t, e.Context().ExpectingFollowup)

	res := e.ProcessTurn(ctx, "sudah cukup, terima kasih")
	assert.Equal(t, MethodExit, res.Method)
	assert.Equal(t, GreetingTag, res.Intent)
	assert.Equal(t, ExitAcknowledgement, res.Response)
	assert.False(t, res.ExpectingFollowup)
	assert.Empty(t, res.CurrentTopic)
}

func TestEngine_ExitKeywordOutsideFlowIsOrdinary(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	res := e.ProcessTurn(context.Background(), "jadwal kuliah semester sudah keluar?")
	assert.Equal(t, "jadwal_kuliah", res.Intent)
	assert.NotEqual(t, MethodExit, res.Method)
}

func TestEngine_EmptyAndTooLong(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMessageLength = 10
	e := newTestEngine(t, cfg)

	res := e.ProcessTurn(context.Background(), "   \t ")
	assert.Equal(t, PromptForInput, res.Response)
	assert.Equal(t, EmptyTag, res.Intent)
	assert.Zero(t, res.Confidence)
	assert.Equal(t, string(nlp.MethodRule), res.Method)

	res = e.ProcessTurn(context.Background(), "pesan yang terlalu panjang")
	assert.True(t, res.Rejected)
	assert.Equal(t, "Pesan terlalu panjang. Maksimal 10 karakter.", res.Response)

	_, total := e.History(10)
	assert.Zero(t, total)
}

func TestEngine_KnownTagWithoutResponses(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	res := e.ProcessTurn(context.Background(), "ini pertanyaan kosong")
	assert.Equal(t, nlp.UnknownTag, res.Intent)
	assert.InDelta(t, 0.3, res.Confidence, 1e-9)
	assert.Contains(t, FallbackResponses, res.Response)
}

func TestEngine_InconsistentFlowFallsBackToIdle(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	e.state = Context{CurrentTopic: "hilang", ExpectingFollowup: true, LastIntent: "hilang"}

	res := e.ProcessTurn(context.Background(), "berapa biaya asrama")
	assert.Equal(t, "asrama_mahasiswa", res.Intent)
	assert.True(t, res.ExpectingFollowup)
	assert.Equal(t, "asrama_mahasiswa", res.CurrentTopic)
}

func TestEngine_HistoryEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryCapacity = 3
	e := newTestEngine(t, cfg)

	for i := 0; i < 5; i++ {
		e.ProcessTurn(context.Background(), "xyzzy plugh quux")
	}

	records, total := e.History(0)
	assert.Len(t, records, 3)
	assert.Equal(t, 5, total)
}

var turnVocabulary = []string{
	"halo", "berapa biaya asrama", "biaya", "fasilitas", "info beasiswa", "prestasi", "syarat",
	"sudah", "stop", "xyzzy", "jadwal kuliah semester", "info pendaftaran kampus", "snbp", "sarjana",
	"shuttle bus", "rute", "fakultas", "teknik", "pertanyaan kosong", "12345", "   ",
}

// TestProperty11_ResetIsIdempotent verifies that reset returns the engine to
// the initial state regardless of what happened before.
func TestProperty11_ResetIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEngine(t, DefaultConfig())
		inputs := rapid.SliceOfN(rapid.SampledFrom(turnVocabulary), 0, 20).Draw(rt, "inputs")
		for _, in := range inputs {
			e.ProcessTurn(context.Background(), in)
		}

		e.Reset()
		if rapid.Bool().Draw(rt, "reset_twice") {
			e.Reset()
		}

		if got := e.Context(); got.ExpectingFollowup || got.CurrentTopic != "" || got.FollowupStep != 0 || got.LastIntent != "" || got.UserData != nil {
			rt.Fatalf("context after reset = %+v", got)
		}
		if records, total := e.History(0); len(records) != 0 || total != 0 {
			rt.Fatalf("history after reset: %d records, total %d", len(records), total)
		}
	})
}

// TestProperty12_EveryTurnAnswers verifies that non-empty input always yields
// a non-empty response and a reportable intent.
func TestProperty12_EveryTurnAnswers(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEngine(t, DefaultConfig())
		known := e.intents

		inputs := rapid.SliceOfN(rapid.SampledFrom(turnVocabulary), 1, 20).Draw(rt, "inputs")
		for _, in := range inputs {
			res := e.ProcessTurn(context.Background(), in)
			if strings.TrimSpace(in) == "" {
				continue
			}
			if res.Response == "" {
				rt.Fatalf("empty response for %q", in)
			}
			if res.Intent != nlp.UnknownTag && !known.Has(res.Intent) && !e.controller.HasFlow(res.Intent) {
				rt.Fatalf("intent %q for %q is neither known nor unknown", res.Intent, in)
			}
		}
	})
}

// TestProperty13_FlowCompletionReachable verifies that answering every step
// with one of its options ends the flow.
func TestProperty13_FlowCompletionReachable(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEngine(t, DefaultConfig())
		entry := rapid.SampledFrom([]string{"berapa biaya asrama", "info beasiswa", "info pendaftaran kampus"}).Draw(rt, "entry")

		res := e.ProcessTurn(context.Background(), entry)
		if !res.ExpectingFollowup {
			rt.Fatalf("%q did not enter a flow", entry)
		}

		flow, _ := e.controller.flows.Get(res.CurrentTopic)
		for i, step := range flow.Steps {
			opt := rapid.SampledFrom(step.Options).Draw(rt, "option")
			res = e.ProcessTurn(context.Background(), opt)
			last := i == len(flow.Steps)-1
			if res.ExpectingFollowup == last {
				rt.Fatalf("step %d of %s: expecting_followup = %v", i, flow.Tag, res.ExpectingFollowup)
			}
		}
	})
}

// TestProperty14_UnrecognizedReplyReprompts verifies that a reply matching no
// option leaves the flow position untouched and repeats the prompt.
func TestProperty14_UnrecognizedReplyReprompts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEngine(t, DefaultConfig())
		e.ProcessTurn(context.Background(), "info pendaftaran kampus")
		before := e.Context()

		reply := rapid.StringMatching(`[0-9]{1,12}`).Draw(rt, "reply")
		res := e.ProcessTurn(context.Background(), reply)

		after := e.Context()
		if after.FollowupStep != before.FollowupStep || after.CurrentTopic != before.CurrentTopic {
			rt.Fatalf("position moved from %+v to %+v", before, after)
		}
		if !strings.HasPrefix(res.Response, "Jalur apa yang Anda minati?\n\nOpsi: ") {
			rt.Fatalf("unexpected reprompt %q", res.Response)
		}
	})
}

// TestProperty15_ExitLeavesFlowInOneTurn verifies that any exit keyword while
// in a flow returns to idle immediately.
func TestProperty15_ExitLeavesFlowInOneTurn(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newTestEngine(t, DefaultConfig())
		entry := rapid.SampledFrom([]string{"berapa biaya asrama", "info beasiswa", "info pendaftaran kampus"}).Draw(rt, "entry")
		e.ProcessTurn(context.Background(), entry)

		keyword := rapid.SampledFrom(ExitKeywords).Draw(rt, "keyword")
		noise := rapid.SampledFrom([]string{"", "biaya ", "prestasi ", "snbp "}).Draw(rt, "noise")

		res := e.ProcessTurn(context.Background(), noise+keyword)
		if res.Method != MethodExit || res.ExpectingFollowup || res.CurrentTopic != "" {
			rt.Fatalf("exit via %q gave %+v", noise+keyword, res)
		}
	})
}
