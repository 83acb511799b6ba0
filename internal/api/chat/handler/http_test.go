package chatHandler

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-chatbot/internal/api/chat"
	chatService "campus-chatbot/internal/api/chat/service"
	"campus-chatbot/internal/middleware"
	"campus-chatbot/pkg/dialogue"
	"campus-chatbot/pkg/nlp"
	"campus-chatbot/pkg/response"
	"campus-chatbot/pkg/utils"
)

func newTestHandler(t *testing.T) *ChatHandler {
	t.Helper()
	logger, _ := test.NewNullLogger()

	intents, err := nlp.NewIntentTable([]nlp.Intent{
		{Tag: "greeting", Patterns: []string{"halo"}, Responses: []string{"Halo! Ada yang bisa saya bantu?"}},
		{Tag: "asrama_mahasiswa", Patterns: []string{"biaya asrama", "berapa biaya asrama"}, Responses: []string{"Asrama tersedia."}},
		{Tag: "jadwal_kuliah", Patterns: []string{"jadwal kuliah semester"}, Responses: []string{"Jadwal ada di portal akademik."}},
	})
	require.NoError(t, err)

	flows, err := dialogue.NewFlowTable(dialogue.DefaultFlows())
	require.NoError(t, err)

	matcher := nlp.NewRuleMatcher(nlp.NewPatternIndex(intents), nlp.DefaultKeywordRules(), nlp.DefaultMatcherConfig())
	factory := &dialogue.Factory{
		Resolver: nlp.NewResolver(matcher, nil, intents, nlp.DefaultResolverConfig(), logger),
		Intents:  intents,
		Flows:    flows,
		Config:   dialogue.DefaultConfig(),
		Logger:   logger,
	}

	svc := chatService.NewChatService(logger, factory, utils.New(), chatService.Config{
		HistoryPageSize:     20,
		MaxMessageLength:    500,
		SuggestionThreshold: 0.4,
		SuggestionLimit:     3,
	})

	return New(logger, validator.New(), middleware.New(logger, middleware.DefaultConfig()), svc)
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	h := newTestHandler(t)

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		JSONDecoder: jsoniter.Unmarshal,
	})
	app.Use(h.middleware.NewRequestIDMiddleware())
	h.Start(app.Group("/api"))
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request, out interface{}) *http.Response {
	t.Helper()
	resp, err := app.Test(req, int((5 * time.Second).Milliseconds()))
	require.NoError(t, err)

	if out != nil {
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, jsoniter.Unmarshal(body, out), string(body))
	}
	return resp
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestChat(t *testing.T) {
	app := newTestApp(t)

	t.Run("flow turn", func(t *testing.T) {
		var body chat.ChatResponse
		resp := do(t, app, postJSON("/api/chat", `{"message":"berapa biaya asrama","session_id":"mhs-1"}`), &body)

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		assert.True(t, body.Success)
		assert.Equal(t, "asrama_mahasiswa", body.Intent)
		assert.True(t, body.ExpectingFollowup)
		assert.Equal(t, "mhs-1", body.SessionID)
	})

	t.Run("session from header", func(t *testing.T) {
		req := postJSON("/api/chat", `{"message":"jadwal kuliah semester"}`)
		req.Header.Set(middleware.SessionHeader, "mhs-header")

		var body chat.ChatResponse
		resp := do(t, app, req, &body)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "mhs-header", body.SessionID)
		assert.Equal(t, "mhs-header", resp.Header.Get(middleware.SessionHeader))
	})

	t.Run("missing message", func(t *testing.T) {
		var body response.Envelope
		resp := do(t, app, postJSON("/api/chat", `{}`), &body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.False(t, body.Success)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		assert.Equal(t, chat.ReplyInvalidMessage, body.Reply)
	})

	t.Run("blank message", func(t *testing.T) {
		var body response.Envelope
		resp := do(t, app, postJSON("/api/chat", `{"message":"   "}`), &body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Pesan tidak boleh kosong.", body.Reply)
	})

	t.Run("malformed json", func(t *testing.T) {
		resp := do(t, app, postJSON("/api/chat", `{"message":`), nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed session header", func(t *testing.T) {
		req := postJSON("/api/chat", `{"message":"halo"}`)
		req.Header.Set(middleware.SessionHeader, "bad id!")

		var body response.Envelope
		resp := do(t, app, req, &body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_SESSION", body.Code)
	})
}

func TestHistoryAndReset(t *testing.T) {
	app := newTestApp(t)

	do(t, app, postJSON("/api/chat", `{"message":"jadwal kuliah semester","session_id":"mhs-2"}`), nil)
	do(t, app, postJSON("/api/chat", `{"message":"berapa biaya asrama","session_id":"mhs-2"}`), nil)

	var history chat.HistoryResponse
	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/chat/history?session_id=mhs-2&limit=1", nil), &history)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, history.TotalMessages)
	require.Len(t, history.History, 1)
	assert.Equal(t, "berapa biaya asrama", history.History[0].User)
	require.NotNil(t, history.Context.CurrentTopic)
	assert.Equal(t, "asrama_mahasiswa", *history.Context.CurrentTopic)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/chat/history?session_id=mhs-2&limit=500", nil), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/chat/history?session_id=nobody", nil), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var reset chat.ResetResponse
	resp = do(t, app, postJSON("/api/chat/reset", `{"session_id":"mhs-2"}`), &reset)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, reset.Success)

	history = chat.HistoryResponse{}
	do(t, app, httptest.NewRequest(http.MethodGet, "/api/chat/history?session_id=mhs-2", nil), &history)
	assert.Empty(t, history.History)
	assert.Zero(t, history.TotalMessages)

	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/api/chat/reset", nil), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestInfoEndpoints(t *testing.T) {
	app := newTestApp(t)

	var health chat.HealthResponse
	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil), &health)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 3, health.IntentsLoaded)

	var intents chat.IntentsResponse
	do(t, app, httptest.NewRequest(http.MethodGet, "/api/intents", nil), &intents)
	assert.Equal(t, 3, intents.TotalIntents)

	var info chat.InfoResponse
	do(t, app, httptest.NewRequest(http.MethodGet, "/api/info", nil), &info)
	assert.Equal(t, chatService.ServiceVersion, info.Version)
	assert.Contains(t, info.Endpoints, "POST /api/chat")
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/chat/ws", nil), nil)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestProcessFrame(t *testing.T) {
	h := newTestHandler(t)

	t.Run("bad frame", func(t *testing.T) {
		reply, ok := h.processFrame([]byte("not json"), "").(chat.WSError)
		require.True(t, ok)
		assert.False(t, reply.Success)
		assert.Equal(t, chat.ReplyInvalidMessage, reply.Response)
	})

	t.Run("missing message", func(t *testing.T) {
		reply, ok := h.processFrame([]byte(`{"session_id":"ws-1"}`), "").(chat.WSError)
		require.True(t, ok)
		assert.Contains(t, reply.Error, "Validation failed")
	})

	t.Run("blank message", func(t *testing.T) {
		reply, ok := h.processFrame([]byte(`{"message":" "}`), "ws-1").(chat.WSError)
		require.True(t, ok)
		assert.Equal(t, "Pesan tidak boleh kosong.", reply.Response)
	})

	t.Run("connection session is used", func(t *testing.T) {
		reply, ok := h.processFrame([]byte(`{"message":"berapa biaya asrama"}`), "ws-conn").(chat.ChatResponse)
		require.True(t, ok)
		assert.Equal(t, "ws-conn", reply.SessionID)
		assert.Equal(t, "asrama_mahasiswa", reply.Intent)

		next, ok := h.processFrame([]byte(`{"message":"biaya"}`), "ws-conn").(chat.ChatResponse)
		require.True(t, ok)
		assert.Contains(t, next.Response, "Biaya Asrama")
		assert.False(t, next.ExpectingFollowup)
	})
}
