package chatService

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"campus-chatbot/internal/api/chat"
	"campus-chatbot/pkg/dialogue"
	"campus-chatbot/pkg/log"
	"campus-chatbot/pkg/response"
)

func (s *chatService) ProcessChat(ctx context.Context, req chat.ChatRequest) (chat.ChatResponse, error) {
	if req.Message == nil {
		return chat.ChatResponse{}, chat.ErrMessageRequired
	}

	message := strings.TrimSpace(*req.Message)
	if message == "" {
		return chat.ChatResponse{}, chat.ErrMessageEmpty
	}
	if utf8.RuneCountInString(message) > s.cfg.MaxMessageLength {
		return chat.ChatResponse{}, s.errTooLong()
	}

	sessionID, err := s.sessionID(req.SessionID)
	if err != nil {
		return chat.ChatResponse{}, err
	}

	sess := s.sessions.getOrCreate(sessionID, s.now())

	sess.mu.Lock()
	result := sess.engine.ProcessTurn(ctx, message)
	sess.meta.LastActive = s.now()
	sess.meta.Turns++
	sess.mu.Unlock()

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"session_id": sessionID,
		"intent":     result.Intent,
		"confidence": result.Confidence,
		"method":     result.Method,
	}).Info("[chatService.ProcessChat] turn processed")

	resp := chat.ChatResponse{
		Success:           true,
		Intent:            result.Intent,
		Confidence:        result.Confidence,
		Response:          result.Response,
		Method:            result.Method,
		ModelAvailable:    s.factory.ClassifierAvailable,
		IntentsCount:      s.factory.Intents.Len(),
		ExpectingFollowup: result.ExpectingFollowup,
		CurrentTopic:      optional(result.CurrentTopic),
		SessionID:         sessionID,
		Timestamp:         result.Timestamp.Format(time.RFC3339Nano),
	}

	if result.Confidence < s.cfg.SuggestionThreshold {
		resp.Suggestions = s.suggester.Suggest(result.Intent, message, s.cfg.SuggestionLimit)
	}

	return resp, nil
}

func (s *chatService) GetHistory(ctx context.Context, query chat.HistoryQuery) (chat.HistoryResponse, error) {
	sessionID, err := s.sessionID(query.SessionID)
	if err != nil {
		return chat.HistoryResponse{}, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = s.cfg.HistoryPageSize
	}

	sess, ok := s.sessions.get(sessionID)
	if !ok {
		if sessionID != DefaultSessionID {
			return chat.HistoryResponse{}, chat.ErrSessionNotFound
		}
		return chat.HistoryResponse{
			Success:   true,
			SessionID: sessionID,
			History:   []chat.HistoryEntry{},
			Context:   contextView(dialogue.Context{}),
		}, nil
	}

	sess.mu.Lock()
	records, total := sess.engine.History(limit)
	current := sess.engine.Context()
	sess.mu.Unlock()

	entries := make([]chat.HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, chat.HistoryEntry{
			Timestamp:  r.Timestamp.Format(time.RFC3339Nano),
			User:       r.User,
			Bot:        r.Bot,
			Intent:     r.Intent,
			Confidence: r.Confidence,
			Method:     r.Method,
			Context:    contextView(r.Context),
		})
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"session_id": sessionID,
		"returned":   len(entries),
		"total":      total,
	}).Debug("[chatService.GetHistory] history read")

	return chat.HistoryResponse{
		Success:       true,
		SessionID:     sessionID,
		History:       entries,
		TotalMessages: total,
		Context:       contextView(current),
	}, nil
}

func (s *chatService) ResetChat(ctx context.Context, sessionID string) (chat.ResetResponse, error) {
	id, err := s.sessionID(sessionID)
	if err != nil {
		return chat.ResetResponse{}, err
	}

	sess, ok := s.sessions.get(id)
	if !ok && id != DefaultSessionID {
		return chat.ResetResponse{}, chat.ErrSessionNotFound
	}

	if ok {
		sess.mu.Lock()
		sess.engine.Reset()
		sess.meta.LastActive = s.now()
		sess.mu.Unlock()
	}

	log.WithRequestID(ctx).WithFields(logrus.Fields{
		"session_id": id,
	}).Info("[chatService.ResetChat] conversation reset")

	return chat.ResetResponse{
		Success:   true,
		Message:   "Chat history berhasil direset.",
		SessionID: id,
	}, nil
}

func (s *chatService) Health(ctx context.Context) chat.HealthResponse {
	return chat.HealthResponse{
		Success:           true,
		Status:            "healthy",
		Service:           ServiceName,
		ModelLoaded:       s.factory.ClassifierAvailable,
		IntentsLoaded:     s.factory.Intents.Len(),
		ConversationFlows: s.factory.Flows.Len(),
		ActiveSessions:    s.sessions.count(),
		Timestamp:         s.now().Format(time.RFC3339Nano),
	}
}

func (s *chatService) ListIntents(ctx context.Context) chat.IntentsResponse {
	all := s.factory.Intents.All()
	summaries := make([]chat.IntentSummary, 0, len(all))
	for _, intent := range all {
		summaries = append(summaries, chat.IntentSummary{
			Tag:       intent.Tag,
			Patterns:  len(intent.Patterns),
			Responses: len(intent.Responses),
			HasFlow:   s.factory.Flows.Has(intent.Tag),
		})
	}

	return chat.IntentsResponse{
		Success:      true,
		TotalIntents: len(summaries),
		Intents:      summaries,
	}
}

func (s *chatService) Info(ctx context.Context) chat.InfoResponse {
	mode := ModeRuleBased
	if s.factory.ClassifierAvailable {
		mode = ModeHybrid
	}

	return chat.InfoResponse{
		Success:        true,
		Service:        ServiceName,
		Version:        ServiceVersion,
		Mode:           mode,
		ModelAvailable: s.factory.ClassifierAvailable,
		IntentsCount:   s.factory.Intents.Len(),
		ActiveSessions: s.sessions.count(),
		Uptime:         s.now().Sub(s.started).Round(time.Second).String(),
		FlowTopics:     s.factory.Flows.Tags(),
		Endpoints: []string{
			"POST /api/chat",
			"GET /api/chat/history",
			"POST /api/chat/reset",
			"GET /api/chat/ws",
			"GET /api/health",
			"GET /api/intents",
			"GET /api/info",
			"GET /metrics",
		},
	}
}

func (s *chatService) sessionID(id string) (string, error) {
	if id == "" {
		return DefaultSessionID, nil
	}
	if !s.utils.ValidSessionID(id) {
		return "", chat.ErrInvalidSession
	}
	return id, nil
}

func (s *chatService) errTooLong() error {
	return response.NewReplyError(400, "Message too long",
		fmt.Sprintf(dialogue.MessageTooLong, s.cfg.MaxMessageLength))
}

func contextView(c dialogue.Context) chat.ContextView {
	userData := c.UserData
	if userData == nil {
		userData = map[string]any{}
	}
	return chat.ContextView{
		CurrentTopic:      optional(c.CurrentTopic),
		LastIntent:        optional(c.LastIntent),
		ExpectingFollowup: c.ExpectingFollowup,
		FollowupStep:      c.FollowupStep,
		UserData:          userData,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
