package chatService

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"campus-chatbot/internal/api/chat"
	"campus-chatbot/pkg/dialogue"
	"campus-chatbot/pkg/nlp"
	"campus-chatbot/pkg/utils"
)

const (
	DefaultSessionID = "default"
	ServiceName      = "Chatbot Akademik API"
	ServiceVersion   = "1.0.0"

	ModeRuleBased = "rule_based"
	ModeHybrid    = "hybrid"
)

type IChatService interface {
	ProcessChat(ctx context.Context, req chat.ChatRequest) (chat.ChatResponse, error)
	GetHistory(ctx context.Context, query chat.HistoryQuery) (chat.HistoryResponse, error)
	ResetChat(ctx context.Context, sessionID string) (chat.ResetResponse, error)
	Health(ctx context.Context) chat.HealthResponse
	ListIntents(ctx context.Context) chat.IntentsResponse
	Info(ctx context.Context) chat.InfoResponse
	StartJanitor(ctx context.Context)
}

type Config struct {
	HistoryPageSize     int
	MaxMessageLength    int
	SuggestionThreshold float64
	SuggestionLimit     int
	SessionTTL          time.Duration
	SweepInterval       time.Duration
}

type chatService struct {
	log       *logrus.Logger
	factory   *dialogue.Factory
	suggester *nlp.Suggester
	sessions  *sessionStore
	utils     utils.IUtils
	cfg       Config
	now       func() time.Time
	started   time.Time
}

func NewChatService(log *logrus.Logger, factory *dialogue.Factory, utils utils.IUtils, cfg Config) IChatService {
	return newChatService(log, factory, utils, cfg)
}

func newChatService(log *logrus.Logger, factory *dialogue.Factory, utils utils.IUtils, cfg Config) *chatService {
	return &chatService{
		log:       log,
		factory:   factory,
		suggester: nlp.NewSuggester(factory.Intents),
		sessions:  newSessionStore(factory),
		utils:     utils,
		cfg:       cfg,
		now:       time.Now,
		started:   time.Now(),
	}
}
