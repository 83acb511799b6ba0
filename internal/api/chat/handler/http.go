package chatHandler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	chatService "campus-chatbot/internal/api/chat/service"
	"campus-chatbot/internal/middleware"
)

type ChatHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	chatService chatService.IChatService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	chatService chatService.IChatService,
) *ChatHandler {
	return &ChatHandler{
		log:         log,
		validator:   validate,
		middleware:  middleware,
		chatService: chatService,
	}
}

func (h *ChatHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	chat := srv.Group("/chat")
	chat.Post("", h.middleware.NewRateLimiter, h.middleware.NewSessionMiddleware, h.Chat)
	chat.Get("/history", h.middleware.NewSessionMiddleware, h.GetHistory)
	chat.Post("/reset", h.middleware.NewSessionMiddleware, h.ResetChat)
	chat.Use("/ws", wsMiddleware)
	chat.Get("/ws", websocket.New(h.handleWebSocket))

	srv.Get("/health", h.Health)
	srv.Get("/intents", h.ListIntents)
	srv.Get("/info", h.Info)
}
