package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	chatHandler "campus-chatbot/internal/api/chat/handler"
	chatService "campus-chatbot/internal/api/chat/service"
	"campus-chatbot/internal/middleware"
	"campus-chatbot/pkg/dialogue"
	"campus-chatbot/pkg/metrics"
	"campus-chatbot/pkg/utils"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	log        *logrus.Logger
	middleware middleware.Middleware
	validator  *validator.Validate
	utils      utils.IUtils
	handlers   []handler

	engineConfig *EngineConfig
	dialogue     *dialogue.Factory
	chatService  chatService.IChatService

	stopJanitor context.CancelFunc
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.dialogue == nil {
		return nil, fmt.Errorf("engine config is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, server.engineConfig.MiddlewareConfig())
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithEngineConfig loads the intent table, flows and optional classifier.
func WithEngineConfig(cfg *EngineConfig) ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before engine config")
		}

		factory, err := BuildDialogue(cfg, s.log)
		if err != nil {
			s.log.Errorf("Failed to build dialogue engine: %v", err)
			return fmt.Errorf("failed to build dialogue engine: %w", err)
		}

		s.engineConfig = cfg
		s.dialogue = factory
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		if s.engineConfig == nil {
			return fmt.Errorf("engine config must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log, s.engineConfig.MiddlewareConfig())
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Chat Domain
	s.chatService = chatService.NewChatService(s.log, s.dialogue, s.utils, chatServiceConfig(s.engineConfig))
	chatHandlers := chatHandler.New(s.log, s.validator, s.middleware, s.chatService)

	ctx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	s.chatService.StartJanitor(ctx)

	s.handlers = append(s.handlers, chatHandlers)
}

func (s *Server) setupRoutes() {
	s.engine.Use(recover.New())
	s.engine.Use(cors.New())
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.engine.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	router := s.engine.Group("/api")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Run() error {
	s.setupRoutes()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "5000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() error {
	if s.stopJanitor != nil {
		s.stopJanitor()
	}
	return s.engine.ShutdownWithTimeout(10 * time.Second)
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}

func chatServiceConfig(c *EngineConfig) chatService.Config {
	return chatService.Config{
		HistoryPageSize:     c.HistoryPageSize,
		MaxMessageLength:    c.MaxMessageLength,
		SuggestionThreshold: c.SuggestionThreshold,
		SuggestionLimit:     c.SuggestionLimit,
		SessionTTL:          c.SessionTTL,
		SweepInterval:       c.SessionSweepInterval,
	}
}
