package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"campus-chatbot/pkg/response"
)

const (
	SessionHeader = "X-Session-ID"
	SessionIDKey  = "session_id"
)

// NewSessionMiddleware picks the conversation id from the X-Session-ID header
// or the session_id query parameter. Requests without one pass through and
// the chat service falls back to the shared default session.
func (m *middleware) NewSessionMiddleware(ctx *fiber.Ctx) error {
	sessionID := ctx.Get(SessionHeader)
	if sessionID == "" {
		sessionID = ctx.Query("session_id")
	}

	if sessionID == "" {
		return ctx.Next()
	}

	if !m.utils.ValidSessionID(sessionID) {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"path":       ctx.Path(),
		}).Warn("Rejected malformed session id")
		return ctx.Status(fiber.StatusBadRequest).JSON(response.Envelope{
			Success: false,
			Error:   "invalid session id",
			Code:    "INVALID_SESSION",
		})
	}

	ctx.Locals(SessionIDKey, sessionID)
	ctx.Set(SessionHeader, sessionID)
	return ctx.Next()
}

func (m *middleware) GetSessionID(ctx *fiber.Ctx) string {
	sessionID, _ := ctx.Locals(SessionIDKey).(string)
	return sessionID
}
