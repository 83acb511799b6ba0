package chatHandler

import (
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/net/context"

	"campus-chatbot/internal/api/chat"
	contextPkg "campus-chatbot/pkg/context"
	"campus-chatbot/pkg/response"
)

const (
	wsReadTimeout  = 5 * time.Minute
	wsWriteTimeout = 10 * time.Second
	wsTurnTimeout  = 10 * time.Second
)

// handleWebSocket serves one chat conversation per connection. Every text
// frame is a chat.WSMessage and every reply mirrors the POST /chat body.
func (h *ChatHandler) handleWebSocket(c *websocket.Conn) {
	connSession := c.Query("session_id")

	h.log.Info("Chat WebSocket client connected")
	defer h.log.Info("Chat WebSocket client disconnected")

	for {
		if err := c.SetReadDeadline(time.Now().Add(wsReadTimeout)); err != nil {
			h.log.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Errorf("Chat WebSocket error: %v", err)
			} else {
				h.log.Info("Chat WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage {
			h.log.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		reply := h.processFrame(message, connSession)

		if err := c.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			h.log.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteJSON(reply); err != nil {
			h.log.Errorf("Error writing JSON response: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			h.log.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}

func (h *ChatHandler) processFrame(frame []byte, connSession string) interface{} {
	var msg chat.WSMessage
	if err := jsoniter.Unmarshal(frame, &msg); err != nil {
		return chat.WSError{Success: false, Error: "invalid message frame", Response: chat.ReplyInvalidMessage}
	}

	if err := h.validator.Struct(msg); err != nil {
		return chat.WSError{Success: false, Error: "Validation failed: " + err.Error(), Response: chat.ReplyInvalidMessage}
	}

	if msg.SessionID == "" {
		msg.SessionID = connSession
	}

	c, cancel := context.WithTimeout(contextPkg.WithSessionID(context.Background(), msg.SessionID), wsTurnTimeout)
	defer cancel()

	resp, err := h.chatService.ProcessChat(c, chat.ChatRequest{
		Message:   msg.Message,
		SessionID: msg.SessionID,
	})
	if err != nil {
		var respErr *response.Error
		if errors.As(err, &respErr) {
			return chat.WSError{Success: false, Error: respErr.Error(), Response: respErr.Reply}
		}
		h.log.Errorf("Error processing chat frame: %v", err)
		return chat.WSError{Success: false, Error: "An unexpected error occurred"}
	}

	return resp
}
