package chat

import "campus-chatbot/pkg/response"

const ReplyInvalidMessage = "Mohon kirim pesan yang valid."

var (
	ErrMessageRequired = response.NewReplyError(400, "Message is required", ReplyInvalidMessage)
	ErrMessageEmpty    = response.NewReplyError(400, "Message cannot be empty", "Pesan tidak boleh kosong.")
	ErrMessageTooLong  = response.NewReplyError(400, "Message too long", "Pesan terlalu panjang. Maksimal 500 karakter.")
	ErrSessionNotFound = response.NewError(404, "session not found")
	ErrInvalidSession  = response.NewError(400, "invalid session id")
)
