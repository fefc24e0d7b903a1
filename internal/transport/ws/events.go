package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/campusconnect/backend/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeJoinRoom    = "join_room"
	EventTypeLeaveRoom   = "leave_room"
	EventTypeSendMessage = "send_message"
	EventTypeTypingStart = "typing_start"
	EventTypeTypingStop  = "typing_stop"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeNewMessage     = "new_message"
	EventTypeMessageEdited  = "message_edited"
	EventTypeMessageDeleted = "message_deleted"
	EventTypeUserTyping     = "user_typing"
	EventTypeMessageError   = "message_error"
	EventTypePong           = "pong"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type RoomPayload struct {
	RoomID uuid.UUID `json:"room_id"`
}

type SendMessagePayload struct {
	RoomID  uuid.UUID `json:"room_id"`
	Content string    `json:"content"`
	Kind    string    `json:"type,omitempty"`
}

// --- Server → Client payloads ---

type MessagePayload struct {
	domain.Message
}

type MessageDeletedPayload struct {
	RoomID uuid.UUID `json:"room_id"`
	ID     uuid.UUID `json:"id"`
}

type TypingPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Typing bool      `json:"typing"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
