package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageKindText is the only message kind currently exercised; the
// column is free-form to leave room for future kinds.
const MessageKindText = "text"

// DeletedMessageContent replaces the body of a soft-deleted message.
const DeletedMessageContent = "[Message deleted]"

type Message struct {
	ID        uuid.UUID  `json:"id"`
	RoomID    uuid.UUID  `json:"room_id"`
	SenderID  uuid.UUID  `json:"sender_id"`
	Content   string     `json:"content"`
	Kind      string     `json:"kind"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	IsDeleted bool       `json:"is_deleted"`
	CreatedAt time.Time  `json:"created_at"`
	// Joined fields
	SenderFirstName string `json:"sender_first_name,omitempty"`
	SenderLastName  string `json:"sender_last_name,omitempty"`
}
