package domain

import (
	"time"

	"github.com/google/uuid"
)

// Room kinds
const (
	RoomKindDirect = "direct"
	RoomKindGroup  = "group"
)

type ChatRoom struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Kind           string     `json:"kind"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	// Joined fields
	Participants []RoomParticipant `json:"participants"`
}

// RoomParticipant is a room membership row with the user's display
// data resolved at read time.
type RoomParticipant struct {
	UserID    uuid.UUID `json:"user_id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// HasParticipant reports whether userID is a member of the room.
func (r *ChatRoom) HasParticipant(userID uuid.UUID) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
