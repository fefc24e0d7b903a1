package ws

import (
	"log"

	"github.com/google/uuid"

	"github.com/campusconnect/backend/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeNewMessage, MessagePayload{Message: *msg})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	// Sender included so all of a user's devices converge.
	n.hub.BroadcastToRoom(msg.RoomID, evt, nil)
}

func (n *HubNotifier) NotifyEditedMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageEdited, MessagePayload{Message: *msg})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToRoom(msg.RoomID, evt, nil)
}

func (n *HubNotifier) NotifyDeletedMessage(roomID, messageID uuid.UUID) {
	evt, err := NewEvent(EventTypeMessageDeleted, MessageDeletedPayload{RoomID: roomID, ID: messageID})
	if err != nil {
		log.Printf("ws notifier: marshal error: %v", err)
		return
	}
	n.hub.BroadcastToRoom(roomID, evt, nil)
}
