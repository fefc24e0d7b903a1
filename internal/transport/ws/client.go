package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/campusconnect/backend/internal/service"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket connection. One user may hold
// several at once; each is tracked independently.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID

	// rooms mirrors this connection's entries in the hub's fan-out
	// sets; owned by the hub goroutine.
	rooms map[uuid.UUID]struct{}

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		rooms:  make(map[uuid.UUID]struct{}),
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// ReadPump reads events from the WebSocket and routes them.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: client %s disconnected", c.userID)
			} else {
				log.Printf("ws: read error from %s: %v", c.userID, err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error to %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error to %s: %v", c.userID, err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event. Application-level
// failures are reported back on this connection only; they never close
// it.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeJoinRoom:
		var p RoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("invalid join_room payload")
			return
		}
		c.hub.Join(c, p.RoomID)
		log.Printf("ws: user %s joined room %s", c.userID, p.RoomID)

	case EventTypeLeaveRoom:
		var p RoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("invalid leave_room payload")
			return
		}
		c.hub.Leave(c, p.RoomID)
		log.Printf("ws: user %s left room %s", c.userID, p.RoomID)

	case EventTypeSendMessage:
		var p SendMessagePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("invalid send_message payload")
			return
		}
		c.handleSendMessage(p)

	case EventTypeTypingStart, EventTypeTypingStop:
		var p RoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("invalid typing payload")
			return
		}
		evt, err := NewEvent(EventTypeUserTyping, TypingPayload{
			UserID: c.userID,
			Typing: event.Type == EventTypeTypingStart,
		})
		if err != nil {
			return
		}
		// Ephemeral: not persisted, sender's connection excluded.
		c.hub.BroadcastToRoom(p.RoomID, evt, c)

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("unknown event type: " + event.Type)
	}
}

// handleSendMessage persists through the message service; on success
// the service broadcasts new_message to the room (this connection
// included), on failure only this connection hears about it.
func (c *Client) handleSendMessage(p SendMessagePayload) {
	_, err := c.hub.messages.Send(context.Background(), c.userID, p.RoomID, p.Content, p.Kind)
	if err != nil {
		c.sendError(errorText(err))
	}
}

func errorText(err error) string {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrEmptyContent):
		return err.Error()
	default:
		return "Failed to send message"
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(message string) {
	evt, err := NewEvent(EventTypeMessageError, ErrorPayload{Error: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
