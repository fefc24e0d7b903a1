package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/campusconnect/backend/internal/domain"
)

// MessageSender is the slice of the message service the gateway needs
// to handle send_message events.
type MessageSender interface {
	Send(ctx context.Context, userID, roomID uuid.UUID, content, kind string) (*domain.Message, error)
}

// Hub owns all live connection state: the set of clients, each user's
// connections (the per-user private channel) and each room's fan-out
// set. All maps are touched only by the Run goroutine, so no locks are
// needed.
type Hub struct {
	clients map[*Client]struct{}
	users   map[uuid.UUID]map[*Client]struct{}
	rooms   map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	join       chan subscription
	leave      chan subscription
	broadcast  chan *broadcastMsg
	stop       chan struct{}

	messages MessageSender
}

type subscription struct {
	client *Client
	roomID uuid.UUID
}

type broadcastMsg struct {
	roomID uuid.UUID
	userID *uuid.UUID // when set, deliver to this user's connections instead of a room
	data   []byte
	exclude *Client // optional: skip this connection (e.g. typing sender)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		users:      make(map[uuid.UUID]map[*Client]struct{}),
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan subscription),
		leave:      make(chan subscription),
		broadcast:  make(chan *broadcastMsg, 256),
		stop:       make(chan struct{}),
	}
}

// SetMessageSender wires in the message service after construction;
// the service in turn broadcasts through this hub, so neither can be
// a constructor argument of the other.
func (h *Hub) SetMessageSender(s MessageSender) {
	h.messages = s
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
			if h.users[client.userID] == nil {
				h.users[client.userID] = make(map[*Client]struct{})
			}
			h.users[client.userID][client] = struct{}{}
			log.Printf("ws hub: user %s connected (%d total)", client.userID, len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.removeClient(client)
				log.Printf("ws hub: user %s disconnected (%d total)", client.userID, len(h.clients))
			}

		case sub := <-h.join:
			if _, ok := h.clients[sub.client]; !ok {
				continue
			}
			if h.rooms[sub.roomID] == nil {
				h.rooms[sub.roomID] = make(map[*Client]struct{})
			}
			h.rooms[sub.roomID][sub.client] = struct{}{}
			sub.client.rooms[sub.roomID] = struct{}{}

		case sub := <-h.leave:
			h.dropSubscription(sub.client, sub.roomID)

		case msg := <-h.broadcast:
			for _, client := range h.targets(msg) {
				if msg.exclude != nil && client == msg.exclude {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					h.removeClient(client)
				}
			}

		case <-h.stop:
			for client := range h.clients {
				h.removeClient(client)
			}
			return
		}
	}
}

// Stop tears the hub down, closing every remaining connection's send
// channel.
func (h *Hub) Stop() {
	close(h.stop)
}

// Join adds a connection to a room's fan-out set. Membership is not
// verified here: reads of history and all writes go through the
// message service, which does check membership.
func (h *Hub) Join(c *Client, roomID uuid.UUID) {
	h.join <- subscription{client: c, roomID: roomID}
}

// Leave removes the connection from the room's fan-out set without
// closing the connection.
func (h *Hub) Leave(c *Client, roomID uuid.UUID) {
	h.leave <- subscription{client: c, roomID: roomID}
}

// BroadcastToRoom sends an event to every connection subscribed to the
// room, optionally excluding one connection.
func (h *Hub) BroadcastToRoom(roomID uuid.UUID, event *Event, exclude *Client) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{roomID: roomID, data: data, exclude: exclude}
}

// BroadcastToUser sends an event to all of a user's connections via
// their private channel.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{userID: &userID, data: data}
}

func (h *Hub) targets(msg *broadcastMsg) []*Client {
	var set map[*Client]struct{}
	if msg.userID != nil {
		set = h.users[*msg.userID]
	} else {
		set = h.rooms[msg.roomID]
	}
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

// removeClient releases every subscription the connection holds and
// its per-user registration. Only the Run goroutine calls this.
func (h *Hub) removeClient(c *Client) {
	delete(h.clients, c)
	for roomID := range c.rooms {
		h.dropSubscription(c, roomID)
	}
	if conns, ok := h.users[c.userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.users, c.userID)
		}
	}
	close(c.send)
	close(c.done)
}

func (h *Hub) dropSubscription(c *Client, roomID uuid.UUID) {
	delete(c.rooms, roomID)
	if subs, ok := h.rooms[roomID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
}
