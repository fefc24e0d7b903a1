package ws

import (
	"log"
	"net/http"
	"strings"

	"nhooyr.io/websocket"

	"github.com/campusconnect/backend/internal/auth"
)

// ServeWS returns an HTTP handler that authenticates the handshake and
// upgrades to WebSocket. The credential travels in the Authorization
// header, never in the URL. A rejected credential closes the exchange
// before the upgrade; the client must reconnect with a fresh token.
func ServeWS(hub *Hub, verifier *auth.Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			http.Error(w, "missing credential", http.StatusUnauthorized)
			return
		}

		userID, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			http.Error(w, "invalid credential", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			log.Printf("ws: accept error: %v", err)
			return
		}

		client := NewClient(hub, conn, userID)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
