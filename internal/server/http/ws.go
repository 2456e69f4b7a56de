package httpserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"breakthrough/internal/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The frontend is served from the same binary but may sit behind a proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleEvents streams one JSON game.Event per websocket message until the
// client goes away or the session is removed.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	s, ok := h.lookup(w, r.URL.Query().Get("game_id"))
	if !ok {
		return
	}
	// Subscribe before the handshake completes so no event after it is missed.
	events, cancel := s.Subscribe()
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("events %s: upgrade: %v", s.ID, err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, events, done)
}

// readPump drains client frames so pongs and close frames are processed.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("events read error: %v", err)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, events <-chan game.Event, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				log.Printf("events write error: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
