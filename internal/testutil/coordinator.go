package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/quizden/triviaroom-go/internal/model"
	"github.com/quizden/triviaroom-go/internal/protocol"
)

// Coordinator is an in-process fake session coordinator for tests. It
// accepts WebSocket connections, records every client event it receives,
// lets tests push server events to all connected clients, and serves the
// REST endpoints the client consumes (room create/join, game-over results).
type Coordinator struct {
	server *httptest.Server

	mu       sync.Mutex
	conns    []*websocket.Conn
	received []protocol.Envelope
	rooms    map[model.RoomID]*model.Room

	// NextRoomID is returned by the room creation endpoint
	NextRoomID model.RoomID

	upgrader websocket.Upgrader
	events   chan protocol.Envelope
}

// NewCoordinator starts a fake coordinator. Callers must Close it.
func NewCoordinator() *Coordinator {
	c := &Coordinator{
		rooms:      make(map[model.RoomID]*model.Room),
		NextRoomID: "ROOM01",
		events:     make(chan protocol.Envelope, 256),
	}

	r := mux.NewRouter()
	r.HandleFunc("/ws", c.handleWS)
	r.HandleFunc("/api/rooms", c.handleCreateRoom).Methods(http.MethodPost)
	r.HandleFunc("/api/rooms/{roomId}/join", c.handleJoinRoom).Methods(http.MethodPost)
	r.HandleFunc("/api/game-over/{roomId}", c.handleGameOver).Methods(http.MethodGet)

	c.server = httptest.NewServer(r)
	return c
}

// Close shuts the fake coordinator down
func (c *Coordinator) Close() {
	c.mu.Lock()
	conns := c.conns
	c.conns = nil
	c.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
	c.server.Close()
}

// URL returns the HTTP base URL
func (c *Coordinator) URL() string {
	return c.server.URL
}

// WSURL returns the WebSocket endpoint URL
func (c *Coordinator) WSURL() string {
	return "ws" + strings.TrimPrefix(c.server.URL, "http") + "/ws"
}

// SetRoom makes a room available to the game-over endpoint
func (c *Coordinator) SetRoom(room *model.Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room.ID] = room.Clone()
}

// Push broadcasts a server event to every connected client
func (c *Coordinator) Push(event protocol.EventType, payload any) error {
	env, err := protocol.NewEnvelope(event, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}

	c.mu.Lock()
	conns := make([]*websocket.Conn, len(c.conns))
	copy(conns, c.conns)
	c.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return fmt.Errorf("failed to push %s: %w", event, err)
		}
	}
	return nil
}

// Events delivers every client->coordinator envelope as it arrives
func (c *Coordinator) Events() <-chan protocol.Envelope {
	return c.events
}

// Received returns a copy of all client events recorded so far
func (c *Coordinator) Received() []protocol.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]protocol.Envelope, len(c.received))
	copy(out, c.received)
	return out
}

// CountReceived returns how many events of the given type have arrived
func (c *Coordinator) CountReceived(event protocol.EventType) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, env := range c.received {
		if env.Event == event {
			n++
		}
	}
	return n
}

// ConnectionCount returns the number of live WebSocket connections
func (c *Coordinator) ConnectionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conns)
}

// DropConnections severs every live connection, simulating network loss
func (c *Coordinator) DropConnections() {
	c.mu.Lock()
	conns := c.conns
	c.conns = nil
	c.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (c *Coordinator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c.mu.Lock()
	c.conns = append(c.conns, conn)
	c.mu.Unlock()

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				c.removeConn(conn)
				return
			}
			var env protocol.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			c.mu.Lock()
			c.received = append(c.received, env)
			c.mu.Unlock()
			select {
			case c.events <- env:
			default:
			}
		}
	}()
}

func (c *Coordinator) removeConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cc := range c.conns {
		if cc == conn {
			c.conns = append(c.conns[:i], c.conns[i+1:]...)
			return
		}
	}
}

func (c *Coordinator) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerName model.PlayerName `json:"playerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", "malformed body")
		return
	}
	writeJSON(w, map[string]any{
		"roomId":     c.NextRoomID,
		"playerName": req.PlayerName,
	})
}

func (c *Coordinator) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["roomId"])
	var req struct {
		PlayerName model.PlayerName `json:"playerName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", "malformed body")
		return
	}
	writeJSON(w, map[string]any{
		"roomId":     roomID,
		"playerName": req.PlayerName,
	})
}

func (c *Coordinator) handleGameOver(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["roomId"])
	c.mu.Lock()
	room, ok := c.rooms[roomID]
	c.mu.Unlock()
	if !ok {
		writeAPIError(w, http.StatusNotFound, "room_not_found", "no such room")
		return
	}
	writeJSON(w, room)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
