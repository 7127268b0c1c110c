package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // front-end is a local tray/menu UI, not a public origin
	},
}

// Hub maintains the set of active websocket clients and broadcasts
// capture-event notifications to them. It implements
// service.ChangeHandler so the Service can push
// "clipboard://clipboard-monitor/update", ".../update/error", and
// "clips://clips-monitor/update" events without knowing about HTTP.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *zap.SugaredLogger
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func newHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) broadcastEvent(eventType string, payload interface{}) {
	envelope := struct {
		Type    string      `json:"type"`
		Payload interface{} `json:"payload"`
	}{Type: eventType, Payload: payload}

	message, err := json.Marshal(envelope)
	if err != nil {
		h.log.Warnw("server: marshaling event failed", "event", eventType, "error", err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		h.log.Warnw("server: dropping event, broadcast channel full", "event", eventType)
	}
}

// HandleHistoryChange implements service.ChangeHandler.
func (h *Hub) HandleHistoryChange(rec *model.HistoryRecord, isNew bool) {
	h.broadcastEvent("clipboard://clipboard-monitor/update", struct {
		Record *model.HistoryRecord `json:"record"`
		IsNew  bool                 `json:"isNew"`
	}{rec, isNew})
}

// HandleHistoryError implements service.ChangeHandler.
func (h *Hub) HandleHistoryError(err error) {
	h.broadcastEvent("clipboard://clipboard-monitor/update/error", struct {
		Error string `json:"error"`
	}{err.Error()})
}

// HandleClipRun implements service.ChangeHandler.
func (h *Hub) HandleClipRun(item *model.Item) {
	h.broadcastEvent("clips://clips-monitor/update", item)
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound client frames but drives connection-close
// detection so a dead client gets unregistered.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// serveWs upgrades a request to a websocket and registers the resulting
// client with the hub.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("server: websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	client := &Client{hub: s.hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
