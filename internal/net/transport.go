package net

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"Doodler/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MessageType identifies a live stream message.
type MessageType string

const (
	// MessageSnapshot carries the whole document. It is the first message a
	// viewer receives.
	MessageSnapshot MessageType = "snapshot"
	// MessageEvent carries one token: an event or a new table definition.
	MessageEvent MessageType = "event"
	// MessageReset replaces the document, after a new or loaded recording.
	MessageReset MessageType = "reset"
	// MessageErase clears the viewer's surface.
	MessageErase MessageType = "erase"
)

// Message is the JSON frame sent to viewers.
type Message struct {
	Type MessageType `json:"type"`
	Data string      `json:"data,omitempty"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	defaultSendBuffer = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l *slog.Logger) HubOption {
	return func(h *Hub) { h.log = l }
}

// WithSendBuffer sets how many messages may queue for one viewer before it is
// dropped.
func WithSendBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// Peer is one connected viewer.
type Peer struct {
	ID   string
	conn *websocket.Conn
	send chan Message
	once sync.Once
}

func (p *Peer) close() {
	p.once.Do(func() { close(p.send) })
}

// Hub streams a drawing to websocket viewers. It keeps the tokens published
// since the last reset so that late viewers start from a snapshot.
type Hub struct {
	log     *slog.Logger
	metrics *metrics
	buffer  int

	mu     sync.Mutex
	tokens []string
	peers  map[string]*Peer
	closed bool
}

// NewHub creates a hub with an empty document.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		log:     logging.NewNop(),
		metrics: newMetrics(),
		buffer:  defaultSendBuffer,
		peers:   make(map[string]*Peer),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Publish sends one token to every viewer.
func (h *Hub) Publish(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tokens = append(h.tokens, token)
	h.broadcast(Message{Type: MessageEvent, Data: token})
}

// Reset replaces the streamed document.
func (h *Hub) Reset(doc string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tokens = h.tokens[:0]
	if doc != "" {
		h.tokens = append(h.tokens, doc)
	}
	h.broadcast(Message{Type: MessageReset, Data: doc})
}

// Erase tells viewers to clear their surface.
func (h *Hub) Erase() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcast(Message{Type: MessageErase})
}

// Snapshot returns the document as streamed so far.
func (h *Hub) Snapshot() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshot()
}

func (h *Hub) snapshot() string {
	return strings.Join(h.tokens, ";")
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, p := range h.peers {
		h.removeLocked(p)
	}
}

// Handler returns the HTTP routes: the websocket stream, the current
// recording as text, and metrics.
func (h *Hub) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", h.ServeWS)
	r.Get("/recording", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(h.Snapshot()))
	})
	r.Handle("/metrics", h.metrics.handler())
	return r
}

// ServeWS upgrades the request and streams to the new viewer until it
// disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	p := &Peer{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan Message, h.buffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	p.send <- Message{Type: MessageSnapshot, Data: h.snapshot()}
	h.peers[p.ID] = p
	h.metrics.viewers.Inc()
	h.mu.Unlock()

	h.log.Info("viewer connected", "peer", p.ID, "remote", r.RemoteAddr)
	go h.writePump(p)
	h.readPump(p)
}

func (h *Hub) broadcast(msg Message) {
	h.metrics.messages.WithLabelValues(string(msg.Type)).Inc()
	for _, p := range h.peers {
		select {
		case p.send <- msg:
		default:
			h.log.Warn("viewer too slow, dropping", "peer", p.ID)
			h.metrics.dropped.Inc()
			h.removeLocked(p)
		}
	}
}

func (h *Hub) remove(p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(p)
}

func (h *Hub) removeLocked(p *Peer) {
	if h.peers[p.ID] != p {
		return
	}
	delete(h.peers, p.ID)
	p.close()
	h.metrics.viewers.Dec()
	h.log.Info("viewer disconnected", "peer", p.ID)
}

// readPump discards anything the viewer sends and notices when it leaves.
func (h *Hub) readPump(p *Peer) {
	defer func() {
		h.remove(p)
		p.conn.Close()
	}()
	p.conn.SetReadLimit(512)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket error", "peer", p.ID, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(p *Peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := p.conn.WriteJSON(msg); err != nil {
				h.remove(p)
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(p)
				return
			}
		}
	}
}
