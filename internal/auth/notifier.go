package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/employee-dashboard/internal"
	"github.com/frahmantamala/employee-dashboard/internal/core/events"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// SessionMessage is what a subscribed client receives on the stream.
type SessionMessage struct {
	Type       string                 `json:"type"`
	EventID    string                 `json:"event_id"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

type client struct {
	uid  string
	conn *websocket.Conn
	send chan SessionMessage
}

// SessionNotifier pushes session and leave events to the websocket clients of
// the principal they concern.
type SessionNotifier struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

// NewSessionNotifier accepts handshakes from the same comma separated origin
// allowlist the CORS middleware uses. "*" allows any origin.
func NewSessionNotifier(allowedOrigins string, logger *slog.Logger) *SessionNotifier {
	return &SessionNotifier{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger:  logger,
		clients: make(map[string]map[*client]struct{}),
	}
}

// originChecker allows requests without an Origin header (non-browser
// clients), same-host origins and the listed ones.
func originChecker(allowedOrigins string) func(r *http.Request) bool {
	allowAll := false
	allowed := make(map[string]struct{})
	for _, origin := range strings.Split(allowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			allowAll = true
		default:
			allowed[strings.ToLower(origin)] = struct{}{}
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}
		if _, ok := allowed[strings.ToLower(origin)]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

func (n *SessionNotifier) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeSessionSignedIn, n.Handle)
	bus.Subscribe(events.EventTypeSessionSignedOut, n.Handle)
	bus.Subscribe(events.EventTypeLeaveStatusChanged, n.Handle)
}

func (n *SessionNotifier) Handle(ctx context.Context, event events.Event) error {
	var uid string
	switch e := event.(type) {
	case *events.SessionEvent:
		uid = e.UID
	case *events.LeaveStatusChangedEvent:
		uid = e.OwnerUID
	default:
		return nil
	}

	msg := SessionMessage{
		Type:       event.EventType(),
		EventID:    event.EventID(),
		OccurredAt: event.OccurredAt(),
	}
	if data, ok := event.Payload().(map[string]interface{}); ok {
		msg.Data = data
	}

	n.broadcast(uid, msg)
	return nil
}

// Subscribers returns how many streams are open for uid.
func (n *SessionNotifier) Subscribers(uid string) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients[uid])
}

// Stream handles GET /auth/session/stream. The session must already be in the
// request context.
func (n *SessionNotifier) Stream(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, internal.ErrSessionRequired.Message, http.StatusUnauthorized)
		return
	}

	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		n.logger.Warn("session stream: upgrade failed", "uid", session.UID, "error", err)
		return
	}

	c := &client{uid: session.UID, conn: conn, send: make(chan SessionMessage, sendBufferSize)}
	n.register(c)
	n.logger.Info("session stream opened", "uid", session.UID)

	go n.writePump(c)
	n.readPump(c)
}

func (n *SessionNotifier) register(c *client) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.clients[c.uid] == nil {
		n.clients[c.uid] = make(map[*client]struct{})
	}
	n.clients[c.uid][c] = struct{}{}
}

func (n *SessionNotifier) unregister(c *client) {
	n.mu.Lock()
	defer n.mu.Unlock()
	set, ok := n.clients[c.uid]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(n.clients, c.uid)
	}
	close(c.send)
}

func (n *SessionNotifier) broadcast(uid string, msg SessionMessage) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for c := range n.clients[uid] {
		select {
		case c.send <- msg:
		default:
			n.logger.Warn("session stream: dropping message for slow client", "uid", uid, "type", msg.Type)
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
func (n *SessionNotifier) readPump(c *client) {
	defer func() {
		n.unregister(c)
		n.logger.Info("session stream closed", "uid", c.uid)
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				n.logger.Warn("session stream: read failed", "uid", c.uid, "error", err)
			}
			return
		}
	}
}

func (n *SessionNotifier) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				n.logger.Warn("session stream: write failed", "uid", c.uid, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
