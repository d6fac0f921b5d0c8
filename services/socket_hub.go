package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	EventConnected           = "connected"
	EventReceiveNotification = "receive_notification"
	EventError               = "error"
	EventRegister            = "register"

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 16
)

var (
	ErrSessionNotFound = errors.New("socket session not found")
	ErrSessionBusy     = errors.New("socket session send buffer full")
)

// Pusher delivers a realtime event to one session.
type Pusher interface {
	Push(ctx context.Context, sessionID, event string, payload interface{}) error
}

// SocketMessage is the envelope for every frame in both directions.
type SocketMessage struct {
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
	UserID string          `json:"user_id,omitempty"`
}

type socketSession struct {
	id     string
	userID string
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (s *socketSession) close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// SocketHub owns live websocket sessions and keeps PresenceRegistry in step
// with them.
type SocketHub struct {
	mu       sync.RWMutex
	sessions map[string]*socketSession
	presence *PresenceRegistry
	logger   *zap.Logger
}

func NewSocketHub(presence *PresenceRegistry, logger *zap.Logger) *SocketHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocketHub{
		sessions: make(map[string]*socketSession),
		presence: presence,
		logger:   logger,
	}
}

// Serve runs an upgraded connection for userID until it closes. The session is
// addressable through the presence registry for its whole lifetime.
func (h *SocketHub) Serve(ctx context.Context, conn *websocket.Conn, userID string) {
	session := &socketSession{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
	log := h.logger.With(zap.String("session_id", session.id), zap.String("user_id", userID))

	h.mu.Lock()
	h.sessions[session.id] = session
	h.mu.Unlock()
	h.presence.Register(userID, session.id)
	log.Info("socket connected")

	defer func() {
		h.mu.Lock()
		delete(h.sessions, session.id)
		h.mu.Unlock()
		h.presence.Unregister(session.id)
		session.close()
		log.Info("socket closed")
	}()

	go h.writeLoop(session, log)

	_ = h.Push(ctx, session.id, EventConnected, map[string]string{"session_id": session.id, "user_id": userID})

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Warn("failed to set initial read deadline", zap.Error(err))
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("socket read error", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		h.handleClientMessage(ctx, session, raw, log)
	}
}

func (h *SocketHub) handleClientMessage(ctx context.Context, session *socketSession, raw []byte, log *zap.Logger) {
	var msg SocketMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		_ = h.Push(ctx, session.id, EventError, map[string]string{"message": "invalid message"})
		return
	}

	switch msg.Event {
	case EventRegister:
		// The client announces who it is; it can only be the authenticated user.
		if msg.UserID != session.userID {
			log.Warn("socket register for another user rejected", zap.String("claimed_user_id", msg.UserID))
			_ = h.Push(ctx, session.id, EventError, map[string]string{"message": "user mismatch"})
			return
		}
		h.presence.Register(session.userID, session.id)
	default:
		log.Debug("ignoring socket event", zap.String("event", msg.Event))
	}
}

func (h *SocketHub) writeLoop(session *socketSession, log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-session.done:
			return
		case frame := <-session.send:
			if err := session.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Warn("failed to set write deadline", zap.Error(err))
				session.close()
				return
			}
			if err := session.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				log.Warn("socket write failed", zap.Error(err))
				session.close()
				return
			}
		case <-ticker.C:
			if err := session.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				session.close()
				return
			}
			if err := session.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("ping failed", zap.Error(err))
				session.close()
				return
			}
		}
	}
}

// Push queues event for sessionID. It fails for unknown or closed sessions and
// when the session cannot keep up.
func (h *SocketHub) Push(ctx context.Context, sessionID, event string, payload interface{}) error {
	h.mu.RLock()
	session, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	frame, err := json.Marshal(SocketMessage{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", event, err)
	}

	select {
	case <-session.done:
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	case <-ctx.Done():
		return ctx.Err()
	case session.send <- frame:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrSessionBusy, sessionID)
	}
}

// OnlineUsers reports how many users have a registered session.
func (h *SocketHub) OnlineUsers() int {
	return h.presence.Len()
}

// Sessions reports how many sockets are open.
func (h *SocketHub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

