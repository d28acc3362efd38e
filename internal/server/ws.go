package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/fingerbird/internal/game"
	"github.com/ayusman/fingerbird/internal/logger"
)

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveMessage is the JSON document sent to spectators once per tick.
type LiveMessage struct {
	State     game.State `json:"state"`
	Phase     string     `json:"phase"`
	Timestamp int64      `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans the game's ticks out to websocket spectators and keeps the last
// rendered frame for the MJPEG stream. Publish never blocks on slow clients:
// each client only ever holds the newest message.
type Hub struct {
	log *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	jpeg    []byte
	next    chan struct{}
	last    []byte

	streamers atomic.Int32
	published atomic.Uint64
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:     logger.OrNop(log),
		clients: make(map[*client]struct{}),
		next:    make(chan struct{}),
	}
}

// Publish sends the state to every spectator. The frame is JPEG encoded only
// while someone is watching the stream; it may be nil.
func (h *Hub) Publish(frame *gocv.Mat, s game.State, phase game.Phase) {
	msg, err := json.Marshal(LiveMessage{
		State:     s,
		Phase:     phase.String(),
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		h.log.Warn("encode live message", zap.Error(err))
		return
	}

	var jpeg []byte
	if frame != nil && !frame.Empty() && h.streamers.Load() > 0 {
		buf, err := gocv.IMEncode(".jpg", *frame)
		if err != nil {
			h.log.Warn("encode stream frame", zap.Error(err))
		} else {
			jpeg = append([]byte(nil), buf.GetBytes()...)
			buf.Close()
		}
	}

	h.mu.Lock()
	h.last = msg
	if jpeg != nil {
		h.jpeg = jpeg
		close(h.next)
		h.next = make(chan struct{})
	}
	for c := range h.clients {
		offer(c.send, msg)
	}
	h.mu.Unlock()

	h.published.Add(1)
}

// offer replaces whatever is pending in ch with msg.
func offer(ch chan []byte, msg []byte) {
	for {
		select {
		case ch <- msg:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Clients returns the number of connected websocket spectators.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Published returns how many ticks have been published.
func (h *Hub) Published() uint64 {
	return h.published.Load()
}

// frame returns the latest JPEG and a channel closed when a newer one arrives.
func (h *Hub) frame() ([]byte, <-chan struct{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.jpeg, h.next
}

// ServeHTTP upgrades the request to a websocket and streams live messages
// until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()

	c := &client{conn: conn, send: make(chan []byte, 1)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Keep connection alive by reading messages
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
