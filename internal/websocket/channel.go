// TaskBuddy - Collaborative Task and Project Management
// Copyright 2026 TaskBuddy Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/taskbuddy/taskbuddy

package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/taskbuddy/taskbuddy/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // clients only send control frames

	// sendQueueSize bounds the per-channel outbound queue. A client that
	// stops reading fills the queue and gets pruned on the next delivery.
	sendQueueSize = 256
)

// channelIDCounter generates unique, monotonically increasing IDs for
// channels, giving shutdown and tests a consistent ordering.
var channelIDCounter atomic.Uint64

// Channel is one authenticated WebSocket connection bound to a user.
// Messages queued with Send are written to the socket by a single
// writePump goroutine, so each channel delivers in FIFO order.
type Channel struct {
	id       uint64
	userID   int64
	registry *Registry
	conn     *websocket.Conn
	send     chan []byte

	mu     sync.Mutex
	closed bool
}

// NewChannel creates a channel for the given connection and user.
func NewChannel(registry *Registry, conn *websocket.Conn, userID int64) *Channel {
	return &Channel{
		id:       channelIDCounter.Add(1),
		userID:   userID,
		registry: registry,
		conn:     conn,
		send:     make(chan []byte, sendQueueSize),
	}
}

// UserID returns the user this channel is bound to.
func (c *Channel) UserID() int64 {
	return c.userID
}

// Send queues a message for delivery. It never blocks: the return value
// is false when the channel is closed or its queue is full, in which
// case the caller should prune the channel.
func (c *Channel) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// Close stops the write pump and closes the socket. Safe to call more
// than once and from any goroutine.
func (c *Channel) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// readPump consumes client frames until the connection drops. Clients
// never send application data; the pump exists to process close and
// pong frames. On exit the channel is unregistered before the socket
// is torn down, so a closed connection is immediately invisible to
// the dispatcher.
func (c *Channel) readPump() {
	defer func() {
		c.registry.Unregister(c.userID, c)
		c.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Debug().Err(err).Int64("user_id", c.userID).Msg("unexpected websocket close")
			}
			return
		}
	}
}

// writePump writes queued messages and periodic pings to the socket.
func (c *Channel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}

			if !ok {
				// Close queued the channel for teardown.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logging.Debug().Err(err).Int64("user_id", c.userID).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the channel.
func (c *Channel) Start() {
	go c.writePump()
	go c.readPump()
}
