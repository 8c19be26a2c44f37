package transport

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/udisondev/arenacore/internal/entitystore"
)

// reliableQueueDepth bounds how far a reliable send can get ahead of a
// slow client before the session is reset rather than let ordering slip.
const reliableQueueDepth = 256

// malformedDisconnectThreshold is the per-session malformed-message count
// past which the connection is dropped, per spec §7.
const malformedDisconnectThreshold = 20

// Session is one connected client: its WebSocket, its pre-join state
// (class selection, ready), and the outbound delivery machinery the
// Event Reliability Classifier requires — a strict FIFO queue for
// reliable events and a single always-overwritten slot for best-effort
// ones. Grounded on Mikko-Finell's hub.go subscriber (per-connection
// mutex-guarded conn, ack bookkeeping) generalized into two delivery
// lanes instead of one.
type Session struct {
	id   string
	conn *websocket.Conn

	playerID  string
	className entitystore.CharacterClass
	joined    bool
	ready     bool

	reliableCh chan []byte
	wake       chan struct{}

	mu               sync.Mutex
	pendingBestEffort []byte
	malformedCount    int

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(id string, conn *websocket.Conn) *Session {
	return &Session{
		id:         id,
		conn:       conn,
		reliableCh: make(chan []byte, reliableQueueDepth),
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// sendReliable enqueues a reliable frame. If the queue is saturated the
// session can no longer guarantee in-order delivery, so per spec §9 it is
// reset rather than silently reordered or dropped.
func (s *Session) sendReliable(frame []byte) {
	select {
	case s.reliableCh <- frame:
	case <-s.done:
	default:
		slog.Warn("reliable outbox saturated, resetting session", "session", s.id)
		s.Close()
	}
}

// sendBestEffort replaces whatever best-effort frame is currently
// pending; only the latest ever reaches the wire.
func (s *Session) sendBestEffort(frame []byte) {
	s.mu.Lock()
	s.pendingBestEffort = frame
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// send routes an encoded frame through the Event Reliability Classifier
// (reliability.go): this is the one place outgoing frames are handed to
// either delivery lane, so classification stays centralized instead of
// being decided again at each call site.
func (s *Session) send(msgType string, frame []byte) {
	if classify(msgType) == bestEffort {
		s.sendBestEffort(frame)
		return
	}
	s.sendReliable(frame)
}

// writePump is the sole goroutine allowed to call conn.WriteMessage,
// since gorilla/websocket forbids concurrent writers. Reliable frames
// are drained ahead of best-effort ones whenever both are pending.
func (s *Session) writePump() {
	for {
		select {
		case frame, ok := <-s.reliableCh:
			if !ok {
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.Close()
				return
			}
			continue
		default:
		}

		select {
		case frame, ok := <-s.reliableCh:
			if !ok {
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.Close()
				return
			}
		case <-s.wake:
			s.mu.Lock()
			frame := s.pendingBestEffort
			s.pendingBestEffort = nil
			s.mu.Unlock()
			if frame == nil {
				continue
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump decodes inbound envelopes and hands them to dispatch. It
// returns once the connection errors or closes, at which point the
// caller runs disconnect cleanup.
func (s *Session) readPump(dispatch func(*Session, envelope)) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.mu.Lock()
			s.malformedCount++
			exceeded := s.malformedCount > malformedDisconnectThreshold
			s.mu.Unlock()
			if exceeded {
				return
			}
			continue
		}

		dispatch(s, env)
	}
}

// Close shuts the session down exactly once: closes the socket and stops
// the write pump. Safe to call from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}
