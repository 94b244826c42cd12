// Package live streams scene frames to WebSocket clients and feeds their
// control commands back into the viewer. One server fans out to any number
// of sessions; a dropped connection just re-dials and picks up the next
// frame.
package live

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/tempograph/tempograph/pkg/layout"
	"github.com/tempograph/tempograph/pkg/vis"
)

// Server owns the WebSocket sessions attached to one viewer.
type Server struct {
	viewer   *vis.Viewer
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[uint64]*session
	nextID   uint64

	seq atomic.Uint64
}

type session struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

// NewServer attaches a streaming server to the viewer. Frames are encoded
// on the viewer's loop; writing happens on per-session pumps.
func NewServer(v *vis.Viewer) *Server {
	s := &Server{
		viewer: v,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[uint64]*session),
	}
	v.OnRender(s.broadcastFrame)
	return s
}

// HandleWebSocket upgrades the request and runs the session pumps.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.nextID++
	sess := &session{
		id:   s.nextID,
		conn: conn,
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	go s.writePump(sess)
	go s.readPump(sess)
}

// SessionCount returns the number of connected clients.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// broadcastFrame runs on the viewer loop after every frame.
func (s *Server) broadcastFrame(v *vis.Viewer) {
	s.mu.RLock()
	n := len(s.sessions)
	s.mu.RUnlock()
	if n == 0 {
		return
	}

	win := v.StateSnapshot().Window
	raw, err := EncodeScene(v.Scene(), win, s.seq.Add(1))
	if err != nil {
		log.Printf("[live] encode frame: %v", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		select {
		case sess.send <- raw:
		default:
			// Slow client: drop the frame rather than stall the loop.
		}
	}
}

func (s *Server) writePump(sess *session) {
	defer s.close(sess)
	for {
		select {
		case raw := <-sess.send:
			if err := sess.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		case <-sess.done:
			return
		}
	}
}

func (s *Server) readPump(sess *session) {
	defer s.close(sess)
	for {
		_, raw, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}
		cmd, err := DecodeCommand(raw)
		if err != nil {
			log.Printf("[live] bad command from session %d: %v", sess.id, err)
			continue
		}
		s.dispatch(cmd)
	}
}

// dispatch maps a client command onto exactly one public viewer operation.
func (s *Server) dispatch(cmd Command) {
	v := s.viewer
	switch cmd.Op {
	case "time":
		if sl := v.Slider(); sl != nil {
			sl.SetTime(cmd.Value)
		}
	case "past":
		if sl := v.Slider(); sl != nil {
			sl.PastUpdate(cmd.Value)
		}
	case "aggregation":
		if sl := v.Slider(); sl != nil {
			sl.AggregationUpdate(cmd.Value)
		}
	case "future":
		if sl := v.Slider(); sl != nil {
			sl.FutureUpdate(cmd.Value)
		}
	case "play":
		if sl := v.Slider(); sl != nil {
			sl.Play()
		}
	case "pause":
		if sl := v.Slider(); sl != nil {
			sl.Pause()
		}
	case "zoom":
		v.UpdateZoom(vis.ZoomDirection(cmd.Mode))
	case "layout":
		v.UpdateLayout(layout.Mode(cmd.Mode))
	case "filter":
		v.UpdateFilter(cmd.Group)
	case "search":
		v.UpdateSearch(cmd.Query)
	case "hover":
		v.Hover(cmd.UID)
	case "unhover":
		v.Unhover()
	case "dragstart":
		v.DragStart(cmd.UID, cmd.X, cmd.Y)
	case "drag":
		v.Drag(cmd.X, cmd.Y)
	case "dragend":
		v.DragEnd()
	default:
		log.Printf("[live] unknown op %q", cmd.Op)
	}
}

func (s *Server) close(sess *session) {
	sess.once.Do(func() {
		close(sess.done)
		sess.conn.Close()
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
	})
}
