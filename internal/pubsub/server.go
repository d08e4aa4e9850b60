package pubsub

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server is the relay hub: it upgrades inbound websockets and fans published
// frames out to every connection subscribed to the frame's topic, except the
// publisher's own connection.
type Server struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	topics map[string]map[*serverConn]struct{}
}

// NewServer returns a hub ready to be mounted as an http.Handler.
func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log: log,
		upgrader: websocket.Upgrader{
			// Relay peers are not browsers; skip Origin checks.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		topics: make(map[string]map[*serverConn]struct{}),
	}
}

type serverConn struct {
	id   string
	conn *websocket.Conn
	send chan frame
	once sync.Once
}

func (c *serverConn) close() {
	c.once.Do(func() { close(c.send) })
}

// ServeHTTP upgrades the request and runs the connection until it drops.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &serverConn{
		id:   uuid.NewString(),
		conn: ws,
		send: make(chan frame, subscriptionBuffer),
	}
	s.log.Info("peer connected", zap.String("conn", c.id), zap.String("remote", r.RemoteAddr))

	go s.writePump(c)
	s.readPump(c)

	s.detach(c)
	c.close()
	ws.Close()
	s.log.Info("peer disconnected", zap.String("conn", c.id))
}

func (s *Server) readPump(c *serverConn) {
	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			return
		}
		switch f.Op {
		case opSubscribe:
			s.subscribe(c, f.Topic)
		case opUnsubscribe:
			s.unsubscribe(c, f.Topic)
		case opPublish:
			s.broadcast(c, f)
		case opDiscover:
			// The hub already routes by topic; nothing further to arrange.
			s.log.Debug("discover", zap.String("conn", c.id), zap.String("topic", f.Topic))
		default:
			s.log.Debug("unknown frame op", zap.String("op", f.Op))
		}
	}
}

func (s *Server) writePump(c *serverConn) {
	for f := range c.send {
		if err := c.conn.WriteJSON(f); err != nil {
			return
		}
	}
}

func (s *Server) subscribe(c *serverConn, topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.topics[topic] == nil {
		s.topics[topic] = make(map[*serverConn]struct{})
	}
	s.topics[topic][c] = struct{}{}
}

func (s *Server) unsubscribe(c *serverConn, topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subs, ok := s.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(s.topics, topic)
		}
	}
}

func (s *Server) broadcast(from *serverConn, f frame) {
	out := frame{Op: opMessage, Topic: f.Topic, From: f.From, Data: f.Data}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.topics[f.Topic] {
		if c == from {
			continue
		}
		select {
		case c.send <- out:
		default:
			s.log.Debug("dropping frame for slow connection",
				zap.String("conn", c.id), zap.String("topic", f.Topic))
		}
	}
}

// detach removes the connection from every topic it joined.
func (s *Server) detach(c *serverConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for topic, subs := range s.topics {
		delete(subs, c)
		if len(subs) == 0 {
			delete(s.topics, topic)
		}
	}
}
