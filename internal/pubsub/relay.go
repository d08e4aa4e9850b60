package pubsub

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"peerpass/internal/domain"
)

// Relay is a domain.PubSub backed by a websocket connection to a relay
// server. One socket multiplexes all topics; the client fans incoming msg
// frames out to per-topic subscriptions.
type Relay struct {
	log  *zap.Logger
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex // gorilla allows one concurrent writer

	mu     sync.Mutex
	subs   map[string]map[*relaySub]struct{}
	closed bool
}

// Dial connects to a relay server. Accepts ws://, wss://, http:// and
// https:// URLs; the http forms are rewritten to their websocket scheme.
func Dial(ctx context.Context, rawURL string, log *zap.Logger) (*Relay, error) {
	if log == nil {
		log = zap.NewNop()
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("relay url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("relay url: unsupported scheme %q", u.Scheme)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("relay dial %s: %w", u, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	r := &Relay{
		log:  log,
		id:   uuid.NewString(),
		conn: conn,
		subs: make(map[string]map[*relaySub]struct{}),
	}
	go r.readLoop()
	return r, nil
}

type relaySub struct {
	relay *Relay
	topic string
	ch    chan domain.Message
	once  sync.Once
}

func (s *relaySub) Messages() <-chan domain.Message { return s.ch }

func (s *relaySub) Cancel() {
	s.once.Do(func() {
		s.relay.mu.Lock()
		last := false
		if subs, ok := s.relay.subs[s.topic]; ok {
			delete(subs, s)
			if len(subs) == 0 {
				delete(s.relay.subs, s.topic)
				last = true
			}
		}
		close(s.ch)
		s.relay.mu.Unlock()

		if last {
			// Best-effort; the server also drops us on disconnect.
			_ = s.relay.write(frame{Op: opUnsubscribe, Topic: s.topic})
		}
	})
}

// Subscribe registers interest in topic, telling the server on first use.
func (r *Relay) Subscribe(_ context.Context, topic string) (domain.Subscription, error) {
	sub := &relaySub{
		relay: r,
		topic: topic,
		ch:    make(chan domain.Message, subscriptionBuffer),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, errors.New("relay connection closed")
	}
	first := r.subs[topic] == nil
	if first {
		r.subs[topic] = make(map[*relaySub]struct{})
	}
	r.subs[topic][sub] = struct{}{}
	r.mu.Unlock()

	if first {
		if err := r.write(frame{Op: opSubscribe, Topic: topic}); err != nil {
			sub.Cancel()
			return nil, fmt.Errorf("subscribe %q: %w", topic, err)
		}
	}
	return sub, nil
}

// Publish sends data to every peer subscribed to topic.
func (r *Relay) Publish(_ context.Context, topic string, data []byte) error {
	return r.write(frame{Op: opPublish, Topic: topic, From: r.id, Data: data})
}

// Discover asks the relay to introduce us to other peers on topic. The relay
// treats it as a hint; there is nothing observable to wait for.
func (r *Relay) Discover(_ context.Context, topic string) error {
	return r.write(frame{Op: opDiscover, Topic: topic})
}

// Close tears down the websocket. All subscriptions are cancelled.
func (r *Relay) Close() error {
	err := r.conn.Close()
	r.dropAll()
	return err
}

func (r *Relay) write(f frame) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.conn.WriteJSON(f)
}

func (r *Relay) readLoop() {
	defer r.dropAll()
	for {
		var f frame
		if err := r.conn.ReadJSON(&f); err != nil {
			if !errors.Is(err, websocket.ErrCloseSent) && !strings.Contains(err.Error(), "use of closed") {
				r.log.Debug("relay read loop ended", zap.Error(err))
			}
			return
		}
		if f.Op != opMessage {
			continue
		}
		msg := domain.Message{Topic: f.Topic, From: f.From, Data: f.Data}

		r.mu.Lock()
		for sub := range r.subs[f.Topic] {
			select {
			case sub.ch <- msg:
			default:
				r.log.Debug("dropping message for slow subscriber", zap.String("topic", f.Topic))
			}
		}
		r.mu.Unlock()
	}
}

// dropAll cancels every subscription after the connection is gone.
func (r *Relay) dropAll() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	var all []*relaySub
	for _, subs := range r.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	r.subs = make(map[string]map[*relaySub]struct{})
	r.mu.Unlock()

	for _, sub := range all {
		sub.once.Do(func() { close(sub.ch) })
	}
}

// Compile-time assertion that Relay implements domain.PubSub.
var _ domain.PubSub = (*Relay)(nil)
