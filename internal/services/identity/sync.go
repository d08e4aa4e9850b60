package identity

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"peerpass/internal/domain"
)

// run is the background sync loop. It races the broadcast subscription
// against the periodic ticker and acts on whichever is ready first; there is
// no polling. The loop exits only on context cancellation (Close) or when
// the subscription channel closes underneath it.
func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	ticker := s.clock.Ticker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-s.sub.Messages():
			if !ok {
				s.log.Warn("identity subscription closed; sync loop exiting")
				return
			}
			if !s.started.Load() {
				continue
			}
			s.ingest(msg.Data)

		case <-ticker.C:
			if !s.started.Load() {
				continue
			}
			s.broadcast(ctx)
		}
	}
}

// ingest folds one received broadcast into the cache.
//
// Order matters: echoes of our own identity are discarded, exact duplicates
// are discarded, and a record sharing a cached entry's public key evicts
// that entry before the new record is appended. The cache therefore holds at
// most one record per key, ordered by recency of last update.
func (s *Service) ingest(data []byte) {
	var ident domain.Identity
	if err := json.Unmarshal(data, &ident); err != nil || ident.PublicKey.IsZero() {
		s.metrics.Malformed.Inc()
		s.log.Debug("discarding malformed identity broadcast", zap.Int("bytes", len(data)))
		return
	}

	if self, ok := s.Self(); ok && self.Equal(ident) {
		s.metrics.Echoes.Inc()
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	for _, cached := range s.cache {
		if cached.Equal(ident) {
			s.metrics.Duplicates.Inc()
			return
		}
	}
	for i, cached := range s.cache {
		if cached.SameKey(ident) {
			s.cache = append(s.cache[:i], s.cache[i+1:]...)
			s.metrics.Replaced.Inc()
			break
		}
	}
	s.cache = append(s.cache, ident)
	s.metrics.Ingested.Inc()
	s.log.Debug("cached peer identity",
		zap.String("peer", ident.DisplayName()),
		zap.Int("cache_size", len(s.cache)))
}

// broadcast publishes the current self identity. Best-effort: a failed
// publish is counted and the next tick tries again.
func (s *Service) broadcast(ctx context.Context) {
	self, ok := s.Self()
	if !ok {
		return
	}
	data, err := json.Marshal(self)
	if err != nil {
		s.log.Warn("self identity does not serialize", zap.Error(err))
		return
	}
	if err := s.bus.Publish(ctx, IdentityTopic, data); err != nil {
		s.metrics.BroadcastFailures.Inc()
		s.log.Debug("identity broadcast failed", zap.Error(err))
		return
	}
	s.metrics.Broadcasts.Inc()
}
