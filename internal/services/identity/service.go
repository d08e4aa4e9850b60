package identity

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"peerpass/internal/crypto"
	"peerpass/internal/domain"
	"peerpass/internal/namegen"
)

// IdentityTopic is the well-known broadcast topic identities are announced on.
const IdentityTopic = "peerpass/identity/broadcast"

// VaultKeyKeypair is the vault key holding the signing keypair. It is
// written at init time, before any identity exists.
const VaultKeyKeypair = "keypair"

// Well-known vault keys used by the engine.
const (
	vaultKeyIdentity = "identity"
	vaultKeyFriends  = "friends-anchor"
	vaultKeyBlocked  = "blocked-anchor"
)

const (
	// DefaultBroadcastInterval is used when Config.Interval is zero.
	DefaultBroadcastInterval = 5 * time.Second

	// shortIDMax bounds the random discriminator assigned at creation.
	shortIDMax = 9999
)

// Config wires the engine's collaborators.
type Config struct {
	Vault  domain.Vault
	Blocks domain.BlockStore
	Bus    domain.PubSub

	// Discovery enables a fire-and-forget peer discovery attempt for the
	// identity topic at construction.
	Discovery bool

	// Interval between periodic self-identity broadcasts.
	Interval time.Duration

	Logger  *zap.Logger
	Clock   clock.Clock // defaults to the wall clock
	Metrics *Metrics    // defaults to unregistered counters
}

// Service is the identity synchronization engine. Construct with New; a
// Service is shared by reference and must be torn down with Close.
type Service struct {
	vault  domain.Vault
	blocks domain.BlockStore
	bus    domain.PubSub

	log      *zap.Logger
	clock    clock.Clock
	metrics  *Metrics
	interval time.Duration

	selfMu sync.RWMutex
	self   *domain.Identity

	cacheMu sync.RWMutex
	cache   []domain.Identity

	// started gates the background loop: until the self identity exists the
	// loop is alive but inert. Cleared again on Close.
	started atomic.Bool

	sub       domain.Subscription
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// New builds the engine and starts its background sync loop.
//
// If a self identity is already resolvable it is loaded and broadcasting
// begins immediately; otherwise the loop stays inert until CreateIdentity
// succeeds. Failure to subscribe to the identity topic fails construction.
func New(ctx context.Context, cfg Config) (*Service, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}

	s := &Service{
		vault:    cfg.Vault,
		blocks:   cfg.Blocks,
		bus:      cfg.Bus,
		log:      log,
		clock:    clk,
		metrics:  metrics,
		interval: interval,
		done:     make(chan struct{}),
	}

	if ident, err := s.OwnIdentity(ctx); err == nil {
		s.setSelf(ident)
		s.started.Store(true)
	}

	sub, err := s.bus.Subscribe(ctx, IdentityTopic)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", IdentityTopic, err)
	}
	s.sub = sub

	// The loop's lifetime is bound to Close, not to the construction context.
	loopCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	if cfg.Discovery {
		go func() {
			if err := s.bus.Discover(loopCtx, IdentityTopic); err != nil {
				s.log.Debug("topic discovery failed", zap.Error(err))
			}
		}()
	}

	go s.run(loopCtx)
	return s, nil
}

// Close stops the background loop cooperatively and releases the
// subscription. It is idempotent and returns once the loop has exited.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.started.Store(false)
		s.cancel()
		<-s.done
		s.sub.Cancel()
	})
}

// CreateIdentity derives a new identity record from the vault keypair,
// persists and pins it (plus empty friends/blocked anchors) in the block
// store, records the content ids in the vault, and starts broadcasting.
//
// An empty username gets a generated default. Creation is not idempotent:
// if an identity is already resolvable the call fails with
// domain.ErrIdentityExists and leaves it intact.
func (s *Service) CreateIdentity(ctx context.Context, username string) (domain.Identity, error) {
	priv, err := s.keypair()
	if err != nil {
		return domain.Identity{}, err
	}

	if _, err := s.OwnIdentity(ctx); err == nil {
		return domain.Identity{}, domain.ErrIdentityExists
	}

	if username == "" {
		username = namegen.Generate()
	}
	shortID, err := randShortID()
	if err != nil {
		return domain.Identity{}, err
	}

	ident := domain.Identity{
		PublicKey: crypto.PublicKeyOf(priv),
		Username:  username,
		ShortID:   shortID,
	}

	raw, err := json.Marshal(ident)
	if err != nil {
		return domain.Identity{}, err
	}

	identCID, err := s.blocks.Put(ctx, raw)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("store identity: %w", err)
	}
	// Anchors are reserved empty blocks; the social graph layers fill them in.
	friendsCID, err := s.blocks.Put(ctx, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("store friends anchor: %w", err)
	}
	blockedCID, err := s.blocks.Put(ctx, nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("store blocked anchor: %w", err)
	}

	for _, id := range []domain.CID{identCID, friendsCID, blockedCID} {
		if err := s.blocks.Pin(ctx, id); err != nil {
			return domain.Identity{}, fmt.Errorf("pin %s: %w", id, err)
		}
	}

	if err := s.vault.Set(vaultKeyIdentity, []byte(identCID)); err != nil {
		return domain.Identity{}, err
	}
	if err := s.vault.Set(vaultKeyFriends, []byte(friendsCID)); err != nil {
		return domain.Identity{}, err
	}
	if err := s.vault.Set(vaultKeyBlocked, []byte(blockedCID)); err != nil {
		return domain.Identity{}, err
	}

	if err := s.UpdateIdentity(ctx); err != nil {
		return domain.Identity{}, err
	}
	s.started.Store(true)

	s.log.Info("identity created",
		zap.String("name", ident.DisplayName()),
		zap.String("key", ident.PublicKey.String()))
	return ident, nil
}

// OwnIdentity resolves the persisted self identity.
//
// Any failure to locate, fetch, or decode the record reads as "no identity"
// rather than surfacing storage corruption. A record whose public key no
// longer matches the vault keypair also reads as absent: it belongs to a key
// we can no longer speak for.
func (s *Service) OwnIdentity(ctx context.Context) (domain.Identity, error) {
	raw, err := s.vault.Retrieve(vaultKeyIdentity)
	if err != nil {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}

	data, err := s.blocks.Get(ctx, domain.CID(raw))
	if err != nil {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}
	var ident domain.Identity
	if err := json.Unmarshal(data, &ident); err != nil {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}

	priv, err := s.keypair()
	if err != nil {
		return domain.Identity{}, err
	}
	if !ident.PublicKey.Equal(crypto.PublicKeyOf(priv)) {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}
	return ident, nil
}

// UpdateIdentity re-reads the persisted identity and atomically replaces the
// in-memory copy the loop broadcasts.
func (s *Service) UpdateIdentity(ctx context.Context) error {
	ident, err := s.OwnIdentity(ctx)
	if err != nil {
		return err
	}
	s.setSelf(ident)
	return nil
}

// LookupBy selects identities during Lookup.
type LookupBy interface {
	matches(domain.Identity) bool
}

// ByPublicKey matches an identity by its public key.
type ByPublicKey domain.PublicKey

func (b ByPublicKey) matches(id domain.Identity) bool {
	return id.PublicKey.Equal(domain.PublicKey(b))
}

// ByUsername matches an identity by its exact username.
type ByUsername string

func (b ByUsername) matches(id domain.Identity) bool {
	return id.Username == string(b)
}

// Lookup searches the self identity first, then the cache in its current
// order; the first match wins. A miss is domain.ErrIdentityNotFound.
func (s *Service) Lookup(by LookupBy) (domain.Identity, error) {
	if self, ok := s.Self(); ok && by.matches(self) {
		return self, nil
	}
	for _, ident := range s.CachedIdentities() {
		if by.matches(ident) {
			return ident, nil
		}
	}
	return domain.Identity{}, domain.ErrIdentityNotFound
}

// Self returns the in-memory self identity, if one is loaded.
func (s *Service) Self() (domain.Identity, bool) {
	s.selfMu.RLock()
	defer s.selfMu.RUnlock()
	if s.self == nil {
		return domain.Identity{}, false
	}
	return *s.self, true
}

// CachedIdentities returns a snapshot of the peer cache in iteration order.
func (s *Service) CachedIdentities() []domain.Identity {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return append([]domain.Identity(nil), s.cache...)
}

func (s *Service) setSelf(ident domain.Identity) {
	s.selfMu.Lock()
	s.self = &ident
	s.selfMu.Unlock()
}

// keypair loads and decodes the signing keypair from the vault.
func (s *Service) keypair() (ed25519.PrivateKey, error) {
	raw, err := s.vault.Retrieve(VaultKeyKeypair)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrKeypairInvalid, err)
	}
	return crypto.DecodeKeypair(raw)
}

// randShortID draws a discriminator in [1, shortIDMax]. Collisions with
// other peers are tolerated; the discriminator only disambiguates display
// names, it is not an identity key.
func randShortID() (uint16, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(shortIDMax))
	if err != nil {
		return 0, err
	}
	return uint16(n.Int64()) + 1, nil
}
