package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"peerpass/internal/blockstore"
	"peerpass/internal/domain"
	"peerpass/internal/pubsub"
	identitysvc "peerpass/internal/services/identity"
	"peerpass/internal/vault"
)

// App bundles the unlocked vault, storage, transport, and engine for the CLI.
type App struct {
	Log      *zap.Logger
	Vault    *vault.Vault
	Blocks   domain.BlockStore
	Bus      domain.PubSub
	Identity *identitysvc.Service
	Registry *prometheus.Registry

	relay *pubsub.Relay
}

// New constructs the dependency graph: it unlocks (or initialises) the vault
// with the passphrase, opens the block store, connects the pub/sub transport
// (in-process when no relay is configured), and starts the identity engine.
func New(ctx context.Context, cfg Config, passphrase string, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	v := vault.New(cfg.VaultPath(), vault.WithAutosave(), vault.WithLogger(log))
	if err := v.Unlock(passphrase); err != nil {
		return nil, err
	}

	blocks, err := blockstore.NewFile(cfg.BlocksDir())
	if err != nil {
		v.Lock()
		return nil, err
	}

	var (
		bus   domain.PubSub
		relay *pubsub.Relay
	)
	if cfg.RelayURL != "" {
		relay, err = pubsub.Dial(ctx, cfg.RelayURL, log)
		if err != nil {
			v.Lock()
			return nil, err
		}
		bus = relay
	} else {
		bus = pubsub.NewMemory(log)
	}

	registry := prometheus.NewRegistry()
	engine, err := identitysvc.New(ctx, identitysvc.Config{
		Vault:     v,
		Blocks:    blocks,
		Bus:       bus,
		Discovery: cfg.Discovery,
		Interval:  cfg.Interval,
		Logger:    log,
		Metrics:   identitysvc.NewMetrics(registry),
	})
	if err != nil {
		if relay != nil {
			relay.Close()
		}
		v.Lock()
		return nil, err
	}

	return &App{
		Log:      log,
		Vault:    v,
		Blocks:   blocks,
		Bus:      bus,
		Identity: engine,
		Registry: registry,
		relay:    relay,
	}, nil
}

// Close stops the engine, disconnects the relay if any, and locks the vault.
func (a *App) Close() {
	a.Identity.Close()
	if a.relay != nil {
		a.relay.Close()
	}
	a.Vault.Lock()
}
