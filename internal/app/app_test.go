package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"peerpass/internal/app"
	"peerpass/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := app.Load(home)
	require.NoError(t, err)
	require.Equal(t, home, cfg.Home)
	require.Empty(t, cfg.RelayURL)
	require.Equal(t, 5*time.Second, cfg.Interval)
	require.True(t, cfg.Discovery)
}

func TestNew_WiresInProcessStack(t *testing.T) {
	cfg, err := app.Load(t.TempDir())
	require.NoError(t, err)

	a, err := app.New(context.Background(), cfg, "test-pass", nil)
	require.NoError(t, err)
	defer a.Close()

	require.True(t, a.Vault.IsUnlocked())
	require.NotNil(t, a.Identity)

	// Nothing created yet: identity resolution reports absence, not failure.
	_, err = a.Identity.OwnIdentity(context.Background())
	require.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

func TestNew_WrongPassphrase(t *testing.T) {
	home := t.TempDir()
	cfg, err := app.Load(home)
	require.NoError(t, err)

	a, err := app.New(context.Background(), cfg, "first-pass", nil)
	require.NoError(t, err)
	// Autosave writes the vault file on first mutation.
	require.NoError(t, a.Vault.Set("probe", []byte("x")))
	a.Close()

	_, err = app.New(context.Background(), cfg, "other-pass", nil)
	require.Error(t, err)
}
