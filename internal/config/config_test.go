package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STAKEDASH_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "DOT", cfg.Network.Unit)
	require.EqualValues(t, 10, cfg.Network.Units)
	require.Equal(t, 28, cfg.Network.BondingDurationDays)
	require.True(t, cfg.Network.Connected)
	require.Equal(t, "info", cfg.Log.Level)
	require.Contains(t, cfg.Database.Path, "stakedash.db")
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[network]
name = "Kusama Dev"
unit = "KSM"
units = 12

[wallet]
active_account = "Alice"
`), 0o600))
	t.Setenv("STAKEDASH_NETWORK_BONDING_DURATION_DAYS", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Kusama Dev", cfg.Network.Name)
	require.Equal(t, "KSM", cfg.Network.Unit)
	require.EqualValues(t, 12, cfg.Network.Units)
	require.Equal(t, 7, cfg.Network.BondingDurationDays)
	require.Equal(t, "Alice", cfg.Wallet.ActiveAccount)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[network]\nunits = 60\n"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "network.units")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "nested", "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	cfg.Wallet.ActiveAccount = "Charlie"
	require.NoError(t, Save(cfg, path))

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Charlie", again.Wallet.ActiveAccount)
	require.Equal(t, cfg.Network, again.Network)
}
