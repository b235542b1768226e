package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "academy-local", cfg.NetworkName)
	require.Equal(t, "XPS1", cfg.GenesisMint)
	require.FileExists(t, path)

	// The default placeholders fail validation until real addresses land.
	require.NoError(t, cfg.Validate())
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
DataDir = "/var/lib/academy"
NetworkName = "academy-test"
Authority = "0x0000000000000000000000000000000000000001"
BackendSigner = "0x0000000000000000000000000000000000000002"
GenesisMint = "XPS1"
MaxDailyXP = 1000
MaxAchievementXP = 250
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "academy-test", cfg.NetworkName)
	require.Equal(t, uint64(1000), cfg.MaxDailyXP)

	authority, err := ParseAddress(cfg.Authority)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), authority[19])
}

func TestLoadRejectsBadAddress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
Authority = "not-an-address"
BackendSigner = "0x0000000000000000000000000000000000000002"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x00000000000000000000000000000000000000ff")
	require.NoError(t, err)
	require.Equal(t, byte(0xff), addr[19])

	_, err = ParseAddress("0x1234")
	require.Error(t, err)
}
