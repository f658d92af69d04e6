package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadParsesHCLAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.hcl")
	body := `
server {
  address = "0.0.0.0:9000"
}

table "main" {
  small_blind = 5
  big_blind   = 10
}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", cfg.Server.Address)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Len(t, cfg.Tables, 1)
	require.EqualValues(t, 1000, cfg.Tables[0].InitialStack)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadBlinds(t *testing.T) {
	cfg := &Config{Tables: []TableSpec{{Name: "main", SmallBlind: 10, BigBlind: 5, InitialStack: 100}}}
	require.Error(t, cfg.Validate())
}
