package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Issuer:     "identity",
		Audience:   []string{"api"},
		Algorithm:  "EdDSA",
		KeyID:      "primary",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 168 * time.Hour,

		PrivateKeyFile: "/etc/identity/signing.pem",
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validConfig().Validate())

	t.Run("issuer required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Issuer = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("audience required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Audience = nil
		require.Error(t, cfg.Validate())
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		cfg := validConfig()
		cfg.Algorithm = "RS256"
		require.Error(t, cfg.Validate())
	})

	t.Run("EdDSA needs key material or explicit dev mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.PrivateKeyFile = ""
		require.Error(t, cfg.Validate())

		cfg.DevInsecure = true
		require.NoError(t, cfg.Validate())
	})

	t.Run("HS256 needs a secret or explicit dev mode", func(t *testing.T) {
		cfg := validConfig()
		cfg.Algorithm = "HS256"
		cfg.PrivateKeyFile = ""
		require.Error(t, cfg.Validate())

		cfg.SecretKey = "0123456789abcdef0123456789abcdef"
		require.NoError(t, cfg.Validate())
	})

	t.Run("non-positive lifetimes rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccessTTL = 0
		require.Error(t, cfg.Validate())
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "EdDSA", cfg.Algorithm)
	require.Equal(t, "primary", cfg.KeyID)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 168*time.Hour, cfg.RefreshTTL)
	require.Equal(t, "identity.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.DevInsecure)
}
