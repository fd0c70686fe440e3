package app

import (
	"fmt"
	"log/slog"

	"github.com/arliden/identity/pkg/jwtx"
)

// InitSigningKeys resolves the key material for the configured algorithm
// and builds the Writer/Validator pair around it.
//
// Real material always wins. The ephemeral path only engages when
// AUTH_DEV_INSECURE is set and no material is configured: it generates
// throwaway material for the configured algorithm, which means every
// token dies with the process. Useful for local development, never for
// anything else.
func InitSigningKeys(cfg Config, logger *slog.Logger) (*jwtx.KeySource, *jwtx.Writer, *jwtx.Validator, error) {
	var (
		keys *jwtx.KeySource
		err  error
	)

	haveMaterial := cfg.SecretKey != "" || cfg.PrivateKeyFile != ""
	if !haveMaterial && cfg.DevInsecure {
		logger.Warn("AUTH_DEV_INSECURE set: using an ephemeral signing key, all tokens invalidate on restart")
		keys, err = jwtx.NewEphemeralKeySource(cfg.Algorithm, cfg.KeyID)
	} else {
		keys, err = jwtx.LoadKeyMaterial(jwtx.MaterialConfig{
			Algorithm:      cfg.Algorithm,
			KeyID:          cfg.KeyID,
			Secret:         cfg.SecretKey,
			PrivateKeyFile: cfg.PrivateKeyFile,
			Passphrase:     cfg.PrivateKeyPassphrase,
		})
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load signing keys: %w", err)
	}

	writer, err := jwtx.NewWriter(keys, cfg.Issuer, cfg.Audience, cfg.AccessTTL, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	validator, err := jwtx.NewValidator(keys, cfg.Issuer, cfg.Audience, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Info("signing keys initialized",
		slog.String("alg", keys.Alg()),
		slog.String("kid", keys.KID()),
	)
	return keys, writer, validator, nil
}
