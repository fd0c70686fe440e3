package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/arliden/identity/pkg/cryptox"
)

// MaterialConfig describes where signing key material comes from: an inline
// secret for HS256, or a PEM file (optionally passphrase-encrypted) for
// EdDSA. Resolved exactly once, at startup.
type MaterialConfig struct {
	Algorithm      string
	KeyID          string
	Secret         string // inline HS256 secret
	PrivateKeyFile string // path to a PKCS8 Ed25519 private key
	Passphrase     string // optional, decrypts PrivateKeyFile
}

// LoadKeyMaterial resolves a KeySource from configuration. All failure modes
// here are configuration errors and should abort startup.
func LoadKeyMaterial(cfg MaterialConfig) (*KeySource, error) {
	switch cfg.Algorithm {
	case AlgHS256:
		if cfg.Secret == "" {
			return nil, fmt.Errorf("%w: HS256 requires an inline secret", ErrConfig)
		}
		return NewSymmetricKeySource(cfg.KeyID, []byte(cfg.Secret))

	case AlgEdDSA:
		if cfg.PrivateKeyFile == "" {
			return nil, fmt.Errorf("%w: EdDSA requires a private key file", ErrConfig)
		}
		data, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: read private key: %v", ErrConfig, err)
		}
		if cfg.Passphrase != "" {
			data, err = cryptox.DecryptPrivateKey(data, []byte(cfg.Passphrase))
			if err != nil {
				return nil, fmt.Errorf("%w: decrypt private key: %v", ErrConfig, err)
			}
		}
		pair, err := ParseEd25519PrivateKeyPEM(data)
		if err != nil {
			return nil, err
		}
		return NewEd25519KeySource(cfg.KeyID, pair)

	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q (supported: HS256, EdDSA)", ErrConfig, cfg.Algorithm)
	}
}

// ParseEd25519PrivateKeyPEM parses a PKCS8 PEM block into a keypair.
func ParseEd25519PrivateKeyPEM(pemBytes []byte) (*Ed25519KeyPair, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("%w: invalid PEM for ed25519 key", ErrConfig)
	}
	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("%w: expected PRIVATE KEY block, got %q (ed25519 requires PKCS8)", ErrConfig, block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parse PKCS8: %v", ErrConfig, err)
	}
	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an ed25519 private key", ErrConfig)
	}

	return &Ed25519KeyPair{
		Public:  key.Public().(ed25519.PublicKey),
		Private: key,
	}, nil
}

// NewEphemeralKeySource generates throwaway signing material in memory for
// the given algorithm: a random secret for HS256, a fresh keypair for
// EdDSA. Only reachable behind the explicit insecure-dev flag; all issued
// tokens die with the process.
func NewEphemeralKeySource(alg, kid string) (*KeySource, error) {
	switch alg {
	case AlgHS256:
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("jwtx: generate ephemeral secret: %w", err)
		}
		return NewSymmetricKeySource(kid, secret)

	case AlgEdDSA:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("jwtx: generate ephemeral key: %w", err)
		}
		return NewEd25519KeySource(kid, &Ed25519KeyPair{Public: pub, Private: priv})

	default:
		return nil, fmt.Errorf("%w: unsupported algorithm %q (supported: HS256, EdDSA)", ErrConfig, alg)
	}
}
