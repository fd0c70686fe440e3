package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
)

// MinSecretLen is the minimum accepted HS256 secret length in bytes.
const MinSecretLen = 32

// KeySource owns the process's signing key material: one algorithm, one key
// id, and either a symmetric secret or an Ed25519 keypair. It is built once
// at startup and never mutated afterwards, so it is safe to share across
// request goroutines without locks.
type KeySource struct {
	alg    string
	kid    string
	secret []byte
	pair   *Ed25519KeyPair
}

// NewSymmetricKeySource builds an HS256 key source from an inline secret.
func NewSymmetricKeySource(kid string, secret []byte) (*KeySource, error) {
	if kid == "" {
		return nil, fmt.Errorf("%w: key id is required", ErrConfig)
	}
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("%w: secret must be at least %d bytes, got %d", ErrConfig, MinSecretLen, len(secret))
	}
	return &KeySource{alg: AlgHS256, kid: kid, secret: secret}, nil
}

// NewEd25519KeySource builds an EdDSA key source and registers the Ed25519
// strategy so parse paths can resolve the algorithm by name.
func NewEd25519KeySource(kid string, pair *Ed25519KeyPair) (*KeySource, error) {
	if kid == "" {
		return nil, fmt.Errorf("%w: key id is required", ErrConfig)
	}
	if pair == nil || len(pair.Public) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key is required", ErrConfig)
	}
	RegisterEd25519()
	return &KeySource{alg: AlgEdDSA, kid: kid, pair: pair}, nil
}

// Alg returns the configured algorithm identifier (HS256 or EdDSA).
func (k *KeySource) Alg() string { return k.alg }

// Kty returns the JWK key type for the configured algorithm.
func (k *KeySource) Kty() string {
	if k.alg == AlgHS256 {
		return "oct"
	}
	return "OKP"
}

// KID returns the base64url-encoded key id, the form used both in token
// headers and in the published key set.
func (k *KeySource) KID() string {
	return base64.RawURLEncoding.EncodeToString([]byte(k.kid))
}

// SigningKey returns the key handle passed to the signing method:
// the raw secret for HS256, the keypair for EdDSA.
func (k *KeySource) SigningKey() any {
	if k.alg == AlgHS256 {
		return k.secret
	}
	return k.pair
}

// VerificationKey returns the key handle used during parse. For EdDSA this
// works with a verify-only pair; for HS256 it is the shared secret.
func (k *KeySource) VerificationKey() any {
	return k.SigningKey()
}

// Base64Secret returns the base64url-encoded symmetric secret. Only valid
// in HS256 mode.
func (k *KeySource) Base64Secret() (string, error) {
	if k.alg != AlgHS256 {
		return "", errors.New("jwtx: no symmetric secret in " + k.alg + " mode")
	}
	return base64.RawURLEncoding.EncodeToString(k.secret), nil
}

// CanSign reports whether the source holds enough material to sign.
func (k *KeySource) CanSign() bool {
	if k.alg == AlgHS256 {
		return len(k.secret) >= MinSecretLen
	}
	return k.pair.CanSign()
}

// Validate sanity-checks the loaded material.
func (k *KeySource) Validate() error {
	switch k.alg {
	case AlgHS256:
		if len(k.secret) < MinSecretLen {
			return fmt.Errorf("%w: secret too short", ErrConfig)
		}
	case AlgEdDSA:
		if k.pair == nil || len(k.pair.Public) != ed25519.PublicKeySize {
			return fmt.Errorf("%w: missing ed25519 public key", ErrConfig)
		}
		if k.pair.Private != nil && len(k.pair.Private) != ed25519.PrivateKeySize {
			return fmt.Errorf("%w: bad ed25519 private key size", ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported algorithm %q", ErrConfig, k.alg)
	}
	return nil
}
