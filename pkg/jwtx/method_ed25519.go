package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// Supported signing algorithms.
const (
	AlgHS256 = "HS256"
	AlgEdDSA = "EdDSA"
)

// Ed25519KeyPair is the key handle consumed by the Ed25519 signing method.
// Private may be nil for verify-only deployments (resource services that
// fetch the public key from the key set endpoint).
type Ed25519KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// CanSign reports whether the pair carries the private half.
func (p *Ed25519KeyPair) CanSign() bool {
	return p != nil && len(p.Private) == ed25519.PrivateKeySize
}

var errEd25519Verification = errors.New("jwtx: ed25519 signature verification failed")

// signingMethodEd25519 is our own Ed25519 implementation of jwt.SigningMethod.
// We don't use the library's built-in EdDSA method: registering this type
// under the same algorithm name means every jwt.Parse in the process routes
// EdDSA tokens through here, including callers that never import this file's
// constructors. That registry entry is the whole point - verification picks
// the strategy by algorithm name, not by caller knowledge.
type signingMethodEd25519 struct{}

var (
	methodEd25519 = &signingMethodEd25519{}
	registerOnce  sync.Once
)

// RegisterEd25519 installs the Ed25519 strategy into the token library's
// algorithm registry. Safe to call repeatedly; the first call wins.
func RegisterEd25519() {
	registerOnce.Do(func() {
		jwt.RegisterSigningMethod(AlgEdDSA, func() jwt.SigningMethod {
			return methodEd25519
		})
	})
}

func (m *signingMethodEd25519) Alg() string { return AlgEdDSA }

// Sign produces an Ed25519 signature over the signing string. The key must
// be an *Ed25519KeyPair holding a private key; a verify-only pair yields
// ErrSignerUnavailable rather than a garbage signature.
func (m *signingMethodEd25519) Sign(signingString string, key any) ([]byte, error) {
	pair, ok := key.(*Ed25519KeyPair)
	if !ok {
		return nil, fmt.Errorf("jwtx: %w: want *Ed25519KeyPair, got %T", jwt.ErrInvalidKeyType, key)
	}
	if !pair.CanSign() {
		return nil, ErrSignerUnavailable
	}
	return ed25519.Sign(pair.Private, []byte(signingString)), nil
}

// Verify checks sig against the signing string using only the public key.
func (m *signingMethodEd25519) Verify(signingString string, sig []byte, key any) error {
	var pub ed25519.PublicKey
	switch k := key.(type) {
	case *Ed25519KeyPair:
		pub = k.Public
	case ed25519.PublicKey:
		pub = k
	default:
		return fmt.Errorf("jwtx: %w: want *Ed25519KeyPair or ed25519.PublicKey, got %T", jwt.ErrInvalidKeyType, key)
	}

	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("jwtx: %w: bad ed25519 public key size", jwt.ErrInvalidKey)
	}
	if len(sig) != ed25519.SignatureSize {
		return errEd25519Verification
	}
	if !ed25519.Verify(pub, []byte(signingString), sig) {
		return errEd25519Verification
	}
	return nil
}
