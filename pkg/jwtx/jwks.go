package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
)

// JWK is a single published key descriptor (RFC 7517 shape). Symmetric keys
// use kty "oct" with the secret in k; Ed25519 keys use kty "OKP" with the
// public key in x.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`

	// Symmetric (oct) material
	K string `json:"k,omitempty"`

	// Ed25519 (OKP) material
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
}

// JWKS is the published key set document.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewOctJWK builds a descriptor for a symmetric key. Publishing the shared
// secret only makes sense inside a trusted perimeter; the caller owns that
// decision.
func NewOctJWK(kid, alg string, secret []byte) JWK {
	return JWK{
		Kty: "oct",
		Use: "sig",
		Alg: alg,
		Kid: kid,
		K:   base64.RawURLEncoding.EncodeToString(secret),
	}
}

// NewEd25519JWK builds a descriptor for an Ed25519 public key.
func NewEd25519JWK(kid, alg string, pub ed25519.PublicKey) JWK {
	return JWK{
		Kty: "OKP",
		Use: "sig",
		Alg: alg,
		Kid: kid,
		Crv: "Ed25519",
		X:   base64.RawURLEncoding.EncodeToString(pub),
	}
}

// PublicJWK returns the key set entry for this source's verification
// material.
func (k *KeySource) PublicJWK() JWK {
	if k.alg == AlgHS256 {
		return NewOctJWK(k.KID(), k.alg, k.secret)
	}
	return NewEd25519JWK(k.KID(), k.alg, k.pair.Public)
}

// PublicJWKS builds the published key set document. A single entry today;
// the array shape leaves room for rotation without breaking consumers.
// Rebuilt on every call so a future key swap is never served stale.
func (k *KeySource) PublicJWKS() JWKS {
	return JWKS{Keys: []JWK{k.PublicJWK()}}
}
