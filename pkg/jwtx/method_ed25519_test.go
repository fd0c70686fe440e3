package jwtx

import (
	"crypto/ed25519"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestPair(t *testing.T) *Ed25519KeyPair {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return &Ed25519KeyPair{Public: pub, Private: priv}
}

func TestRegisterEd25519InstallsStrategy(t *testing.T) {
	RegisterEd25519()

	method := jwt.GetSigningMethod(AlgEdDSA)
	require.NotNil(t, method)
	require.Equal(t, AlgEdDSA, method.Alg())

	// The registry must hand back our implementation, not the library's
	// builtin: it has to accept *Ed25519KeyPair key handles.
	pair := newTestPair(t)
	sig, err := method.Sign("header.payload", pair)
	require.NoError(t, err)
	require.NoError(t, method.Verify("header.payload", sig, pair))
}

func TestEd25519SignVerify(t *testing.T) {
	t.Parallel()

	pair := newTestPair(t)

	sig, err := methodEd25519.Sign("signing input", pair)
	require.NoError(t, err)
	require.Len(t, sig, ed25519.SignatureSize)

	t.Run("valid signature verifies", func(t *testing.T) {
		require.NoError(t, methodEd25519.Verify("signing input", sig, pair))
	})

	t.Run("bare public key verifies too", func(t *testing.T) {
		require.NoError(t, methodEd25519.Verify("signing input", sig, pair.Public))
	})

	t.Run("tampered input fails", func(t *testing.T) {
		require.Error(t, methodEd25519.Verify("different input", sig, pair))
	})

	t.Run("truncated signature fails", func(t *testing.T) {
		require.Error(t, methodEd25519.Verify("signing input", sig[:10], pair))
	})

	t.Run("wrong key fails", func(t *testing.T) {
		require.Error(t, methodEd25519.Verify("signing input", sig, newTestPair(t)))
	})
}

func TestEd25519SignWithoutPrivateKey(t *testing.T) {
	t.Parallel()

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, err = methodEd25519.Sign("signing input", &Ed25519KeyPair{Public: pub})
	require.ErrorIs(t, err, ErrSignerUnavailable)
}

func TestEd25519RejectsForeignKeyTypes(t *testing.T) {
	t.Parallel()

	_, err := methodEd25519.Sign("signing input", "not a key")
	require.ErrorIs(t, err, jwt.ErrInvalidKeyType)

	require.ErrorIs(t, methodEd25519.Verify("signing input", nil, 42), jwt.ErrInvalidKeyType)
}
