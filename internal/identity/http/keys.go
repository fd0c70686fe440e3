package http

import (
	"net/http"

	"github.com/arliden/identity/pkg/httpx"
	"github.com/arliden/identity/pkg/jwtx"
)

// KeysHandler exposes the verification key set for token consumers.
//
// For the symmetric algorithm this includes the shared secret, so the
// endpoint is only suitable for trusted internal networks; for Ed25519
// only the public key is published.
func KeysHandler(keys *jwtx.KeySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.PublicJWKS())
	}
}
