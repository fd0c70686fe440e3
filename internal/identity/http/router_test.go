package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/arliden/identity/internal/identity/service"
	"github.com/arliden/identity/internal/identity/store/drivers/sqlite"
	"github.com/arliden/identity/pkg/api"
	"github.com/arliden/identity/pkg/jwtx"
	"github.com/arliden/identity/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		filepath.Join(t.TempDir(), "identity.db"),
	)
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.NewEphemeralKeySource(jwtx.AlgEdDSA, "test")
	require.NoError(t, err)
	writer, err := jwtx.NewWriter(keys, "identity-test", []string{"api"}, 15*time.Minute, nil)
	require.NoError(t, err)
	validator, err := jwtx.NewValidator(keys, "identity-test", []string{"api"}, nil)
	require.NoError(t, err)

	logger := slogx.NewWithWriter(io.Discard, slogx.Config{Service: "identity", Env: "test"})

	roles := &service.RolesService{Store: st}

	router := NewRouter(keys, validator, "test", st, logger)
	router.UserService = &service.UserService{Store: st}
	router.RolesService = roles
	router.TokenService = &service.TokenService{
		Writer:     writer,
		Validator:  validator,
		Roles:      roles,
		Store:      st,
		RefreshTTL: 24 * time.Hour,
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodePair(t *testing.T, resp *http.Response) api.TokenPairResponse {
	t.Helper()

	var pair api.TokenPairResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pair))
	require.NotEmpty(t, pair.AccessToken.Token)
	require.NotEmpty(t, pair.RefreshToken)
	require.Positive(t, pair.AccessToken.ExpiresIn)
	return pair
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	// Register returns a usable token pair straight away.
	resp := postJSON(t, srv.URL+"/v1/auth/register", api.RegisterRequest{
		Username: "alice",
		Password: "s3cret-password",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decodePair(t, resp)

	// Duplicate registration conflicts.
	resp = postJSON(t, srv.URL+"/v1/auth/register", api.RegisterRequest{
		Username: "alice",
		Password: "other-password",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login with the same credentials.
	resp = postJSON(t, srv.URL+"/v1/auth/login", api.LoginRequest{
		Username: "alice",
		Password: "s3cret-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loggedIn := decodePair(t, resp)

	// Exchange rotates the refresh token.
	resp = postJSON(t, srv.URL+"/v1/auth/token", api.ExchangeRequest{
		AccessToken:  loggedIn.AccessToken.Token,
		RefreshToken: loggedIn.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := decodePair(t, resp)
	require.NotEqual(t, loggedIn.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed refresh token is a generic 401.
	resp = postJSON(t, srv.URL+"/v1/auth/token", api.ExchangeRequest{
		AccessToken:  loggedIn.AccessToken.Token,
		RefreshToken: loggedIn.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var apiErr struct {
		Code string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
	require.Equal(t, "invalid_grant", apiErr.Code)

	// Logout revokes everything, including the pair from registration.
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+rotated.AccessToken.Token)

	logoutResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer logoutResp.Body.Close()
	require.Equal(t, http.StatusNoContent, logoutResp.StatusCode)

	resp = postJSON(t, srv.URL+"/v1/auth/token", api.ExchangeRequest{
		AccessToken:  registered.AccessToken.Token,
		RefreshToken: registered.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserInfo(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/auth/register", api.RegisterRequest{
		Username:      "alice",
		Password:      "s3cret-password",
		PreferredName: "Alice A.",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	pair := decodePair(t, resp)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/userinfo", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken.Token)

	infoResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer infoResp.Body.Close()
	require.Equal(t, http.StatusOK, infoResp.StatusCode)

	var info api.UserInfoResponse
	require.NoError(t, json.NewDecoder(infoResp.Body).Decode(&info))
	require.Equal(t, "alice", info.Username)
	require.Equal(t, "Alice A.", info.PreferredName)
	require.Equal(t, "member", info.Role)

	t.Run("requires a bearer token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/userinfo")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestExchangeRejectsMalformedRequests(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/v1/auth/token", map[string]string{"accessToken": "only-half"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err := http.Post(srv.URL+"/v1/auth/token", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/auth/logout", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestKeysEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/keys")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var set jwtx.JWKS
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&set))
	require.Len(t, set.Keys, 1)
	require.Equal(t, "OKP", set.Keys[0].Kty)
	require.Equal(t, jwtx.AlgEdDSA, set.Keys[0].Alg)
	require.NotEmpty(t, set.Keys[0].X)
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, path)

		var health api.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		require.Equal(t, "ok", health.Status)
	}
}
