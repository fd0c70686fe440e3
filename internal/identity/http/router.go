package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arliden/identity/internal/identity/service"
	"github.com/arliden/identity/internal/identity/store"
	"github.com/arliden/identity/pkg/httpx"
	"github.com/arliden/identity/pkg/jwtx"
	"github.com/arliden/identity/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySource
	validator    *jwtx.Validator
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	TokenService *service.TokenService
	UserService  *service.UserService
	RolesService *service.RolesService
}

func NewRouter(
	keys *jwtx.KeySource,
	validator *jwtx.Validator,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		validator:    validator,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{
		UserService:  r.UserService,
		TokenService: r.TokenService,
	}
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP + submitted username to slow
	// brute force against a single account
	loginHandler := &LoginHandler{
		UserService:  r.UserService,
		TokenService: r.TokenService,
	}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	// POST /token - the refresh exchange, strict limit by IP
	exchangeHandler := &ExchangeHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/auth/token",
		httpx.Chain(exchangeHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /logout - requires a live access token
	logoutHandler := &LogoutHandler{TokenService: r.TokenService}
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(logoutHandler,
			httpx.AuthnMiddleware(r.validator),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /userinfo - authenticated, scope-gated read
	userInfoHandler := &UserInfoHandler{
		UserService:  r.UserService,
		RolesService: r.RolesService,
	}
	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(userInfoHandler,
			httpx.AuthnMiddleware(r.validator),
			httpx.RequireAnyScope("profile:read"),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// GET /keys - public verification key discovery
	r.Mux.Handle("GET /keys",
		httpx.Chain(KeysHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
