package handler

import (
	"net/http"

	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

// Services bundles what the HTTP layer needs.
type Services struct {
	Auth         *service.AuthService
	Sessions     *service.SessionService
	Stats        *service.StatsService
	LoginLimiter *service.TokenBucket
	DB           Pinger
	CookieSecure bool
	// TrustProxy keys the login limiter on X-Forwarded-For.
	TrustProxy bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, svc Services) {
	authHandler := NewAuthHandler(svc.Auth, svc.CookieSecure)
	sessionHandler := NewSessionHandler(svc.Sessions, svc.Stats)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(svc.Auth, h)
	}
	limited := func(h http.HandlerFunc) http.Handler {
		if svc.LoginLimiter == nil {
			return h
		}
		return RateLimit(svc.LoginLimiter, svc.TrustProxy, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(svc.DB))

	mux.Handle("POST /api/auth/register", limited(authHandler.HandleRegister))
	mux.Handle("POST /api/auth/login", limited(authHandler.HandleLogin))
	mux.HandleFunc("POST /api/auth/logout", authHandler.HandleLogout)
	mux.Handle("GET /api/auth/me", requireAuth(authHandler.HandleMe))

	mux.Handle("GET /api/sessions", requireAuth(sessionHandler.HandleList))
	mux.Handle("POST /api/sessions", requireAuth(sessionHandler.HandleCreate))
	mux.Handle("GET /api/sessions/stats", requireAuth(sessionHandler.HandleStats))
	mux.Handle("GET /api/sessions/{id}", requireAuth(sessionHandler.HandleGet))
	mux.Handle("POST /api/sessions/{id}/end", requireAuth(sessionHandler.HandleEnd))
	mux.Handle("POST /api/sessions/{id}/advance-hole", requireAuth(sessionHandler.HandleAdvanceHole))
	mux.Handle("POST /api/sessions/{id}/ball-drop", requireAuth(sessionHandler.HandleBallDrop))

	mux.Handle("GET /api/holes", requireAuth(sessionHandler.HandleListHoles))
	mux.Handle("GET /api/holes/{id}", requireAuth(sessionHandler.HandleGetHole))
}

// Wrap applies the middleware every response goes through.
func Wrap(h http.Handler) http.Handler {
	return RequestID(SecurityHeaders(h))
}
