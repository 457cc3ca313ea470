package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/msomdec/minigolf-scorekeeper/internal/handler"
	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

func TestRequireAuth_ValidJWT(t *testing.T) {
	env := newTestEnv(t)
	token := env.loginToken(t, "valid@example.com")

	var gotUser string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := handler.UserFromContext(r.Context())
		if user != nil {
			gotUser = user.Email
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotUser != "valid@example.com" {
		t.Fatalf("expected user valid@example.com, got %q", gotUser)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	env := newTestEnv(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "invalid.jwt.token"})
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.loginToken(t, "tamper@example.com")
	// Flip the first signature character; trailing characters may only
	// carry padding bits.
	sig := strings.LastIndex(token, ".") + 1
	replacement := "A"
	if token[sig] == 'A' {
		replacement = "B"
	}
	tampered := token[:sig] + replacement + token[sig+1:]

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: tampered})
	w := httptest.NewRecorder()

	handler.RequireAuth(env.auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	w := httptest.NewRecorder()
	handler.SecurityHeaders(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Referrer-Policy", "Content-Security-Policy"} {
		if w.Header().Get(h) == "" {
			t.Fatalf("expected %s header to be set", h)
		}
	}
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handler.RequestIDFromContext(r.Context())
	})
	w := httptest.NewRecorder()
	handler.RequestID(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	got := w.Header().Get(handler.RequestIDHeader)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a UUID request id, got %q", got)
	}
	if seen != got {
		t.Fatalf("context id %q does not match header %q", seen, got)
	}
}

func TestRequestID_ReusesValidIncomingID(t *testing.T) {
	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(handler.RequestIDHeader, incoming)
	w := httptest.NewRecorder()

	handler.RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

	if got := w.Header().Get(handler.RequestIDHeader); got != incoming {
		t.Fatalf("expected %s, got %s", incoming, got)
	}
}

func TestRequestID_ReplacesMalformedIncomingID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(handler.RequestIDHeader, "<script>")
	w := httptest.NewRecorder()

	handler.RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(w, req)

	if got := w.Header().Get(handler.RequestIDHeader); got == "<script>" {
		t.Fatal("expected malformed request id to be replaced")
	}
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	limiter := service.NewTokenBucket(0, 2)
	t.Cleanup(limiter.Stop)

	calls := 0
	h := handler.RateLimit(limiter, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if calls != 2 {
		t.Fatalf("expected 2 calls through, got %d", calls)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 on third request, got %d", codes[2])
	}

	other := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	other.RemoteAddr = "203.0.113.8:5555"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, other)
	if w.Code == http.StatusTooManyRequests {
		t.Fatal("a different client should not be limited")
	}
}

func TestRateLimit_IgnoresForwardedForByDefault(t *testing.T) {
	limiter := service.NewTokenBucket(0, 2)
	t.Cleanup(limiter.Stop)

	calls := 0
	h := handler.RateLimit(limiter, false, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := range 50 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Fatalf("expected rotating X-Forwarded-For to share one bucket, got %d calls through", calls)
	}
}

func TestRateLimit_TrustedProxyKeysOnForwardedFor(t *testing.T) {
	limiter := service.NewTokenBucket(0, 1)
	t.Cleanup(limiter.Stop)

	calls := 0
	h := handler.RateLimit(limiter, true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for _, fwd := range []string{"198.51.100.1", "198.51.100.2, 10.0.0.1", "198.51.100.1"} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", fwd)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	if calls != 2 {
		t.Fatalf("expected one call per forwarded client, got %d", calls)
	}
}
