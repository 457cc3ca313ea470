package handler_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/minigolf-scorekeeper/internal/handler"
	"github.com/msomdec/minigolf-scorekeeper/internal/repository/sqlite"
	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests"

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	db       *sqlite.DB
	auth     *service.AuthService
	sessions *service.SessionService
	stats    *service.StatsService
	clock    *stepClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := &stepClock{now: time.Date(2025, 7, 4, 15, 0, 0, 0, time.UTC)}
	return &testEnv{
		db:       db,
		auth:     service.NewAuthService(db.Users(), testJWTSecret, 4),
		sessions: service.NewSessionService(db.Sessions(), db.Holes(), clock),
		stats:    service.NewStatsService(db.Sessions(), db.Holes()),
		clock:    clock,
	}
}

func (e *testEnv) loginToken(t *testing.T, email string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := e.auth.Register(ctx, email, "Player", "password123", "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := e.auth.Login(ctx, email, "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return token
}

func (e *testEnv) services() handler.Services {
	return handler.Services{
		Auth:     e.auth,
		Sessions: e.sessions,
		Stats:    e.stats,
		DB:       e.db,
	}
}
