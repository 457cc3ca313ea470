package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
	"github.com/msomdec/minigolf-scorekeeper/internal/repository/sqlite"
)

var base = time.Date(2025, 7, 4, 15, 0, 0, 0, time.UTC)

func createSession(t *testing.T, db *sqlite.DB, userID int64, start time.Time) *domain.Session {
	t.Helper()
	s := &domain.Session{UserID: userID, StartTime: start}
	if err := db.Sessions().Create(context.Background(), s); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return s
}

// advance persists one advancement the way the session service does.
func advance(t *testing.T, db *sqlite.DB, s *domain.Session, completed *domain.Hole, loop, number int, at time.Time) *domain.Hole {
	t.Helper()
	opened, err := domain.OpenHole(s.ID, loop, number, at)
	if err != nil {
		t.Fatalf("OpenHole: %v", err)
	}
	if completed != nil {
		final, err := completed.Complete(at)
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		s.TotalScore += final
	}
	if err := db.Sessions().SaveAdvance(context.Background(), s, completed, opened); err != nil {
		t.Fatalf("SaveAdvance: %v", err)
	}
	return opened
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "golfer@example.com")
	s := createSession(t, db, user.ID, base.Add(500*time.Millisecond))

	if s.ID == 0 {
		t.Fatal("expected session ID to be set")
	}

	got, err := db.Sessions().GetByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.StartTime.Equal(s.StartTime) {
		t.Fatalf("expected start %v, got %v", s.StartTime, got.StartTime)
	}
	if got.EndTime != nil || got.CurrentHoleID != nil {
		t.Fatal("expected new session to be active with no current hole")
	}
	if got.TotalScore != 0 || got.TotalBallDrops != 0 || got.TotalLoops != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Sessions().GetByID(context.Background(), 4242)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_SaveAdvance(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "adv@example.com")
	s := createSession(t, db, user.ID, base)

	first := advance(t, db, s, nil, 0, 1, base)
	if first.ID == 0 || s.CurrentHoleID == nil || *s.CurrentHoleID != first.ID {
		t.Fatalf("expected current hole to point at %d, got %v", first.ID, s.CurrentHoleID)
	}

	second := advance(t, db, s, first, 0, 2, base.Add(15*time.Second))

	got, err := db.Sessions().GetByID(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TotalScore != 95 {
		t.Fatalf("expected total score 95, got %d", got.TotalScore)
	}
	if got.CurrentHoleID == nil || *got.CurrentHoleID != second.ID {
		t.Fatalf("expected current hole %d, got %v", second.ID, got.CurrentHoleID)
	}

	closed, err := db.Holes().GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID hole: %v", err)
	}
	if closed.EndTime == nil || closed.FinalScore != 95 || closed.DecayScore != 5 || closed.BaseScore != 100 {
		t.Fatalf("unexpected completed hole: %+v", closed)
	}
	secs, _ := closed.CompletionTime()
	if secs != 15 {
		t.Fatalf("expected 15s completion, got %v", secs)
	}
}

func TestSessionRepository_SaveAdvance_EndedSessionRollsBack(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "ended@example.com")
	s := createSession(t, db, user.ID, base)
	first := advance(t, db, s, nil, 0, 1, base)

	end := base.Add(time.Minute)
	s.EndTime = &end
	if err := db.Sessions().End(ctx, s); err != nil {
		t.Fatalf("End: %v", err)
	}

	if _, err := first.Complete(base.Add(2 * time.Minute)); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	next, _ := domain.OpenHole(s.ID, 0, 2, base.Add(2*time.Minute))
	err := db.Sessions().SaveAdvance(ctx, s, first, next)
	if !errors.Is(err, domain.ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
	if next.ID != 0 {
		t.Fatal("expected hole ID to stay unset after rollback")
	}

	holes, err := db.Holes().ListBySession(ctx, s.ID)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(holes) != 1 || holes[0].EndTime != nil {
		t.Fatalf("expected the single original open hole, got %+v", holes)
	}
}

func TestSessionRepository_EndTwice(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "twice@example.com")
	s := createSession(t, db, user.ID, base)

	end := base.Add(time.Hour)
	s.EndTime = &end
	if err := db.Sessions().End(ctx, s); err != nil {
		t.Fatalf("first End: %v", err)
	}

	later := base.Add(2 * time.Hour)
	again := *s
	again.EndTime = &later
	if err := db.Sessions().End(ctx, &again); !errors.Is(err, domain.ErrAlreadyEnded) {
		t.Fatalf("expected ErrAlreadyEnded, got %v", err)
	}

	got, _ := db.Sessions().GetByID(ctx, s.ID)
	if got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Fatalf("expected end time %v to be unchanged, got %v", end, got.EndTime)
	}

	missing := &domain.Session{ID: 999, EndTime: &end}
	if err := db.Sessions().End(ctx, missing); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing session, got %v", err)
	}
}

func TestSessionRepository_SaveBallDrop(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "drop@example.com")
	s := createSession(t, db, user.ID, base)
	hole := advance(t, db, s, nil, 0, 1, base)

	hole.BallDrops = 1
	s.TotalBallDrops = 1
	if err := db.Sessions().SaveBallDrop(ctx, s, hole); err != nil {
		t.Fatalf("SaveBallDrop: %v", err)
	}

	gotHole, _ := db.Holes().GetByID(ctx, hole.ID)
	gotSession, _ := db.Sessions().GetByID(ctx, s.ID)
	if gotHole.BallDrops != 1 || gotSession.TotalBallDrops != 1 {
		t.Fatalf("expected both counters at 1, got hole=%d session=%d", gotHole.BallDrops, gotSession.TotalBallDrops)
	}
}

func TestSessionRepository_ListByUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	older := createSession(t, db, alice.ID, base)
	newer := createSession(t, db, alice.ID, base.Add(time.Hour))
	createSession(t, db, bob.ID, base)

	end := base.Add(30 * time.Minute)
	older.EndTime = &end
	if err := db.Sessions().End(ctx, older); err != nil {
		t.Fatalf("End: %v", err)
	}

	all, err := db.Sessions().ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 2 || all[0].ID != newer.ID || all[1].ID != older.ID {
		t.Fatalf("expected [newer, older], got %+v", all)
	}

	ended, err := db.Sessions().ListEndedByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListEndedByUser: %v", err)
	}
	if len(ended) != 1 || ended[0].ID != older.ID {
		t.Fatalf("expected only the ended session, got %+v", ended)
	}
}

func TestHoleRepository_OwnershipAndOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	s := createSession(t, db, alice.ID, base)
	h1 := advance(t, db, s, nil, 0, 1, base)
	h2 := advance(t, db, s, h1, 0, 2, base.Add(20*time.Second))
	advance(t, db, s, h2, 0, 3, base.Add(30*time.Second))
	createSession(t, db, bob.ID, base)

	owner, err := db.Holes().GetOwnerUserID(ctx, h2.ID)
	if err != nil {
		t.Fatalf("GetOwnerUserID: %v", err)
	}
	if owner != alice.ID {
		t.Fatalf("expected owner %d, got %d", alice.ID, owner)
	}
	if _, err := db.Holes().GetOwnerUserID(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, err := db.Holes().ListByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 3 || all[0].HoleNumber != 1 || all[2].HoleNumber != 3 {
		t.Fatalf("expected holes 1..3 in play order, got %+v", all)
	}

	completed, err := db.Holes().ListCompletedByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListCompletedByUser: %v", err)
	}
	if len(completed) != 2 || completed[0].ID != h1.ID || completed[1].ID != h2.ID {
		t.Fatalf("expected completed holes in finish order, got %+v", completed)
	}

	bobs, err := db.Holes().ListByUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListByUser bob: %v", err)
	}
	if len(bobs) != 0 {
		t.Fatalf("expected no holes for bob, got %d", len(bobs))
	}
}
