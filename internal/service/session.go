package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
)

// SessionService drives play sessions: starting and ending them, advancing
// through holes and counting ball drops. Mutations of one session are
// serialized; reads are not.
type SessionService struct {
	sessions domain.SessionRepository
	holes    domain.HoleRepository
	locks    *SessionLocks
	clock    Clock
}

// NewSessionService creates a new SessionService. A nil clock uses the
// system clock.
func NewSessionService(sessions domain.SessionRepository, holes domain.HoleRepository, clock Clock) *SessionService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SessionService{
		sessions: sessions,
		holes:    holes,
		locks:    NewSessionLocks(),
		clock:    clock,
	}
}

// NextPosition returns the loop index and hole number that follow a
// completed hole. Finishing the last hole wraps to hole 1 of the next loop
// and reports wrapped.
func NextPosition(completed *domain.Hole) (loopIndex, holeNumber int, wrapped bool) {
	if completed.HoleNumber == domain.LastHole {
		return completed.LoopIndex + 1, domain.FirstHole, true
	}
	return completed.LoopIndex, completed.HoleNumber + 1, false
}

// Start creates a new active session for the user.
func (s *SessionService) Start(ctx context.Context, userID int64) (*domain.Session, error) {
	session := &domain.Session{
		UserID:    userID,
		StartTime: s.clock.Now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// List returns the user's sessions, newest first, without hole detail.
func (s *SessionService) List(ctx context.Context, userID int64) ([]domain.Session, error) {
	return s.sessions.ListByUser(ctx, userID)
}

// Get returns one of the user's sessions with its holes in play order.
// Sessions owned by someone else are reported as not found.
func (s *SessionService) Get(ctx context.Context, userID, sessionID int64) (*domain.Session, error) {
	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	holes, err := s.holes.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("list holes: %w", err)
	}
	session.Holes = holes
	return session, nil
}

// End moves an active session to the ended state.
func (s *SessionService) End(ctx context.Context, userID, sessionID int64) (_ *domain.Session, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.End",
		trace.WithAttributes(attribute.Int64("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, domain.ErrAlreadyEnded
	}

	ended := *session
	now := s.clock.Now().UTC()
	ended.EndTime = &now
	if err := s.sessions.End(ctx, &ended); err != nil {
		return nil, fmt.Errorf("end session: %w", err)
	}

	slog.Info("session ended", "session_id", ended.ID, "total_score", ended.TotalScore, "loops", ended.TotalLoops)
	return &ended, nil
}

// AdvanceHole completes the current hole, if one is open, and opens the
// next one. The returned hole is the newly opened current hole.
func (s *SessionService) AdvanceHole(ctx context.Context, userID, sessionID int64) (_ *domain.Hole, _ *domain.Session, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.AdvanceHole",
		trace.WithAttributes(attribute.Int64("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.IsActive() {
		return nil, nil, domain.ErrSessionEnded
	}

	current, err := s.currentHole(ctx, session)
	if err != nil {
		return nil, nil, err
	}

	now := s.clock.Now().UTC()
	next := *session

	// Without an open hole play restarts at the first hole of loop 0.
	loopIndex, holeNumber := 0, domain.FirstHole
	var completed *domain.Hole
	if current != nil && current.IsOpen() {
		closing := *current
		final, err := closing.Complete(now)
		if err != nil {
			return nil, nil, fmt.Errorf("complete hole: %w", err)
		}
		next.TotalScore += final

		var wrapped bool
		loopIndex, holeNumber, wrapped = NextPosition(&closing)
		if wrapped {
			next.TotalLoops++
			slog.Debug("loop completed", "session_id", session.ID, "loops", next.TotalLoops)
		}
		completed = &closing
		span.SetAttributes(
			attribute.Int("hole.completed_number", closing.HoleNumber),
			attribute.Int("hole.final_score", final),
		)
	}

	opened, err := domain.OpenHole(session.ID, loopIndex, holeNumber, now)
	if err != nil {
		return nil, nil, err
	}
	if err := s.sessions.SaveAdvance(ctx, &next, completed, opened); err != nil {
		return nil, nil, fmt.Errorf("save advance: %w", err)
	}

	span.SetAttributes(
		attribute.Int("hole.loop_index", opened.LoopIndex),
		attribute.Int("hole.number", opened.HoleNumber),
	)
	return opened, &next, nil
}

// RecordBallDrop counts a ball drop on the current hole and on the session.
func (s *SessionService) RecordBallDrop(ctx context.Context, userID, sessionID int64) (_ *domain.Hole, _ *domain.Session, err error) {
	ctx, span := tracer.Start(ctx, "SessionService.RecordBallDrop",
		trace.WithAttributes(attribute.Int64("session.id", sessionID)))
	defer func() { endSpan(span, err) }()

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.owned(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !session.IsActive() {
		return nil, nil, domain.ErrSessionEnded
	}

	current, err := s.currentHole(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	if current == nil || !current.IsOpen() {
		return nil, nil, domain.ErrNoActiveHole
	}

	hole := *current
	if err := hole.RecordBallDrop(); err != nil {
		return nil, nil, domain.ErrNoActiveHole
	}
	next := *session
	next.TotalBallDrops++

	if err := s.sessions.SaveBallDrop(ctx, &next, &hole); err != nil {
		return nil, nil, fmt.Errorf("save ball drop: %w", err)
	}
	return &hole, &next, nil
}

// ListHoles returns every hole the user has played, in play order.
func (s *SessionService) ListHoles(ctx context.Context, userID int64) ([]domain.Hole, error) {
	return s.holes.ListByUser(ctx, userID)
}

// GetHole returns one of the user's holes.
func (s *SessionService) GetHole(ctx context.Context, userID, holeID int64) (*domain.Hole, error) {
	owner, err := s.holes.GetOwnerUserID(ctx, holeID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, domain.ErrNotFound
	}
	return s.holes.GetByID(ctx, holeID)
}

// owned loads a session and hides it from anyone but its owner.
func (s *SessionService) owned(ctx context.Context, userID, sessionID int64) (*domain.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return session, nil
}

func (s *SessionService) currentHole(ctx context.Context, session *domain.Session) (*domain.Hole, error) {
	if session.CurrentHoleID == nil {
		return nil, nil
	}
	hole, err := s.holes.GetByID(ctx, *session.CurrentHoleID)
	if err != nil {
		return nil, fmt.Errorf("get current hole: %w", err)
	}
	return hole, nil
}
