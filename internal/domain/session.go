package domain

import (
	"context"
	"time"
)

// Session is one continuous play session for a user. A session may span
// several loops of the course.
type Session struct {
	ID             int64
	UserID         int64
	StartTime      time.Time
	EndTime        *time.Time // nil while the session is active
	TotalScore     int
	TotalBallDrops int
	TotalLoops     int
	CurrentHoleID  *int64 // most recently opened hole, nil before the first advance
	CreatedAt      time.Time
	Holes          []Hole // only populated when loaded with detail
}

// IsActive reports whether the session has not been ended.
func (s *Session) IsActive() bool {
	return s.EndTime == nil
}

// Duration returns the elapsed play time of an ended session.
func (s *Session) Duration() (time.Duration, bool) {
	if s.EndTime == nil {
		return 0, false
	}
	return s.EndTime.Sub(s.StartTime), true
}

// SessionRepository defines persistence operations for play sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id int64) (*Session, error)
	ListByUser(ctx context.Context, userID int64) ([]Session, error)
	ListEndedByUser(ctx context.Context, userID int64) ([]Session, error)
	// End sets end_time on a session that has not been ended yet. It returns
	// ErrAlreadyEnded when the row already carries an end time.
	End(ctx context.Context, session *Session) error
	// SaveAdvance persists one hole advancement atomically: the completed
	// hole (nil on the first advance), the newly opened hole (its ID is
	// assigned) and the session totals with its current hole reference.
	SaveAdvance(ctx context.Context, session *Session, completed, opened *Hole) error
	// SaveBallDrop persists the hole and session counters atomically.
	SaveBallDrop(ctx context.Context, session *Session, hole *Hole) error
}
