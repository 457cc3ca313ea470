package domain

import (
	"context"
	"fmt"
	"time"
)

const (
	FirstHole = 1
	LastHole  = 10
)

// Hole is one timed attempt at a numbered hole within a session.
type Hole struct {
	ID         int64
	SessionID  int64
	LoopIndex  int
	HoleNumber int
	StartTime  time.Time
	EndTime    *time.Time // nil while the hole is being played
	BaseScore  int
	DecayScore int
	FinalScore int
	BallDrops  int
}

// OpenHole starts a new attempt at holeNumber. Sequencing across holes is
// the session's concern; only the hole number range is checked here.
func OpenHole(sessionID int64, loopIndex, holeNumber int, now time.Time) (*Hole, error) {
	if holeNumber < FirstHole || holeNumber > LastHole {
		return nil, fmt.Errorf("%w: hole number %d out of range", ErrInvalidInput, holeNumber)
	}
	if loopIndex < 0 {
		return nil, fmt.Errorf("%w: negative loop index", ErrInvalidInput)
	}
	return &Hole{
		SessionID:  sessionID,
		LoopIndex:  loopIndex,
		HoleNumber: holeNumber,
		StartTime:  now,
	}, nil
}

// IsOpen reports whether the hole is still being played.
func (h *Hole) IsOpen() bool {
	return h.EndTime == nil
}

// CompletionTime returns the seconds taken to finish the hole.
// The second value is false while the hole is open.
func (h *Hole) CompletionTime() (float64, bool) {
	if h.EndTime == nil {
		return 0, false
	}
	return h.EndTime.Sub(h.StartTime).Seconds(), true
}

// RecordBallDrop counts one ball drop against an open hole. The owning
// session's total is updated by the caller.
func (h *Hole) RecordBallDrop() error {
	if !h.IsOpen() {
		return ErrHoleClosed
	}
	h.BallDrops++
	return nil
}

// Complete closes the hole at now, scores it and returns the final score.
func (h *Hole) Complete(now time.Time) (int, error) {
	if !h.IsOpen() {
		return 0, ErrHoleClosed
	}
	end := now
	h.EndTime = &end

	seconds, _ := h.CompletionTime()
	score := ScoreHole(h.HoleNumber, seconds)
	h.BaseScore = score.Base
	h.DecayScore = score.Decay
	h.FinalScore = score.Final
	return h.FinalScore, nil
}

// HoleRepository provides read access to holes. Holes are written through
// SessionRepository so that session totals stay consistent.
type HoleRepository interface {
	GetByID(ctx context.Context, id int64) (*Hole, error)
	ListBySession(ctx context.Context, sessionID int64) ([]Hole, error)
	ListByUser(ctx context.Context, userID int64) ([]Hole, error)
	ListCompletedByUser(ctx context.Context, userID int64) ([]Hole, error)
	// GetOwnerUserID returns the user ID of the session that owns the hole.
	// Used for ownership checks.
	GetOwnerUserID(ctx context.Context, holeID int64) (int64, error)
}
