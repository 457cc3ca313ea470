package service

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
)

// Stats aggregates a player's finished sessions. HasData is false when no
// ended session has a completed hole; every other field is then zero.
type Stats struct {
	HasData       bool
	TotalSessions int
	BestScore     int
	WorstScore    int
	AverageScore  float64
	AverageLoops  float64
	// TotalLoops counts the sessions that carry a loop total, which is every
	// counted session. It is not a sum of loops.
	TotalLoops int
	Holes      []HoleStats
}

// HoleStats summarizes completed holes of one number across all sessions.
type HoleStats struct {
	HoleNumber            int
	AverageCompletionTime float64
	// FastestCompletion is the completion time of the hole that finished
	// first on the clock, not the shortest attempt.
	FastestCompletion float64
}

// ComputeStats derives statistics from a player's ended sessions and every
// completed hole they own. completedHoles must be ordered by end time.
func ComputeStats(ended []domain.Session, completedHoles []domain.Hole) Stats {
	scored := make(map[int64]bool)
	for _, h := range completedHoles {
		scored[h.SessionID] = true
	}

	var st Stats
	var scoreSum, loopSum int
	for _, s := range ended {
		if s.IsActive() || !scored[s.ID] {
			continue
		}
		if st.TotalSessions == 0 || s.TotalScore > st.BestScore {
			st.BestScore = s.TotalScore
		}
		if st.TotalSessions == 0 || s.TotalScore < st.WorstScore {
			st.WorstScore = s.TotalScore
		}
		st.TotalSessions++
		scoreSum += s.TotalScore
		loopSum += s.TotalLoops
	}
	if st.TotalSessions == 0 {
		return Stats{}
	}

	st.HasData = true
	st.TotalLoops = st.TotalSessions
	st.AverageScore = float64(scoreSum) / float64(st.TotalSessions)
	st.AverageLoops = float64(loopSum) / float64(st.TotalSessions)

	type acc struct {
		sum     float64
		count   int
		fastest float64
	}
	var byNumber [domain.LastHole + 1]acc
	for _, h := range completedHoles {
		secs, ok := h.CompletionTime()
		if !ok || h.HoleNumber < domain.FirstHole || h.HoleNumber > domain.LastHole {
			continue
		}
		a := &byNumber[h.HoleNumber]
		if a.count == 0 {
			a.fastest = secs
		}
		a.sum += secs
		a.count++
	}
	for n := domain.FirstHole; n <= domain.LastHole; n++ {
		a := byNumber[n]
		if a.count == 0 {
			continue
		}
		st.Holes = append(st.Holes, HoleStats{
			HoleNumber:            n,
			AverageCompletionTime: a.sum / float64(a.count),
			FastestCompletion:     a.fastest,
		})
	}
	return st
}

// StatsService computes per-player statistics on demand. Concurrent
// requests for the same player share one computation.
type StatsService struct {
	sessions domain.SessionRepository
	holes    domain.HoleRepository
	group    singleflight.Group
}

// NewStatsService creates a new StatsService.
func NewStatsService(sessions domain.SessionRepository, holes domain.HoleRepository) *StatsService {
	return &StatsService{sessions: sessions, holes: holes}
}

// Get returns the user's statistics.
func (s *StatsService) Get(ctx context.Context, userID int64) (_ Stats, err error) {
	ctx, span := tracer.Start(ctx, "StatsService.Get",
		trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer func() { endSpan(span, err) }()

	v, err, shared := s.group.Do(strconv.FormatInt(userID, 10), func() (any, error) {
		ended, err := s.sessions.ListEndedByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list ended sessions: %w", err)
		}
		holes, err := s.holes.ListCompletedByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("list completed holes: %w", err)
		}
		return ComputeStats(ended, holes), nil
	})
	if err != nil {
		return Stats{}, err
	}

	st := v.(Stats)
	span.SetAttributes(
		attribute.Bool("stats.shared", shared),
		attribute.Int("stats.sessions", st.TotalSessions),
	)
	return st, nil
}
