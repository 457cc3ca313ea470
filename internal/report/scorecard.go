package report

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
)

// Scorecard is the exported form of one session and its holes.
type Scorecard struct {
	Player  string          `toml:"player"`
	Session ScorecardHeader `toml:"session"`
	Holes   []ScorecardHole `toml:"holes"`
}

// ScorecardHeader carries session totals. EndTime is the zero time while
// the session is active.
type ScorecardHeader struct {
	ID             int64     `toml:"id"`
	Ended          bool      `toml:"ended"`
	StartTime      time.Time `toml:"start_time"`
	EndTime        time.Time `toml:"end_time"`
	TotalScore     int       `toml:"total_score"`
	TotalBallDrops int       `toml:"total_ball_drops"`
	TotalLoops     int       `toml:"total_loops"`
}

// ScorecardHole is one hole attempt on the card. Open holes carry the zero
// end time and a zero completion time.
type ScorecardHole struct {
	Loop           int       `toml:"loop"`
	Number         int       `toml:"number"`
	Open           bool      `toml:"open"`
	StartTime      time.Time `toml:"start_time"`
	EndTime        time.Time `toml:"end_time"`
	CompletionTime float64   `toml:"completion_seconds"`
	BaseScore      int       `toml:"base_score"`
	DecayScore     int       `toml:"decay_score"`
	FinalScore     int       `toml:"final_score"`
	BallDrops      int       `toml:"ball_drops"`
}

// NewScorecard builds a scorecard from a session loaded with its holes.
func NewScorecard(player *domain.User, session *domain.Session) Scorecard {
	card := Scorecard{
		Player: player.DisplayName,
		Session: ScorecardHeader{
			ID:             session.ID,
			Ended:          !session.IsActive(),
			StartTime:      session.StartTime,
			EndTime:        derefTime(session.EndTime),
			TotalScore:     session.TotalScore,
			TotalBallDrops: session.TotalBallDrops,
			TotalLoops:     session.TotalLoops,
		},
	}
	for _, h := range session.Holes {
		secs, _ := h.CompletionTime()
		card.Holes = append(card.Holes, ScorecardHole{
			Loop:           h.LoopIndex,
			Number:         h.HoleNumber,
			Open:           h.IsOpen(),
			StartTime:      h.StartTime,
			EndTime:        derefTime(h.EndTime),
			CompletionTime: secs,
			BaseScore:      h.BaseScore,
			DecayScore:     h.DecayScore,
			FinalScore:     h.FinalScore,
			BallDrops:      h.BallDrops,
		})
	}
	return card
}

// Encode renders the scorecard as TOML.
func (c Scorecard) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode scorecard: %w", err)
	}
	return data, nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
