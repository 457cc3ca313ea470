package handler

import (
	"time"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

// HoleDTO is the JSON representation of a hole attempt.
type HoleDTO struct {
	ID             int64    `json:"id"`
	SessionID      int64    `json:"sessionId"`
	LoopIndex      int      `json:"loopIndex"`
	HoleNumber     int      `json:"holeNumber"`
	StartTime      string   `json:"startTime"`
	EndTime        *string  `json:"endTime"`
	CompletionTime *float64 `json:"completionTime"`
	BaseScore      int      `json:"baseScore"`
	DecayScore     int      `json:"decayScore"`
	FinalScore     int      `json:"finalScore"`
	BallDrops      int      `json:"ballDrops"`
}

func toHoleDTO(h *domain.Hole) HoleDTO {
	dto := HoleDTO{
		ID:         h.ID,
		SessionID:  h.SessionID,
		LoopIndex:  h.LoopIndex,
		HoleNumber: h.HoleNumber,
		StartTime:  h.StartTime.Format(time.RFC3339Nano),
		EndTime:    formatOptionalTime(h.EndTime),
		BaseScore:  h.BaseScore,
		DecayScore: h.DecayScore,
		FinalScore: h.FinalScore,
		BallDrops:  h.BallDrops,
	}
	if secs, ok := h.CompletionTime(); ok {
		dto.CompletionTime = &secs
	}
	return dto
}

func toHoleDTOs(holes []domain.Hole) []HoleDTO {
	dtos := make([]HoleDTO, len(holes))
	for i := range holes {
		dtos[i] = toHoleDTO(&holes[i])
	}
	return dtos
}

// SessionSummaryDTO is a session without its holes, as used in listings.
type SessionSummaryDTO struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"userId"`
	StartTime      string   `json:"startTime"`
	EndTime        *string  `json:"endTime"`
	Duration       *float64 `json:"duration"`
	TotalScore     int      `json:"totalScore"`
	TotalBallDrops int      `json:"totalBallDrops"`
	TotalLoops     int      `json:"totalLoops"`
	CurrentHoleID  *int64   `json:"currentHoleId"`
	IsActive       bool     `json:"isActive"`
	CreatedAt      string   `json:"createdAt"`
}

// SessionDTO is a session with every hole played in it.
type SessionDTO struct {
	SessionSummaryDTO
	Holes []HoleDTO `json:"holes"`
}

func toSessionSummaryDTO(s *domain.Session) SessionSummaryDTO {
	dto := SessionSummaryDTO{
		ID:             s.ID,
		UserID:         s.UserID,
		StartTime:      s.StartTime.Format(time.RFC3339Nano),
		EndTime:        formatOptionalTime(s.EndTime),
		TotalScore:     s.TotalScore,
		TotalBallDrops: s.TotalBallDrops,
		TotalLoops:     s.TotalLoops,
		CurrentHoleID:  s.CurrentHoleID,
		IsActive:       s.IsActive(),
		CreatedAt:      s.CreatedAt.Format(time.RFC3339Nano),
	}
	if d, ok := s.Duration(); ok {
		secs := d.Seconds()
		dto.Duration = &secs
	}
	return dto
}

func toSessionSummaryDTOs(sessions []domain.Session) []SessionSummaryDTO {
	dtos := make([]SessionSummaryDTO, len(sessions))
	for i := range sessions {
		dtos[i] = toSessionSummaryDTO(&sessions[i])
	}
	return dtos
}

func toSessionDTO(s *domain.Session) SessionDTO {
	return SessionDTO{
		SessionSummaryDTO: toSessionSummaryDTO(s),
		Holes:             toHoleDTOs(s.Holes),
	}
}

// HoleStatsDTO summarizes one hole number across sessions.
type HoleStatsDTO struct {
	HoleNumber            int     `json:"holeNumber"`
	AverageCompletionTime float64 `json:"averageCompletionTime"`
	FastestCompletion     float64 `json:"fastestCompletion"`
}

// StatsDTO is the JSON representation of a player's statistics.
type StatsDTO struct {
	TotalSessions int            `json:"totalSessions"`
	BestScore     int            `json:"bestScore"`
	WorstScore    int            `json:"worstScore"`
	AverageScore  float64        `json:"averageScore"`
	AverageLoops  float64        `json:"averageLoops"`
	TotalLoops    int            `json:"totalLoops"`
	HoleStats     []HoleStatsDTO `json:"holeStats"`
}

func toStatsDTO(st service.Stats) StatsDTO {
	holes := make([]HoleStatsDTO, len(st.Holes))
	for i, h := range st.Holes {
		holes[i] = HoleStatsDTO{
			HoleNumber:            h.HoleNumber,
			AverageCompletionTime: h.AverageCompletionTime,
			FastestCompletion:     h.FastestCompletion,
		}
	}
	return StatsDTO{
		TotalSessions: st.TotalSessions,
		BestScore:     st.BestScore,
		WorstScore:    st.WorstScore,
		AverageScore:  st.AverageScore,
		AverageLoops:  st.AverageLoops,
		TotalLoops:    st.TotalLoops,
		HoleStats:     holes,
	}
}

// ScoreboardSignals are the datastar signals a live scoreboard binds to.
type ScoreboardSignals struct {
	SessionID      int64 `json:"sessionId"`
	Active         bool  `json:"active"`
	Loop           int   `json:"loop"`
	HoleNumber     int   `json:"holeNumber"`
	HoleBallDrops  int   `json:"holeBallDrops"`
	TotalScore     int   `json:"totalScore"`
	TotalBallDrops int   `json:"totalBallDrops"`
	TotalLoops     int   `json:"totalLoops"`
}

func toScoreboardSignals(s *domain.Session, current *domain.Hole) ScoreboardSignals {
	signals := ScoreboardSignals{
		SessionID:      s.ID,
		Active:         s.IsActive(),
		TotalScore:     s.TotalScore,
		TotalBallDrops: s.TotalBallDrops,
		TotalLoops:     s.TotalLoops,
	}
	if current != nil {
		signals.Loop = current.LoopIndex
		signals.HoleNumber = current.HoleNumber
		signals.HoleBallDrops = current.BallDrops
	}
	return signals
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}
