package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
)

// HoleRepository implements domain.HoleRepository using SQLite.
type HoleRepository struct {
	db *sql.DB
}

// NewHoleRepository creates a new SQLite-backed HoleRepository.
func NewHoleRepository(db *DB) *HoleRepository {
	return &HoleRepository{db: db.SqlDB}
}

const holeColumns = `h.id, h.session_id, h.loop_index, h.hole_number, h.start_time, h.end_time,
	h.base_score, h.decay_score, h.final_score, h.ball_drops`

func scanHole(row rowScanner) (domain.Hole, error) {
	var h domain.Hole
	err := row.Scan(&h.ID, &h.SessionID, &h.LoopIndex, &h.HoleNumber, &h.StartTime, &h.EndTime,
		&h.BaseScore, &h.DecayScore, &h.FinalScore, &h.BallDrops)
	return h, err
}

func (r *HoleRepository) GetByID(ctx context.Context, id int64) (*domain.Hole, error) {
	h, err := scanHole(r.db.QueryRowContext(ctx,
		"SELECT "+holeColumns+" FROM holes h WHERE h.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get hole: %w", err)
	}
	return &h, nil
}

// ListBySession returns a session's holes in play order.
func (r *HoleRepository) ListBySession(ctx context.Context, sessionID int64) ([]domain.Hole, error) {
	return r.list(ctx,
		"SELECT "+holeColumns+" FROM holes h WHERE h.session_id = ? ORDER BY h.start_time, h.id", sessionID)
}

// ListByUser returns every hole across a user's sessions in play order.
func (r *HoleRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Hole, error) {
	return r.list(ctx,
		"SELECT "+holeColumns+` FROM holes h
		 JOIN sessions s ON s.id = h.session_id
		 WHERE s.user_id = ?
		 ORDER BY h.start_time, h.id`, userID)
}

// ListCompletedByUser returns a user's completed holes ordered by the time
// they were finished.
func (r *HoleRepository) ListCompletedByUser(ctx context.Context, userID int64) ([]domain.Hole, error) {
	return r.list(ctx,
		"SELECT "+holeColumns+` FROM holes h
		 JOIN sessions s ON s.id = h.session_id
		 WHERE s.user_id = ? AND h.end_time IS NOT NULL
		 ORDER BY h.end_time, h.id`, userID)
}

func (r *HoleRepository) GetOwnerUserID(ctx context.Context, holeID int64) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT s.user_id FROM holes h
		 JOIN sessions s ON s.id = h.session_id
		 WHERE h.id = ?`, holeID,
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get hole owner: %w", err)
	}
	return userID, nil
}

func (r *HoleRepository) list(ctx context.Context, query string, args ...any) ([]domain.Hole, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list holes: %w", err)
	}
	defer rows.Close()

	var holes []domain.Hole
	for rows.Next() {
		h, err := scanHole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hole: %w", err)
		}
		holes = append(holes, h)
	}
	return holes, rows.Err()
}
