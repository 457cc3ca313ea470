package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/minigolf-scorekeeper/internal/domain"
)

// SessionRepository implements domain.SessionRepository using SQLite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SQLite-backed SessionRepository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db.SqlDB}
}

const sessionColumns = `id, user_id, start_time, end_time, total_score, total_ball_drops,
	total_loops, current_hole_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var s domain.Session
	err := row.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime,
		&s.TotalScore, &s.TotalBallDrops, &s.TotalLoops, &s.CurrentHoleID, &s.CreatedAt)
	return s, err
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	start := session.StartTime
	if start.IsZero() {
		start = time.Now().UTC()
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, start_time, total_score, total_ball_drops, total_loops, created_at)
		 VALUES (?, ?, 0, 0, 0, ?)`,
		session.UserID, start, start,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get session id: %w", err)
	}

	session.ID = id
	session.StartTime = start
	session.CreatedAt = start
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// ListByUser returns a user's sessions, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Session, error) {
	return r.list(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE user_id = ? ORDER BY start_time DESC, id DESC", userID)
}

// ListEndedByUser returns a user's ended sessions, newest first.
func (r *SessionRepository) ListEndedByUser(ctx context.Context, userID int64) ([]domain.Session, error) {
	return r.list(ctx,
		"SELECT "+sessionColumns+` FROM sessions
		 WHERE user_id = ? AND end_time IS NOT NULL
		 ORDER BY start_time DESC, id DESC`, userID)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) End(ctx context.Context, session *domain.Session) error {
	if session.EndTime == nil {
		return fmt.Errorf("%w: end time is required", domain.ErrInvalidInput)
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET end_time = ? WHERE id = ? AND end_time IS NULL",
		*session.EndTime, session.ID,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		if _, err := r.GetByID(ctx, session.ID); err != nil {
			return err
		}
		return domain.ErrAlreadyEnded
	}
	return nil
}

func (r *SessionRepository) SaveAdvance(ctx context.Context, session *domain.Session, completed, opened *domain.Hole) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if completed != nil {
		result, err := tx.ExecContext(ctx,
			`UPDATE holes SET end_time = ?, base_score = ?, decay_score = ?, final_score = ?
			 WHERE id = ? AND end_time IS NULL`,
			completed.EndTime, completed.BaseScore, completed.DecayScore, completed.FinalScore, completed.ID,
		)
		if err != nil {
			return fmt.Errorf("complete hole: %w", err)
		}
		if err := expectOneRow(result, domain.ErrHoleClosed); err != nil {
			return err
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO holes (session_id, loop_index, hole_number, start_time, ball_drops)
		 VALUES (?, ?, ?, ?, 0)`,
		opened.SessionID, opened.LoopIndex, opened.HoleNumber, opened.StartTime,
	)
	if err != nil {
		return fmt.Errorf("insert hole: %w", err)
	}
	holeID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get hole id: %w", err)
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE sessions SET total_score = ?, total_loops = ?, current_hole_id = ?
		 WHERE id = ? AND end_time IS NULL`,
		session.TotalScore, session.TotalLoops, holeID, session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session totals: %w", err)
	}
	if err := expectOneRow(result, domain.ErrSessionEnded); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit advance: %w", err)
	}

	opened.ID = holeID
	session.CurrentHoleID = &holeID
	return nil
}

func (r *SessionRepository) SaveBallDrop(ctx context.Context, session *domain.Session, hole *domain.Hole) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE holes SET ball_drops = ? WHERE id = ? AND end_time IS NULL",
		hole.BallDrops, hole.ID,
	)
	if err != nil {
		return fmt.Errorf("update hole ball drops: %w", err)
	}
	if err := expectOneRow(result, domain.ErrNoActiveHole); err != nil {
		return err
	}

	result, err = tx.ExecContext(ctx,
		"UPDATE sessions SET total_ball_drops = ? WHERE id = ? AND end_time IS NULL",
		session.TotalBallDrops, session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session ball drops: %w", err)
	}
	if err := expectOneRow(result, domain.ErrSessionEnded); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ball drop: %w", err)
	}
	return nil
}

// expectOneRow returns errNone when a guarded UPDATE matched no row.
func expectOneRow(result sql.Result, errNone error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return errNone
	}
	return nil
}
