package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"calmd/internal/models"
)

// timestampLayout has fixed width so text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists everything in a single SQLite database. Streak
// compare-and-swap is a conditional write checked through RowsAffected.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS streak_states (
  user_id TEXT PRIMARY KEY,
  current_count INTEGER NOT NULL,
  longest_count INTEGER NOT NULL,
  last_event_date TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS mood_events (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  logged_at TEXT NOT NULL,
  day TEXT NOT NULL,
  score INTEGER NOT NULL,
  note TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS mood_events_user_day ON mood_events (user_id, day);
CREATE TABLE IF NOT EXISTS assessment_results (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total_score INTEGER NOT NULL,
  band_min INTEGER NOT NULL,
  band_max INTEGER NOT NULL,
  band_label TEXT NOT NULL,
  band_description TEXT NOT NULL,
  answered_questions INTEGER NOT NULL,
  completed_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS assessment_results_user ON assessment_results (user_id, completed_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindStreakState(ctx context.Context, userID string) (*models.StreakState, error) {
	const q = `SELECT current_count, longest_count, last_event_date FROM streak_states WHERE user_id = ?`
	state := models.StreakState{UserID: userID}
	var last string
	err := s.db.QueryRowContext(ctx, q, userID).Scan(&state.CurrentCount, &state.LongestCount, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find streak of %s: %w", userID, err)
	}
	if state.LastEventDate, err = models.ParseDay(last); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *SQLiteStore) SaveStreakState(ctx context.Context, userID string, prev *models.StreakState, next models.StreakState) error {
	var (
		res sql.Result
		err error
	)
	if prev == nil {
		const insert = `
INSERT INTO streak_states (user_id, current_count, longest_count, last_event_date)
VALUES (?, ?, ?, ?)
ON CONFLICT(user_id) DO NOTHING`
		res, err = s.db.ExecContext(ctx, insert, userID, next.CurrentCount, next.LongestCount, next.LastEventDate.String())
	} else {
		const update = `
UPDATE streak_states SET current_count = ?, longest_count = ?, last_event_date = ?
WHERE user_id = ? AND current_count = ? AND longest_count = ? AND last_event_date = ?`
		res, err = s.db.ExecContext(ctx, update,
			next.CurrentCount, next.LongestCount, next.LastEventDate.String(),
			userID, prev.CurrentCount, prev.LongestCount, prev.LastEventDate.String())
	}
	if err != nil {
		return fmt.Errorf("save streak of %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save streak of %s: %w", userID, err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func (s *SQLiteStore) SaveMoodEvent(ctx context.Context, event models.MoodEvent) error {
	if event.Day.IsZero() {
		return fmt.Errorf("%w: no day", ErrInvalidEvent)
	}
	const stmt = `INSERT INTO mood_events (user_id, logged_at, day, score, note) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, stmt, event.UserID, event.Timestamp.UTC().Format(timestampLayout), event.Day.String(), event.Score, event.Note)
	if err != nil {
		return fmt.Errorf("save mood event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ActivityDays(ctx context.Context, userID string, from, to models.CalendarDay) ([]models.CalendarDay, error) {
	const q = `SELECT DISTINCT day FROM mood_events WHERE user_id = ? AND day BETWEEN ? AND ? ORDER BY day`
	rows, err := s.db.QueryContext(ctx, q, userID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var days []models.CalendarDay
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		d, err := models.ParseDay(raw)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *SQLiteStore) SaveAssessmentResult(ctx context.Context, userID string, result models.AssessmentResult) error {
	const stmt = `
INSERT INTO assessment_results (id, user_id, total_score, band_min, band_max, band_label, band_description, answered_questions, completed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	b := result.MatchedBand
	_, err := s.db.ExecContext(ctx, stmt, result.ID, userID, result.TotalScore,
		b.MinInclusive, b.MaxInclusive, b.Label, b.Description,
		result.AnsweredQuestions, result.CompletedAt.UTC().Format(timestampLayout))
	if err != nil {
		return fmt.Errorf("save assessment result: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAssessmentResults(ctx context.Context, userID string, limit int) ([]models.AssessmentResult, error) {
	q := `
SELECT id, total_score, band_min, band_max, band_label, band_description, answered_questions, completed_at
FROM assessment_results WHERE user_id = ? ORDER BY completed_at DESC, rowid DESC`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessment results: %w", err)
	}
	defer rows.Close()

	var out []models.AssessmentResult
	for rows.Next() {
		r := models.AssessmentResult{UserID: userID}
		var completed string
		err := rows.Scan(&r.ID, &r.TotalScore,
			&r.MatchedBand.MinInclusive, &r.MatchedBand.MaxInclusive, &r.MatchedBand.Label, &r.MatchedBand.Description,
			&r.AnsweredQuestions, &completed)
		if err != nil {
			return nil, fmt.Errorf("scan assessment result: %w", err)
		}
		if r.CompletedAt, err = time.Parse(timestampLayout, completed); err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
