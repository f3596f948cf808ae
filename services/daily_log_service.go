package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inzichtCoachAPI/internal/dailylog"
	"inzichtCoachAPI/internal/progress"
)

type DailyLogService struct {
	db *pgxpool.Pool
}

func NewDailyLogService(db *pgxpool.Pool) *DailyLogService {
	return &DailyLogService{db: db}
}

const dailyLogColumns = `id, user_id, date, drinks_count, notes, mood, created_at, updated_at`

func scanDailyLog(row pgx.Row) (*dailylog.DailyLog, error) {
	l := &dailylog.DailyLog{}
	var mood *string
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.Date,
		&l.DrinksCount,
		&l.Notes,
		&mood,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if mood != nil {
		m := progress.Mood(*mood)
		l.Mood = &m
	}
	return l, nil
}

// UpsertDailyLog writes the user's log for req.Date. A second write for the
// same date replaces the first.
func (s *DailyLogService) UpsertDailyLog(ctx context.Context, userID uuid.UUID, req *dailylog.UpsertDailyLogRequest) (*dailylog.DailyLog, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, err := req.ParsedDate()
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO daily_logs (id, user_id, date, drinks_count, notes, mood)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id, date)
	DO UPDATE SET
		drinks_count = EXCLUDED.drinks_count,
		notes = EXCLUDED.notes,
		mood = EXCLUDED.mood,
		updated_at = NOW()
	RETURNING ` + dailyLogColumns

	l, err := scanDailyLog(s.db.QueryRow(ctx, query, uuid.New(), userID, date, *req.DrinksCount, req.Notes, req.ParsedMood()))
	if err != nil {
		return nil, fmt.Errorf("failed to save daily log: %w", err)
	}
	return l, nil
}

func (s *DailyLogService) ListDailyLogs(ctx context.Context, userID uuid.UUID, ascending bool) ([]*dailylog.DailyLog, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = $1 ORDER BY date ` + order

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily logs: %w", err)
	}
	defer rows.Close()

	var logs []*dailylog.DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read daily logs: %w", err)
	}

	return logs, nil
}

// GetDailyLogByDate returns nil when nothing was logged on date.
func (s *DailyLogService) GetDailyLogByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*dailylog.DailyLog, error) {
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = $1 AND date = $2`

	l, err := scanDailyLog(s.db.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get daily log: %w", err)
	}
	return l, nil
}

func (s *DailyLogService) DeleteDailyLog(ctx context.Context, userID uuid.UUID, logID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM daily_logs WHERE id = $1 AND user_id = $2`, logID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete daily log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrDailyLogNotFound
	}
	return nil
}
