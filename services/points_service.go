package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inzichtCoachAPI/internal/points"
)

type PointsService struct {
	db *pgxpool.Pool
}

func NewPointsService(db *pgxpool.Pool) *PointsService {
	return &PointsService{db: db}
}

const pointsColumns = `user_id, points, streak_days, longest_streak, total_alcohol_free_days, updated_at`

func scanPoints(row pgx.Row) (*points.Record, error) {
	r := &points.Record{}
	err := row.Scan(&r.UserID, &r.Points, &r.StreakDays, &r.LongestStreak, &r.TotalAlcoholFreeDays, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetPoints returns an empty ledger for users that never earned points.
func (s *PointsService) GetPoints(ctx context.Context, userID uuid.UUID) (*points.Record, error) {
	query := `SELECT ` + pointsColumns + ` FROM user_points WHERE user_id = $1`

	r, err := scanPoints(s.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &points.Record{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get points: %w", err)
	}
	return r, nil
}

// UpsertPoints applies u in a single statement, with the same semantics as
// points.Apply.
func (s *PointsService) UpsertPoints(ctx context.Context, userID uuid.UUID, u points.Update) (*points.Record, error) {
	if u.Empty() {
		return s.GetPoints(ctx, userID)
	}

	query := `
	INSERT INTO user_points (user_id, points, streak_days, longest_streak, total_alcohol_free_days, updated_at)
	VALUES ($1, COALESCE($2::int, 0), COALESCE($3::int, 0), COALESCE($4::int, 0), COALESCE($5::int, 0), NOW())
	ON CONFLICT (user_id)
	DO UPDATE SET
		points = user_points.points + COALESCE($2::int, 0),
		streak_days = COALESCE($3::int, user_points.streak_days),
		longest_streak = GREATEST(user_points.longest_streak, COALESCE($4::int, user_points.longest_streak)),
		total_alcohol_free_days = COALESCE($5::int, user_points.total_alcohol_free_days),
		updated_at = NOW()
	RETURNING ` + pointsColumns

	r, err := scanPoints(s.db.QueryRow(ctx, query, userID, u.PointsToAdd, u.StreakDays, u.LongestStreak, u.TotalAlcoholFreeDays))
	if err != nil {
		return nil, fmt.Errorf("failed to update points: %w", err)
	}
	return r, nil
}
