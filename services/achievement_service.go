package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"inzichtCoachAPI/internal/achievement"
	"inzichtCoachAPI/internal/metrics"
)

type AchievementService struct {
	db *pgxpool.Pool
}

func NewAchievementService(db *pgxpool.Pool) *AchievementService {
	return &AchievementService{db: db}
}

// AwardBadge records badge for the user unless it is already held. Reports
// whether this call created the achievement; a duplicate is not an error.
func (s *AchievementService) AwardBadge(ctx context.Context, userID uuid.UUID, badge achievement.BadgeType, description string) (bool, error) {
	if !badge.Valid() {
		return false, fmt.Errorf("unknown badge type %q", badge)
	}

	query := `
	INSERT INTO achievements (id, user_id, badge_type, description)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, badge_type) DO NOTHING
	`

	result, err := s.db.Exec(ctx, query, uuid.New(), userID, string(badge), description)
	if err != nil {
		if isUniqueViolation(err) {
			log.Printf("AwardBadge: %s already held by %s", badge, userID)
			metrics.BadgeAwardConflicts.Inc()
			return false, nil
		}
		return false, fmt.Errorf("failed to award badge: %w", err)
	}

	if result.RowsAffected() == 0 {
		metrics.BadgeAwardConflicts.Inc()
		return false, nil
	}
	return true, nil
}

func (s *AchievementService) ListAchievements(ctx context.Context, userID uuid.UUID) ([]*achievement.Achievement, error) {
	query := `
	SELECT id, user_id, badge_type, earned_at, description
	FROM achievements
	WHERE user_id = $1
	ORDER BY earned_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*achievement.Achievement
	for rows.Next() {
		a := &achievement.Achievement{}
		var badge string
		if err := rows.Scan(&a.ID, &a.UserID, &badge, &a.EarnedAt, &a.Description); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		a.BadgeType = achievement.BadgeType(badge)
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}

	return achievements, nil
}

func (s *AchievementService) ListEarnedBadgeTypes(ctx context.Context, userID uuid.UUID) ([]achievement.BadgeType, error) {
	achievements, err := s.ListAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges := make([]achievement.BadgeType, 0, len(achievements))
	for _, a := range achievements {
		badges = append(badges, a.BadgeType)
	}
	return badges, nil
}
