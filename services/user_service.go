package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inzichtCoachAPI/internal/user"
)

type UserService struct {
	db               *pgxpool.Pool
	defaultDailyGoal int
}

func NewUserService(db *pgxpool.Pool, defaultDailyGoal int) *UserService {
	return &UserService{db: db, defaultDailyGoal: defaultDailyGoal}
}

const profileColumns = `id, clerk_id, email, full_name, avatar_url, daily_goal, weekly_goal, created_at, updated_at`

func scanProfile(row pgx.Row) (*user.Profile, error) {
	p := &user.Profile{}
	err := row.Scan(
		&p.ID,
		&p.ClerkID,
		&p.Email,
		&p.FullName,
		&p.AvatarURL,
		&p.DailyGoal,
		&p.WeeklyGoal,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return p, nil
}

// CreateProfile inserts a profile for a Clerk user, or refreshes the contact
// details when the user already exists.
func (s *UserService) CreateProfile(ctx context.Context, req *user.CreateProfileRequest) (*user.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
	INSERT INTO profiles (id, clerk_id, email, full_name, avatar_url)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (clerk_id)
	DO UPDATE SET
		email = EXCLUDED.email,
		full_name = EXCLUDED.full_name,
		avatar_url = EXCLUDED.avatar_url,
		updated_at = NOW()
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, query, uuid.New(), req.ClerkID, req.Email, req.FullName, req.AvatarURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

func (s *UserService) GetProfileByClerkID(ctx context.Context, clerkID string) (*user.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clerk_id = $1`

	p, err := scanProfile(s.db.QueryRow(ctx, query, clerkID))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (s *UserService) DeleteProfileByClerkID(ctx context.Context, clerkID string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) UpdateGoals(ctx context.Context, userID uuid.UUID, req *user.UpdateGoalsRequest) (*user.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
	UPDATE profiles
	SET daily_goal = $2,
		weekly_goal = COALESCE($3, weekly_goal),
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRow(ctx, query, userID, req.DailyGoal, req.WeeklyGoal))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update goals: %w", err)
	}
	return p, nil
}

// DailyGoal returns the user's configured daily goal, falling back to the
// service default when none was set.
func (s *UserService) DailyGoal(ctx context.Context, userID uuid.UUID) (int, error) {
	var goal *int
	err := s.db.QueryRow(ctx, `SELECT daily_goal FROM profiles WHERE id = $1`, userID).Scan(&goal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to get daily goal: %w", err)
	}

	p := &user.Profile{DailyGoal: goal}
	return p.EffectiveDailyGoal(s.defaultDailyGoal), nil
}
