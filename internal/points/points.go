package points

import (
	"time"

	"github.com/google/uuid"
)

// Record is a user's running points ledger.
type Record struct {
	UserID               uuid.UUID `json:"user_id" db:"user_id"`
	Points               int       `json:"points" db:"points"`
	StreakDays           int       `json:"streak_days" db:"streak_days"`
	LongestStreak        int       `json:"longest_streak" db:"longest_streak"`
	TotalAlcoholFreeDays int       `json:"total_alcohol_free_days" db:"total_alcohol_free_days"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// Update describes a ledger mutation. Nil fields are left untouched.
type Update struct {
	PointsToAdd          *int
	StreakDays           *int
	LongestStreak        *int
	TotalAlcoholFreeDays *int
}

func (u Update) Empty() bool {
	return u.PointsToAdd == nil && u.StreakDays == nil && u.LongestStreak == nil && u.TotalAlcoholFreeDays == nil
}

// Apply returns the ledger after u: points accumulate, the current streak and
// alcohol-free total are replaced, and the longest streak never decreases.
func Apply(current Record, u Update) Record {
	next := current
	if u.PointsToAdd != nil {
		next.Points += *u.PointsToAdd
	}
	if u.StreakDays != nil {
		next.StreakDays = *u.StreakDays
	}
	if u.LongestStreak != nil && *u.LongestStreak > next.LongestStreak {
		next.LongestStreak = *u.LongestStreak
	}
	if u.TotalAlcoholFreeDays != nil {
		next.TotalAlcoholFreeDays = *u.TotalAlcoholFreeDays
	}
	return next
}

// SyncTo builds the Update that brings current in line with freshly
// recomputed totals.
func SyncTo(current Record, totalPoints, streakDays, longestStreak, alcoholFreeDays int) Update {
	delta := totalPoints - current.Points
	return Update{
		PointsToAdd:          &delta,
		StreakDays:           &streakDays,
		LongestStreak:        &longestStreak,
		TotalAlcoholFreeDays: &alcoholFreeDays,
	}
}
