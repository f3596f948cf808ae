package user

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID         uuid.UUID `json:"id"`
	ClerkID    string    `json:"clerkId"`
	Email      string    `json:"email"`
	FullName   *string   `json:"fullName,omitempty"`
	AvatarURL  *string   `json:"avatarUrl,omitempty"`
	DailyGoal  *int      `json:"dailyGoal,omitempty"`
	WeeklyGoal *int      `json:"weeklyGoal,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EffectiveDailyGoal is the profile's daily goal, or fallback when the user never set one.
func (p *Profile) EffectiveDailyGoal(fallback int) int {
	if p == nil || p.DailyGoal == nil {
		return fallback
	}
	return *p.DailyGoal
}
