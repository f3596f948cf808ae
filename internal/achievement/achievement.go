package achievement

import (
	"time"

	"github.com/google/uuid"
)

type BadgeType string

const (
	BadgeFirstWeek      BadgeType = "first_week"
	BadgeFirstMonth     BadgeType = "first_month"
	BadgeStreak5        BadgeType = "streak_5"
	BadgeStreak10       BadgeType = "streak_10"
	BadgeStreak30       BadgeType = "streak_30"
	BadgeStreak100      BadgeType = "streak_100"
	BadgeZeroHero       BadgeType = "zero_hero"
	BadgeGoalAchiever   BadgeType = "goal_achiever"
	BadgeVoiceJournaler BadgeType = "voice_journaler"
	BadgeAIChatter      BadgeType = "ai_chatter"
)

// Achievement is a badge earned by a user. At most one exists per (UserID, BadgeType).
type Achievement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	BadgeType   BadgeType `json:"badge_type" db:"badge_type"`
	EarnedAt    time.Time `json:"earned_at" db:"earned_at"`
	Description *string   `json:"description,omitempty" db:"description"`
}

type Definition struct {
	Type        BadgeType `json:"badge_type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Emoji       string    `json:"emoji"`
	Requirement string    `json:"requirement"`
}

type AchievementWithStatus struct {
	Definition
	Unlocked bool       `json:"unlocked"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

var definitions = []Definition{
	{BadgeFirstWeek, "Eerste Week", "Je eerste week volgemaakt!", "🏆", "7 days active"},
	{BadgeFirstMonth, "Eerste Maand", "30 dagen actief - geweldig!", "🥇", "30 days active"},
	{BadgeStreak5, "5-Dagen Streak", "5 dagen op rij binnen je doel!", "🔥", "5 day streak"},
	{BadgeStreak10, "10-Dagen Streak", "10 dagen consecutief - fantastisch!", "⚡", "10 day streak"},
	{BadgeStreak30, "30-Dagen Streak", "Een hele maand vol! Ongelofelijk!", "✨", "30 day streak"},
	{BadgeStreak100, "100-Dagen Streak", "Jij bent een echte kampioen!", "👑", "100 day streak"},
	{BadgeZeroHero, "Nul Held", "10 alcoholvrije dagen bereikt!", "🦸", "10 alcohol-free days"},
	{BadgeGoalAchiever, "Doel Bereiker", "90% van je doelen behaald!", "🎯", "90% goal achievement rate"},
	{BadgeVoiceJournaler, "Spraak Dagboeker", "10 spraaknotities gemaakt!", "🎙️", "10 voice journal entries"},
	{BadgeAIChatter, "AI Gesprekspartner", "50 berichten met Sam uitgewisseld!", "💬", "50 chat messages sent"},
}

// Definitions returns the badge catalogue in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

func Lookup(t BadgeType) (Definition, bool) {
	for _, d := range definitions {
		if d.Type == t {
			return d, true
		}
	}
	return Definition{}, false
}

func (t BadgeType) Valid() bool {
	_, ok := Lookup(t)
	return ok
}

// WithStatus merges the catalogue with a user's earned achievements,
// unlocked badges first.
func WithStatus(earned []*Achievement) []*AchievementWithStatus {
	earnedAt := make(map[BadgeType]time.Time, len(earned))
	for _, a := range earned {
		earnedAt[a.BadgeType] = a.EarnedAt
	}

	var unlocked, locked []*AchievementWithStatus
	for _, d := range definitions {
		item := &AchievementWithStatus{Definition: d}
		if at, ok := earnedAt[d.Type]; ok {
			at := at
			item.Unlocked = true
			item.EarnedAt = &at
			unlocked = append(unlocked, item)
			continue
		}
		locked = append(locked, item)
	}
	return append(unlocked, locked...)
}
