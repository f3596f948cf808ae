package progress

import (
	"errors"
	"fmt"
	"log"
	"time"
)

type Mood string

const (
	MoodVeryBad  Mood = "very_bad"
	MoodBad      Mood = "bad"
	MoodNeutral  Mood = "neutral"
	MoodGood     Mood = "good"
	MoodVeryGood Mood = "very_good"
)

func (m Mood) Valid() bool {
	switch m {
	case MoodVeryBad, MoodBad, MoodNeutral, MoodGood, MoodVeryGood:
		return true
	}
	return false
}

const (
	PointsAlcoholFree = 10
	PointsWithinGoal  = 5

	// A day without drinks counts as this many drinks avoided.
	BaselineDrinksPerDay = 2
	MoneyPerDrink        = 5
	CaloriesPerDrink     = 150
)

var (
	ErrInvalidDailyGoal = errors.New("daily goal must not be negative")
	ErrNegativeDrinks   = errors.New("drinks count must not be negative")
)

// DailyRecord is one user's logged consumption for one calendar date.
// Notes and Mood are carried for the presentation layer and never read here.
type DailyRecord struct {
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	DrinksCount int       `json:"drinks_count"`
	Notes       *string   `json:"notes,omitempty"`
	Mood        *Mood     `json:"mood,omitempty"`
}

func (r DailyRecord) Validate() error {
	if r.DrinksCount < 0 {
		return fmt.Errorf("%w: %s has %d", ErrNegativeDrinks, r.Date.Format(time.DateOnly), r.DrinksCount)
	}
	if r.Mood != nil && !r.Mood.Valid() {
		return fmt.Errorf("invalid mood %q", *r.Mood)
	}
	return nil
}

type Snapshot struct {
	TotalDays            int     `json:"total_days"`
	StreakDays           int     `json:"streak_days"`
	LongestStreak        int     `json:"longest_streak"`
	TotalPoints          int     `json:"total_points"`
	DaysWithinGoal       int     `json:"days_within_goal"`
	AlcoholFreeDays      int     `json:"alcohol_free_days"`
	AverageDrinksPerWeek float64 `json:"average_drinks_per_week"`
	DrinksAvoided        int     `json:"drinks_avoided"`
	MoneySaved           int     `json:"money_saved"`
	CaloriesSaved        int     `json:"calories_saved"`

	// Records whose negative drinks count was treated as zero.
	ClampedRecords int `json:"-"`
}

// ComputeProgress derives a Snapshot from a user's full history, ordered by
// ascending date. An empty history yields the zero Snapshot.
func ComputeProgress(records []DailyRecord, dailyGoal int) (Snapshot, error) {
	if dailyGoal < 0 {
		return Snapshot{}, fmt.Errorf("%w: got %d", ErrInvalidDailyGoal, dailyGoal)
	}

	var snap Snapshot
	if len(records) == 0 {
		return snap, nil
	}

	totalDrinks := 0
	run := 0
	for _, rec := range records {
		drinks := rec.DrinksCount
		if err := rec.Validate(); err != nil {
			log.Printf("ComputeProgress: user %s: %v", rec.UserID, err)
			if errors.Is(err, ErrNegativeDrinks) {
				snap.ClampedRecords++
				drinks = 0
			}
		}

		totalDrinks += drinks
		snap.TotalPoints += pointsFor(drinks, dailyGoal)

		if drinks == 0 {
			snap.AlcoholFreeDays++
		}

		if drinks <= dailyGoal {
			snap.DaysWithinGoal++
			run++
			if run > snap.LongestStreak {
				snap.LongestStreak = run
			}
		} else {
			run = 0
		}
	}

	// The run still open at the end of the history is the current streak.
	// Gaps between dates do not break it.
	snap.StreakDays = run

	snap.TotalDays = len(records)
	snap.AverageDrinksPerWeek = float64(totalDrinks) / float64(snap.TotalDays) * 7

	snap.DrinksAvoided = snap.AlcoholFreeDays * BaselineDrinksPerDay
	snap.MoneySaved = snap.DrinksAvoided * MoneyPerDrink
	snap.CaloriesSaved = snap.DrinksAvoided * CaloriesPerDrink

	return snap, nil
}

func pointsFor(drinks, dailyGoal int) int {
	switch {
	case drinks == 0:
		return PointsAlcoholFree
	case drinks <= dailyGoal:
		return PointsWithinGoal
	default:
		return 0
	}
}
