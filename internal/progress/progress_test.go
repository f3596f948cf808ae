package progress

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func history(drinks ...int) []DailyRecord {
	records := make([]DailyRecord, len(drinks))
	for i, d := range drinks {
		records[i] = DailyRecord{UserID: "u1", Date: day0.AddDate(0, 0, i), DrinksCount: d}
	}
	return records
}

func TestComputeProgressEmptyHistory(t *testing.T) {
	snap, err := ComputeProgress(nil, 2)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{}, snap)

	snap, err = ComputeProgress([]DailyRecord{}, 0)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{}, snap)
}

func TestComputeProgressMixedHistory(t *testing.T) {
	snap, err := ComputeProgress(history(3, 2, 0, 1, 0), 2)
	require.NoError(t, err)

	assert.Equal(t, 5, snap.TotalDays)
	assert.Equal(t, 4, snap.DaysWithinGoal)
	assert.Equal(t, 4, snap.StreakDays)
	assert.Equal(t, 4, snap.LongestStreak)
	assert.Equal(t, 30, snap.TotalPoints)
	assert.Equal(t, 2, snap.AlcoholFreeDays)
	assert.InDelta(t, 8.4, snap.AverageDrinksPerWeek, 1e-9)
}

func TestComputeProgressStreakBrokenAtEnd(t *testing.T) {
	snap, err := ComputeProgress(history(0, 0, 0, 1, 5), 2)
	require.NoError(t, err)

	assert.Equal(t, 0, snap.StreakDays)
	assert.Equal(t, 4, snap.LongestStreak)
}

func TestComputeProgressCurrentStreakCanExceedEarlierRuns(t *testing.T) {
	snap, err := ComputeProgress(history(0, 0, 4, 1, 1, 1), 2)
	require.NoError(t, err)

	assert.Equal(t, 3, snap.StreakDays)
	assert.Equal(t, 3, snap.LongestStreak)
}

func TestComputeProgressIgnoresCalendarGaps(t *testing.T) {
	records := []DailyRecord{
		{Date: day0, DrinksCount: 0},
		{Date: day0.AddDate(0, 0, 7), DrinksCount: 1},
		{Date: day0.AddDate(0, 1, 0), DrinksCount: 0},
	}

	snap, err := ComputeProgress(records, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.StreakDays)
}

func TestComputeProgressZeroGoal(t *testing.T) {
	snap, err := ComputeProgress(history(0, 1, 0), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.DaysWithinGoal)
	assert.Equal(t, 1, snap.StreakDays)
	assert.Equal(t, 20, snap.TotalPoints)
}

func TestComputeProgressSavings(t *testing.T) {
	snap, err := ComputeProgress(history(0, 0, 3, 0, 0, 1, 0), 2)
	require.NoError(t, err)

	assert.Equal(t, 5, snap.AlcoholFreeDays)
	assert.Equal(t, 10, snap.DrinksAvoided)
	assert.Equal(t, 50, snap.MoneySaved)
	assert.Equal(t, 1500, snap.CaloriesSaved)
}

func TestComputeProgressRejectsNegativeGoal(t *testing.T) {
	_, err := ComputeProgress(history(1), -1)
	assert.ErrorIs(t, err, ErrInvalidDailyGoal)
}

func TestComputeProgressClampsNegativeDrinks(t *testing.T) {
	snap, err := ComputeProgress(history(-3, 1), 2)
	require.NoError(t, err)

	assert.Equal(t, 1, snap.ClampedRecords)
	assert.Equal(t, 2, snap.StreakDays)
	assert.Equal(t, 15, snap.TotalPoints)
	assert.Equal(t, 1, snap.AlcoholFreeDays)
	assert.GreaterOrEqual(t, snap.AverageDrinksPerWeek, 0.0)
}

func TestComputeProgressInvalidMoodIsNotClamped(t *testing.T) {
	bogus := Mood("ecstatic")
	records := history(1)
	records[0].Mood = &bogus

	snap, err := ComputeProgress(records, 2)
	require.NoError(t, err)
	assert.Zero(t, snap.ClampedRecords)
	assert.Equal(t, PointsWithinGoal, snap.TotalPoints)
}

func TestComputeProgressIgnoresNotesAndMood(t *testing.T) {
	notes := "rough day"
	mood := MoodVeryBad
	plain := history(0, 3, 1)
	annotated := history(0, 3, 1)
	annotated[1].Notes = &notes
	annotated[1].Mood = &mood

	a, err := ComputeProgress(plain, 2)
	require.NoError(t, err)
	b, err := ComputeProgress(annotated, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// longestRunBruteForce checks every window for an all-within-goal run.
func longestRunBruteForce(drinks []int, goal int) int {
	best := 0
	for i := range drinks {
		for j := i; j < len(drinks); j++ {
			ok := true
			for k := i; k <= j; k++ {
				if drinks[k] > goal {
					ok = false
					break
				}
			}
			if ok && j-i+1 > best {
				best = j - i + 1
			}
		}
	}
	return best
}

func TestComputeProgressRandomHistories(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		n := rng.Intn(40)
		goal := rng.Intn(4)
		drinks := make([]int, n)
		for j := range drinks {
			drinks[j] = rng.Intn(6)
		}

		snap, err := ComputeProgress(history(drinks...), goal)
		require.NoError(t, err)

		assert.LessOrEqual(t, snap.DaysWithinGoal, snap.TotalDays)
		assert.LessOrEqual(t, snap.StreakDays, snap.TotalDays)
		assert.LessOrEqual(t, snap.LongestStreak, snap.TotalDays)
		assert.LessOrEqual(t, snap.StreakDays, snap.LongestStreak)
		assert.Equal(t, longestRunBruteForce(drinks, goal), snap.LongestStreak, "drinks=%v goal=%d", drinks, goal)

		trailing := 0
		for j := len(drinks) - 1; j >= 0 && drinks[j] <= goal; j-- {
			trailing++
		}
		assert.Equal(t, trailing, snap.StreakDays)

		points := 0
		for _, d := range drinks {
			points += pointsFor(d, goal)
		}
		assert.Equal(t, points, snap.TotalPoints)
	}
}

func TestDailyRecordValidate(t *testing.T) {
	assert.NoError(t, DailyRecord{DrinksCount: 0}.Validate())
	assert.ErrorIs(t, DailyRecord{DrinksCount: -1}.Validate(), ErrNegativeDrinks)

	bogus := Mood("ecstatic")
	assert.Error(t, DailyRecord{Mood: &bogus}.Validate())
}

func TestComputeWeekly(t *testing.T) {
	now := time.Date(2026, time.March, 20, 18, 30, 0, 0, time.UTC)
	records := []DailyRecord{
		{Date: time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC), DrinksCount: 9},
		{Date: time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC), DrinksCount: 2},
		{Date: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), DrinksCount: 0},
		{Date: time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC), DrinksCount: 4},
	}

	stats := ComputeWeekly(records, now)
	assert.Equal(t, time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC), stats.From)
	assert.Equal(t, 3, stats.DaysLogged)
	assert.Equal(t, 6, stats.TotalDrinks)
	assert.Equal(t, 1, stats.AlcoholFreeDays)
	assert.InDelta(t, 2.0, stats.AveragePerDay, 1e-9)

	empty := ComputeWeekly(nil, now)
	assert.Zero(t, empty.DaysLogged)
	assert.Zero(t, empty.AveragePerDay)
}

func TestComputeWeeklyServerBehindUTC(t *testing.T) {
	edt := time.FixedZone("EDT", -4*60*60)
	now := time.Date(2026, time.March, 20, 18, 30, 0, 0, edt)
	records := []DailyRecord{
		{Date: time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC), DrinksCount: 1},
	}

	stats := ComputeWeekly(records, now)
	assert.Equal(t, time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC), stats.From)
	assert.Equal(t, 1, stats.DaysLogged)
	assert.Equal(t, ComputeWeekly(records, now.UTC()), stats)
}

func TestComputeWeeklyServerAheadOfUTC(t *testing.T) {
	// 01:00 on the 21st in UTC+2 is still the 20th in UTC.
	now := time.Date(2026, time.March, 21, 1, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	assert.Equal(t, time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC), WeekWindowStart(now))
}
