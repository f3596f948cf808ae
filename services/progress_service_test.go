package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inzichtCoachAPI/internal/achievement"
	"inzichtCoachAPI/internal/dailylog"
	"inzichtCoachAPI/internal/points"
)

type fakeRecords struct {
	logs []*dailylog.DailyLog
	err  error
}

func (f *fakeRecords) ListDailyLogs(ctx context.Context, userID uuid.UUID, ascending bool) ([]*dailylog.DailyLog, error) {
	return f.logs, f.err
}

type fakeGoals struct {
	goal int
	err  error
}

func (f *fakeGoals) DailyGoal(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.goal, f.err
}

type fakeBadges struct {
	mu     sync.Mutex
	earned map[achievement.BadgeType]bool
	// listed is returned by ListEarnedBadgeTypes regardless of earned, to
	// simulate a stale read from a concurrent session.
	listed []achievement.BadgeType
	stale  bool
}

func newFakeBadges() *fakeBadges {
	return &fakeBadges{earned: map[achievement.BadgeType]bool{}}
}

func (f *fakeBadges) ListEarnedBadgeTypes(ctx context.Context, userID uuid.UUID) ([]achievement.BadgeType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stale {
		return f.listed, nil
	}
	var out []achievement.BadgeType
	for b := range f.earned {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBadges) AwardBadge(ctx context.Context, userID uuid.UUID, badge achievement.BadgeType, description string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.earned[badge] {
		return false, nil
	}
	f.earned[badge] = true
	return true, nil
}

type fakePoints struct {
	mu     sync.Mutex
	record points.Record
	// racing is added by a simulated concurrent writer on the next upsert.
	racing  int
	upserts int
}

func (f *fakePoints) GetPoints(ctx context.Context, userID uuid.UUID) (*points.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.record
	return &r, nil
}

func (f *fakePoints) UpsertPoints(ctx context.Context, userID uuid.UUID, u points.Update) (*points.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.record.Points += f.racing
	f.racing = 0
	f.record = points.Apply(f.record, u)
	r := f.record
	return &r, nil
}

type fakeActivity struct {
	voice, chat int
}

func (f *fakeActivity) CountVoiceJournals(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.voice, nil
}

func (f *fakeActivity) CountChatMessages(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.chat, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []achievement.BadgeType
	err      error
}

func (f *fakeNotifier) NotifyBadgeEarned(ctx context.Context, userID uuid.UUID, def achievement.Definition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, def.Type)
	return f.err
}

func logsFor(userID uuid.UUID, drinks ...int) []*dailylog.DailyLog {
	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	logs := make([]*dailylog.DailyLog, len(drinks))
	for i, d := range drinks {
		logs[i] = &dailylog.DailyLog{ID: uuid.New(), UserID: userID, Date: start.AddDate(0, 0, i), DrinksCount: d}
	}
	return logs
}

type progressFixture struct {
	records  *fakeRecords
	goals    *fakeGoals
	badges   *fakeBadges
	points   *fakePoints
	activity *fakeActivity
	notifier *fakeNotifier
	svc      *ProgressService
}

func newProgressFixture(logs []*dailylog.DailyLog, goal int) *progressFixture {
	f := &progressFixture{
		records:  &fakeRecords{logs: logs},
		goals:    &fakeGoals{goal: goal},
		badges:   newFakeBadges(),
		points:   &fakePoints{},
		activity: &fakeActivity{},
		notifier: &fakeNotifier{},
	}
	f.svc = NewProgressService(f.records, f.goals, f.badges, f.points, f.activity, f.notifier)
	return f
}

func TestGetProgress(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 3, 2, 0, 1, 0), 2)

	resp, err := f.svc.GetProgress(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.DailyGoal)
	assert.Equal(t, 5, resp.TotalDays)
	assert.Equal(t, 4, resp.StreakDays)
	assert.Equal(t, 30, resp.TotalPoints)
}

func TestGetProgressPropagatesErrors(t *testing.T) {
	userID := uuid.New()

	f := newProgressFixture(nil, 2)
	f.goals.err = ErrUserNotFound
	_, err := f.svc.GetProgress(context.Background(), userID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	f = newProgressFixture(nil, 2)
	f.records.err = errors.New("connection reset")
	_, err = f.svc.GetProgress(context.Background(), userID)
	assert.Error(t, err)

	f = newProgressFixture(nil, -1)
	_, err = f.svc.GetProgress(context.Background(), userID)
	assert.Error(t, err)
}

func TestRefreshAwardsBadgesAndSyncsPoints(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 0, 0, 0, 0, 0, 0, 0), 2)

	res, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, []achievement.BadgeType{
		achievement.BadgeFirstWeek,
		achievement.BadgeStreak5,
		achievement.BadgeGoalAchiever,
	}, res.NewBadges)
	assert.Equal(t, res.NewBadges, f.notifier.notified)

	assert.Equal(t, 70, res.Points.Points)
	assert.Equal(t, 7, res.Points.StreakDays)
	assert.Equal(t, 7, res.Points.LongestStreak)
	assert.Equal(t, 7, res.Points.TotalAlcoholFreeDays)
}

func TestRefreshResyncsPointsAfterConcurrentWrite(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 0, 0, 0), 2)
	f.points.racing = 30

	res, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 30, res.Points.Points)
	assert.Equal(t, 30, f.points.record.Points)
	assert.Equal(t, 2, f.points.upserts)
}

func TestRefreshIsIdempotent(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 0, 1, 0, 2, 0, 0, 1, 0), 2)

	first, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, first.NewBadges)

	second, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, second.NewBadges)
	assert.Equal(t, first.Points.Points, second.Points.Points)
	assert.Len(t, f.notifier.notified, len(first.NewBadges))
}

func TestRefreshAfterDeletionKeepsLongestStreak(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 0, 0, 0, 0), 2)

	_, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)

	f.records.logs = f.records.logs[:1]
	res, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Points.Points)
	assert.Equal(t, 1, res.Points.StreakDays)
	assert.Equal(t, 4, res.Points.LongestStreak)
}

func TestRefreshUsesActivityCounts(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(nil, 2)
	f.activity.voice = 10
	f.activity.chat = 50

	res, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []achievement.BadgeType{achievement.BadgeVoiceJournaler, achievement.BadgeAIChatter}, res.NewBadges)
}

func TestRefreshConflictIsNoOp(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 0, 0, 0, 0, 0, 0, 0), 2)

	// Another session already stored the badges but this one read the ledger first.
	f.badges.stale = true
	f.badges.earned[achievement.BadgeFirstWeek] = true
	f.badges.earned[achievement.BadgeStreak5] = true

	res, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []achievement.BadgeType{achievement.BadgeGoalAchiever}, res.NewBadges)
}

func TestRefreshConcurrentSessionsAwardOnce(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0), 2)
	f.badges.stale = true

	var wg sync.WaitGroup
	results := make([]*RefreshResult, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.Refresh(context.Background(), userID)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	awarded := map[achievement.BadgeType]int{}
	for _, res := range results {
		for _, b := range res.NewBadges {
			awarded[b]++
		}
	}
	for badge, n := range awarded {
		assert.Equal(t, 1, n, "badge %s awarded more than once", badge)
	}
	assert.Contains(t, awarded, achievement.BadgeZeroHero)
	assert.Contains(t, awarded, achievement.BadgeStreak10)
}

func TestRefreshNotifierFailureDoesNotFail(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 0, 0, 0, 0, 0), 2)
	f.notifier.err = errors.New("fcm down")

	res, err := f.svc.Refresh(context.Background(), userID)
	require.NoError(t, err)
	assert.Contains(t, res.NewBadges, achievement.BadgeStreak5)
}

func TestGetWeeklyStats(t *testing.T) {
	userID := uuid.New()
	f := newProgressFixture(logsFor(userID, 5, 1, 0, 0, 2, 3, 0, 1, 0, 4), 2)

	// logsFor starts on April 1; the window for April 10 begins April 3.
	now := time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC)
	stats, err := f.svc.GetWeeklyStats(context.Background(), userID, now)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.DaysLogged)
	assert.Equal(t, 10, stats.TotalDrinks)
	assert.Equal(t, 4, stats.AlcoholFreeDays)
}
