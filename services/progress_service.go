package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"inzichtCoachAPI/internal/achievement"
	"inzichtCoachAPI/internal/dailylog"
	"inzichtCoachAPI/internal/metrics"
	"inzichtCoachAPI/internal/points"
	"inzichtCoachAPI/internal/progress"
)

type RecordStore interface {
	ListDailyLogs(ctx context.Context, userID uuid.UUID, ascending bool) ([]*dailylog.DailyLog, error)
}

type GoalSource interface {
	DailyGoal(ctx context.Context, userID uuid.UUID) (int, error)
}

type BadgeLedger interface {
	ListEarnedBadgeTypes(ctx context.Context, userID uuid.UUID) ([]achievement.BadgeType, error)
	AwardBadge(ctx context.Context, userID uuid.UUID, badge achievement.BadgeType, description string) (bool, error)
}

type PointsLedger interface {
	GetPoints(ctx context.Context, userID uuid.UUID) (*points.Record, error)
	UpsertPoints(ctx context.Context, userID uuid.UUID, u points.Update) (*points.Record, error)
}

type ActivityCounts interface {
	CountVoiceJournals(ctx context.Context, userID uuid.UUID) (int, error)
	CountChatMessages(ctx context.Context, userID uuid.UUID) (int, error)
}

type BadgeNotifier interface {
	NotifyBadgeEarned(ctx context.Context, userID uuid.UUID, def achievement.Definition) error
}

type ProgressResponse struct {
	DailyGoal int `json:"daily_goal"`
	progress.Snapshot
}

type RefreshResult struct {
	Snapshot  progress.Snapshot       `json:"snapshot"`
	Points    *points.Record          `json:"points"`
	NewBadges []achievement.BadgeType `json:"new_badges"`
}

// ProgressService recomputes a user's progress from their full history and
// keeps the points and badge ledgers in step with it.
type ProgressService struct {
	records  RecordStore
	goals    GoalSource
	badges   BadgeLedger
	points   PointsLedger
	activity ActivityCounts
	notifier BadgeNotifier
}

func NewProgressService(records RecordStore, goals GoalSource, badges BadgeLedger, pointsLedger PointsLedger, activity ActivityCounts, notifier BadgeNotifier) *ProgressService {
	return &ProgressService{
		records:  records,
		goals:    goals,
		badges:   badges,
		points:   pointsLedger,
		activity: activity,
		notifier: notifier,
	}
}

func (s *ProgressService) snapshot(ctx context.Context, userID uuid.UUID) (progress.Snapshot, int, error) {
	goal, err := s.goals.DailyGoal(ctx, userID)
	if err != nil {
		return progress.Snapshot{}, 0, err
	}

	logs, err := s.records.ListDailyLogs(ctx, userID, true)
	if err != nil {
		return progress.Snapshot{}, 0, err
	}

	snap, err := progress.ComputeProgress(dailylog.Records(logs), goal)
	if err != nil {
		return progress.Snapshot{}, 0, err
	}
	if snap.ClampedRecords > 0 {
		metrics.ClampedRecords.Add(float64(snap.ClampedRecords))
	}
	return snap, goal, nil
}

func (s *ProgressService) GetProgress(ctx context.Context, userID uuid.UUID) (*ProgressResponse, error) {
	snap, goal, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute progress: %w", err)
	}
	return &ProgressResponse{DailyGoal: goal, Snapshot: snap}, nil
}

func (s *ProgressService) GetWeeklyStats(ctx context.Context, userID uuid.UUID, now time.Time) (*progress.WeeklyStats, error) {
	logs, err := s.records.ListDailyLogs(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to compute weekly stats: %w", err)
	}
	stats := progress.ComputeWeekly(dailylog.Records(logs), now)
	return &stats, nil
}

// Refresh runs after every change to a user's daily logs or goal. Badges are
// awarded at most once each; losing a race to another session is a no-op.
func (s *ProgressService) Refresh(ctx context.Context, userID uuid.UUID) (*RefreshResult, error) {
	start := time.Now()
	defer func() {
		metrics.ProgressRefreshDuration.Observe(time.Since(start).Seconds())
	}()

	snap, _, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute progress: %w", err)
	}

	current, err := s.points.GetPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	update := points.SyncTo(*current, snap.TotalPoints, snap.StreakDays, snap.LongestStreak, snap.AlcoholFreeDays)
	ledger, err := s.points.UpsertPoints(ctx, userID, update)
	if err != nil {
		return nil, err
	}
	// Another refresh wrote between our read and our upsert.
	if expected := points.Apply(*current, update); ledger.Points != expected.Points {
		log.Printf("Refresh: points ledger for %s moved concurrently (expected %d, got %d), resyncing",
			userID, expected.Points, ledger.Points)
		ledger, err = s.points.UpsertPoints(ctx, userID,
			points.SyncTo(*ledger, snap.TotalPoints, snap.StreakDays, snap.LongestStreak, snap.AlcoholFreeDays))
		if err != nil {
			return nil, err
		}
	}

	voice, err := s.activity.CountVoiceJournals(ctx, userID)
	if err != nil {
		return nil, err
	}
	chat, err := s.activity.CountChatMessages(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned, err := s.badges.ListEarnedBadgeTypes(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{Snapshot: snap, Points: ledger, NewBadges: []achievement.BadgeType{}}

	for _, badge := range achievement.EvaluateNewBadges(achievement.AggregatesFrom(snap, voice, chat), earned) {
		def, _ := achievement.Lookup(badge)

		awarded, err := s.badges.AwardBadge(ctx, userID, badge, def.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to award %s: %w", badge, err)
		}
		if !awarded {
			continue
		}

		log.Printf("Refresh: user %s earned %s", userID, badge)
		metrics.BadgesAwarded.WithLabelValues(string(badge)).Inc()
		result.NewBadges = append(result.NewBadges, badge)

		if s.notifier != nil {
			if err := s.notifier.NotifyBadgeEarned(ctx, userID, def); err != nil {
				log.Printf("Refresh: failed to notify %s about %s: %v", userID, badge, err)
			}
		}
	}

	return result, nil
}
