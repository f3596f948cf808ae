package dailylog

import (
	"time"

	"github.com/google/uuid"

	"inzichtCoachAPI/internal/progress"
)

type DailyLog struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	UserID      uuid.UUID      `json:"user_id" db:"user_id"`
	Date        time.Time      `json:"date" db:"date"`
	DrinksCount int            `json:"drinks_count" db:"drinks_count"`
	Notes       *string        `json:"notes,omitempty" db:"notes"`
	Mood        *progress.Mood `json:"mood,omitempty" db:"mood"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

func (l *DailyLog) Record() progress.DailyRecord {
	return progress.DailyRecord{
		UserID:      l.UserID.String(),
		Date:        l.Date,
		DrinksCount: l.DrinksCount,
		Notes:       l.Notes,
		Mood:        l.Mood,
	}
}

func Records(logs []*DailyLog) []progress.DailyRecord {
	out := make([]progress.DailyRecord, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Record())
	}
	return out
}
