package workers

import (
	"context"
	"log"
	"time"
)

type ReminderSender interface {
	SendDailyReminders(ctx context.Context, day time.Time) (int, error)
}

// DailyReminder sends the "log your day" push once per day, the first time
// it ticks at or after the configured hour.
type DailyReminder struct {
	sender   ReminderSender
	hour     int
	interval time.Duration
	now      func() time.Time
	lastDay  time.Time
}

func NewDailyReminder(sender ReminderSender, hour int) *DailyReminder {
	return &DailyReminder{
		sender:   sender,
		hour:     hour,
		interval: 5 * time.Minute,
		now:      time.Now,
	}
}

// Start blocks until ctx is done.
func (d *DailyReminder) Start(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	log.Printf("Daily reminder worker started (hour %d)", d.hour)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// day is the UTC calendar date of now, as stored in daily_logs.
func day(now time.Time) time.Time {
	y, m, dd := now.UTC().Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func (d *DailyReminder) due(now time.Time) bool {
	return now.UTC().Hour() >= d.hour && !d.lastDay.Equal(day(now))
}

func (d *DailyReminder) tick(ctx context.Context) {
	now := d.now()
	if !d.due(now) {
		return
	}

	today := day(now)
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	sent, err := d.sender.SendDailyReminders(runCtx, today)
	if err != nil {
		log.Printf("Daily reminder for %s failed: %v", today.Format("2006-01-02"), err)
		return
	}
	d.lastDay = today
	log.Printf("Daily reminder for %s sent to %d users", today.Format("2006-01-02"), sent)
}
