package progress

import "time"

type WeeklyStats struct {
	From            time.Time `json:"from"`
	TotalDrinks     int       `json:"total_drinks"`
	DaysLogged      int       `json:"days_logged"`
	AlcoholFreeDays int       `json:"alcohol_free_days"`
	AveragePerDay   float64   `json:"average_per_day"`
}

// WeekWindowStart returns the first date included in the seven-day window
// ending at now. Stored dates are UTC midnights, so the window is too.
func WeekWindowStart(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -7)
}

// ComputeWeekly summarises the records dated within the last seven days
// (inclusive of the window start). Records outside the window are ignored,
// so callers may pass the full history.
func ComputeWeekly(records []DailyRecord, now time.Time) WeeklyStats {
	from := WeekWindowStart(now)
	stats := WeeklyStats{From: from}

	for _, rec := range records {
		if rec.Date.Before(from) {
			continue
		}
		drinks := rec.DrinksCount
		if drinks < 0 {
			drinks = 0
		}
		stats.DaysLogged++
		stats.TotalDrinks += drinks
		if drinks == 0 {
			stats.AlcoholFreeDays++
		}
	}

	if stats.DaysLogged > 0 {
		stats.AveragePerDay = float64(stats.TotalDrinks) / float64(stats.DaysLogged)
	}
	return stats
}
