package achievement

import "inzichtCoachAPI/internal/progress"

// Aggregates are the figures badge eligibility is judged on. VoiceJournalCount
// and ChatMessageCount come from outside the daily records.
type Aggregates struct {
	TotalDays            int `json:"total_days"`
	StreakDays           int `json:"streak_days"`
	LongestStreak        int `json:"longest_streak"`
	TotalAlcoholFreeDays int `json:"total_alcohol_free_days"`
	DaysWithinGoal       int `json:"days_within_goal"`
	VoiceJournalCount    int `json:"voice_journal_count"`
	ChatMessageCount     int `json:"chat_message_count"`
}

func AggregatesFrom(snap progress.Snapshot, voiceJournalCount, chatMessageCount int) Aggregates {
	return Aggregates{
		TotalDays:            snap.TotalDays,
		StreakDays:           snap.StreakDays,
		LongestStreak:        snap.LongestStreak,
		TotalAlcoholFreeDays: snap.AlcoholFreeDays,
		DaysWithinGoal:       snap.DaysWithinGoal,
		VoiceJournalCount:    voiceJournalCount,
		ChatMessageCount:     chatMessageCount,
	}
}

type rule struct {
	badge    BadgeType
	eligible func(Aggregates) bool
}

var rules = []rule{
	{BadgeFirstWeek, func(a Aggregates) bool { return a.TotalDays >= 7 }},
	{BadgeFirstMonth, func(a Aggregates) bool { return a.TotalDays >= 30 }},
	{BadgeStreak5, func(a Aggregates) bool { return a.StreakDays >= 5 }},
	{BadgeStreak10, func(a Aggregates) bool { return a.StreakDays >= 10 }},
	{BadgeStreak30, func(a Aggregates) bool { return a.StreakDays >= 30 }},
	{BadgeStreak100, func(a Aggregates) bool { return a.StreakDays >= 100 }},
	{BadgeZeroHero, func(a Aggregates) bool { return a.TotalAlcoholFreeDays >= 10 }},
	// within/total >= 0.9, kept in integers
	{BadgeGoalAchiever, func(a Aggregates) bool { return a.TotalDays > 0 && a.DaysWithinGoal*10 >= a.TotalDays*9 }},
	{BadgeVoiceJournaler, func(a Aggregates) bool { return a.VoiceJournalCount >= 10 }},
	{BadgeAIChatter, func(a Aggregates) bool { return a.ChatMessageCount >= 50 }},
}

// EligibleBadges lists every badge whose condition holds, earned or not.
func EligibleBadges(agg Aggregates) []BadgeType {
	var out []BadgeType
	for _, r := range rules {
		if r.eligible(agg) {
			out = append(out, r.badge)
		}
	}
	return out
}

// EvaluateNewBadges returns the badges whose condition holds and that are not
// in alreadyEarned, in catalogue order.
func EvaluateNewBadges(agg Aggregates, alreadyEarned []BadgeType) []BadgeType {
	earned := make(map[BadgeType]struct{}, len(alreadyEarned))
	for _, b := range alreadyEarned {
		earned[b] = struct{}{}
	}

	var fresh []BadgeType
	for _, b := range EligibleBadges(agg) {
		if _, ok := earned[b]; ok {
			continue
		}
		fresh = append(fresh, b)
	}
	return fresh
}
