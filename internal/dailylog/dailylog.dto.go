package dailylog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"inzichtCoachAPI/internal/progress"
)

const DateLayout = "2006-01-02"

type UpsertDailyLogRequest struct {
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	DrinksCount *int    `json:"drinks_count" validate:"required,min=0,max=50"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Mood        *string `json:"mood,omitempty" validate:"omitempty,oneof=very_bad bad neutral good very_good"`
}

type UpsertDailyLogResponse struct {
	Log       *DailyLog `json:"log"`
	NewBadges []string  `json:"new_badges"`
}

var (
	validate   = validator.New()
	whitespace = regexp.MustCompile(`\s+`)
)

// Validate checks the request and normalises the free-text notes in place.
func (r *UpsertDailyLogRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid daily log: %w", err)
	}
	if r.Notes != nil {
		clean := Sanitize(*r.Notes)
		if clean == "" {
			r.Notes = nil
		} else {
			r.Notes = &clean
		}
	}
	return nil
}

func (r *UpsertDailyLogRequest) ParsedDate() (time.Time, error) {
	d, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	return d, nil
}

func (r *UpsertDailyLogRequest) ParsedMood() *progress.Mood {
	if r.Mood == nil {
		return nil
	}
	m := progress.Mood(*r.Mood)
	return &m
}

// Sanitize trims, collapses runs of whitespace and strips angle brackets.
func Sanitize(s string) string {
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}
