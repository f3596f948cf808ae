package user

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type CreateProfileRequest struct {
	ClerkID   string  `json:"clerkId" validate:"required"`
	Email     string  `json:"email" validate:"omitempty,email,max=255"`
	FullName  *string `json:"fullName,omitempty" validate:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

type UpdateGoalsRequest struct {
	DailyGoal  *int `json:"dailyGoal" validate:"required,min=0,max=10"`
	WeeklyGoal *int `json:"weeklyGoal,omitempty" validate:"omitempty,min=0,max=50"`
}

func (r *CreateProfileRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}
	return nil
}

func (r *UpdateGoalsRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid goals: %w", err)
	}
	return nil
}
