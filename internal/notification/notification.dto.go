package notification

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

type CreateNotificationRequest struct {
	UserID uuid.UUID        `json:"user_id" validate:"required"`
	Type   NotificationType `json:"type" validate:"required"`
	Title  string           `json:"title" validate:"required"`
	Body   string           `json:"body"`
	Data   map[string]any   `json:"data"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

func (r *RegisterDeviceRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid device registration: %w", err)
	}
	return nil
}
