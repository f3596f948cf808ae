package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"inzichtCoachAPI/internal/notification"
)

type DeviceRegistrar interface {
	RegisterDevice(ctx context.Context, userID uuid.UUID, req *notification.RegisterDeviceRequest) error
}

type NotificationHandler struct {
	profiles ProfileFinder
	devices  DeviceRegistrar
}

func NewNotificationHandler(profiles ProfileFinder, devices DeviceRegistrar) *NotificationHandler {
	return &NotificationHandler{
		profiles: profiles,
		devices:  devices,
	}
}

// POST /api/v1/notifications/register-device
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req notification.RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.devices.RegisterDevice(ctx, profile.ID, &req); err != nil {
		log.Printf("RegisterDevice: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to register device")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Device registered"})
}
