package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"inzichtCoachAPI/internal/user"
)

type ProfileManager interface {
	ProfileFinder
	UpdateGoals(ctx context.Context, userID uuid.UUID, req *user.UpdateGoalsRequest) (*user.Profile, error)
}

type UserHandler struct {
	profiles  ProfileManager
	refresher ProgressRefresher
}

func NewUserHandler(profiles ProfileManager, refresher ProgressRefresher) *UserHandler {
	return &UserHandler{
		profiles:  profiles,
		refresher: refresher,
	}
}

// GET /api/v1/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// PUT /api/v1/profile/daily-goal
// Points and badges depend on the goal, so they are refreshed afterwards.
func (h *UserHandler) UpdateDailyGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req user.UpdateGoalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.profiles.UpdateGoals(ctx, profile.ID, &req)
	if err != nil {
		log.Printf("UpdateDailyGoal: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to update daily goal")
		return
	}

	if _, err := h.refresher.Refresh(ctx, profile.ID); err != nil {
		log.Printf("UpdateDailyGoal: refresh for user %s failed: %v", profile.ID, err)
	}

	respondWithJSON(w, http.StatusOK, updated)
}
