package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"inzichtCoachAPI/internal/achievement"
)

type AchievementLister interface {
	ListAchievements(ctx context.Context, userID uuid.UUID) ([]*achievement.Achievement, error)
}

type AchievementHandler struct {
	profiles     ProfileFinder
	achievements AchievementLister
}

func NewAchievementHandler(profiles ProfileFinder, achievements AchievementLister) *AchievementHandler {
	return &AchievementHandler{
		profiles:     profiles,
		achievements: achievements,
	}
}

// GET /api/v1/achievements - every badge with the user's unlock status
func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	earned, err := h.achievements.ListAchievements(ctx, profile.ID)
	if err != nil {
		log.Printf("GetAchievements: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, achievement.WithStatus(earned))
}

// GET /api/v1/badges/definitions
func (h *AchievementHandler) GetDefinitions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, achievement.Definitions())
}
