package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"inzichtCoachAPI/internal/points"
	"inzichtCoachAPI/internal/progress"
	"inzichtCoachAPI/services"
)

type ProgressReader interface {
	GetProgress(ctx context.Context, userID uuid.UUID) (*services.ProgressResponse, error)
	GetWeeklyStats(ctx context.Context, userID uuid.UUID, now time.Time) (*progress.WeeklyStats, error)
}

type PointsReader interface {
	GetPoints(ctx context.Context, userID uuid.UUID) (*points.Record, error)
}

type ProgressHandler struct {
	profiles ProfileFinder
	progress ProgressReader
	points   PointsReader
	now      func() time.Time
}

func NewProgressHandler(profiles ProfileFinder, progress ProgressReader, points PointsReader) *ProgressHandler {
	return &ProgressHandler{
		profiles: profiles,
		progress: progress,
		points:   points,
		now:      time.Now,
	}
}

// GET /api/v1/progress
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	resp, err := h.progress.GetProgress(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, progress.ErrInvalidDailyGoal) {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Printf("GetProgress: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute progress")
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/progress/weekly
func (h *ProgressHandler) GetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	stats, err := h.progress.GetWeeklyStats(ctx, profile.ID, h.now())
	if err != nil {
		log.Printf("GetWeeklyStats: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to compute weekly stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// GET /api/v1/points
func (h *ProgressHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	record, err := h.points.GetPoints(ctx, profile.ID)
	if err != nil {
		log.Printf("GetPoints: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch points")
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}
