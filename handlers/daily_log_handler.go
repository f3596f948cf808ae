package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"inzichtCoachAPI/internal/dailylog"
	"inzichtCoachAPI/services"
)

type DailyLogStore interface {
	UpsertDailyLog(ctx context.Context, userID uuid.UUID, req *dailylog.UpsertDailyLogRequest) (*dailylog.DailyLog, error)
	ListDailyLogs(ctx context.Context, userID uuid.UUID, ascending bool) ([]*dailylog.DailyLog, error)
	GetDailyLogByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*dailylog.DailyLog, error)
	DeleteDailyLog(ctx context.Context, userID uuid.UUID, logID uuid.UUID) error
}

type ProgressRefresher interface {
	Refresh(ctx context.Context, userID uuid.UUID) (*services.RefreshResult, error)
}

type DailyLogHandler struct {
	profiles  ProfileFinder
	logs      DailyLogStore
	refresher ProgressRefresher
	now       func() time.Time
}

func NewDailyLogHandler(profiles ProfileFinder, logs DailyLogStore, refresher ProgressRefresher) *DailyLogHandler {
	return &DailyLogHandler{
		profiles:  profiles,
		logs:      logs,
		refresher: refresher,
		now:       time.Now,
	}
}

// refresh brings points and badges in line after a log mutation. A failure
// here does not undo the mutation, so it is only logged.
func (h *DailyLogHandler) refresh(ctx context.Context, userID uuid.UUID) []string {
	newBadges := []string{}
	result, err := h.refresher.Refresh(ctx, userID)
	if err != nil {
		log.Printf("DailyLogHandler: refresh for user %s failed: %v", userID, err)
		return newBadges
	}
	for _, b := range result.NewBadges {
		newBadges = append(newBadges, string(b))
	}
	return newBadges
}

// POST /api/v1/logs
func (h *DailyLogHandler) UpsertDailyLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req dailylog.UpsertDailyLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.logs.UpsertDailyLog(ctx, profile.ID, &req)
	if err != nil {
		log.Printf("UpsertDailyLog: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to save daily log")
		return
	}

	respondWithJSON(w, http.StatusOK, dailylog.UpsertDailyLogResponse{
		Log:       entry,
		NewBadges: h.refresh(ctx, profile.ID),
	})
}

// GET /api/v1/logs
func (h *DailyLogHandler) ListDailyLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	ascending := r.URL.Query().Get("order") == "asc"
	logs, err := h.logs.ListDailyLogs(ctx, profile.ID, ascending)
	if err != nil {
		log.Printf("ListDailyLogs: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch daily logs")
		return
	}
	if logs == nil {
		logs = []*dailylog.DailyLog{}
	}

	respondWithJSON(w, http.StatusOK, logs)
}

// GET /api/v1/logs/today
// The client may pass ?date=YYYY-MM-DD so "today" follows its own time zone.
func (h *DailyLogHandler) GetTodayLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	now := h.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dailylog.DateLayout, raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	entry, err := h.logs.GetDailyLogByDate(ctx, profile.ID, day)
	if err != nil {
		log.Printf("GetTodayLog: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch today's log")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"log": entry})
}

// DELETE /api/v1/logs/{id}
func (h *DailyLogHandler) DeleteDailyLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	profile, ok := currentProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	logID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid log ID")
		return
	}

	if err := h.logs.DeleteDailyLog(ctx, profile.ID, logID); err != nil {
		if errors.Is(err, services.ErrDailyLogNotFound) {
			respondWithError(w, http.StatusNotFound, "Daily log not found")
			return
		}
		log.Printf("DeleteDailyLog: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to delete daily log")
		return
	}

	h.refresh(ctx, profile.ID)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Daily log deleted"})
}
