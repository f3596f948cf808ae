package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"inzichtCoachAPI/internal/user"
	"inzichtCoachAPI/middleware"
	"inzichtCoachAPI/services"
)

type ProfileFinder interface {
	GetProfileByClerkID(ctx context.Context, clerkID string) (*user.Profile, error)
}

// currentProfile resolves the authenticated Clerk user to a profile. On
// failure it has already written the response.
func currentProfile(ctx context.Context, w http.ResponseWriter, profiles ProfileFinder) (*user.Profile, bool) {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}

	profile, err := profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return nil, false
		}
		log.Printf("currentProfile: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return nil, false
	}
	return profile, true
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
