package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"journowlAPI/internal/entry"
	"journowlAPI/services"
)

type ProgressHandler struct {
	progressService       *services.ProgressService
	achievementService    *services.AchievementService
	goalService           *services.GoalService
	xpService             *services.XPService
	leaderboardService    *services.LeaderboardService
	reconciliationService *services.ReconciliationService
}

func NewProgressHandler(
	progressService *services.ProgressService,
	achievementService *services.AchievementService,
	goalService *services.GoalService,
	xpService *services.XPService,
	leaderboardService *services.LeaderboardService,
	reconciliationService *services.ReconciliationService,
) *ProgressHandler {
	return &ProgressHandler{
		progressService:       progressService,
		achievementService:    achievementService,
		goalService:           goalService,
		xpService:             xpService,
		leaderboardService:    leaderboardService,
		reconciliationService: reconciliationService,
	}
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["userID"])
}

// InitializeUserProgress creates the locked achievement and zero-progress
// goal instances for a new user. Called once from onboarding, but safe to
// call again.
func (h *ProgressHandler) InitializeUserProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.progressService.InitializeUserProgress(ctx, userID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to initialize user progress")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"status": "initialized"})
}

// RecordEntry consumes one journal-entry-created event and returns the
// updated aggregate.
func (h *ProgressHandler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var ev entry.JournalEntryEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	ev.UserID = userID
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	stats, err := h.progressService.RecordEntry(ctx, &ev)
	if err != nil {
		switch {
		case errors.Is(err, entry.ErrNegativeWords),
			errors.Is(err, entry.ErrMissingUser),
			errors.Is(err, entry.ErrMissingCreatedAt):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrConflict):
			respondWithError(w, http.StatusConflict, "Concurrent update, retry the request")
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to record entry")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *ProgressHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	stats, err := h.progressService.GetStats(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

func (h *ProgressHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	achievements, err := h.achievementService.GetAchievements(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}

func (h *ProgressHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	goals, err := h.goalService.GetGoals(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get goals")
		return
	}

	respondWithJSON(w, http.StatusOK, goals)
}

func (h *ProgressHandler) GetXP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	progress, err := h.xpService.GetProgress(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get xp")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

func (h *ProgressHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	board, err := h.leaderboardService.GetLeaderboard(ctx, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}

// Reconcile rebuilds a user's aggregate from the entry history. Used by
// support tooling and the periodic job; always safe.
func (h *ProgressHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	userID, err := userIDFromRequest(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	stats, err := h.reconciliationService.RebuildUserStats(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to rebuild stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// Helper functions
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
