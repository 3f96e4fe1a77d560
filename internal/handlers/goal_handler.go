package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Accountability_Tracker/internal/services"
	"github.com/Dias221467/Accountability_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalHandler handles HTTP requests related to goals.
type GoalHandler struct {
	Service *services.GoalService
}

// NewGoalHandler creates a new instance of GoalHandler.
func NewGoalHandler(service *services.GoalService) *GoalHandler {
	return &GoalHandler{
		Service: service,
	}
}

// CreateGoalHandler handles the creation of a new goal. The first goal since
// the caller's last reset also opens their 24h cycle.
func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized access attempt during goal creation")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Text             string `json:"text"`
		AllocatedMinutes int    `json:"allocatedMinutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during goal creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to convert user ID")
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	goal, err := h.Service.CreateGoal(r.Context(), userID, body.Text, body.AllocatedMinutes)
	if err != nil {
		logrus.WithError(err).Error("Failed to create goal")
		respondError(w, err, "Failed to create goal")
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"goalID": goal.ID.Hex(),
	}).Info("Goal successfully created")
	respondJSON(w, http.StatusOK, goal)
}

// GetRecentGoalsHandler returns the shared feed of goals created within the
// trailing three days, newest first.
func (h *GoalHandler) GetRecentGoalsHandler(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Service.GetRecentGoals(r.Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch recent goals")
		http.Error(w, "Failed to fetch goals", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, goals)
}

// ToggleGoalHandler flips a goal's completion flag. The streak evaluation
// runs right after, so a final toggle can advance the caller's streak.
func (h *GoalHandler) ToggleGoalHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	goalID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		logrus.WithError(err).Warn("Invalid goal ID format during toggle")
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}

	goal, err := h.Service.ToggleGoal(r.Context(), goalID)
	if err != nil {
		logrus.WithError(err).WithField("goalID", goalID.Hex()).Warn("Failed to toggle goal")
		respondError(w, err, "Failed to toggle goal")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// DeleteGoalHandler removes a goal while it is still inside the 30-minute
// window, and only for its owner.
func (h *GoalHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	goalID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		logrus.WithError(err).Warn("Invalid goal ID format during delete")
		http.Error(w, "Invalid goal ID", http.StatusBadRequest)
		return
	}

	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	if err := h.Service.DeleteGoal(r.Context(), goalID, requesterID); err != nil {
		logrus.WithError(err).WithField("goalID", goalID.Hex()).Warn("Failed to delete goal")
		respondError(w, err, "Failed to delete goal")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Goal deleted"})
}

// EvaluateStreakHandler runs the completion evaluation for the caller. It is
// a no-op unless every goal in the cycle is completed.
func (h *GoalHandler) EvaluateStreakHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	user, err := h.Service.EvaluateStreak(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("userID", claims.UserID).Error("Streak evaluation failed")
		respondError(w, err, "Failed to evaluate streak")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
