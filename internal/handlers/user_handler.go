package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dias221467/Accountability_Tracker/internal/config"
	"github.com/Dias221467/Accountability_Tracker/internal/models"
	"github.com/Dias221467/Accountability_Tracker/internal/services"
	jwtutil "github.com/Dias221467/Accountability_Tracker/pkg/jwt"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to user operations.
type UserHandler struct {
	Service     *services.UserService
	GoalService *services.GoalService
	Config      *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, goalService *services.GoalService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service:     service,
		GoalService: goalService,
		Config:      cfg,
	}
}

// loginResponse carries the user record plus a session token the frontend
// sends back on mutating requests.
type loginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// LoginUserHandler handles login-or-register: an existing name logs straight
// in, an unknown name registers only when a GitHub reference checks out.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name   string `json:"name"`
		GitHub string `json:"github"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.Login(r.Context(), body.Name, body.GitHub)
	if err != nil {
		log.WithError(err).WithField("name", body.Name).Warn("Login failed")
		respondError(w, err, "Failed to log in")
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Name, h.Config.JWTSecret, 72*time.Hour)
	if err != nil {
		log.WithError(err).Error("Failed to issue session token")
		http.Error(w, "Failed to issue session token", http.StatusInternalServerError)
		return
	}

	log.WithField("userID", user.ID.Hex()).Info("User logged in")
	respondJSON(w, http.StatusOK, loginResponse{User: user, Token: token})
}

// GetLeaderboardHandler returns all users ordered by streak descending.
func (h *UserHandler) GetLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetLeaderboard(r.Context())
	if err != nil {
		log.WithError(err).Error("Failed to fetch leaderboard")
		http.Error(w, "Failed to fetch leaderboard", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// GetCycleStatusHandler returns the derived countdown for a user's cycle.
// The frontend polls this; the server stores nothing for it.
func (h *UserHandler) GetCycleStatusHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	status, err := h.GoalService.GetCycleStatus(r.Context(), userID)
	if err != nil {
		respondError(w, err, "Failed to compute cycle status")
		return
	}

	respondJSON(w, http.StatusOK, status)
}
