package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/Dias221467/Accountability_Tracker/internal/config"
	"github.com/Dias221467/Accountability_Tracker/internal/database"
	"github.com/Dias221467/Accountability_Tracker/internal/handlers"
	"github.com/Dias221467/Accountability_Tracker/internal/identity"
	"github.com/Dias221467/Accountability_Tracker/internal/jobs"
	"github.com/Dias221467/Accountability_Tracker/internal/repository"
	cronjobs "github.com/Dias221467/Accountability_Tracker/internal/scheduler"
	"github.com/Dias221467/Accountability_Tracker/internal/services"
	"github.com/Dias221467/Accountability_Tracker/pkg/clock"
	"github.com/Dias221467/Accountability_Tracker/pkg/logger"
	"github.com/Dias221467/Accountability_Tracker/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	clk := clock.NewSystem()
	validator := identity.NewGitHubValidator(cfg.GitHubAPI)

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	uow := repository.NewUnitOfWork(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, validator)
	notifService := services.NewNotificationService(notifRepo)
	goalService := services.NewGoalService(goalRepo, userRepo, notifService, uow, clk)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, goalService, cfg)
	goalHandler := handlers.NewGoalHandler(goalService)
	notifHandler := handlers.NewNotificationHandler(notifService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Health
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Backend running"))
	}).Methods("GET")

	// Public routes
	router.HandleFunc("/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/goals", goalHandler.GetRecentGoalsHandler).Methods("GET")
	router.HandleFunc("/users", userHandler.GetLeaderboardHandler).Methods("GET")
	router.HandleFunc("/users/{id}/cycle", userHandler.GetCycleStatusHandler).Methods("GET")

	// Goal mutations need an authenticated caller
	protectedRoutes := router.PathPrefix("/goals").Subrouter()
	protectedRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedRoutes.HandleFunc("", goalHandler.CreateGoalHandler).Methods("POST")
	protectedRoutes.HandleFunc("/{id}/toggle", goalHandler.ToggleGoalHandler).Methods("POST")
	protectedRoutes.HandleFunc("/{id}", goalHandler.DeleteGoalHandler).Methods("DELETE")

	streakRoutes := router.PathPrefix("/streak").Subrouter()
	streakRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	streakRoutes.HandleFunc("", goalHandler.EvaluateStreakHandler).Methods("POST")

	// Notification routes
	protectedNotifRoutes := router.PathPrefix("/notifications").Subrouter()
	protectedNotifRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedNotifRoutes.HandleFunc("", notifHandler.GetUserNotificationsHandler).Methods("GET")
	protectedNotifRoutes.HandleFunc("/{id}/read", notifHandler.MarkAsReadHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Advisory background jobs (reminders and cleanup only)
	notifier := jobs.NewCycleNotifier(userService, notifService, clk)
	cronjobs.StartCronJobs(notifier, notifService)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
