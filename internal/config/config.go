package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all environment-driven settings for the server.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	GitHubAPI   string
	FrontendURL string
}

// LoadConfig reads configuration from the environment (.env in development).
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "accountability"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
		GitHubAPI:   getEnv("GITHUB_API_URL", "https://api.github.com"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
