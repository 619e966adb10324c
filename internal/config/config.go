package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectID      string
	Port           string
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string

	// MaxGenerateDays caps the span of a session-generation window.
	MaxGenerateDays int
}

func Load() Config {
	// Local development keeps settings in .env; in Cloud Run the file does
	// not exist and plain env vars are used.
	_ = godotenv.Load()

	projectID := getenv("FIREBASE_PROJECT_ID", "")
	if projectID == "" {
		projectID = getenv("GOOGLE_CLOUD_PROJECT", "")
	}

	port := getenv("PORT", "8080")
	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")

	allowed := []string{}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed = append(allowed, o)
		}
	}

	return Config{
		ProjectID:       projectID,
		Port:            port,
		AllowedOrigins:  allowed,
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "json"),
		MaxGenerateDays: getint("MAX_GENERATE_DAYS", 92),
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
