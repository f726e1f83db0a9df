package config

import (
	"os"
	"strings"
)

const DefaultAddr = ":8080"

func BasePath() string {
	return strings.TrimSuffix(os.Getenv("APP_BASE_PATH"), "/")
}

// Addr is APP_ADDR, or ":" + APP_PORT when only the port is given.
func Addr() string {
	if addr, ok := os.LookupEnv("APP_ADDR"); ok && addr != "" {
		return addr
	}
	if port, ok := os.LookupEnv("APP_PORT"); ok && port != "" {
		return ":" + port
	}
	return DefaultAddr
}

// AllowedOrigins lists CORS_ALLOWED_ORIGINS. An empty list allows any origin.
func AllowedOrigins() []string {
	raw := os.Getenv("CORS_ALLOWED_ORIGINS")
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
