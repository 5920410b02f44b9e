// Package config loads process configuration from the environment once at
// startup. The resulting Config is treated as immutable.
package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Mongo
	MongoURI string
	MongoDB  string

	// Auth
	JWTSecret string

	// Server
	Port string

	// MinIO (stall photos)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
}

// Load reads the environment into a Config. JWT_SECRET is required; tokens
// signed with an empty key would verify against any other empty-key service.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:       getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getenv("MONGO_DB", "foodstalls"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		Port:           getenv("PORT", "5000"),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required environment variable JWT_SECRET")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
