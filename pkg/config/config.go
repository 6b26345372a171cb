package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	FirebaseApiKey  string
	Environment     string

	MediaProvider       string // "cloudinary" or "gcs"
	CloudinaryCloudName string
	CloudinaryApiKey    string
	CloudinaryApiSecret string
	StorageBucket       string

	FeedPollInterval int64 // seconds between conversation feed re-fetches
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:  getEnv("FIREBASE_API_KEY", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),

		MediaProvider:       getEnv("MEDIA_PROVIDER", "cloudinary"),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryApiKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryApiSecret: getEnv("CLOUDINARY_API_SECRET", ""),
		StorageBucket:       getEnv("STORAGE_BUCKET", ""),

		FeedPollInterval: getEnvAsInt64("FEED_POLL_INTERVAL", 5),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
