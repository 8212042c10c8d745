package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Auth: JWKSURL for RS256/ES256 tokens, JWTSecret for HS256 (dev/test)
	JWKSURL   string
	JWTSecret string
	// Object storage
	Storage StorageConfig
	// File logging (disabled when LogDir is empty)
	LogDir      string
	LogMaxFiles int
}

// StorageConfig selects and configures the object storage backend
type StorageConfig struct {
	Backend       string // s3, local or memory
	S3Bucket      string
	S3Region      string
	S3Endpoint    string // MinIO, Localstack, ...
	S3AccessKeyID string
	S3SecretKey   string
	S3KeyPrefix   string
	S3PublicURL   string
	S3MaxRetries  int
	LocalDir      string
	PublicBaseURL string // Base URL the local backend's files are served from
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	port := getEnv("PORT", "8080")

	return &Config{
		Port:        port,
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		JWKSURL:     getEnv("JWKS_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", getDefaultStorageBackend(env)),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("S3_REGION", "us-east-1"),
			S3Endpoint:    getEnv("S3_ENDPOINT", ""),
			S3AccessKeyID: getEnv("S3_ACCESS_KEY_ID", ""),
			S3SecretKey:   getEnv("S3_SECRET_ACCESS_KEY", ""),
			S3KeyPrefix:   getEnv("S3_KEY_PREFIX", ""),
			S3PublicURL:   getEnv("S3_PUBLIC_URL", ""),
			S3MaxRetries:  getEnvInt("S3_MAX_RETRIES", 3),
			LocalDir:      getEnv("LOCAL_STORAGE_DIR", "./data/objects"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		},
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", 10),
	}
}

// getDefaultStorageBackend keeps dev machines off real buckets
func getDefaultStorageBackend(env string) string {
	if env == "prod" {
		return "s3"
	}
	return "local"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
