package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ストレージバックエンド
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Server
	ServerPort string
	AppEnv     string

	// Logging
	LogLevel string

	// CORS
	CORSAllowedOrigin string

	// Rate Limit (req/min)
	RateLimitGeneral int
	RateLimitWrite   int

	// Upload
	UploadDir      string
	UploadMaxSize  int64
	StorageBackend string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3PublicURL    string

	// Terminal client
	APIBaseURL     string
	SubmitStrategy string
	ClientTimeout  time.Duration
	UserID         int64
	StartPath      string
	FormLabelsPath string
	OverlayGuard   time.Duration
	TUILogFile     string
}

// Load は環境変数からConfigを読み込む。
// DATABASE_URLの要否はサブコマンドによって異なるため、RequireDatabaseで検証する。
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ServerPort:        getEnvString("SERVER_PORT", "8080"),
		AppEnv:            getEnvString("APP_ENV", "development"),
		LogLevel:          strings.ToLower(getEnvString("LOG_LEVEL", "info")),
		CORSAllowedOrigin: getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		RateLimitGeneral:  getEnvInt("RATE_LIMIT_GENERAL", 120),
		RateLimitWrite:    getEnvInt("RATE_LIMIT_WRITE", 30),
		UploadDir:         getEnvString("UPLOAD_DIR", "./uploads"),
		UploadMaxSize:     getEnvInt64("UPLOAD_MAX_SIZE", 10<<20),
		StorageBackend:    strings.ToLower(getEnvString("STORAGE_BACKEND", StorageLocal)),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getEnvString("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		S3PublicURL:       os.Getenv("S3_PUBLIC_URL"),
		APIBaseURL:        getEnvString("API_BASE_URL", "http://localhost:8080"),
		SubmitStrategy:    strings.ToLower(getEnvString("SUBMIT_STRATEGY", "api")),
		ClientTimeout:     getEnvDuration("CLIENT_TIMEOUT", 10*time.Second),
		UserID:            getEnvInt64("INTRANET_USER_ID", 1),
		StartPath:         getEnvString("INTRANET_START_PATH", "/"),
		FormLabelsPath:    os.Getenv("FORM_LABELS_PATH"),
		OverlayGuard:      getEnvDuration("OVERLAY_GUARD", 300*time.Millisecond),
		TUILogFile:        os.Getenv("TUI_LOG_FILE"),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL %q (use debug, info, warn, or error)", cfg.LogLevel)
	}

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("required environment variables are not set: [S3_BUCKET]")
		}
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (use local or s3)", cfg.StorageBackend)
	}

	if cfg.UploadMaxSize <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_SIZE must be positive, got %d", cfg.UploadMaxSize)
	}

	return cfg, nil
}

// RequireDatabase はDATABASE_URLが設定されているかを検証する。
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("required environment variables are not set: [DATABASE_URL]")
	}
	return nil
}

// IsProduction は本番環境かどうかを返す。本番ではエラー詳細をレスポンスに含めない。
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
