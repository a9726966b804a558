package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultOfflineDBPath     = "./data/offline.db"
	defaultRPCReadTimeout    = "5s"
	defaultRPCUploadTimeout  = "30s"
	defaultGuestTokenTTL     = "72h"
	defaultReconcileInterval = "30s"
	defaultHealthInterval    = "15s"
	defaultListenAddr        = ":8080"
	defaultJWTSecret         = "change-me-jwt-secret"
)

// Config carries the runtime settings for the API server. The RPC backend,
// the direct database, and the object store are each optional; the upload
// path degrades through whichever remote targets are configured.
type Config struct {
	AppEnv string

	ListenAddr    string
	DatabaseURL   string
	OfflineDBPath string

	RPCBaseURL       string
	RPCReadTimeout   time.Duration
	RPCUploadTimeout time.Duration

	S3Bucket     string
	S3Region     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	S3PublicBase string

	JWTSecret     string
	GuestTokenTTL time.Duration

	ReconcileInterval time.Duration
	HealthInterval    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.ListenAddr = strings.TrimSpace(getEnvOr("LISTEN_ADDR", defaultListenAddr))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.OfflineDBPath = strings.TrimSpace(getEnvOr("OFFLINE_DB_PATH", defaultOfflineDBPath))

	cfg.RPCBaseURL = strings.TrimSpace(os.Getenv("RPC_BASE_URL"))

	cfg.S3Bucket = strings.TrimSpace(os.Getenv("S3_BUCKET"))
	cfg.S3Region = strings.TrimSpace(os.Getenv("S3_REGION"))
	cfg.S3Endpoint = strings.TrimSpace(os.Getenv("S3_ENDPOINT"))
	cfg.S3AccessKey = strings.TrimSpace(os.Getenv("S3_ACCESS_KEY"))
	cfg.S3SecretKey = strings.TrimSpace(os.Getenv("S3_SECRET_KEY"))
	cfg.S3PublicBase = strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE"))

	cfg.JWTSecret = strings.TrimSpace(getEnvOr("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.RPCReadTimeout, err = durationEnv("RPC_READ_TIMEOUT", defaultRPCReadTimeout)
	if err != nil {
		return nil, err
	}
	cfg.RPCUploadTimeout, err = durationEnv("RPC_UPLOAD_TIMEOUT", defaultRPCUploadTimeout)
	if err != nil {
		return nil, err
	}
	cfg.GuestTokenTTL, err = durationEnv("GUEST_TOKEN_TTL", defaultGuestTokenTTL)
	if err != nil {
		return nil, err
	}
	cfg.ReconcileInterval, err = durationEnv("RECONCILE_INTERVAL", defaultReconcileInterval)
	if err != nil {
		return nil, err
	}
	cfg.HealthInterval, err = durationEnv("HEALTH_INTERVAL", defaultHealthInterval)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	log.Printf("config loaded: env=%s rpc=%t direct_db=%t s3=%t",
		cfg.AppEnv, cfg.RPCBaseURL != "", cfg.DatabaseURL != "", cfg.S3Bucket != "")

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.RPCReadTimeout <= 0 {
		return fmt.Errorf("RPC_READ_TIMEOUT must be > 0")
	}
	if cfg.RPCUploadTimeout <= 0 {
		return fmt.Errorf("RPC_UPLOAD_TIMEOUT must be > 0")
	}
	if cfg.GuestTokenTTL <= 0 {
		return fmt.Errorf("GUEST_TOKEN_TTL must be > 0")
	}
	if cfg.ReconcileInterval <= 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must be > 0")
	}
	if cfg.HealthInterval <= 0 {
		return fmt.Errorf("HEALTH_INTERVAL must be > 0")
	}
	if cfg.OfflineDBPath == "" {
		return fmt.Errorf("OFFLINE_DB_PATH must not be empty")
	}
	if cfg.DatabaseURL != "" && cfg.S3Bucket != "" {
		if cfg.S3Region == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" {
			return fmt.Errorf("S3_REGION, S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_BUCKET is set")
		}
	}
	if isProdEnv(cfg.AppEnv) {
		if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func isProdEnv(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func getEnvOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func durationEnv(key, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(getEnvOr(key, fallback))
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	return d, nil
}
