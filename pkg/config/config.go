package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Server         ServerConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Redis          RedisConfig
	Recommendation RecommendationConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

// RedisConfig is optional; without it tokens are checked by signature only.
type RedisConfig struct {
	Enabled       bool
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	PoolSize      int
	// per-request token lookup budget
	TimeoutMs int
}

// RecommendationConfig tunes the engine. Zero means "use the engine default".
type RecommendationConfig struct {
	CandidatePoolSize     int
	MinConfidence         int
	MinTrendingViews      int
	TrendingWindowDays    int
	ProfileOrderLimit     int
	ProfileViewLimit      int
	HistoryExclusionLimit int
	BestSellerDays        int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	redisPoolSize, err := getEnvInt("REDIS_POOL_SIZE", 10)
	if err != nil {
		return nil, err
	}

	redisTimeoutMs, err := getEnvInt("REDIS_TIMEOUT_MS", 500)
	if err != nil {
		return nil, err
	}

	reco, err := loadRecommendation()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Storefront Recommendations"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: []string{getEnv("FRONTEND_URL", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "storefront"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			Enabled:       getEnv("REDIS_ENABLED", "false") == "true",
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisUsername: getEnv("REDIS_USERNAME", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			PoolSize:      redisPoolSize,
			TimeoutMs:     redisTimeoutMs,
		},
		Recommendation: reco,
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func loadRecommendation() (RecommendationConfig, error) {
	var (
		rc  RecommendationConfig
		err error
	)

	fields := []struct {
		key string
		dst *int
	}{
		{"RECO_CANDIDATE_POOL_SIZE", &rc.CandidatePoolSize},
		{"RECO_MIN_CONFIDENCE", &rc.MinConfidence},
		{"RECO_MIN_TRENDING_VIEWS", &rc.MinTrendingViews},
		{"RECO_TRENDING_WINDOW_DAYS", &rc.TrendingWindowDays},
		{"RECO_PROFILE_ORDER_LIMIT", &rc.ProfileOrderLimit},
		{"RECO_PROFILE_VIEW_LIMIT", &rc.ProfileViewLimit},
		{"RECO_HISTORY_EXCLUSION_LIMIT", &rc.HistoryExclusionLimit},
		{"RECO_BEST_SELLER_DAYS", &rc.BestSellerDays},
	}
	for _, f := range fields {
		if *f.dst, err = getEnvInt(f.key, 0); err != nil {
			return RecommendationConfig{}, err
		}
	}

	return rc, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, val)
	}

	return n, nil
}
