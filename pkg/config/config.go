package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Auth       AuthConfig
	CORS       CORSConfig
	Log        LogConfig
	Optimizer  OptimizerConfig
	Scheduler  SchedulerConfig
	CallSheets CallSheetConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// AuthConfig seeds the static dashboard account roster.
type AuthConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// OptimizerConfig points at the external AI scheduling service.
type OptimizerConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// SchedulerConfig tunes the local shoot-day heuristic and edit sessions.
type SchedulerConfig struct {
	WorkingHoursPerDay int
	EditSessionTTL     time.Duration
	CacheTTL           time.Duration
}

// CallSheetConfig controls call sheet storage and signed downloads.
type CallSheetConfig struct {
	ProductionTitle   string
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	WorkerConcurrency int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.Auth = AuthConfig{
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminName:     v.GetString("ADMIN_NAME"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Optimizer = OptimizerConfig{
		BaseURL: v.GetString("OPTIMIZER_BASE_URL"),
		APIKey:  v.GetString("OPTIMIZER_API_KEY"),
		Timeout: parseDuration(v.GetString("OPTIMIZER_TIMEOUT"), 60*time.Second),
	}

	cfg.Scheduler = SchedulerConfig{
		WorkingHoursPerDay: v.GetInt("SCHEDULER_WORKING_HOURS"),
		EditSessionTTL:     parseDuration(v.GetString("SCHEDULER_EDIT_SESSION_TTL"), 30*time.Minute),
		CacheTTL:           parseDuration(v.GetString("SCHEDULER_CACHE_TTL"), 5*time.Minute),
	}

	cfg.CallSheets = CallSheetConfig{
		ProductionTitle:   v.GetString("PRODUCTION_TITLE"),
		StorageDir:        v.GetString("CALL_SHEET_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("CALL_SHEET_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("CALL_SHEET_SIGNED_URL_TTL"), 24*time.Hour),
		WorkerConcurrency: v.GetInt("CALL_SHEET_WORKERS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "cineboard")
	v.SetDefault("DB_NAME", "cineboard")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ADMIN_EMAIL", "producer@cineboard.local")
	v.SetDefault("ADMIN_NAME", "Producer")
	v.SetDefault("ADMIN_PASSWORD", "change-me")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("OPTIMIZER_BASE_URL", "http://localhost:5000")
	v.SetDefault("OPTIMIZER_TIMEOUT", "60s")

	v.SetDefault("SCHEDULER_WORKING_HOURS", 8)
	v.SetDefault("SCHEDULER_EDIT_SESSION_TTL", "30m")
	v.SetDefault("SCHEDULER_CACHE_TTL", "5m")

	v.SetDefault("PRODUCTION_TITLE", "Untitled Production")
	v.SetDefault("CALL_SHEET_STORAGE_DIR", "./call_sheets")
	v.SetDefault("CALL_SHEET_SIGNED_URL_TTL", "24h")
	v.SetDefault("CALL_SHEET_WORKERS", 2)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
