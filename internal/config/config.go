package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
)

// App variants
const (
	VariantCafe = "cafe"
	VariantUser = "user"
)

// Config holds all configuration for the application
type Config struct {
	AppMode    string
	Port       string
	AppVariant string
	Storage    StorageConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Retention  RetentionConfig
	Notify     NotifyConfig
}

// StorageConfig selects and configures the snapshot backend
type StorageConfig struct {
	Driver       string
	Key          string
	Dir          string
	AsyncWrites  bool
	WriteTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds the operator token secret. Empty disables auth in dev.
type JWTConfig struct {
	Secret string
}

// RetentionConfig controls pruning of old snapshot revisions (mysql only)
type RetentionConfig struct {
	Schedule string
	Keep     int
}

// NotifyConfig configures owner notifications. Empty token disables them.
type NotifyConfig struct {
	URL   string
	Token string
}

// Load reads configuration from .env file and environment variables.
// The returned warning is non-empty when no .env file was found.
func Load() (*Config, string, error) {
	var warning string
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		warning = ".env file not found, using environment variables"
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, warning, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	variant := strings.TrimSpace(getEnv("APP_VARIANT", VariantCafe))
	if variant != VariantCafe && variant != VariantUser {
		return nil, warning, fmt.Errorf("invalid APP_VARIANT: '%s' (must be 'cafe' or 'user')", variant)
	}

	storage, err := loadStorageConfig(variant)
	if err != nil {
		return nil, warning, err
	}

	config := &Config{
		AppMode:    appMode,
		Port:       getEnv("PORT", "3000"),
		AppVariant: variant,
		Storage:    storage,
		Database:   loadDatabaseConfig(appMode),
		Redis:      loadRedisConfig(),
		JWT:        loadJWTConfig(appMode),
		Retention:  loadRetentionConfig(),
		Notify:     loadNotifyConfig(appMode),
	}

	return config, warning, nil
}

// loadStorageConfig loads the snapshot backend selection
func loadStorageConfig(variant string) (StorageConfig, error) {
	driver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", DriverFile)))
	switch driver {
	case DriverMemory, DriverFile, DriverMySQL, DriverRedis:
	default:
		return StorageConfig{}, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be memory, file, mysql or redis)", driver)
	}

	remote := driver == DriverMySQL || driver == DriverRedis
	async, err := strconv.ParseBool(getEnv("STORE_ASYNC_WRITES", strconv.FormatBool(remote)))
	if err != nil {
		return StorageConfig{}, fmt.Errorf("invalid STORE_ASYNC_WRITES: %w", err)
	}

	timeoutSecs, _ := strconv.Atoi(getEnv("STORE_WRITE_TIMEOUT_SECONDS", "5"))
	if timeoutSecs < 1 {
		timeoutSecs = 5
	}

	return StorageConfig{
		Driver:       driver,
		Key:          getEnv("STORE_KEY", "cafechain:"+variant+":state"),
		Dir:          getEnv("STORE_DIR", "data"),
		AsyncWrites:  async,
		WriteTimeout: time.Duration(timeoutSecs) * time.Second,
	}, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "cafechain"),
	}
}

func loadRedisConfig() RedisConfig {
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	return JWTConfig{
		Secret: getEnv(modePrefix(mode)+"JWT_SECRET", ""),
	}
}

func loadRetentionConfig() RetentionConfig {
	keep, err := strconv.Atoi(getEnv("SNAPSHOT_RETENTION_KEEP", "20"))
	if err != nil || keep < 1 {
		keep = 20
	}
	return RetentionConfig{
		Schedule: getEnv("SNAPSHOT_RETENTION_SCHEDULE", "@hourly"),
		Keep:     keep,
	}
}

func loadNotifyConfig(mode string) NotifyConfig {
	return NotifyConfig{
		URL:   getEnv("NOTIFY_URL", ""),
		Token: getEnv(modePrefix(mode)+"NOTIFY_TOKEN", ""),
	}
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// AuthEnabled reports whether console routes require an operator token.
// Production always requires one.
func (c *Config) AuthEnabled() bool {
	return c.IsProd() || c.JWT.Secret != ""
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://cafechain.app"
	}
	return origins
}
