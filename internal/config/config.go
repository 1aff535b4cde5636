package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	Timezone  string
	LogLevel  string
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Bootstrap BootstrapConfig
	Mail      MailConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Sweep     SweepConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// BootstrapConfig describes the superAdmin account created on first start
type BootstrapConfig struct {
	Email      string
	Password   string
	FirstName  string
	MiddleName string
}

// MailConfig holds the transactional mail API settings
type MailConfig struct {
	APIURL   string
	APIKey   string
	From     string
	FromName string
	LoginURL string
}

// RedisConfig holds report cache settings
type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	ReportTTL time.Duration
}

// StorageConfig holds S3 settings for paper form uploads
type StorageConfig struct {
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	MaxUploadMB   int
}

// SweepConfig holds the assignment repair / overdue sweep schedule
type SweepConfig struct {
	Enabled bool
	Spec    string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:   appMode,
		Port:      getEnv("PORT", "3000"),
		Timezone:  getEnv("TIMEZONE", "Africa/Addis_Ababa"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Database:  loadDatabaseConfig(appMode),
		JWT:       loadJWTConfig(appMode),
		Cookie:    loadCookieConfig(appMode),
		Bootstrap: loadBootstrapConfig(),
		Mail:      loadMailConfig(),
		Redis:     loadRedisConfig(),
		Storage:   loadStorageConfig(),
		Sweep:     loadSweepConfig(),
	}

	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", config.Timezone, err)
	}

	return config, nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "ncic_pledge"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  getEnvInt("ACCESS_TOKEN_MINUTES", 1440),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 7),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{
		Email:      strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		Password:   getEnv("ADMIN_PASSWORD", ""),
		FirstName:  getEnv("ADMIN_FIRST_NAME", "System"),
		MiddleName: getEnv("ADMIN_MIDDLE_NAME", "Admin"),
	}
}

func loadMailConfig() MailConfig {
	return MailConfig{
		APIURL:   getEnv("MAIL_API_URL", ""),
		APIKey:   getEnv("MAIL_API_KEY", ""),
		From:     getEnv("MAIL_FROM", "no-reply@ncic.org"),
		FromName: getEnv("MAIL_FROM_NAME", "Pledge Tracking"),
		LoginURL: getEnv("MAIL_LOGIN_URL", ""),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:      getEnv("REDIS_HOST", ""),
		Port:      getEnv("REDIS_PORT", "6379"),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        getEnvInt("REDIS_DB", 0),
		ReportTTL: time.Duration(getEnvInt("REPORT_CACHE_SECONDS", 60)) * time.Second,
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Region:        getEnv("AWS_REGION", ""),
		Bucket:        getEnv("S3_BUCKET_NAME", ""),
		AccessKey:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
		MaxUploadMB:   getEnvInt("MAX_UPLOAD_MB", 10),
	}
}

func loadSweepConfig() SweepConfig {
	enabled, _ := strconv.ParseBool(getEnv("SWEEP_ENABLED", "true"))

	return SweepConfig{
		Enabled: enabled,
		// every day at 01:30
		Spec: getEnv("SWEEP_CRON", "30 1 * * *"),
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

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// Location returns the configured report timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RedisEnabled reports whether a Redis host is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// StorageEnabled reports whether S3 uploads are configured
func (c *Config) StorageEnabled() bool {
	return c.Storage.Region != "" && c.Storage.Bucket != ""
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://pledge.ncic.org"
	}
	return origins
}
