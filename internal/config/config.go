package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvProduction is the app.env value that switches the service into its tolerant, non-debug mode.
const EnvProduction = "production"

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	Debug                  bool
	DatabaseURL            string
	DatabaseName           string
	RedisURL               string
	CacheTTL               time.Duration
	JWTSecret              string
	JWTTTL                 time.Duration
	AllowedOrigins         []string
	UploadMaxSizeMB        int
	DefaultCourseStartDate string
	DefaultCourseMentor    string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	SeedEnabled            bool
	SeedToken              string
	AuthRateLimit          int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with the production policy.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.AppEnv), EnvProduction)
}

// UploadMaxBytes returns the upload cap in bytes.
func (c Config) UploadMaxBytes() int64 {
	if c.UploadMaxSizeMB <= 0 {
		return 10 * 1024 * 1024
	}
	return int64(c.UploadMaxSizeMB) * 1024 * 1024
}

// CloudinaryEnabled reports whether every Cloudinary credential is present.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PORTAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ICTAK Portal API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("database.name", "ictak")
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("cors.allowed_origins", "https://ictportal.vercel.app,http://localhost:3000,http://localhost:5173")
	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("course.default_start_date", "15th March 2024")
	v.SetDefault("course.default_mentor", "Mridula")
	v.SetDefault("cloudinary.folder", "ictak/submissions")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("auth.rate_limit", 10)

	cacheTTL, err := parseDuration(v.GetString("cache.ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid cache ttl: %w", err)
	}

	jwtTTL, err := parseDuration(v.GetString("jwt.ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 strings.ToLower(strings.TrimSpace(v.GetString("app.env"))),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            strings.TrimSpace(v.GetString("database.url")),
		DatabaseName:           v.GetString("database.name"),
		RedisURL:               strings.TrimSpace(v.GetString("redis.url")),
		CacheTTL:               cacheTTL,
		JWTSecret:              v.GetString("jwt.secret"),
		JWTTTL:                 jwtTTL,
		AllowedOrigins:         splitList(v.GetString("cors.allowed_origins")),
		UploadMaxSizeMB:        v.GetInt("upload.max_size_mb"),
		DefaultCourseStartDate: v.GetString("course.default_start_date"),
		DefaultCourseMentor:    v.GetString("course.default_mentor"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		SeedEnabled:            v.GetBool("seed.enabled"),
		SeedToken:              v.GetString("seed.token"),
		AuthRateLimit:          v.GetInt("auth.rate_limit"),
	}

	cfg.Debug = !cfg.IsProduction()
	if v.IsSet("app.debug") {
		cfg.Debug = v.GetBool("app.debug")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 10
	}

	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("jwt secret must be provided")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database url must be provided")
	}
	return nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

func splitList(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
