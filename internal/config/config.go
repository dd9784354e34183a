package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting comma-separated values

	"github.com/joho/godotenv" // For loading .env files
)

// Default values used when the environment leaves a setting empty
const (
	DefaultPort          = "3000"
	DefaultJWTSecret     = "mysecretkey"
	DefaultDBPath        = "./database/nav.db"
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "123456"
	DefaultUploadsDir    = "./uploads"
	DefaultStaticDir     = "./web/dist"
	DefaultCacheTTL      = 60
)

// Config holds the application configuration
type Config struct {
	AppPort         string   // Application port
	JWTSecret       string   // JWT secret key
	DBPath          string   // SQLite file location, plain path or URI-style
	SchemaPath      string   // Optional external schema script
	AdminUsername   string   // Default admin username seeded on bootstrap
	AdminPassword   string   // Default admin password seeded on bootstrap
	CORSOrigins     []string // Allowed CORS origins, nil when unset
	UploadsDir      string   // Directory served under /uploads
	StaticDir       string   // Built SPA served in production
	RedisAddr       string   // Redis server address, empty disables the list cache
	RedisPass       string   // Redis password
	RedisDB         int      // Redis database number
	CacheTTLSeconds int      // List cache TTL
	LogLevel        string   // logrus level name
	IsProd          bool     // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	cacheTTL, err := strconv.Atoi(os.Getenv("CACHE_TTL_SECONDS"))
	if err != nil || cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Config{
		AppPort:         firstNonEmpty(os.Getenv("APP_PORT"), os.Getenv("PORT"), DefaultPort),
		JWTSecret:       firstNonEmpty(os.Getenv("JWT_SECRET"), DefaultJWTSecret),
		DBPath:          firstNonEmpty(os.Getenv("DB_PATH"), os.Getenv("DATABASE_URL"), DefaultDBPath),
		SchemaPath:      os.Getenv("SCHEMA_PATH"),
		AdminUsername:   firstNonEmpty(os.Getenv("ADMIN_USERNAME"), DefaultAdminUsername),
		AdminPassword:   firstNonEmpty(os.Getenv("ADMIN_PASSWORD"), DefaultAdminPassword),
		CORSOrigins:     ParseOrigins(firstNonEmpty(os.Getenv("CORS_ORIGINS"), os.Getenv("CORS_ORIGIN"))),
		UploadsDir:      firstNonEmpty(os.Getenv("UPLOADS_DIR"), DefaultUploadsDir),
		StaticDir:       firstNonEmpty(os.Getenv("STATIC_DIR"), DefaultStaticDir),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPass:       os.Getenv("REDIS_PASS"),
		RedisDB:         redisDB,
		CacheTTLSeconds: cacheTTL,
		LogLevel:        firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		IsProd:          os.Getenv("IS_PROD") == "true",
	}
}

// ParseOrigins splits a comma-separated origin list, dropping blanks.
// It returns nil when nothing usable remains.
func ParseOrigins(raw string) []string {
	var origins []string
	for _, part := range strings.Split(raw, ",") {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// AllowsAnyOrigin reports whether CORS should accept every origin
func (c *Config) AllowsAnyOrigin() bool {
	if len(c.CORSOrigins) == 0 {
		return true // No list configured
	}
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
