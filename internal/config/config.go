package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host           string
	Port           string
	LogLevel       slog.Level
	JWTSecret      []byte
	TokenTTL       time.Duration
	FrontendOrigin string
	RedisURL       string
	CacheTTL       time.Duration
	MaxBodyBytes   int64
	Mongo          *MongoConfig
}

func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// LoadConfig reads the process environment, after loading a .env file from
// the working directory if one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "8h"))
	if err != nil || tokenTTL <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil || cacheTTL <= 0 {
		return nil, fmt.Errorf("invalid CACHE_TTL %q", os.Getenv("CACHE_TTL"))
	}

	maxBody, err := strconv.ParseInt(getEnv("MAX_BODY_BYTES", "52428800"), 10, 64)
	if err != nil || maxBody <= 0 {
		return nil, fmt.Errorf("invalid MAX_BODY_BYTES %q", os.Getenv("MAX_BODY_BYTES"))
	}

	mongoCfg, err := NewMongoConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "3000"),
		LogLevel:       level,
		JWTSecret:      []byte(secret),
		TokenTTL:       tokenTTL,
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "*"),
		RedisURL:       getEnv("REDIS_URL", ""),
		CacheTTL:       cacheTTL,
		MaxBodyBytes:   maxBody,
		Mongo:          mongoCfg,
	}, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
