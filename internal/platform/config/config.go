package config

import (
	"os"
	"strconv"
	"time"
)

// Config gathers every knob the process reads from the environment so main
// stays lean and the rest of the code never touches os.Getenv.
type Config struct {
	Addr string

	// DatabaseURL selects the Postgres store; empty means in-memory.
	DatabaseURL string

	Redis RedisConfig

	Twilio TwilioConfig

	Admin AdminConfig

	JWT JWTConfig
}

type RedisConfig struct {
	// URL selects the Redis session store; empty means in-process sessions.
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SessionTTL evicts idle conversations. Active users never notice it.
	SessionTTL time.Duration
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	PhoneNumber string
	SandboxCode string
}

type AdminConfig struct {
	Username string
	Password string
}

type JWTConfig struct {
	SigningKey string
	Issuer     string
	ExpiresIn  time.Duration
}

// FromEnv builds a Config from environment variables with dev-safe defaults.
func FromEnv() Config {
	return Config{
		Addr:        getenv("SAMAJSETU_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			SessionTTL:   getenvDuration("SESSION_TTL", 24*time.Hour),
		},
		Twilio: TwilioConfig{
			AccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
			PhoneNumber: getenv("TWILIO_PHONE_NUMBER", "whatsapp:+14155238886"),
			SandboxCode: getenv("TWILIO_SANDBOX_CODE", "hello"),
		},
		Admin: AdminConfig{
			Username: getenv("ADMIN_USERNAME", "admin"),
			Password: getenv("ADMIN_PASSWORD", "admin"),
		},
		JWT: JWTConfig{
			// Use a default for development - should be overridden in production
			SigningKey: getenv("JWT_SECRET_KEY", "dev-secret-key-change-in-production"),
			Issuer:     getenv("JWT_ISSUER", "samajsetu"),
			ExpiresIn:  getenvDuration("JWT_ACCESS_TOKEN_EXPIRES_IN", 30*time.Minute),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
