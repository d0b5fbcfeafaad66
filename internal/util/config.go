package util

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

//nolint:gochecknoglobals // here its ok
var once sync.Once

func init() {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	})
}

const (
	defaultServerAddr      = "localhost:8080"
	defaultWriteTimeout    = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultGracefulTimeout = 5 * time.Second

	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 14 * 24 * time.Hour

	defaultRateLimit     = 100
	defaultRateInterval  = 1 * time.Minute
	defaultRateBlockTime = 5 * time.Minute

	defaultRefreshCookieName = "refresh_token"
	defaultRefreshCookiePath = "/api/v1/auth"

	// Keys below these sizes are rejected at startup.
	MinJWTSecretLen = 32
	MinPepperLen    = 16

	RawRefreshTokenLength = 32
	JWTLeeWay             = 5 * time.Second
)

// ErrConfiguration marks fatal startup misconfiguration (missing or weak secrets).
var ErrConfiguration = errors.New("configuration error")

type ServerConfig struct {
	ServerAddr      string
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

func NewServerConfig() *ServerConfig {
	addr := os.Getenv("SERVER_ADDRESS")
	if addr == "" {
		addr = defaultServerAddr
	}

	return &ServerConfig{
		ServerAddr:      addr,
		WriteTimeout:    parseDurationOrDefault("WRITE_TIMEOUT", defaultWriteTimeout),
		ReadTimeout:     parseDurationOrDefault("READ_TIMEOUT", defaultReadTimeout),
		IdleTimeout:     parseDurationOrDefault("IDLE_TIMEOUT", defaultIdleTimeout),
		GracefulTimeout: parseDurationOrDefault("GRACEFUL_TIMEOUT", defaultGracefulTimeout),
	}
}

type TokenConfig struct {
	JwtSecretKey []byte
	Pepper       string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// NewTokenConfig reads the signing secret and refresh pepper. Absent or
// visibly weak values abort startup rather than run in a degraded mode.
func NewTokenConfig() (*TokenConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is not set", ErrConfiguration)
	}
	if len(secret) < MinJWTSecretLen {
		return nil, fmt.Errorf("%w: JWT_SECRET must be at least %d bytes", ErrConfiguration, MinJWTSecretLen)
	}

	pepper := os.Getenv("REFRESH_PEPPER")
	if pepper == "" {
		return nil, fmt.Errorf("%w: REFRESH_PEPPER is not set", ErrConfiguration)
	}
	if len(pepper) < MinPepperLen {
		return nil, fmt.Errorf("%w: REFRESH_PEPPER must be at least %d bytes", ErrConfiguration, MinPepperLen)
	}

	return &TokenConfig{
		JwtSecretKey: []byte(secret),
		Pepper:       pepper,
		AccessTTL:    parseDurationOrDefault("ACCESS_TOKEN_TTL", defaultAccessTTL),
		RefreshTTL:   parseDurationOrDefault("REFRESH_TOKEN_TTL", defaultRefreshTTL),
	}, nil
}

type CookieConfig struct {
	Name     string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

func NewCookieConfig() *CookieConfig {
	name := os.Getenv("REFRESH_COOKIE_NAME")
	if name == "" {
		name = defaultRefreshCookieName
	}

	return &CookieConfig{
		Name:     name,
		Path:     defaultRefreshCookiePath,
		Secure:   os.Getenv("COOKIE_SECURE") == "true",
		SameSite: parseSameSite(os.Getenv("COOKIE_SAME_SITE")),
	}
}

func parseSameSite(v string) http.SameSite {
	switch v {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

type RateLimiterConfig struct {
	Limit     int
	Interval  time.Duration
	BlockTime time.Duration
}

func NewRateLimiterConfig() *RateLimiterConfig {
	limitStr := os.Getenv("RATE_LIMIT_LIMIT")
	limit := defaultRateLimit
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		} else {
			log.Printf("Invalid RATE_LIMIT_LIMIT: %s, using default %d", limitStr, defaultRateLimit)
		}
	}

	return &RateLimiterConfig{
		Limit:     limit,
		Interval:  parseDurationOrDefault("RATE_LIMIT_INTERVAL", defaultRateInterval),
		BlockTime: parseDurationOrDefault("RATE_LIMIT_BLOCK_TIME", defaultRateBlockTime),
	}
}

func parseDurationOrDefault(varName string, def time.Duration) time.Duration {
	if v := os.Getenv(varName); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration in %s: %s, using default %s", varName, v, def)
	}
	return def
}
