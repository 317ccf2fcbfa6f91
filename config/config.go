package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SyncPay  SyncPayConfig
	Utmify   UtmifyConfig
	CORS     CORSConfig
	Admin    AdminConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// PublicBaseURL is the externally reachable base of this service.
	// The provider callback URL is PublicBaseURL + /api/v1/webhooks/pix.
	PublicBaseURL string
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// SyncPayConfig holds credentials for the SyncPay PIX cash-in API.
type SyncPayConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// MinimumCents is the smallest charge the create endpoint accepts.
	MinimumCents int64
}

type UtmifyConfig struct {
	APIKey   string
	Endpoint string
}

type CORSConfig struct {
	// AllowedOrigins starts with the built-in defaults; ALLOWED_ORIGINS
	// appends to it. The first entry is the fallback allow-origin header
	// for requests from origins outside the list.
	AllowedOrigins []string
	// AllowedSuffixes are trusted deployment-domain suffixes matched
	// against the request origin.
	AllowedSuffixes []string
}

type AdminConfig struct {
	// PasswordHash is a bcrypt hash; the admin surface is disabled when empty.
	PasswordHash string
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env file loaded: %v", err)
	}

	origins := []string{
		"https://lovable.dev",
		"https://lovable.app",
		"http://localhost:5173",
		"http://localhost:3000",
		"http://127.0.0.1:5173",
	}
	if extra := os.Getenv("ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:          getenv("PORT", "8080"),
			Env:           getenv("APP_ENV", "development"),
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  30 * time.Second,
			PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "prively:prively@tcp(localhost:3306)/prively?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		SyncPay: SyncPayConfig{
			BaseURL:      getenv("SYNCPAY_BASE_URL", "https://api.syncpay.com.br"),
			ClientID:     os.Getenv("SYNCPAY_PUBLIC_KEY"),
			ClientSecret: os.Getenv("SYNCPAY_SECRET_KEY"),
			MinimumCents: 100,
		},
		Utmify: UtmifyConfig{
			APIKey:   os.Getenv("UTMIFY_API_KEY"),
			Endpoint: getenv("UTMIFY_ENDPOINT", "https://api.utmify.com.br/api-credentials/orders"),
		},
		CORS: CORSConfig{
			AllowedOrigins:  origins,
			AllowedSuffixes: []string{".lovable.app", ".lovable.dev", ".lovableproject.com"},
		},
		Admin: AdminConfig{
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", "change-me-in-production"),
			Expiry: 24 * time.Hour,
			Issuer: "prively",
		},
	}
}
