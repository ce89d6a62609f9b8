package config

import (
	"os"
)

type Config struct {
	Port       string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// Token settings
	JWTSecret             string
	RefreshJWTSecret      string
	AccessTokenTTLMinutes string // minutes
	RefreshTokenTTLDays   string // days
	// Demo account seeded on an empty database
	DemoEmail    string
	DemoPassword string
	DemoFullName string
	// Upstream API credentials (server-held, never sent to the browser)
	AviationstackKey    string
	SpotifyClientID     string
	SpotifyClientSecret string
	// Upstream base URLs (overridable so tests can point at local servers)
	MindicadorBaseURL    string
	AviationstackBaseURL string
	FrankfurterBaseURL   string
	SpotifyTokenURL      string
	ProxyTimeoutSeconds  string
}

func Load() *Config {
	return &Config{
		Port:       getenv("PORT", "8080"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", "postgres"),
		DBName:     getenv("DB_NAME", "boxento_db"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecret:             getenv("JWT_SECRET", "supersecret_change_me"),
		RefreshJWTSecret:      getenv("REFRESH_JWT_SECRET", getenv("JWT_SECRET", "supersecret_change_me")),
		AccessTokenTTLMinutes: getenv("ACCESS_TOKEN_TTL_MINUTES", "60"),
		RefreshTokenTTLDays:   getenv("REFRESH_TOKEN_TTL_DAYS", "30"),

		DemoEmail:    getenv("DEMO_EMAIL", "demo@example.com"),
		DemoPassword: getenv("DEMO_PASSWORD", "demo1234"),
		DemoFullName: getenv("DEMO_FULL_NAME", "Demo User"),

		AviationstackKey:    getenv("AVIATIONSTACK_KEY", ""),
		SpotifyClientID:     getenv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret: getenv("SPOTIFY_CLIENT_SECRET", ""),

		MindicadorBaseURL:    getenv("MINDICADOR_BASE_URL", "https://mindicador.cl"),
		AviationstackBaseURL: getenv("AVIATIONSTACK_BASE_URL", "https://api.aviationstack.com"),
		FrankfurterBaseURL:   getenv("FRANKFURTER_BASE_URL", "https://api.frankfurter.app"),
		SpotifyTokenURL:      getenv("SPOTIFY_TOKEN_URL", "https://accounts.spotify.com/api/token"),
		ProxyTimeoutSeconds:  getenv("PROXY_TIMEOUT_SECONDS", "10"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
