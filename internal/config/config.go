package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Skotchmaster/meneric/pkg/config"
)

const (
	DefaultStorageKey  = "meneric_db"
	DefaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-2.5-flash"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string
	DBDriver    string
	StorageKey  string

	JWTSecret    []byte
	CSRFEnabled  bool
	CookieSecure bool

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	GeminiAPIKey  string
	GeminiURL     string
	GeminiModel   string
	GeminiTimeout time.Duration
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not loaded (%v), using process environment", err)
	}

	return Config{
		ServiceName: pkgconfig.EnvDefault("SERVICE_NAME", "meneric"),
		ServerPort:  pkgconfig.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    pkgconfig.EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBDriver:    pkgconfig.EnvDefault("DB_DRIVER", "pgx"),
		StorageKey:  pkgconfig.EnvDefault("STORAGE_KEY", DefaultStorageKey),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		CSRFEnabled:  pkgconfig.EnvBoolDefault("CSRF_ENABLED", true),
		CookieSecure: pkgconfig.EnvBoolDefault("COOKIE_SECURE", false),

		KafkaBrokers: pkgconfig.CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    pkgconfig.EnvDefault("ES_INDEX", "products"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiURL:     pkgconfig.EnvDefault("GEMINI_URL", DefaultGeminiURL),
		GeminiModel:   pkgconfig.EnvDefault("GEMINI_MODEL", DefaultGeminiModel),
		GeminiTimeout: pkgconfig.EnvDurationDefault("GEMINI_TIMEOUT", 15*time.Second),
	}
}
