package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Port        string
	GinMode     string
	Environment string
	DemoMode    bool

	Database DatabaseSettings
	SMTP     SMTPSettings

	JWTSecret      string
	ClientURL      string
	AllowedOrigins []string
	RedisURL       string

	WorkerCount       int
	WorkerQueue       int
	SideEffectTimeout time.Duration

	ApplyRateLimit  int
	ApplyRateWindow time.Duration
}

type DatabaseSettings struct {
	Driver   string
	Host     string
	Port     string
	Database string
	Username string
	Password string
	SSLMode  string
	DebugSQL bool
}

type SMTPSettings struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func init() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_DRIVER", "mysql")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_DATABASE", "hirehub")
	viper.SetDefault("DB_USERNAME", "root")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("CLIENT_URL", "http://localhost:5173")
	viper.SetDefault("WORKER_COUNT", 4)
	viper.SetDefault("WORKER_QUEUE", 256)
	viper.SetDefault("SIDE_EFFECT_TIMEOUT", "10s")
	viper.SetDefault("APPLY_RATE_LIMIT", 5)
	viper.SetDefault("APPLY_RATE_WINDOW", "1m")
}

// LoadEnvFile loads .env into the process environment if present.
func LoadEnvFile() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// Load reads settings from the environment (and any flags bound into viper).
func Load() *Settings {
	viper.AutomaticEnv()

	s := &Settings{
		Port:        viper.GetString("SERVER_PORT"),
		GinMode:     viper.GetString("GIN_MODE"),
		Environment: strings.ToLower(viper.GetString("ENVIRONMENT")),
		DemoMode:    viper.GetBool("DEMO_MODE"),
		Database: DatabaseSettings{
			Driver:   strings.ToLower(viper.GetString("DB_DRIVER")),
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Database: viper.GetString("DB_DATABASE"),
			Username: viper.GetString("DB_USERNAME"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			DebugSQL: viper.GetBool("DEBUG_SQL"),
		},
		SMTP: SMTPSettings{
			Host:          viper.GetString("SMTP_HOST"),
			Port:          viper.GetInt("SMTP_PORT"),
			User:          viper.GetString("SMTP_USER"),
			Pass:          viper.GetString("SMTP_PASS"),
			From:          viper.GetString("SMTP_FROM"), // e.g. "HireHub Team <no-reply@hirehub.dev>"
			SkipTLSVerify: viper.GetString("SMTP_SKIP_TLS_VERIFY") == "1",
		},
		JWTSecret:         viper.GetString("JWT_SECRET"),
		ClientURL:         strings.TrimRight(viper.GetString("CLIENT_URL"), "/"),
		RedisURL:          viper.GetString("REDIS_URL"),
		WorkerCount:       viper.GetInt("WORKER_COUNT"),
		WorkerQueue:       viper.GetInt("WORKER_QUEUE"),
		SideEffectTimeout: viper.GetDuration("SIDE_EFFECT_TIMEOUT"),
		ApplyRateLimit:    viper.GetInt("APPLY_RATE_LIMIT"),
		ApplyRateWindow:   viper.GetDuration("APPLY_RATE_WINDOW"),
	}
	s.AllowedOrigins = allowedOrigins(s.ClientURL, viper.GetString("ALLOWED_ORIGINS"))

	if s.SMTP.Port == 0 {
		s.SMTP.Port = 587
	}
	if s.SideEffectTimeout <= 0 {
		s.SideEffectTimeout = 10 * time.Second
	}
	return s
}

func allowedOrigins(clientURL, extra string) []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL != "" {
		origins = append(origins, clientURL)
	}
	for _, origin := range strings.Split(extra, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
