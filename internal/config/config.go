package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration, loaded from the environment.
type Config struct {
	AppPort string
	// AppURL is the externally reachable base URL, used to build the
	// password-reset link.
	AppURL      string
	DatabaseDSN string

	RedisAddr string
	RedisPass string
	RedisDB   int

	GeminiAPIKey string
	GeminiModel  string

	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	MailSender string

	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults for local development. REDIS_ADDR and GEMINI_API_KEY may be left
// empty; the matching features degrade gracefully.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("APP_URL", "http://localhost:8080")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=sedorist port=5432 sslmode=disable")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASS", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-flash-latest")
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASS", "")
	viper.SetDefault("MAIL_SENDER", "")
	viper.SetDefault("SESSION_TTL_HOURS", 720) // 30 days
	viper.SetDefault("RESET_TOKEN_TTL_MINUTES", 60)
	viper.AutomaticEnv()

	return &Config{
		AppPort:       viper.GetString("APP_PORT"),
		AppURL:        viper.GetString("APP_URL"),
		DatabaseDSN:   viper.GetString("DATABASE_DSN"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPass:     viper.GetString("REDIS_PASS"),
		RedisDB:       viper.GetInt("REDIS_DB"),
		GeminiAPIKey:  viper.GetString("GEMINI_API_KEY"),
		GeminiModel:   viper.GetString("GEMINI_MODEL"),
		SMTPHost:      viper.GetString("SMTP_HOST"),
		SMTPPort:      viper.GetInt("SMTP_PORT"),
		SMTPUser:      viper.GetString("SMTP_USER"),
		SMTPPass:      viper.GetString("SMTP_PASS"),
		MailSender:    viper.GetString("MAIL_SENDER"),
		SessionTTL:    time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		ResetTokenTTL: time.Duration(viper.GetInt("RESET_TOKEN_TTL_MINUTES")) * time.Minute,
	}
}
