package config

import (
	"fmt"
	"os"
	"strings"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken        string
	MongoURI             string
	Port                 string
	WebhookBaseURL       string
	Environment          string
	SecurityImageBaseURL string
	IconResetSchedule    string
}

// Load reads configuration from environment variables with sane defaults.
// TELEGRAM_TOKEN is the bot credential and must never be logged.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:        strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		MongoURI:             strings.TrimSpace(os.Getenv("MONGODB_URI")),
		Port:                 strings.TrimSpace(os.Getenv("PORT")),
		WebhookBaseURL:       strings.TrimRight(strings.TrimSpace(os.Getenv("WEBHOOK_BASE_URL")), "/"),
		Environment:          strings.TrimSpace(os.Getenv("ENVIRONMENT")),
		SecurityImageBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("SECURITY_IMAGE_BASE_URL")), "/"),
		IconResetSchedule:    strings.TrimSpace(os.Getenv("ICON_RESET_SCHEDULE")),
	}

	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017/flashid"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.SecurityImageBaseURL == "" {
		cfg.SecurityImageBaseURL = "https://storage.googleapis.com/flashid-icons"
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}
