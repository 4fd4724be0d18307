package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment-driven settings for the server.
type Config struct {
	Port     string `env:"GAMEPOP_PORT" envDefault:"8080"`
	DBPath   string `env:"GAMEPOP_DB_PATH" envDefault:"gamepop.db"`
	BaseURL  string `env:"GAMEPOP_BASE_URL"`
	LogLevel string `env:"GAMEPOP_LOG_LEVEL" envDefault:"info"`

	// Admin login. AdminPasswordHash is a bcrypt hash; admin pages are
	// unreachable while it is empty.
	AdminPasswordHash string `env:"GAMEPOP_ADMIN_PASSWORD_HASH"`
	SessionSecret     string `env:"GAMEPOP_SESSION_SECRET"`

	// Stripe checkout. Checkout endpoints are disabled when the secret
	// key is empty.
	StripeSecretKey     string `env:"GAMEPOP_STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"GAMEPOP_STRIPE_WEBHOOK_SECRET"`

	// Web push notifications for organizers.
	VAPIDPublicKey  string `env:"GAMEPOP_VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `env:"GAMEPOP_VAPID_PRIVATE_KEY"`
	PushContact     string `env:"GAMEPOP_PUSH_CONTACT"`

	// S3-compatible backup target.
	BackupBucket     string `env:"GAMEPOP_BACKUP_BUCKET"`
	BackupRegion     string `env:"GAMEPOP_BACKUP_REGION" envDefault:"auto"`
	BackupEndpoint   string `env:"GAMEPOP_BACKUP_ENDPOINT"`
	BackupAccessKey  string `env:"GAMEPOP_BACKUP_ACCESS_KEY"`
	BackupSecretKey  string `env:"GAMEPOP_BACKUP_SECRET_KEY"`
	BackupPassphrase string `env:"GAMEPOP_BACKUP_PASSPHRASE"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:" + cfg.Port
	}
	return cfg, nil
}
