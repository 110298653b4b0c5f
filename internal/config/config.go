package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	Version     string `envconfig:"VERSION" default:"dev"`
	BcryptCost  int    `envconfig:"BCRYPT_COST" default:"12"`

	// SMTP settings for outgoing notification email.
	SMTPAddr string `envconfig:"SMTP_ADDR" default:"localhost:25"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"portal@localhost"`

	// BatchWindowSeconds is the notification email batching window. The
	// product value is fixed at 300; it is configurable only so tests can
	// shrink it.
	BatchWindowSeconds int `envconfig:"NOTIFICATION_BATCH_WINDOW" default:"300"`

	// SweepIntervalSeconds controls how often expired batching windows are
	// flushed in the absence of new notifications. Zero disables the sweep.
	SweepIntervalSeconds int `envconfig:"NOTIFICATION_SWEEP_INTERVAL" default:"60"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"./uploads"`
}

// Load reads configuration from environment variables into a Config struct.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
