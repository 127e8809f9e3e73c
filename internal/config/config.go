package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURI   string `envconfig:"DATABASE_URI"`
	TelegramToken string `envconfig:"TELEGRAM_TOKEN"`

	AIAPIKey  string        `envconfig:"AI_API_KEY"`
	AIBaseURL string        `envconfig:"AI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai"`
	AIModel   string        `envconfig:"AI_MODEL" default:"gemini-2.0-flash"`
	AITimeout time.Duration `envconfig:"AI_TIMEOUT" default:"10s"`

	// local, remote or hybrid (local first, remote when local is unsure)
	ClassifierMode     string  `envconfig:"CLASSIFIER_MODE" default:"hybrid"`
	ConfidenceFloor    float64 `envconfig:"CONFIDENCE_FLOOR" default:"0.6"`
	EmergencyThreshold float64 `envconfig:"EMERGENCY_THRESHOLD" default:"0.8"`
	EmergencyNumber    string  `envconfig:"EMERGENCY_NUMBER" default:"911"`

	AgendaLeadMinutes int           `envconfig:"AGENDA_LEAD_MINUTES" default:"30"`
	DailyLeadApplies  bool          `envconfig:"DAILY_LEAD_APPLIES" default:"false"`
	SchedulerInterval time.Duration `envconfig:"SCHEDULER_INTERVAL" default:"1m"`
	// IANA zone used to read dates and times the user types
	Timezone string `envconfig:"TIMEZONE" default:"America/Mexico_City"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	DevMode  bool   `envconfig:"DEV_MODE" default:"false"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the tunable thresholds and modes. Required credentials are
// checked by the caller so tests can load partial configs.
func (c *Config) Validate() error {
	switch c.ClassifierMode {
	case "local", "remote", "hybrid":
	default:
		return fmt.Errorf("unsupported CLASSIFIER_MODE: %s", c.ClassifierMode)
	}
	if c.ConfidenceFloor < 0 || c.ConfidenceFloor > 1 {
		return fmt.Errorf("CONFIDENCE_FLOOR must be within [0,1], got %v", c.ConfidenceFloor)
	}
	if c.EmergencyThreshold < 0 || c.EmergencyThreshold > 1 {
		return fmt.Errorf("EMERGENCY_THRESHOLD must be within [0,1], got %v", c.EmergencyThreshold)
	}
	if c.AgendaLeadMinutes < 0 {
		return fmt.Errorf("AGENDA_LEAD_MINUTES must not be negative, got %d", c.AgendaLeadMinutes)
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive, got %s", c.AITimeout)
	}
	if c.SchedulerInterval <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL must be positive, got %s", c.SchedulerInterval)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// RemoteEnabled reports whether a remote classifier can be built.
func (c *Config) RemoteEnabled() bool {
	return c.AIAPIKey != "" && c.ClassifierMode != "local"
}

// Location returns the configured time zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
