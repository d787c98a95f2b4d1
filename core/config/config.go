package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	AI       AIConfig
	Schedule ScheduleConfig
	Paths    PathsConfig
}

type AppConfig struct {
	Version     string
	Port        string
	Debug       bool
	Environment string

	// UTCOffsetHours fixes the process-wide local time; all calendar
	// arithmetic is naive within this single offset.
	UTCOffsetHours int
}

type TelegramConfig struct {
	BotToken string
	GroupID  int64 // target group/channel for publications
	AdminID  int64 // the single admin allowed to drive the bot
}

type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	MaxTokens      int64
	Temperature    float64
	RequestTimeout time.Duration
}

type ScheduleConfig struct {
	// File points at the YAML weekly calendar; empty means the built-in
	// default calendar.
	File string

	PollInterval      time.Duration
	HorizonDays       int
	MaxPublishRetries int

	// DistributeLeadTime is how far from "now" automatic distribution
	// starts placing posts.
	DistributeLeadTime time.Duration

	CleanupAfterDays int
}

type PathsConfig struct {
	Prompts string
}

// Global provides access to the loaded configuration globally.
var Global *Config

// LoadConfig loads configuration from a .env file (when present) and
// environment variables, falling back to defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment only")
	}

	cfg := &Config{
		App: AppConfig{
			Version:        "v1.2.0",
			Port:           getEnv("APP_PORT", "3000"),
			Debug:          getEnvBool("APP_DEBUG", false),
			Environment:    getEnv("APP_ENV", "development"),
			UTCOffsetHours: getEnvInt("APP_UTC_OFFSET", 5),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("API_TOKEN", ""),
			GroupID:  getEnvInt64("GROUP_ID", 0),
			AdminID:  getEnvInt64("ADMIN_ID", 0),
		},
		AI: AIConfig{
			APIKey:         getEnv("DEEPSEEK_API_KEY", ""),
			BaseURL:        getEnv("AI_BASE_URL", "https://api.deepseek.com"),
			Model:          getEnv("AI_MODEL", "deepseek-chat"),
			MaxTokens:      getEnvInt64("AI_MAX_TOKENS", 4000),
			Temperature:    getEnvFloat("AI_TEMPERATURE", 0.7),
			RequestTimeout: time.Duration(getEnvInt("AI_REQUEST_TIMEOUT_SEC", 60)) * time.Second,
		},
		Schedule: ScheduleConfig{
			File:               getEnv("SCHEDULE_FILE", ""),
			PollInterval:       time.Duration(getEnvInt("SCHEDULER_POLL_INTERVAL_SEC", 60)) * time.Second,
			HorizonDays:        getEnvInt("SCHEDULE_HORIZON_DAYS", 7),
			MaxPublishRetries:  getEnvInt("SCHEDULER_MAX_PUBLISH_RETRIES", 3),
			DistributeLeadTime: time.Duration(getEnvInt("SCHEDULE_DISTRIBUTE_LEAD_MIN", 30)) * time.Minute,
			CleanupAfterDays:   getEnvInt("SCHEDULE_CLEANUP_AFTER_DAYS", 7),
		},
		Paths: PathsConfig{
			Prompts: getEnv("PATH_PROMPTS", "prompts"),
		},
	}

	Global = cfg
	return cfg, nil
}

// Validate reports every configuration error that makes the bot unusable,
// so the operator sees the full list at once instead of fixing them one
// restart at a time.
func (c *Config) Validate() []error {
	var errs []error
	if c.Telegram.BotToken == "" {
		errs = append(errs, fmt.Errorf("API_TOKEN is not set"))
	}
	if c.Telegram.GroupID == 0 {
		errs = append(errs, fmt.Errorf("GROUP_ID is not set"))
	}
	if c.Telegram.AdminID == 0 {
		errs = append(errs, fmt.Errorf("ADMIN_ID is not set"))
	}
	if c.AI.APIKey == "" {
		errs = append(errs, fmt.Errorf("DEEPSEEK_API_KEY is not set"))
	}
	return errs
}
