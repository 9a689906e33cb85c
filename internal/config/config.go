package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"rldguard/internal/compliance"
)

const DefaultPath = "config/config.yaml"

type HubSpotConfig struct {
	BaseURL     string `yaml:"base_url"`
	AccessToken string `yaml:"access_token" env:"HUBSPOT_ACCESS_TOKEN"`
	PortalID    string `yaml:"portal_id" env:"HUBSPOT_PORTAL_ID"`
}

type SlackConfig struct {
	WebhookURL    string `yaml:"webhook_url" env:"SLACK_WEBHOOK_URL"`
	SigningSecret string `yaml:"signing_secret" env:"SLACK_SIGNING_SECRET"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromEmail    string `yaml:"from_email"`
}

type ComplianceConfig struct {
	ExpansionsPipelineID string           `yaml:"expansions_pipeline_id"`
	MinLeadDays          int              `yaml:"min_lead_days"`
	Timezone             string           `yaml:"timezone"`
	Holidays             map[int][]string `yaml:"holidays"`
}

type ReportConfig struct {
	FontPath string `yaml:"font_path"`
}

type ApproversConfig struct {
	UserIDs []string `yaml:"user_ids"`
	Teams   []string `yaml:"teams"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url" env:"DATABASE_URL"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret" env:"RLDGUARD_JWT_SECRET"`
	} `yaml:"auth"`
	HubSpot    HubSpotConfig    `yaml:"hubspot"`
	Slack      SlackConfig      `yaml:"slack"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Email      EmailConfig      `yaml:"email"`
	Compliance ComplianceConfig `yaml:"compliance"`
	Approvers  ApproversConfig  `yaml:"approvers"`
	Report     ReportConfig     `yaml:"report"`
}

// LoadConfig reads the YAML file at path, then lets environment variables
// override secrets and deployment settings.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.HubSpot.BaseURL == "" {
		c.HubSpot.BaseURL = "https://api.hubapi.com"
	}
	if c.Compliance.MinLeadDays == 0 {
		c.Compliance.MinLeadDays = compliance.DefaultMinLeadDays
	}
	if c.Compliance.Timezone == "" {
		c.Compliance.Timezone = "America/New_York"
	}
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Compliance.MinLeadDays < 0 {
		return fmt.Errorf("compliance.min_lead_days must not be negative")
	}
	if _, err := time.LoadLocation(c.Compliance.Timezone); err != nil {
		return fmt.Errorf("compliance.timezone: %w", err)
	}
	if _, err := compliance.NewHolidaySet(c.Compliance.Holidays); err != nil {
		return fmt.Errorf("compliance.holidays: %w", err)
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	return nil
}

// Rules builds the compliance rule set described by the config.
func (c *Config) Rules() (compliance.Rules, error) {
	holidays, err := compliance.NewHolidaySet(c.Compliance.Holidays)
	if err != nil {
		return compliance.Rules{}, err
	}
	loc, err := time.LoadLocation(c.Compliance.Timezone)
	if err != nil {
		return compliance.Rules{}, err
	}
	return compliance.Rules{
		Holidays:           holidays,
		ExpansionsPipeline: c.Compliance.ExpansionsPipelineID,
		MinLeadDays:        c.Compliance.MinLeadDays,
		Location:           loc,
	}, nil
}
