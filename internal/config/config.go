package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port int `yaml:"port" env:"SERVER_PORT"`
}

type DatabaseConfig struct {
	DSN string `yaml:"url" env:"DATABASE_URL"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret" env:"JWT_SECRET"`
	TTLMinutes int    `yaml:"ttl_minutes" env:"JWT_TTL_MINUTES"`
}

type OTPConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" env:"OTP_TTL_MINUTES"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUser     string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASS"`
	FromEmail    string `yaml:"from_email" env:"MAIL_FROM"`
	FromName     string `yaml:"from_name" env:"MAIL_FROM_NAME"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	OTP      OTPConfig      `yaml:"otp"`
	Email    EmailConfig    `yaml:"email"`
}

// LoadConfig reads config/config.yaml if present, then applies environment
// overrides on top of it. DATABASE_URL is mandatory.
func LoadConfig() (*Config, error) {
	var cfg Config

	if f, err := os.Open("config/config.yaml"); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config.yaml: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-jwt"
	}
	if cfg.JWT.TTLMinutes <= 0 {
		cfg.JWT.TTLMinutes = 60
	}
	if cfg.OTP.TTLMinutes <= 0 {
		cfg.OTP.TTLMinutes = 10
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.FromEmail == "" {
		cfg.Email.FromEmail = cfg.Email.SMTPUser
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "NeoFitness"
	}
	return &cfg, nil
}
