// Package config reads the service settings from the environment (and an
// optional .env file).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreModePostgres = "postgres"
	StoreModeMemory   = "memory"
)

type Config struct {
	Port      string
	LogLevel  string
	StoreMode string
	Database  DatabaseConfig
	Auth      AuthConfig
	Company   CompanyConfig
}

type DatabaseConfig struct {
	URL      string
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	TimeZone string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// CompanyConfig is printed on receipts and report headers
type CompanyConfig struct {
	Name    string
	RUC     string
	Address string
}

// DSN returns DATABASE_URL or a key/value DSN built from the DB_* parts
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.TimeZone,
	)
}

func (d DatabaseConfig) Configured() bool {
	return d.URL != "" || d.Host != ""
}

// Load reads .env when present and then the process environment.
// The returned bool reports whether a .env file was found.
func Load() (*Config, bool) {
	found := godotenv.Load() == nil
	return FromEnv(), found
}

func FromEnv() *Config {
	cfg := &Config{
		Port:     envOr("PORT", "3000"),
		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     os.Getenv("DB_HOST"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			Port:     envOr("DB_PORT", "5432"),
			TimeZone: envOr("DB_TIMEZONE", "America/Lima"),
		},
		Auth: AuthConfig{
			JWTSecret: envOr("JWT_SECRET", "change-me-in-production"),
			TokenTTL:  time.Duration(envInt("TOKEN_TTL_HOURS", 12)) * time.Hour,
		},
		Company: CompanyConfig{
			Name:    envOr("COMPANY_NAME", "HILOSdeCALIDAD.SAC"),
			RUC:     envOr("COMPANY_RUC", "10897612560"),
			Address: envOr("COMPANY_ADDRESS", "Av. la Capitana 190 - Lurigancho Huachipa"),
		},
	}

	cfg.StoreMode = strings.ToLower(os.Getenv("STORE_MODE"))
	if cfg.StoreMode != StoreModeMemory && cfg.StoreMode != StoreModePostgres {
		if cfg.Database.Configured() {
			cfg.StoreMode = StoreModePostgres
		} else {
			cfg.StoreMode = StoreModeMemory
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
