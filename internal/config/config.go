package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Token          string
	DiscordGuildID string

	CraftyHost     string
	CraftyToken    string
	CraftyUsername string
	CraftyPassword string
	CraftyTimeout  time.Duration

	AllowedChannelID string
	AdminRoleID      string

	SessionTTL           time.Duration
	MenuTTL              time.Duration
	ConfirmationTTL      time.Duration
	SessionSweepInterval time.Duration
	DefaultCooldown      time.Duration
	ReactionPacing       time.Duration

	DatabaseURL string
	MetricsAddr string

	LogLevel  string
	LogFormat string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	token := secretOrEnv("discord_token", "DISCORD_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is not set (via secret or env var)")
	}

	cfg := &Config{
		Token:          token,
		DiscordGuildID: envString("DISCORD_GUILD_ID", ""),

		CraftyHost:     strings.TrimSuffix(envString("CRAFTY_CONTROLLER_HOST", "http://localhost:8000"), "/"),
		CraftyToken:    secretOrEnv("crafty_token", "CRAFTY_CONTROLLER_TOKEN"),
		CraftyUsername: envString("CRAFTY_CONTROLLER_USERNAME", ""),
		CraftyPassword: secretOrEnv("crafty_password", "CRAFTY_CONTROLLER_PASSWORD"),
		CraftyTimeout:  envDuration("CRAFTY_TIMEOUT", 10*time.Second),

		AllowedChannelID: envString("ALLOWED_CHANNEL_ID", ""),
		AdminRoleID:      envString("ADMIN_ROLE_ID", ""),

		SessionTTL:           envDuration("SESSION_TTL", 10*time.Minute),
		MenuTTL:              envDuration("MENU_TTL", 15*time.Minute),
		ConfirmationTTL:      envDuration("CONFIRMATION_TTL", 30*time.Second),
		SessionSweepInterval: envDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		DefaultCooldown:      envDuration("DEFAULT_COOLDOWN", 5*time.Second),
		ReactionPacing:       envDuration("REACTION_PACING", 100*time.Millisecond),

		DatabaseURL: secretOrEnv("database_url", "DATABASE_URL"),
		MetricsAddr: envString("METRICS_ADDR", ":9090"),

		LogLevel:  strings.ToLower(envString("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envString("LOG_FORMAT", "json")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.HasCraftyCredentials() {
		slog.Warn("No Crafty Controller authentication configured; set CRAFTY_CONTROLLER_TOKEN or CRAFTY_CONTROLLER_USERNAME and CRAFTY_CONTROLLER_PASSWORD")
	}

	return cfg, nil
}

func (c *Config) HasCraftyCredentials() bool {
	return c.CraftyToken != "" || (c.CraftyUsername != "" && c.CraftyPassword != "")
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func secretOrEnv(secret, key string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return os.Getenv(key)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
