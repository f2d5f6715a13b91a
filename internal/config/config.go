package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

// AI selects and tunes the reply generator.
type AI struct {
	Provider    string  `env:"AI_PROVIDER" envDefault:"local"` // local | openai
	APIKey      string  `env:"OPENAI_API_KEY"`
	BaseURL     string  `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model       string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Temperature float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int     `env:"OPENAI_MAX_TOKENS" envDefault:"220"`
}

// Config is the full environment-driven configuration. Fields without a
// default are optional; front-ends that need them check at startup.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	HTTPAddr     string `env:"HTTP_ADDR"` // telemetry listen address, empty disables

	Personality         string  `env:"PERSONALITY" envDefault:"balanced"`
	RandomnessIntensity float64 `env:"RANDOMNESS_INTENSITY" envDefault:"0.3"`
	RandomSeed          int64   `env:"RANDOM_SEED" envDefault:"0"` // 0 seeds from the clock

	AI AI
}

// New parses the environment into a Config, exiting on malformed values.
func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// RequireDiscord exits unless a Discord token is configured.
func (c *Config) RequireDiscord() {
	if c.DiscordToken == "" {
		log.Fatal("DISCORD_TOKEN is not set")
	}
}
