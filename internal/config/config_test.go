package config

import "testing"

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{
		"PERSONALITY", "RANDOMNESS_INTENSITY", "RANDOM_SEED",
		"AI_PROVIDER", "OPENAI_MODEL", "OPENAI_TEMPERATURE", "OPENAI_MAX_TOKENS",
	} {
		t.Setenv(key, "")
	}

	cfg := New()
	if cfg.Personality != "balanced" {
		t.Fatalf("personality = %q", cfg.Personality)
	}
	if cfg.RandomnessIntensity != 0.3 {
		t.Fatalf("randomness intensity = %v", cfg.RandomnessIntensity)
	}
	if cfg.RandomSeed != 0 {
		t.Fatalf("seed = %d", cfg.RandomSeed)
	}
	if cfg.AI.Provider != "local" {
		t.Fatalf("provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-4o-mini" || cfg.AI.Temperature != 0.7 || cfg.AI.MaxTokens != 220 {
		t.Fatalf("openai defaults = %+v", cfg.AI)
	}
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("HTTP_ADDR", ":8090")
	t.Setenv("PERSONALITY", "enthusiast")
	t.Setenv("RANDOMNESS_INTENSITY", "0.6")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_MAX_TOKENS", "128")

	cfg := New()
	if cfg.DiscordToken != "token-123" || cfg.HTTPAddr != ":8090" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Personality != "enthusiast" || cfg.RandomnessIntensity != 0.6 || cfg.RandomSeed != 42 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.AI.Provider != "openai" || cfg.AI.Model != "gpt-4o" || cfg.AI.MaxTokens != 128 {
		t.Fatalf("ai = %+v", cfg.AI)
	}

	// With a token present this returns instead of exiting.
	cfg.RequireDiscord()
}
