// Package ai generates the raw reply text that the mind package then styles.
// Providers are interchangeable: an OpenAI-compatible chat API for real
// deployments and a template-based local provider that needs no network.
package ai

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/dimitarbez/emotion-bot/internal/config"
	"github.com/dimitarbez/emotion-bot/internal/mind"
)

// Message is one chat-completion message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request carries everything a provider needs for one reply.
type Request struct {
	UserText string       // the message being answered
	Emotion  mind.Emotion // current discrete emotion, colors the tone
	Context  string       // recent conversation, "speaker: text" lines
}

// Provider produces a raw reply for one request.
type Provider interface {
	Generate(req Request) (string, error)
}

const systemPromptFormat = "You are an empathetic, emotionally-aware assistant. " +
	"Keep responses concise but human. Use the conversation context. " +
	"Current emotion: %s. Reflect it subtly in tone."

// buildMessages renders a request as chat-completion messages.
func buildMessages(req Request) []Message {
	return []Message{
		{Role: "system", Content: fmt.Sprintf(systemPromptFormat, req.Emotion)},
		{Role: "user", Content: fmt.Sprintf("Context:\n%s\n\nUser: %s\nAssistant:", req.Context, req.UserText)},
	}
}

// NewProvider picks a provider from config. The OpenAI provider keeps a local
// fallback so a dead API degrades the bot instead of silencing it.
func NewProvider(cfg config.AI, rng *rand.Rand) Provider {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			log.Println("[AI] OPENAI_API_KEY not set, using the local provider")
			return NewLocalProvider(rng)
		}
		return NewOpenAIProvider(cfg, NewLocalProvider(rng))
	case "local", "":
		return NewLocalProvider(rng)
	default:
		panic(fmt.Sprintf("unsupported AI_PROVIDER: %s", cfg.Provider))
	}
}
