// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/dimitarbez/emotion-bot/internal/ai"
	"github.com/dimitarbez/emotion-bot/internal/config"
	"github.com/dimitarbez/emotion-bot/internal/discord"
	"github.com/dimitarbez/emotion-bot/internal/telemetry"
	v "github.com/dimitarbez/emotion-bot/internal/version"
)

// botRegistry exposes the bot's live conversations to the telemetry server.
type botRegistry struct {
	bot *discord.Bot
}

func (r botRegistry) Conversations() []string { return r.bot.Conversations() }

func (r botRegistry) View(id string) (telemetry.EngineView, bool) {
	c, ok := r.bot.Conversation(id)
	if !ok {
		return nil, false
	}
	return c, true
}

func main() {
	log.Printf("[INFO] Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()
	cfg.RequireDiscord()

	var rng *rand.Rand
	if cfg.RandomSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.RandomSeed))
	}
	provider := ai.NewProvider(cfg.AI, rng)
	bot := discord.NewBot(cfg, provider)

	if cfg.HTTPAddr != "" {
		go telemetry.NewServer(botRegistry{bot: bot}).Run(ctx, cfg.HTTPAddr)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
