// Package discord runs the bot on Discord: one emotional conversation per
// channel, replies styled by the mind package and humanized with typing
// indicators and thinking delays.
package discord

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dimitarbez/emotion-bot/internal/ai"
	"github.com/dimitarbez/emotion-bot/internal/config"
	"github.com/dimitarbez/emotion-bot/internal/mind"
)

// Conversation pairs one channel's engine with the lock that serializes it.
// The read accessors mirror the telemetry view so dashboards can watch live
// conversations.
type Conversation struct {
	mu     sync.Mutex
	engine *mind.Engine
}

// ConversationID returns the engine's conversation id.
func (c *Conversation) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.ConversationID()
}

// Snapshot renders the affect state.
func (c *Conversation) Snapshot(now time.Time) mind.StateSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Snapshot(now)
}

// PersonalitySnapshot renders the active profile.
func (c *Conversation) PersonalitySnapshot() mind.ProfileSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.PersonalitySnapshot()
}

// RandomnessSnapshot renders the randomness engine state.
func (c *Conversation) RandomnessSnapshot() mind.DebugSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.RandomnessSnapshot()
}

// History returns the remembered conversation.
func (c *Conversation) History() []mind.Utterance {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.History()
}

// Bot is the Discord front-end.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	provider ai.Provider

	mu    sync.Mutex
	convs map[string]*Conversation // by channel ID
}

// NewBot builds a bot; Run starts it.
func NewBot(cfg *config.Config, provider ai.Provider) *Bot {
	return &Bot{
		cfg:      cfg,
		provider: provider,
		convs:    make(map[string]*Conversation),
	}
}

// Run connects to Discord and blocks until ctx is canceled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent
}

// conversationFor returns the channel's conversation, creating it on first
// contact.
func (b *Bot) conversationFor(channelID string) *Conversation {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.convs[channelID]; ok {
		return c
	}

	var rng *rand.Rand
	if b.cfg.RandomSeed != 0 {
		rng = rand.New(rand.NewSource(b.cfg.RandomSeed))
	}
	c := &Conversation{engine: mind.NewEngine(engineConfig(b.cfg), rng, time.Now())}
	b.convs[channelID] = c
	log.Printf("[BOT] new conversation for channel %s (conv=%s)", channelID, c.engine.ConversationID())
	return c
}

// Conversations lists the ids of the live conversations.
func (b *Bot) Conversations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.convs))
	for _, c := range b.convs {
		ids = append(ids, c.ConversationID())
	}
	return ids
}

// Conversation finds a live conversation by id.
func (b *Bot) Conversation(id string) (*Conversation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.convs {
		if c.ConversationID() == id {
			return c, true
		}
	}
	return nil, false
}

func engineConfig(cfg *config.Config) mind.EngineConfig {
	ec := mind.DefaultEngineConfig()
	ec.Randomness.Intensity = cfg.RandomnessIntensity
	if mind.KnownPersonality(cfg.Personality) {
		ec.Personality.DefaultType = mind.PersonalityType(cfg.Personality)
	}
	return ec
}
