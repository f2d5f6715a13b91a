package discord

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dimitarbez/emotion-bot/internal/ai"
)

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	botInfo, err := s.User("@me")
	if err != nil {
		log.Println("[WARN] Error retrieving bot user:", err)
		return
	}
	log.Printf("[INFO] ✅ %s is running in %d guilds.", botInfo.Username, len(r.Guilds))
}

// onMessageCreate feeds mentions and DMs through the emotional pipeline.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	// Guild channels need a mention; DMs always engage.
	if m.GuildID != "" {
		mentioned := false
		for _, user := range m.Mentions {
			if user.ID == s.State.User.ID {
				mentioned = true
				break
			}
		}
		if !mentioned {
			return
		}
	}

	msg := stripMention(m.Content, s.State.User.ID)
	log.Printf("[BOT] %s (%s) @ %s: %s", m.Author.Username, m.Author.ID, m.ChannelID, truncateLog(msg, 120))

	conv := b.conversationFor(m.ChannelID)

	if reply, handled := b.handleCommand(conv, msg); handled {
		b.sendChunks(m.ChannelID, reply)
		return
	}

	if msg == "" {
		b.sendChunks(m.ChannelID, fmt.Sprintf("%s, say something and I'll respond.", m.Author.DisplayName()))
		return
	}

	done := make(chan struct{})
	go keepTyping(s, m.ChannelID, done)
	defer close(done)

	conv.mu.Lock()
	conv.engine.ProcessInput(time.Now(), msg)
	req := ai.Request{
		UserText: msg,
		Emotion:  conv.engine.CurrentEmotion(),
		Context:  conv.engine.RecentContext(6),
	}
	conv.mu.Unlock()

	raw, err := b.provider.Generate(req)
	if err != nil {
		log.Printf("[ERR] reply generation failed: %v", err)
		b.sendChunks(m.ChannelID, "I lost my train of thought. Try me again?")
		return
	}

	conv.mu.Lock()
	text, delay := conv.engine.StyleReply(time.Now(), raw)
	conv.mu.Unlock()

	// The typing indicator covers the thinking delay.
	if delay > 0 {
		time.Sleep(delay)
	}
	b.sendChunks(m.ChannelID, text)
}

// handleCommand serves the ":" debug commands. Returns handled=false for
// normal conversation text.
func (b *Bot) handleCommand(conv *Conversation, msg string) (string, bool) {
	cmd := strings.ToLower(strings.TrimSpace(msg))
	switch {
	case cmd == ":state":
		return formatState(conv.Snapshot(time.Now())), true
	case strings.HasPrefix(cmd, ":personality"):
		name := strings.TrimSpace(strings.TrimPrefix(cmd, ":personality"))
		if name == "" {
			return formatPersonality(conv.PersonalitySnapshot()), true
		}
		return switchPersonality(conv, name), true
	case strings.HasPrefix(cmd, ":switch"):
		return switchPersonality(conv, strings.TrimSpace(strings.TrimPrefix(cmd, ":switch"))), true
	case cmd == ":reset":
		conv.mu.Lock()
		conv.engine.Reset(time.Now())
		conv.mu.Unlock()
		return "Clean slate. What's on your mind?", true
	case cmd == ":help":
		return helpText, true
	}
	return "", false
}

const helpText = "Commands: `:state` current emotion, `:personality` active profile, " +
	"`:switch <name>` change personality (`:personality <name>` works too), " +
	"`:reset` start over, `:help` this text. Anything else is conversation."

func switchPersonality(conv *Conversation, name string) string {
	conv.mu.Lock()
	ok := conv.engine.SwitchPersonality(name)
	conv.mu.Unlock()
	if !ok {
		return fmt.Sprintf("I don't know %q. Try one of: %s.", name, personalityNames())
	}
	return fmt.Sprintf("Alright, switching to my %s side.", name)
}

// stripMention removes the bot's mention tokens so they don't skew appraisal.
func stripMention(content, botID string) string {
	content = strings.ReplaceAll(content, "<@"+botID+">", "")
	content = strings.ReplaceAll(content, "<@!"+botID+">", "")
	return strings.TrimSpace(content)
}

func (b *Bot) sendChunks(channelID, text string) {
	for _, chunk := range splitMessage(text, 2000) {
		if _, err := b.dg.ChannelMessageSend(channelID, chunk); err != nil {
			log.Printf("[ERR] failed to send message: %v", err)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}
