package discord

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/dimitarbez/emotion-bot/internal/mind"
)

// keepTyping shows the typing indicator until done closes.
func keepTyping(s *discordgo.Session, channelID string, done <-chan struct{}) {
	_ = s.ChannelTyping(channelID)
	ticker := time.NewTicker(8 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = s.ChannelTyping(channelID)
		}
	}
}

// splitMessage cuts text into sendable chunks, preferring newline boundaries.
func splitMessage(msg string, limit int) []string {
	var result []string
	for len(msg) > limit {
		cut := strings.LastIndex(msg[:limit], "\n")
		if cut == -1 {
			cut = limit
		}
		result = append(result, strings.TrimSpace(msg[:cut]))
		msg = strings.TrimSpace(msg[cut:])
	}
	if msg != "" {
		result = append(result, msg)
	}
	return result
}

func truncateLog(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func formatState(snap mind.StateSnapshot) string {
	return fmt.Sprintf("```\nemotion: %s\nvalence: %+.3f\narousal: %.3f\nsince:   %.0fs\n```",
		snap.Emotion, snap.Valence, snap.Arousal, snap.Since)
}

func formatPersonality(prof mind.ProfileSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "```\npersonality: %s\n\ntraits:\n", prof.Type)
	writeSorted(&b, prof.Traits)
	b.WriteString("\nmodifiers:\n")
	writeSorted(&b, prof.Modifiers)
	b.WriteString("```")
	return b.String()
}

func writeSorted(b *strings.Builder, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "  %-22s %.3f\n", k, m[k])
	}
}

func personalityNames() string {
	names := make([]string, len(mind.AllPersonalities))
	for i, p := range mind.AllPersonalities {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
