package mind

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Utterance is one line of conversation, speaker "user" or "bot".
type Utterance struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

var topicTokenRE = regexp.MustCompile(`[\p{L}\p{N}_']{4,}`)

// ConversationMemory keeps a bounded utterance history plus rough topic
// frequency counts. It backs the context fed to the reply generator and the
// history telemetry view.
type ConversationMemory struct {
	history     []Utterance
	topicCounts map[string]int
	maxHistory  int
}

// NewConversationMemory returns an empty memory holding the last 30 lines.
func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{
		topicCounts: make(map[string]int),
		maxHistory:  30,
	}
}

// Add appends one utterance, evicting the oldest past capacity, and counts
// its topic tokens.
func (m *ConversationMemory) Add(now time.Time, speaker, text string) {
	m.history = append(m.history, Utterance{Speaker: speaker, Text: text, At: now})
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
	for _, tok := range topicTokenRE.FindAllString(strings.ToLower(text), -1) {
		m.topicCounts[tok]++
	}
}

// RecentContext renders the last limit lines as "speaker: text" for prompts.
func (m *ConversationMemory) RecentContext(limit int) string {
	start := len(m.history) - limit
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for i, u := range m.history[start:] {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(u.Speaker)
		b.WriteString(": ")
		b.WriteString(u.Text)
	}
	return b.String()
}

// TopTopics returns up to n topic tokens ordered by frequency. Ties break
// lexicographically so the output is stable.
func (m *ConversationMemory) TopTopics(n int) []string {
	type wc struct {
		word  string
		count int
	}
	all := make([]wc, 0, len(m.topicCounts))
	for w, c := range m.topicCounts {
		all = append(all, wc{w, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].word < all[j].word
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.word
	}
	return out
}

// History returns a copy of the stored utterances, oldest first.
func (m *ConversationMemory) History() []Utterance {
	out := make([]Utterance, len(m.history))
	copy(out, m.history)
	return out
}

// Len reports the stored utterance count.
func (m *ConversationMemory) Len() int {
	return len(m.history)
}

// Clear drops history and topic counts.
func (m *ConversationMemory) Clear() {
	m.history = nil
	m.topicCounts = make(map[string]int)
}
