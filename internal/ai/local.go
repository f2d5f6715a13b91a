package ai

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/dimitarbez/emotion-bot/internal/mind"
)

// LocalProvider answers from small reflection templates without any network.
// It keeps demos and tests running when no API key is around, and backs the
// OpenAI provider when the API is down.
type LocalProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLocalProvider builds a provider drawing from rng, or from a clock-seeded
// source when rng is nil.
func NewLocalProvider(rng *rand.Rand) *LocalProvider {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &LocalProvider{rng: rng}
}

var replyStarters = map[mind.Emotion][]string{
	mind.EmotionJoy:       {"That’s exciting", "I’m glad to hear that", "Love it"},
	mind.EmotionSadness:   {"I’m sorry you’re going through that", "That sounds heavy", "I hear you"},
	mind.EmotionAnger:     {"I get why that’s frustrating", "That’s rough", "I can see why you’re upset"},
	mind.EmotionFear:      {"It’s understandable to feel uncertain", "That sounds worrying", "I get the concern"},
	mind.EmotionSurprise:  {"Whoa", "That’s unexpected", "Didn’t see that coming"},
	mind.EmotionDisgust:   {"Yikes", "That’s off-putting", "I’m not a fan of that either"},
	mind.EmotionCuriosity: {"Interesting", "I’m curious too", "Let’s unpack it"},
	mind.EmotionAffection: {"I appreciate you", "That’s sweet", "Thanks for sharing"},
	mind.EmotionNeutral:   {"Got it", "Understood", "Okay"},
}

var questionWords = []string{"why", "how", "what", "when", "where"}

func (p *LocalProvider) Generate(req Request) (string, error) {
	ut := strings.TrimSpace(req.UserText)
	lower := strings.ToLower(ut)

	isQuestion := strings.HasSuffix(ut, "?")
	for _, w := range questionWords {
		if strings.Contains(lower, w) {
			isQuestion = true
			break
		}
	}

	starters, ok := replyStarters[req.Emotion]
	if !ok {
		starters = replyStarters[mind.EmotionNeutral]
	}
	p.mu.Lock()
	s := starters[p.rng.Intn(len(starters))]
	p.mu.Unlock()

	if isQuestion {
		return s + ". Here’s my take: " + answerLike(lower), nil
	}
	return s + ". " + acknowledge(), nil
}

// answerLike gives a rudimentary question-shaped answer.
func answerLike(q string) string {
	switch {
	case strings.Contains(q, "why"):
		return "Because of a mix of context, goals, and constraints. What part matters most to you right now?"
	case strings.Contains(q, "how"):
		return "We can break it down into small steps and iterate. What step would you like to tackle first?"
	case strings.Contains(q, "what"):
		return "It depends on your priorities—speed, quality, or learning. Which one should we optimize for?"
	case strings.Contains(q, "when"):
		return "As soon as we gather the needed info. Do you have a deadline in mind?"
	case strings.Contains(q, "where"):
		return "Wherever it helps you stay focused and comfortable. What do you prefer?"
	}
	return "Let’s think it through together. What outcome would you like?"
}

func acknowledge() string {
	return "Tell me more about that—what led up to it, and what would feel like progress?"
}
