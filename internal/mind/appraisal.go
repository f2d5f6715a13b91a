package mind

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Small lexicon-based signals, no external NLP.

var positiveWords = map[string]bool{
	"love": true, "like": true, "enjoy": true, "great": true, "awesome": true,
	"good": true, "happy": true, "glad": true, "thanks": true, "thank you": true,
	"appreciate": true, "cool": true, "nice": true, "beautiful": true, "amazing": true,
}

var negativeWords = map[string]bool{
	"hate": true, "annoy": true, "angry": true, "mad": true, "upset": true,
	"bad": true, "sad": true, "terrible": true, "awful": true, "disgusting": true,
	"gross": true, "nasty": true, "horrible": true, "fear": true, "afraid": true,
	"scared": true, "worried": true, "anxious": true, "anxiety": true, "cry": true,
	"lonely": true, "tired": true,
}

var insultWords = map[string]bool{
	"idiot": true, "stupid": true, "dumb": true, "moron": true, "useless": true,
	"trash": true,
}

// Trigger vocabularies match as substrings of the lowercased text, so
// multi-word cues like "no way" and "you never" work.
var (
	joyTriggers       = []string{"congrats", "congratulations", "yay", "party", "fun", "joke", "lol", "lmao"}
	sadnessTriggers   = []string{"loss", "lost", "broke", "breakup", "alone", "cry", "depressed"}
	angerTriggers     = []string{"angry", "rage", "furious", "incompetent", "why you", "you never", "you always"}
	fearTriggers      = []string{"scared", "fear", "worried", "panic", "danger", "unsafe"}
	surpriseTriggers  = []string{"wow", "what?!", "no way", "unbelievable"}
	disgustTriggers   = []string{"disgust", "gross", "eww", "nasty"}
	affectionTriggers = []string{"love", "dear", "sweet", "hug", "kiss", "friend"}
	curiosityTriggers = []string{"why", "how", "what if", "tell me more", "explain", "?", "curious"}
)

var intensifiers = map[string]bool{
	"very": true, "so": true, "extremely": true, "super": true, "really": true,
}

var negators = []string{"not", "never", "no", "n't"}

var wordRE = regexp.MustCompile(`[\p{L}\p{N}_']+`)

func containsAny(lower string, vocab []string) bool {
	for _, w := range vocab {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func containsAnyKey(lower string, vocab map[string]bool) bool {
	for w := range vocab {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func sentimentScore(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	score := 0.0
	for _, w := range tokens {
		lw := strings.ToLower(w)
		if positiveWords[lw] {
			score++
		}
		if negativeWords[lw] {
			score--
		}
		if insultWords[lw] {
			score -= 1.5
		}
	}
	denom := float64(len(tokens))
	if denom < 6 {
		denom = 6
	}
	return clamp(score/denom, -1, 1)
}

// isShoutedWord mirrors a "all cased characters are upper" check.
func isShoutedWord(w string) bool {
	hasUpper := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func intensityScore(tokens []string, text string) float64 {
	exclam := strings.Count(text, "!")
	caps := 0
	intens := 0
	for _, w := range tokens {
		if len(w) >= 2 && isShoutedWord(w) {
			caps++
		}
		if intensifiers[strings.ToLower(w)] {
			intens++
		}
	}
	boost := 0.0
	boost += math.Min(1.0, float64(exclam)*0.15)
	boost += math.Min(1.0, float64(caps)*0.1)
	boost += math.Min(1.0, float64(intens)*0.12)
	return clamp01(0.2 + boost)
}

// discreteHint scans trigger vocabularies in priority order. Hostile cues win
// over everything; curiosity is the weakest signal.
func discreteHint(lower string) Emotion {
	switch {
	case containsAny(lower, angerTriggers) || containsAnyKey(lower, insultWords):
		return EmotionAnger
	case containsAny(lower, sadnessTriggers):
		return EmotionSadness
	case containsAny(lower, fearTriggers):
		return EmotionFear
	case containsAny(lower, disgustTriggers):
		return EmotionDisgust
	case containsAny(lower, surpriseTriggers):
		return EmotionSurprise
	case containsAny(lower, joyTriggers):
		return EmotionJoy
	case containsAny(lower, affectionTriggers):
		return EmotionAffection
	case containsAny(lower, curiosityTriggers):
		return EmotionCuriosity
	}
	return ""
}

// Appraise extracts sentiment, intensity and an optional discrete emotion hint
// from one user message. It is pure and cheap enough to run on every turn.
func Appraise(userText string) Appraisal {
	tokens := wordRE.FindAllString(userText, -1)
	lower := strings.ToLower(userText)

	sent := sentimentScore(tokens)
	intensity := intensityScore(tokens, userText)
	hint := discreteHint(lower)

	// Crude negation handling: a negator anywhere partially flips sentiment.
	if sent != 0 && containsAny(lower, negators) {
		sent *= -0.5
	}

	return Appraisal{Sentiment: sent, Intensity: intensity, Hint: hint}
}
