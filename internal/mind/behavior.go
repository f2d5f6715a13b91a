package mind

import (
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// Style is the set of rendering knobs for one reply. Values are nominally
// 0..1 from presets and may stretch to 0..2 after personality and randomness
// modulation.
type Style struct {
	Verbosity   float64 // scales response length
	Directness  float64 // low=hedges, high=to-the-point
	Warmth      float64 // empathy markers, emojis
	Playfulness float64 // jokes/exclamations
	Formality   float64 // 0 casual .. 1 formal
	Punctuation float64 // exclamation tendency
	Hesitation  float64 // filler words
	EmojiProb   float64 // chance to add a small emoji
}

var stylePresets = map[Emotion]Style{
	EmotionNeutral:   {Verbosity: 1.0, Directness: 0.6, Warmth: 0.5, Playfulness: 0.2, Formality: 0.5, Punctuation: 0.4, Hesitation: 0.1, EmojiProb: 0.1},
	EmotionJoy:       {Verbosity: 1.2, Directness: 0.6, Warmth: 0.9, Playfulness: 0.7, Formality: 0.3, Punctuation: 0.8, Hesitation: 0.05, EmojiProb: 0.35},
	EmotionSadness:   {Verbosity: 0.9, Directness: 0.5, Warmth: 0.7, Playfulness: 0.0, Formality: 0.6, Punctuation: 0.2, Hesitation: 0.2, EmojiProb: 0.1},
	EmotionAnger:     {Verbosity: 0.9, Directness: 0.95, Warmth: 0.2, Playfulness: 0.0, Formality: 0.4, Punctuation: 0.9, Hesitation: 0.02, EmojiProb: 0.05},
	EmotionFear:      {Verbosity: 1.0, Directness: 0.5, Warmth: 0.7, Playfulness: 0.0, Formality: 0.7, Punctuation: 0.6, Hesitation: 0.25, EmojiProb: 0.08},
	EmotionSurprise:  {Verbosity: 1.1, Directness: 0.6, Warmth: 0.6, Playfulness: 0.5, Formality: 0.4, Punctuation: 1.0, Hesitation: 0.1, EmojiProb: 0.2},
	EmotionDisgust:   {Verbosity: 0.8, Directness: 0.9, Warmth: 0.1, Playfulness: 0.0, Formality: 0.6, Punctuation: 0.6, Hesitation: 0.05, EmojiProb: 0.02},
	EmotionCuriosity: {Verbosity: 1.1, Directness: 0.55, Warmth: 0.6, Playfulness: 0.3, Formality: 0.5, Punctuation: 0.6, Hesitation: 0.1, EmojiProb: 0.15},
	EmotionAffection: {Verbosity: 1.1, Directness: 0.55, Warmth: 0.95, Playfulness: 0.4, Formality: 0.3, Punctuation: 0.6, Hesitation: 0.08, EmojiProb: 0.3},
}

// StyleFor returns the preset for an emotion, neutral for unknown labels.
func StyleFor(e Emotion) Style {
	if s, ok := stylePresets[e]; ok {
		return s
	}
	return stylePresets[EmotionNeutral]
}

// styleKeys is the canonical knob order used wherever styles travel as maps.
// Keeping the order fixed keeps seeded randomness reproducible.
var styleKeys = []string{
	"verbosity",
	"directness",
	"warmth",
	"playfulness",
	"formality",
	"punctuation",
	"hesitation",
	"emoji_prob",
}

// AsMap converts the style to the map form used by the randomness layer.
func (s Style) AsMap() map[string]float64 {
	return map[string]float64{
		"verbosity":   s.Verbosity,
		"directness":  s.Directness,
		"warmth":      s.Warmth,
		"playfulness": s.Playfulness,
		"formality":   s.Formality,
		"punctuation": s.Punctuation,
		"hesitation":  s.Hesitation,
		"emoji_prob":  s.EmojiProb,
	}
}

// StyleFromMap rebuilds a Style from its map form. Missing keys read as zero.
func StyleFromMap(m map[string]float64) Style {
	return Style{
		Verbosity:   m["verbosity"],
		Directness:  m["directness"],
		Warmth:      m["warmth"],
		Playfulness: m["playfulness"],
		Formality:   m["formality"],
		Punctuation: m["punctuation"],
		Hesitation:  m["hesitation"],
		EmojiProb:   m["emoji_prob"],
	}
}

var emojiPools = map[Emotion][]string{
	EmotionJoy:       {"😊", "😄", "✨", "🎉"},
	EmotionSadness:   {"😔", "💙"},
	EmotionAnger:     {"😠", "💢"},
	EmotionFear:      {"😟", "😬"},
	EmotionSurprise:  {"😲"},
	EmotionDisgust:   {"🤢"},
	EmotionCuriosity: {"🤔"},
	EmotionAffection: {"❤️", "🤗"},
	EmotionNeutral:   {"🙂"},
}

var (
	hedges          = []string{"I think", "It seems", "Maybe", "It might be that", "From what I can tell"}
	fillers         = []string{"uh", "hmm", "well"}
	positiveAffirms = []string{"Nice!", "Great.", "Love that.", "Sounds good.", "Good point."}
	angryMarkers    = []string{"Look", "Frankly", "Honestly"}
	supportMarkers  = []string{"I'm here", "I'm listening", "That sounds tough", "I hear you"}
)

const flavorPrependChance = 0.6

var whitespaceRE = regexp.MustCompile(`\s+`)

// BehaviorConfig bounds the rendered reply.
type BehaviorConfig struct {
	BaseMaxTokens int     `json:"base_max_tokens"` // word budget before verbosity scaling
	EmojiBaseline float64 `json:"emoji_baseline"`  // 0..1
}

// DefaultBehaviorConfig returns the stock rendering limits.
func DefaultBehaviorConfig() BehaviorConfig {
	return BehaviorConfig{BaseMaxTokens: 140, EmojiBaseline: 0.15}
}

// ShapeOptions are the optional collaborators for one shaping pass.
type ShapeOptions struct {
	Personality *Personality // style multipliers and preset identity
	Flavor      string       // personality interjection, prepended sometimes
	Randomizer  *Randomizer  // full randomness pass when set
	UserInput   string       // latest user text, feeds topic tracking
}

// Shape renders a raw reply in the voice of the given emotion. Personality
// multiplies the preset knobs, the randomizer perturbs text and style, and the
// remaining steps run in a fixed order: truncation, hesitation filler, hedge,
// emotion markers, terminal punctuation, emoji, whitespace collapse. Returns
// the styled text and the thinking delay to apply before sending.
func Shape(rng *rand.Rand, now time.Time, text string, emotion Emotion, arousal float64, cfg BehaviorConfig, opts ShapeOptions) (string, time.Duration) {
	style := StyleFor(emotion)

	personalityType := PersonalityBalanced
	if opts.Personality != nil {
		personalityType = opts.Personality.Type
		mods := opts.Personality.StyleModifiers()
		style.Verbosity *= mods["verbosity"]
		style.Directness *= mods["directness"]
		style.Warmth *= mods["warmth"]
		style.Playfulness *= mods["playfulness"]
		style.Formality *= mods["formality"]
	}

	var delay time.Duration
	if opts.Randomizer != nil {
		styleMap := style.AsMap()
		text, styleMap, delay = opts.Randomizer.ApplyAll(now, opts.UserInput, text, styleMap, emotion, personalityType)
		style = StyleFromMap(styleMap)

		// Mood swings color the rendering arousal without touching the
		// affect state.
		_, da := opts.Randomizer.MoodSwingDelta(now)
		arousal = clamp01(arousal + da)
	}

	if opts.Flavor != "" && rng.Float64() < flavorPrependChance {
		text = opts.Flavor + " " + text
	}

	maxLen := int(float64(cfg.BaseMaxTokens) * style.Verbosity * (0.8 + 0.4*arousal))
	tokens := strings.Fields(text)
	if len(tokens) > maxLen {
		text = strings.Join(tokens[:maxLen], " ")
		if style.Punctuation > 0.5 {
			text += "…"
		}
	}

	if style.Hesitation > 0.15 && rng.Float64() < style.Hesitation {
		text = fillers[rng.Intn(len(fillers))] + ", " + text
	}
	if style.Directness < 0.6 && rng.Float64() < 0.3 {
		text = hedges[rng.Intn(len(hedges))] + ", " + text
	}

	switch emotion {
	case EmotionAnger:
		if rng.Float64() < 0.35 {
			text = angryMarkers[rng.Intn(len(angryMarkers))] + ", " + text
		}
	case EmotionSadness, EmotionFear:
		if rng.Float64() < 0.3 {
			text = supportMarkers[rng.Intn(len(supportMarkers))] + ". " + text
		}
	case EmotionJoy:
		if rng.Float64() < 0.3 {
			text = positiveAffirms[rng.Intn(len(positiveAffirms))] + " " + text
		}
	}

	if style.Punctuation > 0.7 && !hasTerminalPunctuation(text) {
		if style.Playfulness > 1.0 {
			text += "!!"
		} else {
			text += "!"
		}
	}

	pool, ok := emojiPools[emotion]
	if !ok {
		pool = emojiPools[EmotionNeutral]
	}
	eprob := cfg.EmojiBaseline * (0.4 + 1.2*style.Warmth) * (0.8 + 0.6*arousal) * style.EmojiProb
	if rng.Float64() < eprob {
		text += " " + pool[rng.Intn(len(pool))]
		if rng.Float64() < eprob*0.5 {
			text += " " + pool[rng.Intn(len(pool))]
		}
	}

	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " ")), delay
}

func hasTerminalPunctuation(text string) bool {
	for _, suffix := range []string{"!", "?", ".", "…"} {
		if strings.HasSuffix(text, suffix) {
			return true
		}
	}
	return false
}
