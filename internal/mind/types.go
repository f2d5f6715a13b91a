// Package mind implements the emotional core of the bot: continuous
// valence/arousal affect with decay and inertia, discrete emotion labels with
// hysteresis, personality-driven modulation, a randomness layer for human-like
// variability, and the style shaping that turns a raw reply into the final
// utterance.
package mind

import "math"

// Emotion is a discrete emotion label. The set is closed; unknown strings are
// mapped to EmotionNeutral by ParseEmotion.
type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionJoy       Emotion = "joy"
	EmotionSadness   Emotion = "sadness"
	EmotionAnger     Emotion = "anger"
	EmotionFear      Emotion = "fear"
	EmotionSurprise  Emotion = "surprise"
	EmotionDisgust   Emotion = "disgust"
	EmotionCuriosity Emotion = "curiosity"
	EmotionAffection Emotion = "affection"
)

// AllEmotions lists every discrete emotion in anchor-table order.
var AllEmotions = []Emotion{
	EmotionNeutral,
	EmotionJoy,
	EmotionSadness,
	EmotionAnger,
	EmotionFear,
	EmotionSurprise,
	EmotionDisgust,
	EmotionCuriosity,
	EmotionAffection,
}

// ParseEmotion maps a string to an Emotion, falling back to neutral.
func ParseEmotion(s string) Emotion {
	for _, e := range AllEmotions {
		if string(e) == s {
			return e
		}
	}
	return EmotionNeutral
}

// Appraisal is the signal extracted from one user message. Hint is empty when
// no discrete emotion was recognized.
type Appraisal struct {
	Sentiment float64 `json:"sentiment"` // -1..1
	Intensity float64 `json:"intensity"` // 0..1
	Hint      Emotion `json:"hint,omitempty"`
}

// StateSnapshot is the display form of the affect state. Values are rounded.
type StateSnapshot struct {
	Valence float64 `json:"valence"`
	Arousal float64 `json:"arousal"`
	Emotion Emotion `json:"emotion"`
	Since   float64 `json:"since"` // seconds since last discrete switch
}

// ProfileSnapshot is the display form of a personality profile.
type ProfileSnapshot struct {
	Type      PersonalityType    `json:"type"`
	Traits    map[string]float64 `json:"traits"`
	Modifiers map[string]float64 `json:"modifiers"`
}

// DebugSnapshot is the display form of the randomness engine state.
type DebugSnapshot struct {
	Config struct {
		Intensity       float64 `json:"intensity"`
		StyleDriftProb  float64 `json:"style_drift_prob"`
		MoodSwingProb   float64 `json:"mood_swing_prob"`
		MemoryQuirkProb float64 `json:"memory_quirk_prob"`
	} `json:"config"`
	State struct {
		TurnCount     int                `json:"turn_count"`
		EnergyLevel   float64            `json:"energy_level"`
		AttentionSpan int                `json:"attention_span"`
		RecentTopics  []string           `json:"recent_topics"`
		StyleDrift    map[string]float64 `json:"style_drift"`
	} `json:"state"`
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clamp01(x float64) float64 {
	return clamp(x, 0, 1)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
