package mind

import "math/rand"

// PersonalityType names a trait preset. Unknown types resolve to balanced.
type PersonalityType string

const (
	PersonalityEnthusiast PersonalityType = "enthusiast"
	PersonalityAnalyst    PersonalityType = "analyst"
	PersonalitySupporter  PersonalityType = "supporter"
	PersonalityChallenger PersonalityType = "challenger"
	PersonalityCreative   PersonalityType = "creative"
	PersonalityGuardian   PersonalityType = "guardian"
	PersonalityComedian   PersonalityType = "comedian"
	PersonalityBalanced   PersonalityType = "balanced"
)

// AllPersonalities lists every preset in a stable order.
var AllPersonalities = []PersonalityType{
	PersonalityEnthusiast,
	PersonalityAnalyst,
	PersonalitySupporter,
	PersonalityChallenger,
	PersonalityCreative,
	PersonalityGuardian,
	PersonalityComedian,
	PersonalityBalanced,
}

// Traits are the Big Five plus five conversational dimensions, all 0..1.
type Traits struct {
	Openness          float64
	Conscientiousness float64
	Extraversion      float64
	Agreeableness     float64
	Neuroticism       float64

	Humor         float64
	Empathy       float64
	Optimism      float64
	Assertiveness float64
	Formality     float64
}

var personalityPresets = map[PersonalityType]Traits{
	PersonalityEnthusiast: {
		Openness: 0.8, Conscientiousness: 0.4, Extraversion: 0.9,
		Agreeableness: 0.7, Neuroticism: 0.3, Humor: 0.8,
		Empathy: 0.7, Optimism: 0.9, Assertiveness: 0.7, Formality: 0.2,
	},
	PersonalityAnalyst: {
		Openness: 0.7, Conscientiousness: 0.8, Extraversion: 0.3,
		Agreeableness: 0.4, Neuroticism: 0.4, Humor: 0.3,
		Empathy: 0.4, Optimism: 0.5, Assertiveness: 0.6, Formality: 0.8,
	},
	PersonalitySupporter: {
		Openness: 0.5, Conscientiousness: 0.6, Extraversion: 0.4,
		Agreeableness: 0.9, Neuroticism: 0.6, Humor: 0.4,
		Empathy: 0.9, Optimism: 0.6, Assertiveness: 0.2, Formality: 0.4,
	},
	PersonalityChallenger: {
		Openness: 0.6, Conscientiousness: 0.5, Extraversion: 0.7,
		Agreeableness: 0.2, Neuroticism: 0.2, Humor: 0.5,
		Empathy: 0.3, Optimism: 0.4, Assertiveness: 0.9, Formality: 0.3,
	},
	PersonalityCreative: {
		Openness: 0.9, Conscientiousness: 0.3, Extraversion: 0.6,
		Agreeableness: 0.6, Neuroticism: 0.7, Humor: 0.8,
		Empathy: 0.6, Optimism: 0.7, Assertiveness: 0.4, Formality: 0.1,
	},
	PersonalityGuardian: {
		Openness: 0.3, Conscientiousness: 0.9, Extraversion: 0.4,
		Agreeableness: 0.7, Neuroticism: 0.3, Humor: 0.2,
		Empathy: 0.6, Optimism: 0.4, Assertiveness: 0.5, Formality: 0.9,
	},
	PersonalityComedian: {
		Openness: 0.7, Conscientiousness: 0.4, Extraversion: 0.8,
		Agreeableness: 0.6, Neuroticism: 0.4, Humor: 0.9,
		Empathy: 0.5, Optimism: 0.8, Assertiveness: 0.6, Formality: 0.2,
	},
	PersonalityBalanced: {
		Openness: 0.5, Conscientiousness: 0.5, Extraversion: 0.5,
		Agreeableness: 0.5, Neuroticism: 0.5, Humor: 0.5,
		Empathy: 0.5, Optimism: 0.5, Assertiveness: 0.5, Formality: 0.5,
	},
}

// responseFlavors holds short personality-colored interjections keyed by
// preset and current emotion. Presets without entries never add flavor.
var responseFlavors = map[PersonalityType]map[Emotion][]string{
	PersonalityEnthusiast: {
		EmotionJoy:       {"Amazing!", "This is fantastic!", "I love this!"},
		EmotionCuriosity: {"Ooh, tell me more!", "That's fascinating!", "I'm so curious about this!"},
		EmotionNeutral:   {"Interesting!", "Cool!", "Nice!"},
	},
	PersonalityAnalyst: {
		EmotionCuriosity: {"Let me think about this...", "That's worth analyzing.", "Interesting data point."},
		EmotionNeutral:   {"I see.", "That makes sense.", "Logically speaking..."},
		EmotionSurprise:  {"That's unexpected.", "I need to recalibrate my assumptions.", "Intriguing."},
	},
	PersonalitySupporter: {
		EmotionSadness: {"I'm here for you.", "That sounds really hard.", "You're not alone in this."},
		EmotionJoy:     {"I'm so happy for you!", "You deserve this happiness.", "That's wonderful news!"},
		EmotionFear:    {"It's okay to feel scared.", "We can work through this together.", "You're stronger than you know."},
	},
	PersonalityChallenger: {
		EmotionAnger:   {"That's not acceptable.", "We need to address this head-on.", "Time to take action."},
		EmotionNeutral: {"What's your point?", "Cut to the chase.", "Let's be real here."},
	},
	PersonalityCreative: {
		EmotionJoy:       {"This sparks so many ideas!", "The possibilities are endless!", "What if we..."},
		EmotionCuriosity: {"There's a story here...", "This reminds me of...", "What patterns do you see?"},
		EmotionSurprise:  {"Plot twist!", "Didn't see that coming!", "Reality is stranger than fiction!"},
	},
	PersonalityGuardian: {
		EmotionFear:    {"Let's be cautious here.", "Safety first.", "We should consider the risks."},
		EmotionNeutral: {"Following protocol...", "Let's stick to what works.", "Tried and true approach."},
		EmotionAnger:   {"This violates our standards.", "Order must be maintained.", "Rules exist for a reason."},
	},
}

const flavorChance = 0.4

// Personality modulates how stimuli land on the affect state and how replies
// are styled. Modifiers are derived once at construction.
type Personality struct {
	Type   PersonalityType
	Traits Traits

	// Emotional modifiers.
	ValenceBias        float64 // -0.3..0.3
	ArousalSensitivity float64 // 0.5..1.3
	EmotionalStability float64 // 0.5..1.5

	// Behavioral multipliers, 1.0 means no change.
	verbosityMult   float64
	directnessMult  float64
	warmthMult      float64
	playfulnessMult float64
	formalityMult   float64

	rng *rand.Rand
}

// NewPersonality builds a profile from a preset. Unknown types fall back to
// balanced, never an error.
func NewPersonality(t PersonalityType, rng *rand.Rand) *Personality {
	traits, ok := personalityPresets[t]
	if !ok {
		t = PersonalityBalanced
		traits = personalityPresets[PersonalityBalanced]
	}
	p := &Personality{Type: t, Traits: traits, rng: rng}
	p.computeModifiers()
	return p
}

// KnownPersonality reports whether the name matches a preset exactly.
func KnownPersonality(s string) bool {
	_, ok := personalityPresets[PersonalityType(s)]
	return ok
}

func (p *Personality) computeModifiers() {
	t := p.Traits
	p.ValenceBias = (t.Optimism - 0.5) * 0.6
	p.ArousalSensitivity = 0.5 + t.Neuroticism*0.8
	p.EmotionalStability = 1.5 - t.Neuroticism

	p.verbosityMult = 0.6 + t.Extraversion*0.8
	p.directnessMult = 0.5 + t.Assertiveness*1.0
	p.warmthMult = 0.3 + (t.Agreeableness+t.Empathy)*0.85
	p.playfulnessMult = 0.2 + t.Humor*1.6
	p.formalityMult = 0.2 + t.Formality*1.6
}

// ModifyEmotionalDeltas filters a stimulus through the profile. Valence bias
// shifts dv, arousal sensitivity scales da, and low stability amplifies both.
func (p *Personality) ModifyEmotionalDeltas(dv, da float64) (float64, float64) {
	mdv := dv + p.ValenceBias*0.3
	mda := da * p.ArousalSensitivity

	stabilityFactor := 1.0 / p.EmotionalStability
	mdv *= stabilityFactor
	mda *= stabilityFactor

	return mdv, mda
}

// StyleModifiers returns the multipliers applied to the style preset knobs.
func (p *Personality) StyleModifiers() map[string]float64 {
	return map[string]float64{
		"verbosity":   p.verbosityMult,
		"directness":  p.directnessMult,
		"warmth":      p.warmthMult,
		"playfulness": p.playfulnessMult,
		"formality":   p.formalityMult,
	}
}

// ResponseFlavor returns a short interjection matching the preset and current
// emotion, or "" most of the time.
func (p *Personality) ResponseFlavor(emotion Emotion) string {
	pool := responseFlavors[p.Type][emotion]
	if len(pool) == 0 || p.rng.Float64() >= flavorChance {
		return ""
	}
	return pool[p.rng.Intn(len(pool))]
}

// AdjustedBaseline returns the resting valence/arousal point for this profile.
// Optimists rest slightly positive, extraverts slightly energized.
func (p *Personality) AdjustedBaseline() (valence, arousal float64) {
	return (p.Traits.Optimism - 0.5) * 0.4, 0.2 + p.Traits.Extraversion*0.2
}

// ConversationPreferences summarizes trait-derived tendencies for telemetry.
func (p *Personality) ConversationPreferences() map[string]float64 {
	t := p.Traits
	return map[string]float64{
		"prefers_deep_topics":    t.Openness,
		"likes_humor":            t.Humor,
		"seeks_harmony":          t.Agreeableness,
		"detail_oriented":        t.Conscientiousness,
		"emotionally_expressive": t.Extraversion * (1 - t.Formality),
		"supportive_tendency":    t.Empathy,
	}
}

// Snapshot renders the profile for display and telemetry.
func (p *Personality) Snapshot() ProfileSnapshot {
	t := p.Traits
	return ProfileSnapshot{
		Type: p.Type,
		Traits: map[string]float64{
			"openness":          round2(t.Openness),
			"conscientiousness": round2(t.Conscientiousness),
			"extraversion":      round2(t.Extraversion),
			"agreeableness":     round2(t.Agreeableness),
			"neuroticism":       round2(t.Neuroticism),
			"humor":             round2(t.Humor),
			"empathy":           round2(t.Empathy),
			"optimism":          round2(t.Optimism),
			"assertiveness":     round2(t.Assertiveness),
			"formality":         round2(t.Formality),
		},
		Modifiers: map[string]float64{
			"valence_bias":        round3(p.ValenceBias),
			"arousal_sensitivity": round3(p.ArousalSensitivity),
			"emotional_stability": round3(p.EmotionalStability),
		},
	}
}
