package mind

import (
	"math/rand"
	"strings"
	"time"
	"unicode"
)

// Effect identifies one category of injected human-like randomness.
type Effect string

const (
	EffectStyleDrift      Effect = "style_drift"
	EffectMoodSwing       Effect = "mood_swing"
	EffectMemoryQuirk     Effect = "memory_quirk"
	EffectTopicTangent    Effect = "topic_tangent"
	EffectResponseDelay   Effect = "response_delay"
	EffectTypoSlip        Effect = "typo_slip"
	EffectEnthusiasmBurst Effect = "enthusiasm_burst"
	EffectDistraction     Effect = "distraction"
)

// RandomnessConfig tunes the randomness layer. Intensity scales every effect
// probability; zero disables the layer entirely.
type RandomnessConfig struct {
	Intensity float64 `json:"intensity"` // 0..1

	StyleDriftProb      float64 `json:"style_drift_prob"`
	MoodSwingProb       float64 `json:"mood_swing_prob"`
	MemoryQuirkProb     float64 `json:"memory_quirk_prob"`
	TopicTangentProb    float64 `json:"topic_tangent_prob"`
	ResponseDelayProb   float64 `json:"response_delay_prob"`
	TypoSlipProb        float64 `json:"typo_slip_prob"`
	EnthusiasmBurstProb float64 `json:"enthusiasm_burst_prob"`
	DistractionProb     float64 `json:"distraction_prob"`

	MinDelay time.Duration `json:"min_delay"`
	MaxDelay time.Duration `json:"max_delay"`

	DriftMagnitude   float64 `json:"drift_magnitude"`   // max drift per style key
	DriftPersistence float64 `json:"drift_persistence"` // per-turn drift retention

	CallbackChance float64 `json:"callback_chance"` // chance to reference old topics
}

// DefaultRandomnessConfig returns the stock randomness tuning.
func DefaultRandomnessConfig() RandomnessConfig {
	return RandomnessConfig{
		Intensity:           0.3,
		StyleDriftProb:      0.2,
		MoodSwingProb:       0.1,
		MemoryQuirkProb:     0.15,
		TopicTangentProb:    0.08,
		ResponseDelayProb:   0.25,
		TypoSlipProb:        0.05,
		EnthusiasmBurstProb: 0.12,
		DistractionProb:     0.1,
		MinDelay:            500 * time.Millisecond,
		MaxDelay:            3 * time.Second,
		DriftMagnitude:      0.2,
		DriftPersistence:    0.8,
		CallbackChance:      0.3,
	}
}

func (c RandomnessConfig) baseProb(e Effect) float64 {
	switch e {
	case EffectStyleDrift:
		return c.StyleDriftProb
	case EffectMoodSwing:
		return c.MoodSwingProb
	case EffectMemoryQuirk:
		return c.MemoryQuirkProb
	case EffectTopicTangent:
		return c.TopicTangentProb
	case EffectResponseDelay:
		return c.ResponseDelayProb
	case EffectTypoSlip:
		return c.TypoSlipProb
	case EffectEnthusiasmBurst:
		return c.EnthusiasmBurstProb
	case EffectDistraction:
		return c.DistractionProb
	}
	return 0
}

const (
	moodSwingCooldown = time.Minute
	tangentCooldown   = 2 * time.Minute
)

// conversationState tracks the conversation for randomness decisions.
type conversationState struct {
	turnCount     int
	lastTopics    []string
	styleDrift    map[string]float64
	lastMoodSwing time.Time
	lastTangent   time.Time
	energyLevel   float64
	attentionSpan int
}

func newConversationState() conversationState {
	return conversationState{
		styleDrift:  make(map[string]float64),
		energyLevel: 0.5,
	}
}

var emotionEnergy = map[Emotion]float64{
	EmotionJoy:       0.8,
	EmotionSurprise:  0.7,
	EmotionAnger:     0.6,
	EmotionFear:      0.4,
	EmotionSadness:   0.2,
	EmotionNeutral:   0.5,
	EmotionCuriosity: 0.6,
	EmotionAffection: 0.6,
}

var personalityEnergy = map[PersonalityType]float64{
	PersonalityEnthusiast: 0.8,
	PersonalityChallenger: 0.7,
	PersonalityCreative:   0.6,
	PersonalitySupporter:  0.5,
	PersonalityAnalyst:    0.4,
	PersonalityGuardian:   0.4,
	PersonalityBalanced:   0.5,
}

var quirkTypes = []string{"callback", "forget", "misremember"}

var typoKinds = []string{"swap", "missing", "extra", "wrong"}

var forgetQuirks = []string{
	"Wait, what were we just talking about?",
	"Hmm, I seem to have lost my train of thought...",
	"Sorry, where was I again?",
}

var misrememberQuirks = []string{
	"Actually, wait - I think I might have mixed that up...",
	"Hmm, now that I think about it...",
	"On second thought...",
}

var tangentPhrases = []string{
	"Speaking of which, have you ever noticed how...",
	"That reminds me of something completely different - ",
	"Random thought, but...",
	"This might be totally off-topic, but...",
	"Weirdly enough, this makes me think of...",
	"Oh! That just sparked a thought about...",
	"Completely changing subjects here, but...",
}

var distractionPhrases = []string{
	"Sorry, got a bit distracted there...",
	"What was I saying? Oh right...",
	"Hmm, my mind wandered for a second...",
	"Where was I going with this?",
	"Lost my focus there for a moment...",
}

// Randomizer injects controlled unpredictability into replies: drifting style,
// mood swings, memory quirks, tangents, delays, typos, enthusiasm bursts and
// distractions. Not safe for concurrent use; the owning engine serializes
// access. All draws come from the injected rng so behavior is reproducible
// under a fixed seed.
type Randomizer struct {
	cfg   RandomnessConfig
	rng   *rand.Rand
	state conversationState
}

// NewRandomizer builds a randomizer with its own conversation state.
func NewRandomizer(cfg RandomnessConfig, rng *rand.Rand) *Randomizer {
	return &Randomizer{cfg: cfg, rng: rng, state: newConversationState()}
}

func (r *Randomizer) uniform(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}

// UpdateState advances the per-turn conversation tracking: turn counter,
// topics from the user text, energy toward the emotion/personality target,
// attention decay.
func (r *Randomizer) UpdateState(userInput string, emotion Emotion, personality PersonalityType) {
	r.state.turnCount++
	r.trackTopics(userInput)
	r.updateEnergy(emotion, personality)
	if r.state.attentionSpan > 0 {
		r.state.attentionSpan--
	}
}

func (r *Randomizer) trackTopics(text string) {
	words := strings.Fields(strings.ToLower(text))
	added := 0
	for _, w := range words {
		if added == 3 {
			break
		}
		if len([]rune(w)) > 4 && allLetters(w) {
			r.state.lastTopics = append(r.state.lastTopics, w)
			added++
		}
	}
	if n := len(r.state.lastTopics); n > 10 {
		r.state.lastTopics = r.state.lastTopics[n-10:]
	}
}

func allLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func (r *Randomizer) updateEnergy(emotion Emotion, personality PersonalityType) {
	target, ok := emotionEnergy[emotion]
	if !ok {
		target = 0.5
	}
	pe, ok := personalityEnergy[personality]
	if !ok {
		pe = 0.5
	}
	target = (target + pe) / 2

	r.state.energyLevel += (target - r.state.energyLevel) * 0.3
	r.state.energyLevel += r.uniform(-0.1, 0.1)
	r.state.energyLevel = clamp01(r.state.energyLevel)
}

// ShouldApply rolls the probability gate for one effect. The base probability
// is scaled by global intensity and by contextual factors: mood swings and
// tangents have cooldowns, tangents ride energy, distractions wait for
// attention to run out.
func (r *Randomizer) ShouldApply(now time.Time, e Effect) bool {
	if r.cfg.Intensity == 0 {
		return false
	}
	prob := r.cfg.baseProb(e) * r.cfg.Intensity

	switch e {
	case EffectMoodSwing:
		if now.Sub(r.state.lastMoodSwing) < moodSwingCooldown {
			prob *= 0.3
		}
	case EffectTopicTangent:
		prob *= r.state.energyLevel
		if now.Sub(r.state.lastTangent) < tangentCooldown {
			prob *= 0.5
		}
	case EffectDistraction:
		if r.state.attentionSpan > 0 {
			prob *= 0.5
		}
	}

	return r.rng.Float64() < prob
}

// ApplyStyleDrift returns a copy of the style map with persistent per-key
// drift folded in. Drift decays each application and occasionally picks up a
// new random component; drifted values stay within [0.1, 2.0].
func (r *Randomizer) ApplyStyleDrift(now time.Time, style map[string]float64) map[string]float64 {
	modified := make(map[string]float64, len(style))
	for k, v := range style {
		modified[k] = v
	}
	if !r.ShouldApply(now, EffectStyleDrift) {
		return modified
	}

	// Fixed key order keeps seeded runs reproducible.
	for _, key := range styleKeys {
		value, ok := modified[key]
		if !ok {
			continue
		}
		drift := r.state.styleDrift[key] * r.cfg.DriftPersistence
		if r.rng.Float64() < 0.3 {
			drift += r.uniform(-r.cfg.DriftMagnitude, r.cfg.DriftMagnitude) * 0.3
		}
		drift = clamp(drift, -r.cfg.DriftMagnitude, r.cfg.DriftMagnitude)

		modified[key] = clamp(value+drift, 0.1, 2.0)
		r.state.styleDrift[key] = drift
	}

	return modified
}

// MoodSwingDelta emits a spontaneous affect nudge, or (0,0). Swing size rides
// the current energy level.
func (r *Randomizer) MoodSwingDelta(now time.Time) (dv, da float64) {
	if !r.ShouldApply(now, EffectMoodSwing) {
		return 0, 0
	}
	r.state.lastMoodSwing = now

	intensity := r.state.energyLevel * 0.4
	dv = r.uniform(-intensity, intensity)
	da = r.uniform(-intensity*0.5, intensity)
	return dv, da
}

// MemoryQuirk returns a callback, forget, or misremember interjection, or "".
func (r *Randomizer) MemoryQuirk(now time.Time) string {
	if !r.ShouldApply(now, EffectMemoryQuirk) {
		return ""
	}

	switch quirkTypes[r.rng.Intn(len(quirkTypes))] {
	case "callback":
		if len(r.state.lastTopics) == 0 {
			return ""
		}
		if r.rng.Float64() >= r.cfg.CallbackChance {
			return ""
		}
		recent := r.state.lastTopics
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		topic := recent[r.rng.Intn(len(recent))]
		return "Oh, that reminds me of when we were talking about " + topic + "..."
	case "forget":
		return forgetQuirks[r.rng.Intn(len(forgetQuirks))]
	default:
		return misrememberQuirks[r.rng.Intn(len(misrememberQuirks))]
	}
}

// TopicTangent returns a tangent opener and stamps the tangent cooldown, or "".
func (r *Randomizer) TopicTangent(now time.Time) string {
	if !r.ShouldApply(now, EffectTopicTangent) {
		return ""
	}
	r.state.lastTangent = now
	return tangentPhrases[r.rng.Intn(len(tangentPhrases))]
}

// ResponseDelay returns a thinking pause before the reply, or 0. Low energy
// stretches the pause.
func (r *Randomizer) ResponseDelay(now time.Time) time.Duration {
	if !r.ShouldApply(now, EffectResponseDelay) {
		return 0
	}
	base := r.uniform(r.cfg.MinDelay.Seconds(), r.cfg.MaxDelay.Seconds())
	factor := 1.2 - r.state.energyLevel
	return time.Duration(base * factor * float64(time.Second))
}

// ApplyTypos occasionally misspells a few longer words. Very short replies are
// left alone.
func (r *Randomizer) ApplyTypos(now time.Time, text string) string {
	if !r.ShouldApply(now, EffectTypoSlip) {
		return text
	}
	words := strings.Fields(text)
	if len(words) < 3 {
		return text
	}

	typoCount := int(float64(len(words)) * r.uniform(0.05, 0.1))
	if typoCount < 1 {
		typoCount = 1
	}
	for i := 0; i < typoCount; i++ {
		idx := r.rng.Intn(len(words))
		if len([]rune(words[idx])) > 3 {
			words[idx] = r.applySingleTypo(words[idx])
		}
	}
	return strings.Join(words, " ")
}

const typoVowels = "aeiou"

func (r *Randomizer) applySingleTypo(word string) string {
	chars := []rune(word)
	n := len(chars)

	switch typoKinds[r.rng.Intn(len(typoKinds))] {
	case "swap":
		if n > 3 {
			idx := r.rng.Intn(n - 1)
			chars[idx], chars[idx+1] = chars[idx+1], chars[idx]
			return string(chars)
		}
	case "missing":
		if n > 4 {
			idx := 1 + r.rng.Intn(n-2) // keep first and last
			return string(chars[:idx]) + string(chars[idx+1:])
		}
	case "extra":
		idx := 1 + r.rng.Intn(n)
		extra := rune(typoVowels[r.rng.Intn(len(typoVowels))])
		return string(chars[:idx]) + string(extra) + string(chars[idx:])
	case "wrong":
		if n > 3 {
			idx := 1 + r.rng.Intn(n-2)
			chars[idx] = rune(typoVowels[r.rng.Intn(len(typoVowels))])
			return string(chars)
		}
	}
	return word
}

// EnthusiasmBurst returns temporary style multipliers for a burst of
// excitement, or nil.
func (r *Randomizer) EnthusiasmBurst(now time.Time) map[string]float64 {
	if !r.ShouldApply(now, EffectEnthusiasmBurst) {
		return nil
	}
	burst := r.uniform(0.3, 0.8)
	return map[string]float64{
		"playfulness": 1.0 + burst,
		"punctuation": 1.0 + burst*0.5,
		"emoji_prob":  1.0 + burst,
		"verbosity":   1.0 + burst*0.3,
	}
}

// Distraction returns a sidetracked interjection and refills the attention
// span, or "".
func (r *Randomizer) Distraction(now time.Time) string {
	if !r.ShouldApply(now, EffectDistraction) {
		return ""
	}
	r.state.attentionSpan = 3 + r.rng.Intn(5)
	return distractionPhrases[r.rng.Intn(len(distractionPhrases))]
}

// ApplyAll runs the whole randomness pass for one reply: state update, style
// drift, enthusiasm burst, response delay, then text prefixes, with typos
// last. userInput feeds topic tracking; text is the reply being perturbed.
func (r *Randomizer) ApplyAll(now time.Time, userInput, text string, style map[string]float64, emotion Emotion, personality PersonalityType) (string, map[string]float64, time.Duration) {
	r.UpdateState(userInput, emotion, personality)

	modifiedText := text
	modifiedStyle := r.ApplyStyleDrift(now, style)

	if burst := r.EnthusiasmBurst(now); burst != nil {
		for key, mult := range burst {
			if v, ok := modifiedStyle[key]; ok {
				modifiedStyle[key] = v * mult
			}
		}
	}

	delay := r.ResponseDelay(now)

	if quirk := r.MemoryQuirk(now); quirk != "" {
		modifiedText = quirk + " " + modifiedText
	}
	if tangent := r.TopicTangent(now); tangent != "" {
		modifiedText = tangent + " " + modifiedText
	}
	if distraction := r.Distraction(now); distraction != "" {
		modifiedText = distraction + " " + modifiedText
	}

	// Typos last so they can land on the interjections too.
	modifiedText = r.ApplyTypos(now, modifiedText)

	return modifiedText, modifiedStyle, delay
}

// Reset clears the conversation state for a fresh conversation.
func (r *Randomizer) Reset() {
	r.state = newConversationState()
}

// DebugSnapshot renders config and state for the debug surfaces.
func (r *Randomizer) DebugSnapshot() DebugSnapshot {
	var d DebugSnapshot
	d.Config.Intensity = r.cfg.Intensity
	d.Config.StyleDriftProb = r.cfg.StyleDriftProb
	d.Config.MoodSwingProb = r.cfg.MoodSwingProb
	d.Config.MemoryQuirkProb = r.cfg.MemoryQuirkProb

	d.State.TurnCount = r.state.turnCount
	d.State.EnergyLevel = round3(r.state.energyLevel)
	d.State.AttentionSpan = r.state.attentionSpan

	topics := r.state.lastTopics
	if len(topics) > 3 {
		topics = topics[len(topics)-3:]
	}
	d.State.RecentTopics = append([]string{}, topics...)

	d.State.StyleDrift = make(map[string]float64, len(r.state.styleDrift))
	for k, v := range r.state.styleDrift {
		d.State.StyleDrift[k] = round3(v)
	}
	return d
}
