package mind

import (
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Weights scale how appraisal signals move the affect state.
type Weights struct {
	SentimentToValence float64 `json:"sentiment_to_valence"`
	IntensityToArousal float64 `json:"intensity_to_arousal"`
	Inertia            float64 `json:"inertia"` // 0..1, weight of the old state
}

// DefaultWeights returns the stock stimulus weights.
func DefaultWeights() Weights {
	return Weights{
		SentimentToValence: 0.5,
		IntensityToArousal: 0.6,
		Inertia:            0.75,
	}
}

// PersonalityConfig selects the starting preset and whether it moves the
// affect baselines.
type PersonalityConfig struct {
	DefaultType      PersonalityType `json:"default_type"`
	AffectsBaselines bool            `json:"affects_baselines"`
}

// DefaultPersonalityConfig returns the stock personality settings.
func DefaultPersonalityConfig() PersonalityConfig {
	return PersonalityConfig{
		DefaultType:      PersonalityBalanced,
		AffectsBaselines: true,
	}
}

// EngineConfig bundles every tunable of one conversation engine.
type EngineConfig struct {
	Decay       DecayConfig       `json:"decay"`
	Weights     Weights           `json:"weights"`
	Behavior    BehaviorConfig    `json:"behavior"`
	Randomness  RandomnessConfig  `json:"randomness"`
	Personality PersonalityConfig `json:"personality"`
}

// DefaultEngineConfig returns the stock engine tuning.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Decay:       DefaultDecayConfig(),
		Weights:     DefaultWeights(),
		Behavior:    DefaultBehaviorConfig(),
		Randomness:  DefaultRandomnessConfig(),
		Personality: DefaultPersonalityConfig(),
	}
}

// hintNudges are the per-emotion pushes applied when the appraisal carries a
// discrete hint. Scaled by (1 + intensity) at application time.
var hintNudges = map[Emotion]struct{ dv, da float64 }{
	EmotionAnger:     {-0.2, 0.15},
	EmotionSadness:   {-0.25, -0.05},
	EmotionFear:      {-0.25, 0.05},
	EmotionDisgust:   {-0.2, 0.05},
	EmotionJoy:       {0.3, 0.05},
	EmotionSurprise:  {0, 0.2},
	EmotionCuriosity: {0, 0.1},
	EmotionAffection: {0.25, -0.05},
}

// Engine owns one conversation's emotional state and runs the per-turn
// pipeline: decay, appraisal deltas, personality modulation, hint nudges,
// mood swing, inertia blend, hysteresis, then style shaping for the reply.
// Not safe for concurrent use; callers serialize access per conversation.
type Engine struct {
	cfg EngineConfig
	rng *rand.Rand

	state       *AffectState
	personality *Personality
	randomizer  *Randomizer
	memory      *ConversationMemory

	conversationID string
	lastUpdate     time.Time
	lastInput      string
}

// NewEngine builds an engine for one conversation. Pass a nil rng to seed
// from the clock; tests inject a fixed-seed source for reproducible runs.
func NewEngine(cfg EngineConfig, rng *rand.Rand, now time.Time) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:            cfg,
		rng:            rng,
		state:          NewAffectState(now),
		personality:    NewPersonality(cfg.Personality.DefaultType, rng),
		randomizer:     NewRandomizer(cfg.Randomness, rng),
		memory:         NewConversationMemory(),
		conversationID: uuid.NewString(),
		lastUpdate:     now,
	}
	if cfg.Personality.AffectsBaselines {
		bv, ba := e.personality.AdjustedBaseline()
		e.state.SetBaselines(bv, ba)
		e.state.Valence = bv
		e.state.Arousal = ba
	}
	return e
}

// ProcessInput appraises one user message and advances the turn. The text is
// remembered for context and feeds the randomness topic tracking.
func (e *Engine) ProcessInput(now time.Time, userText string) StateSnapshot {
	e.lastInput = userText
	e.memory.Add(now, "user", userText)
	return e.AdvanceTurn(now, Appraise(userText))
}

// AdvanceTurn runs the state pipeline for one appraised stimulus and returns
// the resulting snapshot.
func (e *Engine) AdvanceTurn(now time.Time, a Appraisal) StateSnapshot {
	dt := now.Sub(e.lastUpdate)
	e.lastUpdate = now

	e.state.DecayTowardBaseline(dt, e.cfg.Decay)

	// Emphatic messages land harder.
	mult := 1 + a.Intensity
	dv := a.Sentiment * e.cfg.Weights.SentimentToValence * mult
	da := a.Intensity * e.cfg.Weights.IntensityToArousal

	dv, da = e.personality.ModifyEmotionalDeltas(dv, da)

	if nudge, ok := hintNudges[a.Hint]; ok {
		dv += nudge.dv * mult
		da += nudge.da * mult
	}

	mdv, mda := e.randomizer.MoodSwingDelta(now)
	e.state.ApplyDelta(dv+mdv, da+mda, e.cfg.Weights.Inertia)

	force := a.Hint == EmotionAnger || a.Intensity > 0.7
	if e.state.MaybeSwitch(now, e.cfg.Decay.MinEmotionDuration, force) {
		log.Printf("[MIND] conv=%s emotion -> %s (forced=%t v=%.3f a=%.3f)",
			e.conversationID, e.state.Current, force, e.state.Valence, e.state.Arousal)
	}

	return e.state.Snapshot(now)
}

// Tick advances decay and hysteresis without input. Call it on idle loops so
// the state keeps relaxing toward baseline between messages.
func (e *Engine) Tick(now time.Time) StateSnapshot {
	dt := now.Sub(e.lastUpdate)
	e.lastUpdate = now

	e.state.DecayTowardBaseline(dt, e.cfg.Decay)
	if e.state.MaybeSwitch(now, e.cfg.Decay.MinEmotionDuration, false) {
		log.Printf("[MIND] conv=%s emotion -> %s (decay v=%.3f a=%.3f)",
			e.conversationID, e.state.Current, e.state.Valence, e.state.Arousal)
	}
	return e.state.Snapshot(now)
}

// StyleReply styles a raw generated reply in the current emotional voice and
// records it in memory. Returns the final text and the thinking delay the
// front-end should wait before sending.
func (e *Engine) StyleReply(now time.Time, raw string) (string, time.Duration) {
	flavor := e.personality.ResponseFlavor(e.state.Current)

	text, delay := Shape(e.rng, now, raw, e.state.Current, e.state.Arousal, e.cfg.Behavior, ShapeOptions{
		Personality: e.personality,
		Flavor:      flavor,
		Randomizer:  e.randomizer,
		UserInput:   e.lastInput,
	})
	e.lastInput = ""

	e.memory.Add(now, "bot", text)
	log.Printf("[MIND] conv=%s reply emotion=%s delay=%.2fs text=%s",
		e.conversationID, e.state.Current, delay.Seconds(), truncateForLog(text, 120))
	return text, delay
}

// SwitchPersonality swaps the active preset. Reports false for unknown names.
// With baseline coupling enabled the resting point moves, but the current
// affect keeps decaying there instead of jumping.
func (e *Engine) SwitchPersonality(name string) bool {
	if !KnownPersonality(name) {
		return false
	}
	e.personality = NewPersonality(PersonalityType(name), e.rng)
	if e.cfg.Personality.AffectsBaselines {
		e.state.SetBaselines(e.personality.AdjustedBaseline())
	}
	log.Printf("[MIND] conv=%s personality -> %s", e.conversationID, name)
	return true
}

// Reset starts a fresh conversation: new id, rested state, cleared memory and
// randomness tracking. The personality stays.
func (e *Engine) Reset(now time.Time) {
	e.conversationID = uuid.NewString()
	e.state = NewAffectState(now)
	if e.cfg.Personality.AffectsBaselines {
		bv, ba := e.personality.AdjustedBaseline()
		e.state.SetBaselines(bv, ba)
		e.state.Valence = bv
		e.state.Arousal = ba
	}
	e.randomizer.Reset()
	e.memory.Clear()
	e.lastUpdate = now
	e.lastInput = ""
	log.Printf("[MIND] conv=%s conversation reset", e.conversationID)
}

// ConversationID returns the id of the current conversation.
func (e *Engine) ConversationID() string {
	return e.conversationID
}

// CurrentEmotion returns the active discrete label.
func (e *Engine) CurrentEmotion() Emotion {
	return e.state.Current
}

// PersonalityName returns the active preset name.
func (e *Engine) PersonalityName() PersonalityType {
	return e.personality.Type
}

// Snapshot renders the affect state without advancing it.
func (e *Engine) Snapshot(now time.Time) StateSnapshot {
	return e.state.Snapshot(now)
}

// PersonalitySnapshot renders the active profile.
func (e *Engine) PersonalitySnapshot() ProfileSnapshot {
	return e.personality.Snapshot()
}

// RandomnessSnapshot renders the randomness engine state.
func (e *Engine) RandomnessSnapshot() DebugSnapshot {
	return e.randomizer.DebugSnapshot()
}

// RecentContext renders the last lines of conversation for prompts.
func (e *Engine) RecentContext(limit int) string {
	return e.memory.RecentContext(limit)
}

// History returns the remembered conversation, oldest first.
func (e *Engine) History() []Utterance {
	return e.memory.History()
}

// TopTopics returns the most frequent topic tokens seen so far.
func (e *Engine) TopTopics(n int) []string {
	return e.memory.TopTopics(n)
}
