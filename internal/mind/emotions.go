package mind

import (
	"math"
	"time"
)

// emotionAnchor places a discrete emotion in valence/arousal space.
type emotionAnchor struct {
	emotion Emotion
	valence float64
	arousal float64
}

// emotionAnchors is ordered; Classify breaks distance ties by table order.
var emotionAnchors = []emotionAnchor{
	{EmotionNeutral, 0.0, 0.2},
	{EmotionJoy, 0.7, 0.6},
	{EmotionSadness, -0.7, 0.3},
	{EmotionAnger, -0.6, 0.8},
	{EmotionFear, -0.8, 0.7},
	{EmotionSurprise, 0.2, 0.9},
	{EmotionDisgust, -0.6, 0.5},
	{EmotionCuriosity, 0.2, 0.5},
	{EmotionAffection, 0.6, 0.4},
}

// AnchorFor returns the anchor coordinates of a discrete emotion.
func AnchorFor(e Emotion) (valence, arousal float64, ok bool) {
	for _, a := range emotionAnchors {
		if a.emotion == e {
			return a.valence, a.arousal, true
		}
	}
	return 0, 0, false
}

// DecayConfig controls how fast affect relaxes toward baseline and how long a
// discrete emotion must hold before a regular switch.
type DecayConfig struct {
	ValenceHalfLife    time.Duration `json:"valence_half_life"`
	ArousalHalfLife    time.Duration `json:"arousal_half_life"`
	MinEmotionDuration time.Duration `json:"min_emotion_duration"`
}

// DefaultDecayConfig returns the stock decay parameters.
func DefaultDecayConfig() DecayConfig {
	return DecayConfig{
		ValenceHalfLife:    15 * time.Minute,
		ArousalHalfLife:    10 * time.Minute,
		MinEmotionDuration: 45 * time.Second,
	}
}

// AffectState is the continuous affect of the bot plus its discrete label.
// Valence is -1..1, arousal 0..1. All mutation goes through the methods below;
// the engine owns the instance and serializes access.
type AffectState struct {
	Valence float64
	Arousal float64
	Current Emotion

	BaselineValence float64
	BaselineArousal float64

	LastSwitch time.Time
}

// NewAffectState returns a calm neutral state anchored at the default
// baseline.
func NewAffectState(now time.Time) *AffectState {
	return &AffectState{
		Valence:         0.0,
		Arousal:         0.2,
		Current:         EmotionNeutral,
		BaselineValence: 0.0,
		BaselineArousal: 0.2,
		LastSwitch:      now,
	}
}

// SetBaselines moves the resting point the state decays toward.
func (s *AffectState) SetBaselines(valence, arousal float64) {
	s.BaselineValence = clamp(valence, -1, 1)
	s.BaselineArousal = clamp01(arousal)
}

// DecayTowardBaseline relaxes both axes toward baseline with exponential
// half-life decay. A non-positive half-life freezes that axis; a non-positive
// dt is a no-op.
func (s *AffectState) DecayTowardBaseline(dt time.Duration, cfg DecayConfig) {
	if dt <= 0 {
		return
	}
	sec := dt.Seconds()
	if h := cfg.ValenceHalfLife.Seconds(); h > 0 {
		f := math.Exp(-math.Ln2 / h * sec)
		s.Valence = s.BaselineValence + (s.Valence-s.BaselineValence)*f
	}
	if h := cfg.ArousalHalfLife.Seconds(); h > 0 {
		f := math.Exp(-math.Ln2 / h * sec)
		s.Arousal = s.BaselineArousal + (s.Arousal-s.BaselineArousal)*f
	}
}

// ApplyDelta blends a stimulus into the state. Inertia is the weight of the
// old value: 1 ignores the stimulus, 0 ignores history.
func (s *AffectState) ApplyDelta(dv, da, inertia float64) {
	s.Valence = clamp(s.Valence*inertia+dv*(1-inertia), -1, 1)
	s.Arousal = clamp01(s.Arousal*inertia + da*(1-inertia))
}

// Classify returns the discrete emotion whose anchor is nearest to the current
// affect point. Ties go to the earlier anchor.
func (s *AffectState) Classify() Emotion {
	best := emotionAnchors[0].emotion
	bestDist := math.Inf(1)
	for _, a := range emotionAnchors {
		dv := s.Valence - a.valence
		da := s.Arousal - a.arousal
		d := dv*dv + da*da
		if d < bestDist {
			bestDist = d
			best = a.emotion
		}
	}
	return best
}

// MaybeSwitch re-labels the state when the nearest anchor changed and the
// current label has held for at least minDuration. A forced switch skips the
// dwell check. Reports whether the label changed.
func (s *AffectState) MaybeSwitch(now time.Time, minDuration time.Duration, force bool) bool {
	candidate := s.Classify()
	if candidate == s.Current {
		return false
	}
	if !force && now.Sub(s.LastSwitch) < minDuration {
		return false
	}
	s.Current = candidate
	s.LastSwitch = now
	return true
}

// Snapshot renders the state for display and telemetry.
func (s *AffectState) Snapshot(now time.Time) StateSnapshot {
	return StateSnapshot{
		Valence: round3(s.Valence),
		Arousal: round3(s.Arousal),
		Emotion: s.Current,
		Since:   round1(now.Sub(s.LastSwitch).Seconds()),
	}
}
