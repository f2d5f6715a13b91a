package mind

import (
	"strings"
	"testing"
	"time"
)

func alwaysConfig() RandomnessConfig {
	cfg := DefaultRandomnessConfig()
	cfg.Intensity = 1.0
	cfg.StyleDriftProb = 1.0
	cfg.MoodSwingProb = 1.0
	cfg.MemoryQuirkProb = 1.0
	cfg.TopicTangentProb = 1.0
	cfg.ResponseDelayProb = 1.0
	cfg.TypoSlipProb = 1.0
	cfg.EnthusiasmBurstProb = 1.0
	cfg.DistractionProb = 1.0
	cfg.CallbackChance = 1.0
	return cfg
}

func TestZeroIntensityDisablesEverything(t *testing.T) {
	cfg := alwaysConfig()
	cfg.Intensity = 0
	r := NewRandomizer(cfg, testRng(1))

	for _, e := range []Effect{
		EffectStyleDrift, EffectMoodSwing, EffectMemoryQuirk, EffectTopicTangent,
		EffectResponseDelay, EffectTypoSlip, EffectEnthusiasmBurst, EffectDistraction,
	} {
		if r.ShouldApply(testNow, e) {
			t.Fatalf("%s applied at zero intensity", e)
		}
	}

	text, style, delay := r.ApplyAll(testNow, "hello", "a plain reply here", StyleFor(EmotionNeutral).AsMap(), EmotionNeutral, PersonalityBalanced)
	if text != "a plain reply here" {
		t.Fatalf("text changed: %q", text)
	}
	if delay != 0 {
		t.Fatalf("delay = %v", delay)
	}
	if style["warmth"] != 0.5 {
		t.Fatalf("style changed: %v", style["warmth"])
	}
}

func TestStyleDriftStaysBounded(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(42))
	style := StyleFor(EmotionJoy).AsMap()

	for i := 0; i < 500; i++ {
		style = r.ApplyStyleDrift(testNow, style)
		for k, v := range style {
			if v < 0.1 || v > 2.0 {
				t.Fatalf("step %d: %s drifted to %v", i, k, v)
			}
		}
		for k, d := range r.state.styleDrift {
			if d < -r.cfg.DriftMagnitude || d > r.cfg.DriftMagnitude {
				t.Fatalf("step %d: drift[%s] = %v outside magnitude", i, k, d)
			}
		}
	}
}

func TestStyleDriftDoesNotMutateInput(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(3))
	in := map[string]float64{"verbosity": 1.0, "warmth": 0.5}
	_ = r.ApplyStyleDrift(testNow, in)
	if in["verbosity"] != 1.0 || in["warmth"] != 0.5 {
		t.Fatalf("input map mutated: %v", in)
	}
}

func TestMoodSwingBoundsAndCooldownStamp(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(5))
	r.state.energyLevel = 1.0

	dv, da := r.MoodSwingDelta(testNow)
	if dv < -0.4 || dv > 0.4 {
		t.Fatalf("valence delta %v outside ±0.4", dv)
	}
	if da < -0.2 || da > 0.4 {
		t.Fatalf("arousal delta %v outside [-0.2, 0.4]", da)
	}
	if !r.state.lastMoodSwing.Equal(testNow) {
		t.Fatalf("swing timestamp not stamped: %v", r.state.lastMoodSwing)
	}
}

func TestTangentStampsCooldown(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(6))
	r.state.energyLevel = 1.0

	phrase := r.TopicTangent(testNow)
	if phrase == "" {
		t.Fatal("tangent did not fire at probability 1")
	}
	found := false
	for _, p := range tangentPhrases {
		if p == phrase {
			found = true
		}
	}
	if !found {
		t.Fatalf("unknown tangent %q", phrase)
	}
	if !r.state.lastTangent.Equal(testNow) {
		t.Fatal("tangent timestamp not stamped")
	}
}

func TestMemoryQuirkWithoutTopics(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(9))
	// With no tracked topics a callback draw must yield nothing, and the
	// other quirk kinds must come from their pools.
	for i := 0; i < 100; i++ {
		q := r.MemoryQuirk(testNow)
		if q == "" {
			continue
		}
		if strings.HasPrefix(q, "Oh, that reminds me") {
			t.Fatalf("callback quirk with empty topic list: %q", q)
		}
	}
}

func TestMemoryQuirkCallbackUsesTrackedTopic(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(11))
	r.UpdateState("telescopes reveal distant galaxies tonight", EmotionNeutral, PersonalityBalanced)

	sawCallback := false
	for i := 0; i < 200 && !sawCallback; i++ {
		q := r.MemoryQuirk(testNow)
		if strings.HasPrefix(q, "Oh, that reminds me of when we were talking about ") {
			sawCallback = true
			rest := strings.TrimPrefix(q, "Oh, that reminds me of when we were talking about ")
			topic := strings.TrimSuffix(rest, "...")
			switch topic {
			case "telescopes", "reveal", "distant":
				// tracked keywords, first three qualifying words
			default:
				t.Fatalf("callback topic %q not tracked", topic)
			}
		}
	}
	if !sawCallback {
		t.Fatal("callback never fired with topics present and callback chance 1")
	}
}

func TestTopicTrackingCapacity(t *testing.T) {
	r := NewRandomizer(DefaultRandomnessConfig(), testRng(2))
	inputs := []string{
		"alpha bravo charlie delta words",
		"echoes foxtrot golfing hotels",
		"indigo juliet kilos limas",
		"mikes november oscars papas",
	}
	for _, in := range inputs {
		r.UpdateState(in, EmotionNeutral, PersonalityBalanced)
	}

	if len(r.state.lastTopics) != 10 {
		t.Fatalf("topic list length %d, want 10", len(r.state.lastTopics))
	}
	// Oldest entries evicted first.
	if r.state.lastTopics[0] == "alpha" {
		t.Fatal("oldest topic not evicted")
	}
	for _, topic := range r.state.lastTopics {
		if topic != strings.ToLower(topic) || len(topic) <= 4 {
			t.Fatalf("bad topic %q", topic)
		}
	}
}

func TestTopicTrackingFilters(t *testing.T) {
	r := NewRandomizer(DefaultRandomnessConfig(), testRng(2))
	r.UpdateState("it's a big42 WONDERFUL day ok", EmotionNeutral, PersonalityBalanced)

	if len(r.state.lastTopics) != 1 || r.state.lastTopics[0] != "wonderful" {
		t.Fatalf("topics = %v, want [wonderful]", r.state.lastTopics)
	}
}

func TestEnergyTracksEmotionAndPersonality(t *testing.T) {
	r := NewRandomizer(DefaultRandomnessConfig(), testRng(13))
	for i := 0; i < 50; i++ {
		r.UpdateState("", EmotionJoy, PersonalityEnthusiast)
	}
	if r.state.energyLevel < 0.55 {
		t.Fatalf("energy %v did not rise toward 0.8 target", r.state.energyLevel)
	}

	for i := 0; i < 50; i++ {
		r.UpdateState("", EmotionSadness, PersonalityAnalyst)
	}
	if r.state.energyLevel > 0.45 {
		t.Fatalf("energy %v did not fall toward 0.3 target", r.state.energyLevel)
	}
}

func TestResponseDelayScalesWithEnergy(t *testing.T) {
	cfg := alwaysConfig()
	cfg.MinDelay = time.Second
	cfg.MaxDelay = time.Second
	r := NewRandomizer(cfg, testRng(17))

	r.state.energyLevel = 0.2
	slow := r.ResponseDelay(testNow)
	if slow != time.Second {
		t.Fatalf("delay at energy 0.2 = %v, want 1s", slow)
	}

	r.state.energyLevel = 1.0
	fast := r.ResponseDelay(testNow)
	if fast >= slow {
		t.Fatalf("high energy delay %v not below low energy %v", fast, slow)
	}
}

func TestTyposSkipShortText(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(19))
	if got := r.ApplyTypos(testNow, "too short"); got != "too short" {
		t.Fatalf("short text changed: %q", got)
	}
}

func TestTyposChangeAtMostBudget(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(23))
	in := "absolutely wonderful weather outside today"

	for i := 0; i < 100; i++ {
		out := r.ApplyTypos(testNow, in)
		inWords := strings.Fields(in)
		outWords := strings.Fields(out)
		if len(inWords) != len(outWords) {
			t.Fatalf("word count changed: %q", out)
		}
		diffs := 0
		for j := range inWords {
			if inWords[j] != outWords[j] {
				diffs++
			}
		}
		// Five words keep the typo budget at one.
		if diffs > 1 {
			t.Fatalf("%d words changed in %q", diffs, out)
		}
	}
}

func TestDistractionRefillsAttention(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(29))
	phrase := r.Distraction(testNow)
	if phrase == "" {
		t.Fatal("distraction did not fire at probability 1")
	}
	if r.state.attentionSpan < 3 || r.state.attentionSpan > 7 {
		t.Fatalf("attention span %d outside [3,7]", r.state.attentionSpan)
	}

	// While attention remains the gate dampens, never hardens to zero odds.
	before := r.state.attentionSpan
	r.UpdateState("", EmotionNeutral, PersonalityBalanced)
	if r.state.attentionSpan != before-1 {
		t.Fatalf("attention did not decay: %d", r.state.attentionSpan)
	}
}

func TestEnthusiasmBurstKeys(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(31))
	burst := r.EnthusiasmBurst(testNow)
	if burst == nil {
		t.Fatal("burst did not fire at probability 1")
	}
	for _, k := range []string{"playfulness", "punctuation", "emoji_prob", "verbosity"} {
		if burst[k] <= 1.0 {
			t.Fatalf("burst[%s] = %v, want > 1", k, burst[k])
		}
	}
	if burst["playfulness"] > 1.8 || burst["verbosity"] > 1.24+1e-9 {
		t.Fatalf("burst out of range: %v", burst)
	}
}

func TestApplyAllReproducible(t *testing.T) {
	run := func() (string, map[string]float64, time.Duration) {
		r := NewRandomizer(alwaysConfig(), testRng(99))
		r.UpdateState("galaxies and telescopes everywhere", EmotionJoy, PersonalityEnthusiast)
		return r.ApplyAll(testNow, "more galaxies please", "that is a truly wonderful idea my friend", StyleFor(EmotionJoy).AsMap(), EmotionJoy, PersonalityEnthusiast)
	}

	text1, style1, delay1 := run()
	text2, style2, delay2 := run()

	if text1 != text2 {
		t.Fatalf("texts differ:\n%q\n%q", text1, text2)
	}
	if delay1 != delay2 {
		t.Fatalf("delays differ: %v vs %v", delay1, delay2)
	}
	for k, v := range style1 {
		if style2[k] != v {
			t.Fatalf("style[%s] differs: %v vs %v", k, v, style2[k])
		}
	}
}

func TestApplyAllPrefixesBeforeTypos(t *testing.T) {
	cfg := DefaultRandomnessConfig()
	cfg.Intensity = 1.0
	cfg.StyleDriftProb = 0
	cfg.MoodSwingProb = 0
	cfg.MemoryQuirkProb = 0
	cfg.TopicTangentProb = 0
	cfg.ResponseDelayProb = 0
	cfg.TypoSlipProb = 0
	cfg.EnthusiasmBurstProb = 0
	cfg.DistractionProb = 1.0
	r := NewRandomizer(cfg, testRng(37))

	in := "a reply that should gain a prefix"
	text, _, delay := r.ApplyAll(testNow, "", in, StyleFor(EmotionNeutral).AsMap(), EmotionNeutral, PersonalityBalanced)

	if delay != 0 {
		t.Fatalf("delay = %v with delay effect off", delay)
	}
	if len(strings.Fields(text)) <= len(strings.Fields(in)) {
		t.Fatalf("no distraction prefix added: %q", text)
	}
	if !strings.HasSuffix(text, in) {
		t.Fatalf("original text not preserved at tail: %q", text)
	}
}

func TestResetClearsState(t *testing.T) {
	r := NewRandomizer(alwaysConfig(), testRng(41))
	r.UpdateState("wonderful galaxies tonight", EmotionJoy, PersonalityEnthusiast)
	r.Distraction(testNow)
	r.ApplyStyleDrift(testNow, StyleFor(EmotionJoy).AsMap())

	r.Reset()

	if r.state.turnCount != 0 || len(r.state.lastTopics) != 0 || len(r.state.styleDrift) != 0 {
		t.Fatalf("state not cleared: %+v", r.state)
	}
	if r.state.energyLevel != 0.5 || r.state.attentionSpan != 0 {
		t.Fatalf("defaults not restored: %+v", r.state)
	}
}

func TestDebugSnapshot(t *testing.T) {
	r := NewRandomizer(DefaultRandomnessConfig(), testRng(43))
	r.UpdateState("telescopes reveal distant shining galaxies", EmotionJoy, PersonalityEnthusiast)
	r.UpdateState("another wonderful evening walk", EmotionJoy, PersonalityEnthusiast)

	snap := r.DebugSnapshot()
	if snap.Config.Intensity != 0.3 {
		t.Fatalf("intensity = %v", snap.Config.Intensity)
	}
	if snap.State.TurnCount != 2 {
		t.Fatalf("turn count = %d", snap.State.TurnCount)
	}
	if len(snap.State.RecentTopics) != 3 {
		t.Fatalf("recent topics = %v", snap.State.RecentTopics)
	}
	if snap.State.EnergyLevel < 0 || snap.State.EnergyLevel > 1 {
		t.Fatalf("energy = %v", snap.State.EnergyLevel)
	}
}
