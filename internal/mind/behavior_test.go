package mind

import (
	"strings"
	"testing"
	"time"
)

func TestStyleForUnknownEmotion(t *testing.T) {
	if StyleFor(Emotion("confusion")) != stylePresets[EmotionNeutral] {
		t.Fatal("unknown emotion did not fall back to neutral preset")
	}
}

func TestStyleMapRoundTrip(t *testing.T) {
	s := StyleFor(EmotionAffection)
	if got := StyleFromMap(s.AsMap()); got != s {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, s)
	}
	for _, k := range styleKeys {
		if _, ok := s.AsMap()[k]; !ok {
			t.Fatalf("style map missing key %s", k)
		}
	}
}

func TestShapeTruncatesWithoutEllipsisForNeutral(t *testing.T) {
	cfg := BehaviorConfig{BaseMaxTokens: 5, EmojiBaseline: 0}
	in := "one two three four five six seven eight nine ten"

	// Neutral at arousal 0.5: budget 5 words, punctuation 0.4 keeps the cut
	// bare.
	out, delay := Shape(testRng(1), testNow, in, EmotionNeutral, 0.5, cfg, ShapeOptions{})
	if out != "one two three four five" {
		t.Fatalf("out = %q", out)
	}
	if delay != 0 {
		t.Fatalf("delay = %v without randomizer", delay)
	}
}

func TestShapeTruncatesWithEllipsisForJoy(t *testing.T) {
	cfg := BehaviorConfig{BaseMaxTokens: 5, EmojiBaseline: 0}
	in := "one two three four five six seven eight nine ten"

	// Joy at arousal 0: budget int(5*1.2*0.8) = 4 words, punctuation 0.8
	// appends the ellipsis.
	out, _ := Shape(testRng(1), testNow, in, EmotionJoy, 0, cfg, ShapeOptions{})
	if !strings.Contains(out, "one two three four") {
		t.Fatalf("out = %q", out)
	}
	if !strings.HasSuffix(out, "…") {
		t.Fatalf("no ellipsis: %q", out)
	}
}

func TestShapeTerminalExclamation(t *testing.T) {
	cfg := BehaviorConfig{BaseMaxTokens: 140, EmojiBaseline: 0}

	out, _ := Shape(testRng(2), testNow, "stay calm", EmotionAnger, 0.5, cfg, ShapeOptions{})
	if !strings.HasSuffix(out, "!") {
		t.Fatalf("anger reply missing exclamation: %q", out)
	}
	if strings.HasSuffix(out, "!!") {
		t.Fatalf("flat playfulness produced a double mark: %q", out)
	}

	out, _ = Shape(testRng(2), testNow, "already done.", EmotionAnger, 0.5, cfg, ShapeOptions{})
	if !strings.HasSuffix(out, ".") {
		t.Fatalf("existing terminal punctuation replaced: %q", out)
	}
}

func TestShapeDoubleMarkWhenPlayfulnessBoosted(t *testing.T) {
	cfg := BehaviorConfig{BaseMaxTokens: 140, EmojiBaseline: 0}
	// Enthusiast playfulness multiplier lifts joy's 0.7 preset above 1.
	p := NewPersonality(PersonalityEnthusiast, testRng(3))

	sawDouble := false
	for i := 0; i < 100 && !sawDouble; i++ {
		out, _ := Shape(testRng(int64(i)), testNow, "great news all around", EmotionJoy, 0.9, cfg, ShapeOptions{Personality: p})
		if strings.HasSuffix(out, "!!") {
			sawDouble = true
		}
	}
	if !sawDouble {
		t.Fatal("boosted playfulness never produced a double mark")
	}
}

func TestShapeWhitespaceCollapse(t *testing.T) {
	cfg := BehaviorConfig{BaseMaxTokens: 140, EmojiBaseline: 0}
	out, _ := Shape(testRng(4), testNow, "  spaced    out\treply  ", EmotionNeutral, 0.2, cfg, ShapeOptions{})
	if strings.Contains(out, "  ") || strings.Contains(out, "\t") {
		t.Fatalf("whitespace not collapsed: %q", out)
	}
	if strings.HasPrefix(out, " ") || strings.HasSuffix(out, " ") {
		t.Fatalf("not trimmed: %q", out)
	}
}

func TestShapePersonalityVerbosityRaisesBudget(t *testing.T) {
	cfg := BehaviorConfig{BaseMaxTokens: 10, EmojiBaseline: 0}
	in := strings.Repeat("word ", 12)

	// Balanced multiplier 1.0: budget int(10*1*1) = 10 at arousal 0.5,
	// so twelve words get cut.
	balanced := NewPersonality(PersonalityBalanced, testRng(5))
	out, _ := Shape(testRng(5), testNow, in, EmotionNeutral, 0.5, cfg, ShapeOptions{Personality: balanced})
	if got := len(strings.Fields(out)); got != 10 {
		t.Fatalf("balanced kept %d words", got)
	}

	// Enthusiast multiplier 1.32 lifts the budget past the input length.
	enthusiast := NewPersonality(PersonalityEnthusiast, testRng(5))
	out, _ = Shape(testRng(5), testNow, in, EmotionNeutral, 0.5, cfg, ShapeOptions{Personality: enthusiast})
	if got := len(strings.Fields(out)); got != 12 {
		t.Fatalf("enthusiast kept %d words", got)
	}
}

func TestShapeFlavorPrependSometimes(t *testing.T) {
	cfg := BehaviorConfig{BaseMaxTokens: 140, EmojiBaseline: 0}

	with, without := 0, 0
	for i := 0; i < 200; i++ {
		out, _ := Shape(testRng(int64(i)), testNow, "plain reply", EmotionNeutral, 0.2, cfg, ShapeOptions{Flavor: "Interesting!"})
		if strings.HasPrefix(out, "Interesting! ") {
			with++
		} else {
			without++
		}
	}
	if with == 0 || without == 0 {
		t.Fatalf("flavor prepend not probabilistic: with=%d without=%d", with, without)
	}
}

func TestShapeEmojiFromEmotionPool(t *testing.T) {
	cfg := BehaviorConfig{BaseMaxTokens: 140, EmojiBaseline: 1.0}

	sawEmoji := false
	for i := 0; i < 200 && !sawEmoji; i++ {
		out, _ := Shape(testRng(int64(i)), testNow, "pure delight", EmotionJoy, 1.0, cfg, ShapeOptions{})
		for _, e := range emojiPools[EmotionJoy] {
			if strings.Contains(out, e) {
				sawEmoji = true
			}
		}
		for _, e := range emojiPools[EmotionAnger] {
			if strings.Contains(out, e) {
				t.Fatalf("emoji from wrong pool: %q", out)
			}
		}
	}
	if !sawEmoji {
		t.Fatal("joy emoji never appeared at maximum probability")
	}
}

func TestShapeWithRandomizerReturnsDelay(t *testing.T) {
	cfg := DefaultBehaviorConfig()
	rcfg := alwaysConfig()
	rcfg.MinDelay = time.Second
	rcfg.MaxDelay = time.Second
	rnd := NewRandomizer(rcfg, testRng(6))

	_, delay := Shape(testRng(6), testNow, "tell me everything about it", EmotionJoy, 0.5, cfg, ShapeOptions{Randomizer: rnd})
	if delay <= 0 {
		t.Fatalf("delay = %v", delay)
	}
}

func TestShapeReproducibleWithSeed(t *testing.T) {
	cfg := DefaultBehaviorConfig()
	run := func() (string, time.Duration) {
		p := NewPersonality(PersonalityCreative, testRng(77))
		rnd := NewRandomizer(alwaysConfig(), testRng(78))
		return Shape(testRng(79), testNow, "an identical reply every single time", EmotionSurprise, 0.6, cfg, ShapeOptions{
			Personality: p,
			Flavor:      "Plot twist!",
			Randomizer:  rnd,
			UserInput:   "identical input",
		})
	}
	t1, d1 := run()
	t2, d2 := run()
	if t1 != t2 || d1 != d2 {
		t.Fatalf("shape not reproducible:\n%q %v\n%q %v", t1, d1, t2, d2)
	}
}
