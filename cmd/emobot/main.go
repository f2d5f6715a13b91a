// cmd/emobot/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dimitarbez/emotion-bot/internal/ai"
	"github.com/dimitarbez/emotion-bot/internal/config"
	"github.com/dimitarbez/emotion-bot/internal/mind"
	"github.com/dimitarbez/emotion-bot/internal/telemetry"
	v "github.com/dimitarbez/emotion-bot/internal/version"
)

const greeting = "EmoBot — emotionally-driven chatbot\nType ':state' to view state, ':quit' to exit.\n"

// session owns the one CLI engine and serializes access between the REPL
// loop and the telemetry server.
type session struct {
	mu     sync.Mutex
	engine *mind.Engine
}

func (s *session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.ConversationID()
}

func (s *session) Snapshot(now time.Time) mind.StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot(now)
}

func (s *session) PersonalitySnapshot() mind.ProfileSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.PersonalitySnapshot()
}

func (s *session) RandomnessSnapshot() mind.DebugSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.RandomnessSnapshot()
}

func (s *session) History() []mind.Utterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.History()
}

// sessionRegistry serves the single CLI conversation to telemetry.
type sessionRegistry struct {
	s *session
}

func (r sessionRegistry) Conversations() []string {
	return []string{r.s.ConversationID()}
}

func (r sessionRegistry) View(id string) (telemetry.EngineView, bool) {
	if id == r.s.ConversationID() {
		return r.s, true
	}
	return nil, false
}

func main() {
	log.Printf("[INFO] Starting %v %v (CLI)", v.AppName, v.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.New()

	var rng *rand.Rand
	if cfg.RandomSeed != 0 {
		rng = rand.New(rand.NewSource(cfg.RandomSeed))
	}
	s := &session{engine: mind.NewEngine(engineConfig(cfg), rng, time.Now())}
	provider := ai.NewProvider(cfg.AI, rng)

	if cfg.HTTPAddr != "" {
		go telemetry.NewServer(sessionRegistry{s: s}).Run(ctx, cfg.HTTPAddr)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	fmt.Print(greeting)
	repl(ctx, s, provider)
}

// repl reads lines on a background goroutine while a ticker keeps the
// emotional state decaying between messages.
func repl(ctx context.Context, s *session, provider ai.Provider) {
	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("you> ")
			if !sc.Scan() {
				close(lines)
				return
			}
			lines <- strings.TrimSpace(sc.Text())
		}
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nbot> take care!")
			return
		case line, ok := <-lines:
			if !ok {
				fmt.Println("\nbot> take care!")
				return
			}
			if isQuit(line) {
				fmt.Println("bot> take care!")
				return
			}
			handle(s, provider, line)
		case <-ticker.C:
			// Idle iterations still decay the state toward baseline.
			s.mu.Lock()
			s.engine.Tick(time.Now())
			s.mu.Unlock()
		}
	}
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case ":quit", ":q", "exit":
		return true
	}
	return false
}

func handle(s *session, provider ai.Provider, line string) {
	cmd := strings.ToLower(line)
	switch {
	case line == "":
	case cmd == ":state":
		snap := s.Snapshot(time.Now())
		fmt.Printf("bot> emotion=%s valence=%+.3f arousal=%.3f since=%.0fs\n",
			snap.Emotion, snap.Valence, snap.Arousal, snap.Since)
	case cmd == ":personality":
		printPersonality(s.PersonalitySnapshot())
	case strings.HasPrefix(cmd, ":personality"):
		switchTo(s, strings.TrimSpace(strings.TrimPrefix(cmd, ":personality")))
	case strings.HasPrefix(cmd, ":switch"):
		switchTo(s, strings.TrimSpace(strings.TrimPrefix(cmd, ":switch")))
	case cmd == ":reset":
		s.mu.Lock()
		s.engine.Reset(time.Now())
		s.mu.Unlock()
		fmt.Println("bot> clean slate.")
	case cmd == ":help":
		fmt.Println("bot> commands: :state, :personality, :switch <name>, :reset, :help, :quit")
		fmt.Println("     available personalities: " + personalityNames())
	default:
		converse(s, provider, line)
	}
}

// converse runs one full emotional turn and prints the styled reply after
// the engine's thinking delay.
func converse(s *session, provider ai.Provider, text string) {
	s.mu.Lock()
	s.engine.ProcessInput(time.Now(), text)
	req := ai.Request{
		UserText: text,
		Emotion:  s.engine.CurrentEmotion(),
		Context:  s.engine.RecentContext(6),
	}
	s.mu.Unlock()

	raw, err := provider.Generate(req)
	if err != nil {
		log.Printf("[ERR] reply generation failed: %v", err)
		fmt.Println("bot> I lost my train of thought. Try me again?")
		return
	}

	s.mu.Lock()
	styled, delay := s.engine.StyleReply(time.Now(), raw)
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	fmt.Println("bot>", styled)
}

func printPersonality(prof mind.ProfileSnapshot) {
	fmt.Printf("bot> personality: %s\n", prof.Type)
	printSorted("traits", prof.Traits)
	printSorted("modifiers", prof.Modifiers)
}

func printSorted(title string, m map[string]float64) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Printf("     %s:\n", title)
	for _, k := range keys {
		fmt.Printf("       %-22s %.3f\n", k, m[k])
	}
}

func switchTo(s *session, name string) {
	s.mu.Lock()
	ok := s.engine.SwitchPersonality(name)
	s.mu.Unlock()
	if !ok {
		fmt.Printf("bot> unknown personality %q. Available: %s\n", name, personalityNames())
		return
	}
	fmt.Printf("bot> switched to %s.\n", name)
}

func personalityNames() string {
	names := make([]string, len(mind.AllPersonalities))
	for i, p := range mind.AllPersonalities {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func engineConfig(cfg *config.Config) mind.EngineConfig {
	ec := mind.DefaultEngineConfig()
	ec.Randomness.Intensity = cfg.RandomnessIntensity
	if mind.KnownPersonality(cfg.Personality) {
		ec.Personality.DefaultType = mind.PersonalityType(cfg.Personality)
	}
	return ec
}
