package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dimitarbez/emotion-bot/internal/mind"
)

func TestSamplerRecordsBoundedTrail(t *testing.T) {
	e := newTestEngine()
	reg := stubRegistry{engines: map[string]*mind.Engine{e.ConversationID(): e}}
	s := NewSampler(reg, time.Second, 3)

	for i := 0; i < 5; i++ {
		s.sample(testNow.Add(time.Duration(i) * time.Second))
	}

	trail := s.Trail(e.ConversationID())
	if len(trail) != 3 {
		t.Fatalf("trail length = %d", len(trail))
	}
	// Oldest points fall off once the cap is reached.
	if !trail[0].T.Equal(testNow.Add(2 * time.Second)) {
		t.Fatalf("first point at %v", trail[0].T)
	}
	last := trail[len(trail)-1]
	if last.Emotion != mind.EmotionNeutral || last.Arousal != 0.3 || last.Valence != 0 {
		t.Fatalf("point = %+v", last)
	}
}

func TestSamplerDropsVanishedConversations(t *testing.T) {
	e := newTestEngine()
	engines := map[string]*mind.Engine{e.ConversationID(): e}
	s := NewSampler(stubRegistry{engines: engines}, time.Second, 10)

	s.sample(testNow)
	if len(s.Trail(e.ConversationID())) != 1 {
		t.Fatal("no point recorded")
	}

	delete(engines, e.ConversationID())
	s.sample(testNow.Add(time.Second))
	if len(s.Trail(e.ConversationID())) != 0 {
		t.Fatal("vanished conversation kept its trail")
	}
}

func TestSamplerStartStop(t *testing.T) {
	e := newTestEngine()
	reg := stubRegistry{engines: map[string]*mind.Engine{e.ConversationID(): e}}
	s := NewSampler(reg, 5*time.Millisecond, 100)
	id := e.ConversationID()

	s.Start()
	s.Start() // second call is a no-op
	if !s.jobs.Running(samplerJob) {
		t.Fatal("sampler job not running")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(s.Trail(id)) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if len(s.Trail(id)) == 0 {
		t.Fatal("sampler never recorded a point")
	}

	s.Stop()
	for time.Now().Before(deadline) && s.jobs.Running(samplerJob) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.jobs.Running(samplerJob) {
		t.Fatal("sampler job survived stop")
	}
}

func TestTrajectoryEndpoint(t *testing.T) {
	e := newTestEngine()
	srv := NewServer(stubRegistry{engines: map[string]*mind.Engine{e.ConversationID(): e}})
	srv.sampler.sample(testNow)
	srv.sampler.sample(testNow.Add(time.Second))
	router := srv.Router()

	w := get(t, router, "/trajectory")
	var resp struct {
		Trajectory []TrajectoryPoint `json:"trajectory"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Trajectory) != 2 {
		t.Fatalf("trajectory = %+v", resp.Trajectory)
	}
	if resp.Trajectory[0].Emotion != mind.EmotionNeutral {
		t.Fatalf("point = %+v", resp.Trajectory[0])
	}
}
