package telemetry

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dimitarbez/emotion-bot/internal/mind"
	"github.com/dimitarbez/emotion-bot/pkg/jobmgr"
)

const samplerJob = "affect-sampler"

// TrajectoryPoint is one timed reading of a conversation's affect.
type TrajectoryPoint struct {
	T       time.Time    `json:"t"`
	Valence float64      `json:"valence"`
	Arousal float64      `json:"arousal"`
	Emotion mind.Emotion `json:"emotion"`
}

// Sampler polls the registry on an interval and keeps a bounded affect
// trail per conversation, so dashboards can chart the emotional trajectory
// instead of a single point.
type Sampler struct {
	reg       Registry
	interval  time.Duration
	maxPoints int
	jobs      *jobmgr.Manager

	mu     sync.Mutex
	trails map[string][]TrajectoryPoint
}

// NewSampler builds a sampler; Start begins polling.
func NewSampler(reg Registry, interval time.Duration, maxPoints int) *Sampler {
	if interval <= 0 {
		interval = time.Second
	}
	if maxPoints <= 0 {
		maxPoints = 600
	}
	return &Sampler{
		reg:       reg,
		interval:  interval,
		maxPoints: maxPoints,
		jobs: jobmgr.NewManager(func(msg string) {
			log.Println("[TELEMETRY]", msg)
		}),
		trails: make(map[string][]TrajectoryPoint),
	}
}

// Start launches the sampling job. Starting twice is a no-op.
func (s *Sampler) Start() {
	if s.jobs.Running(samplerJob) {
		return
	}
	if err := s.jobs.Start(samplerJob, s.loop); err != nil {
		log.Printf("[WARN] sampler: %v", err)
	}
}

// Stop cancels the sampling job.
func (s *Sampler) Stop() {
	_ = s.jobs.Stop(samplerJob)
}

// JobsStatus summarizes the sampler's job table.
func (s *Sampler) JobsStatus() string {
	return s.jobs.Status()
}

func (s *Sampler) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.sample(now)
		}
	}
}

// sample appends one point per live conversation and drops the trails of
// conversations that are gone.
func (s *Sampler) sample(now time.Time) {
	ids := s.reg.Conversations()

	s.mu.Lock()
	defer s.mu.Unlock()
	live := make(map[string]bool, len(ids))
	for _, id := range ids {
		live[id] = true
		v, ok := s.reg.View(id)
		if !ok {
			continue
		}
		snap := v.Snapshot(now)
		trail := append(s.trails[id], TrajectoryPoint{
			T:       now,
			Valence: snap.Valence,
			Arousal: snap.Arousal,
			Emotion: snap.Emotion,
		})
		if len(trail) > s.maxPoints {
			trail = trail[len(trail)-s.maxPoints:]
		}
		s.trails[id] = trail
	}
	for id := range s.trails {
		if !live[id] {
			delete(s.trails, id)
		}
	}
}

// Trail returns a copy of one conversation's affect trail.
func (s *Sampler) Trail(id string) []TrajectoryPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	trail := s.trails[id]
	out := make([]TrajectoryPoint, len(trail))
	copy(out, trail)
	return out
}
