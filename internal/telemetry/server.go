// Package telemetry serves a small read-only HTTP surface over the live
// emotional state, for dashboards and debugging during conversations.
package telemetry

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dimitarbez/emotion-bot/internal/mind"
	"github.com/dimitarbez/emotion-bot/internal/version"
)

// EngineView is the read side of one conversation engine.
type EngineView interface {
	ConversationID() string
	Snapshot(now time.Time) mind.StateSnapshot
	PersonalitySnapshot() mind.ProfileSnapshot
	RandomnessSnapshot() mind.DebugSnapshot
	History() []mind.Utterance
}

// Registry exposes the engines of a running front-end. Implementations must
// serialize engine access internally.
type Registry interface {
	Conversations() []string
	View(id string) (EngineView, bool)
}

// Server renders Registry state as JSON.
type Server struct {
	reg     Registry
	sampler *Sampler
}

// NewServer wraps a registry. The built-in sampler records affect trails
// while the server runs.
func NewServer(reg Registry) *Server {
	return &Server{
		reg:     reg,
		sampler: NewSampler(reg, time.Second, 600),
	}
}

// Router builds the gin handler tree.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"app":     version.AppName,
			"version": version.Version,
			"jobs":    s.sampler.JobsStatus(),
		})
	})
	r.GET("/conversations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"conversations": s.reg.Conversations()})
	})
	r.GET("/state", s.withView(func(c *gin.Context, v EngineView) {
		c.JSON(http.StatusOK, v.Snapshot(time.Now()))
	}))
	r.GET("/personality", s.withView(func(c *gin.Context, v EngineView) {
		c.JSON(http.StatusOK, v.PersonalitySnapshot())
	}))
	r.GET("/randomness", s.withView(func(c *gin.Context, v EngineView) {
		c.JSON(http.StatusOK, v.RandomnessSnapshot())
	}))
	r.GET("/history", s.withView(func(c *gin.Context, v EngineView) {
		c.JSON(http.StatusOK, gin.H{"history": v.History()})
	}))
	r.GET("/trajectory", func(c *gin.Context) {
		id, _, ok := s.resolve(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"trajectory": s.sampler.Trail(id)})
	})

	return r
}

// resolve turns the id query parameter into a conversation. With exactly
// one conversation running the parameter is optional.
func (s *Server) resolve(c *gin.Context) (string, EngineView, bool) {
	id := c.Query("id")
	if id == "" {
		ids := s.reg.Conversations()
		if len(ids) != 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id parameter required", "conversations": ids})
			return "", nil, false
		}
		id = ids[0]
	}
	v, ok := s.reg.View(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown conversation id"})
		return "", nil, false
	}
	return id, v, true
}

func (s *Server) withView(fn func(*gin.Context, EngineView)) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, v, ok := s.resolve(c)
		if !ok {
			return
		}
		fn(c, v)
	}
}

// Run serves until ctx is canceled. It blocks; run in a goroutine.
func (s *Server) Run(ctx context.Context, addr string) {
	srv := &http.Server{Addr: addr, Handler: s.Router()}

	s.sampler.Start()
	defer s.sampler.Stop()

	go func() {
		<-ctx.Done()
		log.Println("[TELEMETRY] Shutting down state server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	log.Printf("[TELEMETRY] State server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("[ERR] Telemetry server exited: %v", err)
	}
}
