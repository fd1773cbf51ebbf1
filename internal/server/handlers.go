package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stillpoint/breathbox/internal/breath"
	"github.com/stillpoint/breathbox/internal/prefs"
)

// allowedDurations are the session lengths the frontend offers.
var allowedDurations = map[int]bool{5: true, 10: true, 15: true}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "breathbox",
	})
}

// handleGetSession returns the current session snapshot.
func (s *Server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Snapshot())
}

type startSessionRequest struct {
	DurationMinutes int `json:"durationMinutes"`
}

// handleStartSession starts a session. Starting while one is already running
// is a no-op and returns the running session's snapshot.
func (s *Server) handleStartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !allowedDurations[req.DurationMinutes] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "durationMinutes must be 5, 10, or 15",
		})
		return
	}

	if err := s.engine.Start(req.DurationMinutes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.engine.Snapshot())
}

// handleStopSession stops the current session. Stopping an idle engine is
// harmless.
func (s *Server) handleStopSession(c *gin.Context) {
	s.engine.Stop()
	c.JSON(http.StatusOK, s.engine.Snapshot())
}

// handleGetStats returns the persisted aggregate statistics.
func (s *Server) handleGetStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.stats.Load())
}

// handleGetPreferences returns all preference values.
func (s *Server) handleGetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, s.prefs.Snapshot())
}

type updatePreferencesRequest struct {
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
	Muted    *bool   `json:"muted"`
	Guided   *bool   `json:"guided"`
}

// handleUpdatePreferences applies a partial preference update. Each provided
// field is validated and persisted; omitted fields are untouched.
func (s *Server) handleUpdatePreferences(c *gin.Context) {
	var req updatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Theme != nil {
		if err := s.prefs.SetTheme(prefs.Theme(*req.Theme)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Language != nil {
		if err := s.prefs.SetLanguage(*req.Language); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Muted != nil {
		if err := s.prefs.SetMuted(*req.Muted); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist preference"})
			return
		}
	}
	if req.Guided != nil {
		if err := s.prefs.SetGuided(*req.Guided); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist preference"})
			return
		}
	}

	c.JSON(http.StatusOK, s.prefs.Snapshot())
}

// handleCue returns MP3 cue audio for a phase. Guided mode and language
// follow the persisted preferences at request time.
func (s *Server) handleCue(c *gin.Context) {
	phase, err := breath.ParsePhase(c.Param("phase"))
	if err != nil || phase == breath.PhaseIdle {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown phase"})
		return
	}

	blob, err := s.cues.MP3(c.Request.Context(), phase, s.prefs.Guided(), s.prefs.Language())
	if err != nil {
		// Audio failures degrade to silence, never to a user-visible error.
		s.logger.Debug("failed to render cue audio", "phase", phase, "error", err)
		c.Status(http.StatusNoContent)
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", blob)
}
