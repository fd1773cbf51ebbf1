package cue

import (
	"context"
	"log/slog"

	"github.com/stillpoint/breathbox/internal/breath"
)

// Source renders cue audio as MP3 for the browser. Speech synthesis failures
// degrade to the plain tone rather than surfacing an error.
type Source struct {
	logger     *slog.Logger
	speech     Synthesizer
	tone       []int16
	sampleRate int
}

// NewSource creates a Source. speech may be nil; guided requests then fall
// back to the tone.
func NewSource(speech Synthesizer, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := ToneConfig{}.WithDefaults()
	return &Source{
		logger:     logger,
		speech:     speech,
		tone:       Tone(cfg),
		sampleRate: cfg.SampleRate,
	}
}

// MP3 returns the cue audio for a phase transition.
func (s *Source) MP3(ctx context.Context, phase breath.Phase, guided bool, lang string) ([]byte, error) {
	samples := s.tone
	if guided && s.speech != nil {
		spoken, err := s.speech.Synthesize(ctx, phase.Label(lang))
		if err != nil {
			s.logger.Debug("speech synthesis failed, falling back to tone", "phase", phase, "error", err)
		} else {
			samples = spoken
		}
	}

	return EncodeMP3(samples, s.sampleRate)
}
