package cue

import (
	"context"
	"log/slog"
	"time"

	"github.com/stillpoint/breathbox/internal/breath"
)

// playTimeout bounds a single cue, synthesis included. In-flight audio is
// independent of the session; stopping a session never cancels it.
const playTimeout = 10 * time.Second

// Settings supplies the flags the player reads at the moment each cue fires,
// so toggling mute or guided mode mid-session takes effect on the next cue.
type Settings interface {
	Muted() bool
	Guided() bool
	Language() string
}

// Player turns phase transitions into audible cues. PhaseChanged never
// blocks: playback runs on its own goroutine and every failure is logged and
// dropped.
type Player struct {
	logger   *slog.Logger
	settings Settings
	speech   Synthesizer
	sink     Sink
	tone     []int16
}

// NewPlayer creates a Player. speech may be nil when guided mode has no
// synthesizer available; guided cues are then skipped.
func NewPlayer(settings Settings, speech Synthesizer, sink Sink, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger:   logger,
		settings: settings,
		speech:   speech,
		sink:     sink,
		tone:     Tone(ToneConfig{}.WithDefaults()),
	}
}

// PhaseChanged fires the cue for a phase transition.
func (p *Player) PhaseChanged(phase breath.Phase) {
	if phase == breath.PhaseIdle {
		return
	}
	if p.settings.Muted() {
		return
	}

	guided := p.settings.Guided()
	lang := p.settings.Language()

	go p.play(phase, guided, lang)
}

func (p *Player) play(phase breath.Phase, guided bool, lang string) {
	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	samples := p.tone
	if guided {
		if p.speech == nil {
			p.logger.Debug("guided mode without synthesizer, skipping cue", "phase", phase)
			return
		}
		spoken, err := p.speech.Synthesize(ctx, phase.Label(lang))
		if err != nil {
			p.logger.Debug("speech synthesis failed, skipping cue", "phase", phase, "error", err)
			return
		}
		samples = spoken
	}

	if p.sink == nil {
		return
	}
	if err := p.sink.Play(ctx, samples); err != nil {
		p.logger.Debug("cue playback failed", "phase", phase, "error", err)
	}
}
