package prefs

import (
	"log/slog"

	"github.com/stillpoint/breathbox/pkg/uictl"
)

// flagKnob adapts a persisted boolean preference to the uictl.Knob interface.
// Persistence failures are logged and the toggle keeps its previous value.
type flagKnob struct {
	name string
	read func() bool
	set  func(bool) error
}

func (k flagKnob) Read() bool { return k.read() }

func (k flagKnob) On()     { k.write(true) }
func (k flagKnob) Off()    { k.write(false) }
func (k flagKnob) Toggle() { k.write(!k.read()) }

func (k flagKnob) write(value bool) {
	if err := k.set(value); err != nil {
		slog.Debug("failed to persist preference toggle", "preference", k.name, "error", err)
	}
}

// MutedKnob returns a toggle control backed by the mute preference.
func MutedKnob(s *Store) uictl.Knob {
	return flagKnob{name: keyMuted, read: s.Muted, set: s.SetMuted}
}

// GuidedKnob returns a toggle control backed by the guided-mode preference.
func GuidedKnob(s *Store) uictl.Knob {
	return flagKnob{name: keyGuided, read: s.Guided, set: s.SetGuided}
}
