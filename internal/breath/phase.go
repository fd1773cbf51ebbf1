// Package breath implements the box-breathing timing core: the phase
// sequencer and the session engine driving it.
package breath

import "fmt"

// Phase is one point in the breathing cycle. Idle is the initial and reset
// state; once a session starts the sequencer loops through the other four
// phases indefinitely.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseInhale  Phase = "inhale"
	PhaseHoldIn  Phase = "hold-in"
	PhaseExhale  Phase = "exhale"
	PhaseHoldOut Phase = "hold-out"
)

// Next returns the phase following p. Idle enters the cycle at Inhale and is
// never re-entered by cycling; unknown values default to Inhale.
func (p Phase) Next() Phase {
	switch p {
	case PhaseIdle:
		return PhaseInhale
	case PhaseInhale:
		return PhaseHoldIn
	case PhaseHoldIn:
		return PhaseExhale
	case PhaseExhale:
		return PhaseHoldOut
	case PhaseHoldOut:
		return PhaseInhale
	default:
		return PhaseInhale
	}
}

// ParsePhase converts a wire name into a Phase.
func ParsePhase(s string) (Phase, error) {
	switch Phase(s) {
	case PhaseIdle, PhaseInhale, PhaseHoldIn, PhaseExhale, PhaseHoldOut:
		return Phase(s), nil
	default:
		return PhaseIdle, fmt.Errorf("unknown phase %q", s)
	}
}

// spokenLabels holds the guided-mode phrase for each phase per language.
var spokenLabels = map[string]map[Phase]string{
	"en": {
		PhaseInhale:  "Breathe in",
		PhaseHoldIn:  "Hold",
		PhaseExhale:  "Breathe out",
		PhaseHoldOut: "Hold",
	},
	"es": {
		PhaseInhale:  "Inhala",
		PhaseHoldIn:  "Sostén",
		PhaseExhale:  "Exhala",
		PhaseHoldOut: "Sostén",
	},
}

// Label returns the spoken label for p in the given language. Unknown
// languages fall back to English; Idle has no label.
func (p Phase) Label(lang string) string {
	labels, ok := spokenLabels[lang]
	if !ok {
		labels = spokenLabels["en"]
	}
	return labels[p]
}
