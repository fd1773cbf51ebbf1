package breath

import "time"

// EventType defines the type of session event.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventPhaseChange    EventType = "phase_change"
	EventTick           EventType = "tick"
	EventSessionStopped EventType = "session_stopped"
)

// Event represents an engine update for observers.
type Event struct {
	Type             EventType `json:"type"`
	Phase            Phase     `json:"phase"`
	PhaseCountdown   int       `json:"phaseCountdown"`
	ElapsedSeconds   int       `json:"elapsedSeconds"`
	RemainingSeconds int       `json:"remainingSeconds"`
	CycleCount       int       `json:"cycleCount"`
	At               time.Time `json:"at"`
}
