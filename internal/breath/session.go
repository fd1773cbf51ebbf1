package breath

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stillpoint/breathbox/pkg/channels"
)

// Default timing for box breathing: four seconds per phase, one-second ticks,
// and a short delay before the first transition so Idle renders briefly.
const (
	DefaultPhaseDuration = 4 * time.Second
	DefaultTickInterval  = time.Second
	DefaultInitialDelay  = 100 * time.Millisecond
)

// Options contains runtime timing options for the Engine. Zero fields take
// the defaults above; tests shrink them to run fast.
type Options struct {
	PhaseDuration time.Duration
	TickInterval  time.Duration
	InitialDelay  time.Duration
}

func (o Options) withDefaults() Options {
	if o.PhaseDuration <= 0 {
		o.PhaseDuration = DefaultPhaseDuration
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.InitialDelay <= 0 {
		o.InitialDelay = DefaultInitialDelay
	}
	return o
}

// phaseSeconds is the countdown start value shown for each phase.
func (o Options) phaseSeconds() int {
	s := int(o.PhaseDuration / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}

// Snapshot is a point-in-time view of session state for the presentation
// layer.
type Snapshot struct {
	Running          bool  `json:"running"`
	Phase            Phase `json:"phase"`
	DurationSeconds  int   `json:"durationSeconds"`
	ElapsedSeconds   int   `json:"elapsedSeconds"`
	RemainingSeconds int   `json:"remainingSeconds"`
	PhaseCountdown   int   `json:"phaseCountdown"`
	CycleCount       int   `json:"cycleCount"`
}

// PhaseHook is invoked on every phase transition while a session runs. It
// must not block; the cue player dispatches its own goroutine.
type PhaseHook func(phase Phase)

// CommitFunc receives the completed cycle count when a session with nonzero
// elapsed time ends.
type CommitFunc func(cycles int)

// Engine owns the session lifecycle. All state is guarded by a single mutex;
// the run loop goroutine drives phase advances and one-second ticks, and
// every handler re-checks the running flag and its loop's stop channel under
// the mutex so nothing fires into a stopped or restarted session.
//
// The phase timer is scheduled independently (initial delay, then a fixed
// cadence). Elapsed time and the phase countdown both derive from one shared
// ticker, so the two per-second counters cannot drift apart over a long
// session.
type Engine struct {
	mu     sync.Mutex
	opts   Options
	logger *slog.Logger

	running         bool
	phase           Phase
	durationSeconds int
	elapsedSeconds  int
	cycleCount      int
	phaseCountdown  int

	stopCh      chan struct{}
	subscribers []chan Event
	onPhase     PhaseHook
	onEnd       CommitFunc
}

// NewEngine creates an Engine with the provided timing options.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	return &Engine{
		opts:           opts,
		logger:         logger,
		phase:          PhaseIdle,
		phaseCountdown: opts.phaseSeconds(),
	}
}

// OnPhaseChange registers the hook fired on each phase transition.
// Must be called before Start.
func (e *Engine) OnPhaseChange(hook PhaseHook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onPhase = hook
}

// OnSessionEnd registers the stats commit hook. It runs exactly once per
// ended session with nonzero elapsed time. Must be called before Start.
func (e *Engine) OnSessionEnd(fn CommitFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEnd = fn
}

// Subscribe registers an observer channel and returns it with an
// unsubscribe function. Events are delivered non-blocking; slow observers
// drop events rather than stalling the loop. Unsubscribing closes the
// channel, so observers can range over it until it drains.
func (e *Engine) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	e.mu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.mu.Unlock()

	unsubscribe := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, sub := range e.subscribers {
			if sub == ch {
				e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, unsubscribe
}

// Start begins a session of the given length. Starting while a session is
// already running is a no-op, not an error.
func (e *Engine) Start(durationMinutes int) error {
	if durationMinutes <= 0 {
		return fmt.Errorf("session duration must be positive, got %d minutes", durationMinutes)
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		e.logger.Debug("start ignored, session already running")
		return nil
	}
	e.running = true
	e.durationSeconds = durationMinutes * 60
	e.elapsedSeconds = 0
	e.cycleCount = 0
	e.phase = PhaseIdle
	e.phaseCountdown = e.opts.phaseSeconds()
	stopCh := make(chan struct{})
	e.stopCh = stopCh
	event := e.eventLocked(EventSessionStarted)
	e.mu.Unlock()

	e.logger.Info("session started", "durationMinutes", durationMinutes)
	e.emit(event)

	go e.run(stopCh)
	return nil
}

// Stop ends the current session. It is idempotent: a second call is a no-op
// and Stats are never committed twice. When Stop returns, no trigger can
// mutate session state anymore.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopCh)
	e.stopCh = nil

	elapsed := e.elapsedSeconds
	cycles := e.cycleCount
	commit := e.onEnd

	e.phase = PhaseIdle
	e.durationSeconds = 0
	e.elapsedSeconds = 0
	e.cycleCount = 0
	e.phaseCountdown = e.opts.phaseSeconds()
	e.mu.Unlock()

	e.logger.Info("session stopped", "elapsedSeconds", elapsed, "cycles", cycles)
	e.emit(Event{
		Type:           EventSessionStopped,
		Phase:          PhaseIdle,
		ElapsedSeconds: elapsed,
		CycleCount:     cycles,
		At:             time.Now(),
	})

	if elapsed > 0 && commit != nil {
		commit(cycles)
	}
}

// Snapshot returns the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Running:          e.running,
		Phase:            e.phase,
		DurationSeconds:  e.durationSeconds,
		ElapsedSeconds:   e.elapsedSeconds,
		RemainingSeconds: e.remainingLocked(),
		PhaseCountdown:   e.phaseCountdown,
		CycleCount:       e.cycleCount,
	}
}

// Running reports whether a session is in progress.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// PhaseSeconds returns the configured countdown length per phase.
func (e *Engine) PhaseSeconds() int {
	return e.opts.phaseSeconds()
}

func (e *Engine) run(stopCh chan struct{}) {
	phaseTimer := time.NewTimer(e.opts.InitialDelay)
	defer phaseTimer.Stop()
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-phaseTimer.C:
			e.advancePhase(stopCh)
			phaseTimer.Reset(e.opts.PhaseDuration)
		case <-ticker.C:
			e.tick(stopCh)
		}
	}
}

// advancePhase moves the sequencer one step and fires the cue hook. The
// cycle count increments exactly on the HoldOut to Inhale step. stopCh
// identifies the run loop that fired the trigger; a trigger drained from a
// previous session's loop after a restart is discarded.
func (e *Engine) advancePhase(stopCh chan struct{}) {
	e.mu.Lock()
	if !e.running || e.stopCh != stopCh {
		e.mu.Unlock()
		return
	}
	if e.phase == PhaseHoldOut {
		e.cycleCount++
	}
	e.phase = e.phase.Next()
	e.phaseCountdown = e.opts.phaseSeconds()
	hook := e.onPhase
	phase := e.phase
	event := e.eventLocked(EventPhaseChange)
	e.mu.Unlock()

	e.emit(event)
	if hook != nil {
		hook(phase)
	}
}

// tick advances elapsed time and the phase countdown from the shared ticker.
// The auto-stop check runs after elapsed time is updated within the same
// tick. Like advancePhase, it discards triggers from a loop that is no
// longer the current session's.
func (e *Engine) tick(stopCh chan struct{}) {
	e.mu.Lock()
	if !e.running || e.stopCh != stopCh {
		e.mu.Unlock()
		return
	}
	e.elapsedSeconds++
	if e.phaseCountdown <= 1 {
		e.phaseCountdown = e.opts.phaseSeconds()
	} else {
		e.phaseCountdown--
	}
	autoStop := e.elapsedSeconds >= e.durationSeconds
	event := e.eventLocked(EventTick)
	e.mu.Unlock()

	e.emit(event)
	if autoStop {
		e.Stop()
	}
}

func (e *Engine) remainingLocked() int {
	remaining := e.durationSeconds - e.elapsedSeconds
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (e *Engine) eventLocked(kind EventType) Event {
	return Event{
		Type:             kind,
		Phase:            e.phase,
		PhaseCountdown:   e.phaseCountdown,
		ElapsedSeconds:   e.elapsedSeconds,
		RemainingSeconds: e.remainingLocked(),
		CycleCount:       e.cycleCount,
		At:               time.Now(),
	}
}

// emit delivers the event to all subscribers. Sends are non-blocking and
// happen under the mutex so unsubscribe can close its channel without racing
// a send.
func (e *Engine) emit(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.subscribers {
		// Dropped events are acceptable; snapshots carry full state.
		_ = channels.SendNonBlock(ch, event)
	}
}
