package breath //nolint:testpackage // Drives unexported trigger handlers deterministically

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// manualOptions parks the run loop for an hour so tests can invoke the
// trigger handlers directly and deterministically.
func manualOptions() Options {
	return Options{
		PhaseDuration: 4 * time.Second,
		TickInterval:  time.Hour,
		InitialDelay:  time.Hour,
	}
}

// loopStop returns the stop channel identifying the current run loop, which
// the trigger handlers expect from their caller.
func loopStop(e *Engine) chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopCh
}

type commitRecorder struct {
	mu      sync.Mutex
	commits []int
}

func (r *commitRecorder) commit(cycles int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, cycles)
}

func (r *commitRecorder) all() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.commits...)
}

func TestEngine_AdvanceSequenceAndCycleCount(t *testing.T) {
	e := NewEngine(manualOptions(), testLogger())
	require.NoError(t, e.Start(5))
	defer e.Stop()

	want := []Phase{
		PhaseInhale, PhaseHoldIn, PhaseExhale, PhaseHoldOut,
		PhaseInhale, PhaseHoldIn, PhaseExhale, PhaseHoldOut,
		PhaseInhale,
	}
	for i, expected := range want {
		e.advancePhase(loopStop(e))
		snap := e.Snapshot()
		assert.Equal(t, expected, snap.Phase, "advance %d", i+1)
	}

	// Nine advances cross the HoldOut boundary exactly twice.
	assert.Equal(t, 2, e.Snapshot().CycleCount)
}

func TestEngine_StartWhileRunningIsNoOp(t *testing.T) {
	e := NewEngine(manualOptions(), testLogger())
	require.NoError(t, e.Start(5))
	defer e.Stop()

	e.advancePhase(loopStop(e))
	e.tick(loopStop(e))

	require.NoError(t, e.Start(10))

	snap := e.Snapshot()
	assert.Equal(t, 300, snap.DurationSeconds, "second start must not replace the running session")
	assert.Equal(t, 1, snap.ElapsedSeconds)
	assert.Equal(t, PhaseInhale, snap.Phase)
}

func TestEngine_StartRejectsNonPositiveDuration(t *testing.T) {
	e := NewEngine(manualOptions(), testLogger())

	assert.Error(t, e.Start(0))
	assert.Error(t, e.Start(-5))
	assert.False(t, e.Running())
}

func TestEngine_CountdownWrapsAndResetsOnAdvance(t *testing.T) {
	e := NewEngine(manualOptions(), testLogger())
	require.NoError(t, e.Start(5))
	defer e.Stop()

	assert.Equal(t, 4, e.Snapshot().PhaseCountdown)

	e.tick(loopStop(e))
	assert.Equal(t, 3, e.Snapshot().PhaseCountdown)
	e.tick(loopStop(e))
	e.tick(loopStop(e))
	assert.Equal(t, 1, e.Snapshot().PhaseCountdown)

	// Wraps back to the full phase length instead of reaching zero.
	e.tick(loopStop(e))
	assert.Equal(t, 4, e.Snapshot().PhaseCountdown)

	e.tick(loopStop(e))
	e.advancePhase(loopStop(e))
	assert.Equal(t, 4, e.Snapshot().PhaseCountdown, "phase transition resets the countdown")
}

func TestEngine_AutoStopCommitsOnce(t *testing.T) {
	recorder := &commitRecorder{}
	e := NewEngine(manualOptions(), testLogger())
	e.OnSessionEnd(recorder.commit)
	require.NoError(t, e.Start(5))

	// Three full cycles, then run the clock out.
	for i := 0; i < 12; i++ {
		e.advancePhase(loopStop(e))
	}
	for i := 0; i < 300; i++ {
		e.tick(loopStop(e))
	}

	snap := e.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.Equal(t, []int{3}, recorder.all())

	// No further phase advances after auto-stop.
	e.advancePhase(loopStop(e))
	assert.Equal(t, PhaseIdle, e.Snapshot().Phase)

	// Ticks after auto-stop change nothing and never re-commit.
	e.tick(loopStop(e))
	assert.Equal(t, []int{3}, recorder.all())
}

func TestEngine_StopIsIdempotent(t *testing.T) {
	recorder := &commitRecorder{}
	e := NewEngine(manualOptions(), testLogger())
	e.OnSessionEnd(recorder.commit)
	require.NoError(t, e.Start(5))

	e.advancePhase(loopStop(e))
	e.tick(loopStop(e))

	e.Stop()
	first := e.Snapshot()
	e.Stop()

	assert.Equal(t, first, e.Snapshot())
	assert.Equal(t, []int{0}, recorder.all(), "stats committed exactly once")
}

func TestEngine_StopAtZeroElapsedCommitsNothing(t *testing.T) {
	recorder := &commitRecorder{}
	e := NewEngine(manualOptions(), testLogger())
	e.OnSessionEnd(recorder.commit)
	require.NoError(t, e.Start(5))

	e.Stop()

	assert.Empty(t, recorder.all())
}

func TestEngine_PhaseHookFiresPerTransition(t *testing.T) {
	var (
		mu     sync.Mutex
		phases []Phase
	)
	e := NewEngine(manualOptions(), testLogger())
	e.OnPhaseChange(func(p Phase) {
		mu.Lock()
		defer mu.Unlock()
		phases = append(phases, p)
	})
	require.NoError(t, e.Start(5))
	defer e.Stop()

	for i := 0; i < 5; i++ {
		e.advancePhase(loopStop(e))
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []Phase{PhaseInhale, PhaseHoldIn, PhaseExhale, PhaseHoldOut, PhaseInhale}, phases)
}

func TestEngine_SubscribeReceivesEvents(t *testing.T) {
	e := NewEngine(manualOptions(), testLogger())
	events, unsubscribe := e.Subscribe(16)
	defer unsubscribe()

	require.NoError(t, e.Start(5))
	e.advancePhase(loopStop(e))
	e.tick(loopStop(e))
	e.Stop()

	var kinds []EventType
	for len(events) > 0 {
		kinds = append(kinds, (<-events).Type)
	}
	assert.Equal(t,
		[]EventType{EventSessionStarted, EventPhaseChange, EventTick, EventSessionStopped},
		kinds)
}

func TestEngine_UnsubscribeStopsDelivery(t *testing.T) {
	e := NewEngine(manualOptions(), testLogger())
	events, unsubscribe := e.Subscribe(16)

	require.NoError(t, e.Start(5))
	unsubscribe()
	e.advancePhase(loopStop(e))
	e.Stop()

	// Only the start event, delivered before unsubscribing, is present.
	require.Len(t, events, 1)
	assert.Equal(t, EventSessionStarted, (<-events).Type)
}

func TestEngine_RestartDiscardsTriggersFromPreviousLoop(t *testing.T) {
	e := NewEngine(manualOptions(), testLogger())
	require.NoError(t, e.Start(5))
	stale := loopStop(e)

	e.Stop()
	require.NoError(t, e.Start(5))
	defer e.Stop()

	// A trigger already drained from the old loop must not touch the new
	// session.
	e.tick(stale)
	e.advancePhase(stale)

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.ElapsedSeconds)
	assert.Equal(t, PhaseIdle, snap.Phase)

	// The new loop's triggers still apply.
	e.tick(loopStop(e))
	assert.Equal(t, 1, e.Snapshot().ElapsedSeconds)
}

func TestEngine_UnsubscribeClosesChannel(t *testing.T) {
	e := NewEngine(manualOptions(), testLogger())
	events, unsubscribe := e.Subscribe(16)

	require.NoError(t, e.Start(5))
	unsubscribe()
	e.Stop()

	// The buffered start event drains, then the channel reports closed.
	event, ok := <-events
	require.True(t, ok)
	assert.Equal(t, EventSessionStarted, event.Type)

	_, ok = <-events
	assert.False(t, ok)

	// A second unsubscribe finds nothing to remove and must not panic.
	unsubscribe()
}

func TestEngine_RunLoopDrivesSession(t *testing.T) {
	e := NewEngine(Options{
		PhaseDuration: 20 * time.Millisecond,
		TickInterval:  5 * time.Millisecond,
		InitialDelay:  2 * time.Millisecond,
	}, testLogger())
	require.NoError(t, e.Start(60))
	defer e.Stop()

	require.Eventually(t, func() bool {
		snap := e.Snapshot()
		return snap.CycleCount >= 1 && snap.ElapsedSeconds >= 1
	}, 2*time.Second, 5*time.Millisecond, "run loop should advance phases and elapsed time")

	e.Stop()
	snap := e.Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, PhaseIdle, snap.Phase)
}
