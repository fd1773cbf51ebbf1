package breath_test

import (
	"testing"

	"github.com/stillpoint/breathbox/internal/breath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_Next(t *testing.T) {
	tests := []struct {
		current breath.Phase
		next    breath.Phase
	}{
		{breath.PhaseIdle, breath.PhaseInhale},
		{breath.PhaseInhale, breath.PhaseHoldIn},
		{breath.PhaseHoldIn, breath.PhaseExhale},
		{breath.PhaseExhale, breath.PhaseHoldOut},
		{breath.PhaseHoldOut, breath.PhaseInhale},
		{breath.Phase("bogus"), breath.PhaseInhale},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			assert.Equal(t, tt.next, tt.current.Next())
		})
	}
}

func TestPhase_SequenceFromIdle(t *testing.T) {
	want := []breath.Phase{
		breath.PhaseInhale, breath.PhaseHoldIn, breath.PhaseExhale, breath.PhaseHoldOut,
		breath.PhaseInhale, breath.PhaseHoldIn, breath.PhaseExhale, breath.PhaseHoldOut,
		breath.PhaseInhale,
	}

	phase := breath.PhaseIdle
	for i, expected := range want {
		phase = phase.Next()
		assert.Equal(t, expected, phase, "advance %d", i+1)
	}
}

func TestParsePhase(t *testing.T) {
	phase, err := breath.ParsePhase("hold-out")
	require.NoError(t, err)
	assert.Equal(t, breath.PhaseHoldOut, phase)

	_, err = breath.ParsePhase("resting")
	assert.Error(t, err)
}

func TestPhase_Label(t *testing.T) {
	assert.Equal(t, "Breathe in", breath.PhaseInhale.Label("en"))
	assert.Equal(t, "Exhala", breath.PhaseExhale.Label("es"))
	assert.Equal(t, "Hold", breath.PhaseHoldOut.Label("unknown"), "unknown language falls back to English")
	assert.Empty(t, breath.PhaseIdle.Label("en"))
}
