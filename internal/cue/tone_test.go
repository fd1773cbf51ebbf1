package cue_test

import (
	"testing"
	"time"

	"github.com/stillpoint/breathbox/internal/cue"
	"github.com/stretchr/testify/assert"
)

func TestToneConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		config      cue.ToneConfig
		expectError string
	}{
		{
			name: "valid config",
			config: cue.ToneConfig{
				SampleRate: 24000,
				Frequency:  660,
				Duration:   150 * time.Millisecond,
			},
			expectError: "",
		},
		{
			name: "zero sample rate",
			config: cue.ToneConfig{
				Frequency: 660,
				Duration:  150 * time.Millisecond,
			},
			expectError: "sample rate must be positive",
		},
		{
			name: "negative frequency",
			config: cue.ToneConfig{
				SampleRate: 24000,
				Frequency:  -1,
				Duration:   150 * time.Millisecond,
			},
			expectError: "frequency must be positive",
		},
		{
			name: "zero duration",
			config: cue.ToneConfig{
				SampleRate: 24000,
				Frequency:  660,
			},
			expectError: "duration must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectError == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.expectError)
			}
		})
	}
}

func TestToneConfig_WithDefaults(t *testing.T) {
	cfg := cue.ToneConfig{}.WithDefaults()

	assert.Equal(t, cue.DefaultSampleRate, cfg.SampleRate)
	assert.Equal(t, cue.DefaultToneFrequency, cfg.Frequency)
	assert.Equal(t, cue.DefaultToneDuration, cfg.Duration)
	assert.NoError(t, cfg.Validate())
}

func TestTone(t *testing.T) {
	samples := cue.Tone(cue.ToneConfig{
		SampleRate: 24000,
		Frequency:  660,
		Duration:   100 * time.Millisecond,
	})

	assert.Len(t, samples, 2400, "100ms at 24kHz")

	// Envelope starts and ends silent.
	assert.Zero(t, samples[0])

	var peak int16
	for _, s := range samples {
		if s > peak {
			peak = s
		}
	}
	assert.Greater(t, peak, int16(8000), "tone should have audible amplitude")
}

func TestEncodeMP3(t *testing.T) {
	samples := cue.Tone(cue.ToneConfig{}.WithDefaults())

	blob, err := cue.EncodeMP3(samples, cue.DefaultSampleRate)

	assert.NoError(t, err)
	assert.NotEmpty(t, blob)
}

func TestEncodeMP3_EmptyInput(t *testing.T) {
	_, err := cue.EncodeMP3(nil, cue.DefaultSampleRate)

	assert.Error(t, err)
}
