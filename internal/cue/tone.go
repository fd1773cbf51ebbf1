// Package cue plays the audible cue fired on each phase transition: a short
// fixed-pitch tone, or a spoken phase label in guided mode. Everything here
// is fire-and-forget; failures are logged and swallowed so the timing loop is
// never blocked or disturbed.
package cue

import (
	"errors"
	"math"
	"time"
)

const (
	// DefaultSampleRate matches the PCM output of the speech synthesizer so
	// one playback path serves both tone and speech.
	DefaultSampleRate = 24000
	// DefaultToneFrequency is the cue pitch in Hz.
	DefaultToneFrequency = 660.0
	// DefaultToneDuration is how long the cue tone lasts.
	DefaultToneDuration = 150 * time.Millisecond

	// envelopeTime is the attack/release ramp keeping the tone click-free.
	envelopeTime = 5 * time.Millisecond

	// toneAmplitude is the peak sample value, ~50% of int16 range.
	toneAmplitude = 16000
)

// ToneConfig configures the synthesized cue tone.
type ToneConfig struct {
	// SampleRate is the audio sample rate in Hz.
	SampleRate int

	// Frequency is the tone pitch in Hz.
	Frequency float64

	// Duration is the tone length.
	Duration time.Duration
}

// Validate returns an error if the config is invalid.
func (c ToneConfig) Validate() error {
	if c.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}

	if c.Frequency <= 0 {
		return errors.New("frequency must be positive")
	}

	if c.Duration <= 0 {
		return errors.New("duration must be positive")
	}

	return nil
}

// WithDefaults returns a config with default values applied to zero fields.
func (c ToneConfig) WithDefaults() ToneConfig {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}

	if c.Frequency == 0 {
		c.Frequency = DefaultToneFrequency
	}

	if c.Duration == 0 {
		c.Duration = DefaultToneDuration
	}

	return c
}

// Tone synthesizes the cue as S16LE mono PCM samples: a sine wave with a
// short linear attack and release.
func Tone(cfg ToneConfig) []int16 {
	cfg = cfg.WithDefaults()

	total := int(float64(cfg.SampleRate) * cfg.Duration.Seconds())
	ramp := int(float64(cfg.SampleRate) * envelopeTime.Seconds())
	if ramp*2 > total {
		ramp = total / 2
	}

	samples := make([]int16, total)
	for i := range samples {
		envelope := 1.0
		switch {
		case i < ramp:
			envelope = float64(i) / float64(ramp)
		case i >= total-ramp:
			envelope = float64(total-i) / float64(ramp)
		}

		value := math.Sin(2 * math.Pi * cfg.Frequency * float64(i) / float64(cfg.SampleRate))
		samples[i] = int16(envelope * value * toneAmplitude)
	}

	return samples
}
