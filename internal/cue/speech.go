package cue

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Synthesizer produces S16LE mono PCM samples for a spoken phrase. Guided
// mode depends only on this interface; tests supply stubs.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]int16, error)
}

// SpeechSynthesizer generates spoken phase labels via the OpenAI speech API.
// The response is raw 24kHz mono PCM.
type SpeechSynthesizer struct {
	apiKey string
}

// NewSpeechSynthesizer creates a speech synthesis client.
func NewSpeechSynthesizer(apiKey string) *SpeechSynthesizer {
	return &SpeechSynthesizer{
		apiKey: apiKey,
	}
}

// Synthesize renders the given text as speech samples.
func (s *SpeechSynthesizer) Synthesize(ctx context.Context, text string) ([]int16, error) {
	// Validate API key
	if s.apiKey == "" {
		return nil, errors.New("API key required: set OPENAI_API_KEY or run 'breathe config set-key'")
	}

	// Create OpenAI client
	client := openai.NewClient(option.WithAPIKey(s.apiKey))

	// Request raw PCM so no decoding step is needed before playback
	params := openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelTTS1,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoiceAlloy,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	}

	resp, err := client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech via OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech response: %w", err)
	}

	return decodePCM(raw)
}

// decodePCM converts S16LE bytes to samples. A trailing odd byte is dropped.
func decodePCM(raw []byte) ([]int16, error) {
	raw = raw[:len(raw)/2*2]
	samples := make([]int16, len(raw)/2)

	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("failed to read PCM samples: %w", err)
	}

	return samples, nil
}
