package cue

import (
	"bytes"
	"fmt"

	mp3encoder "github.com/braheezy/shine-mp3/pkg/mp3"
)

// EncodeMP3 converts S16LE mono PCM samples into an MP3 blob for browser
// playback.
func EncodeMP3(samples []int16, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to encode")
	}

	// shine-mp3 Write() miscounts for mono input, so encode as stereo with
	// the mono signal duplicated onto both channels.
	stereo := make([]int16, len(samples)*2)
	for i, sample := range samples {
		stereo[i*2] = sample
		stereo[i*2+1] = sample
	}

	encoder := mp3encoder.NewEncoder(sampleRate, 2)

	var buf bytes.Buffer
	if err := encoder.Write(&buf, stereo); err != nil {
		return nil, fmt.Errorf("failed to encode audio to MP3: %w", err)
	}

	return buf.Bytes(), nil
}
