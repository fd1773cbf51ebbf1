package cue

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"github.com/stillpoint/breathbox/pkg/collections"
)

// Sink plays PCM samples on an output device.
type Sink interface {
	Play(ctx context.Context, samples []int16) error
}

// Speaker plays S16LE mono PCM on the default playback device. Each Play
// call allocates and tears down its own device; cues are short and
// infrequent enough that this keeps no audio resources held between phases.
type Speaker struct {
	sampleRate int
}

// NewSpeaker creates a Speaker at the given sample rate.
func NewSpeaker(sampleRate int) *Speaker {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Speaker{sampleRate: sampleRate}
}

// Play blocks until the samples have been played or the context is done.
func (s *Speaker) Play(ctx context.Context, samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(mgCtx)

	pcm := make([]byte, len(samples)*2)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(sample))
	}

	devCnf := malgo.DefaultDeviceConfig(malgo.Playback)
	devCnf.Playback.Format = malgo.FormatS16
	devCnf.Playback.Channels = 1
	devCnf.SampleRate = uint32(s.sampleRate)

	var (
		pos  int
		once sync.Once
		done = make(chan struct{})
	)
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, framecount uint32) {
			n := copy(out, pcm[pos:])
			pos += n
			if pos >= len(pcm) {
				once.Do(func() { close(done) })
			}
		},
	}

	mgDevice, err := malgo.InitDevice(mgCtx.Context, devCnf, callbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo playback device: %w", err)
	}
	defer mgDevice.Uninit()

	if err := mgDevice.Start(); err != nil {
		return fmt.Errorf("failed to start malgo device: %w", err)
	}

	select {
	case <-done:
		// Let the device drain its last buffer before teardown.
		time.Sleep(50 * time.Millisecond)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Info describes an available playback device.
type Info struct {
	Name      string
	IsDefault bool
}

// ListPlaybackDevices enumerates the playback devices on this system.
func ListPlaybackDevices(ctx context.Context) ([]Info, error) {
	devCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(devCtx)

	playbackDevices, err := devCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to get playback devices: %w", err)
	}

	return collections.Apply(playbackDevices, func(mdi malgo.DeviceInfo) Info {
		return Info{
			Name:      mdi.Name(),
			IsDefault: mdi.IsDefault != 0,
		}
	}), nil
}

func uninitializeContext(deviceCtx *malgo.AllocatedContext) {
	if deviceCtx == nil {
		return
	}

	if err := deviceCtx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	deviceCtx.Free()
}
