// Package portaudio implements the backend.Backend contract against real
// hardware via PortAudio, following the stream-open/start/stop/close
// lifecycle demonstrated in rustyguts-bken's client/audio.go (AudioEngine
// wrapping *portaudio.Stream). Unlike that reference, which pumps PCM
// through buffered capture/playback goroutines, the mixer's contract here
// is a direct per-period callback, so this adapter drives
// PortAudio's callback-style stream instead of a blocking Read/Write loop.
package portaudio

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"dawcore/backend"
	"dawcore/errs"
)

// Backend opens PortAudio output-only streams. Initialize/Terminate follow
// PortAudio's own global lifecycle; callers own calling those once per
// process, mirroring how rustyguts-bken's main wraps portaudio.Initialize.
type Backend struct {
	mu           sync.Mutex
	initialized  bool
	errorHandler errs.ErrorHandler
}

// New returns a Backend. Call Initialize before Open.
func New() *Backend {
	return &Backend{}
}

// SetErrorHandler configures the sink for failures that arise on
// PortAudio's own audio thread rather than through a synchronous call
// return — currently, a recovered panic from inside the stream callback,
// which would otherwise just kill that thread silently. dawcore.Engine.Init
// wires this automatically when the configured backend supports it.
func (b *Backend) SetErrorHandler(h errs.ErrorHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errorHandler = h
}

// Initialize starts the PortAudio library. Safe to call once per process.
func (b *Backend) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.initialized {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: initialize: %w", err)
	}
	b.initialized = true
	return nil
}

// Terminate shuts down the PortAudio library.
func (b *Backend) Terminate() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.initialized {
		return nil
	}
	b.initialized = false
	return portaudio.Terminate()
}

// Open implements backend.Backend: it opens the default output device with
// a stereo f32 callback-style stream at sampleRate/periodFrames.
func (b *Backend) Open(sampleRate, periodFrames int, cb backend.Callback) (backend.Device, error) {
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Channels: 2,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: periodFrames,
	}

	streamCallback := func(out []float32) {
		defer func() {
			if r := recover(); r != nil {
				b.mu.Lock()
				h := b.errorHandler
				b.mu.Unlock()
				if h != nil {
					h.HandleError(fmt.Errorf("portaudio: stream callback panic: %v", r))
				}
			}
		}()
		cb(out, len(out)/2)
	}

	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("portaudio: default output device: %w", err)
	}
	params.Output.Device = dev
	params.Output.Latency = dev.DefaultLowOutputLatency

	stream, err := portaudio.OpenStream(params, streamCallback)
	if err != nil {
		return nil, fmt.Errorf("portaudio: open stream: %w", err)
	}

	return &device{stream: stream}, nil
}

type device struct {
	stream *portaudio.Stream
}

// Start implements backend.Device.
func (d *device) Start() error {
	if err := d.stream.Start(); err != nil {
		return fmt.Errorf("portaudio: start: %w", err)
	}
	return nil
}

// Stop implements backend.Device.
func (d *device) Stop() error {
	if err := d.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio: stop: %w", err)
	}
	return nil
}

// Close implements backend.Device.
func (d *device) Close() error {
	if err := d.stream.Close(); err != nil {
		return fmt.Errorf("portaudio: close: %w", err)
	}
	return nil
}
