// Package backend defines the audio-device collaborator contract: a
// playback device that invokes a callback with a frame buffer at a fixed
// sample rate/format. The core depends only on this interface; opening
// real hardware is out of the core's scope.
package backend

// Callback is invoked once per device period. It must write exactly
// frameCount*2 interleaved stereo f32 samples into out, must return within
// one period's worth of wallclock time, and must not allocate, block on
// I/O, or hold any lock longer than the mix itself.
type Callback func(out []float32, frameCount int)

// Device is an open playback device handle.
type Device interface {
	Start() error
	Stop() error
	Close() error
}

// Backend opens playback devices. Open returns a live Device plus an error;
// the core maps an Open failure to errs.AudioDevice.
type Backend interface {
	Open(sampleRate, periodFrames int, cb Callback) (Device, error)
}
