// Package fake provides an in-process Backend that drives its callback on
// demand rather than from real hardware, for use in tests and property
// checks. It never touches an actual audio device.
package fake

import "dawcore/backend"

// Backend records every device it opens, each with its own callback, and
// lets tests pump them synchronously via Device.Pump, instead of waiting on
// a real device period.
type Backend struct {
	opened []*Device
}

// New returns a ready-to-use fake Backend.
func New() *Backend {
	return &Backend{}
}

// Open implements backend.Backend.
func (b *Backend) Open(sampleRate, periodFrames int, cb backend.Callback) (backend.Device, error) {
	d := &Device{sampleRate: sampleRate, periodFrames: periodFrames, cb: cb}
	b.opened = append(b.opened, d)
	return d, nil
}

// Device is the fake backend.Device. Pump drives one period's worth of the
// callback, the same shape real hardware would invoke at its own pace.
type Device struct {
	sampleRate   int
	periodFrames int
	cb           backend.Callback
	running      bool
	closed       bool
}

// Start implements backend.Device.
func (d *Device) Start() error {
	d.running = true
	return nil
}

// Stop implements backend.Device.
func (d *Device) Stop() error {
	d.running = false
	return nil
}

// Close implements backend.Device.
func (d *Device) Close() error {
	d.closed = true
	return nil
}

// Pump invokes the callback for frameCount frames and returns the output
// buffer (interleaved stereo f32, length frameCount*2). It is a no-op
// returning silence if the device isn't running.
func (d *Device) Pump(frameCount int) []float32 {
	out := make([]float32, frameCount*2)
	if d.running && d.cb != nil {
		d.cb(out, frameCount)
	}
	return out
}

// Running reports whether Start has been called more recently than Stop.
func (d *Device) Running() bool {
	return d.running
}

// Devices returns every device this Backend has opened, in open order, for
// callers (tests, cmd/dawctl) that need to pump a device Open handed back
// only as the narrower backend.Device interface.
func (b *Backend) Devices() []*Device {
	return b.opened
}
