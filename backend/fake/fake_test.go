package fake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dawcore/backend"
)

func TestOpen_RecordsDevice(t *testing.T) {
	b := New()
	var gotFrames int
	dev, err := b.Open(44100, 512, func(out []float32, frameCount int) {
		gotFrames = frameCount
	})
	assert.NoError(t, err)
	assert.NotNil(t, dev)
	assert.Len(t, b.Devices(), 1)

	d := dev.(*Device)
	assert.False(t, d.Running())
	d.Start()
	assert.True(t, d.Running())
	d.Pump(256)
	assert.Equal(t, 256, gotFrames)
}

func TestPump_SilentUntilStarted(t *testing.T) {
	b := New()
	dev, _ := b.Open(44100, 512, func(out []float32, frameCount int) {
		for i := range out {
			out[i] = 1
		}
	})
	d := dev.(*Device)

	out := d.Pump(4)
	assert.Len(t, out, 8)
	for _, v := range out {
		assert.Zero(t, v, "callback must not fire before Start")
	}

	d.Start()
	out = d.Pump(4)
	for _, v := range out {
		assert.Equal(t, float32(1), v)
	}
}

func TestStop_StopsDrivingCallback(t *testing.T) {
	b := New()
	calls := 0
	dev, _ := b.Open(44100, 512, func(out []float32, frameCount int) {
		calls++
	})
	d := dev.(*Device)

	d.Start()
	d.Pump(4)
	d.Stop()
	d.Pump(4)

	assert.Equal(t, 1, calls)
	assert.False(t, d.Running())
}

func TestClose_DoesNotPanic(t *testing.T) {
	b := New()
	dev, _ := b.Open(44100, 512, func(out []float32, frameCount int) {})
	assert.NotPanics(t, func() { dev.Close() })
}

func TestDevices_TracksOpenOrder(t *testing.T) {
	b := New()
	b.Open(44100, 512, func(out []float32, frameCount int) {})
	b.Open(48000, 256, func(out []float32, frameCount int) {})

	devs := b.Devices()
	assert.Len(t, devs, 2)
	assert.Equal(t, 44100, devs[0].sampleRate)
	assert.Equal(t, 48000, devs[1].sampleRate)
}

var _ backend.Backend = (*Backend)(nil)
var _ backend.Device = (*Device)(nil)
