package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"dawcore/clip"
	"dawcore/errs"
)

func TestNew_Defaults(t *testing.T) {
	tr := New(1, Audio, "Guitar")
	assert.Equal(t, float32(1.0), tr.Volume)
	assert.Equal(t, float32(0.0), tr.Pan)
	assert.False(t, tr.Mute)
	assert.Zero(t, tr.ClipCount)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Audio", Audio.String())
	assert.Equal(t, "MIDI", MIDI.String())
	assert.Equal(t, "Bus", Bus.String())
	assert.Equal(t, "Master", Master.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, float32(0), ClampVolume(-1))
	assert.Equal(t, float32(2), ClampVolume(5))
	assert.Equal(t, float32(1.5), ClampVolume(1.5))
}

func TestClampPan(t *testing.T) {
	assert.Equal(t, float32(-1), ClampPan(-3))
	assert.Equal(t, float32(1), ClampPan(3))
	assert.Equal(t, float32(0.25), ClampPan(0.25))
}

func TestSetName_Truncates(t *testing.T) {
	tr := New(1, Audio, "")
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	tr.SetName(string(long))
	assert.Len(t, tr.Name, 63)
}

func TestAddClip_FillsAndReportsFull(t *testing.T) {
	tr := New(1, Audio, "t")
	c, _ := clip.New([]float32{0}, []float32{0}, 0, 1)

	for i := 0; i < MaxClips; i++ {
		assert.Equal(t, errs.OK, tr.AddClip(c))
	}
	assert.Equal(t, MaxClips, tr.ClipCount)
	assert.Equal(t, errs.ClipFull, tr.AddClip(c))
}

func TestReleaseClips(t *testing.T) {
	tr := New(1, Audio, "t")
	c, _ := clip.New([]float32{0}, []float32{0}, 0, 1)
	tr.AddClip(c)
	tr.ReleaseClips()
	assert.Zero(t, tr.ClipCount)
	for _, slot := range tr.Clips {
		assert.Nil(t, slot)
	}
}

func TestPanGains_CenterIsEqualPower(t *testing.T) {
	tr := New(1, Audio, "t")
	gL, gR := tr.PanGains()
	// At pan=0 constant-power splits equally between channels.
	assert.InDelta(t, float64(gL), float64(gR), 1e-6)
}

func TestPanGains_HardLeftSilencesRight(t *testing.T) {
	tr := New(1, Audio, "t")
	tr.SetPan(-1)
	gL, gR := tr.PanGains()
	assert.InDelta(t, 0, gR, 1e-6)
	assert.InDelta(t, float64(tr.Volume), float64(gL), 1e-6)
}

func TestUpdatePeak_DecaysAndTracksAbs(t *testing.T) {
	peak := UpdatePeak(0, -0.5)
	assert.InDelta(t, 0.5, peak, 1e-6)

	decayed := UpdatePeak(1.0, 0)
	assert.InDelta(t, 0.9997, decayed, 1e-6)
}

// TestPanGains_ConstantPower verifies gL^2 + gR^2 stays constant (equal to
// vol^2) across the whole pan range, the defining property of a
// constant-power pan law.
func TestPanGains_ConstantPower(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pan := rapid.Float32Range(-1, 1).Draw(t, "pan")
		vol := rapid.Float32Range(0, 2).Draw(t, "vol")

		tr := New(1, Audio, "t")
		tr.SetPan(pan)
		tr.Volume = vol
		gL, gR := tr.PanGains()

		power := float64(gL)*float64(gL) + float64(gR)*float64(gR)
		expected := float64(vol) * float64(vol)
		if math.Abs(power-expected) > 1e-4 {
			t.Fatalf("pan law not constant-power: got %v want %v (pan=%v vol=%v)", power, expected, pan, vol)
		}
	})
}

func TestClampVolume_AlwaysInRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float32Range(-1000, 1000).Draw(t, "v")
		c := ClampVolume(v)
		if c < 0 || c > 2 {
			t.Fatalf("clamp escaped range: %v -> %v", v, c)
		}
	})
}
