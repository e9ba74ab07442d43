package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"dawcore/errs"
)

func TestNew_Defaults(t *testing.T) {
	tr := New()
	assert.Equal(t, Stopped, tr.State)
	assert.Equal(t, 120.0, tr.BPM)
	assert.False(t, tr.LoopOn)
}

func TestPlayStopPause(t *testing.T) {
	tr := New()
	tr.Play()
	assert.Equal(t, Playing, tr.State)

	tr.Seek(4)
	tr.Pause()
	assert.Equal(t, Paused, tr.State)
	assert.Equal(t, 4.0, tr.PositionBeats, "pause must not move the playhead")

	tr.Stop()
	assert.Equal(t, Stopped, tr.State)
	assert.Zero(t, tr.PositionBeats)
	assert.Zero(t, tr.PositionSeconds)
}

func TestPause_OnlyFromPlaying(t *testing.T) {
	tr := New()
	tr.Pause()
	assert.Equal(t, Stopped, tr.State, "pause from Stopped is a no-op")
}

func TestSeek_RejectsNegative(t *testing.T) {
	tr := New()
	assert.Equal(t, errs.InvalidParam, tr.Seek(-1))
}

func TestSeek_RecomputesSeconds(t *testing.T) {
	tr := New()
	tr.BPM = 120
	code := tr.Seek(8)
	assert.Equal(t, errs.OK, code)
	assert.Equal(t, 4.0, tr.PositionSeconds, "8 beats at 120bpm is 4 seconds")
}

func TestSetBPM_Bounds(t *testing.T) {
	tr := New()
	assert.Equal(t, errs.InvalidParam, tr.SetBPM(1))
	assert.Equal(t, errs.InvalidParam, tr.SetBPM(999))
	assert.Equal(t, errs.InvalidParam, tr.SetBPM(0))
	assert.Equal(t, errs.InvalidParam, tr.SetBPM(1000))
	assert.Equal(t, errs.OK, tr.SetBPM(140))
	assert.Equal(t, 140.0, tr.BPM)
}

func TestSetLoop(t *testing.T) {
	tr := New()
	assert.Equal(t, errs.InvalidParam, tr.SetLoop(true, 8, 4), "end must be > start")
	assert.Equal(t, errs.OK, tr.SetLoop(true, 4, 8))
	assert.True(t, tr.LoopOn)

	// Disabling does not validate bounds.
	assert.Equal(t, errs.OK, tr.SetLoop(false, 8, 4))
	assert.False(t, tr.LoopOn)
}

func TestBarBeat(t *testing.T) {
	tr := New()
	tr.PositionBeats = 0
	assert.Equal(t, 1, tr.Bar())
	assert.Equal(t, 1, tr.Beat())

	tr.PositionBeats = 5
	assert.Equal(t, 2, tr.Bar())
	assert.Equal(t, 2, tr.Beat())
}

func TestIsAudible(t *testing.T) {
	assert.True(t, Playing.IsAudible())
	assert.True(t, Recording.IsAudible())
	assert.False(t, Stopped.IsAudible())
	assert.False(t, Paused.IsAudible())
}

// TestSeek_PlayheadRoundTrip checks that Seek always leaves
// PositionSeconds consistent with PositionBeats for any valid BPM/beat,
// the invariant the mixer's playhead-advance logic relies on.
func TestSeek_PlayheadRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bpm := rapid.Float64Range(1.01, 998.99).Draw(t, "bpm")
		beat := rapid.Float64Range(0, 100000).Draw(t, "beat")

		tr := New()
		assert.Equal(t, errs.OK, tr.SetBPM(bpm))
		assert.Equal(t, errs.OK, tr.Seek(beat))

		expectedSeconds := beat * 60 / bpm
		assert.InDelta(t, expectedSeconds, tr.PositionSeconds, 1e-6)
	})
}
