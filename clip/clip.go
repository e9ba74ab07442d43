// Package clip defines the immutable PCM block placed on a track at a beat
// position. Clips never mutate after construction: the realtime mixer reads
// clip.Left/Right concurrently with control-thread operations on unrelated
// tracks, and immutability is what makes that safe without per-clip locks.
package clip

import "dawcore/errs"

// Clip is a fixed-size stereo PCM block with a musical placement. Once
// built, its fields are read-only; New is the only constructor.
type Clip struct {
	Left  []float32
	Right []float32

	StartBeat float64
	LenBeats  float64

	Active bool
}

// New builds a Clip from deinterleaved PCM, validating the
// invariants: equal-length channels, a positive length in beats, and a
// non-negative start. The slices are retained by reference, not copied —
// callers must not mutate them after New returns.
func New(left, right []float32, startBeat, lenBeats float64) (*Clip, errs.Code) {
	if len(left) != len(right) {
		return nil, errs.InvalidParam
	}
	if lenBeats <= 0 {
		return nil, errs.InvalidParam
	}
	if startBeat < 0 {
		return nil, errs.InvalidParam
	}
	return &Clip{
		Left:      left,
		Right:     right,
		StartBeat: startBeat,
		LenBeats:  lenBeats,
		Active:    true,
	}, errs.OK
}

// NFrames returns the clip's PCM length in frames.
func (c *Clip) NFrames() int {
	return len(c.Left)
}

// EndBeat returns the beat at which the clip stops sounding.
func (c *Clip) EndBeat() float64 {
	return c.StartBeat + c.LenBeats
}

// FrameAt resolves the effective beat position to a PCM frame index within
// this clip. It returns ok=false when beatAt falls outside the clip's
// placement or the computed index falls outside the PCM (e.g. floating
// point offset landing exactly at n_frames).
func (c *Clip) FrameAt(beatAt float64) (idx int, ok bool) {
	if beatAt < c.StartBeat || beatAt >= c.EndBeat() {
		return 0, false
	}
	offset := (beatAt - c.StartBeat) / c.LenBeats
	frameIndex := int(offset * float64(c.NFrames()))
	if frameIndex < 0 || frameIndex >= c.NFrames() {
		return 0, false
	}
	return frameIndex, true
}
