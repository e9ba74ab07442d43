// Package mixer implements the realtime mix pass: the per-callback
// resolution of which clips on which tracks contribute samples at the
// current playhead, their summation with per-track gain/pan, master gain,
// and playhead advance. Mix is the sole entry point the
// backend.Callback wires up; it owns no state of its own beyond the
// per-callback accumulator buffers it reuses across calls.
package mixer

import (
	"dawcore/scene"
	"dawcore/track"
	"dawcore/transport"
)

// Mixer holds the reusable per-callback accumulator buffers so Mix never
// allocates on the hot path.
type Mixer struct {
	scene *scene.Scene

	mixL []float32
	mixR []float32
}

// New returns a Mixer bound to scene, with accumulator buffers sized for
// up to maxFrames per callback. Buffers grow (and allocate) only if a
// callback ever requests more frames than maxFrames, which should not
// happen in normal operation.
func New(s *scene.Scene, maxFrames int) *Mixer {
	return &Mixer{
		scene: s,
		mixL:  make([]float32, maxFrames),
		mixR:  make([]float32, maxFrames),
	}
}

// Mix is the backend.Callback: it writes exactly frameCount*2 interleaved
// stereo f32 samples into out. It is the only function in this module
// meant to run on the realtime thread.
func (m *Mixer) Mix(out []float32, frameCount int) {
	n := frameCount
	if cap(m.mixL) < n {
		m.mixL = make([]float32, n)
		m.mixR = make([]float32, n)
	}
	mixL := m.mixL[:n]
	mixR := m.mixR[:n]
	for i := range mixL {
		mixL[i] = 0
		mixR[i] = 0
	}

	var wrote bool

	m.scene.WithLock(func(s *scene.Scene) {
		if !s.Initialized() {
			return
		}
		if !s.Transport.State.IsAudible() {
			return
		}

		sampleRate := s.SampleRate
		if sampleRate <= 0 {
			return
		}

		secondsPerBeat := 60.0 / s.Transport.BPM
		secondsPerFrame := 1.0 / float64(sampleRate)
		beatsPerFrame := secondsPerFrame / secondsPerBeat

		for i := range s.Tracks {
			t := s.Tracks[i]
			if t == nil || t.Kind != track.Audio || t.Mute {
				continue
			}
			if s.AnySolo() && !t.Solo {
				continue
			}
			mixTrack(t, s.Transport, mixL, mixR, beatsPerFrame)
		}

		applyMasterAndAdvance(s, mixL, mixR, n, secondsPerFrame, secondsPerBeat)
		for f := 0; f < n; f++ {
			out[f*2] = mixL[f]
			out[f*2+1] = mixR[f]
		}
		wrote = true
	})

	if !wrote {
		for i := range out {
			out[i] = 0
		}
	}
}

// mixTrack sums one track's active clips into the shared accumulators.
func mixTrack(t *track.Track, tr transport.Transport, mixL, mixR []float32, beatsPerFrame float64) {
	gL, gR := t.PanGains()

	var peakL, peakR float32 = t.Meter.L, t.Meter.R

	for ci := range t.Clips {
		c := t.Clips[ci]
		if c == nil || !c.Active {
			continue
		}
		for f := 0; f < len(mixL); f++ {
			beatAt := tr.PositionBeats + float64(f)*beatsPerFrame

			if tr.LoopOn && beatAt >= tr.LoopEnd {
				span := tr.LoopEnd - tr.LoopStart
				if span > 0 {
					beatAt = tr.LoopStart + wrapMod(beatAt-tr.LoopStart, span)
				}
			}

			idx, ok := c.FrameAt(beatAt)
			if !ok {
				continue
			}

			l := c.Left[idx] * gL
			r := c.Right[idx] * gR
			mixL[f] += l
			mixR[f] += r

			peakL = track.UpdatePeak(peakL, l)
			peakR = track.UpdatePeak(peakR, r)
		}
	}

	t.Meter.L = peakL
	t.Meter.R = peakR
}

// wrapMod implements a mod b for the loop-wrap remap, which needs an
// always-positive remainder (float64's % can return negative results for
// negative a, though a is never negative here in practice).
func wrapMod(a, b float64) float64 {
	m := a
	for m >= b {
		m -= b
	}
	for m < 0 {
		m += b
	}
	return m
}

// applyMasterAndAdvance applies master gain/clamp to the accumulated mix in
// place, updates the master peak meters, and advances the playhead.
func applyMasterAndAdvance(s *scene.Scene, mixL, mixR []float32, n int, secondsPerFrame, secondsPerBeat float64) {
	master := s.MasterVolume
	var peakL, peakR = s.MasterMeter.L, s.MasterMeter.R

	for f := 0; f < n; f++ {
		l := clamp1(mixL[f] * master)
		r := clamp1(mixR[f] * master)
		mixL[f] = l
		mixR[f] = r
		peakL = track.UpdatePeak(peakL, l)
		peakR = track.UpdatePeak(peakR, r)
	}
	s.MasterMeter.L = peakL
	s.MasterMeter.R = peakR

	s.Transport.PositionSeconds += float64(n) * secondsPerFrame
	s.Transport.PositionBeats += float64(n) * secondsPerFrame / secondsPerBeat

	if s.Transport.LoopOn && s.Transport.PositionBeats >= s.Transport.LoopEnd {
		s.Transport.PositionBeats = s.Transport.LoopStart
		s.Transport.PositionSeconds = s.Transport.LoopStart * secondsPerBeat
	}
}

func clamp1(v float32) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
